package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const doctorColumns = `id, name, email, password, specialization, experience, qualification, bio, profile_picture, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var bio, picture *string

	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Email,
		&d.Password,
		&d.Specialization,
		&d.Experience,
		&d.Qualification,
		&bio,
		&picture,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	d.Bio = bio
	d.ProfilePicture = picture
	return &d, nil
}

func (r *PgRepository) Create(ctx context.Context, d Doctor) (*Doctor, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctors (id, name, email, password, specialization, experience, qualification, bio, profile_picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING `+doctorColumns+`
	`, id, d.Name, d.Email, d.Password, d.Specialization, d.Experience, d.Qualification, d.Bio, d.ProfilePicture)

	created, err := scanDoctor(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDoctorExists
		}
		return nil, err
	}

	return created, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) GetByEmail(ctx context.Context, email string) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		WHERE email = $1
	`, email)
	return scanDoctor(row)
}

func (r *PgRepository) Update(ctx context.Context, d Doctor) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE doctors
		SET name = $2,
		    email = $3,
		    password = $4,
		    specialization = $5,
		    experience = $6,
		    qualification = $7,
		    bio = $8,
		    profile_picture = $9,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+doctorColumns+`
	`, d.ID, d.Name, d.Email, d.Password, d.Specialization, d.Experience, d.Qualification, d.Bio, d.ProfilePicture)

	updated, err := scanDoctor(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDoctorExists
		}
		return nil, err
	}

	return updated, nil
}
