package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrNegativeExperience = errors.New("experience must be zero or more years")
)

type Service struct {
	repo       Repository
	bcryptCost int
	log        *zap.Logger
}

func NewService(repo Repository, bcryptCost int, log *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// Register creates the doctor account. The password is bcrypt-hashed before
// it ever reaches the repository. A duplicate email fails with ErrDoctorExists.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Doctor, error) {
	if len(in.Password) < 6 {
		return nil, ErrPasswordTooShort
	}
	if in.Experience < 0 {
		return nil, ErrNegativeExperience
	}

	if existing, err := s.repo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, ErrDoctorExists
	} else if err != nil && !errors.Is(err, ErrDoctorNotFound) {
		return nil, fmt.Errorf("check existing doctor: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, Doctor{
		Name:           in.Name,
		Email:          in.Email,
		Password:       string(hash),
		Specialization: in.Specialization,
		Experience:     in.Experience,
		Qualification:  in.Qualification,
		Bio:            in.Bio,
		ProfilePicture: in.ProfilePicture,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("doctor registered",
		zap.String("doctor_id", created.ID.String()),
		zap.String("email", created.Email),
	)

	return created, nil
}

// Login compares the supplied password against the stored bcrypt hash.
// Unknown emails fail with ErrDoctorNotFound, wrong passwords with
// ErrInvalidCredentials; callers map those to 404 and 401 respectively.
func (s *Service) Login(ctx context.Context, email, password string) (*Doctor, error) {
	d, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(d.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return d, nil
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies a partial update. The password is only re-hashed
// when the patch carries one.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.Email != nil {
		d.Email = *patch.Email
	}
	if patch.Specialization != nil {
		d.Specialization = *patch.Specialization
	}
	if patch.Experience != nil {
		if *patch.Experience < 0 {
			return nil, ErrNegativeExperience
		}
		d.Experience = *patch.Experience
	}
	if patch.Qualification != nil {
		d.Qualification = *patch.Qualification
	}
	if patch.Bio != nil {
		d.Bio = patch.Bio
	}
	if patch.ProfilePicture != nil {
		d.ProfilePicture = patch.ProfilePicture
	}
	if patch.Password != nil {
		if len(*patch.Password) < 6 {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		d.Password = string(hash)
	}

	return s.repo.Update(ctx, *d)
}
