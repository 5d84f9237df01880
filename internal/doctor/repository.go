package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrDoctorExists   = errors.New("doctor already exists")
)

type Repository interface {
	Create(ctx context.Context, d Doctor) (*Doctor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByEmail(ctx context.Context, email string) (*Doctor, error)
	Update(ctx context.Context, d Doctor) (*Doctor, error)
}
