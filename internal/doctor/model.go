package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is the single admin principal of the system. Password holds the
// bcrypt hash and must never leave the service layer.
type Doctor struct {
	ID             uuid.UUID
	Name           string
	Email          string
	Password       string
	Specialization string
	Experience     int
	Qualification  string
	Bio            *string
	ProfilePicture *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Specialization string
	Experience     int
	Qualification  string
	Bio            *string
	ProfilePicture *string
}

// ProfilePatch carries a partial profile update; nil fields are untouched.
// A non-nil Password triggers a re-hash.
type ProfilePatch struct {
	Name           *string
	Email          *string
	Password       *string
	Specialization *string
	Experience     *int
	Qualification  *string
	Bio            *string
	ProfilePicture *string
}
