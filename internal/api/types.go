package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/akram-999/doctor-booking-app/internal/booking"
	"github.com/akram-999/doctor-booking-app/internal/doctor"
)

// BookingService is what the slot and appointment handlers need from the
// booking core.
type BookingService interface {
	ListTimeSlots(ctx context.Context) ([]booking.TimeSlot, error)
	CreateTimeSlot(ctx context.Context, in booking.TimeSlotInput) (*booking.TimeSlot, error)
	UpdateTimeSlot(ctx context.Context, id uuid.UUID, patch booking.TimeSlotPatch) (*booking.TimeSlot, error)
	DeleteTimeSlot(ctx context.Context, id uuid.UUID) error

	ListAppointments(ctx context.Context) ([]booking.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*booking.Appointment, error)
	BookAppointment(ctx context.Context, req booking.BookingRequest) (*booking.Appointment, error)
	SetAppointmentStatus(ctx context.Context, id uuid.UUID, status booking.AppointmentStatus) (*booking.Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
}

type DoctorService interface {
	Register(ctx context.Context, in doctor.RegisterInput) (*doctor.Doctor, error)
	Login(ctx context.Context, email, password string) (*doctor.Doctor, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch doctor.ProfilePatch) (*doctor.Doctor, error)
}

// Requests

type CreateTimeSlotRequest struct {
	DayOfWeek       string `json:"dayOfWeek" validate:"required"`
	StartTime       string `json:"startTime" validate:"required"`
	EndTime         string `json:"endTime" validate:"required"`
	MaxAppointments int    `json:"maxAppointments" validate:"required,min=1"`
}

type UpdateTimeSlotRequest struct {
	DayOfWeek       *string `json:"dayOfWeek"`
	StartTime       *string `json:"startTime"`
	EndTime         *string `json:"endTime"`
	MaxAppointments *int    `json:"maxAppointments" validate:"omitempty,min=1"`
	IsAvailable     *bool   `json:"isAvailable"`
}

type CreateAppointmentRequest struct {
	PatientName     string  `json:"patientName" validate:"required"`
	PatientEmail    string  `json:"patientEmail" validate:"required,email"`
	PatientPhone    string  `json:"patientPhone" validate:"required"`
	AppointmentDate string  `json:"appointmentDate" validate:"required"`
	StartTime       string  `json:"startTime" validate:"required"`
	EndTime         string  `json:"endTime" validate:"required"`
	Reason          string  `json:"reason" validate:"required"`
	Notes           *string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type RegisterDoctorRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=6"`
	Specialization string  `json:"specialization" validate:"required"`
	Experience     int     `json:"experience" validate:"min=0"`
	Qualification  string  `json:"qualification" validate:"required"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profilePicture"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Password       *string `json:"password" validate:"omitempty,min=6"`
	Specialization *string `json:"specialization"`
	Experience     *int    `json:"experience" validate:"omitempty,min=0"`
	Qualification  *string `json:"qualification"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profilePicture"`
}

// Responses

type TimeSlotResponse struct {
	ID                  uuid.UUID `json:"id"`
	DayOfWeek           string    `json:"dayOfWeek"`
	StartTime           string    `json:"startTime"`
	EndTime             string    `json:"endTime"`
	IsAvailable         bool      `json:"isAvailable"`
	MaxAppointments     int       `json:"maxAppointments"`
	CurrentAppointments int       `json:"currentAppointments"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	SlotID          uuid.UUID `json:"slotId"`
	PatientName     string    `json:"patientName"`
	PatientEmail    string    `json:"patientEmail"`
	PatientPhone    string    `json:"patientPhone"`
	AppointmentDate string    `json:"appointmentDate"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	Status          string    `json:"status"`
	Reason          string    `json:"reason"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type DoctorResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Specialization string    `json:"specialization"`
	Experience     int       `json:"experience"`
	Qualification  string    `json:"qualification"`
	Bio            *string   `json:"bio,omitempty"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// DoctorSummary is the shape returned next to a session token.
type DoctorSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Specialization string    `json:"specialization"`
}

type AuthResponse struct {
	Token  string        `json:"token"`
	Doctor DoctorSummary `json:"doctor"`
}

func toTimeSlotResponse(s booking.TimeSlot) TimeSlotResponse {
	return TimeSlotResponse{
		ID:                  s.ID,
		DayOfWeek:           s.DayOfWeek,
		StartTime:           s.StartTime,
		EndTime:             s.EndTime,
		IsAvailable:         s.IsAvailable,
		MaxAppointments:     s.MaxAppointments,
		CurrentAppointments: s.CurrentAppointments,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func toAppointmentResponse(a booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		SlotID:          a.SlotID,
		PatientName:     a.PatientName,
		PatientEmail:    a.PatientEmail,
		PatientPhone:    a.PatientPhone,
		AppointmentDate: a.AppointmentDate.Format("2006-01-02"),
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		Status:          string(a.Status),
		Reason:          a.Reason,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toDoctorResponse(d doctor.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:             d.ID,
		Name:           d.Name,
		Email:          d.Email,
		Specialization: d.Specialization,
		Experience:     d.Experience,
		Qualification:  d.Qualification,
		Bio:            d.Bio,
		ProfilePicture: d.ProfilePicture,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func toDoctorSummary(d doctor.Doctor) DoctorSummary {
	return DoctorSummary{
		ID:             d.ID,
		Name:           d.Name,
		Email:          d.Email,
		Specialization: d.Specialization,
	}
}
