package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrSlotNotFound        = errors.New("time slot not found")
	ErrSlotUnavailable     = errors.New("time slot is not available")
	ErrSlotOccupied        = errors.New("time slot has booked appointments")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
// The multi-table mutations (admission, status changes, deletes) run as
// single transactions so occupancy and appointment rows never diverge.
type Repository interface {
	ListSlots(ctx context.Context) ([]TimeSlot, error)
	GetSlotByID(ctx context.Context, id uuid.UUID) (*TimeSlot, error)

	// FindAvailableSlot matches by exact (startTime, endTime) string
	// equality with is_available = true.
	FindAvailableSlot(ctx context.Context, startTime, endTime string) (*TimeSlot, error)

	CreateSlot(ctx context.Context, in TimeSlotInput) (*TimeSlot, error)
	UpdateSlot(ctx context.Context, id uuid.UUID, patch TimeSlotPatch) (*TimeSlot, error)

	// DeleteSlot refuses to remove a slot that still carries occupancy.
	DeleteSlot(ctx context.Context, id uuid.UUID) error

	ListAppointments(ctx context.Context) ([]Appointment, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// AdmitAppointment charges the slot's capacity and inserts the
	// appointment in one transaction. The capacity check and increment are
	// a single conditional UPDATE; zero rows affected means the slot
	// filled up and the whole admission fails with ErrSlotUnavailable.
	AdmitAppointment(ctx context.Context, slotID uuid.UUID, req BookingRequest) (*Appointment, error)

	// SetAppointmentStatus updates the status label. Moving into cancelled
	// releases the occupied slot's capacity; moving back out re-charges it
	// and fails with ErrSlotUnavailable if the slot has since filled.
	SetAppointmentStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) (*Appointment, error)

	// DeleteAppointment removes the record and releases its capacity
	// charge unless the appointment was already cancelled.
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	// RecountOccupancy repairs current_appointments from the non-cancelled
	// appointments referencing each slot. Returns the number of slots fixed.
	RecountOccupancy(ctx context.Context) (int64, error)
}
