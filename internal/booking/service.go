package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	redisclient "github.com/akram-999/doctor-booking-app/internal/redis"
)

var (
	ErrInvalidDayOfWeek  = errors.New("dayOfWeek must be a weekday name")
	ErrInvalidTimeFormat = errors.New("times must be in HH:MM format")
	ErrInvalidCapacity   = errors.New("maxAppointments must be at least 1")
	ErrInvalidStatus     = errors.New("status must be scheduled, completed or cancelled")
	ErrSlotContended     = errors.New("slot is currently being booked, please retry")
)

type Service struct {
	repo   Repository
	locker redisclient.Locker
	log    *zap.Logger
}

func NewService(repo Repository, locker redisclient.Locker, log *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		log:    log,
	}
}

// Time slot registry

func (s *Service) ListTimeSlots(ctx context.Context) ([]TimeSlot, error) {
	slots, err := s.repo.ListSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

func (s *Service) CreateTimeSlot(ctx context.Context, in TimeSlotInput) (*TimeSlot, error) {
	if !ValidDayOfWeek(in.DayOfWeek) {
		return nil, ErrInvalidDayOfWeek
	}
	if !validClockTime(in.StartTime) || !validClockTime(in.EndTime) {
		return nil, ErrInvalidTimeFormat
	}
	if in.MaxAppointments < 1 {
		return nil, ErrInvalidCapacity
	}

	slot, err := s.repo.CreateSlot(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create time slot: %w", err)
	}

	s.log.Info("time slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("day", slot.DayOfWeek),
		zap.String("start", slot.StartTime),
		zap.Int("capacity", slot.MaxAppointments),
	)

	return slot, nil
}

func (s *Service) UpdateTimeSlot(ctx context.Context, id uuid.UUID, patch TimeSlotPatch) (*TimeSlot, error) {
	if patch.DayOfWeek != nil && !ValidDayOfWeek(*patch.DayOfWeek) {
		return nil, ErrInvalidDayOfWeek
	}
	if patch.StartTime != nil && !validClockTime(*patch.StartTime) {
		return nil, ErrInvalidTimeFormat
	}
	if patch.EndTime != nil && !validClockTime(*patch.EndTime) {
		return nil, ErrInvalidTimeFormat
	}
	if patch.MaxAppointments != nil && *patch.MaxAppointments < 1 {
		return nil, ErrInvalidCapacity
	}

	slot, err := s.repo.UpdateSlot(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *Service) DeleteTimeSlot(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteSlot(ctx, id)
}

// Appointment ledger

func (s *Service) ListAppointments(ctx context.Context) ([]Appointment, error) {
	appts, err := s.repo.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetAppointmentByID(ctx, id)
}

func (s *Service) SetAppointmentStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) (*Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.SetAppointmentStatus(ctx, id, status)
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAppointment(ctx, id)
}

// BookAppointment admits a booking request against a finite-capacity slot.
// The slot is matched by exact (startTime, endTime) string equality; a window
// that does not exist, was disabled, or is at capacity all surface as
// ErrSlotUnavailable. Admission runs under a per-slot distributed lock so
// concurrent requests serialize, and the repository applies the capacity
// charge and the appointment insert as one transaction.
func (s *Service) BookAppointment(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if !validClockTime(req.StartTime) || !validClockTime(req.EndTime) {
		return nil, ErrInvalidTimeFormat
	}

	slot, err := s.repo.FindAvailableSlot(ctx, req.StartTime, req.EndTime)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("find slot: %w", err)
	}

	var admitted *Appointment

	err = s.locker.WithSlotLock(ctx, slot.ID, func(lockCtx context.Context) error {
		appt, err := s.repo.AdmitAppointment(lockCtx, slot.ID, req)
		if err != nil {
			return err
		}
		admitted = appt
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotContended
		}
		if errors.Is(err, ErrSlotUnavailable) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("admit appointment: %w", err)
	}

	s.log.Info("appointment admitted",
		zap.String("appointment_id", admitted.ID.String()),
		zap.String("slot_id", slot.ID.String()),
		zap.String("date", admitted.AppointmentDate.Format("2006-01-02")),
	)

	return admitted, nil
}

// ReconcileOccupancy is called periodically by the reconcile worker to repair
// slot occupancy drift against the appointments table.
func (s *Service) ReconcileOccupancy(ctx context.Context) error {
	fixed, err := s.repo.RecountOccupancy(ctx)
	if err != nil {
		return fmt.Errorf("reconcile occupancy: %w", err)
	}
	if fixed > 0 {
		s.log.Warn("repaired slot occupancy drift", zap.Int64("slots", fixed))
	}
	return nil
}

func validClockTime(v string) bool {
	_, err := time.Parse("15:04", v)
	return err == nil
}
