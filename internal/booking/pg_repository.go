package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const slotColumns = `id, day_of_week, start_time, end_time, is_available, max_appointments, current_appointments, created_at, updated_at`

const appointmentColumns = `id, slot_id, patient_name, patient_email, patient_phone, appointment_date, start_time, end_time, status, reason, notes, created_at, updated_at`

// Helpers

func scanSlot(row pgx.Row) (*TimeSlot, error) {
	var s TimeSlot

	err := row.Scan(
		&s.ID,
		&s.DayOfWeek,
		&s.StartTime,
		&s.EndTime,
		&s.IsAvailable,
		&s.MaxAppointments,
		&s.CurrentAppointments,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &s, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var notes *string

	err := row.Scan(
		&a.ID,
		&a.SlotID,
		&a.PatientName,
		&a.PatientEmail,
		&a.PatientPhone,
		&a.AppointmentDate,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.Reason,
		&notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Notes = notes
	return &a, nil
}

// Interface methods

func (r *PgRepository) ListSlots(ctx context.Context) ([]TimeSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+slotColumns+`
		FROM time_slots
		ORDER BY array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'], day_of_week),
		         start_time
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TimeSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetSlotByID(ctx context.Context, id uuid.UUID) (*TimeSlot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+slotColumns+`
		FROM time_slots
		WHERE id = $1
	`, id)
	return scanSlot(row)
}

func (r *PgRepository) FindAvailableSlot(ctx context.Context, startTime, endTime string) (*TimeSlot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+slotColumns+`
		FROM time_slots
		WHERE start_time = $1 AND end_time = $2 AND is_available = true
		LIMIT 1
	`, startTime, endTime)
	return scanSlot(row)
}

func (r *PgRepository) CreateSlot(ctx context.Context, in TimeSlotInput) (*TimeSlot, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO time_slots (id, day_of_week, start_time, end_time, is_available, max_appointments, current_appointments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, true, $5, 0, now(), now())
		RETURNING `+slotColumns+`
	`, id, in.DayOfWeek, in.StartTime, in.EndTime, in.MaxAppointments)

	return scanSlot(row)
}

func (r *PgRepository) UpdateSlot(ctx context.Context, id uuid.UUID, patch TimeSlotPatch) (*TimeSlot, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	slot, err := scanSlot(tx.QueryRow(ctx, `
		SELECT `+slotColumns+`
		FROM time_slots
		WHERE id = $1
		FOR UPDATE
	`, id))
	if err != nil {
		return nil, err
	}

	if patch.DayOfWeek != nil {
		slot.DayOfWeek = *patch.DayOfWeek
	}
	if patch.StartTime != nil {
		slot.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		slot.EndTime = *patch.EndTime
	}
	if patch.MaxAppointments != nil {
		slot.MaxAppointments = *patch.MaxAppointments
		// Capacity changed, recompute availability from occupancy.
		slot.IsAvailable = slot.CurrentAppointments < slot.MaxAppointments
	}
	if patch.IsAvailable != nil {
		// Explicit admin override wins over the recompute.
		slot.IsAvailable = *patch.IsAvailable
	}

	updated, err := scanSlot(tx.QueryRow(ctx, `
		UPDATE time_slots
		SET day_of_week = $2,
		    start_time = $3,
		    end_time = $4,
		    is_available = $5,
		    max_appointments = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+slotColumns+`
	`, id, slot.DayOfWeek, slot.StartTime, slot.EndTime, slot.IsAvailable, slot.MaxAppointments))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *PgRepository) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var occupancy int
	err = tx.QueryRow(ctx, `
		SELECT current_appointments
		FROM time_slots
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&occupancy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSlotNotFound
		}
		return err
	}

	if occupancy > 0 {
		return ErrSlotOccupied
	}

	if _, err := tx.Exec(ctx, `DELETE FROM time_slots WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PgRepository) ListAppointments(ctx context.Context) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY appointment_date ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) AdmitAppointment(ctx context.Context, slotID uuid.UUID, req BookingRequest) (*Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Capacity check and charge as one conditional update. Two concurrent
	// admissions for the last seat cannot both pass this. The CASE leaves
	// is_available alone when it differs from the derived value, which is
	// how an admin override is represented.
	var charged uuid.UUID
	err = tx.QueryRow(ctx, `
		UPDATE time_slots
		SET current_appointments = current_appointments + 1,
		    is_available = CASE
		        WHEN is_available = (current_appointments < max_appointments)
		        THEN current_appointments + 1 < max_appointments
		        ELSE is_available
		    END,
		    updated_at = now()
		WHERE id = $1
		  AND current_appointments < max_appointments
		RETURNING id
	`, slotID).Scan(&charged)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("charge slot capacity: %w", err)
	}

	id := uuid.New()
	appt, err := scanAppointment(tx.QueryRow(ctx, `
		INSERT INTO appointments (id, slot_id, patient_name, patient_email, patient_phone, appointment_date, start_time, end_time, status, reason, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'scheduled', $9, $10, now(), now())
		RETURNING `+appointmentColumns+`
	`, id, slotID, req.PatientName, req.PatientEmail, req.PatientPhone, req.AppointmentDate, req.StartTime, req.EndTime, req.Reason, req.Notes))
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return appt, nil
}

func (r *PgRepository) SetAppointmentStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) (*Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	appt, err := scanAppointment(tx.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`, id))
	if err != nil {
		return nil, err
	}

	switch {
	case appt.Status != StatusCancelled && status == StatusCancelled:
		if err := releaseSlot(ctx, tx, appt.SlotID); err != nil {
			return nil, err
		}
	case appt.Status == StatusCancelled && status != StatusCancelled:
		if err := chargeSlot(ctx, tx, appt.SlotID); err != nil {
			return nil, err
		}
	}

	updated, err := scanAppointment(tx.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, status))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *PgRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	appt, err := scanAppointment(tx.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`, id))
	if err != nil {
		return err
	}

	// Cancelled appointments already gave their capacity charge back.
	if appt.Status != StatusCancelled {
		if err := releaseSlot(ctx, tx, appt.SlotID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PgRepository) RecountOccupancy(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE time_slots ts
		SET current_appointments = sub.cnt,
		    is_available = CASE
		        WHEN ts.is_available = (ts.current_appointments < ts.max_appointments)
		        THEN sub.cnt < ts.max_appointments
		        ELSE ts.is_available
		    END,
		    updated_at = now()
		FROM (
			SELECT s.id, COUNT(a.id) AS cnt
			FROM time_slots s
			LEFT JOIN appointments a
			  ON a.slot_id = s.id AND a.status <> 'cancelled'
			GROUP BY s.id
		) sub
		WHERE sub.id = ts.id
		  AND ts.current_appointments <> sub.cnt
	`)
	if err != nil {
		return 0, fmt.Errorf("recount occupancy: %w", err)
	}

	return tag.RowsAffected(), nil
}

// releaseSlot returns one capacity charge to the slot, flooring at zero in
// case the occupancy was already repaired out of band. A slot whose stored
// is_available differs from the occupancy-derived value was manually
// overridden by an admin; releasing a seat must not undo that.
func releaseSlot(ctx context.Context, tx pgx.Tx, slotID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE time_slots
		SET current_appointments = GREATEST(current_appointments - 1, 0),
		    is_available = CASE
		        WHEN is_available = (current_appointments < max_appointments)
		        THEN GREATEST(current_appointments - 1, 0) < max_appointments
		        ELSE is_available
		    END,
		    updated_at = now()
		WHERE id = $1
	`, slotID)
	if err != nil {
		return fmt.Errorf("release slot capacity: %w", err)
	}
	return nil
}

// chargeSlot re-applies a capacity charge when an appointment leaves the
// cancelled state; fails if the slot has filled in the meantime.
func chargeSlot(ctx context.Context, tx pgx.Tx, slotID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		UPDATE time_slots
		SET current_appointments = current_appointments + 1,
		    is_available = CASE
		        WHEN is_available = (current_appointments < max_appointments)
		        THEN current_appointments + 1 < max_appointments
		        ELSE is_available
		    END,
		    updated_at = now()
		WHERE id = $1
		  AND current_appointments < max_appointments
		RETURNING id
	`, slotID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSlotUnavailable
		}
		return fmt.Errorf("charge slot capacity: %w", err)
	}
	return nil
}
