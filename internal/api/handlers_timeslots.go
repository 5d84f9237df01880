package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/akram-999/doctor-booking-app/internal/booking"
)

func listTimeSlotsHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slots, err := svc.ListTimeSlots(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]TimeSlotResponse, 0, len(slots))
		for _, s := range slots {
			resp = append(resp, toTimeSlotResponse(s))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func createTimeSlotHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTimeSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		slot, err := svc.CreateTimeSlot(r.Context(), booking.TimeSlotInput{
			DayOfWeek:       req.DayOfWeek,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			MaxAppointments: req.MaxAppointments,
		})
		if err != nil {
			handleSlotError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toTimeSlotResponse(*slot))
	}
}

func updateTimeSlotHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot_id", "id must be a valid UUID")
			return
		}

		var req UpdateTimeSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		slot, err := svc.UpdateTimeSlot(r.Context(), id, booking.TimeSlotPatch{
			DayOfWeek:       req.DayOfWeek,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			MaxAppointments: req.MaxAppointments,
			IsAvailable:     req.IsAvailable,
		})
		if err != nil {
			handleSlotError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toTimeSlotResponse(*slot))
	}
}

func deleteTimeSlotHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot_id", "id must be a valid UUID")
			return
		}

		if err := svc.DeleteTimeSlot(r.Context(), id); err != nil {
			handleSlotError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Time slot deleted successfully"})
	}
}

func handleSlotError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, "slot_not_found", "Time slot not found")
	case errors.Is(err, booking.ErrSlotOccupied):
		writeError(w, http.StatusConflict, "slot_occupied", "Time slot still has booked appointments")
	case errors.Is(err, booking.ErrInvalidDayOfWeek),
		errors.Is(err, booking.ErrInvalidTimeFormat),
		errors.Is(err, booking.ErrInvalidCapacity):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
