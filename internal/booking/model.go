package booking

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Weekdays in calendar order; day_of_week values must be one of these.
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

func ValidDayOfWeek(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// TimeSlot is a weekly recurring bookable window with a finite capacity.
// Start and end times are wall-clock HH:MM strings; appointments match slots
// by exact string equality on those values.
type TimeSlot struct {
	ID                  uuid.UUID
	DayOfWeek           string
	StartTime           string
	EndTime             string
	IsAvailable         bool
	MaxAppointments     int
	CurrentAppointments int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Appointment struct {
	ID              uuid.UUID
	SlotID          uuid.UUID
	PatientName     string
	PatientEmail    string
	PatientPhone    string
	AppointmentDate time.Time // date only, presented as YYYY-MM-DD
	StartTime       string
	EndTime         string
	Status          AppointmentStatus
	Reason          string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type TimeSlotInput struct {
	DayOfWeek       string
	StartTime       string
	EndTime         string
	MaxAppointments int
}

// TimeSlotPatch carries a partial update; nil fields are left untouched.
type TimeSlotPatch struct {
	DayOfWeek       *string
	StartTime       *string
	EndTime         *string
	MaxAppointments *int
	IsAvailable     *bool
}

// BookingRequest is a candidate appointment prior to admission.
type BookingRequest struct {
	PatientName     string
	PatientEmail    string
	PatientPhone    string
	AppointmentDate time.Time
	StartTime       string
	EndTime         string
	Reason          string
	Notes           *string
}
