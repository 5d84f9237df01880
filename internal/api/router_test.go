package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akram-999/doctor-booking-app/internal/api"
	"github.com/akram-999/doctor-booking-app/internal/auth"
	"github.com/akram-999/doctor-booking-app/internal/booking"
	"github.com/akram-999/doctor-booking-app/internal/doctor"
)

// stubBooking implements api.BookingService with overridable hooks.
type stubBooking struct {
	bookFn      func(context.Context, booking.BookingRequest) (*booking.Appointment, error)
	setStatusFn func(context.Context, uuid.UUID, booking.AppointmentStatus) (*booking.Appointment, error)
	deleteSlotFn func(context.Context, uuid.UUID) error
}

func (s *stubBooking) ListTimeSlots(ctx context.Context) ([]booking.TimeSlot, error) {
	return nil, nil
}

func (s *stubBooking) CreateTimeSlot(ctx context.Context, in booking.TimeSlotInput) (*booking.TimeSlot, error) {
	return &booking.TimeSlot{
		ID:              uuid.New(),
		DayOfWeek:       in.DayOfWeek,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		IsAvailable:     true,
		MaxAppointments: in.MaxAppointments,
	}, nil
}

func (s *stubBooking) UpdateTimeSlot(ctx context.Context, id uuid.UUID, patch booking.TimeSlotPatch) (*booking.TimeSlot, error) {
	return nil, booking.ErrSlotNotFound
}

func (s *stubBooking) DeleteTimeSlot(ctx context.Context, id uuid.UUID) error {
	if s.deleteSlotFn != nil {
		return s.deleteSlotFn(ctx, id)
	}
	return nil
}

func (s *stubBooking) ListAppointments(ctx context.Context) ([]booking.Appointment, error) {
	return nil, nil
}

func (s *stubBooking) GetAppointment(ctx context.Context, id uuid.UUID) (*booking.Appointment, error) {
	return nil, booking.ErrAppointmentNotFound
}

func (s *stubBooking) BookAppointment(ctx context.Context, req booking.BookingRequest) (*booking.Appointment, error) {
	if s.bookFn != nil {
		return s.bookFn(ctx, req)
	}
	return nil, booking.ErrSlotUnavailable
}

func (s *stubBooking) SetAppointmentStatus(ctx context.Context, id uuid.UUID, status booking.AppointmentStatus) (*booking.Appointment, error) {
	if s.setStatusFn != nil {
		return s.setStatusFn(ctx, id, status)
	}
	return nil, booking.ErrAppointmentNotFound
}

func (s *stubBooking) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return booking.ErrAppointmentNotFound
}

// stubDoctors implements api.DoctorService.
type stubDoctors struct {
	registerFn func(context.Context, doctor.RegisterInput) (*doctor.Doctor, error)
	loginFn    func(context.Context, string, string) (*doctor.Doctor, error)
	profileFn  func(context.Context, uuid.UUID) (*doctor.Doctor, error)
}

func (s *stubDoctors) Register(ctx context.Context, in doctor.RegisterInput) (*doctor.Doctor, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, in)
	}
	return &doctor.Doctor{ID: uuid.New(), Name: in.Name, Email: in.Email, Specialization: in.Specialization}, nil
}

func (s *stubDoctors) Login(ctx context.Context, email, password string) (*doctor.Doctor, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, email, password)
	}
	return nil, doctor.ErrDoctorNotFound
}

func (s *stubDoctors) GetProfile(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	if s.profileFn != nil {
		return s.profileFn(ctx, id)
	}
	return nil, doctor.ErrDoctorNotFound
}

func (s *stubDoctors) UpdateProfile(ctx context.Context, id uuid.UUID, patch doctor.ProfilePatch) (*doctor.Doctor, error) {
	return nil, doctor.ErrDoctorNotFound
}

func newTestRouter(b *stubBooking, d *stubDoctors, tokens *auth.Manager) http.Handler {
	if tokens == nil {
		tokens = auth.NewManager("test-secret", time.Hour)
	}
	return api.NewRouter(api.RouterConfig{
		Booking: b,
		Doctors: d,
		Tokens:  tokens,
		Log:     zap.NewNop(),
		Env:     "test",
		Version: "test",
	})
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAppointmentValidation(t *testing.T) {
	h := newTestRouter(&stubBooking{}, &stubDoctors{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{"broken json", `{"patientName": `},
		{"missing email", `{"patientName":"Jane","patientPhone":"555","appointmentDate":"2026-09-07","startTime":"09:00","endTime":"10:00","reason":"checkup"}`},
		{"bad email", `{"patientName":"Jane","patientEmail":"not-an-email","patientPhone":"555","appointmentDate":"2026-09-07","startTime":"09:00","endTime":"10:00","reason":"checkup"}`},
		{"bad date", `{"patientName":"Jane","patientEmail":"j@example.com","patientPhone":"555","appointmentDate":"next tuesday","startTime":"09:00","endTime":"10:00","reason":"checkup"}`},
		{"missing reason", `{"patientName":"Jane","patientEmail":"j@example.com","patientPhone":"555","appointmentDate":"2026-09-07","startTime":"09:00","endTime":"10:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/appointments", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateAppointmentSlotUnavailable(t *testing.T) {
	h := newTestRouter(&stubBooking{}, &stubDoctors{}, nil)

	body := `{"patientName":"Jane","patientEmail":"j@example.com","patientPhone":"555","appointmentDate":"2026-09-07","startTime":"09:00","endTime":"10:00","reason":"checkup"}`
	rec := doRequest(t, h, http.MethodPost, "/api/appointments", body, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "slot_unavailable", resp.Error)
	assert.Equal(t, "Time slot is not available", resp.Details)
}

func TestCreateAppointmentAdmitted(t *testing.T) {
	slotID := uuid.New()
	stub := &stubBooking{
		bookFn: func(ctx context.Context, req booking.BookingRequest) (*booking.Appointment, error) {
			return &booking.Appointment{
				ID:              uuid.New(),
				SlotID:          slotID,
				PatientName:     req.PatientName,
				PatientEmail:    req.PatientEmail,
				PatientPhone:    req.PatientPhone,
				AppointmentDate: req.AppointmentDate,
				StartTime:       req.StartTime,
				EndTime:         req.EndTime,
				Status:          booking.StatusScheduled,
				Reason:          req.Reason,
			}, nil
		},
	}
	h := newTestRouter(stub, &stubDoctors{}, nil)

	body := `{"patientName":"Jane","patientEmail":"j@example.com","patientPhone":"555","appointmentDate":"2026-09-07","startTime":"09:00","endTime":"10:00","reason":"checkup"}`
	rec := doRequest(t, h, http.MethodPost, "/api/appointments", body, nil)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-09-07", resp.AppointmentDate)
	assert.Equal(t, "scheduled", resp.Status)
	assert.Equal(t, slotID, resp.SlotID)
	assert.Equal(t, "09:00", resp.StartTime)
}

func TestCreateAppointmentLockContention(t *testing.T) {
	stub := &stubBooking{
		bookFn: func(ctx context.Context, req booking.BookingRequest) (*booking.Appointment, error) {
			return nil, booking.ErrSlotContended
		},
	}
	h := newTestRouter(stub, &stubDoctors{}, nil)

	body := `{"patientName":"Jane","patientEmail":"j@example.com","patientPhone":"555","appointmentDate":"2026-09-07","startTime":"09:00","endTime":"10:00","reason":"checkup"}`
	rec := doRequest(t, h, http.MethodPost, "/api/appointments", body, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "slot_being_booked", resp.Error)
}

func TestUpdateAppointmentStatus(t *testing.T) {
	stub := &stubBooking{
		setStatusFn: func(ctx context.Context, id uuid.UUID, status booking.AppointmentStatus) (*booking.Appointment, error) {
			if !status.Valid() {
				return nil, booking.ErrInvalidStatus
			}
			return nil, booking.ErrAppointmentNotFound
		},
	}
	h := newTestRouter(stub, &stubDoctors{}, nil)

	rec := doRequest(t, h, http.MethodPatch, "/api/appointments/not-a-uuid/status", `{"status":"completed"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodPatch, "/api/appointments/"+uuid.NewString()+"/status", `{"status":"postponed"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodPatch, "/api/appointments/"+uuid.NewString()+"/status", `{"status":"completed"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTimeSlotMapping(t *testing.T) {
	stub := &stubBooking{
		deleteSlotFn: func(ctx context.Context, id uuid.UUID) error {
			return booking.ErrSlotOccupied
		},
	}
	h := newTestRouter(stub, &stubDoctors{}, nil)

	rec := doRequest(t, h, http.MethodDelete, "/api/time-slots/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateTimeSlotRejectsZeroCapacity(t *testing.T) {
	h := newTestRouter(&stubBooking{}, &stubDoctors{}, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/time-slots",
		`{"dayOfWeek":"Monday","startTime":"09:00","endTime":"10:00","maxAppointments":0}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateDoctor(t *testing.T) {
	d := &stubDoctors{
		registerFn: func(ctx context.Context, in doctor.RegisterInput) (*doctor.Doctor, error) {
			return nil, doctor.ErrDoctorExists
		},
	}
	h := newTestRouter(&stubBooking{}, d, nil)

	body := `{"name":"Dr. A","email":"a@example.com","password":"secret1","specialization":"GP","experience":5,"qualification":"MBBS"}`
	rec := doRequest(t, h, http.MethodPost, "/api/doctors/register", body, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Doctor already exists", resp.Details)
}

func TestLoginMapping(t *testing.T) {
	d := &stubDoctors{
		loginFn: func(ctx context.Context, email, password string) (*doctor.Doctor, error) {
			if email != "a@example.com" {
				return nil, doctor.ErrDoctorNotFound
			}
			if password != "secret1" {
				return nil, doctor.ErrInvalidCredentials
			}
			return &doctor.Doctor{ID: uuid.New(), Name: "Dr. A", Email: email, Specialization: "GP"}, nil
		},
	}
	h := newTestRouter(&stubBooking{}, d, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/doctors/login", `{"email":"b@example.com","password":"secret1"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/doctors/login", `{"email":"a@example.com","password":"wrong-1"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/doctors/login", `{"email":"a@example.com","password":"secret1"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "a@example.com", resp.Doctor.Email)
}

func TestProfileAuth(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	doctorID := uuid.New()

	d := &stubDoctors{
		profileFn: func(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
			if id != doctorID {
				return nil, doctor.ErrDoctorNotFound
			}
			return &doctor.Doctor{
				ID:             doctorID,
				Name:           "Dr. A",
				Email:          "a@example.com",
				Password:       "bcrypt-hash-should-never-leak",
				Specialization: "GP",
				Experience:     5,
				Qualification:  "MBBS",
			}, nil
		},
	}
	h := newTestRouter(&stubBooking{}, d, tokens)

	// No token
	rec := doRequest(t, h, http.MethodGet, "/api/doctors/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbled token
	rec = doRequest(t, h, http.MethodGet, "/api/doctors/profile", "", map[string]string{
		"Authorization": "Bearer garbage.token.here",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Expired token
	expired := auth.NewManager("test-secret", -time.Minute)
	tok, err := expired.Issue(doctorID, "a@example.com")
	require.NoError(t, err)
	rec = doRequest(t, h, http.MethodGet, "/api/doctors/profile", "", map[string]string{
		"Authorization": "Bearer " + tok,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token, doctor gone
	strayTok, err := tokens.Issue(uuid.New(), "gone@example.com")
	require.NoError(t, err)
	rec = doRequest(t, h, http.MethodGet, "/api/doctors/profile", "", map[string]string{
		"Authorization": "Bearer " + strayTok,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Valid token
	goodTok, err := tokens.Issue(doctorID, "a@example.com")
	require.NoError(t, err)
	rec = doRequest(t, h, http.MethodGet, "/api/doctors/profile", "", map[string]string{
		"Authorization": "Bearer " + goodTok,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "bcrypt-hash-should-never-leak")

	var resp api.DoctorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, doctorID, resp.ID)
	assert.Equal(t, "a@example.com", resp.Email)
}

func TestHealthLive(t *testing.T) {
	h := newTestRouter(&stubBooking{}, &stubDoctors{}, nil)

	rec := doRequest(t, h, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
