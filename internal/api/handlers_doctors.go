package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akram-999/doctor-booking-app/internal/auth"
	"github.com/akram-999/doctor-booking-app/internal/doctor"
)

func registerDoctorHandler(svc DoctorService, tokens *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		d, err := svc.Register(r.Context(), doctor.RegisterInput{
			Name:           req.Name,
			Email:          req.Email,
			Password:       req.Password,
			Specialization: req.Specialization,
			Experience:     req.Experience,
			Qualification:  req.Qualification,
			Bio:            req.Bio,
			ProfilePicture: req.ProfilePicture,
		})
		if err != nil {
			handleDoctorError(w, err)
			return
		}

		token, err := tokens.Issue(d.ID, d.Email)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, AuthResponse{Token: token, Doctor: toDoctorSummary(*d)})
	}
}

func loginDoctorHandler(svc DoctorService, tokens *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		d, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			handleDoctorError(w, err)
			return
		}

		token, err := tokens.Issue(d.ID, d.Email)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, AuthResponse{Token: token, Doctor: toDoctorSummary(*d)})
	}
}

func getProfileHandler(svc DoctorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetDoctorID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_token", "No token provided")
			return
		}

		d, err := svc.GetProfile(r.Context(), id)
		if err != nil {
			handleDoctorError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDoctorResponse(*d))
	}
}

func updateProfileHandler(svc DoctorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetDoctorID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_token", "No token provided")
			return
		}

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		d, err := svc.UpdateProfile(r.Context(), id, doctor.ProfilePatch{
			Name:           req.Name,
			Email:          req.Email,
			Password:       req.Password,
			Specialization: req.Specialization,
			Experience:     req.Experience,
			Qualification:  req.Qualification,
			Bio:            req.Bio,
			ProfilePicture: req.ProfilePicture,
		})
		if err != nil {
			handleDoctorError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDoctorResponse(*d))
	}
}

func handleDoctorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, doctor.ErrDoctorExists):
		writeError(w, http.StatusBadRequest, "doctor_exists", "Doctor already exists")
	case errors.Is(err, doctor.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", "Doctor not found")
	case errors.Is(err, doctor.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
	case errors.Is(err, doctor.ErrPasswordTooShort),
		errors.Is(err, doctor.ErrNegativeExperience):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
