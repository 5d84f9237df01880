package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/akram-999/doctor-booking-app/internal/auth"
)

// RequireDoctor verifies the bearer token on admin calls and stores the
// doctor id from its subject in the request context. Whether that doctor
// still exists is the handler's problem (it surfaces as 404).
func RequireDoctor(tokens *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "missing_token", "No token provided")
				return
			}

			doctorID, _, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_token", "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), doctorIDKey, doctorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetDoctorID retrieves the authenticated doctor id from context.
func GetDoctorID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(doctorIDKey).(uuid.UUID)
	return id, ok
}
