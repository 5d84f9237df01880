package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/akram-999/doctor-booking-app/internal/auth"
)

type RouterConfig struct {
	Booking BookingService
	Doctors DoctorService
	Tokens  *auth.Manager
	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Log     *zap.Logger
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))
	r.Use(MetricsMiddleware)

	// Health and metrics
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", listAppointmentsHandler(cfg.Booking))
			r.Post("/", createAppointmentHandler(cfg.Booking))
			r.Get("/{id}", getAppointmentHandler(cfg.Booking))
			r.Patch("/{id}/status", updateAppointmentStatusHandler(cfg.Booking))
			r.Delete("/{id}", deleteAppointmentHandler(cfg.Booking))
		})

		r.Route("/time-slots", func(r chi.Router) {
			r.Get("/", listTimeSlotsHandler(cfg.Booking))
			r.Post("/", createTimeSlotHandler(cfg.Booking))
			r.Put("/{id}", updateTimeSlotHandler(cfg.Booking))
			r.Delete("/{id}", deleteTimeSlotHandler(cfg.Booking))
		})

		r.Route("/doctors", func(r chi.Router) {
			r.Post("/register", registerDoctorHandler(cfg.Doctors, cfg.Tokens))
			r.Post("/login", loginDoctorHandler(cfg.Doctors, cfg.Tokens))

			r.Group(func(r chi.Router) {
				r.Use(RequireDoctor(cfg.Tokens))
				r.Get("/profile", getProfileHandler(cfg.Doctors))
				r.Put("/profile", updateProfileHandler(cfg.Doctors))
			})
		})
	})

	return r
}
