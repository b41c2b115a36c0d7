package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/petpractice/vet-scheduler/internal/booking"
	"github.com/petpractice/vet-scheduler/internal/identity"
	"github.com/petpractice/vet-scheduler/internal/logging"
	"github.com/petpractice/vet-scheduler/internal/schedule"
	"github.com/petpractice/vet-scheduler/internal/store"
)

type RouterConfig struct {
	Store     *store.Store
	Booking   *booking.Service
	Schedules *schedule.Service
	Ids       *identity.Generator
	Logger    *logging.Logger
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	Env       string
	Version   string
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Post("/session", setSessionHandler(cfg.Store))
	r.Delete("/session", logoutHandler(cfg.Store))

	r.Route("/doctors", func(r chi.Router) {
		r.Get("/", listDoctorsHandler(cfg.Store))
		r.Post("/", createDoctorHandler(cfg.Store, cfg.Ids))
		r.Get("/{id}", getDoctorHandler(cfg.Store))
		r.Patch("/{id}", updateDoctorHandler(cfg.Store))
		r.Delete("/{id}", deleteDoctorHandler(cfg.Store))
		r.Get("/{id}/schedule", listSchedulesHandler(cfg.Store))
		r.Post("/{id}/schedule", regenerateScheduleHandler(cfg.Schedules))
		r.Get("/{id}/slots", listSlotsHandler(cfg.Store))
	})

	r.Route("/owners", func(r chi.Router) {
		r.Get("/{id}", getOwnerHandler(cfg.Store))
		r.Put("/{id}", upsertOwnerHandler(cfg.Store))
		r.Post("/{id}/pets", createPetHandler(cfg.Store, cfg.Ids))
		r.Patch("/{id}/pets/{petId}", updatePetHandler(cfg.Store))
		r.Delete("/{id}/pets/{petId}", deletePetHandler(cfg.Store))
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", bookAppointmentHandler(cfg.Booking))
		r.Get("/", listAppointmentsHandler(cfg.Store))
		r.Get("/{id}", getAppointmentHandler(cfg.Store))
		r.Post("/{id}/complete", completeAppointmentHandler(cfg.Booking))
		r.Post("/{id}/cancel", cancelAppointmentHandler(cfg.Booking))
		r.Patch("/{id}/notes", updateNotesHandler(cfg.Booking))
	})

	return r
}
