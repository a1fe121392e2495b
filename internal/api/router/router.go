package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/carepulse/booking-platform/internal/appointments"
	"github.com/carepulse/booking-platform/internal/auth"
	"github.com/carepulse/booking-platform/internal/files"
	httpmiddleware "github.com/carepulse/booking-platform/internal/http/middleware"
	"github.com/carepulse/booking-platform/internal/patients"
	"github.com/carepulse/booking-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AuthHandler         *auth.Handler
	PatientsHandler     *patients.Handler
	AppointmentsHandler *appointments.Handler
	DocumentsHandler    *files.Handler
	MetricsHandler      http.Handler

	AuthJWTSecret      string
	SessionStore       auth.TokenStore
	CORSAllowedOrigins []string

	// Requests/second and burst for the public auth endpoints.
	AuthRateLimit float64
	AuthRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.AuthHandler != nil {
			public.Route("/auth", func(ar chi.Router) {
				if cfg.AuthRateLimit > 0 {
					ar.Use(httpmiddleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst))
				}
				ar.Post("/signup", cfg.AuthHandler.SignUp)
				ar.Post("/signin", cfg.AuthHandler.SignIn)
			})
		}
	})

	// Authenticated endpoints
	r.Group(func(authed chi.Router) {
		authed.Use(httpmiddleware.SessionJWT(cfg.AuthJWTSecret, cfg.SessionStore))

		if cfg.AuthHandler != nil {
			authed.Post("/auth/signout", cfg.AuthHandler.SignOut)
			authed.Get("/auth/me", cfg.AuthHandler.Me)
		}

		if cfg.PatientsHandler != nil {
			authed.Post("/patients", cfg.PatientsHandler.Create)
			authed.Route("/patients/{patientID}", func(pr chi.Router) {
				pr.Get("/", cfg.PatientsHandler.GetByID)
				pr.Put("/", cfg.PatientsHandler.Update)
				pr.Delete("/", cfg.PatientsHandler.Remove)
				if cfg.DocumentsHandler != nil {
					pr.Post("/documents", cfg.DocumentsHandler.Upload)
				}
				if cfg.AppointmentsHandler != nil {
					pr.Get("/appointments/first", cfg.AppointmentsHandler.FirstByPatientID)
				}
			})
			authed.Get("/users/{userID}/patients", cfg.PatientsHandler.ListByUserID)
			authed.Get("/users/{userID}/patients/first", cfg.PatientsHandler.FirstByUserID)
		}

		if cfg.AppointmentsHandler != nil {
			authed.Post("/appointments", cfg.AppointmentsHandler.Create)
			authed.Route("/appointments/{appointmentID}", func(ar chi.Router) {
				ar.Get("/", cfg.AppointmentsHandler.GetByID)
				ar.Patch("/", cfg.AppointmentsHandler.Update)
				ar.Delete("/", cfg.AppointmentsHandler.Remove)
				ar.Post("/schedule", cfg.AppointmentsHandler.Schedule)
				ar.Post("/cancel", cfg.AppointmentsHandler.Cancel)
			})
			authed.Get("/users/{userID}/appointments/first", cfg.AppointmentsHandler.FirstByUserID)
		}

		// Admin surface
		if cfg.AppointmentsHandler != nil {
			authed.Route("/admin", func(admin chi.Router) {
				admin.Use(httpmiddleware.RequireAdmin)
				admin.Get("/appointments", cfg.AppointmentsHandler.ListAll)
				admin.Get("/appointments/counts", cfg.AppointmentsHandler.Counts)
			})
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
