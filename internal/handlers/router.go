package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"wastewise-backend/internal/logger"
	"wastewise-backend/internal/middleware"
	"wastewise-backend/internal/registry"
	"wastewise-backend/internal/services"
)

// Deps are the collaborators the HTTP routes need. Optional fields may be nil.
type Deps struct {
	Registry  *registry.Registry
	History   services.WasteHistory
	Auth      *Authenticator
	JWTSecret string
	Recorder  DispatchRecorder
	Journal   TripEventSource
	Limiter   *middleware.RateLimiter
	WebSocket http.Handler
	Metrics   http.Handler
	Logger    logger.Logger
}

// NewRouter wires every route onto a chi router.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if d.Logger != nil {
		r.Use(middleware.RequestLogger(d.Logger))
	}
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health and metrics stay outside the rate limit
	r.Get("/health", Health(d.Registry))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}
	if d.WebSocket != nil {
		r.Method(http.MethodGet, "/ws", d.WebSocket)
	}

	r.Group(func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.Handler)
		}

		r.Route("/api", func(r chi.Router) {
			r.Get("/bins", GetBins(d.Registry))
			r.Get("/bins/{id}/candidates", GetBinCandidates(d.Registry))
			r.Get("/drivers", GetDrivers(d.Registry))
			r.Get("/stations", GetStations(d.Registry))
			r.Get("/trips", GetTrips(d.Registry))
			r.Patch("/trips/{id}", UpdateTrip(d.Registry))
			if d.Journal != nil {
				r.Get("/trips/{id}/events", GetTripEvents(d.Registry, d.Journal))
			}
			r.Post("/dispatch", Dispatch(d.Registry, d.Recorder))

			if d.Auth != nil {
				r.Post("/auth/login", Login(d.Auth))
			}
		})

		// Sensor ingestion and status views
		r.Post("/data", ReceiveReading(d.Registry))
		r.Get("/status", GetStatus(d.Registry))
		r.Get("/status/{id}", GetBinStatus(d.Registry))

		if d.History != nil {
			r.Get("/dashboard/data", GetDashboardData(d.History))
		}

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(d.JWTSecret))
			r.Get("/bins", AdminGetBins(d.Registry))
			if d.History != nil {
				r.Get("/dashboard", AdminGetDashboard(d.History))
			}
		})
	})

	return r
}
