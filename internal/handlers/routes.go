package handlers

import (
	"net/http"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/auth"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/config"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/metrics"
	mw "github.com/Luckyraj9295/Bharat-Yatra/internal/middleware"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth         *auth.AuthHandler
	Bookings     *BookingHandler
	Reviews      *ReviewHandler
	Destinations *DestinationHandler
}

func NewConfig() huma.Config {
	c := huma.DefaultConfig("Bharat Yatra API", "1.0.0")
	c.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	return c
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, h Handlers, rdb *redis.Client, log *zap.Logger) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Instrument)
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", mw.IdempotencyHeader},
			ExposedHeaders:   []string{"Retry-After", "X-Idempotency-Hit"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	api := humachi.New(r, NewConfig())
	Register(api, cfg, h, rdb, log)
}

func secured(o *huma.Operation) {
	o.Security = []map[string][]string{{"bearerAuth": {}}}
}

func created(o *huma.Operation) {
	o.DefaultStatus = http.StatusCreated
}

// Register mounts every operation on api.
func Register(api huma.API, cfg *config.Config, h Handlers, rdb *redis.Client, log *zap.Logger) {
	rateLimited := func(o *huma.Operation) {
		o.Middlewares = append(o.Middlewares, mw.RateLimit(api, rdb, cfg.RateLimitPerMinute, log))
	}
	idempotent := func(o *huma.Operation) {
		o.Middlewares = append(o.Middlewares, mw.Idempotency(api, rdb, cfg.IdempotencyTTL, log))
	}

	// Auth
	huma.Post(api, "/api/auth/register", h.Auth.HandleRegister, created, rateLimited)
	huma.Post(api, "/api/auth/login", h.Auth.HandleLogin, rateLimited)
	huma.Get(api, "/api/auth/profile", h.Auth.HandleProfile, secured)
	huma.Put(api, "/api/auth/profile", h.Auth.HandleUpdateProfile, secured)
	huma.Put(api, "/api/auth/change-password", h.Auth.HandleChangePassword, secured)
	huma.Get(api, "/api/auth/users", h.Auth.HandleListUsers, secured)

	// Destinations
	huma.Get(api, "/api/destinations", h.Destinations.HandleListVisible)
	huma.Get(api, "/api/destinations/all", h.Destinations.HandleListAll, secured)
	huma.Get(api, "/api/destinations/{id}", h.Destinations.HandleGet)
	huma.Post(api, "/api/destinations", h.Destinations.HandleCreate, created, secured)
	huma.Put(api, "/api/destinations/{id}", h.Destinations.HandleUpdate, secured)
	huma.Delete(api, "/api/destinations/{id}", h.Destinations.HandleDelete, secured)

	// Bookings
	huma.Post(api, "/api/bookings", h.Bookings.HandleCreate, created, secured, idempotent)
	huma.Get(api, "/api/bookings/me", h.Bookings.HandleListOwn, secured)
	huma.Get(api, "/api/bookings", h.Bookings.HandleListAll, secured)
	huma.Delete(api, "/api/bookings/{id}", h.Bookings.HandleCancel, secured)
	huma.Patch(api, "/api/bookings/{id}", h.Bookings.HandleAmend, secured)

	// Reviews
	huma.Post(api, "/api/reviews", h.Reviews.HandleCreate, created, secured)
	huma.Get(api, "/api/reviews/{destinationId}", h.Reviews.HandleList)
}
