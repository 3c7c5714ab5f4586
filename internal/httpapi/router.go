package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chimw "github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/comite-agua/ledger/internal/auth"
	"github.com/comite-agua/ledger/internal/middleware"
)

// NewRouter wires every route. Only /health, /metrics and login are public.
func NewRouter(svc Services, jwtManager *auth.JWTManager, logger *slog.Logger) http.Handler {
	h := NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.Logging(),
		chimw.Recoverer,
	)

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Get("/config", h.ListConfig)
			r.Put("/config/pin", h.SetPin)
			r.Get("/config/{key}", h.GetConfig)
			r.Put("/config/{key}", h.SetConfig)

			r.Get("/concepts", h.ListConcepts)
			r.Post("/concepts", h.CreateConcept)
			r.Get("/concepts/{id}", h.GetConcept)
			r.Patch("/concepts/{id}", h.UpdateConcept)

			r.Post("/users", h.CreateUser)
			r.Get("/users/{id}", h.GetUser)
			r.Put("/users/{id}/status", h.SetUserStatus)
			r.Get("/users/{id}/payments", h.History)
			r.Get("/users/{id}/paid-months", h.PaidMonths)
			r.Get("/users/{id}/status", h.AccountStatus)

			r.Post("/payments", h.RegisterPayment)
			r.Get("/payments/{id}/receipt", h.Receipt)
		})
	})

	return r
}
