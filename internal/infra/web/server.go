package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"commerce-role-sync/internal/events"
	"commerce-role-sync/internal/usecase"
)

// Server exposes the admin settings API and the commerce webhook endpoints.
type Server struct {
	settingsUC *usecase.SettingsUseCase
	dispatcher *events.Dispatcher
	apiKey     string
	log        *zerolog.Logger
}

func NewServer(settingsUC *usecase.SettingsUseCase, dispatcher *events.Dispatcher, apiKey string, logger *zerolog.Logger) *Server {
	l := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		settingsUC: settingsUC,
		dispatcher: dispatcher,
		apiKey:     apiKey,
		log:        &l,
	}
}

// Router builds the route tree. Admin and webhook routes sit behind bearer
// auth; health and metrics do not.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handleSaveSettings)
			r.Get("/products/qualifying", s.handleQualifyingProducts)
			r.Get("/roles/assignable", s.handleAssignableRoles)
		})

		r.Route("/webhook", func(r chi.Router) {
			r.Post("/purchase-completed", s.handlePurchaseCompleted)
			r.Post("/subscription-expired", s.handleSubscriptionExpired)
			r.Post("/pass-expired", s.handlePassExpired)
			r.Post("/payment-refunded", s.handlePaymentRefunded)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
