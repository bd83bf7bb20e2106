package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopassist-ai/support-chat/internal/middleware"
	"github.com/shopassist-ai/support-chat/pkg/logger"
)

// Options configures the router's cross-cutting behavior.
type Options struct {
	JWTSecret         string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter wires the backend routes with the shared middleware stack.
func NewRouter(h *Handler, pinger Pinger, log *logger.Logger, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		if err := pinger.Ping(req.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"reason": "store unreachable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(opts.JWTSecret))
		r.Use(middleware.RateLimit(opts.RateLimitRequests, opts.RateLimitWindow))

		r.Route("/conversations", func(r chi.Router) {
			r.Post("/start", h.StartConversation)
			r.Post("/message", h.PostMessage)
			r.Post("/feedback", h.SubmitFeedback)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/messages", h.History)
				r.Post("/end", h.EndConversation)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/top", h.TopProducts)
			r.Get("/search", h.SearchProducts)
		})
	})

	return r
}

// Pinger is the readiness dependency of the router.
type Pinger interface {
	Ping(ctx context.Context) error
}
