// Package router wires all HTTP routes.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/liquidaesthetik/praxis-assistant/internal/booking"
	"github.com/liquidaesthetik/praxis-assistant/internal/chat"
	httpmiddleware "github.com/liquidaesthetik/praxis-assistant/internal/http/middleware"
	"github.com/liquidaesthetik/praxis-assistant/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *chat.Handler
	BookingHandler     *booking.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	ChatRatePerMinute  int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

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

	r.Get("/health", cfg.ChatHandler.Health)
	r.Get("/", cfg.ChatHandler.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.ChatRatePerMinute > 0 {
			limiter := httpmiddleware.NewRateLimiter(cfg.ChatRatePerMinute)
			api.With(limiter.Middleware).Post("/chat", cfg.ChatHandler.Chat)
		} else {
			api.Post("/chat", cfg.ChatHandler.Chat)
		}

		if cfg.BookingHandler != nil {
			api.Route("/booking", func(b chi.Router) {
				b.Post("/book", cfg.BookingHandler.Book)
				b.Post("/{id}/cancel", cfg.BookingHandler.Cancel)
			})
		}
	})

	return r
}
