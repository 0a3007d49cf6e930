// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"hackdir/internal/config"
	"hackdir/internal/server/handlers"
	"hackdir/internal/service/directory"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	natsConn *nats.Conn,
	sessions *directory.SessionManager,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", handlers.SessionHeader},
		ExposedHeaders:   []string{handlers.SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	directoryHandler := handlers.NewDirectoryHandler(sessions)
	locationHandler := handlers.NewLocationHandler(sessions)
	exportHandler := handlers.NewExportHandler(sessions)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Events API
			r.Route("/events", func(r chi.Router) {
				r.Get("/", directoryHandler.GetEvents)
				r.Get("/calendar.ics", exportHandler.GetCalendar)
			})

			// Directory stats
			r.Get("/stats", directoryHandler.GetStats)

			// Location API
			r.Route("/location", func(r chi.Router) {
				r.Get("/", locationHandler.GetLocation)
				r.Post("/device", locationHandler.PostDevice)
				r.Post("/search", locationHandler.PostSearch)
			})
		})
	})

	// WebSocket endpoint for location resolution notices
	router.Get("/ws", handlers.SessionWebSocketHandler(natsConn, sessions))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
