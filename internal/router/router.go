package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/wanderio/go-smart-destinations/internal/api/destination"
)

// Config contains dependencies needed for the router setup
type Config struct {
	DestinationHandler *destination.HandlerImpl
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/smart-destination", func(r chi.Router) {
			r.Post("/find", cfg.DestinationHandler.FindDestinations)
			r.Post("/find-ai", cfg.DestinationHandler.FindDestinationsAI)
			r.Post("/refine", cfg.DestinationHandler.RefineDestinations)
			r.Post("/explain", cfg.DestinationHandler.ExplainDestination)
			r.Get("/test-smart", cfg.DestinationHandler.ListDestinations)
		})
	})

	return r
}
