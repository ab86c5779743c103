package httpapi

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fintrackhq/fintrack/internal/transport/httpapi/handler"
	"github.com/fintrackhq/fintrack/internal/transport/httpapi/middleware"
	"github.com/fintrackhq/fintrack/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger         *logger.Logger
	AllowedOrigins []string
	HealthHandler  *handler.HealthHandler
}

// NewRouter creates the HTTP router: operational endpoints behind the
// usual middleware chain. The ledger itself is consumed as a library by
// callers of the service layer, not through HTTP here.
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit())

	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
		r.Get("/health/detailed", cfg.HealthHandler.GetHealthDetailed)
	}

	return r
}
