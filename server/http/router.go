package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"xref-service/internal/config"
	"xref-service/internal/fileio"
	"xref-service/internal/middleware"
	xrefHnd "xref-service/internal/xref/handler"
	"xref-service/internal/xref/service"
	"xref-service/server/http/handlers"
)

func NewRouter(cfg config.Config, svc *service.Service, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(cfg.MaxUploadBytes()))

	r.Get("/health", handlers.Health(svc.CatalogSize))
	r.Handle("/metrics", promhttp.Handler())

	// основной эндпоинт
	r.Post("/xref", xrefHnd.Xref(svc, cfg.BOMHeaderRow, fileio.ReportColumns(cfg.ReportManufacturerColumn), logger))

	return r
}
