package routes

import (
	"net/http"
	"time"

	"github.com/templui/gymapp/internal/app"
	"github.com/templui/gymapp/internal/handler"
	"github.com/templui/gymapp/internal/middleware"
	"github.com/templui/gymapp/internal/observability"
)

func SetupRoutes(app *app.App) http.Handler {
	mux := http.NewServeMux()

	healthHandler := handler.NewHealthHandler(app.DB)
	snapshotHandler := handler.NewSnapshotHandler(app.Snapshots)

	// Operations
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", observability.Handler())

	// Admin, rate limited per client
	adminLimit := middleware.RateLimit(middleware.NewRateLimiter(app.Cfg.AdminRateLimit, time.Minute))
	mux.Handle("POST /admin/import", adminLimit(http.HandlerFunc(snapshotHandler.Import)))
	mux.Handle("POST /admin/export", adminLimit(http.HandlerFunc(snapshotHandler.Export)))

	mux.HandleFunc("/", handler.NotFound)

	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.CORS,
	)
}
