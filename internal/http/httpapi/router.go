package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fivejjs/gemini3-sample-chronos/internal/http/handlers"
	"github.com/fivejjs/gemini3-sample-chronos/internal/infra"
	"github.com/fivejjs/gemini3-sample-chronos/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Log),
		middleware.CORS(cfg.CORSOrigins),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
		middleware.I18N("en"),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/scenes", app.ListScenes)

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", app.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.GetSession)
			r.Delete("/", app.DeleteSession)
			r.Post("/image", app.UploadImage)
			r.Post("/camera/start", app.CameraStart)
			r.Post("/camera/capture", app.CameraCapture)
			r.Post("/camera/stop", app.CameraStop)
			r.Post("/travel", app.Travel)
			r.Post("/edit", app.Edit)
			r.Post("/analyze", app.Analyze)
			r.Post("/revert", app.Revert)
			r.Post("/reset", app.Reset)
			r.Get("/download", app.DownloadImage)
			r.Get("/export", app.ExportSession)
		})
	})

	return r
}
