package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fivejjs/gemini3-sample-chronos/internal/capture"
	"github.com/fivejjs/gemini3-sample-chronos/internal/domain"
	"github.com/fivejjs/gemini3-sample-chronos/internal/middleware"
	"github.com/fivejjs/gemini3-sample-chronos/internal/scene"
	"github.com/fivejjs/gemini3-sample-chronos/internal/workflow"
)

type App struct {
	Log      zerolog.Logger
	Scenes   *scene.Catalog
	Sessions *workflow.Store
}

func NewApp(log zerolog.Logger, scenes *scene.Catalog, sessions *workflow.Store) *App {
	return &App{Log: log, Scenes: scenes, Sessions: sessions}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]any{"error": map[string]string{"code": slug, "message": message}})
}

// opFailure reports a failed workflow operation. Remote failures additionally
// carry the localized notification the client surfaces, plus the session
// snapshot so the client can re-render without a second round trip.
func (a *App) opFailure(w http.ResponseWriter, r *http.Request, err error, notifKey string, snap workflow.Snapshot) {
	code, slug := statusFor(err)
	body := map[string]any{
		"error":   map[string]string{"code": slug, "message": err.Error()},
		"session": snap,
	}
	if isRemoteFailure(err) {
		body["notification"] = notification(middleware.LocaleFromContext(r.Context()), notifKey)
	}
	a.json(w, code, body)
}

func (a *App) captureError(w http.ResponseWriter, err error) {
	code, slug := statusFor(err)
	var acq *capture.AcquisitionError
	if errors.As(err, &acq) {
		a.error(w, code, slug, acq.Message())
		return
	}
	a.error(w, code, slug, err.Error())
}

func isRemoteFailure(err error) bool {
	return errors.Is(err, domain.ErrRemoteService) ||
		errors.Is(err, domain.ErrNoImageProduced) ||
		errors.Is(err, domain.ErrMissingCredential)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, domain.ErrPrecondition):
		return http.StatusUnprocessableEntity, "precondition_failed"
	case errors.Is(err, domain.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType, "unsupported_media"
	case errors.Is(err, domain.ErrFileRead):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusServiceUnavailable, "configuration"
	case errors.Is(err, domain.ErrRemoteService),
		errors.Is(err, domain.ErrNoImageProduced),
		errors.Is(err, domain.ErrEmptyAnalysis):
		return http.StatusBadGateway, "upstream"
	case errors.Is(err, domain.ErrDeviceAcquisition):
		switch capture.ReasonOf(err) {
		case capture.ReasonPermissionDenied:
			return http.StatusForbidden, "camera_denied"
		case capture.ReasonNotFound:
			return http.StatusNotFound, "camera_not_found"
		case capture.ReasonBusy:
			return http.StatusConflict, "camera_busy"
		case capture.ReasonDismissed:
			return http.StatusBadRequest, "camera_dismissed"
		default:
			return http.StatusInternalServerError, "camera_error"
		}
	default:
		return http.StatusInternalServerError, "internal"
	}
}
