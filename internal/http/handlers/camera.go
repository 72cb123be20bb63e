package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fivejjs/gemini3-sample-chronos/internal/capture"
	"github.com/fivejjs/gemini3-sample-chronos/internal/domain"
)

func (a *App) CameraStart(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}

	constraints := capture.DefaultConstraints()
	var body struct {
		Width       *int  `json:"width"`
		Height      *int  `json:"height"`
		FacingFront *bool `json:"facing_front"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if body.Width != nil {
		constraints.Width = *body.Width
	}
	if body.Height != nil {
		constraints.Height = *body.Height
	}
	if body.FacingFront != nil {
		constraints.FacingFront = *body.FacingFront
	}

	if err := session.CameraStart(r.Context(), constraints); err != nil {
		a.captureError(w, err)
		return
	}
	a.json(w, http.StatusOK, session.Snapshot())
}

func (a *App) CameraCapture(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}

	snap, err := session.CameraCapture(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrDeviceAcquisition) {
			a.captureError(w, err)
			return
		}
		code, slug := statusFor(err)
		a.error(w, code, slug, err.Error())
		return
	}
	a.json(w, http.StatusOK, snap)
}

func (a *App) CameraStop(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	session.CameraStop()
	a.json(w, http.StatusOK, session.Snapshot())
}
