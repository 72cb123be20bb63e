package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fivejjs/gemini3-sample-chronos/internal/domain"
	"github.com/fivejjs/gemini3-sample-chronos/internal/imaging"
	"github.com/fivejjs/gemini3-sample-chronos/internal/workflow"
)

func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := a.Sessions.Create()
	a.json(w, http.StatusCreated, session.Snapshot())
}

func (a *App) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, session.Snapshot())
}

func (a *App) DeleteSession(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	a.Sessions.Delete(session.ID())
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) UploadImage(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}

	payload, err := readUploadPayload(r)
	if err != nil {
		code, slug := statusFor(err)
		a.error(w, code, slug, err.Error())
		return
	}

	snap, err := session.SetInputImage(payload)
	if err != nil {
		code, slug := statusFor(err)
		a.error(w, code, slug, err.Error())
		return
	}
	a.json(w, http.StatusOK, snap)
}

func (a *App) Travel(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}

	var body struct {
		SceneID string `json:"scene_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	preset, found := a.Scenes.ByID(body.SceneID)
	if !found {
		a.error(w, http.StatusNotFound, "not_found", "unknown scene")
		return
	}

	snap, err := session.Travel(r.Context(), preset)
	if err != nil {
		a.opFailure(w, r, err, notifTravelFailed, snap)
		return
	}
	a.json(w, http.StatusOK, snap)
}

func (a *App) Edit(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	snap, err := session.Edit(r.Context(), body.Prompt)
	if err != nil {
		a.opFailure(w, r, err, notifEditFailed, snap)
		return
	}
	a.json(w, http.StatusOK, snap)
}

func (a *App) Analyze(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}

	snap, err := session.Analyze(r.Context())
	if err != nil {
		a.opFailure(w, r, err, notifAnalyzeFailed, snap)
		return
	}
	a.json(w, http.StatusOK, snap)
}

func (a *App) Revert(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}

	snap, err := session.RevertToOriginal()
	if err != nil {
		code, slug := statusFor(err)
		a.error(w, code, slug, err.Error())
		return
	}
	a.json(w, http.StatusOK, snap)
}

func (a *App) Reset(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, session.Reset())
}

func (a *App) session(w http.ResponseWriter, r *http.Request) (*workflow.Session, bool) {
	id := chi.URLParam(r, "id")
	session, err := a.Sessions.Get(id)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return nil, false
	}
	return session, true
}

func readUploadPayload(r *http.Request) (imaging.Payload, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrFileRead, err)
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrFileRead, err)
		}
		defer file.Close()
		return imaging.ReadStream(file)
	}

	// Base64 inflates the body, so the raw limit is looser than the decoded one.
	var body struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 2*imaging.MaxUploadBytes)).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFileRead, err)
	}
	payload := imaging.Payload(body.Image)
	if _, _, err := payload.Parse(); err != nil {
		return "", err
	}
	return payload, nil
}
