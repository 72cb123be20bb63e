package handlers

import (
	"net/http"
)

func (a *App) ListScenes(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": a.Scenes.All()})
}
