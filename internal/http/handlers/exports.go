package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fivejjs/gemini3-sample-chronos/internal/imaging"
	"github.com/fivejjs/gemini3-sample-chronos/internal/workflow"
	"github.com/fivejjs/gemini3-sample-chronos/pkg/zip"
)

func (a *App) DownloadImage(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}

	payload, err := session.CurrentImage()
	if err != nil {
		code, slug := statusFor(err)
		a.error(w, code, slug, err.Error())
		return
	}
	data, err := payload.ToPNG()
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode image")
		return
	}

	filename := fmt.Sprintf("chronosnap-%d.png", time.Now().UnixMilli())
	w.Header().Set("Content-Type", imaging.MIMEPNG)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (a *App) ExportSession(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}

	original, err := session.OriginalImage()
	if err != nil {
		code, slug := statusFor(err)
		a.error(w, code, slug, err.Error())
		return
	}

	entries, err := exportEntries(session.Snapshot(), original)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to assemble export")
		return
	}
	data, err := zip.Archive(entries)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}

	filename := fmt.Sprintf("chronosnap-%s.zip", session.ID())
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func exportEntries(snap workflow.Snapshot, original imaging.Payload) ([]zip.Entry, error) {
	mime, data, err := original.Parse()
	if err != nil {
		return nil, err
	}
	entries := []zip.Entry{{Filename: "original." + extensionFor(mime), Data: data}}

	if snap.Current != "" && snap.Current != string(original) {
		current, err := imaging.Payload(snap.Current).ToPNG()
		if err != nil {
			return nil, err
		}
		entries = append(entries, zip.Entry{Filename: "current.png", Data: current})
	}
	if snap.AnalysisText != "" {
		entries = append(entries, zip.Entry{Filename: "analysis.txt", Data: []byte(snap.AnalysisText)})
	}
	return entries, nil
}

func extensionFor(mime string) string {
	switch mime {
	case imaging.MIMEJPEG, imaging.MIMEJPG:
		return "jpg"
	case imaging.MIMEWebP:
		return "webp"
	default:
		return "png"
	}
}
