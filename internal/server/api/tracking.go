package api

import (
	"encoding/json"
	"net/http"

	"github.com/pranaysuyash/advay-learning-sub002/internal/config"
	"github.com/pranaysuyash/advay-learning-sub002/internal/stroke"
	"github.com/pranaysuyash/advay-learning-sub002/internal/tracking"
)

// TrackingHandler exposes snapshots of the running pipeline and a few
// controls. Nothing is streamed; clients poll.
type TrackingHandler struct {
	tracker Tracker
}

// NewTrackingHandler creates a TrackingHandler.
func NewTrackingHandler(t Tracker) *TrackingHandler {
	return &TrackingHandler{tracker: t}
}

// ServeHTTP routes:
//
//	/api/tracking           GET latest frame
//	/api/tracking/config    GET active tuning
//	/api/tracking/drawing   PUT {"enabled": bool}
//	/api/tracking/strokes   GET strokes, DELETE clear
func (h *TrackingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r, "/api/tracking")
	if len(parts) > 1 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	resource := ""
	if len(parts) == 1 {
		resource = parts[0]
	}

	switch {
	case resource == "" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, h.tracker.Latest())

	case resource == "config" && r.Method == http.MethodGet:
		var cfg tracking.Config
		h.tracker.Update(func(s *tracking.Session) { cfg = s.Config() })
		tuning := config.FromConfig(cfg, 0)
		tuning.FPS = nil
		writeJSON(w, http.StatusOK, tuning)

	case resource == "drawing" && r.Method == http.MethodPut:
		var req struct {
			Enabled *bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "Body must be {\"enabled\": bool}")
			return
		}
		h.tracker.Update(func(s *tracking.Session) { s.SetDrawingEnabled(*req.Enabled) })
		writeJSON(w, http.StatusOK, map[string]bool{"enabled": *req.Enabled})

	case resource == "strokes" && r.Method == http.MethodGet:
		strokes := [][]stroke.Point{}
		h.tracker.Update(func(s *tracking.Session) {
			if got := s.Strokes(); got != nil {
				strokes = got
			}
		})
		writeJSON(w, http.StatusOK, map[string][][]stroke.Point{"strokes": strokes})

	case resource == "strokes" && r.Method == http.MethodDelete:
		h.tracker.Update(func(s *tracking.Session) { s.ClearStrokes() })
		w.WriteHeader(http.StatusNoContent)

	case resource == "" || resource == "config" || resource == "drawing" || resource == "strokes":
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")

	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}
