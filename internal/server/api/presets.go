package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/pranaysuyash/advay-learning-sub002/internal/config"
	"github.com/pranaysuyash/advay-learning-sub002/internal/monitoring"
	"github.com/pranaysuyash/advay-learning-sub002/internal/store"
	"github.com/pranaysuyash/advay-learning-sub002/internal/tracking"
)

// Tracker is the live pipeline the handlers read from and adjust.
// *tracking.Runner satisfies it.
type Tracker interface {
	Latest() tracking.Frame
	Update(fn func(s *tracking.Session))
}

// PresetHandler handles HTTP requests for tuning preset resources.
type PresetHandler struct {
	store   *store.Store
	tracker Tracker
}

// NewPresetHandler creates a PresetHandler. tracker may be nil, in which
// case presets can be edited but not applied.
func NewPresetHandler(s *store.Store, t Tracker) *PresetHandler {
	return &PresetHandler{store: s, tracker: t}
}

// ServeHTTP routes:
//
//	/api/presets              GET list, POST create
//	/api/presets/{id}         GET, PUT, DELETE
//	/api/presets/{id}/apply   POST apply to the running pipeline
func (h *PresetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r, "/api/presets")

	switch {
	case len(parts) == 0:
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}

	case len(parts) == 1:
		id := parts[0]
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodPut:
			h.update(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}

	case len(parts) == 2 && parts[1] == "apply":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.apply(w, r, parts[0])

	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Request and response types

type presetRequest struct {
	Name string `json:"name"`
	// Body is the YAML tuning document.
	Body string `json:"body"`
}

type presetResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Body      string         `json:"body"`
	Tuning    *config.Tuning `json:"tuning"`
	Active    bool           `json:"active"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

type listPresetsResponse struct {
	Presets []presetResponse `json:"presets"`
}

func (h *PresetHandler) toResponse(p *store.Preset, active string) presetResponse {
	resp := presetResponse{
		ID:        p.ID,
		Name:      p.Name,
		Body:      p.Body,
		Active:    p.ID == active,
		CreatedAt: p.CreatedAt.Format(timeFormat),
		UpdatedAt: p.UpdatedAt.Format(timeFormat),
	}
	if t, err := config.Parse([]byte(p.Body)); err == nil {
		resp.Tuning = t
	}
	return resp
}

func (h *PresetHandler) active() string {
	id, err := h.store.Settings().Get(store.SettingActivePreset)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		monitoring.Logf("Failed to read active preset: %v", err)
	}
	return id
}

// list handles GET /api/presets.
func (h *PresetHandler) list(w http.ResponseWriter, r *http.Request) {
	presets, err := h.store.Presets().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list presets")
		return
	}

	active := h.active()
	response := listPresetsResponse{
		Presets: make([]presetResponse, 0, len(presets)),
	}
	for _, p := range presets {
		response.Presets = append(response.Presets, h.toResponse(p, active))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *PresetHandler) lookup(w http.ResponseWriter, id string) (*store.Preset, bool) {
	p, err := h.store.Presets().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Preset not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get preset")
		return nil, false
	}
	return p, true
}

// get handles GET /api/presets/{id}.
func (h *PresetHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := h.lookup(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(p, h.active()))
}

// create handles POST /api/presets.
func (h *PresetHandler) create(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if _, err := config.Parse([]byte(req.Body)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.store.Presets().GetByName(req.Name); err == nil {
		writeError(w, http.StatusConflict, "Preset name already exists")
		return
	}

	p := &store.Preset{
		ID:   uuid.New().String(),
		Name: req.Name,
		Body: req.Body,
	}
	if err := h.store.Presets().Create(p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create preset")
		return
	}

	writeJSON(w, http.StatusCreated, h.toResponse(p, h.active()))
}

// update handles PUT /api/presets/{id}. Omitted fields are kept.
func (h *PresetHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := h.lookup(w, id)
	if !ok {
		return
	}

	var req presetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Body != "" {
		if _, err := config.Parse([]byte(req.Body)); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p.Body = req.Body
	}
	if req.Name != "" {
		p.Name = req.Name
	}

	if err := h.store.Presets().Update(p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update preset")
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(p, h.active()))
}

// delete handles DELETE /api/presets/{id}.
func (h *PresetHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Presets().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Preset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete preset")
		return
	}
	if h.active() == id {
		h.store.Settings().Delete(store.SettingActivePreset)
	}

	w.WriteHeader(http.StatusNoContent)
}

// apply handles POST /api/presets/{id}/apply. The tuning is overlaid on the
// running configuration and the preset becomes the startup default. The
// fps field takes effect on the next start.
func (h *PresetHandler) apply(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := h.lookup(w, id)
	if !ok {
		return
	}
	if h.tracker == nil {
		writeError(w, http.StatusServiceUnavailable, "Tracking is not running")
		return
	}

	tuning, err := config.Parse([]byte(p.Body))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.tracker.Update(func(s *tracking.Session) {
		s.SetConfig(tuning.Apply(s.Config()))
	})
	if err := h.store.Settings().Set(store.SettingActivePreset, p.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save active preset")
		return
	}
	monitoring.Logf("Applied tuning preset %q", p.Name)

	writeJSON(w, http.StatusOK, h.toResponse(p, p.ID))
}
