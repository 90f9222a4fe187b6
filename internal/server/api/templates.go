package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/pranaysuyash/advay-learning-sub002/internal/store"
	"github.com/pranaysuyash/advay-learning-sub002/internal/stroke"
	"github.com/pranaysuyash/advay-learning-sub002/internal/trace"
)

// DefaultTolerance is used for templates created without one.
const DefaultTolerance = 0.15

// TemplateHandler handles HTTP requests for trace template resources and
// keeps the in-memory matcher in step with the store.
type TemplateHandler struct {
	store   *store.Store
	matcher *trace.Matcher
	trainer *trace.Trainer
}

// NewTemplateHandler creates a TemplateHandler. matcher may be nil.
func NewTemplateHandler(s *store.Store, m *trace.Matcher) *TemplateHandler {
	if m == nil {
		m = trace.NewMatcher()
	}
	return &TemplateHandler{store: s, matcher: m, trainer: trace.NewTrainer()}
}

// ServeHTTP routes:
//
//	/api/templates                 GET list, POST create
//	/api/templates/match           POST score a drawing against all templates
//	/api/templates/{id}            GET, PUT, DELETE
//	/api/templates/{id}/match      POST score a drawing against one template
//	/api/templates/{id}/samples    GET list, POST upload and retrain
func (h *TemplateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r, "/api/templates")

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

	case len(parts) == 1 && parts[0] == "match":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.matchAll(w, r)

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

	case len(parts) == 2 && parts[1] == "match":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.matchOne(w, r, parts[0])

	case len(parts) == 2 && parts[1] == "samples":
		switch r.Method {
		case http.MethodGet:
			h.listSamples(w, r, parts[0])
		case http.MethodPost:
			h.createSamples(w, r, parts[0])
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}

	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Request and response types

type templateRequest struct {
	Name      string         `json:"name"`
	Tolerance float64        `json:"tolerance"`
	Path      []stroke.Point `json:"path"`
}

type templateResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Tolerance float64        `json:"tolerance"`
	Samples   int            `json:"samples"`
	Path      []stroke.Point `json:"path"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

type listTemplatesResponse struct {
	Templates []templateResponse `json:"templates"`
}

type matchRequest struct {
	Strokes [][]stroke.Point `json:"strokes"`
}

type matchResponse struct {
	TemplateID string  `json:"template_id"`
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	Distance   float64 `json:"distance"`
}

type matchAllResponse struct {
	Matches []matchResponse `json:"matches"`
}

func toTemplateResponse(t *store.Template, path []store.PathPoint) templateResponse {
	return templateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Tolerance: t.Tolerance,
		Samples:   t.Samples,
		Path:      fromStorePath(path),
		CreatedAt: t.CreatedAt.Format(timeFormat),
		UpdatedAt: t.UpdatedAt.Format(timeFormat),
	}
}

func toStorePath(path []stroke.Point) []store.PathPoint {
	out := make([]store.PathPoint, len(path))
	for i, p := range path {
		out[i] = store.PathPoint{X: p.X, Y: p.Y}
	}
	return out
}

func fromStorePath(path []store.PathPoint) []stroke.Point {
	out := make([]stroke.Point, len(path))
	for i, p := range path {
		out[i] = stroke.Point{X: p.X, Y: p.Y}
	}
	return out
}

func toMatchResponse(m trace.Match) matchResponse {
	return matchResponse{
		TemplateID: m.Template.ID,
		Name:       m.Template.Name,
		Score:      m.Score,
		Distance:   m.Distance,
	}
}

// LoadTemplates registers every stored template that has a path with m and
// returns how many were loaded.
func LoadTemplates(s *store.Store, m *trace.Matcher) (int, error) {
	templates, err := s.Templates().List()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range templates {
		path, err := s.Templates().GetPath(t.ID)
		if err != nil {
			return n, err
		}
		if len(path) == 0 {
			continue
		}
		m.AddTemplate(&trace.Template{ID: t.ID, Name: t.Name, Path: fromStorePath(path), Tolerance: t.Tolerance})
		n++
	}
	return n, nil
}

// sync mirrors a stored template into the matcher.
func (h *TemplateHandler) sync(t *store.Template, path []store.PathPoint) {
	if len(path) == 0 {
		h.matcher.RemoveTemplate(t.ID)
		return
	}
	h.matcher.AddTemplate(&trace.Template{ID: t.ID, Name: t.Name, Path: fromStorePath(path), Tolerance: t.Tolerance})
}

// lookup fetches a template and writes the error response on failure.
func (h *TemplateHandler) lookup(w http.ResponseWriter, id string) (*store.Template, bool) {
	t, err := h.store.Templates().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Template not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get template")
		return nil, false
	}
	return t, true
}

// list handles GET /api/templates.
func (h *TemplateHandler) list(w http.ResponseWriter, r *http.Request) {
	templates, err := h.store.Templates().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list templates")
		return
	}

	response := listTemplatesResponse{
		Templates: make([]templateResponse, 0, len(templates)),
	}
	for _, t := range templates {
		path, err := h.store.Templates().GetPath(t.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load template path")
			return
		}
		response.Templates = append(response.Templates, toTemplateResponse(t, path))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/templates/{id}.
func (h *TemplateHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	t, ok := h.lookup(w, id)
	if !ok {
		return
	}
	path, err := h.store.Templates().GetPath(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load template path")
		return
	}
	writeJSON(w, http.StatusOK, toTemplateResponse(t, path))
}

// create handles POST /api/templates.
func (h *TemplateHandler) create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.Tolerance < 0 {
		writeError(w, http.StatusBadRequest, "Tolerance must not be negative")
		return
	}

	tolerance := req.Tolerance
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}

	t := &store.Template{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Tolerance: tolerance,
	}
	if err := h.store.Templates().Create(t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create template")
		return
	}

	path := toStorePath(req.Path)
	if len(path) > 0 {
		if err := h.store.Templates().SetPath(t.ID, path); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save template path")
			return
		}
	}
	h.sync(t, path)

	writeJSON(w, http.StatusCreated, toTemplateResponse(t, path))
}

// update handles PUT /api/templates/{id}. Omitted fields are kept; a path,
// when given, replaces the stored one.
func (h *TemplateHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	t, ok := h.lookup(w, id)
	if !ok {
		return
	}

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Tolerance < 0 {
		writeError(w, http.StatusBadRequest, "Tolerance must not be negative")
		return
	}

	if req.Name != "" {
		t.Name = req.Name
	}
	if req.Tolerance != 0 {
		t.Tolerance = req.Tolerance
	}
	if err := h.store.Templates().Update(t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update template")
		return
	}

	if req.Path != nil {
		if err := h.store.Templates().SetPath(id, toStorePath(req.Path)); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save template path")
			return
		}
	}
	path, err := h.store.Templates().GetPath(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load template path")
		return
	}
	h.sync(t, path)

	writeJSON(w, http.StatusOK, toTemplateResponse(t, path))
}

// delete handles DELETE /api/templates/{id}.
func (h *TemplateHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Templates().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	h.matcher.RemoveTemplate(id)

	w.WriteHeader(http.StatusNoContent)
}

func decodeStrokes(w http.ResponseWriter, r *http.Request) ([][]stroke.Point, bool) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	if len(trace.Flatten(req.Strokes)) < trace.MinInputPoints {
		writeError(w, http.StatusUnprocessableEntity, "Drawing has too few points")
		return nil, false
	}
	return req.Strokes, true
}

// matchOne handles POST /api/templates/{id}/match.
func (h *TemplateHandler) matchOne(w http.ResponseWriter, r *http.Request, id string) {
	t, ok := h.lookup(w, id)
	if !ok {
		return
	}
	strokes, ok := decodeStrokes(w, r)
	if !ok {
		return
	}

	path, err := h.store.Templates().GetPath(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load template path")
		return
	}
	if len(path) == 0 {
		writeError(w, http.StatusConflict, "Template has no path")
		return
	}

	m, err := trace.Score(strokes, &trace.Template{ID: t.ID, Name: t.Name, Path: fromStorePath(path), Tolerance: t.Tolerance})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(m))
}

// matchAll handles POST /api/templates/match.
func (h *TemplateHandler) matchAll(w http.ResponseWriter, r *http.Request) {
	strokes, ok := decodeStrokes(w, r)
	if !ok {
		return
	}

	matches := h.matcher.Match(strokes)
	response := matchAllResponse{Matches: make([]matchResponse, 0, len(matches))}
	for _, m := range matches {
		response.Matches = append(response.Matches, toMatchResponse(m))
	}
	writeJSON(w, http.StatusOK, response)
}
