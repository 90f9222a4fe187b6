package api

import (
	"encoding/json"
	"net/http"

	"github.com/pranaysuyash/advay-learning-sub002/internal/monitoring"
)

type createSamplesRequest struct {
	Samples []json.RawMessage `json:"samples"`
}

type sampleResponse struct {
	ID          int64           `json:"id"`
	TemplateID  string          `json:"template_id"`
	SampleIndex int             `json:"sample_index"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   string          `json:"created_at"`
}

type listSamplesResponse struct {
	Samples []sampleResponse `json:"samples"`
}

// listSamples handles GET /api/templates/{id}/samples.
func (h *TemplateHandler) listSamples(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.lookup(w, id); !ok {
		return
	}

	samples, err := h.store.Samples().GetByTemplateID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list samples")
		return
	}

	response := listSamplesResponse{
		Samples: make([]sampleResponse, 0, len(samples)),
	}
	for _, s := range samples {
		response.Samples = append(response.Samples, sampleResponse{
			ID:          s.ID,
			TemplateID:  s.TemplateID,
			SampleIndex: s.SampleIndex,
			Data:        s.Data,
			CreatedAt:   s.CreatedAt.Format(timeFormat),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// createSamples handles POST /api/templates/{id}/samples. The samples
// replace any stored ones and the template path is retrained from them.
func (h *TemplateHandler) createSamples(w http.ResponseWriter, r *http.Request, id string) {
	t, ok := h.lookup(w, id)
	if !ok {
		return
	}

	var req createSamplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Samples) == 0 {
		writeError(w, http.StatusBadRequest, "At least one sample is required")
		return
	}

	trained, err := h.trainer.Train(req.Samples)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Samples().Create(id, req.Samples); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save samples")
		return
	}
	path := toStorePath(trained)
	if err := h.store.Templates().SetPath(id, path); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save template path")
		return
	}

	t.Samples = len(req.Samples)
	h.sync(t, path)
	monitoring.Logf("Trained template %q from %d samples", t.Name, len(req.Samples))

	writeJSON(w, http.StatusCreated, toTemplateResponse(t, path))
}

