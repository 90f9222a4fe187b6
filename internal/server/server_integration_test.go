package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/pranaysuyash/advay-learning-sub002/internal/detector"
	"github.com/pranaysuyash/advay-learning-sub002/internal/store"
	"github.com/pranaysuyash/advay-learning-sub002/internal/trace"
)

func newTestServer(t *testing.T, tracker *sessionTracker) (*httptest.Server, *trace.Matcher) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	m := trace.NewMatcher()
	cfg := Config{Store: s, Matcher: m}
	if tracker != nil {
		cfg.Tracker = tracker
	}
	ts := httptest.NewServer(New(cfg))
	t.Cleanup(ts.Close)
	return ts, m
}

func doJSON(t *testing.T, client *http.Client, method, url, body string, out interface{}) int {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("NewRequest(%s %s) error = %v", method, url, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s error = %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s decode error = %v", method, url, err)
		}
	}
	return resp.StatusCode
}

// letterL is a down stroke followed by a stroke to the right.
const letterL = `[[{"x":0.2,"y":0.1},{"x":0.2,"y":0.3},{"x":0.2,"y":0.5},{"x":0.2,"y":0.7},{"x":0.2,"y":0.9}],` +
	`[{"x":0.2,"y":0.9},{"x":0.4,"y":0.9},{"x":0.6,"y":0.9}]]`

const flatLine = `[[{"x":0.1,"y":0.5},{"x":0.3,"y":0.5},{"x":0.5,"y":0.5},{"x":0.7,"y":0.5},{"x":0.9,"y":0.5}]]`

func TestAPI_TemplateWorkflow(t *testing.T) {
	ts, m := newTestServer(t, nil)
	client := ts.Client()

	// 1. Create a template with a path
	var created struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		Tolerance float64 `json:"tolerance"`
		Path      []struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"path"`
	}
	body := `{"name": "L", "path": [{"x":0.2,"y":0.1},{"x":0.2,"y":0.9},{"x":0.6,"y":0.9}]}`
	if code := doJSON(t, client, http.MethodPost, ts.URL+"/api/templates", body, &created); code != http.StatusCreated {
		t.Fatalf("POST /api/templates status = %d, want %d", code, http.StatusCreated)
	}
	if created.Name != "L" || len(created.Path) != 3 {
		t.Fatalf("created = %+v", created)
	}
	if created.Tolerance != 0.15 {
		t.Errorf("default tolerance = %f, want 0.15", created.Tolerance)
	}
	if len(m.Templates()) != 1 {
		t.Fatalf("matcher has %d templates, want 1", len(m.Templates()))
	}

	// 2. List templates
	var listed struct {
		Templates []struct {
			ID string `json:"id"`
		} `json:"templates"`
	}
	if code := doJSON(t, client, http.MethodGet, ts.URL+"/api/templates", "", &listed); code != http.StatusOK {
		t.Fatalf("GET /api/templates status = %d", code)
	}
	if len(listed.Templates) != 1 || listed.Templates[0].ID != created.ID {
		t.Fatalf("listed = %+v", listed)
	}

	// 3. Match the drawing against the template
	var one struct {
		TemplateID string  `json:"template_id"`
		Score      float64 `json:"score"`
	}
	matchURL := ts.URL + "/api/templates/" + created.ID + "/match"
	if code := doJSON(t, client, http.MethodPost, matchURL, `{"strokes": `+letterL+`}`, &one); code != http.StatusOK {
		t.Fatalf("POST match status = %d", code)
	}
	if one.TemplateID != created.ID || one.Score < 0.8 {
		t.Errorf("match = %+v, want a close score", one)
	}

	var all struct {
		Matches []struct {
			TemplateID string `json:"template_id"`
		} `json:"matches"`
	}
	if code := doJSON(t, client, http.MethodPost, ts.URL+"/api/templates/match", `{"strokes": `+letterL+`}`, &all); code != http.StatusOK {
		t.Fatalf("POST /api/templates/match status = %d", code)
	}
	if len(all.Matches) != 1 || all.Matches[0].TemplateID != created.ID {
		t.Errorf("matches = %+v, want the L template", all.Matches)
	}

	all.Matches = nil
	doJSON(t, client, http.MethodPost, ts.URL+"/api/templates/match", `{"strokes": `+flatLine+`}`, &all)
	if len(all.Matches) != 0 {
		t.Errorf("flat line matched %+v, want none", all.Matches)
	}

	// 4. Too-short drawings are rejected
	short := `{"strokes": [[{"x":0.1,"y":0.1},{"x":0.2,"y":0.2}]]}`
	if code := doJSON(t, client, http.MethodPost, matchURL, short, nil); code != http.StatusUnprocessableEntity {
		t.Errorf("short drawing status = %d, want %d", code, http.StatusUnprocessableEntity)
	}

	// 5. Retrain from samples
	samples := `{"samples": [{"strokes": ` + letterL + `, "timestamp": 1}, {"strokes": ` + letterL + `, "timestamp": 2}]}`
	var trained struct {
		Samples int `json:"samples"`
		Path    []struct {
			X float64 `json:"x"`
		} `json:"path"`
	}
	samplesURL := ts.URL + "/api/templates/" + created.ID + "/samples"
	if code := doJSON(t, client, http.MethodPost, samplesURL, samples, &trained); code != http.StatusCreated {
		t.Fatalf("POST samples status = %d", code)
	}
	if trained.Samples != 2 || len(trained.Path) != trace.SamplePoints {
		t.Errorf("trained = %d samples, %d points", trained.Samples, len(trained.Path))
	}

	var stored struct {
		Samples []struct {
			SampleIndex int `json:"sample_index"`
		} `json:"samples"`
	}
	if code := doJSON(t, client, http.MethodGet, samplesURL, "", &stored); code != http.StatusOK {
		t.Fatalf("GET samples status = %d", code)
	}
	if len(stored.Samples) != 2 {
		t.Errorf("stored %d samples, want 2", len(stored.Samples))
	}

	// 6. Delete the template
	if code := doJSON(t, client, http.MethodDelete, ts.URL+"/api/templates/"+created.ID, "", nil); code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", code)
	}
	if code := doJSON(t, client, http.MethodGet, ts.URL+"/api/templates/"+created.ID, "", nil); code != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want %d", code, http.StatusNotFound)
	}
	if len(m.Templates()) != 0 {
		t.Errorf("matcher still has %d templates", len(m.Templates()))
	}
}

func TestAPI_TemplateWithoutPath(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	client := ts.Client()

	var created struct {
		ID string `json:"id"`
	}
	if code := doJSON(t, client, http.MethodPost, ts.URL+"/api/templates", `{"name": "empty"}`, &created); code != http.StatusCreated {
		t.Fatalf("POST status = %d", code)
	}

	code := doJSON(t, client, http.MethodPost, ts.URL+"/api/templates/"+created.ID+"/match", `{"strokes": `+letterL+`}`, nil)
	if code != http.StatusConflict {
		t.Errorf("match without path status = %d, want %d", code, http.StatusConflict)
	}
}

func TestAPI_PresetWorkflow(t *testing.T) {
	tracker := newSessionTracker()
	ts, _ := newTestServer(t, tracker)
	client := ts.Client()

	// 1. Invalid bodies are rejected
	bad := `{"name": "bad", "body": "pinch:\n  enter_threshold: 2\n"}`
	if code := doJSON(t, client, http.MethodPost, ts.URL+"/api/presets", bad, nil); code != http.StatusBadRequest {
		t.Errorf("invalid preset status = %d, want %d", code, http.StatusBadRequest)
	}

	// 2. Create a preset
	var created struct {
		ID     string `json:"id"`
		Active bool   `json:"active"`
		Tuning struct {
			Pinch struct {
				EnterThreshold float64 `json:"enter_threshold"`
			} `json:"pinch"`
		} `json:"tuning"`
	}
	body := `{"name": "tight", "body": "pinch:\n  enter_threshold: 0.03\n  exit_threshold: 0.04\n"}`
	if code := doJSON(t, client, http.MethodPost, ts.URL+"/api/presets", body, &created); code != http.StatusCreated {
		t.Fatalf("POST /api/presets status = %d", code)
	}
	if created.Active || created.Tuning.Pinch.EnterThreshold != 0.03 {
		t.Errorf("created = %+v", created)
	}

	if code := doJSON(t, client, http.MethodPost, ts.URL+"/api/presets", body, nil); code != http.StatusConflict {
		t.Errorf("duplicate preset status = %d, want %d", code, http.StatusConflict)
	}

	// 3. Apply it to the running session
	var applied struct {
		Active bool `json:"active"`
	}
	if code := doJSON(t, client, http.MethodPost, ts.URL+"/api/presets/"+created.ID+"/apply", "", &applied); code != http.StatusOK {
		t.Fatalf("apply status = %d", code)
	}
	if !applied.Active {
		t.Error("expected applied preset to be active")
	}
	got := tracker.session.Config().Pinch
	if got.EnterThreshold != 0.03 || got.ExitThreshold != 0.04 {
		t.Errorf("session pinch config = %+v", got)
	}

	var cfg struct {
		Pinch struct {
			EnterThreshold float64 `json:"enter_threshold"`
		} `json:"pinch"`
		FPS *int `json:"fps"`
	}
	if code := doJSON(t, client, http.MethodGet, ts.URL+"/api/tracking/config", "", &cfg); code != http.StatusOK {
		t.Fatalf("GET /api/tracking/config status = %d", code)
	}
	if cfg.Pinch.EnterThreshold != 0.03 || cfg.FPS != nil {
		t.Errorf("tracking config = %+v", cfg)
	}

	// 4. Delete clears the active marker
	if code := doJSON(t, client, http.MethodDelete, ts.URL+"/api/presets/"+created.ID, "", nil); code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", code)
	}
	var listed struct {
		Presets []struct{} `json:"presets"`
	}
	doJSON(t, client, http.MethodGet, ts.URL+"/api/presets", "", &listed)
	if len(listed.Presets) != 0 {
		t.Errorf("expected no presets, got %d", len(listed.Presets))
	}
}

func TestAPI_TrackingStrokes(t *testing.T) {
	tracker := newSessionTracker()
	ts, _ := newTestServer(t, tracker)
	client := ts.Client()

	pinched := func(x float64) []detector.LandmarkFrame {
		return []detector.LandmarkFrame{detector.PinchFrame(
			detector.Landmark{X: x, Y: 0.5},
			detector.Landmark{X: x + 0.02, Y: 0.5},
		)}
	}
	for i := 0; i < 5; i++ {
		tracker.process(int64(i*33+1), pinched(0.3+float64(i)*0.05))
	}

	var strokes struct {
		Strokes [][]struct {
			X float64 `json:"x"`
		} `json:"strokes"`
	}
	if code := doJSON(t, client, http.MethodGet, ts.URL+"/api/tracking/strokes", "", &strokes); code != http.StatusOK {
		t.Fatalf("GET strokes status = %d", code)
	}
	if len(strokes.Strokes) != 1 || len(strokes.Strokes[0]) == 0 {
		t.Fatalf("strokes = %+v, want one stroke", strokes.Strokes)
	}

	if code := doJSON(t, client, http.MethodDelete, ts.URL+"/api/tracking/strokes", "", nil); code != http.StatusNoContent {
		t.Fatalf("DELETE strokes status = %d", code)
	}

	strokes.Strokes = nil
	doJSON(t, client, http.MethodGet, ts.URL+"/api/tracking/strokes", "", &strokes)
	if strokes.Strokes == nil || len(strokes.Strokes) != 0 {
		t.Errorf("expected an empty stroke list, got %+v", strokes.Strokes)
	}

	if code := doJSON(t, client, http.MethodPut, ts.URL+"/api/tracking/drawing", `{"enabled": false}`, nil); code != http.StatusOK {
		t.Fatalf("PUT drawing status = %d", code)
	}
	if tracker.session.Config().DrawingEnabled {
		t.Error("expected drawing to be disabled")
	}
	if code := doJSON(t, client, http.MethodPut, ts.URL+"/api/tracking/drawing", `{}`, nil); code != http.StatusBadRequest {
		t.Errorf("PUT drawing without flag status = %d, want %d", code, http.StatusBadRequest)
	}
}
