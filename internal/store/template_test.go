package store

import (
	"encoding/json"
	"testing"
)

func createTemplate(t *testing.T, s *Store, id, name string) *Template {
	t.Helper()
	tmpl := &Template{ID: id, Name: name, Tolerance: 0.2}
	if err := s.Templates().Create(tmpl); err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
	return tmpl
}

func TestTemplateRepository_CRUD(t *testing.T) {
	s := newTestStore(t)
	repo := s.Templates()
	tmpl := createTemplate(t, s, "t1", "A")

	got, err := repo.GetByID("t1")
	if err != nil {
		t.Fatalf("failed to get template: %v", err)
	}
	if got.Name != "A" || got.Tolerance != 0.2 || got.Samples != 0 {
		t.Errorf("unexpected template %+v", got)
	}

	tmpl.Name = "A uppercase"
	tmpl.Tolerance = 0.3
	if err := repo.Update(tmpl); err != nil {
		t.Fatalf("failed to update template: %v", err)
	}
	got, _ = repo.GetByName("A uppercase")
	if got == nil || got.Tolerance != 0.3 {
		t.Errorf("update not applied, got %+v", got)
	}

	list, err := repo.List()
	if err != nil || len(list) != 1 {
		t.Fatalf("List() = %v, %v", list, err)
	}

	if err := repo.Delete("t1"); err != nil {
		t.Fatalf("failed to delete template: %v", err)
	}
	if _, err := repo.GetByID("t1"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete("t1"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestTemplateRepository_Path(t *testing.T) {
	s := newTestStore(t)
	repo := s.Templates()
	createTemplate(t, s, "t1", "L")

	empty, err := repo.GetPath("t1")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty path, got %v, %v", empty, err)
	}

	path := []PathPoint{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0.6, Y: 1}}
	if err := repo.SetPath("t1", path); err != nil {
		t.Fatalf("SetPath() error = %v", err)
	}
	if err := repo.SetPath("t1", path[:2]); err != nil {
		t.Fatalf("SetPath() replace error = %v", err)
	}

	got, err := repo.GetPath("t1")
	if err != nil {
		t.Fatalf("GetPath() error = %v", err)
	}
	if len(got) != 2 || got[1] != path[1] {
		t.Errorf("expected replaced path %v, got %v", path[:2], got)
	}

	if err := repo.SetPath("missing", path); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing template, got %v", err)
	}
}

func TestTemplateRepository_DeleteCascades(t *testing.T) {
	s := newTestStore(t)
	createTemplate(t, s, "t1", "O")

	if err := s.Templates().SetPath("t1", []PathPoint{{X: 0.5, Y: 0}}); err != nil {
		t.Fatalf("SetPath() error = %v", err)
	}
	if err := s.Samples().Create("t1", []json.RawMessage{json.RawMessage(`{"strokes":[]}`)}); err != nil {
		t.Fatalf("Samples().Create() error = %v", err)
	}
	if err := s.Templates().Delete("t1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	for _, table := range []string{"trace_template_points", "trace_samples"} {
		var n int
		if err := s.DB().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("expected %s to be empty after cascade, got %d rows", table, n)
		}
	}
}

func TestSampleRepository(t *testing.T) {
	s := newTestStore(t)
	createTemplate(t, s, "t1", "S")

	samples := []json.RawMessage{
		json.RawMessage(`{"strokes":[[{"x":0,"y":0},{"x":1,"y":1}]]}`),
		json.RawMessage(`{"strokes":[[{"x":0,"y":0},{"x":1,"y":0.9}]]}`),
	}
	if err := s.Samples().Create("t1", samples); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Samples().GetByTemplateID("t1")
	if err != nil {
		t.Fatalf("GetByTemplateID() error = %v", err)
	}
	if len(got) != 2 || got[1].SampleIndex != 1 || string(got[0].Data) != string(samples[0]) {
		t.Errorf("unexpected samples %+v", got)
	}

	tmpl, _ := s.Templates().GetByID("t1")
	if tmpl.Samples != 2 {
		t.Errorf("expected sample count 2, got %d", tmpl.Samples)
	}

	// A second upload replaces the first.
	if err := s.Samples().Create("t1", samples[:1]); err != nil {
		t.Fatalf("Create() replace error = %v", err)
	}
	got, _ = s.Samples().GetByTemplateID("t1")
	if len(got) != 1 {
		t.Errorf("expected 1 sample after replace, got %d", len(got))
	}

	if err := s.Samples().Create("missing", nil); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing template, got %v", err)
	}
}
