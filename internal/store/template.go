package store

import (
	"database/sql"
	"errors"
	"time"
)

// Template is a trace template row. Its reference path lives in
// trace_template_points.
type Template struct {
	ID        string
	Name      string
	Tolerance float64
	Samples   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PathPoint is one point of a template's reference path.
type PathPoint struct {
	X float64
	Y float64
}

// TemplateRepository provides CRUD operations for trace templates.
type TemplateRepository struct {
	db *sql.DB
}

// Templates returns the template repository for this store.
func (s *Store) Templates() *TemplateRepository {
	return &TemplateRepository{db: s.db}
}

const templateColumns = `id, name, tolerance, samples, created_at, updated_at`

// Create inserts a new template.
func (r *TemplateRepository) Create(t *Template) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO trace_templates (`+templateColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Tolerance, t.Samples, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

// GetByID retrieves a template by its ID.
func (r *TemplateRepository) GetByID(id string) (*Template, error) {
	return r.get(`SELECT `+templateColumns+` FROM trace_templates WHERE id = ?`, id)
}

// GetByName retrieves a template by its name.
func (r *TemplateRepository) GetByName(name string) (*Template, error) {
	return r.get(`SELECT `+templateColumns+` FROM trace_templates WHERE name = ?`, name)
}

func (r *TemplateRepository) get(query, arg string) (*Template, error) {
	t := &Template{}
	err := r.db.QueryRow(query, arg).Scan(&t.ID, &t.Name, &t.Tolerance, &t.Samples, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// List retrieves all templates, by name.
func (r *TemplateRepository) List() ([]*Template, error) {
	rows, err := r.db.Query(`SELECT ` + templateColumns + ` FROM trace_templates ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*Template
	for rows.Next() {
		t := &Template{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Tolerance, &t.Samples, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}

// Update updates an existing template row.
func (r *TemplateRepository) Update(t *Template) error {
	t.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE trace_templates SET name = ?, tolerance = ?, samples = ?, updated_at = ? WHERE id = ?`,
		t.Name, t.Tolerance, t.Samples, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return err
	}
	return affected(result)
}

// Delete removes a template and, by cascade, its path and samples.
func (r *TemplateRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM trace_templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(result)
}

// SetPath replaces the reference path of a template.
func (r *TemplateRepository) SetPath(id string, path []PathPoint) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM trace_templates WHERE id = ?`, id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM trace_template_points WHERE template_id = ?`, id); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO trace_template_points (template_id, sequence, x, y) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range path {
		if _, err := stmt.Exec(id, i, p.X, p.Y); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`UPDATE trace_templates SET updated_at = ? WHERE id = ?`, time.Now(), id); err != nil {
		return err
	}
	return tx.Commit()
}

// GetPath retrieves the reference path of a template in sequence order.
// A template without a path yields an empty slice.
func (r *TemplateRepository) GetPath(id string) ([]PathPoint, error) {
	rows, err := r.db.Query(
		`SELECT x, y FROM trace_template_points WHERE template_id = ? ORDER BY sequence`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	path := []PathPoint{}
	for rows.Next() {
		var p PathPoint
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, err
		}
		path = append(path, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return path, nil
}
