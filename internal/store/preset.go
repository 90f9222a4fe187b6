package store

import (
	"database/sql"
	"errors"
	"time"
)

// Preset is a named tuning document. Body holds the YAML text.
type Preset struct {
	ID        string
	Name      string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PresetRepository provides CRUD operations for tuning presets.
type PresetRepository struct {
	db *sql.DB
}

// Presets returns the preset repository for this store.
func (s *Store) Presets() *PresetRepository {
	return &PresetRepository{db: s.db}
}

// Create inserts a new preset.
func (r *PresetRepository) Create(p *Preset) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO tuning_presets (id, name, body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Body, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a preset by its ID.
func (r *PresetRepository) GetByID(id string) (*Preset, error) {
	return r.get(`SELECT id, name, body, created_at, updated_at FROM tuning_presets WHERE id = ?`, id)
}

// GetByName retrieves a preset by its name.
func (r *PresetRepository) GetByName(name string) (*Preset, error) {
	return r.get(`SELECT id, name, body, created_at, updated_at FROM tuning_presets WHERE name = ?`, name)
}

func (r *PresetRepository) get(query string, arg string) (*Preset, error) {
	p := &Preset{}
	err := r.db.QueryRow(query, arg).Scan(&p.ID, &p.Name, &p.Body, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List retrieves all presets, by name.
func (r *PresetRepository) List() ([]*Preset, error) {
	rows, err := r.db.Query(
		`SELECT id, name, body, created_at, updated_at FROM tuning_presets ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []*Preset
	for rows.Next() {
		p := &Preset{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Body, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return presets, nil
}

// Update replaces the name and body of an existing preset.
func (r *PresetRepository) Update(p *Preset) error {
	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE tuning_presets SET name = ?, body = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Body, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}
	return affected(result)
}

// Delete removes a preset by its ID.
func (r *PresetRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM tuning_presets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(result)
}
