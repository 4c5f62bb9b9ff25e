// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"invitepress/internal/models"
)

// TemplateStore handles all catalog-template database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `id, name, category_id, design, customizable_fields, default_content, is_premium, price_cents, status, created_at, updated_at`

// scanTemplate scans a row into a Template. customizable_fields is stored
// as jsonb and decoded into the string slice here.
func scanTemplate(scanner interface{ Scan(...any) error }) (*models.Template, error) {
	t := &models.Template{}
	var design, fields, defaultContent []byte
	err := scanner.Scan(
		&t.ID, &t.Name, &t.CategoryID, &design, &fields, &defaultContent,
		&t.IsPremium, &t.PriceCents, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Design = design
	t.DefaultContent = defaultContent
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &t.CustomizableFields); err != nil {
			return nil, fmt.Errorf("decode customizable_fields: %w", err)
		}
	}
	return t, nil
}

func encodeFields(fields []string) ([]byte, error) {
	if fields == nil {
		fields = []string{}
	}
	return json.Marshal(fields)
}

// List returns all templates ordered by name. Drafts included; the
// catalog endpoints filter with ListPublished instead.
func (s *TemplateStore) List() ([]models.Template, error) {
	return s.list(`SELECT ` + templateColumns + ` FROM templates ORDER BY name`)
}

// ListPublished returns published templates, optionally restricted to a category.
func (s *TemplateStore) ListPublished(categoryID *uuid.UUID) ([]models.Template, error) {
	if categoryID != nil {
		return s.list(`
			SELECT `+templateColumns+` FROM templates
			WHERE status = 'published' AND category_id = $1
			ORDER BY name`, *categoryID)
	}
	return s.list(`
		SELECT ` + templateColumns + ` FROM templates
		WHERE status = 'published'
		ORDER BY name`)
}

func (s *TemplateStore) list(query string, args ...any) ([]models.Template, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// FindByID retrieves a template by its UUID. Returns nil if not found.
func (s *TemplateStore) FindByID(id uuid.UUID) (*models.Template, error) {
	t, err := scanTemplate(s.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// Create inserts a new template as a draft.
func (s *TemplateStore) Create(t *models.Template) (*models.Template, error) {
	fields, err := encodeFields(t.CustomizableFields)
	if err != nil {
		return nil, fmt.Errorf("encode customizable_fields: %w", err)
	}

	result, err := scanTemplate(s.db.QueryRow(`
		INSERT INTO templates (name, category_id, design, customizable_fields, default_content, is_premium, price_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'draft')
		RETURNING `+templateColumns,
		t.Name, t.CategoryID, []byte(t.Design), fields, []byte(t.DefaultContent), t.IsPremium, t.PriceCents,
	))
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return result, nil
}

// Update modifies a template's metadata and design document.
func (s *TemplateStore) Update(t *models.Template) error {
	fields, err := encodeFields(t.CustomizableFields)
	if err != nil {
		return fmt.Errorf("encode customizable_fields: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE templates SET
			name = $1, category_id = $2, design = $3, customizable_fields = $4,
			default_content = $5, is_premium = $6, price_cents = $7, updated_at = NOW()
		WHERE id = $8
	`, t.Name, t.CategoryID, []byte(t.Design), fields, []byte(t.DefaultContent), t.IsPremium, t.PriceCents, t.ID)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// UpdateDesign replaces only the design document. Used by the admin builder.
func (s *TemplateStore) UpdateDesign(id uuid.UUID, design json.RawMessage) error {
	_, err := s.db.Exec(`
		UPDATE templates SET design = $1, updated_at = NOW() WHERE id = $2
	`, []byte(design), id)
	if err != nil {
		return fmt.Errorf("update template design: %w", err)
	}
	return nil
}

// SetStatus publishes or unpublishes a template.
func (s *TemplateStore) SetStatus(id uuid.UUID, status models.TemplateStatus) error {
	_, err := s.db.Exec(`
		UPDATE templates SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("set template status: %w", err)
	}
	return nil
}

// Delete removes a draft template. Published templates must be
// unpublished first so live invitations are not orphaned by accident.
func (s *TemplateStore) Delete(id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM templates WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("cannot delete: template is published or not found")
	}
	return nil
}

// Count returns the total number of templates.
func (s *TemplateStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM templates`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	return count, nil
}
