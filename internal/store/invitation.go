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

// InvitationStore handles all invitation-related database operations.
type InvitationStore struct {
	db *sql.DB
}

// NewInvitationStore creates a new InvitationStore with the given database connection.
func NewInvitationStore(db *sql.DB) *InvitationStore {
	return &InvitationStore{db: db}
}

const invitationColumns = `id, user_id, template_id, design, content, theme_overrides, slug, plan, is_paid, status, created_at, updated_at`

func scanInvitation(scanner interface{ Scan(...any) error }) (*models.Invitation, error) {
	i := &models.Invitation{}
	var design, content, overrides []byte
	err := scanner.Scan(
		&i.ID, &i.UserID, &i.TemplateID, &design, &content, &overrides,
		&i.Slug, &i.Plan, &i.IsPaid, &i.Status, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	i.Design = design
	i.Content = content
	i.ThemeOverrides = overrides
	return i, nil
}

// FindBySlug retrieves an invitation by its public slug. Returns nil if not found.
func (s *InvitationStore) FindBySlug(slug string) (*models.Invitation, error) {
	i, err := scanInvitation(s.db.QueryRow(`SELECT `+invitationColumns+` FROM invitations WHERE slug = $1`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find invitation by slug: %w", err)
	}
	return i, nil
}

// FindByID retrieves an invitation by its UUID. Returns nil if not found.
func (s *InvitationStore) FindByID(id uuid.UUID) (*models.Invitation, error) {
	i, err := scanInvitation(s.db.QueryRow(`SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find invitation by id: %w", err)
	}
	return i, nil
}

// ListByUser returns a customer's invitations, newest first.
func (s *InvitationStore) ListByUser(userID uuid.UUID) ([]models.Invitation, error) {
	rows, err := s.db.Query(`
		SELECT `+invitationColumns+` FROM invitations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	var items []models.Invitation
	for rows.Next() {
		i, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

// Create inserts a new invitation as a draft. Exactly one of TemplateID
// and Design must be set; the CHECK constraint enforces it at the table.
func (s *InvitationStore) Create(i *models.Invitation) (*models.Invitation, error) {
	result, err := scanInvitation(s.db.QueryRow(`
		INSERT INTO invitations (user_id, template_id, design, content, theme_overrides, slug, plan, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'draft')
		RETURNING `+invitationColumns,
		i.UserID, i.TemplateID, []byte(i.Design), []byte(i.Content), []byte(i.ThemeOverrides), i.Slug, i.Plan,
	))
	if err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	return result, nil
}

// SaveDesign persists the builder's state for a from-scratch invitation.
func (s *InvitationStore) SaveDesign(id uuid.UUID, design json.RawMessage) error {
	_, err := s.db.Exec(`
		UPDATE invitations SET design = $1, updated_at = NOW()
		WHERE id = $2 AND template_id IS NULL
	`, []byte(design), id)
	if err != nil {
		return fmt.Errorf("save invitation design: %w", err)
	}
	return nil
}

// SaveCustomization persists a template-backed invitation's content and
// theme overrides.
func (s *InvitationStore) SaveCustomization(id uuid.UUID, content, overrides json.RawMessage) error {
	_, err := s.db.Exec(`
		UPDATE invitations SET content = $1, theme_overrides = $2, updated_at = NOW()
		WHERE id = $3
	`, []byte(content), []byte(overrides), id)
	if err != nil {
		return fmt.Errorf("save invitation customization: %w", err)
	}
	return nil
}

// SetStatus publishes or unpublishes an invitation.
func (s *InvitationStore) SetStatus(id uuid.UUID, status models.InvitationStatus) error {
	_, err := s.db.Exec(`
		UPDATE invitations SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("set invitation status: %w", err)
	}
	return nil
}

// MarkPaid flips is_paid after a successful checkout.
func (s *InvitationStore) MarkPaid(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE invitations SET is_paid = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("mark invitation paid: %w", err)
	}
	return nil
}

// Delete removes an invitation. RSVPs go with it (ON DELETE CASCADE).
func (s *InvitationStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	return nil
}

// SlugExists reports whether a slug is already taken.
func (s *InvitationStore) SlugExists(slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM invitations WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}
