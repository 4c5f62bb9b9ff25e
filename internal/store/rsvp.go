// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"invitepress/internal/models"
)

// RSVPStore manages guest submissions.
type RSVPStore struct {
	db *sql.DB
}

// NewRSVPStore returns a new RSVPStore.
func NewRSVPStore(db *sql.DB) *RSVPStore {
	return &RSVPStore{db: db}
}

const rsvpColumns = `id, invitation_id, guest_name, email, response, number_of_guests, message, created_at`

// Create inserts a guest submission and returns it.
func (s *RSVPStore) Create(r *models.RSVP) (*models.RSVP, error) {
	result := &models.RSVP{}
	err := s.db.QueryRow(`
		INSERT INTO rsvps (invitation_id, guest_name, email, response, number_of_guests, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+rsvpColumns,
		r.InvitationID, r.GuestName, r.Email, r.Response, r.NumberOfGuests, r.Message,
	).Scan(
		&result.ID, &result.InvitationID, &result.GuestName, &result.Email,
		&result.Response, &result.NumberOfGuests, &result.Message, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create rsvp: %w", err)
	}
	return result, nil
}

// ListByInvitation returns all submissions for an invitation, newest first.
func (s *RSVPStore) ListByInvitation(invitationID uuid.UUID) ([]models.RSVP, error) {
	rows, err := s.db.Query(`
		SELECT `+rsvpColumns+` FROM rsvps
		WHERE invitation_id = $1
		ORDER BY created_at DESC
	`, invitationID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	defer rows.Close()

	var items []models.RSVP
	for rows.Next() {
		var r models.RSVP
		err := rows.Scan(
			&r.ID, &r.InvitationID, &r.GuestName, &r.Email,
			&r.Response, &r.NumberOfGuests, &r.Message, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan rsvp: %w", err)
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// Counts returns per-response totals and the summed guest count for
// "yes" answers. Shown on the customer's dashboard.
func (s *RSVPStore) Counts(invitationID uuid.UUID) (map[models.RSVPResponse]int, int, error) {
	rows, err := s.db.Query(`
		SELECT response, COUNT(*),
		       COALESCE(SUM(number_of_guests) FILTER (WHERE response = 'yes'), 0)
		FROM rsvps WHERE invitation_id = $1
		GROUP BY response
	`, invitationID)
	if err != nil {
		return nil, 0, fmt.Errorf("count rsvps: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.RSVPResponse]int)
	guests := 0
	for rows.Next() {
		var resp models.RSVPResponse
		var n, g int
		if err := rows.Scan(&resp, &n, &g); err != nil {
			return nil, 0, fmt.Errorf("scan rsvp count: %w", err)
		}
		counts[resp] = n
		guests += g
	}
	return counts, guests, rows.Err()
}

// HasResponded reports whether an email already answered this invitation.
// Used to reject duplicate submissions.
func (s *RSVPStore) HasResponded(invitationID uuid.UUID, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM rsvps WHERE invitation_id = $1 AND email = $2)
	`, invitationID, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check rsvp: %w", err)
	}
	return exists, nil
}
