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

// PaymentStore records checkout attempts and their outcomes.
type PaymentStore struct {
	db *sql.DB
}

// NewPaymentStore returns a new PaymentStore.
func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

const paymentColumns = `id, invitation_id, user_id, stripe_session_id, amount_cents, currency, status, created_at`

func scanPayment(scanner interface{ Scan(...any) error }) (*models.Payment, error) {
	p := &models.Payment{}
	err := scanner.Scan(
		&p.ID, &p.InvitationID, &p.UserID, &p.StripeSessionID,
		&p.AmountCents, &p.Currency, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create records a pending payment for a freshly created checkout session.
func (s *PaymentStore) Create(p *models.Payment) (*models.Payment, error) {
	result, err := scanPayment(s.db.QueryRow(`
		INSERT INTO payments (invitation_id, user_id, stripe_session_id, amount_cents, currency, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING `+paymentColumns,
		p.InvitationID, p.UserID, p.StripeSessionID, p.AmountCents, p.Currency,
	))
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return result, nil
}

// FindBySessionID looks up a payment by its Stripe checkout session id.
// Returns nil if not found.
func (s *PaymentStore) FindBySessionID(sessionID string) (*models.Payment, error) {
	p, err := scanPayment(s.db.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE stripe_session_id = $1`, sessionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find payment by session: %w", err)
	}
	return p, nil
}

// SetStatus updates a payment's lifecycle state from the webhook.
func (s *PaymentStore) SetStatus(id uuid.UUID, status models.PaymentStatus) error {
	_, err := s.db.Exec(`UPDATE payments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("set payment status: %w", err)
	}
	return nil
}

// List returns all payments, newest first. Admin view.
func (s *PaymentStore) List() ([]models.Payment, error) {
	rows, err := s.db.Query(`SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var items []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}
