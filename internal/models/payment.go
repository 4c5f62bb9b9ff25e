// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus tracks a Stripe checkout session's lifecycle.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records one checkout attempt for an invitation.
type Payment struct {
	ID              uuid.UUID     `json:"id"`
	InvitationID    uuid.UUID     `json:"invitation_id"`
	UserID          uuid.UUID     `json:"user_id"`
	StripeSessionID string        `json:"stripe_session_id"`
	AmountCents     int64         `json:"amount_cents"`
	Currency        string        `json:"currency"`
	Status          PaymentStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
}
