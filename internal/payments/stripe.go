// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package payments wraps the Stripe API: one-time checkout sessions for
// premium invitations and signature-verified webhook parsing. Database
// side effects stay in the HTTP handlers; this package only talks to
// Stripe.
package payments

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/webhook"
)

// Currency is the settlement currency for all invitation purchases.
const Currency = "eur"

// Client holds the Stripe credentials.
type Client struct {
	webhookSecret string
	enabled       bool
}

// New configures the global Stripe key and returns a client. An empty
// secret key disables payments without breaking the rest of the app.
func New(secretKey, webhookSecret string) *Client {
	if secretKey != "" {
		stripe.Key = secretKey
	}
	return &Client{webhookSecret: webhookSecret, enabled: secretKey != ""}
}

// Enabled reports whether Stripe credentials are configured.
func (c *Client) Enabled() bool {
	return c.enabled
}

// CheckoutInput describes one invitation purchase.
type CheckoutInput struct {
	InvitationID uuid.UUID
	Email        string
	ProductName  string
	AmountCents  int64
	SuccessURL   string
	CancelURL    string
}

// CreateCheckoutSession opens a one-time-payment checkout session for an
// invitation and returns it. The invitation id travels in the session
// metadata so the webhook can resolve the purchase.
func (c *Client) CreateCheckoutSession(in CheckoutInput) (*stripe.CheckoutSession, error) {
	if !c.enabled {
		return nil, fmt.Errorf("stripe is not configured")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(in.SuccessURL),
		CancelURL:     stripe.String(in.CancelURL),
		CustomerEmail: stripe.String(in.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(Currency),
					UnitAmount: stripe.Int64(in.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(in.InvitationID.String()),
	}
	params.AddMetadata("invitation_id", in.InvitationID.String())

	s, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return s, nil
}

// ParseWebhook verifies the Stripe signature and returns the event.
func (c *Client) ParseWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(
		payload,
		sigHeader,
		c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
}
