// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v75"

	"invitepress/internal/cache"
	"invitepress/internal/middleware"
	"invitepress/internal/models"
	"invitepress/internal/payments"
	"invitepress/internal/policy"
	"invitepress/internal/store"
)

// scratchPriceCents is the flat price for publishing a from-scratch
// invitation. Template-backed invitations are priced per template.
const scratchPriceCents = 2900

const maxWebhookBody = 65536

// Payments wires the Stripe checkout flow to invitations: checkout
// creates a pending Payment row, the webhook completes it and flips the
// invitation's paid flag.
type Payments struct {
	client      *payments.Client
	invitations *store.InvitationStore
	templates   *store.TemplateStore
	payments    *store.PaymentStore
	pageCache   *cache.PageCache
	baseURL     string
}

// NewPayments creates a new Payments handler group.
func NewPayments(client *payments.Client, invitations *store.InvitationStore, templates *store.TemplateStore, paymentStore *store.PaymentStore, pageCache *cache.PageCache, baseURL string) *Payments {
	return &Payments{
		client:      client,
		invitations: invitations,
		templates:   templates,
		payments:    paymentStore,
		pageCache:   pageCache,
		baseURL:     baseURL,
	}
}

type checkoutRequest struct {
	InvitationID string `json:"invitation_id"`
}

// Checkout opens a Stripe checkout session for one of the customer's
// unpaid invitations and returns the redirect URL.
func (h *Payments) Checkout(w http.ResponseWriter, r *http.Request) {
	if !h.client.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "payments are not configured")
		return
	}
	sess := middleware.SessionFromCtx(r.Context())

	var req checkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := uuid.Parse(req.InvitationID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid invitation id")
		return
	}

	inv, err := h.invitations.FindByID(id)
	if err != nil {
		slog.Error("find invitation for checkout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if inv == nil || inv.UserID != sess.UserID {
		writeError(w, http.StatusNotFound, "invitation not found")
		return
	}
	if inv.IsPaid {
		writeError(w, http.StatusConflict, "this invitation is already paid")
		return
	}
	if inv.Plan == policy.PlanFree {
		writeError(w, http.StatusBadRequest, "free invitations do not require payment")
		return
	}

	name, amount, err := h.price(inv)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cs, err := h.client.CreateCheckoutSession(payments.CheckoutInput{
		InvitationID: inv.ID,
		Email:        sess.Email,
		ProductName:  name,
		AmountCents:  amount,
		SuccessURL:   h.baseURL + "/dashboard?paid=1",
		CancelURL:    h.baseURL + "/dashboard?canceled=1",
	})
	if err != nil {
		slog.Error("stripe checkout failed", "error", err, "invitation", inv.ID)
		writeError(w, http.StatusInternalServerError, "could not start checkout")
		return
	}

	if _, err := h.payments.Create(&models.Payment{
		InvitationID:    inv.ID,
		UserID:          sess.UserID,
		StripeSessionID: cs.ID,
		AmountCents:     amount,
		Currency:        payments.Currency,
	}); err != nil {
		slog.Error("record payment failed", "error", err, "invitation", inv.ID)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": cs.URL})
}

// price resolves the product name and amount for an invitation purchase.
func (h *Payments) price(inv *models.Invitation) (string, int64, error) {
	if inv.TemplateID == nil {
		return "Custom invitation", scratchPriceCents, nil
	}
	tpl, err := h.templates.FindByID(*inv.TemplateID)
	if err != nil || tpl == nil {
		return "", 0, errInvitationUnpriceable
	}
	if tpl.PriceCents <= 0 {
		return "", 0, errInvitationUnpriceable
	}
	return "Invitation: " + tpl.Name, int64(tpl.PriceCents), nil
}

var errInvitationUnpriceable = errors.New("this invitation has no price configured")

// Webhook receives Stripe events. checkout.session.completed marks the
// payment completed and the invitation paid; expired sessions mark the
// payment failed. Unknown events are acknowledged so Stripe stops
// retrying them.
func (h *Payments) Webhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "error reading request body")
		return
	}

	event, err := h.client.ParseWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		slog.Warn("stripe signature verification failed", "error", err)
		writeError(w, http.StatusBadRequest, "signature verification failed")
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			writeError(w, http.StatusBadRequest, "failed to parse session")
			return
		}
		if err := h.completeCheckout(r, &cs); err != nil {
			slog.Error("complete checkout failed", "error", err, "session", cs.ID)
			writeError(w, http.StatusInternalServerError, "something went wrong")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "received"})

	case "checkout.session.expired":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			writeError(w, http.StatusBadRequest, "failed to parse session")
			return
		}
		if p, err := h.payments.FindBySessionID(cs.ID); err == nil && p != nil {
			if err := h.payments.SetStatus(p.ID, models.PaymentStatusFailed); err != nil {
				slog.Error("mark payment failed", "error", err, "payment", p.ID)
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "received"})

	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
	}
}

func (h *Payments) completeCheckout(r *http.Request, cs *stripe.CheckoutSession) error {
	p, err := h.payments.FindBySessionID(cs.ID)
	if err != nil {
		return err
	}
	if p == nil {
		// Session from another environment; acknowledge without acting.
		slog.Warn("checkout session has no payment row", "session", cs.ID)
		return nil
	}
	if p.Status == models.PaymentStatusCompleted {
		return nil
	}

	if err := h.payments.SetStatus(p.ID, models.PaymentStatusCompleted); err != nil {
		return err
	}
	if err := h.invitations.MarkPaid(p.InvitationID); err != nil {
		return err
	}

	// A newly paid published invitation may have been cached as a 404
	// path upstream; drop its page entry either way.
	if inv, err := h.invitations.FindByID(p.InvitationID); err == nil && inv != nil {
		h.pageCache.Invalidate(r.Context(), inv.Slug)
	}

	slog.Info("invitation paid", "invitation", p.InvitationID, "amount_cents", p.AmountCents)
	return nil
}
