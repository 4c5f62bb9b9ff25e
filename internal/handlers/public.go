// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"invitepress/internal/cache"
	"invitepress/internal/design"
	"invitepress/internal/models"
	"invitepress/internal/renderer"
	"invitepress/internal/store"
)

// Public groups handlers for the guest-facing invitation pages. It
// checks the L2 Valkey page cache before rendering, and stores rendered
// results on miss.
type Public struct {
	invitations *store.InvitationStore
	templates   *store.TemplateStore
	rsvps       *store.RSVPStore
	renderer    *renderer.Renderer
	pageCache   *cache.PageCache
	baseURL     string
}

// NewPublic creates a new Public handler group.
func NewPublic(invitations *store.InvitationStore, templates *store.TemplateStore, rsvps *store.RSVPStore, rend *renderer.Renderer, pageCache *cache.PageCache, baseURL string) *Public {
	return &Public{
		invitations: invitations,
		templates:   templates,
		rsvps:       rsvps,
		renderer:    rend,
		pageCache:   pageCache,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// InvitationPage renders a published invitation by its slug.
func (p *Public) InvitationPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	// Check L2 cache first.
	if cached, ok := p.pageCache.Get(ctx, slugParam); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(cached)
		return
	}

	inv, err := p.invitations.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find invitation by slug failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Drafts and unpaid premium pages look like missing pages to guests.
	if inv == nil || !inv.PubliclyVisible() {
		http.NotFound(w, r)
		return
	}

	html, err := p.renderInvitation(inv)
	if err != nil {
		slog.Error("render invitation failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, slugParam, html)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// renderInvitation resolves the design source, theme overrides, and
// event data, then renders the full page.
func (p *Public) renderInvitation(inv *models.Invitation) ([]byte, error) {
	doc, err := p.designFor(inv)
	if err != nil {
		return nil, err
	}

	var overrides design.ThemeOverrides
	if len(inv.ThemeOverrides) > 0 {
		if err := json.Unmarshal(inv.ThemeOverrides, &overrides); err != nil {
			return nil, fmt.Errorf("decode theme overrides: %w", err)
		}
	}

	data := design.EventData{}
	if len(inv.Content) > 0 {
		if err := json.Unmarshal(inv.Content, &data); err != nil {
			return nil, fmt.Errorf("decode event data: %w", err)
		}
	}

	title := data.String("eventName")
	if title == "" {
		title = "You're invited"
	}

	return p.renderer.RenderPage(renderer.PageInput{
		Design:    doc,
		EventData: data,
		Overrides: overrides,
		Title:     title,
		Callbacks: renderer.Callbacks{
			RSVPURL:  "/i/" + inv.Slug + "/rsvp",
			ShareURL: p.baseURL + "/i/" + inv.Slug,
		},
	}), nil
}

// designFor returns the invitation's block document: its own for
// from-scratch pages, the template's otherwise.
func (p *Public) designFor(inv *models.Invitation) (*design.Design, error) {
	if inv.HasOwnDesign() {
		return design.Parse(inv.Design)
	}
	if inv.TemplateID == nil {
		return nil, fmt.Errorf("invitation %s has no design source", inv.ID)
	}
	tpl, err := p.templates.FindByID(*inv.TemplateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, fmt.Errorf("invitation %s references missing template", inv.ID)
	}
	return design.Parse(tpl.Design)
}

// InvitationQR serves a PNG QR code pointing at the invitation's share link.
func (p *Public) InvitationQR(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	inv, err := p.invitations.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find invitation for qr failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if inv == nil || !inv.PubliclyVisible() {
		http.NotFound(w, r)
		return
	}

	png, err := qrcode.Encode(p.baseURL+"/i/"+inv.Slug, qrcode.Medium, 512)
	if err != nil {
		slog.Error("qr encode failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}

// RSVPSubmit accepts a guest submission from the invitation's RSVP form.
func (p *Public) RSVPSubmit(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	inv, err := p.invitations.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find invitation for rsvp failed", "error", err, "slug", slugParam)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if inv == nil || !inv.PubliclyVisible() {
		writeError(w, http.StatusNotFound, "invitation not found")
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	guestName := r.FormValue("name")
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	response := r.FormValue("response")
	message := r.FormValue("message")
	guests, convErr := strconv.Atoi(r.FormValue("numberOfGuests"))
	if convErr != nil {
		guests = 1
	}

	if !models.ValidRSVPResponse(response) {
		writeError(w, http.StatusBadRequest, "response must be yes, no, or maybe")
		return
	}
	if msg := validateRSVP(guestName, email, guests); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if len(message) > maxRSVPMessageLen {
		writeError(w, http.StatusBadRequest, "Message is too long.")
		return
	}

	already, err := p.rsvps.HasResponded(inv.ID, email)
	if err != nil {
		slog.Error("rsvp duplicate check failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if already {
		writeError(w, http.StatusConflict, "this email has already responded")
		return
	}

	created, err := p.rsvps.Create(&models.RSVP{
		InvitationID:   inv.ID,
		GuestName:      strings.TrimSpace(guestName),
		Email:          email,
		Response:       models.RSVPResponse(response),
		NumberOfGuests: guests,
		Message:        strings.TrimSpace(message),
	})
	if err != nil {
		slog.Error("create rsvp failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	slog.Info("rsvp received", "invitation", inv.ID, "response", created.Response)
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true})
}

// Health is the liveness endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
