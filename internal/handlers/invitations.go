// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"invitepress/internal/cache"
	"invitepress/internal/design"
	"invitepress/internal/middleware"
	"invitepress/internal/models"
	"invitepress/internal/policy"
	"invitepress/internal/slug"
	"invitepress/internal/store"
)

// Invitations groups the customer-facing invitation management API:
// creating invitations from the catalog or from scratch, publishing,
// customizing template-backed pages, and reading RSVP results.
type Invitations struct {
	invitations *store.InvitationStore
	templates   *store.TemplateStore
	rsvps       *store.RSVPStore
	pageCache   *cache.PageCache
}

// NewInvitations creates a new Invitations handler group.
func NewInvitations(invitations *store.InvitationStore, templates *store.TemplateStore, rsvps *store.RSVPStore, pageCache *cache.PageCache) *Invitations {
	return &Invitations{
		invitations: invitations,
		templates:   templates,
		rsvps:       rsvps,
		pageCache:   pageCache,
	}
}

// List returns the logged-in customer's invitations.
func (h *Invitations) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	items, err := h.invitations.ListByUser(sess.UserID)
	if err != nil {
		slog.Error("list invitations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type createInvitationRequest struct {
	EventName  string `json:"event_name"`
	TemplateID string `json:"template_id,omitempty"`
	Plan       string `json:"plan"`
}

// Create makes a new draft invitation. With a template_id the page is
// template-backed; without one the customer starts from scratch with a
// minimal block document.
func (h *Invitations) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req createInvitationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateEventName(req.EventName); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	inv := &models.Invitation{
		UserID:  sess.UserID,
		Content: json.RawMessage(`{"eventName":` + mustJSONString(req.EventName) + `}`),
	}

	if req.TemplateID != "" {
		plan := policy.Plan(req.Plan)
		if plan != policy.PlanFree && plan != policy.PlanPaid {
			writeError(w, http.StatusBadRequest, "plan must be free or paid")
			return
		}
		inv.Plan = plan

		tplID, err := uuid.Parse(req.TemplateID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid template id")
			return
		}
		tpl, err := h.templates.FindByID(tplID)
		if err != nil {
			slog.Error("template lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "something went wrong")
			return
		}
		if tpl == nil || !tpl.IsPublished() {
			writeError(w, http.StatusNotFound, "template not found")
			return
		}
		inv.TemplateID = &tpl.ID
		if len(tpl.DefaultContent) > 0 {
			inv.Content = mergeContent(tpl.DefaultContent, req.EventName)
		}
	} else {
		// From-scratch invitations get the full builder capability set
		// and always require payment before going live.
		inv.Plan = policy.PlanScratch
		doc := starterDocument()
		raw, err := doc.Encode()
		if err != nil {
			slog.Error("encode starter design failed", "error", err)
			writeError(w, http.StatusInternalServerError, "something went wrong")
			return
		}
		inv.Design = raw
	}

	unique, err := slug.Unique(slug.Generate(req.EventName), h.invitations.SlugExists)
	if err != nil {
		slog.Error("slug generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	inv.Slug = unique

	created, err := h.invitations.Create(inv)
	if err != nil {
		slog.Error("create invitation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get returns one of the customer's invitations.
func (h *Invitations) Get(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.owned(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// Publish makes the invitation visible to guests (subject to payment
// for paid-tier pages).
func (h *Invitations) Publish(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.InvitationStatusPublished)
}

// Unpublish takes the page down.
func (h *Invitations) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.InvitationStatusDraft)
}

func (h *Invitations) setStatus(w http.ResponseWriter, r *http.Request, status models.InvitationStatus) {
	inv, ok := h.owned(w, r)
	if !ok {
		return
	}
	if err := h.invitations.SetStatus(inv.ID, status); err != nil {
		slog.Error("set invitation status failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	h.pageCache.Invalidate(r.Context(), inv.Slug)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "status": status})
}

// UpdateContent replaces the invitation's event data.
func (h *Invitations) UpdateContent(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.owned(w, r)
	if !ok {
		return
	}

	var content map[string]any
	if !decodeJSON(w, r, &content) {
		return
	}
	raw, err := json.Marshal(content)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid content")
		return
	}

	if err := h.invitations.SaveCustomization(inv.ID, raw, inv.ThemeOverrides); err != nil {
		slog.Error("save content failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	h.pageCache.Invalidate(r.Context(), inv.Slug)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type themeUpdateRequest struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// UpdateTheme records a theme override on a template-backed invitation.
// Edits are clamped two ways: the template's customizable_fields
// whitelist, and the plan's color set.
func (h *Invitations) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.owned(w, r)
	if !ok {
		return
	}
	if inv.TemplateID == nil {
		writeError(w, http.StatusBadRequest, "from-scratch invitations edit their theme in the builder")
		return
	}

	var req themeUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tpl, err := h.templates.FindByID(*inv.TemplateID)
	if err != nil || tpl == nil {
		slog.Error("template lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if !tpl.CanCustomize(req.Path) {
		writeError(w, http.StatusForbidden, "this field is not customizable on this template")
		return
	}

	if design.IsColorPath(req.Path) {
		if !policy.AllowedThemeColors(inv.Plan)[design.ColorPathKey(req.Path)] {
			writeError(w, http.StatusForbidden, "this color is not available on the "+string(inv.Plan)+" plan")
			return
		}
	} else if !policy.IsSettingAllowed(inv.Plan, policy.FeatureFonts) && strings.HasPrefix(req.Path, "fonts.") {
		writeError(w, http.StatusForbidden, "font changes are not available on the "+string(inv.Plan)+" plan")
		return
	}

	overrides := design.ThemeOverrides{}
	if len(inv.ThemeOverrides) > 0 {
		if err := json.Unmarshal(inv.ThemeOverrides, &overrides); err != nil {
			slog.Error("decode overrides failed", "error", err, "invitation", inv.ID)
			writeError(w, http.StatusInternalServerError, "something went wrong")
			return
		}
	}
	if err := overrides.SetPath(req.Path, req.Value); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	raw, err := json.Marshal(overrides)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if err := h.invitations.SaveCustomization(inv.ID, inv.Content, raw); err != nil {
		slog.Error("save overrides failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	h.pageCache.Invalidate(r.Context(), inv.Slug)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// RSVPs returns the guest list and per-response totals.
func (h *Invitations) RSVPs(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.owned(w, r)
	if !ok {
		return
	}

	list, err := h.rsvps.ListByInvitation(inv.ID)
	if err != nil {
		slog.Error("list rsvps failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	counts, guests, err := h.rsvps.Counts(inv.ID)
	if err != nil {
		slog.Error("count rsvps failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rsvps":        list,
		"counts":       counts,
		"total_guests": guests,
	})
}

// Delete removes an invitation and everything attached to it.
func (h *Invitations) Delete(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.owned(w, r)
	if !ok {
		return
	}
	if err := h.invitations.Delete(inv.ID); err != nil {
		slog.Error("delete invitation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	h.pageCache.Invalidate(r.Context(), inv.Slug)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// owned loads the invitation from the URL and enforces ownership.
// Admins may operate on any invitation.
func (h *Invitations) owned(w http.ResponseWriter, r *http.Request) (*models.Invitation, bool) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid invitation id")
		return nil, false
	}
	inv, err := h.invitations.FindByID(id)
	if err != nil {
		slog.Error("find invitation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return nil, false
	}
	if inv == nil || (inv.UserID != sess.UserID && sess.Role != "admin") {
		writeError(w, http.StatusNotFound, "invitation not found")
		return nil, false
	}
	return inv, true
}

// starterDocument is the block document a from-scratch invitation
// begins with. All block types here are available on the free plan.
func starterDocument() *design.Design {
	return &design.Design{
		Blocks: []design.Block{
			design.NewBlock(design.BlockHero, 0),
			design.NewBlock(design.BlockEventDetails, 1),
			design.NewBlock(design.BlockRSVP, 2),
			design.NewBlock(design.BlockFooter, 3),
		},
		Theme: design.DefaultTheme(),
	}
}

// mergeContent lays the customer's event name over the template's
// default content.
func mergeContent(defaults json.RawMessage, eventName string) json.RawMessage {
	var m map[string]any
	if err := json.Unmarshal(defaults, &m); err != nil || m == nil {
		m = map[string]any{}
	}
	m["eventName"] = eventName
	raw, err := json.Marshal(m)
	if err != nil {
		return defaults
	}
	return raw
}

func mustJSONString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
