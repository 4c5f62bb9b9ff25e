// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"invitepress/internal/builder"
	"invitepress/internal/cache"
	"invitepress/internal/design"
	"invitepress/internal/middleware"
	"invitepress/internal/policy"
	"invitepress/internal/renderer"
	"invitepress/internal/store"
)

// Builder exposes the editing sessions over HTTP. Customers build their
// from-scratch invitations here; admins build templates with the full
// capability set. One session per user per target; mutations operate on
// in-memory state and nothing touches the database until Save.
type Builder struct {
	sessions    *builder.Sessions
	invitations *store.InvitationStore
	templates   *store.TemplateStore
	renderer    *renderer.Renderer
	pageCache   *cache.PageCache
}

// NewBuilder creates a new Builder handler group.
func NewBuilder(sessions *builder.Sessions, invitations *store.InvitationStore, templates *store.TemplateStore, rend *renderer.Renderer, pageCache *cache.PageCache) *Builder {
	return &Builder{
		sessions:    sessions,
		invitations: invitations,
		templates:   templates,
		renderer:    rend,
		pageCache:   pageCache,
	}
}

// sessionKey scopes a session to one user editing one target, so two
// browser tabs on the same invitation share history while different
// users never collide.
func sessionKey(userID uuid.UUID, kind, targetID string) string {
	return kind + ":" + targetID + ":" + userID.String()
}

func (h *Builder) keyFromRequest(r *http.Request) string {
	sess := middleware.SessionFromCtx(r.Context())
	return sessionKey(sess.UserID, chi.URLParam(r, "kind"), chi.URLParam(r, "id"))
}

// OpenInvitation starts (or restarts) an editing session over a
// from-scratch invitation. Template-backed invitations are customized
// through the invitation API instead, so they are rejected here.
func (h *Builder) OpenInvitation(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid invitation id")
		return
	}
	inv, err := h.invitations.FindByID(id)
	if err != nil {
		slog.Error("find invitation for builder failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if inv == nil || (inv.UserID != sess.UserID && sess.Role != "admin") {
		writeError(w, http.StatusNotFound, "invitation not found")
		return
	}
	if !inv.HasOwnDesign() {
		writeError(w, http.StatusBadRequest, "template-backed invitations are customized through the invitation API")
		return
	}

	doc, err := design.Parse(inv.Design)
	if err != nil {
		slog.Error("parse invitation design failed", "error", err, "invitation", inv.ID)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.open(w, r, sessionKey(sess.UserID, "invitations", inv.ID.String()), doc, inv.Plan)
}

// OpenTemplate starts an editing session over a template. Admin-only
// (enforced by the route group); runs with the full capability set.
func (h *Builder) OpenTemplate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}
	tpl, err := h.templates.FindByID(id)
	if err != nil {
		slog.Error("find template for builder failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if tpl == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	doc, err := design.Parse(tpl.Design)
	if err != nil {
		slog.Error("parse template design failed", "error", err, "template", tpl.ID)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.open(w, r, sessionKey(sess.UserID, "templates", tpl.ID.String()), doc, policy.PlanScratch)
}

func (h *Builder) open(w http.ResponseWriter, r *http.Request, key string, doc *design.Design, plan policy.Plan) {
	ctrl, err := builder.NewController(doc, plan)
	if err != nil {
		slog.Error("open builder session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	h.sessions.Open(key, ctrl)
	h.writeState(w, key)
}

// Close discards the editing session without saving.
func (h *Builder) Close(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(h.keyFromRequest(r))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type addBlockRequest struct {
	Type string `json:"type"`
}

// AddBlock appends a block of the requested type and selects it.
func (h *Builder) AddBlock(w http.ResponseWriter, r *http.Request) {
	var req addBlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.mutate(w, r, func(c *builder.Controller) error {
		_, err := c.AddBlock(design.BlockType(req.Type))
		return err
	})
}

// RemoveBlock deletes the block named in the URL.
func (h *Builder) RemoveBlock(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "blockID")
	h.mutate(w, r, func(c *builder.Controller) error {
		return c.RemoveBlock(blockID)
	})
}

type blockEditRequest struct {
	BlockID string `json:"block_id"`
	Key     string `json:"key"`
	Value   any    `json:"value"`
}

// UpdateContent sets one content field on a block.
func (h *Builder) UpdateContent(w http.ResponseWriter, r *http.Request) {
	var req blockEditRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.mutate(w, r, func(c *builder.Controller) error {
		return c.UpdateBlockContent(req.BlockID, req.Key, req.Value)
	})
}

// UpdateSettings sets one settings field on a block, gated by the
// session plan's capabilities.
func (h *Builder) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req blockEditRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.mutate(w, r, func(c *builder.Controller) error {
		return c.UpdateBlockSettings(req.BlockID, req.Key, req.Value)
	})
}

type blockStyleRequest struct {
	BlockID string `json:"block_id"`
	Key     string `json:"key"`
	Value   string `json:"value"`
}

// UpdateStyle sets a raw CSS override on a block.
func (h *Builder) UpdateStyle(w http.ResponseWriter, r *http.Request) {
	var req blockStyleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.mutate(w, r, func(c *builder.Controller) error {
		return c.UpdateBlockStyle(req.BlockID, req.Key, req.Value)
	})
}

type moveBlockRequest struct {
	BlockID   string `json:"block_id"`
	Direction string `json:"direction"`
}

// Move shifts a block up or down one position.
func (h *Builder) Move(w http.ResponseWriter, r *http.Request) {
	var req moveBlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	dir := builder.MoveDirection(req.Direction)
	if dir != builder.MoveUp && dir != builder.MoveDown {
		writeError(w, http.StatusBadRequest, "direction must be up or down")
		return
	}
	h.mutate(w, r, func(c *builder.Controller) error {
		return c.MoveBlock(req.BlockID, dir)
	})
}

// UpdateTheme sets a theme value at a dot-path, clamped to the plan.
func (h *Builder) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var req themeUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.mutate(w, r, func(c *builder.Controller) error {
		return c.UpdateTheme(req.Path, req.Value)
	})
}

// Undo steps the session back one history entry.
func (h *Builder) Undo(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(c *builder.Controller) error {
		c.Undo()
		return nil
	})
}

// Redo reapplies the most recently undone state.
func (h *Builder) Redo(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(c *builder.Controller) error {
		c.Redo()
		return nil
	})
}

type selectRequest struct {
	BlockID string `json:"block_id"`
}

// Select marks a block as selected for editing chrome.
func (h *Builder) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.mutate(w, r, func(c *builder.Controller) error {
		c.Select(req.BlockID)
		return nil
	})
}

// Preview renders the current in-memory state as a full HTML page with
// editing chrome. No event data is supplied, so placeholder tokens stay
// visible and the author can see where they land.
func (h *Builder) Preview(w http.ResponseWriter, r *http.Request) {
	key := h.keyFromRequest(r)

	var html []byte
	err := h.sessions.With(key, func(c *builder.Controller) error {
		doc, err := c.Design()
		if err != nil {
			return err
		}
		html = h.renderer.RenderPage(renderer.PageInput{
			Design:    doc,
			EventData: design.EventData{},
			Title:     "Preview",
			Mode: renderer.Mode{
				IsEditing:       true,
				SelectedBlockID: c.SelectedBlockID(),
			},
		})
		return nil
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// SaveInvitation persists the session's current design onto the
// invitation and invalidates its cached page.
func (h *Builder) SaveInvitation(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid invitation id")
		return
	}
	inv, err := h.invitations.FindByID(id)
	if err != nil {
		slog.Error("find invitation for save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if inv == nil || (inv.UserID != sess.UserID && sess.Role != "admin") {
		writeError(w, http.StatusNotFound, "invitation not found")
		return
	}

	raw, ok := h.sessionDesign(w, sessionKey(sess.UserID, "invitations", inv.ID.String()))
	if !ok {
		return
	}
	if err := h.invitations.SaveDesign(inv.ID, raw); err != nil {
		slog.Error("save invitation design failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	h.pageCache.Invalidate(r.Context(), inv.Slug)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// SaveTemplate persists the session's current design onto the template.
// Every published invitation backed by the template picks the change up,
// so the whole page cache is flushed.
func (h *Builder) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}

	raw, ok := h.sessionDesign(w, sessionKey(sess.UserID, "templates", id.String()))
	if !ok {
		return
	}
	if msg := validateDesignSize(raw); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if err := h.templates.UpdateDesign(id, raw); err != nil {
		slog.Error("save template design failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	h.pageCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// sessionDesign snapshots and encodes the session's current design.
func (h *Builder) sessionDesign(w http.ResponseWriter, key string) ([]byte, bool) {
	var raw []byte
	err := h.sessions.With(key, func(c *builder.Controller) error {
		doc, err := c.Design()
		if err != nil {
			return err
		}
		raw, err = doc.Encode()
		return err
	})
	if err != nil {
		h.writeSessionError(w, err)
		return nil, false
	}
	return raw, true
}

// mutate runs one controller operation and responds with the resulting
// editing state. Policy rejections map to 403 with the upgrade notice;
// bad block references map to 400.
func (h *Builder) mutate(w http.ResponseWriter, r *http.Request, fn func(*builder.Controller) error) {
	key := h.keyFromRequest(r)
	if err := h.sessions.With(key, fn); err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeState(w, key)
}

func (h *Builder) writeSessionError(w http.ResponseWriter, err error) {
	var policyErr *builder.PolicyError
	switch {
	case errors.As(err, &policyErr):
		writeError(w, http.StatusForbidden, policyErr.Error())
	case errors.Is(err, builder.ErrNoSession):
		writeError(w, http.StatusConflict, "no builder session open — open the target first")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// writeState responds with the session's current document and history
// depths, which is everything the builder client needs to redraw.
func (h *Builder) writeState(w http.ResponseWriter, key string) {
	var state map[string]any
	err := h.sessions.With(key, func(c *builder.Controller) error {
		doc, err := c.Design()
		if err != nil {
			return err
		}
		state = map[string]any{
			"design":            doc,
			"selected_block_id": c.SelectedBlockID(),
			"undo_depth":        c.UndoDepth(),
			"redo_depth":        c.RedoDepth(),
		}
		return nil
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
