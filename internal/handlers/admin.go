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
	"invitepress/internal/models"
	"invitepress/internal/slug"
	"invitepress/internal/store"
)

// Admin groups the admin-only management API: the template catalog,
// categories, the user list, and payment history. Everything here sits
// behind the admin role and completed 2FA.
type Admin struct {
	templates  *store.TemplateStore
	categories *store.CategoryStore
	users      *store.UserStore
	payments   *store.PaymentStore
	pageCache  *cache.PageCache
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(templates *store.TemplateStore, categories *store.CategoryStore, users *store.UserStore, payments *store.PaymentStore, pageCache *cache.PageCache) *Admin {
	return &Admin{
		templates:  templates,
		categories: categories,
		users:      users,
		payments:   payments,
		pageCache:  pageCache,
	}
}

// --- Templates ---

// TemplateList returns every template, drafts included.
func (h *Admin) TemplateList(w http.ResponseWriter, r *http.Request) {
	items, err := h.templates.List()
	if err != nil {
		slog.Error("list templates failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type templateRequest struct {
	Name               string          `json:"name"`
	CategoryID         string          `json:"category_id,omitempty"`
	Design             json.RawMessage `json:"design,omitempty"`
	CustomizableFields []string        `json:"customizable_fields"`
	DefaultContent     json.RawMessage `json:"default_content,omitempty"`
	IsPremium          bool            `json:"is_premium"`
	PriceCents         int             `json:"price_cents"`
}

// TemplateCreate adds a draft template. Without a design in the request
// the template starts from the same minimal document customers get.
func (h *Admin) TemplateCreate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateTemplateName(req.Name); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	tpl := &models.Template{
		Name:               strings.TrimSpace(req.Name),
		CustomizableFields: req.CustomizableFields,
		DefaultContent:     req.DefaultContent,
		IsPremium:          req.IsPremium,
		PriceCents:         req.PriceCents,
	}

	if req.CategoryID != "" {
		catID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		tpl.CategoryID = &catID
	}

	if len(req.Design) > 0 {
		if msg := validateDesignSize(req.Design); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		if _, err := design.Parse(req.Design); err != nil {
			writeError(w, http.StatusBadRequest, "invalid design document")
			return
		}
		tpl.Design = req.Design
	} else {
		raw, err := starterDocument().Encode()
		if err != nil {
			slog.Error("encode starter design failed", "error", err)
			writeError(w, http.StatusInternalServerError, "something went wrong")
			return
		}
		tpl.Design = raw
	}

	created, err := h.templates.Create(tpl)
	if err != nil {
		slog.Error("create template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// TemplateUpdate edits template metadata (not the design — the builder
// owns that). Published invitations backed by the template render from
// live template data, so the page cache is flushed.
func (h *Admin) TemplateUpdate(w http.ResponseWriter, r *http.Request) {
	tpl, ok := h.template(w, r)
	if !ok {
		return
	}

	var req templateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateTemplateName(req.Name); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	tpl.Name = strings.TrimSpace(req.Name)
	tpl.CustomizableFields = req.CustomizableFields
	tpl.IsPremium = req.IsPremium
	tpl.PriceCents = req.PriceCents
	if len(req.DefaultContent) > 0 {
		tpl.DefaultContent = req.DefaultContent
	}
	tpl.CategoryID = nil
	if req.CategoryID != "" {
		catID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		tpl.CategoryID = &catID
	}

	if err := h.templates.Update(tpl); err != nil {
		slog.Error("update template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	h.flushPages(r)
	writeJSON(w, http.StatusOK, tpl)
}

// TemplatePublish makes the template available in the customer catalog.
func (h *Admin) TemplatePublish(w http.ResponseWriter, r *http.Request) {
	h.setTemplateStatus(w, r, models.TemplateStatusPublished)
}

// TemplateUnpublish pulls the template from the catalog. Existing
// invitations keep rendering from it.
func (h *Admin) TemplateUnpublish(w http.ResponseWriter, r *http.Request) {
	h.setTemplateStatus(w, r, models.TemplateStatusDraft)
}

func (h *Admin) setTemplateStatus(w http.ResponseWriter, r *http.Request, status models.TemplateStatus) {
	tpl, ok := h.template(w, r)
	if !ok {
		return
	}
	if err := h.templates.SetStatus(tpl.ID, status); err != nil {
		slog.Error("set template status failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "status": status})
}

// TemplateDelete removes a draft template. Published templates cannot be
// deleted while invitations may reference them; unpublish instead.
func (h *Admin) TemplateDelete(w http.ResponseWriter, r *http.Request) {
	tpl, ok := h.template(w, r)
	if !ok {
		return
	}
	if err := h.templates.Delete(tpl.ID); err != nil {
		writeError(w, http.StatusConflict, "only draft templates can be deleted")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Admin) template(w http.ResponseWriter, r *http.Request) (*models.Template, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return nil, false
	}
	tpl, err := h.templates.FindByID(id)
	if err != nil {
		slog.Error("find template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return nil, false
	}
	if tpl == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return nil, false
	}
	return tpl, true
}

func (h *Admin) flushPages(r *http.Request) {
	h.pageCache.InvalidateAll(r.Context())
}

// --- Categories ---

// CategoryList returns all categories with published-template counts.
func (h *Admin) CategoryList(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryCreate adds a category at the end of the sort order.
func (h *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "category name is required")
		return
	}

	order, err := h.categories.NextSortOrder()
	if err != nil {
		slog.Error("next sort order failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	created, err := h.categories.Create(&models.Category{
		Name:        name,
		Slug:        slug.Generate(name),
		Description: strings.TrimSpace(req.Description),
		SortOrder:   order,
	})
	if err != nil {
		slog.Error("create category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// CategoryUpdate renames a category. The slug follows the name.
func (h *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	cat, err := h.categories.FindByID(id)
	if err != nil {
		slog.Error("find category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if cat == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "category name is required")
		return
	}

	cat.Name = name
	cat.Slug = slug.Generate(name)
	cat.Description = strings.TrimSpace(req.Description)
	if err := h.categories.Update(cat); err != nil {
		slog.Error("update category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// CategoryDelete removes a category; its templates keep existing with no
// category.
func (h *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	if err := h.categories.Delete(id); err != nil {
		slog.Error("delete category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// --- Users ---

// UserList returns all accounts.
func (h *Admin) UserList(w http.ResponseWriter, r *http.Request) {
	items, err := h.users.List()
	if err != nil {
		slog.Error("list users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// UserReset2FA clears a user's TOTP enrollment so they can re-enroll.
func (h *Admin) UserReset2FA(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.users.ResetTOTP(id); err != nil {
		slog.Error("reset totp failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// --- Payments ---

// PaymentList returns the payment history, newest first.
func (h *Admin) PaymentList(w http.ResponseWriter, r *http.Request) {
	items, err := h.payments.List()
	if err != nil {
		slog.Error("list payments failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, items)
}
