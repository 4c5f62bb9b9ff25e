// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"invitepress/internal/store"
)

// Catalog serves the customer-facing template catalog: published
// templates, optionally filtered by category.
type Catalog struct {
	templates  *store.TemplateStore
	categories *store.CategoryStore
}

// NewCatalog creates a new Catalog handler group.
func NewCatalog(templates *store.TemplateStore, categories *store.CategoryStore) *Catalog {
	return &Catalog{templates: templates, categories: categories}
}

// Templates lists published templates. ?category={id} filters.
func (h *Catalog) Templates(w http.ResponseWriter, r *http.Request) {
	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		categoryID = &id
	}

	items, err := h.templates.ListPublished(categoryID)
	if err != nil {
		slog.Error("list published templates failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Categories lists categories in display order.
func (h *Catalog) Categories(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, items)
}
