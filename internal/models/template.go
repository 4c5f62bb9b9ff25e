// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TemplateStatus represents the publishing state of a template.
type TemplateStatus string

const (
	TemplateStatusDraft     TemplateStatus = "draft"
	TemplateStatusPublished TemplateStatus = "published"
)

// Template is a ready-made invitation design in the catalog. Its Design
// holds the full block document as JSON; DefaultContent seeds the event
// data for new invitations. CustomizableFields whitelists the theme and
// content paths a customer may change when building on this template.
type Template struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	CategoryID         *uuid.UUID      `json:"category_id,omitempty"`
	Design             json.RawMessage `json:"design"`
	CustomizableFields []string        `json:"customizable_fields"`
	DefaultContent     json.RawMessage `json:"default_content,omitempty"`
	IsPremium          bool            `json:"is_premium"`
	PriceCents         int             `json:"price_cents"`
	Status             TemplateStatus  `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// IsPublished returns true if the template is visible in the catalog.
func (t *Template) IsPublished() bool {
	return t.Status == TemplateStatusPublished
}

// CanCustomize reports whether the given field path is open to customers.
// An empty whitelist means nothing beyond content is editable.
func (t *Template) CanCustomize(path string) bool {
	for _, f := range t.CustomizableFields {
		if f == path {
			return true
		}
	}
	return false
}
