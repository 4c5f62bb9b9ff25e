// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"invitepress/internal/policy"
)

// InvitationStatus represents the publishing state of an invitation.
type InvitationStatus string

const (
	InvitationStatusDraft     InvitationStatus = "draft"
	InvitationStatusPublished InvitationStatus = "published"
)

// Invitation is a customer's event page. Exactly one of TemplateID and
// Design is set: template-backed invitations render the template's block
// document with ThemeOverrides and Content applied, while from-scratch
// invitations carry their own document.
type Invitation struct {
	ID             uuid.UUID        `json:"id"`
	UserID         uuid.UUID        `json:"user_id"`
	TemplateID     *uuid.UUID       `json:"template_id,omitempty"`
	Design         json.RawMessage  `json:"design,omitempty"`
	Content        json.RawMessage  `json:"content"`
	ThemeOverrides json.RawMessage  `json:"theme_overrides,omitempty"`
	Slug           string           `json:"slug"`
	Plan           policy.Plan      `json:"plan"`
	IsPaid         bool             `json:"is_paid"`
	Status         InvitationStatus `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// HasOwnDesign returns true for from-scratch invitations.
func (i *Invitation) HasOwnDesign() bool {
	return len(i.Design) > 0
}

// IsPublished returns true if the invitation has been published by its owner.
func (i *Invitation) IsPublished() bool {
	return i.Status == InvitationStatusPublished
}

// PubliclyVisible reports whether the page may be served to guests.
// Paid-tier invitations stay hidden until the checkout completes.
func (i *Invitation) PubliclyVisible() bool {
	if !i.IsPublished() {
		return false
	}
	if i.Plan == policy.PlanFree {
		return true
	}
	return i.IsPaid
}
