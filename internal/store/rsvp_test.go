// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"encoding/json"
	"testing"

	"invitepress/internal/models"
	"invitepress/internal/policy"
)

func TestRSVPStoreCreateAndCounts(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	invitations := NewInvitationStore(db)
	s := NewRSVPStore(db)

	email := "test-rsvp@store-test.local"
	slug := "store-test-rsvp"
	t.Cleanup(func() {
		cleanInvitations(t, db, slug)
		cleanUsers(t, db, email)
	})

	owner, err := users.Create(email, "pass", "Owner", models.RoleCustomer)
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	inv, err := invitations.Create(&models.Invitation{
		UserID:  owner.ID,
		Design:  json.RawMessage(testDesign),
		Content: json.RawMessage(`{}`),
		Slug:    slug,
		Plan:    policy.PlanFree,
	})
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	submissions := []models.RSVP{
		{InvitationID: inv.ID, GuestName: "Ana", Email: "ana@guest.local", Response: models.RSVPYes, NumberOfGuests: 2},
		{InvitationID: inv.ID, GuestName: "Luca", Email: "luca@guest.local", Response: models.RSVPYes, NumberOfGuests: 1},
		{InvitationID: inv.ID, GuestName: "Mara", Email: "mara@guest.local", Response: models.RSVPNo},
	}
	for i := range submissions {
		if _, err := s.Create(&submissions[i]); err != nil {
			t.Fatalf("Create rsvp %d: %v", i, err)
		}
	}

	counts, guests, err := s.Counts(inv.ID)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts[models.RSVPYes] != 2 || counts[models.RSVPNo] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if guests != 3 {
		t.Errorf("guest total = %d, want 3", guests)
	}

	responded, err := s.HasResponded(inv.ID, "ana@guest.local")
	if err != nil || !responded {
		t.Errorf("HasResponded(ana) = %v, %v", responded, err)
	}
	responded, err = s.HasResponded(inv.ID, "nobody@guest.local")
	if err != nil || responded {
		t.Errorf("HasResponded(nobody) = %v, %v", responded, err)
	}

	list, err := s.ListByInvitation(inv.ID)
	if err != nil {
		t.Fatalf("ListByInvitation: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("listed %d rsvps, want 3", len(list))
	}
}
