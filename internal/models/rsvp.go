// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// RSVPResponse is a guest's answer.
type RSVPResponse string

const (
	RSVPYes   RSVPResponse = "yes"
	RSVPNo    RSVPResponse = "no"
	RSVPMaybe RSVPResponse = "maybe"
)

// ValidRSVPResponse reports whether s is one of the accepted answers.
func ValidRSVPResponse(s string) bool {
	switch RSVPResponse(s) {
	case RSVPYes, RSVPNo, RSVPMaybe:
		return true
	}
	return false
}

// RSVP is a single guest submission against an invitation.
type RSVP struct {
	ID             uuid.UUID    `json:"id"`
	InvitationID   uuid.UUID    `json:"invitation_id"`
	GuestName      string       `json:"guest_name"`
	Email          string       `json:"email"`
	Response       RSVPResponse `json:"response"`
	NumberOfGuests int          `json:"number_of_guests"`
	Message        string       `json:"message"`
	CreatedAt      time.Time    `json:"created_at"`
}
