package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for guest submissions and builder inputs.
const (
	maxGuestNameLen    = 200
	maxEmailLen        = 320
	maxRSVPMessageLen  = 2_000
	maxGuestsPerRSVP   = 20
	maxEventNameLen    = 300
	maxTemplateNameLen = 200
	maxDesignLen       = 500_000
)

// validateRSVP checks a guest submission and returns the first error found.
func validateRSVP(guestName, email string, guests int) string {
	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(guestName) > maxGuestNameLen {
		return "Name is too long (max 200 characters)."
	}
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "A valid email is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long."
	}
	if guests < 1 || guests > maxGuestsPerRSVP {
		return "Number of guests must be between 1 and 20."
	}
	return ""
}

// validateTemplateName checks an admin template name.
func validateTemplateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Template name is required."
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return "Template name is too long (max 200 characters)."
	}
	return ""
}

// validateEventName checks the customer-supplied event name used for
// the invitation slug.
func validateEventName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Event name is required."
	}
	if utf8.RuneCountInString(name) > maxEventNameLen {
		return "Event name is too long (max 300 characters)."
	}
	return ""
}

// validateDesignSize rejects oversized design documents before they
// reach the parser.
func validateDesignSize(raw []byte) string {
	if len(raw) > maxDesignLen {
		return "Design document is too large."
	}
	return ""
}
