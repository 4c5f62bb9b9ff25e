package handlers

import (
	"strings"
	"testing"
)

func TestValidateRSVP(t *testing.T) {
	tests := []struct {
		name      string
		guestName string
		email     string
		guests    int
		wantError bool
	}{
		{"valid", "Ana Pop", "ana@example.com", 2, false},
		{"empty name", "", "ana@example.com", 1, true},
		{"whitespace name", "   ", "ana@example.com", 1, true},
		{"name too long", strings.Repeat("a", 201), "ana@example.com", 1, true},
		{"empty email", "Ana", "", 1, true},
		{"email without at", "Ana", "not-an-email", 1, true},
		{"email too long", "Ana", strings.Repeat("a", 320) + "@x.com", 1, true},
		{"zero guests", "Ana", "ana@example.com", 0, true},
		{"too many guests", "Ana", "ana@example.com", 21, true},
		{"max guests", "Ana", "ana@example.com", 20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateRSVP(tt.guestName, tt.email, tt.guests)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateTemplateName(t *testing.T) {
	tests := []struct {
		name      string
		tmplName  string
		wantError bool
	}{
		{"valid", "Classic Wedding", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("a", 201), true},
		{"max length", strings.Repeat("a", 200), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateTemplateName(tt.tmplName)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateEventName(t *testing.T) {
	tests := []struct {
		name      string
		event     string
		wantError bool
	}{
		{"valid", "Ana & Luca's Wedding", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("a", 301), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateEventName(tt.event)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateDesignSize(t *testing.T) {
	if msg := validateDesignSize([]byte(`{"blocks":[]}`)); msg != "" {
		t.Errorf("small design rejected: %s", msg)
	}
	if msg := validateDesignSize(make([]byte, maxDesignLen+1)); msg == "" {
		t.Error("oversized design accepted")
	}
}
