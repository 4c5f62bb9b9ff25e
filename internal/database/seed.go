package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// starterDesign is the block document seeded with the sample template.
// Content fields carry event-data tokens so one template serves any event.
const starterDesign = `{
  "blocks": [
    {"id": "seed-hero", "type": "hero", "order": 0,
     "settings": {"backgroundType": "solid", "backgroundColor": "#1f2937", "height": "100vh", "textAlign": "center", "animation": "fade-up"},
     "content": {"title": "{{eventName}}", "subtitle": "{{eventDate}}", "showDate": true}},
    {"id": "seed-details", "type": "eventDetails", "order": 1,
     "settings": {"backgroundType": "solid", "backgroundColor": "#ffffff", "animation": "fade-up"},
     "content": {"title": "When & Where"}},
    {"id": "seed-venue", "type": "venue", "order": 2,
     "settings": {"backgroundType": "solid", "backgroundColor": "#f9fafb", "animation": "fade-up"},
     "content": {"title": "The Venue", "name": "{{venue}}", "address": "{{venueAddress}}", "showMap": true}},
    {"id": "seed-rsvp", "type": "rsvp", "order": 3,
     "settings": {"backgroundType": "solid", "backgroundColor": "#ffffff", "animation": "fade-up"},
     "content": {"title": "Will you join us?", "displayMode": "embedded"}},
    {"id": "seed-footer", "type": "footer", "order": 4,
     "settings": {"backgroundType": "solid", "backgroundColor": "#1f2937", "animation": "none"},
     "content": {"text": "With love, {{hostName}}", "showContact": false}}
  ],
  "theme": {
    "colors": {"primary": "#1f2937", "accent": "#d4af37"},
    "fonts": {"heading": "Playfair Display, serif", "body": "Lato, sans-serif"},
    "borderRadius": "12px"
  }
}`

// Seed populates the database with initial development data: a default
// admin user, one category, and one published starter template. The
// admin will be prompted to set up 2FA on first login.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@invitepress.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	var categoryID string
	err = db.QueryRow(`
		INSERT INTO categories (name, slug, description, sort_order)
		VALUES ('Weddings', 'weddings', 'Wedding invitations', 0)
		RETURNING id
	`).Scan(&categoryID)
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO templates (name, category_id, design, customizable_fields, default_content, status)
		VALUES ($1, $2, $3, $4, $5, 'published')
	`, "Classic", categoryID, starterDesign,
		`["colors.primary", "colors.accent"]`,
		`{"eventName": "Our Wedding", "hostName": "The Hosts"}`,
	)
	if err != nil {
		return fmt.Errorf("seed insert template: %w", err)
	}

	slog.Info("database seeded with default admin and starter template",
		"email", "admin@invitepress.local",
		"password", "admin",
	)

	return nil
}
