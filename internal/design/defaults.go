// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package design

// NewBlock builds a fresh block of the given type with its default
// content and settings, ready to be appended by the builder.
func NewBlock(t BlockType, order int) Block {
	return Block{
		ID:       NewBlockID(),
		Type:     t,
		Order:    order,
		Settings: DefaultSettings(t),
		Content:  DefaultContent(t),
		Styles:   map[string]string{},
	}
}

// DefaultSettings returns the starting presentation options for a new
// block of the given type.
func DefaultSettings(t BlockType) Settings {
	s := Settings{
		BackgroundType: BackgroundSolid,
		TextAlign:      "center",
		Animation:      AnimationFadeUp,
		Padding:        "48px 24px",
	}
	switch t {
	case BlockHero:
		s.Height = "100vh"
		s.Padding = "0"
	case BlockDivider:
		s.Padding = "24px"
		s.Animation = AnimationNone
	case BlockFooter:
		s.Padding = "32px 24px"
	}
	return s
}

// DefaultContent returns the starting content object for a new block of
// the given type. Text fields use {{fieldName}} placeholder tokens so a
// freshly added block immediately reflects the invitation's event data.
// Unknown types get an empty object, which renders as a no-op.
func DefaultContent(t BlockType) map[string]any {
	switch t {
	case BlockHero:
		return map[string]any{
			"subtitle":   "You're invited to",
			"title":      "{{eventName}}",
			"showDate":   true,
			"showButton": true,
			"buttonText": "RSVP Now",
		}
	case BlockEventDetails:
		return map[string]any{
			"heading":   "Event Details",
			"showDate":  true,
			"showTime":  true,
			"showVenue": true,
			"layout":    "horizontal",
		}
	case BlockVenue:
		return map[string]any{
			"heading": "Venue",
			"name":    "{{venue}}",
			"address": "{{venueAddress}}",
			"showMap": true,
		}
	case BlockGallery:
		return map[string]any{
			"heading": "Gallery",
			"layout":  "grid",
			"images":  []any{},
		}
	case BlockRSVP:
		return map[string]any{
			"heading":    "Will you join us?",
			"text":       "Please let us know by responding below.",
			"buttonText": "RSVP",
			"style":      "modal",
		}
	case BlockMessage:
		return map[string]any{
			"heading": "A Note From Us",
			"text":    "{{message}}",
		}
	case BlockFooter:
		return map[string]any{
			"text":        "With love, {{hostName}}",
			"showContact": true,
		}
	case BlockDivider:
		return map[string]any{
			"variant": "line",
		}
	case BlockCountdown:
		return map[string]any{
			"heading": "Counting down to the big day",
		}
	case BlockQRCode:
		return map[string]any{
			"heading": "Share this invitation",
			"caption": "Scan to open on your phone",
		}
	case BlockSocialShare:
		return map[string]any{
			"heading":  "Spread the word",
			"networks": []any{"whatsapp", "facebook", "x"},
		}
	case BlockYouTube:
		return map[string]any{
			"heading": "",
			"videoId": "",
		}
	case BlockFullImage:
		return map[string]any{
			"imageUrl": "",
			"alt":      "",
		}
	case BlockPDF:
		return map[string]any{
			"heading":    "Attachment",
			"pdfUrl":     "",
			"buttonText": "Open PDF",
		}
	}
	return map[string]any{}
}
