package renderer

import (
	"strings"
	"testing"
	"time"

	"invitepress/internal/design"
)

func testTheme() design.Theme {
	return design.ResolveTheme(design.DefaultTheme(), design.ThemeOverrides{})
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRenderDocumentSortsByOrder(t *testing.T) {
	r := New()
	blocks := []design.Block{
		{ID: "last", Type: design.BlockFooter, Order: 2, Content: map[string]any{"text": "bye"}},
		{ID: "first", Type: design.BlockHero, Order: 0, Content: map[string]any{"title": "Hi"}},
		{ID: "middle", Type: design.BlockMessage, Order: 1, Content: map[string]any{"text": "mid"}},
	}

	out := r.RenderDocument(blocks, design.EventData{}, testTheme(), Callbacks{}, Mode{})
	if len(out) != 3 {
		t.Fatalf("rendered %d blocks, want 3", len(out))
	}
	if out[0].BlockID != "first" || out[1].BlockID != "middle" || out[2].BlockID != "last" {
		t.Errorf("render order = %s,%s,%s", out[0].BlockID, out[1].BlockID, out[2].BlockID)
	}

	// Input slice order must be untouched.
	if blocks[0].ID != "last" {
		t.Error("RenderDocument mutated the input slice")
	}
}

func TestRenderParityEditingVsPublic(t *testing.T) {
	// Editing mode with no selection must produce the same block content
	// as public mode — the chrome is a pure wrapper.
	r := New()
	blocks := []design.Block{
		{ID: "h", Type: design.BlockHero, Order: 0, Content: map[string]any{
			"title": "{{eventName}}", "subtitle": "You're invited",
		}},
		{ID: "m", Type: design.BlockMessage, Order: 1, Content: map[string]any{
			"heading": "Note", "text": "{{message}}",
		}},
	}
	data := design.EventData{"eventName": "Midsummer Feast", "message": "Bring hats"}

	public := r.RenderDocument(blocks, data, testTheme(), Callbacks{}, Mode{})
	editing := r.RenderDocument(blocks, data, testTheme(), Callbacks{}, Mode{IsEditing: true})

	if len(public) != len(editing) {
		t.Fatalf("block counts differ: public %d, editing %d", len(public), len(editing))
	}
	for i := range public {
		inner := string(public[i].HTML)
		if !strings.Contains(string(editing[i].HTML), inner) {
			t.Errorf("block %s: editing output does not contain the public markup", public[i].BlockID)
		}
	}
}

func TestRenderDocumentEditingSelection(t *testing.T) {
	r := New()
	blocks := []design.Block{
		{ID: "a", Type: design.BlockMessage, Order: 0, Content: map[string]any{"text": "one"}},
		{ID: "b", Type: design.BlockMessage, Order: 1, Content: map[string]any{"text": "two"}},
	}

	out := r.RenderDocument(blocks, design.EventData{}, testTheme(), Callbacks{}, Mode{
		IsEditing:       true,
		SelectedBlockID: "b",
	})

	if strings.Contains(string(out[0].HTML), "ip-edit-selected") {
		t.Error("unselected block has selection highlight")
	}
	if !strings.Contains(string(out[1].HTML), "ip-edit-selected") {
		t.Error("selected block missing selection highlight")
	}

	// Public mode carries no editing chrome at all.
	pub := r.RenderDocument(blocks, design.EventData{}, testTheme(), Callbacks{}, Mode{})
	for _, b := range pub {
		if strings.Contains(string(b.HTML), "ip-edit-wrap") {
			t.Error("public output contains editing chrome")
		}
	}
}

func TestUnknownBlockTypeTolerance(t *testing.T) {
	r := New()
	blocks := []design.Block{
		{ID: "known1", Type: design.BlockMessage, Order: 0, Content: map[string]any{"text": "hello"}},
		{ID: "mystery", Type: "unknownFutureType", Order: 1, Content: map[string]any{"x": 1}},
		{ID: "known2", Type: design.BlockFooter, Order: 2, Content: map[string]any{"text": "bye"}},
	}

	out := r.RenderDocument(blocks, design.EventData{}, testTheme(), Callbacks{}, Mode{})
	if len(out) != 2 {
		t.Fatalf("rendered %d blocks, want 2 (unknown skipped)", len(out))
	}
	for _, b := range out {
		if b.BlockID == "mystery" {
			t.Error("unknown block type produced output")
		}
	}

	// In editing mode the unknown block gets a selectable placeholder
	// so it stays editable, still with no real content.
	edit := r.RenderDocument(blocks, design.EventData{}, testTheme(), Callbacks{}, Mode{IsEditing: true})
	if len(edit) != 3 {
		t.Fatalf("editing rendered %d blocks, want 3", len(edit))
	}
}

func TestGallerySkipsWithoutImages(t *testing.T) {
	r := New()
	blocks := []design.Block{
		{ID: "g", Type: design.BlockGallery, Order: 0, Content: map[string]any{"images": []any{}}},
		{ID: "m", Type: design.BlockMessage, Order: 1, Content: map[string]any{"text": "still here"}},
	}

	out := r.RenderDocument(blocks, design.EventData{}, testTheme(), Callbacks{}, Mode{})
	if len(out) != 1 || out[0].BlockID != "m" {
		t.Fatalf("gallery without images must be skipped entirely, got %d outputs", len(out))
	}
}

func TestGalleryFallsBackToEventImages(t *testing.T) {
	r := New()
	blocks := []design.Block{
		{ID: "g", Type: design.BlockGallery, Order: 0, Content: map[string]any{}},
	}
	data := design.EventData{"images": []any{"https://img.example/a.jpg"}}

	out := r.RenderDocument(blocks, data, testTheme(), Callbacks{}, Mode{})
	if len(out) != 1 {
		t.Fatal("gallery with event images must render")
	}
	if !strings.Contains(string(out[0].HTML), "a.jpg") {
		t.Error("gallery output missing event image")
	}
}

func TestCountdownNeverNegative(t *testing.T) {
	r := New()
	r.Now = fixedClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	blocks := []design.Block{
		{ID: "c", Type: design.BlockCountdown, Order: 0, Content: map[string]any{}},
	}
	data := design.EventData{"eventDate": "2026-06-15"} // already past

	out := r.RenderDocument(blocks, data, testTheme(), Callbacks{}, Mode{})
	if len(out) != 1 {
		t.Fatal("countdown block missing")
	}
	html := string(out[0].HTML)
	if strings.Contains(html, "-") && strings.Contains(html, "ip-countdown-num\">-") {
		t.Error("countdown shows a negative unit")
	}
	// All three units clamp to zero.
	if got := strings.Count(html, `ip-countdown-num">0<`); got != 3 {
		t.Errorf("past event: %d zeroed units, want 3", got)
	}
}

func TestCountdownFutureEvent(t *testing.T) {
	r := New()
	r.Now = fixedClock(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	blocks := []design.Block{
		{ID: "c", Type: design.BlockCountdown, Order: 0, Content: map[string]any{}},
	}
	// 10 days, 6 hours, 30 minutes ahead.
	data := design.EventData{"eventDate": "2026-06-11T06:30:00Z"}

	out := r.RenderDocument(blocks, data, testTheme(), Callbacks{}, Mode{})
	html := string(out[0].HTML)
	for _, want := range []string{`">10<`, `">6<`, `">30<`} {
		if !strings.Contains(html, want) {
			t.Errorf("countdown output missing %s in %s", want, html)
		}
	}
}

func TestHeroToggles(t *testing.T) {
	r := New()
	data := design.EventData{"eventDate": "2026-06-11", "eventName": "Feast"}

	tests := []struct {
		name     string
		content  map[string]any
		contains []string
		excludes []string
	}{
		{
			name:     "defaults show everything",
			content:  map[string]any{"title": "{{eventName}}", "subtitle": "sub", "buttonText": "Go"},
			contains: []string{"Feast", "sub", "Go", "Thursday, June 11, 2026"},
		},
		{
			name:     "explicit false hides date and button",
			content:  map[string]any{"title": "T", "showDate": false, "showButton": false},
			contains: []string{"T"},
			excludes: []string{"June 11", "ip-btn"},
		},
		{
			name:     "explicit false hides title and subtitle",
			content:  map[string]any{"title": "Hidden Title", "subtitle": "Hidden Sub", "showTitle": false, "showSubtitle": false},
			contains: []string{"ip-btn"},
			excludes: []string{"Hidden Title", "Hidden Sub"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			blocks := []design.Block{{ID: "h", Type: design.BlockHero, Order: 0, Content: tc.content}}
			out := r.RenderDocument(blocks, data, testTheme(), Callbacks{}, Mode{})
			html := string(out[0].HTML)
			for _, want := range tc.contains {
				if !strings.Contains(html, want) {
					t.Errorf("hero missing %q", want)
				}
			}
			for _, not := range tc.excludes {
				if strings.Contains(html, not) {
					t.Errorf("hero unexpectedly contains %q", not)
				}
			}
		})
	}
}

func TestRSVPStyles(t *testing.T) {
	r := New()
	cb := Callbacks{RSVPURL: "/i/party/rsvp"}

	embedded := []design.Block{{ID: "r", Type: design.BlockRSVP, Order: 0, Content: map[string]any{
		"style": "embedded", "buttonText": "Count me in",
	}}}
	out := r.RenderDocument(embedded, design.EventData{}, testTheme(), cb, Mode{})
	html := string(out[0].HTML)
	if !strings.Contains(html, `<form`) || !strings.Contains(html, "/i/party/rsvp") {
		t.Error("embedded rsvp must render an inline form posting to the endpoint")
	}

	modal := []design.Block{{ID: "r", Type: design.BlockRSVP, Order: 0, Content: map[string]any{}}}
	out = r.RenderDocument(modal, design.EventData{}, testTheme(), cb, Mode{})
	html = string(out[0].HTML)
	if strings.Contains(html, "<form") {
		t.Error("modal rsvp must not render an inline form")
	}
	if !strings.Contains(html, "data-open-rsvp") {
		t.Error("modal rsvp missing dialog trigger")
	}
}

func TestBackgroundResolution(t *testing.T) {
	r := New()
	theme := testTheme()

	tests := []struct {
		name     string
		settings design.Settings
		contains []string
	}{
		{
			name:     "solid with explicit color",
			settings: design.Settings{BackgroundType: design.BackgroundSolid, BackgroundColor: "#aabbcc"},
			contains: []string{"background-color:#aabbcc"},
		},
		{
			name:     "solid without color falls back to theme",
			settings: design.Settings{BackgroundType: design.BackgroundSolid},
			contains: []string{"background-color:" + theme.Colors.Background},
		},
		{
			name: "image with fallback color and defaults",
			settings: design.Settings{
				BackgroundType:  design.BackgroundImage,
				BackgroundImage: "https://img.example/bg.jpg",
				BackgroundColor: "#112233",
			},
			contains: []string{
				"background-image:url(",
				"background-color:#112233",
				"background-size:cover",
				"background-position:center",
				"background-repeat:no-repeat",
			},
		},
		{
			name: "gradient string",
			settings: design.Settings{
				BackgroundType:     design.BackgroundGradient,
				BackgroundGradient: "linear-gradient(135deg, #111 0%, #999 100%)",
			},
			contains: []string{"background-image:linear-gradient"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			blocks := []design.Block{{
				ID: "b", Type: design.BlockMessage, Order: 0,
				Settings: tc.settings,
				Content:  map[string]any{"text": "x"},
			}}
			out := r.RenderDocument(blocks, design.EventData{}, theme, Callbacks{}, Mode{})
			html := string(out[0].HTML)
			for _, want := range tc.contains {
				if !strings.Contains(html, want) {
					t.Errorf("output missing %q:\n%s", want, html)
				}
			}
		})
	}
}

func TestOverlayRendering(t *testing.T) {
	r := New()
	blocks := []design.Block{{
		ID: "b", Type: design.BlockMessage, Order: 0,
		Settings: design.Settings{OverlayEnabled: true, OverlayColor: "#000000", OverlayOpacity: 0.6},
		Content:  map[string]any{"text": "x"},
	}}
	out := r.RenderDocument(blocks, design.EventData{}, testTheme(), Callbacks{}, Mode{})
	html := string(out[0].HTML)
	if !strings.Contains(html, "ip-overlay") || !strings.Contains(html, "opacity:0.60") {
		t.Errorf("overlay missing or wrong opacity:\n%s", html)
	}

	blocks[0].Settings.OverlayEnabled = false
	out = r.RenderDocument(blocks, design.EventData{}, testTheme(), Callbacks{}, Mode{})
	if strings.Contains(string(out[0].HTML), "ip-overlay") {
		t.Error("overlay rendered while disabled")
	}
}

func TestAnimationFallback(t *testing.T) {
	tests := []struct {
		name      string
		animation string
		wantClass string
	}{
		{name: "absent falls back to fade-up", animation: "", wantClass: "ip-anim-fade-up"},
		{name: "unknown falls back to fade-up", animation: "wobble", wantClass: "ip-anim-fade-up"},
		{name: "zoom", animation: "zoom", wantClass: "ip-anim-zoom"},
		{name: "none disables", animation: "none", wantClass: ""},
	}

	r := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			blocks := []design.Block{{
				ID: "b", Type: design.BlockMessage, Order: 0,
				Settings: design.Settings{Animation: tc.animation},
				Content:  map[string]any{"text": "x"},
			}}
			out := r.RenderDocument(blocks, design.EventData{}, testTheme(), Callbacks{}, Mode{})
			html := string(out[0].HTML)
			if tc.wantClass == "" {
				if strings.Contains(html, "ip-anim") {
					t.Error("animation classes present for none")
				}
				return
			}
			if !strings.Contains(html, tc.wantClass) {
				t.Errorf("missing class %s", tc.wantClass)
			}
		})
	}
}

func TestQRCodeBlock(t *testing.T) {
	r := New()
	blocks := []design.Block{{ID: "q", Type: design.BlockQRCode, Order: 0, Content: map[string]any{}}}

	// Without a share URL the block is skipped (e.g. template builder).
	out := r.RenderDocument(blocks, design.EventData{}, testTheme(), Callbacks{}, Mode{})
	if len(out) != 0 {
		t.Error("qrcode block rendered without a share URL")
	}

	out = r.RenderDocument(blocks, design.EventData{}, testTheme(), Callbacks{ShareURL: "https://inv.example/i/party"}, Mode{})
	if len(out) != 1 {
		t.Fatal("qrcode block missing with share URL")
	}
	if !strings.Contains(string(out[0].HTML), "data:image/png;base64,") {
		t.Error("qrcode output missing PNG data URI")
	}
}

func TestVenueMapToggle(t *testing.T) {
	r := New()
	content := map[string]any{"name": "Casa Verde", "address": "12 Oak Lane", "showMap": true}
	blocks := []design.Block{{ID: "v", Type: design.BlockVenue, Order: 0, Content: content}}

	out := r.RenderDocument(blocks, design.EventData{}, testTheme(), Callbacks{}, Mode{})
	html := string(out[0].HTML)
	if !strings.Contains(html, "<iframe") {
		t.Error("venue with showMap must embed a map")
	}
	if !strings.Contains(html, "Get Directions") {
		t.Error("venue missing directions link")
	}

	content["showMap"] = false
	out = r.RenderDocument(blocks, design.EventData{}, testTheme(), Callbacks{}, Mode{})
	if strings.Contains(string(out[0].HTML), "<iframe") {
		t.Error("venue embeds a map with showMap=false")
	}
}

func TestRenderPageAssembly(t *testing.T) {
	r := New()
	d := &design.Design{
		Blocks: []design.Block{
			{ID: "h", Type: design.BlockHero, Order: 0, Content: map[string]any{"title": "{{eventName}}"}},
			{ID: "r", Type: design.BlockRSVP, Order: 1, Content: map[string]any{}},
		},
		Theme:          design.DefaultTheme(),
		GlobalSettings: design.GlobalSettings{MaxWidth: "720px"},
	}

	page := string(r.RenderPage(PageInput{
		Design:    d,
		EventData: design.EventData{"eventName": "Lantern Night"},
		Overrides: design.ThemeOverrides{Colors: map[string]string{"primary": "#ff0000"}},
		Title:     "Lantern Night",
		Callbacks: Callbacks{RSVPURL: "/i/lantern/rsvp"},
	}))

	for _, want := range []string{
		"<!DOCTYPE html>",
		"Lantern Night",
		"--c-primary:#ff0000", // override merged at render time
		"max-width:720px",
		"ip-rsvp-dialog",
		"IntersectionObserver",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestRenderPageAnimationsDisabled(t *testing.T) {
	r := New()
	off := false
	d := &design.Design{
		Blocks:         []design.Block{{ID: "m", Type: design.BlockMessage, Order: 0, Content: map[string]any{"text": "x"}}},
		Theme:          design.DefaultTheme(),
		GlobalSettings: design.GlobalSettings{AnimationsEnabled: &off},
	}

	page := string(r.RenderPage(PageInput{Design: d, EventData: design.EventData{}}))
	if strings.Contains(page, "IntersectionObserver") {
		t.Error("animation script emitted with animations disabled")
	}
	if !strings.Contains(page, "opacity:1 !important") {
		t.Error("no-animation override CSS missing")
	}
}

func TestContentEscaping(t *testing.T) {
	r := New()
	blocks := []design.Block{{ID: "m", Type: design.BlockMessage, Order: 0, Content: map[string]any{
		"text": `<script>alert("xss")</script>`,
	}}}
	out := r.RenderDocument(blocks, design.EventData{}, testTheme(), Callbacks{}, Mode{})
	html := string(out[0].HTML)
	if strings.Contains(html, "<script>") {
		t.Error("block content not HTML-escaped")
	}
}
