// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package design

import (
	"fmt"
	"strings"
)

// ThemeColors is the full color palette every block renderer indexes
// into. After ResolveTheme the struct is total — renderers read fields
// directly without guarding against empty values.
type ThemeColors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
	TextLight  string `json:"textLight"`
	Border     string `json:"border"`
}

// ThemeFonts names the font families used across the page.
type ThemeFonts struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
	Accent  string `json:"accent"`
}

// Theme is the shared palette applied across all blocks in a design.
type Theme struct {
	Colors       ThemeColors `json:"colors"`
	Fonts        ThemeFonts  `json:"fonts"`
	BorderRadius string      `json:"borderRadius"`
}

// ThemeOverrides is a sparse theme delta: customer customizations stored
// on an invitation, applied on top of the base design theme at render
// time. Storing the delta (never the merged result) lets admin edits to
// a template still propagate to template-backed invitations.
type ThemeOverrides struct {
	Colors       map[string]string `json:"colors,omitempty"`
	Fonts        map[string]string `json:"fonts,omitempty"`
	BorderRadius string            `json:"borderRadius,omitempty"`
}

// IsEmpty reports whether the override carries no changes.
func (o ThemeOverrides) IsEmpty() bool {
	return len(o.Colors) == 0 && len(o.Fonts) == 0 && o.BorderRadius == ""
}

// SetPath records an override at a theme dot-path. Same path grammar as
// Theme.SetPath; an empty value deletes the override so the template's
// own value shows through again.
func (o *ThemeOverrides) SetPath(path, value string) error {
	if path == "borderRadius" {
		o.BorderRadius = value
		return nil
	}
	group, leaf, ok := strings.Cut(path, ".")
	if !ok {
		return fmt.Errorf("theme path %q: unknown field", path)
	}
	switch group {
	case "colors":
		if !containsKey(ColorKeys, leaf) {
			return fmt.Errorf("theme path %q: unknown color", path)
		}
		if value == "" {
			delete(o.Colors, leaf)
			return nil
		}
		if o.Colors == nil {
			o.Colors = make(map[string]string)
		}
		o.Colors[leaf] = value
	case "fonts":
		if !containsKey(FontKeys, leaf) {
			return fmt.Errorf("theme path %q: unknown font", path)
		}
		if value == "" {
			delete(o.Fonts, leaf)
			return nil
		}
		if o.Fonts == nil {
			o.Fonts = make(map[string]string)
		}
		o.Fonts[leaf] = value
	default:
		return fmt.Errorf("theme path %q: unknown group", path)
	}
	return nil
}

// DefaultTheme returns the hardcoded fallback palette. Every resolved
// theme is backfilled from these values, so renderers never see an empty
// color or font.
func DefaultTheme() Theme {
	return Theme{
		Colors: ThemeColors{
			Primary:    "#1f2937",
			Secondary:  "#6b7280",
			Accent:     "#b45309",
			Background: "#ffffff",
			Surface:    "#f9fafb",
			Text:       "#111827",
			TextLight:  "#6b7280",
			Border:     "#e5e7eb",
		},
		Fonts: ThemeFonts{
			Heading: "Playfair Display, serif",
			Body:    "Inter, sans-serif",
			Accent:  "Great Vibes, cursive",
		},
		BorderRadius: "12px",
	}
}

// ColorKeys lists the dot-path leaf names under "colors", in display order.
var ColorKeys = []string{
	"primary", "secondary", "accent", "background",
	"surface", "text", "textLight", "border",
}

// FontKeys lists the dot-path leaf names under "fonts".
var FontKeys = []string{"heading", "body", "accent"}

// ResolveTheme merges override deltas onto a base theme and backfills
// any leaf still empty from DefaultTheme. Colors and fonts merge
// key-by-key (override wins per key); borderRadius is override-wins
// wholesale. The base theme is never mutated.
func ResolveTheme(base Theme, overrides ThemeOverrides) Theme {
	out := base
	for key, val := range overrides.Colors {
		if val != "" {
			out.setColor(key, val)
		}
	}
	for key, val := range overrides.Fonts {
		if val != "" {
			out.setFont(key, val)
		}
	}
	if overrides.BorderRadius != "" {
		out.BorderRadius = overrides.BorderRadius
	}

	// Fill remaining gaps so the result is total.
	def := DefaultTheme()
	for _, key := range ColorKeys {
		if out.Color(key) == "" {
			out.setColor(key, def.Color(key))
		}
	}
	for _, key := range FontKeys {
		if out.Font(key) == "" {
			out.setFont(key, def.Font(key))
		}
	}
	if out.BorderRadius == "" {
		out.BorderRadius = def.BorderRadius
	}
	return out
}

// Color returns the palette value for a leaf key ("primary", "accent", ...).
// Unknown keys return "".
func (t *Theme) Color(key string) string {
	switch key {
	case "primary":
		return t.Colors.Primary
	case "secondary":
		return t.Colors.Secondary
	case "accent":
		return t.Colors.Accent
	case "background":
		return t.Colors.Background
	case "surface":
		return t.Colors.Surface
	case "text":
		return t.Colors.Text
	case "textLight":
		return t.Colors.TextLight
	case "border":
		return t.Colors.Border
	}
	return ""
}

func (t *Theme) setColor(key, val string) {
	switch key {
	case "primary":
		t.Colors.Primary = val
	case "secondary":
		t.Colors.Secondary = val
	case "accent":
		t.Colors.Accent = val
	case "background":
		t.Colors.Background = val
	case "surface":
		t.Colors.Surface = val
	case "text":
		t.Colors.Text = val
	case "textLight":
		t.Colors.TextLight = val
	case "border":
		t.Colors.Border = val
	}
}

// Font returns the font family for a leaf key ("heading", "body", "accent").
func (t *Theme) Font(key string) string {
	switch key {
	case "heading":
		return t.Fonts.Heading
	case "body":
		return t.Fonts.Body
	case "accent":
		return t.Fonts.Accent
	}
	return ""
}

func (t *Theme) setFont(key, val string) {
	switch key {
	case "heading":
		t.Fonts.Heading = val
	case "body":
		t.Fonts.Body = val
	case "accent":
		t.Fonts.Accent = val
	}
}

// SetPath applies a value at a theme dot-path ("colors.primary",
// "fonts.body", "borderRadius"). Templates persist their customizable
// fields as dot-path strings; this resolves them against the structured
// Theme instead of walking an untyped tree. Unknown paths are an error.
func (t *Theme) SetPath(path, value string) error {
	if path == "borderRadius" {
		t.BorderRadius = value
		return nil
	}
	group, leaf, ok := strings.Cut(path, ".")
	if !ok {
		return fmt.Errorf("theme path %q: unknown field", path)
	}
	switch group {
	case "colors":
		if !containsKey(ColorKeys, leaf) {
			return fmt.Errorf("theme path %q: unknown color", path)
		}
		t.setColor(leaf, value)
	case "fonts":
		if !containsKey(FontKeys, leaf) {
			return fmt.Errorf("theme path %q: unknown font", path)
		}
		t.setFont(leaf, value)
	default:
		return fmt.Errorf("theme path %q: unknown group", path)
	}
	return nil
}

// IsColorPath reports whether a dot-path targets a theme color. The
// builder uses this to clamp customer edits to their plan's color set.
func IsColorPath(path string) bool {
	group, leaf, ok := strings.Cut(path, ".")
	return ok && group == "colors" && containsKey(ColorKeys, leaf)
}

// ColorPathKey returns the leaf color key of a colors dot-path ("" if
// the path is not a color path).
func ColorPathKey(path string) string {
	if !IsColorPath(path) {
		return ""
	}
	_, leaf, _ := strings.Cut(path, ".")
	return leaf
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
