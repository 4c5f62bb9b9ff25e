// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package design defines the block-based invitation document model: a
// Design is an ordered list of content blocks plus a theme and global
// settings. The same Design value is edited in the builder, persisted
// verbatim as JSON, and rendered on the public invitation page, so the
// schema here is the single source of truth for all three call sites.
//
// Forward compatibility is a hard requirement: a stored Design may
// contain block types or settings this build does not know about. All
// readers must treat unknown block types as renderable no-ops and fill
// absent settings from documented defaults.
package design

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// BlockType identifies the kind of content section a block renders.
// Stored as a plain string in JSON so unknown future types survive a
// load/save round trip untouched.
type BlockType string

const (
	BlockHero         BlockType = "hero"
	BlockEventDetails BlockType = "eventDetails"
	BlockVenue        BlockType = "venue"
	BlockGallery      BlockType = "gallery"
	BlockRSVP         BlockType = "rsvp"
	BlockMessage      BlockType = "message"
	BlockFooter       BlockType = "footer"
	BlockDivider      BlockType = "divider"
	BlockCountdown    BlockType = "countdown"
	BlockQRCode       BlockType = "qrcode"
	BlockSocialShare  BlockType = "socialShare"
	BlockYouTube      BlockType = "youtube"
	BlockFullImage    BlockType = "fullImage"
	BlockPDF          BlockType = "pdf"
)

// KnownBlockTypes lists every block type this build can render, in the
// order they appear in the builder's "add block" picker.
var KnownBlockTypes = []BlockType{
	BlockHero, BlockEventDetails, BlockVenue, BlockGallery, BlockRSVP,
	BlockMessage, BlockFooter, BlockDivider, BlockCountdown, BlockQRCode,
	BlockSocialShare, BlockYouTube, BlockFullImage, BlockPDF,
}

// IsKnown reports whether this build has a renderer for the block type.
// Unknown types are still carried through the document untouched.
func (t BlockType) IsKnown() bool {
	for _, k := range KnownBlockTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Background types for Settings.BackgroundType.
const (
	BackgroundSolid    = "solid"
	BackgroundGradient = "gradient"
	BackgroundImage    = "image"
)

// Animation kinds for Settings.Animation. Unknown values fall back to
// AnimationFadeUp at render time.
const (
	AnimationNone       = "none"
	AnimationFadeUp     = "fade-up"
	AnimationFadeIn     = "fade-in"
	AnimationSlideLeft  = "slide-left"
	AnimationSlideRight = "slide-right"
	AnimationZoom       = "zoom"
)

// Settings holds the presentation options shared by every block type:
// background, overlay, spacing, alignment, and entrance animation.
// Zero values mean "unset" — accessors on the renderer side substitute
// the documented defaults, and the stored JSON is never rewritten.
type Settings struct {
	BackgroundType     string  `json:"backgroundType,omitempty"`
	BackgroundColor    string  `json:"backgroundColor,omitempty"`
	BackgroundImage    string  `json:"backgroundImage,omitempty"`
	BackgroundGradient string  `json:"backgroundGradient,omitempty"`
	BackgroundSize     string  `json:"backgroundSize,omitempty"`
	BackgroundPosition string  `json:"backgroundPosition,omitempty"`
	OverlayEnabled     bool    `json:"overlayEnabled,omitempty"`
	OverlayColor       string  `json:"overlayColor,omitempty"`
	OverlayOpacity     float64 `json:"overlayOpacity,omitempty"`
	Height             string  `json:"height,omitempty"`
	Padding            string  `json:"padding,omitempty"`
	TextAlign          string  `json:"textAlign,omitempty"`
	Animation          string  `json:"animation,omitempty"`
	AnimationDelay     float64 `json:"animationDelay,omitempty"`

	// Extra carries settings keys this build does not model, so they
	// survive a load/save round trip.
	Extra map[string]any `json:"-"`
}

// settingsAlias avoids recursion in the custom JSON methods.
type settingsAlias Settings

// knownSettingKeys mirrors the json tags above, used to split known
// fields from Extra during unmarshalling.
var knownSettingKeys = map[string]bool{
	"backgroundType": true, "backgroundColor": true, "backgroundImage": true,
	"backgroundGradient": true, "backgroundSize": true, "backgroundPosition": true,
	"overlayEnabled": true, "overlayColor": true, "overlayOpacity": true,
	"height": true, "padding": true, "textAlign": true,
	"animation": true, "animationDelay": true,
}

// UnmarshalJSON decodes known settings into struct fields and preserves
// everything else in Extra.
func (s *Settings) UnmarshalJSON(b []byte) error {
	var a settingsAlias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for key := range raw {
		if knownSettingKeys[key] {
			continue
		}
		if a.Extra == nil {
			a.Extra = make(map[string]any)
		}
		var v any
		if err := json.Unmarshal(raw[key], &v); err != nil {
			return err
		}
		a.Extra[key] = v
	}
	*s = Settings(a)
	return nil
}

// MarshalJSON re-merges Extra keys into the encoded object.
func (s Settings) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(settingsAlias(s))
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return b, nil
	}
	var merged map[string]any
	if err := json.Unmarshal(b, &merged); err != nil {
		return nil, err
	}
	for k, v := range s.Extra {
		if !knownSettingKeys[k] {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Block is one content section of an invitation page. Content is a
// type-tagged JSON object whose shape depends on Type; unknown keys and
// unknown types are preserved so newer documents degrade gracefully on
// older builds.
type Block struct {
	ID       string            `json:"id"`
	Type     BlockType         `json:"type"`
	Order    int               `json:"order"`
	Settings Settings          `json:"settings"`
	Content  map[string]any    `json:"content"`
	Styles   map[string]string `json:"styles,omitempty"`
}

// GlobalSettings apply to the page as a whole rather than to one block.
type GlobalSettings struct {
	MaxWidth          string  `json:"maxWidth,omitempty"`
	FontScale         float64 `json:"fontScale,omitempty"`
	AnimationsEnabled *bool   `json:"animationsEnabled,omitempty"`
}

// AnimationsOn returns whether entrance animations are enabled. Absent
// means enabled.
func (g GlobalSettings) AnimationsOn() bool {
	return g.AnimationsEnabled == nil || *g.AnimationsEnabled
}

// Design is the root document: ordered blocks, a theme, and global
// settings. Block Order values define the render sequence; the renderer
// always re-sorts rather than trusting slice position.
type Design struct {
	Blocks         []Block        `json:"blocks"`
	Theme          Theme          `json:"theme"`
	GlobalSettings GlobalSettings `json:"globalSettings"`
}

// NewBlockID returns an opaque identifier unique within a design.
func NewBlockID() string {
	return uuid.NewString()
}

// SortedBlocks returns a copy of the design's blocks stable-sorted by
// Order. Ties keep their original slice position. The input slice is
// never mutated — callers in editing and public contexts share it.
func (d *Design) SortedBlocks() []Block {
	out := make([]Block, len(d.Blocks))
	copy(out, d.Blocks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// FindBlock returns a pointer to the block with the given id, or nil.
func (d *Design) FindBlock(id string) *Block {
	for i := range d.Blocks {
		if d.Blocks[i].ID == id {
			return &d.Blocks[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the design via a JSON round trip. Used by
// the builder's snapshot-based undo history, where a shared reference
// would let later edits corrupt earlier snapshots.
func (d *Design) Clone() (*Design, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("clone design: %w", err)
	}
	var out Design
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("clone design: %w", err)
	}
	return &out, nil
}

// Parse decodes a persisted design document. The JSON shape is the
// stable external contract — anything this build does not understand is
// preserved in Content / Settings.Extra.
func Parse(b []byte) (*Design, error) {
	var d Design
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse design: %w", err)
	}
	return &d, nil
}

// Encode serializes a design for persistence.
func (d *Design) Encode() ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode design: %w", err)
	}
	return b, nil
}

// EventData is the content record an invitation binds into its blocks:
// event name, host, date, venue, and so on. Block content references
// these fields with {{fieldName}} placeholder tokens.
type EventData map[string]any

// String returns the named field rendered as text, or "" when absent.
func (e EventData) String(key string) string {
	v, ok := e[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Images returns the event's image URL list, tolerating both []string
// and the []any produced by JSON decoding.
func (e EventData) Images() []string {
	switch v := e["images"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
