// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package renderer turns a design document into themed HTML. It is the
// single rendering path shared by the public invitation page, the
// customer's live preview, and the admin template builder canvas — the
// three call sites must stay pixel-identical, differing only in editing
// chrome, so all of them go through RenderDocument/RenderPage here.
//
// Rendering is a pure projection from (design, event data, theme, mode)
// to output. Nothing here consults the feature-access policy: a stored
// design is trusted once saved, and validity is enforced at edit time.
package renderer

import (
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"invitepress/internal/design"
)

// Mode controls editing affordances. In editing mode each block is
// wrapped in a selectable container and the selected block is
// highlighted; block content itself is rendered identically either way.
type Mode struct {
	IsEditing       bool
	SelectedBlockID string
}

// Callbacks carries the interaction endpoints a rendered page needs.
// Empty values disable the corresponding affordance (e.g. no RSVP
// endpoint in the admin builder canvas).
type Callbacks struct {
	RSVPURL  string // POST target for RSVP submissions
	ShareURL string // public link encoded by qrcode/socialShare blocks
}

// BlockOutput is the rendered result of one block. Skipped blocks
// (unknown type, empty gallery) produce no BlockOutput at all.
type BlockOutput struct {
	BlockID string
	Type    design.BlockType
	HTML    template.HTML
}

// Renderer renders design documents. The clock is injectable so the
// countdown block is testable; zero value defaults to time.Now.
type Renderer struct {
	Now func() time.Time
}

// New returns a Renderer using the real clock.
func New() *Renderer {
	return &Renderer{Now: time.Now}
}

func (r *Renderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// RenderDocument stable-sorts a copy of the blocks by order and renders
// each one. Placeholder tokens in block content are resolved against the
// event data exactly once, here. Blocks with unknown types render as
// no-ops with a diagnostic log line; one corrupt block must never blank
// the page.
func (r *Renderer) RenderDocument(blocks []design.Block, data design.EventData, theme design.Theme, cb Callbacks, mode Mode) []BlockOutput {
	d := design.Design{Blocks: blocks}
	sorted := d.SortedBlocks()

	out := make([]BlockOutput, 0, len(sorted))
	for _, block := range sorted {
		inner, ok := r.renderBlock(block, data, theme, cb)
		if !ok {
			if mode.IsEditing {
				// The builder still needs a selectable placeholder for
				// skipped blocks, otherwise they become uneditable.
				out = append(out, BlockOutput{
					BlockID: block.ID,
					Type:    block.Type,
					HTML:    r.wrapEditing(block, skippedPlaceholder(block), mode),
				})
			}
			continue
		}

		section := r.wrapSection(block, theme, inner)
		if mode.IsEditing {
			section = r.wrapEditing(block, section, mode)
		}
		out = append(out, BlockOutput{BlockID: block.ID, Type: block.Type, HTML: section})
	}
	return out
}

// renderBlock dispatches on the block type. The default arm is
// mandatory: schema drift is expected, not exceptional.
func (r *Renderer) renderBlock(block design.Block, data design.EventData, theme design.Theme, cb Callbacks) (template.HTML, bool) {
	content := resolvedContent(block, data)

	switch block.Type {
	case design.BlockHero:
		return r.renderHero(content, data, theme), true
	case design.BlockEventDetails:
		return r.renderEventDetails(content, data, theme), true
	case design.BlockVenue:
		return r.renderVenue(content, theme), true
	case design.BlockGallery:
		return r.renderGallery(content, data, theme)
	case design.BlockRSVP:
		return r.renderRSVP(content, theme, cb), true
	case design.BlockMessage:
		return r.renderMessage(content, theme), true
	case design.BlockFooter:
		return r.renderFooter(content, data, theme), true
	case design.BlockDivider:
		return r.renderDivider(content, theme), true
	case design.BlockCountdown:
		return r.renderCountdown(content, data, theme), true
	case design.BlockQRCode:
		return r.renderQRCode(content, theme, cb)
	case design.BlockSocialShare:
		return r.renderSocialShare(content, theme, cb), true
	case design.BlockYouTube:
		return r.renderYouTube(content, theme)
	case design.BlockFullImage:
		return r.renderFullImage(content, theme)
	case design.BlockPDF:
		return r.renderPDF(content, theme)
	default:
		slog.Warn("skipping block with unknown type",
			"block_id", block.ID,
			"type", string(block.Type),
		)
		return "", false
	}
}

// resolvedContent applies placeholder substitution to a block's content.
// The stored content is never mutated.
func resolvedContent(block design.Block, data design.EventData) map[string]any {
	resolved, _ := design.ResolvePlaceholders(block.Content, data).(map[string]any)
	if resolved == nil {
		resolved = map[string]any{}
	}
	return resolved
}

// wrapSection wraps rendered block content in its <section> container,
// applying background, overlay, spacing, and animation settings.
func (r *Renderer) wrapSection(block design.Block, theme design.Theme, inner template.HTML) template.HTML {
	s := block.Settings

	var sb strings.Builder
	sb.WriteString(`<section class="ip-block`)
	if anim := animationClass(s); anim != "" {
		sb.WriteString(" ip-anim ip-anim-")
		sb.WriteString(anim)
	}
	sb.WriteString(`" data-block="`)
	sb.WriteString(template.HTMLEscapeString(block.ID))
	sb.WriteString(`" style="`)
	sb.WriteString(sectionStyle(s, theme))
	sb.WriteString(`">`)

	if s.OverlayEnabled {
		sb.WriteString(`<div class="ip-overlay" style="`)
		sb.WriteString(overlayStyle(s))
		sb.WriteString(`"></div>`)
	}

	sb.WriteString(`<div class="ip-block-content">`)
	sb.WriteString(string(inner))
	sb.WriteString(`</div></section>`)
	return template.HTML(sb.String())
}

// wrapEditing adds the builder's selection chrome around a rendered
// section. The inner markup is byte-identical to the public rendering —
// the chrome is a pure wrapper, which is what keeps the builder preview
// honest.
func (r *Renderer) wrapEditing(block design.Block, section template.HTML, mode Mode) template.HTML {
	class := "ip-edit-wrap"
	if block.ID == mode.SelectedBlockID {
		class += " ip-edit-selected"
	}
	return template.HTML(fmt.Sprintf(
		`<div class="%s" data-edit-block="%s">%s</div>`,
		class, template.HTMLEscapeString(block.ID), section,
	))
}

// skippedPlaceholder renders the builder stand-in for a block that
// produced no public output.
func skippedPlaceholder(block design.Block) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<div class="ip-block-skipped">%s block (nothing to show yet)</div>`,
		template.HTMLEscapeString(string(block.Type)),
	))
}

// sectionStyle builds the inline CSS for a block section from its
// settings, falling back to documented defaults for absent fields.
func sectionStyle(s design.Settings, theme design.Theme) string {
	var parts []string

	switch s.BackgroundType {
	case design.BackgroundImage:
		if s.BackgroundImage != "" {
			parts = append(parts, "background-image:url('"+cssValue(s.BackgroundImage)+"')")
		}
		// Fallback solid color shown while the image loads or on failure.
		parts = append(parts, "background-color:"+cssValue(fallbackColor(s.BackgroundColor, theme.Colors.Surface)))
		parts = append(parts, "background-size:"+cssValue(orDefault(s.BackgroundSize, "cover")))
		parts = append(parts, "background-position:"+cssValue(orDefault(s.BackgroundPosition, "center")))
		parts = append(parts, "background-repeat:no-repeat")
	case design.BackgroundGradient:
		if s.BackgroundGradient != "" {
			parts = append(parts, "background-image:"+cssValue(s.BackgroundGradient))
		} else {
			parts = append(parts, "background-color:"+cssValue(fallbackColor(s.BackgroundColor, theme.Colors.Surface)))
		}
	default:
		parts = append(parts, "background-color:"+cssValue(fallbackColor(s.BackgroundColor, theme.Colors.Background)))
	}

	if s.Height != "" {
		parts = append(parts, "min-height:"+cssValue(s.Height))
	}
	parts = append(parts, "padding:"+cssValue(orDefault(s.Padding, "48px 24px")))
	parts = append(parts, "text-align:"+cssValue(orDefault(s.TextAlign, "center")))
	if s.AnimationDelay > 0 {
		parts = append(parts, fmt.Sprintf("transition-delay:%.2fs", s.AnimationDelay))
	}
	return strings.Join(parts, ";")
}

// overlayStyle builds the translucent layer between background and content.
func overlayStyle(s design.Settings) string {
	color := orDefault(s.OverlayColor, "#000000")
	opacity := s.OverlayOpacity
	if opacity <= 0 {
		opacity = 0.4
	}
	return fmt.Sprintf("background-color:%s;opacity:%.2f", cssValue(color), opacity)
}

// animationClass maps the settings animation name to a CSS class suffix.
// Unknown or absent names fall back to fade-up; "none" disables the
// entrance animation entirely.
func animationClass(s design.Settings) string {
	switch s.Animation {
	case design.AnimationNone:
		return ""
	case design.AnimationFadeIn:
		return "fade-in"
	case design.AnimationSlideLeft:
		return "slide-left"
	case design.AnimationSlideRight:
		return "slide-right"
	case design.AnimationZoom:
		return "zoom"
	default:
		return "fade-up"
	}
}

// cssValue strips characters that could break out of an inline style
// declaration. Colors, lengths, gradients, and URLs pass through
// unchanged; anything containing a terminator is neutered.
func cssValue(v string) string {
	return strings.NewReplacer(
		`"`, "", `'`, "", ";", "", "<", "", ">", "", "\\", "", "{", "", "}", "",
	).Replace(v)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func fallbackColor(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
