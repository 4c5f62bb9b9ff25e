// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// blocks.go holds the per-type block render functions. Each one is a
// pure mapping from (resolved content, event data, theme) to an HTML
// fragment; the shared section wrapper (background, overlay, animation)
// is applied by the caller in renderer.go.
package renderer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"invitepress/internal/design"
)

// eventDateLayouts are tried in order when parsing eventData.eventDate.
var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
	"January 2, 2006",
}

// parseEventDate parses the event date from event data. Returns the zero
// time when absent or unparseable — callers degrade to hiding the date.
func parseEventDate(data design.EventData) time.Time {
	raw := strings.TrimSpace(data.String("eventDate"))
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	slog.Debug("unparseable event date", "value", raw)
	return time.Time{}
}

// formatFullDate renders a date as full weekday + month name + day + year.
func formatFullDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// ---------------------------------------------------------------------
// content decode helpers — block content is a generic JSON object; these
// give each render function a typed view of the fields it cares about.
// ---------------------------------------------------------------------

func contentString(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// contentShow reads a show* toggle. Toggleable elements are shown unless
// the flag is explicitly false.
func contentShow(m map[string]any, key string) bool {
	v, ok := m[key]
	if !ok || v == nil {
		return true
	}
	b, isBool := v.(bool)
	return !isBool || b
}

func contentStrings(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// exec runs a named fragment template, returning empty HTML on failure.
// A template error on one block must not take down the page.
func exec(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := blockTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("block template failed", "template", name, "error", err)
		return ""
	}
	return template.HTML(buf.String())
}

// ---------------------------------------------------------------------
// hero
// ---------------------------------------------------------------------

type heroData struct {
	Subtitle   string
	Title      string
	ShowDate   bool
	Date       string
	ShowButton bool
	ButtonText string
	Theme      design.Theme
}

func (r *Renderer) renderHero(content map[string]any, data design.EventData, theme design.Theme) template.HTML {
	h := heroData{
		Subtitle:   contentString(content, "subtitle"),
		Title:      contentString(content, "title"),
		ShowDate:   contentShow(content, "showDate"),
		ShowButton: contentShow(content, "showButton"),
		ButtonText: orDefault(contentString(content, "buttonText"), "RSVP Now"),
		Theme:      theme,
	}
	if !contentShow(content, "showTitle") {
		h.Title = ""
	}
	if !contentShow(content, "showSubtitle") {
		h.Subtitle = ""
	}
	if date := parseEventDate(data); !date.IsZero() {
		h.Date = formatFullDate(date)
	} else {
		h.ShowDate = false
	}
	return exec("hero", h)
}

// ---------------------------------------------------------------------
// eventDetails
// ---------------------------------------------------------------------

type detailCard struct {
	Label string
	Value string
}

type eventDetailsData struct {
	Heading string
	Stacked bool
	Cards   []detailCard
	Theme   design.Theme
}

func (r *Renderer) renderEventDetails(content map[string]any, data design.EventData, theme design.Theme) template.HTML {
	d := eventDetailsData{
		Heading: contentString(content, "heading"),
		Stacked: contentString(content, "layout") == "stacked",
		Theme:   theme,
	}
	if contentShow(content, "showDate") {
		value := data.String("eventDate")
		if date := parseEventDate(data); !date.IsZero() {
			value = formatFullDate(date)
		}
		d.Cards = append(d.Cards, detailCard{Label: "Date", Value: value})
	}
	if contentShow(content, "showTime") {
		d.Cards = append(d.Cards, detailCard{Label: "Time", Value: data.String("eventTime")})
	}
	if contentShow(content, "showVenue") {
		d.Cards = append(d.Cards, detailCard{Label: "Venue", Value: data.String("venue")})
	}
	return exec("eventDetails", d)
}

// ---------------------------------------------------------------------
// venue
// ---------------------------------------------------------------------

type venueData struct {
	Heading   string
	Name      string
	Address   string
	MapsURL   string
	MapsEmbed string
	Theme     design.Theme
}

func (r *Renderer) renderVenue(content map[string]any, theme design.Theme) template.HTML {
	v := venueData{
		Heading: contentString(content, "heading"),
		Name:    contentString(content, "name"),
		Address: contentString(content, "address"),
		Theme:   theme,
	}
	query := strings.TrimSpace(strings.Join([]string{v.Name, v.Address}, " "))
	if query != "" {
		v.MapsURL = "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
		// The embedded map iframe renders only when the block asks for it
		// and a maps link exists.
		if contentShow(content, "showMap") {
			v.MapsEmbed = "https://www.google.com/maps?q=" + url.QueryEscape(query) + "&output=embed"
		}
	}
	return exec("venue", v)
}

// ---------------------------------------------------------------------
// gallery
// ---------------------------------------------------------------------

type galleryData struct {
	Heading  string
	Carousel bool
	Images   []string
	Theme    design.Theme
}

// renderGallery skips the entire block when no images resolve from the
// block content or the event data.
func (r *Renderer) renderGallery(content map[string]any, data design.EventData, theme design.Theme) (template.HTML, bool) {
	images := contentStrings(content, "images")
	if len(images) == 0 {
		images = data.Images()
	}
	if len(images) == 0 {
		return "", false
	}
	return exec("gallery", galleryData{
		Heading:  contentString(content, "heading"),
		Carousel: contentString(content, "layout") == "carousel",
		Images:   images,
		Theme:    theme,
	}), true
}

// ---------------------------------------------------------------------
// rsvp
// ---------------------------------------------------------------------

type rsvpData struct {
	Heading    string
	Text       string
	ButtonText string
	Embedded   bool
	RSVPURL    string
	Theme      design.Theme
}

// renderRSVP renders either an inline form (embedded style) or a button
// that opens the page-level RSVP dialog (modal style). Both submit to
// the same external endpoint; this block owns no submission logic.
func (r *Renderer) renderRSVP(content map[string]any, theme design.Theme, cb Callbacks) template.HTML {
	return exec("rsvp", rsvpData{
		Heading:    contentString(content, "heading"),
		Text:       contentString(content, "text"),
		ButtonText: orDefault(contentString(content, "buttonText"), "RSVP"),
		Embedded:   contentString(content, "style") == "embedded",
		RSVPURL:    cb.RSVPURL,
		Theme:      theme,
	})
}

// ---------------------------------------------------------------------
// message
// ---------------------------------------------------------------------

type messageData struct {
	Heading string
	Text    string
	Theme   design.Theme
}

func (r *Renderer) renderMessage(content map[string]any, theme design.Theme) template.HTML {
	return exec("message", messageData{
		Heading: contentString(content, "heading"),
		Text:    contentString(content, "text"),
		Theme:   theme,
	})
}

// ---------------------------------------------------------------------
// footer
// ---------------------------------------------------------------------

type footerData struct {
	Text    string
	Contact string
	Theme   design.Theme
}

func (r *Renderer) renderFooter(content map[string]any, data design.EventData, theme design.Theme) template.HTML {
	f := footerData{
		Text:  contentString(content, "text"),
		Theme: theme,
	}
	if contentShow(content, "showContact") {
		f.Contact = data.String("hostContact")
	}
	return exec("footer", f)
}

// ---------------------------------------------------------------------
// divider
// ---------------------------------------------------------------------

type dividerData struct {
	Variant string
	Theme   design.Theme
}

func (r *Renderer) renderDivider(content map[string]any, theme design.Theme) template.HTML {
	variant := contentString(content, "variant")
	switch variant {
	case "dots", "ornament":
	default:
		variant = "line"
	}
	return exec("divider", dividerData{Variant: variant, Theme: theme})
}

// ---------------------------------------------------------------------
// countdown
// ---------------------------------------------------------------------

type countdownData struct {
	Heading string
	Days    int
	Hours   int
	Minutes int
	Theme   design.Theme
}

// renderCountdown computes the remaining time from the render clock.
// Each unit clamps at zero once the event has passed.
func (r *Renderer) renderCountdown(content map[string]any, data design.EventData, theme design.Theme) template.HTML {
	c := countdownData{
		Heading: contentString(content, "heading"),
		Theme:   theme,
	}
	if target := parseEventDate(data); !target.IsZero() {
		remaining := target.Sub(r.now())
		if remaining > 0 {
			c.Days = int(remaining.Hours()) / 24
			c.Hours = int(remaining.Hours()) % 24
			c.Minutes = int(remaining.Minutes()) % 60
		}
	}
	return exec("countdown", c)
}

// ---------------------------------------------------------------------
// qrcode
// ---------------------------------------------------------------------

type qrcodeData struct {
	Heading string
	Caption string
	DataURI template.URL
	Theme   design.Theme
}

// renderQRCode encodes the invitation's share URL as a PNG data URI.
// Without a share URL (template builder, unpublished preview) the block
// is skipped.
func (r *Renderer) renderQRCode(content map[string]any, theme design.Theme, cb Callbacks) (template.HTML, bool) {
	if cb.ShareURL == "" {
		return "", false
	}
	png, err := qrcode.Encode(cb.ShareURL, qrcode.Medium, 220)
	if err != nil {
		slog.Warn("qr code generation failed", "error", err)
		return "", false
	}
	return exec("qrcode", qrcodeData{
		Heading: contentString(content, "heading"),
		Caption: contentString(content, "caption"),
		DataURI: template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
		Theme:   theme,
	}), true
}

// ---------------------------------------------------------------------
// socialShare
// ---------------------------------------------------------------------

type shareLink struct {
	Label string
	URL   string
}

type socialShareData struct {
	Heading string
	Links   []shareLink
	Theme   design.Theme
}

func (r *Renderer) renderSocialShare(content map[string]any, theme design.Theme, cb Callbacks) template.HTML {
	networks := contentStrings(content, "networks")
	if len(networks) == 0 {
		networks = []string{"whatsapp", "facebook", "x"}
	}
	share := url.QueryEscape(cb.ShareURL)
	s := socialShareData{Heading: contentString(content, "heading"), Theme: theme}
	for _, n := range networks {
		switch n {
		case "whatsapp":
			s.Links = append(s.Links, shareLink{Label: "WhatsApp", URL: "https://wa.me/?text=" + share})
		case "facebook":
			s.Links = append(s.Links, shareLink{Label: "Facebook", URL: "https://www.facebook.com/sharer/sharer.php?u=" + share})
		case "x", "twitter":
			s.Links = append(s.Links, shareLink{Label: "X", URL: "https://twitter.com/intent/tweet?url=" + share})
		}
	}
	return exec("socialShare", s)
}

// ---------------------------------------------------------------------
// youtube
// ---------------------------------------------------------------------

type youtubeData struct {
	Heading  string
	EmbedURL template.URL
	Theme    design.Theme
}

func (r *Renderer) renderYouTube(content map[string]any, theme design.Theme) (template.HTML, bool) {
	id := strings.TrimSpace(contentString(content, "videoId"))
	if id == "" {
		return "", false
	}
	return exec("youtube", youtubeData{
		Heading:  contentString(content, "heading"),
		EmbedURL: template.URL("https://www.youtube-nocookie.com/embed/" + url.PathEscape(id)),
		Theme:    theme,
	}), true
}

// ---------------------------------------------------------------------
// fullImage
// ---------------------------------------------------------------------

type fullImageData struct {
	ImageURL string
	Alt      string
	Theme    design.Theme
}

func (r *Renderer) renderFullImage(content map[string]any, theme design.Theme) (template.HTML, bool) {
	src := strings.TrimSpace(contentString(content, "imageUrl"))
	if src == "" {
		return "", false
	}
	return exec("fullImage", fullImageData{
		ImageURL: src,
		Alt:      contentString(content, "alt"),
		Theme:    theme,
	}), true
}

// ---------------------------------------------------------------------
// pdf
// ---------------------------------------------------------------------

type pdfData struct {
	Heading    string
	PDFURL     string
	ButtonText string
	Theme      design.Theme
}

func (r *Renderer) renderPDF(content map[string]any, theme design.Theme) (template.HTML, bool) {
	href := strings.TrimSpace(contentString(content, "pdfUrl"))
	if href == "" {
		return "", false
	}
	return exec("pdf", pdfData{
		Heading:    contentString(content, "heading"),
		PDFURL:     href,
		ButtonText: orDefault(contentString(content, "buttonText"), "Open PDF"),
		Theme:      theme,
	}), true
}
