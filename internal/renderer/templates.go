// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package renderer

import "html/template"

// blockTemplates holds one named fragment per block type. Theme values
// are exposed to the fragments as CSS custom properties set on the page
// wrapper (see page.go), so fragments stay free of inline theme plumbing.
var blockTemplates = template.Must(template.New("blocks").Parse(blockTemplateText))

const blockTemplateText = `
{{define "hero"}}
<div class="ip-hero">
  {{if .Subtitle}}<p class="ip-hero-subtitle">{{.Subtitle}}</p>{{end}}
  {{if .Title}}<h1 class="ip-hero-title">{{.Title}}</h1>{{end}}
  {{if .ShowDate}}<p class="ip-hero-date">{{.Date}}</p>{{end}}
  {{if .ShowButton}}<a class="ip-btn" href="#rsvp">{{.ButtonText}}</a>{{end}}
</div>
{{end}}

{{define "eventDetails"}}
<div class="ip-details">
  {{if .Heading}}<h2 class="ip-heading">{{.Heading}}</h2>{{end}}
  <div class="ip-cards{{if .Stacked}} ip-cards-stacked{{end}}">
    {{range .Cards}}
    <div class="ip-card">
      <p class="ip-card-label">{{.Label}}</p>
      <p class="ip-card-value">{{.Value}}</p>
    </div>
    {{end}}
  </div>
</div>
{{end}}

{{define "venue"}}
<div class="ip-venue">
  {{if .Heading}}<h2 class="ip-heading">{{.Heading}}</h2>{{end}}
  {{if .Name}}<p class="ip-venue-name">{{.Name}}</p>{{end}}
  {{if .Address}}<p class="ip-venue-address">{{.Address}}</p>{{end}}
  {{if .MapsEmbed}}
  <iframe class="ip-venue-map" src="{{.MapsEmbed}}" loading="lazy" referrerpolicy="no-referrer-when-downgrade"></iframe>
  {{end}}
  {{if .MapsURL}}<a class="ip-btn ip-btn-outline" href="{{.MapsURL}}" target="_blank" rel="noopener">Get Directions</a>{{end}}
</div>
{{end}}

{{define "gallery"}}
<div class="ip-gallery">
  {{if .Heading}}<h2 class="ip-heading">{{.Heading}}</h2>{{end}}
  <div class="{{if .Carousel}}ip-gallery-carousel{{else}}ip-gallery-grid{{end}}">
    {{range .Images}}<img class="ip-gallery-img" src="{{.}}" alt="" loading="lazy">{{end}}
  </div>
</div>
{{end}}

{{define "rsvp"}}
<div class="ip-rsvp" id="rsvp">
  {{if .Heading}}<h2 class="ip-heading">{{.Heading}}</h2>{{end}}
  {{if .Text}}<p class="ip-text">{{.Text}}</p>{{end}}
  {{if .Embedded}}
  {{if .RSVPURL}}
  <form class="ip-rsvp-form" method="post" action="{{.RSVPURL}}">
    <input class="ip-input" type="text" name="name" placeholder="Your name" required>
    <input class="ip-input" type="email" name="email" placeholder="Email" required>
    <select class="ip-input" name="response">
      <option value="yes">Joyfully accepts</option>
      <option value="no">Regretfully declines</option>
      <option value="maybe">Not sure yet</option>
    </select>
    <input class="ip-input" type="number" name="numberOfGuests" min="1" value="1">
    <textarea class="ip-input" name="message" placeholder="Leave a note (optional)"></textarea>
    <button class="ip-btn" type="submit">{{.ButtonText}}</button>
  </form>
  {{end}}
  {{else}}
  <button class="ip-btn" type="button" data-open-rsvp>{{.ButtonText}}</button>
  {{end}}
</div>
{{end}}

{{define "message"}}
<div class="ip-message">
  {{if .Heading}}<h2 class="ip-heading">{{.Heading}}</h2>{{end}}
  {{if .Text}}<p class="ip-text">{{.Text}}</p>{{end}}
</div>
{{end}}

{{define "footer"}}
<div class="ip-footer">
  {{if .Text}}<p class="ip-footer-text">{{.Text}}</p>{{end}}
  {{if .Contact}}<p class="ip-footer-contact">{{.Contact}}</p>{{end}}
</div>
{{end}}

{{define "divider"}}
{{if eq .Variant "dots"}}
<div class="ip-divider ip-divider-dots"><span></span><span></span><span></span></div>
{{else if eq .Variant "ornament"}}
<div class="ip-divider ip-divider-ornament">&#10087;</div>
{{else}}
<div class="ip-divider ip-divider-line"><hr></div>
{{end}}
{{end}}

{{define "countdown"}}
<div class="ip-countdown">
  {{if .Heading}}<h2 class="ip-heading">{{.Heading}}</h2>{{end}}
  <div class="ip-countdown-units">
    <div class="ip-countdown-unit"><span class="ip-countdown-num">{{.Days}}</span><span class="ip-countdown-label">Days</span></div>
    <div class="ip-countdown-unit"><span class="ip-countdown-num">{{.Hours}}</span><span class="ip-countdown-label">Hours</span></div>
    <div class="ip-countdown-unit"><span class="ip-countdown-num">{{.Minutes}}</span><span class="ip-countdown-label">Minutes</span></div>
  </div>
</div>
{{end}}

{{define "qrcode"}}
<div class="ip-qrcode">
  {{if .Heading}}<h2 class="ip-heading">{{.Heading}}</h2>{{end}}
  <img class="ip-qrcode-img" src="{{.DataURI}}" alt="QR code" width="220" height="220">
  {{if .Caption}}<p class="ip-text">{{.Caption}}</p>{{end}}
</div>
{{end}}

{{define "socialShare"}}
<div class="ip-share">
  {{if .Heading}}<h2 class="ip-heading">{{.Heading}}</h2>{{end}}
  <div class="ip-share-links">
    {{range .Links}}<a class="ip-btn ip-btn-outline" href="{{.URL}}" target="_blank" rel="noopener">{{.Label}}</a>{{end}}
  </div>
</div>
{{end}}

{{define "youtube"}}
<div class="ip-youtube">
  {{if .Heading}}<h2 class="ip-heading">{{.Heading}}</h2>{{end}}
  <div class="ip-youtube-frame">
    <iframe src="{{.EmbedURL}}" title="Video" loading="lazy" allowfullscreen></iframe>
  </div>
</div>
{{end}}

{{define "fullImage"}}
<figure class="ip-full-image">
  <img src="{{.ImageURL}}" alt="{{.Alt}}" loading="lazy">
</figure>
{{end}}

{{define "pdf"}}
<div class="ip-pdf">
  {{if .Heading}}<h2 class="ip-heading">{{.Heading}}</h2>{{end}}
  <a class="ip-btn ip-btn-outline" href="{{.PDFURL}}" target="_blank" rel="noopener">{{.ButtonText}}</a>
</div>
{{end}}
`
