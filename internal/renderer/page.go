// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go assembles full HTML pages from rendered block outputs: theme
// custom properties, base stylesheet, entrance-animation bootstrap, and
// the shared RSVP dialog.
package renderer

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"invitepress/internal/design"
)

// PageInput bundles everything RenderPage needs. ThemeOverrides is the
// sparse customer delta merged over the design theme at render time.
type PageInput struct {
	Design    *design.Design
	EventData design.EventData
	Overrides design.ThemeOverrides
	Title     string
	Callbacks Callbacks
	Mode      Mode
}

// RenderPage renders the complete invitation page. The block pipeline is
// identical for public pages and builder previews; only the Mode differs.
func (r *Renderer) RenderPage(in PageInput) []byte {
	theme := design.ResolveTheme(in.Design.Theme, in.Overrides)
	blocks := r.RenderDocument(in.Design.Blocks, in.EventData, theme, in.Callbacks, in.Mode)

	gs := in.Design.GlobalSettings
	animations := gs.AnimationsOn()

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	sb.WriteString("<title>")
	sb.WriteString(template.HTMLEscapeString(orDefault(in.Title, "You're Invited")))
	sb.WriteString("</title>\n")
	writeFontLinks(&sb, theme)
	sb.WriteString("<style>")
	sb.WriteString(pageCSS)
	if !animations {
		sb.WriteString(noAnimationCSS)
	}
	sb.WriteString("</style>\n</head>\n<body>\n")

	sb.WriteString(`<main class="ip-page" style="`)
	sb.WriteString(themeVars(theme))
	if gs.MaxWidth != "" {
		sb.WriteString(";max-width:" + cssValue(gs.MaxWidth) + ";margin:0 auto")
	}
	if gs.FontScale > 0 && gs.FontScale != 1 {
		sb.WriteString(fmt.Sprintf(";font-size:%.2f%%", gs.FontScale*100))
	}
	sb.WriteString(`">`)

	for _, b := range blocks {
		sb.WriteString(string(b.HTML))
	}
	sb.WriteString("</main>\n")

	if in.Callbacks.RSVPURL != "" {
		sb.WriteString(rsvpDialog(in.Callbacks.RSVPURL))
	}
	if animations {
		sb.WriteString(animationScript)
	}
	sb.WriteString("</body>\n</html>\n")
	return []byte(sb.String())
}

// themeVars exposes the resolved theme to the stylesheet as CSS custom
// properties on the page wrapper.
func themeVars(t design.Theme) string {
	pairs := []struct{ name, val string }{
		{"--c-primary", t.Colors.Primary},
		{"--c-secondary", t.Colors.Secondary},
		{"--c-accent", t.Colors.Accent},
		{"--c-bg", t.Colors.Background},
		{"--c-surface", t.Colors.Surface},
		{"--c-text", t.Colors.Text},
		{"--c-text-light", t.Colors.TextLight},
		{"--c-border", t.Colors.Border},
		{"--f-heading", t.Fonts.Heading},
		{"--f-body", t.Fonts.Body},
		{"--f-accent", t.Fonts.Accent},
		{"--radius", t.BorderRadius},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.name+":"+cssValue(p.val))
	}
	return strings.Join(parts, ";")
}

// writeFontLinks emits Google Fonts stylesheet links for the theme's
// font families. Generic families (serif, sans-serif, cursive) are
// skipped; unknown families fail soft to the browser default.
func writeFontLinks(sb *strings.Builder, t design.Theme) {
	seen := map[string]bool{}
	var families []string
	for _, stack := range []string{t.Fonts.Heading, t.Fonts.Body, t.Fonts.Accent} {
		family, _, _ := strings.Cut(stack, ",")
		family = strings.TrimSpace(family)
		switch strings.ToLower(family) {
		case "", "serif", "sans-serif", "cursive", "monospace", "system-ui":
			continue
		}
		if !seen[family] {
			seen[family] = true
			families = append(families, family)
		}
	}
	if len(families) == 0 {
		return
	}
	var params []string
	for _, f := range families {
		params = append(params, "family="+url.QueryEscape(f))
	}
	sb.WriteString(`<link rel="stylesheet" href="https://fonts.googleapis.com/css2?` +
		strings.Join(params, "&amp;") + `&amp;display=swap">` + "\n")
}

// rsvpDialog is the page-level modal that modal-style RSVP blocks open.
func rsvpDialog(action string) string {
	esc := template.HTMLEscapeString(action)
	return `<dialog class="ip-rsvp-dialog" id="ip-rsvp-dialog">
<form class="ip-rsvp-form" method="post" action="` + esc + `">
<h2 class="ip-heading">RSVP</h2>
<input class="ip-input" type="text" name="name" placeholder="Your name" required>
<input class="ip-input" type="email" name="email" placeholder="Email" required>
<select class="ip-input" name="response">
<option value="yes">Joyfully accepts</option>
<option value="no">Regretfully declines</option>
<option value="maybe">Not sure yet</option>
</select>
<input class="ip-input" type="number" name="numberOfGuests" min="1" value="1">
<textarea class="ip-input" name="message" placeholder="Leave a note (optional)"></textarea>
<button class="ip-btn" type="submit">Send</button>
<button class="ip-btn ip-btn-outline" type="button" data-close-rsvp>Close</button>
</form>
</dialog>
<script>
(function(){
  var dlg=document.getElementById("ip-rsvp-dialog");
  if(!dlg)return;
  document.querySelectorAll("[data-open-rsvp]").forEach(function(b){
    b.addEventListener("click",function(){dlg.showModal();});
  });
  document.querySelectorAll("[data-close-rsvp]").forEach(function(b){
    b.addEventListener("click",function(){dlg.close();});
  });
})();
</script>
`
}

// animationScript reveals blocks the first time they scroll into view.
// Each element is unobserved after triggering, so re-entering the
// viewport never replays the animation.
const animationScript = `<script>
(function(){
  if(!("IntersectionObserver" in window)){
    document.querySelectorAll(".ip-anim").forEach(function(el){el.classList.add("ip-in");});
    return;
  }
  var obs=new IntersectionObserver(function(entries){
    entries.forEach(function(e){
      if(e.isIntersecting){e.target.classList.add("ip-in");obs.unobserve(e.target);}
    });
  },{threshold:0.15});
  document.querySelectorAll(".ip-anim").forEach(function(el){obs.observe(el);});
})();
</script>
`

// noAnimationCSS forces every block visible when the design disables
// entrance animations globally.
const noAnimationCSS = `.ip-anim{opacity:1 !important;transform:none !important;transition:none !important}`

// pageCSS is the shared stylesheet for every invitation page. All theme
// values come from the custom properties set on .ip-page. The 0.6s
// transition length is fixed; per-block delay arrives as an inline
// transition-delay from the block settings.
const pageCSS = `
*{box-sizing:border-box;margin:0}
body{background:#f3f4f6}
.ip-page{font-family:var(--f-body);color:var(--c-text);background:var(--c-bg)}
.ip-block{position:relative;overflow:hidden}
.ip-block-content{position:relative;z-index:1;display:flex;flex-direction:column;align-items:center;justify-content:center;gap:16px;min-height:inherit}
.ip-overlay{position:absolute;inset:0;z-index:0}
.ip-anim{opacity:0;transition:opacity .6s ease,transform .6s ease}
.ip-anim-fade-up{transform:translateY(28px)}
.ip-anim-slide-left{transform:translateX(-40px)}
.ip-anim-slide-right{transform:translateX(40px)}
.ip-anim-zoom{transform:scale(.92)}
.ip-anim.ip-in{opacity:1;transform:none}
.ip-heading{font-family:var(--f-heading);font-size:2rem;color:var(--c-primary)}
.ip-text{color:var(--c-text-light);max-width:42rem}
.ip-hero-subtitle{font-family:var(--f-accent);font-size:1.5rem;color:var(--c-accent)}
.ip-hero-title{font-family:var(--f-heading);font-size:3.2rem;color:var(--c-primary);line-height:1.1}
.ip-hero-date{color:var(--c-text-light);letter-spacing:.12em;text-transform:uppercase;font-size:.9rem}
.ip-btn{display:inline-block;background:var(--c-primary);color:var(--c-bg);border:1px solid var(--c-primary);border-radius:var(--radius);padding:12px 32px;font-family:var(--f-body);font-size:1rem;text-decoration:none;cursor:pointer}
.ip-btn-outline{background:transparent;color:var(--c-primary)}
.ip-cards{display:flex;gap:16px;justify-content:center;flex-wrap:wrap}
.ip-cards-stacked{flex-direction:column;align-items:center}
.ip-card{background:var(--c-surface);border:1px solid var(--c-border);border-radius:var(--radius);padding:24px 32px;min-width:180px}
.ip-card-label{color:var(--c-accent);font-size:.8rem;text-transform:uppercase;letter-spacing:.1em}
.ip-card-value{font-family:var(--f-heading);font-size:1.2rem;margin-top:8px}
.ip-venue-name{font-family:var(--f-heading);font-size:1.4rem}
.ip-venue-address{color:var(--c-text-light)}
.ip-venue-map{width:100%;max-width:640px;height:320px;border:0;border-radius:var(--radius)}
.ip-gallery-grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(220px,1fr));gap:12px;width:100%;max-width:960px}
.ip-gallery-carousel{display:flex;gap:12px;overflow-x:auto;width:100%;max-width:960px;scroll-snap-type:x mandatory}
.ip-gallery-carousel .ip-gallery-img{scroll-snap-align:center;flex:0 0 80%}
.ip-gallery-img{width:100%;border-radius:var(--radius);object-fit:cover;aspect-ratio:4/3}
.ip-rsvp-form{display:flex;flex-direction:column;gap:12px;width:100%;max-width:420px}
.ip-input{padding:12px;border:1px solid var(--c-border);border-radius:var(--radius);font-family:var(--f-body);font-size:1rem;background:var(--c-bg);color:var(--c-text)}
.ip-rsvp-dialog{border:0;border-radius:12px;padding:32px;max-width:460px;width:92%}
.ip-rsvp-dialog::backdrop{background:rgba(0,0,0,.5)}
.ip-countdown-units{display:flex;gap:24px;justify-content:center}
.ip-countdown-num{display:block;font-family:var(--f-heading);font-size:2.6rem;color:var(--c-primary)}
.ip-countdown-label{color:var(--c-text-light);font-size:.8rem;text-transform:uppercase;letter-spacing:.1em}
.ip-divider-line hr{border:0;border-top:1px solid var(--c-border);width:160px;margin:0 auto}
.ip-divider-dots{display:flex;gap:10px;justify-content:center}
.ip-divider-dots span{width:6px;height:6px;border-radius:50%;background:var(--c-accent)}
.ip-divider-ornament{color:var(--c-accent);font-size:1.6rem}
.ip-footer-text{font-family:var(--f-accent);font-size:1.4rem;color:var(--c-primary)}
.ip-footer-contact{color:var(--c-text-light);font-size:.9rem}
.ip-share-links{display:flex;gap:12px;justify-content:center;flex-wrap:wrap}
.ip-youtube-frame{position:relative;width:100%;max-width:720px;aspect-ratio:16/9}
.ip-youtube-frame iframe{position:absolute;inset:0;width:100%;height:100%;border:0;border-radius:var(--radius)}
.ip-full-image img{width:100%;display:block}
.ip-qrcode-img{border-radius:var(--radius);background:#fff;padding:8px}
.ip-edit-wrap{position:relative;cursor:pointer;outline:1px dashed transparent;outline-offset:-1px}
.ip-edit-wrap:hover{outline-color:var(--c-accent)}
.ip-edit-selected{outline:2px solid var(--c-accent);outline-offset:-2px}
.ip-block-skipped{padding:24px;text-align:center;color:#9ca3af;border:1px dashed #d1d5db;font-size:.85rem}
`
