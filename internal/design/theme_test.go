package design

import "testing"

func TestResolveThemeOverrideWinsPerKey(t *testing.T) {
	base := DefaultTheme()
	base.Colors.Primary = "#111111"
	base.Colors.Secondary = "#222222"

	resolved := ResolveTheme(base, ThemeOverrides{
		Colors: map[string]string{"primary": "#ffffff"},
	})

	if resolved.Colors.Primary != "#ffffff" {
		t.Errorf("primary = %q, want overridden #ffffff", resolved.Colors.Primary)
	}
	if resolved.Colors.Secondary != "#222222" {
		t.Errorf("secondary = %q, want base value retained", resolved.Colors.Secondary)
	}
	if base.Colors.Primary != "#111111" {
		t.Error("ResolveTheme mutated the base theme")
	}
}

func TestResolveThemeFillsMissingLeaves(t *testing.T) {
	// A partial base theme (e.g. from an old stored design) must come
	// out total: renderers index into colors without guards.
	resolved := ResolveTheme(Theme{}, ThemeOverrides{})

	def := DefaultTheme()
	for _, key := range ColorKeys {
		if resolved.Color(key) == "" {
			t.Errorf("color %q is empty after resolution", key)
		}
		if resolved.Color(key) != def.Color(key) {
			t.Errorf("color %q = %q, want default %q", key, resolved.Color(key), def.Color(key))
		}
	}
	for _, key := range FontKeys {
		if resolved.Font(key) == "" {
			t.Errorf("font %q is empty after resolution", key)
		}
	}
	if resolved.BorderRadius == "" {
		t.Error("borderRadius is empty after resolution")
	}
}

func TestResolveThemeMergeLevels(t *testing.T) {
	base := DefaultTheme()
	resolved := ResolveTheme(base, ThemeOverrides{
		Fonts:        map[string]string{"body": "Lora, serif"},
		BorderRadius: "0",
	})

	if resolved.Fonts.Body != "Lora, serif" {
		t.Errorf("fonts.body = %q, want override", resolved.Fonts.Body)
	}
	if resolved.Fonts.Heading != base.Fonts.Heading {
		t.Errorf("fonts.heading = %q, want base retained", resolved.Fonts.Heading)
	}
	if resolved.BorderRadius != "0" {
		t.Errorf("borderRadius = %q, want wholesale override", resolved.BorderRadius)
	}
}

func TestThemeSetPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		value   string
		wantErr bool
		check   func(*Theme) string
	}{
		{
			name: "color leaf", path: "colors.primary", value: "#abcdef",
			check: func(th *Theme) string { return th.Colors.Primary },
		},
		{
			name: "font leaf", path: "fonts.heading", value: "Cormorant, serif",
			check: func(th *Theme) string { return th.Fonts.Heading },
		},
		{
			name: "top level", path: "borderRadius", value: "4px",
			check: func(th *Theme) string { return th.BorderRadius },
		},
		{name: "unknown color", path: "colors.sparkle", value: "#fff", wantErr: true},
		{name: "unknown group", path: "shadows.soft", value: "2px", wantErr: true},
		{name: "bare unknown field", path: "opacity", value: "1", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			th := DefaultTheme()
			err := th.SetPath(tc.path, tc.value)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("SetPath(%q) succeeded, want error", tc.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetPath(%q): %v", tc.path, err)
			}
			if got := tc.check(&th); got != tc.value {
				t.Errorf("after SetPath(%q), value = %q, want %q", tc.path, got, tc.value)
			}
		})
	}
}

func TestIsColorPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"colors.primary", true},
		{"colors.border", true},
		{"colors.sparkle", false},
		{"fonts.body", false},
		{"borderRadius", false},
	}
	for _, tc := range tests {
		if got := IsColorPath(tc.path); got != tc.want {
			t.Errorf("IsColorPath(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
