// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package design

import (
	"fmt"
	"regexp"
)

// placeholderRe matches {{fieldName}} tokens inside block content strings.
var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// ResolvePlaceholders returns a structural clone of content in which
// every string leaf has its {{fieldName}} tokens substituted from the
// event data. Tokens whose field is missing stay as the literal {{...}}
// marker, so an invitation with incomplete data shows a visible
// placeholder instead of blank or garbled text. The input shares no
// references with the result and is never mutated.
//
// Resolution is not idempotent in general: if a substituted value itself
// contains {{...}}-shaped text, a second pass would resolve it again.
// Renderers must therefore resolve at most once per render pass.
func ResolvePlaceholders(content any, data EventData) any {
	switch v := content.(type) {
	case string:
		return resolveString(v, data)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = ResolvePlaceholders(val, data)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = ResolvePlaceholders(val, data)
		}
		return out
	case []string:
		out := make([]string, len(v))
		for i, s := range v {
			out[i] = resolveString(s, data)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for key, s := range v {
			out[key] = resolveString(s, data)
		}
		return out
	default:
		// Numbers, bools, nil: immutable as far as this traversal is
		// concerned, safe to return as-is.
		return v
	}
}

// ResolveString substitutes placeholder tokens in a single string.
func ResolveString(s string, data EventData) string {
	return resolveString(s, data)
}

func resolveString(s string, data EventData) string {
	return placeholderRe.ReplaceAllStringFunc(s, func(token string) string {
		key := placeholderRe.FindStringSubmatch(token)[1]
		val, ok := data[key]
		if !ok || val == nil {
			return token
		}
		if str, isStr := val.(string); isStr {
			return str
		}
		return fmt.Sprintf("%v", val)
	})
}
