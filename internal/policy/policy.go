// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package policy implements the feature-access rules that constrain what
// each plan tier may do inside the builder. The policy is consulted only
// when editing: a saved design is trusted at render time, so the public
// viewer never checks it.
package policy

import "invitepress/internal/design"

// Plan is the tier an editing session operates under. It arrives from
// the auth collaborator and is treated as an opaque enum here.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPaid    Plan = "paid"
	PlanScratch Plan = "scratch"
)

// Valid reports whether the plan is one of the known tiers.
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPaid || p == PlanScratch
}

// Feature names checked by IsSettingAllowed. These correspond to builder
// capabilities rather than individual settings fields.
const (
	FeatureSolidBackground    = "solidBackground"
	FeatureGradientBackground = "gradientBackground"
	FeatureImageBackground    = "imageBackground"
	FeatureOverlay            = "overlay"
	FeatureAnimation          = "animation"
	FeatureFonts              = "fonts"
	FeatureTextAlign          = "textAlign"
	FeatureHeight             = "height"
	FeaturePadding            = "padding"
	FeatureContentEdit        = "contentEdit"
	FeatureBlockStyles        = "blockStyles"
	FeaturePreview            = "preview"
	FeatureUndoRedo           = "undoRedo"
)

// freeBlockTypes is the minimal set of sections a free invitation may use.
var freeBlockTypes = map[design.BlockType]bool{
	design.BlockHero:         true,
	design.BlockEventDetails: true,
	design.BlockVenue:        true,
	design.BlockRSVP:         true,
	design.BlockMessage:      true,
	design.BlockCountdown:    true,
	design.BlockDivider:      true,
	design.BlockFooter:       true,
}

// freeFeatures is the minimal capability set for the free tier: solid
// backgrounds and basic layout controls only.
var freeFeatures = map[string]bool{
	FeatureSolidBackground: true,
	FeatureTextAlign:       true,
	FeatureHeight:          true,
	FeatureContentEdit:     true,
	FeaturePreview:         true,
	FeatureUndoRedo:        true,
}

// freeColorKeys limits free-tier theme edits to the two brand colors.
var freeColorKeys = []string{"primary", "accent"}

// IsBlockTypeAllowed reports whether a plan may add blocks of the given
// type. Paid and scratch tiers get every known type; free gets the
// essentials. Unknown block types are never addable, regardless of plan —
// they only exist in documents written by newer builds.
func IsBlockTypeAllowed(plan Plan, t design.BlockType) bool {
	if !t.IsKnown() {
		return false
	}
	switch plan {
	case PlanPaid, PlanScratch:
		return true
	case PlanFree:
		return freeBlockTypes[t]
	}
	return false
}

// IsSettingAllowed reports whether a plan may use the named builder
// capability.
func IsSettingAllowed(plan Plan, feature string) bool {
	switch plan {
	case PlanPaid, PlanScratch:
		return true
	case PlanFree:
		return freeFeatures[feature]
	}
	return false
}

// AllowedThemeColors returns the set of theme color keys the plan may
// customize.
func AllowedThemeColors(plan Plan) map[string]bool {
	out := make(map[string]bool)
	switch plan {
	case PlanPaid, PlanScratch:
		for _, key := range design.ColorKeys {
			out[key] = true
		}
	case PlanFree:
		for _, key := range freeColorKeys {
			out[key] = true
		}
	}
	return out
}

// SettingFeature maps a block settings key to the capability that gates
// it, so the builder can validate UpdateBlockSettings generically.
// Settings with no entry (and no background-type dependence) are free to
// edit on every tier.
func SettingFeature(key string, value any) string {
	switch key {
	case "backgroundType":
		switch value {
		case design.BackgroundGradient:
			return FeatureGradientBackground
		case design.BackgroundImage:
			return FeatureImageBackground
		default:
			return FeatureSolidBackground
		}
	case "backgroundGradient":
		return FeatureGradientBackground
	case "backgroundImage", "backgroundSize", "backgroundPosition":
		return FeatureImageBackground
	case "overlayEnabled", "overlayColor", "overlayOpacity":
		return FeatureOverlay
	case "animation", "animationDelay":
		return FeatureAnimation
	case "textAlign":
		return FeatureTextAlign
	case "height":
		return FeatureHeight
	case "padding":
		return FeaturePadding
	}
	return ""
}
