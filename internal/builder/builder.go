// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package builder owns the mutable design state during an editing
// session: block add/remove/reorder/update operations, theme edits, and
// a bounded snapshot-based undo/redo history. Every mutation is gated by
// the feature-access policy for the session's plan; a rejected mutation
// changes nothing and pushes no history entry.
//
// A Controller is a plain single-threaded state machine. Concurrent
// access from HTTP handlers is serialized by Sessions (sessions.go), so
// mutations within one editing session always apply in the order issued.
package builder

import (
	"fmt"

	"invitepress/internal/design"
	"invitepress/internal/policy"
)

// HistoryLimit bounds the undo history. Snapshots beyond this are
// dropped oldest-first; the ceiling is deliberately a constant, not
// configuration.
const HistoryLimit = 30

// PolicyError is returned when a mutation requests a capability the
// session's plan does not grant. It carries a user-facing notice; the
// operation had no side effect.
type PolicyError struct {
	Plan   policy.Plan
	Denied string // block type, feature, or color that was refused
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%q is not available on the %s plan — upgrade to use it", e.Denied, e.Plan)
}

// Controller edits one design document. Create with NewController, then
// drive it with the mutation methods. Design() returns snapshots safe to
// hand to the renderer or the persistence layer.
type Controller struct {
	plan     policy.Plan
	design   design.Design
	selected string

	undo []design.Design
	redo []design.Design
}

// NewController starts an editing session over a deep copy of the given
// design, so the caller's document is untouched until Save.
func NewController(d *design.Design, plan policy.Plan) (*Controller, error) {
	snap, err := d.Clone()
	if err != nil {
		return nil, err
	}
	return &Controller{plan: plan, design: *snap}, nil
}

// Design returns a deep copy of the current document state.
func (c *Controller) Design() (*design.Design, error) {
	return c.design.Clone()
}

// SelectedBlockID returns the currently selected block id ("" if none).
func (c *Controller) SelectedBlockID() string {
	return c.selected
}

// Select marks a block as selected for editing chrome. Selecting an
// unknown id clears the selection. Selection is not a mutation: it never
// touches history.
func (c *Controller) Select(id string) {
	if id != "" && c.design.FindBlock(id) == nil {
		id = ""
	}
	c.selected = id
}

// Plan returns the plan tier this session operates under.
func (c *Controller) Plan() policy.Plan {
	return c.plan
}

// snapshot pushes the current state onto the undo stack (dropping the
// oldest entry past the limit) and clears the redo stack. Called before
// every accepted mutation.
func (c *Controller) snapshot() error {
	snap, err := c.design.Clone()
	if err != nil {
		return fmt.Errorf("history snapshot: %w", err)
	}
	c.undo = append(c.undo, *snap)
	if len(c.undo) > HistoryLimit {
		c.undo = c.undo[len(c.undo)-HistoryLimit:]
	}
	c.redo = nil
	return nil
}

// AddBlock appends a new block of the given type with its defaults and
// selects it. Rejected with a PolicyError when the plan does not include
// the block type.
func (c *Controller) AddBlock(t design.BlockType) (*design.Block, error) {
	if !policy.IsBlockTypeAllowed(c.plan, t) {
		return nil, &PolicyError{Plan: c.plan, Denied: string(t)}
	}
	if err := c.snapshot(); err != nil {
		return nil, err
	}
	block := design.NewBlock(t, len(c.design.Blocks))
	c.design.Blocks = append(c.design.Blocks, block)
	c.selected = block.ID
	return &block, nil
}

// RemoveBlock deletes a block by id. Removing the selected block clears
// the selection. Unknown ids are a no-op (no history entry).
func (c *Controller) RemoveBlock(id string) error {
	if c.design.FindBlock(id) == nil {
		return nil
	}
	if err := c.snapshot(); err != nil {
		return err
	}
	kept := c.design.Blocks[:0:0]
	for _, b := range c.design.Blocks {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	c.design.Blocks = kept
	c.renumber()
	if c.selected == id {
		c.selected = ""
	}
	return nil
}

// UpdateBlockContent merges one content key into the matching block.
// Content editing is available on every tier.
func (c *Controller) UpdateBlockContent(id, key string, value any) error {
	if !policy.IsSettingAllowed(c.plan, policy.FeatureContentEdit) {
		return &PolicyError{Plan: c.plan, Denied: policy.FeatureContentEdit}
	}
	block := c.design.FindBlock(id)
	if block == nil {
		return fmt.Errorf("block %q not found", id)
	}
	if err := c.snapshot(); err != nil {
		return err
	}
	block = c.design.FindBlock(id)
	if block.Content == nil {
		block.Content = map[string]any{}
	}
	block.Content[key] = value
	return nil
}

// UpdateBlockSettings merges one settings key into the matching block,
// gated by the capability that key belongs to.
func (c *Controller) UpdateBlockSettings(id, key string, value any) error {
	if feature := policy.SettingFeature(key, value); feature != "" {
		if !policy.IsSettingAllowed(c.plan, feature) {
			return &PolicyError{Plan: c.plan, Denied: feature}
		}
	}
	block := c.design.FindBlock(id)
	if block == nil {
		return fmt.Errorf("block %q not found", id)
	}
	// Validate against a scratch copy first: a rejected value must leave
	// the block and both history stacks untouched. Extra is copied so an
	// unmodelled key cannot write through to the live block.
	trial := block.Settings
	if len(block.Settings.Extra) > 0 {
		trial.Extra = make(map[string]any, len(block.Settings.Extra))
		for k, v := range block.Settings.Extra {
			trial.Extra[k] = v
		}
	}
	if err := applySetting(&trial, key, value); err != nil {
		return err
	}
	if err := c.snapshot(); err != nil {
		return err
	}
	block = c.design.FindBlock(id)
	block.Settings = trial
	return nil
}

// UpdateBlockStyle sets a per-block color override. Treated like theme
// colors for feature gating: free plans may not restyle blocks.
func (c *Controller) UpdateBlockStyle(id, key, value string) error {
	if !policy.IsSettingAllowed(c.plan, policy.FeatureBlockStyles) {
		return &PolicyError{Plan: c.plan, Denied: policy.FeatureBlockStyles}
	}
	block := c.design.FindBlock(id)
	if block == nil {
		return fmt.Errorf("block %q not found", id)
	}
	if err := c.snapshot(); err != nil {
		return err
	}
	block = c.design.FindBlock(id)
	if block.Styles == nil {
		block.Styles = map[string]string{}
	}
	block.Styles[key] = value
	return nil
}

// MoveDirection is the direction MoveBlock shifts a block.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// MoveBlock swaps a block with its neighbor in the order-sorted
// sequence, then renumbers every block to a dense 0..n-1 order. Moving
// past either end is a no-op (no history entry).
func (c *Controller) MoveBlock(id string, dir MoveDirection) error {
	sorted := c.design.SortedBlocks()
	idx := -1
	for i, b := range sorted {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("block %q not found", id)
	}

	swap := idx - 1
	if dir == MoveDown {
		swap = idx + 1
	}
	if swap < 0 || swap >= len(sorted) {
		return nil
	}

	if err := c.snapshot(); err != nil {
		return err
	}
	sorted[idx], sorted[swap] = sorted[swap], sorted[idx]
	for i := range sorted {
		if b := c.design.FindBlock(sorted[i].ID); b != nil {
			b.Order = i
		}
	}
	return nil
}

// UpdateTheme sets a theme value at a dot-path ("colors.primary",
// "fonts.body", "borderRadius"). Color paths are clamped to the plan's
// allowed color set; font paths require the fonts capability.
func (c *Controller) UpdateTheme(path, value string) error {
	if design.IsColorPath(path) {
		if !policy.AllowedThemeColors(c.plan)[design.ColorPathKey(path)] {
			return &PolicyError{Plan: c.plan, Denied: path}
		}
	} else if _, isFont := fontPath(path); isFont {
		if !policy.IsSettingAllowed(c.plan, policy.FeatureFonts) {
			return &PolicyError{Plan: c.plan, Denied: policy.FeatureFonts}
		}
	}
	// Theme is plain value data, so an unknown path can be rejected on a
	// copy before any history entry exists.
	trial := c.design.Theme
	if err := trial.SetPath(path, value); err != nil {
		return err
	}
	if err := c.snapshot(); err != nil {
		return err
	}
	c.design.Theme = trial
	return nil
}

// Undo steps back one history entry. Returns false when there is
// nothing to undo. History replay is trusted — no policy re-validation,
// since every snapshot was validated when it was created.
func (c *Controller) Undo() bool {
	if len(c.undo) == 0 {
		return false
	}
	current, err := c.design.Clone()
	if err != nil {
		return false
	}
	c.redo = append(c.redo, *current)
	c.design = c.undo[len(c.undo)-1]
	c.undo = c.undo[:len(c.undo)-1]
	c.reselect()
	return true
}

// Redo reapplies the most recently undone state. Returns false when the
// redo stack is empty.
func (c *Controller) Redo() bool {
	if len(c.redo) == 0 {
		return false
	}
	current, err := c.design.Clone()
	if err != nil {
		return false
	}
	c.undo = append(c.undo, *current)
	c.design = c.redo[len(c.redo)-1]
	c.redo = c.redo[:len(c.redo)-1]
	c.reselect()
	return true
}

// UndoDepth reports how many states can currently be undone.
func (c *Controller) UndoDepth() int { return len(c.undo) }

// RedoDepth reports how many states can currently be redone.
func (c *Controller) RedoDepth() int { return len(c.redo) }

// reselect drops the selection if the selected block no longer exists in
// the restored state.
func (c *Controller) reselect() {
	if c.selected != "" && c.design.FindBlock(c.selected) == nil {
		c.selected = ""
	}
}

// renumber rewrites Order fields to the dense 0..n-1 sequence implied by
// the current sorted order.
func (c *Controller) renumber() {
	sorted := c.design.SortedBlocks()
	for i := range sorted {
		if b := c.design.FindBlock(sorted[i].ID); b != nil {
			b.Order = i
		}
	}
}

// fontPath reports whether a dot-path targets a theme font.
func fontPath(path string) (string, bool) {
	for _, key := range design.FontKeys {
		if path == "fonts."+key {
			return key, true
		}
	}
	return "", false
}

// applySetting writes one settings key into a Settings struct, keeping
// unknown keys in Extra so newer clients can still edit them.
func applySetting(s *design.Settings, key string, value any) error {
	str := func() (string, error) {
		v, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("setting %q: expected string, got %T", key, value)
		}
		return v, nil
	}
	num := func() (float64, error) {
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		}
		return 0, fmt.Errorf("setting %q: expected number, got %T", key, value)
	}

	switch key {
	case "backgroundType":
		v, err := str()
		if err != nil {
			return err
		}
		switch v {
		case design.BackgroundSolid, design.BackgroundGradient, design.BackgroundImage:
			s.BackgroundType = v
		default:
			return fmt.Errorf("setting %q: unknown background type %q", key, v)
		}
	case "backgroundColor":
		v, err := str()
		if err != nil {
			return err
		}
		s.BackgroundColor = v
	case "backgroundImage":
		v, err := str()
		if err != nil {
			return err
		}
		s.BackgroundImage = v
	case "backgroundGradient":
		v, err := str()
		if err != nil {
			return err
		}
		s.BackgroundGradient = v
	case "backgroundSize":
		v, err := str()
		if err != nil {
			return err
		}
		s.BackgroundSize = v
	case "backgroundPosition":
		v, err := str()
		if err != nil {
			return err
		}
		s.BackgroundPosition = v
	case "overlayEnabled":
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("setting %q: expected bool, got %T", key, value)
		}
		s.OverlayEnabled = v
	case "overlayColor":
		v, err := str()
		if err != nil {
			return err
		}
		s.OverlayColor = v
	case "overlayOpacity":
		v, err := num()
		if err != nil {
			return err
		}
		s.OverlayOpacity = v
	case "height":
		v, err := str()
		if err != nil {
			return err
		}
		s.Height = v
	case "padding":
		v, err := str()
		if err != nil {
			return err
		}
		s.Padding = v
	case "textAlign":
		v, err := str()
		if err != nil {
			return err
		}
		s.TextAlign = v
	case "animation":
		v, err := str()
		if err != nil {
			return err
		}
		s.Animation = v
	case "animationDelay":
		v, err := num()
		if err != nil {
			return err
		}
		s.AnimationDelay = v
	default:
		if s.Extra == nil {
			s.Extra = map[string]any{}
		}
		s.Extra[key] = value
	}
	return nil
}
