package builder

import (
	"errors"
	"testing"

	"invitepress/internal/design"
	"invitepress/internal/policy"
)

func newTestController(t *testing.T, plan policy.Plan) *Controller {
	t.Helper()
	c, err := NewController(&design.Design{Theme: design.DefaultTheme()}, plan)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c
}

func mustAdd(t *testing.T, c *Controller, bt design.BlockType) *design.Block {
	t.Helper()
	b, err := c.AddBlock(bt)
	if err != nil {
		t.Fatalf("AddBlock(%s): %v", bt, err)
	}
	return b
}

func orderSequence(t *testing.T, c *Controller) []string {
	t.Helper()
	d, err := c.Design()
	if err != nil {
		t.Fatalf("Design(): %v", err)
	}

	// Order values must be exactly {0..n-1} with no duplicates.
	seen := make(map[int]bool)
	for _, b := range d.Blocks {
		if b.Order < 0 || b.Order >= len(d.Blocks) {
			t.Errorf("block %s has out-of-range order %d", b.ID, b.Order)
		}
		if seen[b.Order] {
			t.Errorf("duplicate order value %d", b.Order)
		}
		seen[b.Order] = true
	}

	sorted := d.SortedBlocks()
	ids := make([]string, len(sorted))
	for i, b := range sorted {
		ids[i] = b.ID
	}
	return ids
}

func TestAddBlockAppendsAndSelects(t *testing.T) {
	c := newTestController(t, policy.PlanPaid)

	hero := mustAdd(t, c, design.BlockHero)
	gallery := mustAdd(t, c, design.BlockGallery)

	if hero.Order != 0 || gallery.Order != 1 {
		t.Errorf("orders = %d,%d, want 0,1", hero.Order, gallery.Order)
	}
	if c.SelectedBlockID() != gallery.ID {
		t.Error("newly added block is not selected")
	}

	d, _ := c.Design()
	if len(d.Blocks) != 2 {
		t.Fatalf("design has %d blocks, want 2", len(d.Blocks))
	}
	if d.Blocks[1].Content == nil {
		t.Error("added block missing default content")
	}
}

func TestAddBlockPolicyRejection(t *testing.T) {
	c := newTestController(t, policy.PlanFree)
	mustAdd(t, c, design.BlockHero)
	depthBefore := c.UndoDepth()

	_, err := c.AddBlock(design.BlockGallery)

	var pe *PolicyError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *PolicyError", err)
	}
	if pe.Error() == "" {
		t.Error("policy error has no user-facing message")
	}

	d, _ := c.Design()
	if len(d.Blocks) != 1 {
		t.Errorf("rejected AddBlock changed the design: %d blocks", len(d.Blocks))
	}
	if c.UndoDepth() != depthBefore {
		t.Error("rejected AddBlock pushed a history entry")
	}
}

func TestRemoveBlock(t *testing.T) {
	c := newTestController(t, policy.PlanPaid)
	hero := mustAdd(t, c, design.BlockHero)
	msg := mustAdd(t, c, design.BlockMessage)
	footer := mustAdd(t, c, design.BlockFooter)

	c.Select(msg.ID)
	if err := c.RemoveBlock(msg.ID); err != nil {
		t.Fatalf("RemoveBlock: %v", err)
	}

	if c.SelectedBlockID() != "" {
		t.Error("removing the selected block must clear selection")
	}
	ids := orderSequence(t, c)
	if len(ids) != 2 || ids[0] != hero.ID || ids[1] != footer.ID {
		t.Errorf("remaining order = %v", ids)
	}

	// Removing a nonexistent id is a quiet no-op with no history entry.
	depth := c.UndoDepth()
	if err := c.RemoveBlock("ghost"); err != nil {
		t.Fatalf("RemoveBlock(ghost): %v", err)
	}
	if c.UndoDepth() != depth {
		t.Error("no-op remove pushed history")
	}
}

func TestMoveBlockInvariants(t *testing.T) {
	c := newTestController(t, policy.PlanPaid)
	a := mustAdd(t, c, design.BlockHero)
	b := mustAdd(t, c, design.BlockMessage)
	d := mustAdd(t, c, design.BlockFooter)

	if err := c.MoveBlock(d.ID, MoveUp); err != nil {
		t.Fatalf("MoveBlock: %v", err)
	}
	ids := orderSequence(t, c)
	want := []string{a.ID, d.ID, b.ID}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("after move up: order = %v, want %v", ids, want)
		}
	}

	// Moving the first block up is a no-op, end of list likewise.
	depth := c.UndoDepth()
	if err := c.MoveBlock(a.ID, MoveUp); err != nil {
		t.Fatalf("MoveBlock at top: %v", err)
	}
	if c.UndoDepth() != depth {
		t.Error("no-op move pushed history")
	}
	if err := c.MoveBlock(b.ID, MoveDown); err != nil {
		t.Fatalf("MoveBlock at bottom: %v", err)
	}
	if c.UndoDepth() != depth {
		t.Error("no-op move at end pushed history")
	}
}

func TestUpdateBlockContent(t *testing.T) {
	c := newTestController(t, policy.PlanFree)
	hero := mustAdd(t, c, design.BlockHero)

	if err := c.UpdateBlockContent(hero.ID, "title", "Solstice Dinner"); err != nil {
		t.Fatalf("UpdateBlockContent: %v", err)
	}
	d, _ := c.Design()
	if d.FindBlock(hero.ID).Content["title"] != "Solstice Dinner" {
		t.Error("content update not applied")
	}

	if err := c.UpdateBlockContent("ghost", "title", "x"); err == nil {
		t.Error("updating a missing block must fail")
	}
}

func TestUpdateBlockSettingsGating(t *testing.T) {
	c := newTestController(t, policy.PlanFree)
	hero := mustAdd(t, c, design.BlockHero)

	// Free plan: solid color edits allowed.
	if err := c.UpdateBlockSettings(hero.ID, "backgroundColor", "#fafafa"); err != nil {
		t.Fatalf("solid background edit rejected on free plan: %v", err)
	}

	// Gradient backgrounds are paid-only.
	err := c.UpdateBlockSettings(hero.ID, "backgroundType", design.BackgroundGradient)
	var pe *PolicyError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *PolicyError", err)
	}
	d, _ := c.Design()
	if d.FindBlock(hero.ID).Settings.BackgroundType == design.BackgroundGradient {
		t.Error("rejected settings update was applied")
	}

	// Same edit on a paid plan goes through.
	p := newTestController(t, policy.PlanPaid)
	ph := mustAdd(t, p, design.BlockHero)
	if err := p.UpdateBlockSettings(ph.ID, "backgroundType", design.BackgroundGradient); err != nil {
		t.Fatalf("gradient edit rejected on paid plan: %v", err)
	}
}

func TestUpdateBlockSettingsInvalidValue(t *testing.T) {
	c := newTestController(t, policy.PlanPaid)
	hero := mustAdd(t, c, design.BlockHero)
	depth := c.UndoDepth()

	if err := c.UpdateBlockSettings(hero.ID, "backgroundType", "plaid"); err == nil {
		t.Fatal("unknown background type accepted")
	}
	if c.UndoDepth() != depth {
		t.Error("failed settings update left a history entry")
	}
}

func TestRejectedMutationKeepsRedoStack(t *testing.T) {
	c := newTestController(t, policy.PlanPaid)
	hero := mustAdd(t, c, design.BlockHero)
	if err := c.UpdateBlockContent(hero.ID, "title", "Second"); err != nil {
		t.Fatalf("content edit: %v", err)
	}

	if !c.Undo() {
		t.Fatal("undo failed")
	}
	if c.RedoDepth() != 1 {
		t.Fatalf("redo depth after undo: got %d, want 1", c.RedoDepth())
	}

	// A malformed value and an unknown theme path are both rejected
	// without touching either history stack.
	if err := c.UpdateBlockSettings(hero.ID, "backgroundType", 42); err == nil {
		t.Fatal("non-string background type accepted")
	}
	if err := c.UpdateTheme("colors.plaid", "#303030"); err == nil {
		t.Fatal("unknown theme path accepted")
	}
	if c.RedoDepth() != 1 {
		t.Fatalf("redo depth after rejected mutations: got %d, want 1", c.RedoDepth())
	}

	if !c.Redo() {
		t.Fatal("redo failed")
	}
	d, _ := c.Design()
	if got := d.FindBlock(hero.ID).Content["title"]; got != "Second" {
		t.Errorf("redo did not restore content: got %v", got)
	}
}

func TestUpdateBlockStyleGating(t *testing.T) {
	free := newTestController(t, policy.PlanFree)
	fb := mustAdd(t, free, design.BlockHero)
	var pe *PolicyError
	if err := free.UpdateBlockStyle(fb.ID, "titleColor", "#ff0000"); !errors.As(err, &pe) {
		t.Errorf("free-plan block style edit: err = %v, want *PolicyError", err)
	}

	paid := newTestController(t, policy.PlanPaid)
	pb := mustAdd(t, paid, design.BlockHero)
	if err := paid.UpdateBlockStyle(pb.ID, "titleColor", "#ff0000"); err != nil {
		t.Fatalf("paid-plan block style edit: %v", err)
	}
	d, _ := paid.Design()
	if d.FindBlock(pb.ID).Styles["titleColor"] != "#ff0000" {
		t.Error("style not applied")
	}
}

func TestUpdateThemeColorClamping(t *testing.T) {
	c := newTestController(t, policy.PlanFree)

	// primary is in the free color set.
	if err := c.UpdateTheme("colors.primary", "#101010"); err != nil {
		t.Fatalf("free primary edit: %v", err)
	}
	// secondary is not.
	var pe *PolicyError
	if err := c.UpdateTheme("colors.secondary", "#202020"); !errors.As(err, &pe) {
		t.Errorf("free secondary edit: err = %v, want *PolicyError", err)
	}
	// fonts need the fonts capability.
	if err := c.UpdateTheme("fonts.body", "Lora, serif"); !errors.As(err, &pe) {
		t.Errorf("free font edit: err = %v, want *PolicyError", err)
	}

	d, _ := c.Design()
	if d.Theme.Colors.Primary != "#101010" {
		t.Error("allowed theme edit not applied")
	}
	if d.Theme.Colors.Secondary == "#202020" {
		t.Error("clamped theme edit was applied")
	}
}

func TestUndoRedo(t *testing.T) {
	c := newTestController(t, policy.PlanPaid)
	hero := mustAdd(t, c, design.BlockHero)
	if err := c.UpdateBlockContent(hero.ID, "title", "v2"); err != nil {
		t.Fatal(err)
	}

	if !c.Undo() {
		t.Fatal("Undo returned false with history available")
	}
	d, _ := c.Design()
	if d.FindBlock(hero.ID).Content["title"] == "v2" {
		t.Error("undo did not restore prior content")
	}

	if !c.Redo() {
		t.Fatal("Redo returned false after undo")
	}
	d, _ = c.Design()
	if d.FindBlock(hero.ID).Content["title"] != "v2" {
		t.Error("redo did not reapply the change")
	}

	// A fresh mutation clears the redo stack.
	c.Undo()
	if err := c.UpdateBlockContent(hero.ID, "title", "v3"); err != nil {
		t.Fatal(err)
	}
	if c.Redo() {
		t.Error("redo succeeded after a new mutation")
	}
}

func TestUndoBoundedAtThirty(t *testing.T) {
	c := newTestController(t, policy.PlanPaid)
	hero := mustAdd(t, c, design.BlockHero)

	// 39 more mutations on top of the add: 40 total.
	for i := 0; i < 39; i++ {
		if err := c.UpdateBlockContent(hero.ID, "title", i); err != nil {
			t.Fatal(err)
		}
	}

	if c.UndoDepth() != HistoryLimit {
		t.Fatalf("undo depth = %d, want %d", c.UndoDepth(), HistoryLimit)
	}

	steps := 0
	for c.Undo() {
		steps++
	}
	if steps != HistoryLimit {
		t.Errorf("undid %d steps, want exactly %d", steps, HistoryLimit)
	}

	// The oldest states are unrecoverable: after exhausting the stack
	// the hero block still exists (its creation fell off the history).
	d, _ := c.Design()
	if d.FindBlock(hero.ID) == nil {
		t.Error("undo walked past the history bound")
	}
}

func TestUndoEmptyAndRedoEmpty(t *testing.T) {
	c := newTestController(t, policy.PlanPaid)
	if c.Undo() {
		t.Error("Undo on fresh controller returned true")
	}
	if c.Redo() {
		t.Error("Redo on fresh controller returned true")
	}
}

func TestControllerClonesInputDesign(t *testing.T) {
	src := &design.Design{
		Blocks: []design.Block{{ID: "a", Type: design.BlockHero, Order: 0, Content: map[string]any{"title": "keep"}}},
		Theme:  design.DefaultTheme(),
	}
	c, err := NewController(src, policy.PlanPaid)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.UpdateBlockContent("a", "title", "edited"); err != nil {
		t.Fatal(err)
	}
	if src.Blocks[0].Content["title"] != "keep" {
		t.Error("controller edits leaked into the caller's design")
	}
}

func TestSelect(t *testing.T) {
	c := newTestController(t, policy.PlanPaid)
	hero := mustAdd(t, c, design.BlockHero)

	c.Select("ghost")
	if c.SelectedBlockID() != "" {
		t.Error("selecting an unknown id must clear selection")
	}
	c.Select(hero.ID)
	if c.SelectedBlockID() != hero.ID {
		t.Error("selection not applied")
	}
}
