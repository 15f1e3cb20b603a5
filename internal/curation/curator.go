// Package curation holds AI-generated headlines until the operator picks
// which of them become breaking news.
package curation

import (
	"errors"
	"fmt"

	"github.com/abelbrown/bantin/internal/model"
)

var (
	ErrNoPending       = errors.New("no pending selection")
	ErrNothingSelected = errors.New("no candidates selected")
)

// Activator receives the promoted summaries. newsmode.Machine satisfies it.
type Activator interface {
	ActivateBreaking(tag string, items []string) error
}

// Curator tracks one pending batch and the operator's selection within it.
// Selection is by index into the current batch and keeps toggle order.
type Curator struct {
	pending  *model.PendingSelection
	selected []int
}

// New returns an empty curator.
func New() *Curator {
	return &Curator{}
}

// Open replaces any pending batch with p and clears the selection.
func (c *Curator) Open(p model.PendingSelection) {
	c.pending = &model.PendingSelection{
		Candidates: append([]model.Candidate(nil), p.Candidates...),
		Citations:  append([]model.Citation(nil), p.Citations...),
		Tag:        p.Tag,
	}
	c.selected = nil
}

// Pending returns a copy of the current batch, or false if there is none.
func (c *Curator) Pending() (model.PendingSelection, bool) {
	if c.pending == nil {
		return model.PendingSelection{}, false
	}
	return model.PendingSelection{
		Candidates: append([]model.Candidate(nil), c.pending.Candidates...),
		Citations:  append([]model.Citation(nil), c.pending.Citations...),
		Tag:        c.pending.Tag,
	}, true
}

// HasPending reports whether a batch awaits a decision.
func (c *Curator) HasPending() bool {
	return c.pending != nil
}

// Toggle adds or removes the candidate at index. Out-of-range indexes and
// calls without a pending batch are ignored.
func (c *Curator) Toggle(index int) {
	if c.pending == nil || index < 0 || index >= len(c.pending.Candidates) {
		return
	}
	for i, s := range c.selected {
		if s == index {
			c.selected = append(c.selected[:i:i], c.selected[i+1:]...)
			return
		}
	}
	c.selected = append(c.selected, index)
}

// SelectAll selects every candidate in batch order.
func (c *Curator) SelectAll() {
	if c.pending == nil {
		return
	}
	c.selected = make([]int, len(c.pending.Candidates))
	for i := range c.selected {
		c.selected[i] = i
	}
}

// SelectNone clears the selection.
func (c *Curator) SelectNone() {
	c.selected = nil
}

// IsSelected reports whether the candidate at index is selected.
func (c *Curator) IsSelected(index int) bool {
	for _, s := range c.selected {
		if s == index {
			return true
		}
	}
	return false
}

// Selected returns the selected indexes in selection order.
func (c *Curator) Selected() []int {
	return append([]int(nil), c.selected...)
}

// Confirm promotes the summaries of the selected candidates, in selection
// order, through a. The batch is cleared afterwards even if a fails; the
// returned error is a's.
func (c *Curator) Confirm(a Activator) error {
	if c.pending == nil {
		return ErrNoPending
	}
	if len(c.selected) == 0 {
		return ErrNothingSelected
	}

	summaries := make([]string, 0, len(c.selected))
	for _, idx := range c.selected {
		summaries = append(summaries, c.pending.Candidates[idx].Summary)
	}
	tag := c.pending.Tag

	c.Cancel()

	if err := a.ActivateBreaking(tag, summaries); err != nil {
		return fmt.Errorf("activate breaking: %w", err)
	}
	return nil
}

// Cancel drops the batch and the selection without committing anything.
func (c *Curator) Cancel() {
	c.pending = nil
	c.selected = nil
}
