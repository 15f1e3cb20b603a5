package curation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/abelbrown/bantin/internal/model"
)

type recordingActivator struct {
	calls int
	tag   string
	items []string
	err   error
}

func (r *recordingActivator) ActivateBreaking(tag string, items []string) error {
	r.calls++
	r.tag = tag
	r.items = items
	return r.err
}

func batch(n int) model.PendingSelection {
	p := model.PendingSelection{Tag: "TIN KHẨN"}
	for i := 0; i < n; i++ {
		p.Candidates = append(p.Candidates, model.Candidate{
			Headline: fmt.Sprintf("H%d", i),
			Summary:  fmt.Sprintf("S%d", i),
		})
	}
	p.Citations = []model.Citation{{URI: "https://a.vn", Title: "a.vn"}}
	return p
}

func TestConfirmPromotesSelectedSummariesInOrder(t *testing.T) {
	c := New()
	c.Open(batch(5))
	c.Toggle(3)
	c.Toggle(1)

	act := &recordingActivator{}
	if err := c.Confirm(act); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if act.calls != 1 {
		t.Fatalf("activator called %d times, want 1", act.calls)
	}
	if act.tag != "TIN KHẨN" {
		t.Errorf("tag = %q", act.tag)
	}
	if diff := cmp.Diff([]string{"S3", "S1"}, act.items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if c.HasPending() {
		t.Error("pending batch survived Confirm")
	}
}

func TestConfirmPreconditions(t *testing.T) {
	act := &recordingActivator{}

	c := New()
	if err := c.Confirm(act); !errors.Is(err, ErrNoPending) {
		t.Errorf("Confirm without batch: err = %v, want ErrNoPending", err)
	}

	c.Open(batch(3))
	if err := c.Confirm(act); !errors.Is(err, ErrNothingSelected) {
		t.Errorf("Confirm without selection: err = %v, want ErrNothingSelected", err)
	}
	if !c.HasPending() {
		t.Error("rejected Confirm cleared the batch")
	}
	if act.calls != 0 {
		t.Errorf("activator called %d times on rejected confirms", act.calls)
	}
}

func TestConfirmClearsEvenWhenActivationFails(t *testing.T) {
	c := New()
	c.Open(batch(2))
	c.SelectAll()

	act := &recordingActivator{err: errors.New("persist failed")}
	if err := c.Confirm(act); err == nil {
		t.Fatal("expected activator error")
	}
	if c.HasPending() {
		t.Error("pending batch survived failed Confirm")
	}
}

func TestToggle(t *testing.T) {
	c := New()

	// No batch: ignored
	c.Toggle(0)
	if len(c.Selected()) != 0 {
		t.Fatalf("Toggle without batch selected %v", c.Selected())
	}

	c.Open(batch(3))
	c.Toggle(2)
	c.Toggle(0)
	c.Toggle(5)
	c.Toggle(-1)
	if diff := cmp.Diff([]int{2, 0}, c.Selected()); diff != "" {
		t.Errorf("Selected() mismatch (-want +got):\n%s", diff)
	}

	c.Toggle(2)
	if c.IsSelected(2) {
		t.Error("second Toggle(2) did not deselect")
	}
	if !c.IsSelected(0) {
		t.Error("IsSelected(0) = false")
	}
}

func TestSelectAllAndNone(t *testing.T) {
	c := New()
	c.Open(batch(4))
	c.Toggle(3)
	c.SelectAll()
	if diff := cmp.Diff([]int{0, 1, 2, 3}, c.Selected()); diff != "" {
		t.Errorf("SelectAll mismatch (-want +got):\n%s", diff)
	}

	c.SelectNone()
	if len(c.Selected()) != 0 {
		t.Errorf("SelectNone left %v", c.Selected())
	}
	if !c.HasPending() {
		t.Error("SelectNone dropped the batch")
	}
}

func TestOpenReplacesBatchAndSelection(t *testing.T) {
	c := New()
	c.Open(batch(5))
	c.Toggle(4)

	next := batch(2)
	next.Tag = "BÃO"
	c.Open(next)

	if len(c.Selected()) != 0 {
		t.Errorf("selection survived Open: %v", c.Selected())
	}
	p, ok := c.Pending()
	if !ok {
		t.Fatal("Pending() = false after Open")
	}
	if p.Tag != "BÃO" || len(p.Candidates) != 2 {
		t.Errorf("Pending() = %+v", p)
	}
}

func TestCancel(t *testing.T) {
	c := New()
	c.Open(batch(2))
	c.Toggle(1)
	c.Cancel()

	if _, ok := c.Pending(); ok {
		t.Error("Pending() = true after Cancel")
	}
	if len(c.Selected()) != 0 {
		t.Error("selection survived Cancel")
	}
}

func TestOpenCopiesInput(t *testing.T) {
	p := batch(2)
	c := New()
	c.Open(p)
	p.Candidates[0].Summary = "mutated"

	got, _ := c.Pending()
	if got.Candidates[0].Summary != "S0" {
		t.Error("Open kept a reference to the caller's slice")
	}
}

func TestPendingReturnsCopy(t *testing.T) {
	c := New()
	c.Open(batch(2))

	p, _ := c.Pending()
	p.Candidates[0].Summary = "mutated"
	p.Citations[0].URI = "https://other.vn"

	c.Toggle(0)
	act := &recordingActivator{}
	if err := c.Confirm(act); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if diff := cmp.Diff([]string{"S0"}, act.items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}
