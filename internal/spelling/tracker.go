package spelling

import "strings"

// Tracker owns the topic input text and its suggestion. Every edit bumps a
// sequence number; a check result is applied only if it carries the latest
// sequence and the exact text it was computed for.
//
// Not safe for concurrent use.
type Tracker struct {
	text       string
	seq        uint64
	suggestion string
}

// Text returns the current input text.
func (t *Tracker) Text() string {
	return t.text
}

// Seq returns the sequence of the latest edit.
func (t *Tracker) Seq() uint64 {
	return t.seq
}

// Edit records new input and invalidates any suggestion or in-flight check.
// It returns the sequence to schedule the next check with.
func (t *Tracker) Edit(text string) uint64 {
	t.seq++
	t.text = text
	t.suggestion = ""
	return t.seq
}

// Due reports whether a check scheduled at seq should fire now: no edit has
// happened since and there is text to check.
func (t *Tracker) Due(seq uint64) bool {
	return seq == t.seq && strings.TrimSpace(t.text) != ""
}

// Resolve applies a finished check. Results for an older sequence or for
// text other than the current input are dropped. It reports whether the
// result was applied.
func (t *Tracker) Resolve(seq uint64, text, suggestion string, ok bool) bool {
	if seq != t.seq || text != t.text {
		return false
	}
	if ok {
		t.suggestion = suggestion
	} else {
		t.suggestion = ""
	}
	return true
}

// Suggestion returns the correction for the current text, if any.
func (t *Tracker) Suggestion() (string, bool) {
	return t.suggestion, t.suggestion != ""
}

// Accept replaces the input with the suggestion. It reports false when there
// was nothing to accept.
func (t *Tracker) Accept() bool {
	if t.suggestion == "" {
		return false
	}
	s := t.suggestion
	t.Edit(s)
	return true
}

// Clear drops the suggestion but keeps the text. Checks still in flight
// are invalidated so a dismissed suggestion cannot come back.
func (t *Tracker) Clear() {
	t.seq++
	t.suggestion = ""
}

// Reset empties the input.
func (t *Tracker) Reset() {
	t.Edit("")
}
