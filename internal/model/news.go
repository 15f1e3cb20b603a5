// Package model defines the data types shared across the ticker pipeline.
//
// Types here carry no behavior beyond small helpers. Ownership rules live with
// the packages that mutate them: the news mode and breaking payload belong to
// newsmode, pending selections to curation.
package model

import "strings"

// NewsMode identifies which content stream the ticker renders.
type NewsMode string

const (
	ModeSyndicated NewsMode = "syndicated"
	ModeCustom     NewsMode = "custom"
	ModeBreaking   NewsMode = "breaking"
)

// ParseNewsMode converts a persisted value to a NewsMode.
// Unknown or malformed values fall back to ModeSyndicated.
func ParseNewsMode(s string) NewsMode {
	switch NewsMode(strings.TrimSpace(s)) {
	case ModeCustom:
		return ModeCustom
	case ModeBreaking:
		return ModeBreaking
	default:
		return ModeSyndicated
	}
}

// Valid reports whether m is one of the three known modes.
func (m NewsMode) Valid() bool {
	return m == ModeSyndicated || m == ModeCustom || m == ModeBreaking
}

// FeedItem is a raw item returned by a syndicated source.
type FeedItem struct {
	Title       string
	Description string
}

// BreakingPayload is the active emergency-alert label and its messages.
type BreakingPayload struct {
	Tag   string   `json:"tag"`
	Items []string `json:"items"`
}

// Clone returns a deep copy so callers cannot mutate the owner's slice.
func (b BreakingPayload) Clone() BreakingPayload {
	items := make([]string, len(b.Items))
	copy(items, b.Items)
	return BreakingPayload{Tag: b.Tag, Items: items}
}

// Candidate is one AI-suggested headline with its summary.
type Candidate struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
}

// Citation is a grounding source returned alongside a generated answer.
// URI is the deduplication key.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// PendingSelection is an AI result set awaiting operator curation.
type PendingSelection struct {
	Candidates []Candidate
	Citations  []Citation
	Tag        string
}
