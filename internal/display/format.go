// Package display turns the active content stream into the single string the
// ticker scrolls.
package display

import (
	"strings"

	"github.com/abelbrown/bantin/internal/model"
)

// LoadingPlaceholder is shown while the active list is empty.
const LoadingPlaceholder = "Đang tải tin tức..."

// Separator sits between items: a bullet padded with 12 non-breaking spaces
// on each side so the gap survives whitespace collapsing.
var Separator = strings.Repeat(" ", 12) + "•" + strings.Repeat(" ", 12)

// Format renders the content of mode as one ticker string.
//
// In syndicated mode a non-empty syndicatedErr is returned verbatim and wins
// over any titles. The other modes ignore it.
func Format(mode model.NewsMode, syndicated, custom, breaking []string, syndicatedErr string) string {
	var items []string
	switch mode {
	case model.ModeCustom:
		items = custom
	case model.ModeBreaking:
		items = breaking
	default:
		if syndicatedErr != "" {
			return syndicatedErr
		}
		items = syndicated
	}

	if len(items) == 0 {
		return LoadingPlaceholder
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, clean(item))
	}
	return strings.Join(parts, Separator)
}

func clean(item string) string {
	item = strings.TrimSpace(item)
	return strings.TrimSuffix(item, ".")
}
