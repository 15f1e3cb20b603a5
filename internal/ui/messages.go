// Package ui provides the Bubble Tea TUI for the ticker.
package ui

import (
	"time"

	"github.com/abelbrown/bantin/internal/headlines"
	"github.com/abelbrown/bantin/internal/model"
)

// SyndicatedFetchStarted is sent when a syndicated fetch cycle begins.
// The current titles are dropped so the ticker shows the loading placeholder.
type SyndicatedFetchStarted struct{}

// SyndicatedLoaded is sent when a syndicated fetch cycle finishes.
// Err is set only when every source failed.
type SyndicatedLoaded struct {
	Titles []string
	Err    error
}

// WeatherRotated is sent when the weather bar advances to the next city.
type WeatherRotated struct {
	Tick  uint64
	Index int
	City  string
}

// WeatherLoaded is sent when the fetch started by a rotation finishes.
// Only the result whose Tick matches the latest rotation is shown.
type WeatherLoaded struct {
	Tick  uint64
	Index int
	Data  *model.WeatherData
	Err   error
}

// HeadlinesGenerated is sent when a generation request finishes.
type HeadlinesGenerated struct {
	Seq    uint64
	Tag    string
	Result headlines.Result
	Err    error
}

// SpellTick fires after the quiet period following an edit.
type SpellTick struct {
	Seq uint64
}

// SpellChecked is sent when a spelling check finishes.
type SpellChecked struct {
	Seq        uint64
	Text       string
	Suggestion string
	OK         bool
}

// FrameTick advances the marquee and the weather slide.
type FrameTick time.Time

// ClockTick refreshes the clock.
type ClockTick time.Time
