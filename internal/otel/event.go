// Package otel records pipeline activity as structured events.
//
// Events are serialized as JSONL lines. The Logger writes events
// asynchronously via a buffered channel and background drain goroutine.
// An optional RingBuffer keeps recent events in memory for the activity tab.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Syndicated feeds
	KindFetchStart    EventKind = "fetch.start"
	KindFetchComplete EventKind = "fetch.complete"
	KindFetchError    EventKind = "fetch.error"

	// Weather rotation
	KindWeatherComplete EventKind = "weather.complete"
	KindWeatherError    EventKind = "weather.error"

	// AI headlines and spelling
	KindGenerateStart    EventKind = "headlines.start"
	KindGenerateComplete EventKind = "headlines.complete"
	KindGenerateError    EventKind = "headlines.error"
	KindSpellSuggest     EventKind = "spell.suggest"

	// System events
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
)

// Event is one activity record. Every field except Kind and Time is
// optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time     `json:"t"`
	Level     Level         `json:"level,omitempty"`
	Kind      EventKind     `json:"kind"`
	Comp      string        `json:"comp,omitempty"`       // component: "coord", "main"
	SessionID string        `json:"session_id,omitempty"` // same for the entire run
	RequestID string        `json:"rid,omitempty"`        // generation correlation ID
	Dur       time.Duration `json:"-"`                    // not serialized directly
	DurMs     float64       `json:"dur_ms,omitempty"`     // computed from Dur at marshal time
	Count     int           `json:"count,omitempty"`
	Source    string        `json:"source,omitempty"` // feed or city name
	Err       string        `json:"err,omitempty"`
	Msg       string        `json:"msg,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	a := struct {
		Alias
	}{Alias: Alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
