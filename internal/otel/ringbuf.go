package otel

import (
	"sync"
	"time"
)

// DefaultRingSize is how many recent events the activity tab can list.
const DefaultRingSize = 256

// RingBuffer keeps the most recent events for the activity tab, plus
// per-kind counters that cover the whole session, not just what is still
// buffered. Goroutine-safe: the logger's drain pushes while the UI reads.
type RingBuffer struct {
	mu     sync.Mutex
	events []Event // oldest first, len <= size
	size   int
	counts map[EventKind]int

	feedErrors   int // per-source fetch.error
	failedCycles int // fetch.error without a source
	lastFetch    Event
}

// NewRingBuffer creates a buffer holding at most size events.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{
		events: make([]Event, 0, size),
		size:   size,
		counts: make(map[EventKind]int),
	}
}

// Push records e, dropping the oldest buffered event when full.
// A nil buffer ignores the event.
func (r *RingBuffer) Push(e Event) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.events) == r.size {
		copy(r.events, r.events[1:])
		r.events[len(r.events)-1] = e
	} else {
		r.events = append(r.events, e)
	}

	r.counts[e.Kind]++
	switch {
	case e.Kind == KindFetchComplete:
		r.lastFetch = e
	case e.Kind == KindFetchError && e.Source != "":
		r.feedErrors++
	case e.Kind == KindFetchError:
		r.failedCycles++
	}
}

// Recent returns up to n buffered events, newest first.
func (r *RingBuffer) Recent(n int) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n > len(r.events) {
		n = len(r.events)
	}
	if n <= 0 {
		return nil
	}
	out := make([]Event, n)
	for i := range out {
		out[i] = r.events[len(r.events)-1-i]
	}
	return out
}

// LastOf returns the most recent buffered event of kind.
func (r *RingBuffer) LastOf(kind EventKind) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == kind {
			return r.events[i], true
		}
	}
	return Event{}, false
}

// Summary is the counter block at the top of the activity tab.
type Summary struct {
	FetchCycles  int // completed syndicated fetches
	FailedCycles int // fetches where no title came back
	FeedErrors   int // individual feeds that failed

	WeatherUpdates int
	WeatherErrors  int

	Generations      int
	GenerationsDone  int
	GenerationErrors int
	Suggestions      int

	LastFetch      time.Time // zero until a fetch completes
	LastFetchCount int
}

// Summary totals the session's activity.
func (r *RingBuffer) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Summary{
		FetchCycles:      r.counts[KindFetchComplete],
		FailedCycles:     r.failedCycles,
		FeedErrors:       r.feedErrors,
		WeatherUpdates:   r.counts[KindWeatherComplete],
		WeatherErrors:    r.counts[KindWeatherError],
		Generations:      r.counts[KindGenerateStart],
		GenerationsDone:  r.counts[KindGenerateComplete],
		GenerationErrors: r.counts[KindGenerateError],
		Suggestions:      r.counts[KindSpellSuggest],
		LastFetch:        r.lastFetch.Time,
		LastFetchCount:   r.lastFetch.Count,
	}
}
