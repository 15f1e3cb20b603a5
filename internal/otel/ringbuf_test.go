package otel

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// cycle pushes what one syndicated refresh with a failing feed produces.
func cycle(r *RingBuffer, at time.Time, titles int) {
	r.Push(Event{Time: at, Kind: KindFetchStart, Count: 3})
	r.Push(Event{Time: at, Kind: KindFetchError, Level: LevelWarn, Source: "Tuổi Trẻ", Err: "503"})
	r.Push(Event{Time: at.Add(2 * time.Second), Kind: KindFetchComplete, Count: titles})
}

func TestSummaryCountsTickerActivity(t *testing.T) {
	r := NewRingBuffer(32)
	t0 := time.Date(2025, 9, 2, 7, 0, 0, 0, time.UTC)

	cycle(r, t0, 30)
	r.Push(Event{Time: t0.Add(5 * time.Minute), Kind: KindFetchStart})
	r.Push(Event{Time: t0.Add(5 * time.Minute), Kind: KindFetchError, Level: LevelError, Err: "no items from any source"})
	cycle(r, t0.Add(15*time.Minute), 27)

	r.Push(Event{Kind: KindWeatherComplete, Source: "Hà Nội"})
	r.Push(Event{Kind: KindWeatherComplete, Source: "Huế"})
	r.Push(Event{Kind: KindWeatherError, Source: "Cần Thơ", Err: "timeout"})

	r.Push(Event{Kind: KindGenerateStart, Msg: "bão số 3"})
	r.Push(Event{Kind: KindGenerateComplete, Count: 31})
	r.Push(Event{Kind: KindGenerateStart, Msg: "giá vàng"})
	r.Push(Event{Kind: KindGenerateError, Err: "quota"})
	r.Push(Event{Kind: KindSpellSuggest, Msg: "Hà Nội"})

	want := Summary{
		FetchCycles:      2,
		FailedCycles:     1,
		FeedErrors:       2,
		WeatherUpdates:   2,
		WeatherErrors:    1,
		Generations:      2,
		GenerationsDone:  1,
		GenerationErrors: 1,
		Suggestions:      1,
		LastFetch:        t0.Add(15*time.Minute + 2*time.Second),
		LastFetchCount:   27,
	}
	if diff := cmp.Diff(want, r.Summary()); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryOutlivesEviction(t *testing.T) {
	r := NewRingBuffer(4)
	t0 := time.Now()
	cycle(r, t0, 30)
	for i := 0; i < 10; i++ {
		r.Push(Event{Kind: KindWeatherComplete, Source: "Đà Nẵng"})
	}

	if _, ok := r.LastOf(KindFetchComplete); ok {
		t.Fatal("fetch.complete should have been evicted from a 4-slot ring")
	}
	sum := r.Summary()
	if sum.FetchCycles != 1 || sum.FeedErrors != 1 || sum.WeatherUpdates != 10 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.LastFetchCount != 30 || !sum.LastFetch.Equal(t0.Add(2*time.Second)) {
		t.Errorf("last fetch = %v / %d", sum.LastFetch, sum.LastFetchCount)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	r := NewRingBuffer(3)
	for _, city := range []string{"Hà Nội", "Huế", "Đà Nẵng", "TP.HCM", "Cần Thơ"} {
		r.Push(Event{Kind: KindWeatherComplete, Source: city})
	}

	var got []string
	for _, e := range r.Recent(10) {
		got = append(got, e.Source)
	}
	if diff := cmp.Diff([]string{"Cần Thơ", "TP.HCM", "Đà Nẵng"}, got); diff != "" {
		t.Errorf("recent mismatch (-want +got):\n%s", diff)
	}
	if n := len(r.Recent(2)); n != 2 {
		t.Errorf("Recent(2) returned %d events", n)
	}
	if r.Recent(0) != nil || r.Recent(-1) != nil {
		t.Error("non-positive n returned events")
	}
}

func TestLastOf(t *testing.T) {
	r := NewRingBuffer(8)
	if _, ok := r.LastOf(KindGenerateError); ok {
		t.Error("LastOf on empty ring reported an event")
	}

	r.Push(Event{Kind: KindGenerateError, Err: "first"})
	r.Push(Event{Kind: KindGenerateStart})
	r.Push(Event{Kind: KindGenerateError, Err: "second"})
	r.Push(Event{Kind: KindWeatherComplete})

	e, ok := r.LastOf(KindGenerateError)
	if !ok || e.Err != "second" {
		t.Errorf("LastOf = %+v, %v", e, ok)
	}
}

func TestDefaultRingSize(t *testing.T) {
	r := NewRingBuffer(0)
	for i := 0; i < DefaultRingSize+5; i++ {
		r.Push(Event{Kind: KindWeatherComplete})
	}
	if n := len(r.Recent(DefaultRingSize * 2)); n != DefaultRingSize {
		t.Errorf("buffered %d events, want %d", n, DefaultRingSize)
	}
}

func TestNilRingPush(t *testing.T) {
	var r *RingBuffer
	r.Push(Event{Kind: KindFetchStart}) // must not panic
}

func TestRingConcurrentUse(t *testing.T) {
	r := NewRingBuffer(16)
	var wg sync.WaitGroup

	// coordinator goroutines push while the UI renders
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Push(Event{Kind: KindWeatherComplete})
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			_ = r.Summary()
			_ = r.Recent(5)
		}
	}()
	wg.Wait()

	if got := r.Summary().WeatherUpdates; got != 400 {
		t.Errorf("WeatherUpdates = %d, want 400", got)
	}
}
