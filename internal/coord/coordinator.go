// Package coord runs the ticker's background schedules: the syndicated feed
// refresh and the weather rotation. Results reach the UI only as messages.
package coord

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/bantin/internal/fetch"
	"github.com/abelbrown/bantin/internal/logging"
	"github.com/abelbrown/bantin/internal/model"
	"github.com/abelbrown/bantin/internal/otel"
	"github.com/abelbrown/bantin/internal/ui"
)

// fetchTimeout is the timeout for each individual fetch.
const fetchTimeout = 30 * time.Second

// weatherTimeout bounds one weather request.
const weatherTimeout = 10 * time.Second

// maxConcurrentFetches limits parallel fetch operations.
const maxConcurrentFetches = 5

// fetcher interface for dependency injection (testing).
type fetcher interface {
	Fetch(ctx context.Context, src fetch.Source) ([]model.FeedItem, error)
}

// weatherFetcher interface for dependency injection (testing).
type weatherFetcher interface {
	Fetch(ctx context.Context, city model.City) (*model.WeatherData, error)
}

// sender is satisfied by *tea.Program.
type sender interface {
	Send(msg tea.Msg)
}

// Options configures the schedules. Zero values use the defaults.
type Options struct {
	RefreshInterval time.Duration // default 15 minutes
	WeatherInterval time.Duration // default 5 seconds
	MaxTitles       int           // default 30

	// Events receives fetch and weather activity. Optional.
	Events *otel.Logger
}

// Coordinator manages background fetching.
// Uses context cancellation as the ONLY stop mechanism.
type Coordinator struct {
	fetcher fetcher
	weather weatherFetcher // optional: nil disables the rotation
	sources []fetch.Source // IMMUTABLE: set at construction, never modified
	cities  []model.City   // IMMUTABLE
	opts    Options
	shuffle func(n int, swap func(i, j int))

	fetching atomic.Bool
	refetch  chan struct{}
	wg       sync.WaitGroup
}

// NewCoordinator creates a Coordinator with the real fetchers.
func NewCoordinator(f *fetch.Fetcher, w weatherFetcher, sources []fetch.Source, cities []model.City, opts Options) *Coordinator {
	return NewCoordinatorWithFetcher(f, w, sources, cities, opts)
}

// NewCoordinatorWithFetcher allows injecting custom fetchers (for testing).
func NewCoordinatorWithFetcher(f fetcher, w weatherFetcher, sources []fetch.Source, cities []model.City, opts Options) *Coordinator {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 15 * time.Minute
	}
	if opts.WeatherInterval <= 0 {
		opts.WeatherInterval = 5 * time.Second
	}
	if opts.MaxTitles <= 0 {
		opts.MaxTitles = 30
	}

	return &Coordinator{
		fetcher: f,
		weather: w,
		sources: append([]fetch.Source(nil), sources...),
		cities:  append([]model.City(nil), cities...),
		opts:    opts,
		shuffle: rand.Shuffle,
		refetch: make(chan struct{}, 1),
	}
}

// Start begins background work. Call with a cancellable context.
// Fetches syndicated content immediately, then every RefreshInterval, and
// rotates the weather city every WeatherInterval.
func (c *Coordinator) Start(ctx context.Context, program sender) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.runSyndicated(ctx, program)
	}()

	if c.weather != nil && len(c.cities) > 0 {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.runWeather(ctx, program)
		}()
	}
}

// Wait blocks until all background goroutines exit.
// Call after canceling the context passed to Start.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Fetching reports whether a syndicated fetch is in flight.
func (c *Coordinator) Fetching() bool {
	return c.fetching.Load()
}

// Refetch asks for an immediate syndicated fetch. It returns false, and does
// nothing, while a fetch is already in flight.
func (c *Coordinator) Refetch() bool {
	if c.fetching.Load() {
		return false
	}
	select {
	case c.refetch <- struct{}{}:
	default:
		// already queued
	}
	return true
}

func (c *Coordinator) runSyndicated(ctx context.Context, program sender) {
	c.syndicatedCycle(ctx, program)

	ticker := time.NewTicker(c.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.syndicatedCycle(ctx, program)
		case <-c.refetch:
			c.syndicatedCycle(ctx, program)
			ticker.Reset(c.opts.RefreshInterval)
		}
	}
}

// syndicatedCycle runs one fetch and reports it as a Started/Loaded pair.
func (c *Coordinator) syndicatedCycle(ctx context.Context, program sender) {
	if !c.fetching.CompareAndSwap(false, true) {
		return
	}
	defer c.fetching.Store(false)

	send(program, ui.SyndicatedFetchStarted{})
	c.opts.Events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindFetchStart, Comp: "coord", Count: len(c.sources)})

	start := time.Now()
	titles, err := c.FetchSyndicated(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		c.opts.Events.Emit(otel.Event{Level: otel.LevelError, Kind: otel.KindFetchError, Comp: "coord", Dur: time.Since(start), Err: err.Error()})
	} else {
		c.opts.Events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindFetchComplete, Comp: "coord", Dur: time.Since(start), Count: len(titles)})
	}
	send(program, ui.SyndicatedLoaded{Titles: titles, Err: err})
}

// FetchSyndicated fetches all sources in parallel and aggregates their
// titles. Each fetch has a 30-second timeout. Partial failure is logged and
// tolerated; fetch.ErrAllSourcesFailed is returned when nothing succeeded and
// fetch.ErrNoItems when the sources answered without a single title.
func (c *Coordinator) FetchSyndicated(ctx context.Context) ([]string, error) {
	results := make([][]model.FeedItem, len(c.sources))
	errs := make([]error, len(c.sources))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)

	for i, src := range c.sources {
		g.Go(func() error {
			// Early exit if context cancelled
			if ctx.Err() != nil {
				errs[i] = ctx.Err()
				return nil
			}
			fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()

			results[i], errs[i] = c.fetcher.Fetch(fetchCtx, src)
			return nil // never fail the group - errors reported per-source
		})
	}

	_ = g.Wait()

	succeeded := 0
	for i, err := range errs {
		if err != nil {
			logging.Warn("feed fetch failed", "source", c.sources[i].Name, "error", err)
			c.opts.Events.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindFetchError, Comp: "coord", Source: c.sources[i].Name, Err: err.Error()})
			continue
		}
		succeeded++
	}
	if succeeded == 0 {
		return nil, fetch.ErrAllSourcesFailed
	}

	titles := Aggregate(results, c.opts.MaxTitles, c.shuffle)
	if len(titles) == 0 {
		logging.Warn("syndicated fetch returned no titles", "sources", len(c.sources), "succeeded", succeeded)
		return nil, fetch.ErrNoItems
	}
	logging.Info("syndicated fetch complete",
		"sources", len(c.sources),
		"succeeded", succeeded,
		"titles", len(titles))
	return titles, nil
}

// Aggregate merges per-source items into at most limit unique titles in one
// random order. Duplicates are detected by trimmed title; blank titles are
// skipped.
func Aggregate(results [][]model.FeedItem, limit int, shuffle func(n int, swap func(i, j int))) []string {
	seen := make(map[string]bool)
	var titles []string
	for _, items := range results {
		for _, item := range items {
			title := strings.TrimSpace(item.Title)
			if title == "" || seen[title] {
				continue
			}
			seen[title] = true
			titles = append(titles, title)
		}
	}

	if shuffle != nil {
		shuffle(len(titles), func(i, j int) {
			titles[i], titles[j] = titles[j], titles[i]
		})
	}
	if limit > 0 && len(titles) > limit {
		titles = titles[:limit]
	}
	return titles
}

func (c *Coordinator) runWeather(ctx context.Context, program sender) {
	var (
		tick  uint64
		index int
	)

	rotate := func() {
		tick++
		city := c.cities[index]
		send(program, ui.WeatherRotated{Tick: tick, Index: index, City: city.Name})
		c.fetchWeather(ctx, program, tick, index, city)
	}

	rotate()

	ticker := time.NewTicker(c.opts.WeatherInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			index = (index + 1) % len(c.cities)
			rotate()
		}
	}
}

// fetchWeather fetches in its own goroutine so a slow response never
// delays the next rotation.
func (c *Coordinator) fetchWeather(ctx context.Context, program sender, tick uint64, index int, city model.City) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		fetchCtx, cancel := context.WithTimeout(ctx, weatherTimeout)
		defer cancel()

		data, err := c.weather.Fetch(fetchCtx, city)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logging.Warn("weather fetch failed", "city", city.Name, "error", err)
			c.opts.Events.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindWeatherError, Comp: "coord", Source: city.Name, Err: err.Error()})
			data = nil
		} else {
			c.opts.Events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindWeatherComplete, Comp: "coord", Source: city.Name})
		}
		send(program, ui.WeatherLoaded{Tick: tick, Index: index, Data: data, Err: err})
	}()
}

// send delivers msg (handle nil program gracefully for testing)
func send(program sender, msg tea.Msg) {
	if program != nil {
		program.Send(msg)
	}
}
