// Package app holds the ticker's application state and every operation that
// may change it.
//
// Controller is the one place state is mutated. Renderers read immutable
// State snapshots and call the named operations; async work reports back
// through Complete*/Resolve* methods that drop stale results by sequence.
//
// Controller is not safe for concurrent use. It is driven from the Bubble Tea
// update loop.
package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abelbrown/bantin/internal/curation"
	"github.com/abelbrown/bantin/internal/display"
	"github.com/abelbrown/bantin/internal/fetch"
	"github.com/abelbrown/bantin/internal/headlines"
	"github.com/abelbrown/bantin/internal/logging"
	"github.com/abelbrown/bantin/internal/model"
	"github.com/abelbrown/bantin/internal/newsmode"
	"github.com/abelbrown/bantin/internal/spelling"
)

// ErrGenerating rejects a second generation while one is in flight.
var ErrGenerating = errors.New("generation already in progress")

// Controller is the application-state aggregate.
type Controller struct {
	modes   *newsmode.Machine
	curator *curation.Curator
	topic   spelling.Tracker

	syndicated    []string
	syndicatedErr string
	fetching      bool

	weather     *model.WeatherData
	weatherTick uint64
	weatherCity string

	mourning bool
	festive  bool

	genSeq     uint64
	genID      string
	generating bool
	genError   string
}

// New creates a controller around an already loaded state machine.
func New(modes *newsmode.Machine) *Controller {
	return &Controller{
		modes:   modes,
		curator: curation.New(),
	}
}

// --- News mode ---

// SelectCustom switches to custom content. Rejected when the list is empty.
func (c *Controller) SelectCustom() error {
	return c.modes.SelectCustom()
}

// SelectSyndicated switches to syndicated content and clears the theme flags.
func (c *Controller) SelectSyndicated() error {
	c.mourning = false
	c.festive = false
	return c.modes.SelectSyndicated()
}

// ResetBreaking clears the breaking payload and returns to syndicated.
func (c *Controller) ResetBreaking() error {
	logging.Info("breaking news reset")
	return c.modes.ResetBreaking()
}

// ActivateManualBreaking shows one operator-typed alert under tag.
func (c *Controller) ActivateManualBreaking(tag, content string) error {
	content = strings.TrimSpace(content)
	if err := c.modes.ActivateBreaking(tag, []string{content}); err != nil {
		return err
	}
	logging.Info("manual breaking news activated", "tag", strings.TrimSpace(tag))
	return nil
}

// AddCustom appends an operator entry.
func (c *Controller) AddCustom(text string) error {
	return c.modes.AddCustom(text)
}

// RemoveCustomAt deletes the custom entry at index.
func (c *Controller) RemoveCustomAt(index int) error {
	return c.modes.RemoveCustomAt(index)
}

// ClearCustom removes every custom entry.
func (c *Controller) ClearCustom() {
	c.modes.ClearCustom()
}

// DefaultTag is the breaking tag used when the operator gives none.
func (c *Controller) DefaultTag() string {
	return c.modes.DefaultTag()
}

// --- Themes ---

// ToggleMourning flips the mourning palette. Turning it on turns festive off.
func (c *Controller) ToggleMourning() {
	c.mourning = !c.mourning
	if c.mourning {
		c.festive = false
	}
}

// ToggleFestive flips the Tết palette. Turning it on turns mourning off.
func (c *Controller) ToggleFestive() {
	c.festive = !c.festive
	if c.festive {
		c.mourning = false
	}
}

// --- Syndicated content ---

// BeginSyndicatedFetch drops the current titles so the ticker shows the
// loading placeholder until the fetch completes.
func (c *Controller) BeginSyndicatedFetch() {
	c.syndicated = nil
	c.syndicatedErr = ""
	c.fetching = true
}

// CompleteSyndicatedFetch stores a fetch result. A non-nil err replaces the
// titles with an error line.
func (c *Controller) CompleteSyndicatedFetch(titles []string, err error) {
	c.fetching = false
	if err != nil {
		c.syndicated = nil
		c.syndicatedErr = fetch.ErrorText(err)
		return
	}
	c.syndicated = append([]string(nil), titles...)
	c.syndicatedErr = ""
}

// --- Weather ---

// RotateWeather moves the weather bar to a new city. The previous reading
// is dropped so another city's data is never shown.
func (c *Controller) RotateWeather(tick uint64, city string) {
	c.weatherTick = tick
	c.weatherCity = city
	c.weather = nil
}

// WeatherLoaded applies a reading if it belongs to the current rotation.
func (c *Controller) WeatherLoaded(tick uint64, data *model.WeatherData) bool {
	if tick != c.weatherTick {
		return false
	}
	if data == nil {
		c.weather = nil
		return true
	}
	w := *data
	c.weather = &w
	return true
}

// --- AI generation ---

// BeginGeneration validates a request and returns its sequence number.
// Any pending selection and the previous error are cleared. Validation
// failures are recorded as the generation error and returned.
func (c *Controller) BeginGeneration(topic, tag string, count int) (uint64, error) {
	if c.generating {
		return 0, ErrGenerating
	}
	if err := headlines.Validate(topic, tag, count); err != nil {
		c.genError = headlines.Message(err)
		return 0, err
	}

	c.genError = ""
	c.curator.Cancel()
	c.genSeq++
	c.generating = true
	c.genID = uuid.NewString()

	logging.Info("headline generation started",
		"request", c.genID,
		"seq", c.genSeq,
		"topic", strings.TrimSpace(topic),
		"tag", strings.TrimSpace(tag))
	return c.genSeq, nil
}

// CompleteGeneration applies the result of request seq. Results for any
// other sequence are discarded and false is returned.
func (c *Controller) CompleteGeneration(seq uint64, tag string, res headlines.Result, err error) bool {
	if !c.generating || seq != c.genSeq {
		logging.Debug("discarding stale generation result", "seq", seq, "current", c.genSeq)
		return false
	}
	c.generating = false

	if err != nil {
		c.genError = headlines.Message(err)
		logging.Warn("headline generation failed", "request", c.genID, "error", err)
		return true
	}

	c.curator.Open(model.PendingSelection{
		Candidates: res.Candidates,
		Citations:  res.Citations,
		Tag:        strings.TrimSpace(tag),
	})
	logging.Info("headline generation complete",
		"request", c.genID,
		"candidates", len(res.Candidates),
		"citations", len(res.Citations))
	return true
}

// CancelGeneration abandons the in-flight request; its result is dropped.
func (c *Controller) CancelGeneration() {
	if !c.generating {
		return
	}
	c.genSeq++
	c.generating = false
	logging.Info("headline generation cancelled", "request", c.genID)
}

// --- Curation ---

// ToggleCandidate flips the selection of the candidate at index.
func (c *Controller) ToggleCandidate(index int) {
	c.curator.Toggle(index)
}

// SelectAllCandidates selects the whole batch.
func (c *Controller) SelectAllCandidates() {
	c.curator.SelectAll()
}

// SelectNoCandidates clears the selection.
func (c *Controller) SelectNoCandidates() {
	c.curator.SelectNone()
}

// ConfirmSelection promotes the selected summaries to breaking news.
func (c *Controller) ConfirmSelection() error {
	n := len(c.curator.Selected())
	if err := c.curator.Confirm(c.modes); err != nil {
		return fmt.Errorf("confirm selection: %w", err)
	}
	logging.Info("breaking news activated from selection", "items", n)
	return nil
}

// CancelSelection discards the pending batch and any late result.
func (c *Controller) CancelSelection() {
	c.curator.Cancel()
	c.CancelGeneration()
}

// --- Spelling ---

// EditTopic records new topic input. The returned sequence schedules the
// spelling check.
func (c *Controller) EditTopic(text string) uint64 {
	return c.topic.Edit(text)
}

// SpellDue reports whether the check scheduled at seq should run.
func (c *Controller) SpellDue(seq uint64) bool {
	return c.topic.Due(seq)
}

// ResolveSpelling applies a finished check if it is still current.
func (c *Controller) ResolveSpelling(seq uint64, text, suggestion string, ok bool) bool {
	return c.topic.Resolve(seq, text, suggestion, ok)
}

// AcceptSuggestion replaces the topic with the suggestion.
func (c *Controller) AcceptSuggestion() bool {
	return c.topic.Accept()
}

// ClearSuggestion drops the suggestion.
func (c *Controller) ClearSuggestion() {
	c.topic.Clear()
}

// Topic returns the current topic input.
func (c *Controller) Topic() string {
	return c.topic.Text()
}

// --- Rendering ---

// Display returns the ticker string for the active mode.
func (c *Controller) Display() string {
	b := c.modes.Breaking()
	return display.Format(c.modes.Mode(), c.syndicated, c.modes.Custom(), b.Items, c.syndicatedErr)
}
