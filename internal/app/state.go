package app

import (
	"github.com/abelbrown/bantin/internal/model"
)

// State is an immutable snapshot of everything a renderer needs.
type State struct {
	Mode        model.NewsMode
	Display     string
	BreakingTag string
	Breaking    []string
	Custom      []string

	Weather     *model.WeatherData
	WeatherCity string

	Fetching        bool
	SyndicatedError string

	Generating      bool
	GenerationError string
	Pending         *model.PendingSelection
	Selected        []int

	Topic      string
	Suggestion string

	Mourning bool
	Festive  bool
}

// IsSelected reports whether candidate i is in the selection.
func (s State) IsSelected(i int) bool {
	for _, idx := range s.Selected {
		if idx == i {
			return true
		}
	}
	return false
}

// State returns a snapshot. Slices and pointers are copies; mutating them
// does not affect the controller.
func (c *Controller) State() State {
	b := c.modes.Breaking()
	s := State{
		Mode:            c.modes.Mode(),
		Display:         c.Display(),
		BreakingTag:     b.Tag,
		Breaking:        b.Items,
		Custom:          c.modes.Custom(),
		WeatherCity:     c.weatherCity,
		Fetching:        c.fetching,
		SyndicatedError: c.syndicatedErr,
		Generating:      c.generating,
		GenerationError: c.genError,
		Selected:        c.curator.Selected(),
		Topic:           c.topic.Text(),
		Mourning:        c.mourning,
		Festive:         c.festive,
	}
	if c.weather != nil {
		w := *c.weather
		s.Weather = &w
	}
	if p, ok := c.curator.Pending(); ok {
		s.Pending = &p
	}
	if sug, ok := c.topic.Suggestion(); ok {
		s.Suggestion = sug
	}
	return s
}
