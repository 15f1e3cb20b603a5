package fetch

import "github.com/abelbrown/bantin/internal/config"

// FromConfig converts configured feeds to sources, skipping entries
// without a URL.
func FromConfig(feeds []config.FeedConfig) []Source {
	sources := make([]Source, 0, len(feeds))
	for _, f := range feeds {
		if f.URL == "" {
			continue
		}
		name := f.Name
		if name == "" {
			name = f.URL
		}
		sources = append(sources, Source{Name: name, URL: f.URL})
	}
	return sources
}

// DefaultSources returns the national news feeds the ticker ships with.
func DefaultSources() []Source {
	return FromConfig(config.DefaultConfig().Feeds)
}
