// Package fetch retrieves syndicated headlines from RSS and Atom feeds.
//
// Fetch only reads and parses; deduplication, shuffling and capping happen in
// the coordinator, which sees every feed's result at once.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/abelbrown/bantin/internal/model"
)

// Source is one configured feed.
type Source struct {
	Name string // Display name
	URL  string // Feed URL
}

// Fetcher retrieves items from feed sources.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with the given HTTP client timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves items from a source. Returns items and any error.
//
// The function respects context cancellation and will return early
// if the context is cancelled.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]model.FeedItem, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Some Vietnamese publishers reject requests without a browser-ish agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; bantin/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	parser := gofeed.NewParser()
	feed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]model.FeedItem, 0, len(feed.Items))
	for _, feedItem := range feed.Items {
		items = append(items, convertFeedItem(feedItem))
	}

	return items, nil
}

// convertFeedItem converts a gofeed.Item to a model.FeedItem.
func convertFeedItem(feedItem *gofeed.Item) model.FeedItem {
	// Prefer Description, fallback to Content snippet
	desc := feedItem.Description
	if desc == "" && feedItem.Content != "" {
		desc = truncate(feedItem.Content, 500)
	}

	return model.FeedItem{
		Title:       strings.TrimSpace(feedItem.Title),
		Description: strings.TrimSpace(desc),
	}
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
// Uses rune-aware slicing to avoid breaking UTF-8 characters.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
