package headlines

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/abelbrown/bantin/internal/brain"
	"github.com/abelbrown/bantin/internal/model"
)

// jsonFence matches the first ```json fenced block, non-greedy.
var jsonFence = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")

// ParseCandidates extracts the headline list from raw model output.
func ParseCandidates(raw string) ([]model.Candidate, error) {
	match := jsonFence.FindStringSubmatch(raw)
	if match == nil || strings.TrimSpace(match[1]) == "" {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, errNoJSONBlock)
	}
	body := []byte(match[1])

	var shape any
	if err := json.Unmarshal(body, &shape); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrMalformedResponse, errInvalidJSON, err)
	}
	list, ok := shape.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrEmptyResult)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: array is empty", ErrEmptyResult)
	}

	var parsed []model.Candidate
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrMalformedResponse, errInvalidJSON, err)
	}

	candidates := make([]model.Candidate, 0, len(parsed))
	for _, c := range parsed {
		c.Headline = strings.TrimSpace(c.Headline)
		c.Summary = strings.TrimSpace(c.Summary)
		if c.Headline == "" && c.Summary == "" {
			continue
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: every entry is blank", ErrEmptyResult)
	}
	return candidates, nil
}

// ExtractCitations turns grounding chunks into display citations. Chunks
// without a URI are skipped, a missing title becomes the URI's host, and
// duplicates by URI keep the first occurrence.
func ExtractCitations(chunks []brain.GroundingChunk) []model.Citation {
	citations := make([]model.Citation, 0, len(chunks))
	seen := make(map[string]bool, len(chunks))
	for _, ch := range chunks {
		uri := strings.TrimSpace(ch.URI)
		if uri == "" || seen[uri] {
			continue
		}
		seen[uri] = true

		title := strings.TrimSpace(ch.Title)
		if title == "" {
			title = hostname(uri)
		}
		citations = append(citations, model.Citation{URI: uri, Title: title})
	}
	return citations
}

func hostname(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Hostname() == "" {
		return uri
	}
	return u.Hostname()
}
