// Package headlines asks a generative model for topic-scoped breaking news
// and turns its answer into candidates an operator can curate.
//
// Every failure Generate returns wraps one of ErrValidation,
// ErrNetworkFailure, ErrMalformedResponse or ErrEmptyResult. Message turns
// any of them into the line shown to the operator.
package headlines

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/bantin/internal/brain"
	"github.com/abelbrown/bantin/internal/logging"
	"github.com/abelbrown/bantin/internal/model"
)

// Result is a successful generation.
type Result struct {
	Candidates []model.Candidate
	Citations  []model.Citation
	Model      string
}

// Gateway generates headline candidates through a brain.Provider.
type Gateway struct {
	provider brain.Provider
	language string
	timeout  time.Duration
}

// NewGateway creates a gateway writing in language.
func NewGateway(provider brain.Provider, language string) *Gateway {
	return &Gateway{
		provider: provider,
		language: language,
		timeout:  90 * time.Second,
	}
}

// Validate checks the caller-side preconditions of Generate.
func Validate(topic, tag string, count int) error {
	switch {
	case strings.TrimSpace(topic) == "":
		return fmt.Errorf("%w: topic is empty", ErrValidation)
	case strings.TrimSpace(tag) == "":
		return fmt.Errorf("%w: tag is empty", ErrValidation)
	case count < 0:
		return fmt.Errorf("%w: count %d is negative", ErrValidation, count)
	}
	return nil
}

// Generate requests headlines about topic. count <= 0 means the default
// batch size. tag is only validated here; the caller carries it into
// curation.
func (g *Gateway) Generate(ctx context.Context, topic, tag string, count int) (Result, error) {
	if err := Validate(topic, tag, count); err != nil {
		return Result{}, err
	}
	if g.provider == nil {
		return Result{}, fmt.Errorf("%w: %w", ErrNetworkFailure, brain.ErrMissingCredential)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	topic = strings.TrimSpace(topic)
	start := time.Now()
	resp, err := g.provider.Generate(ctx, brain.Request{
		UserPrompt: BuildPrompt(topic, count, g.language),
		Search:     true,
	})
	if err != nil {
		logging.Warn("headline generation failed", "topic", topic, "error", err)
		return Result{}, fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}

	candidates, err := ParseCandidates(resp.Content)
	if err != nil {
		logging.Warn("headline response rejected",
			"topic", topic,
			"error", err,
			"content_length", len(resp.Content))
		logging.Debug("rejected headline response", "content", resp.Content)
		return Result{}, err
	}

	result := Result{
		Candidates: candidates,
		Citations:  ExtractCitations(resp.Grounding),
		Model:      resp.Model,
	}
	logging.Info("headlines generated",
		"topic", topic,
		"candidates", len(result.Candidates),
		"citations", len(result.Citations),
		"severe_weather", IsSevereWeather(topic),
		"took", time.Since(start).Round(time.Millisecond))
	return result, nil
}
