// Package spelling proposes corrections for the operator's topic input.
//
// Advisor asks the model; Tracker decides whether an answer still applies to
// what is in the input box. Failures never reach the operator: the worst
// outcome is no suggestion.
package spelling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/bantin/internal/brain"
	"github.com/abelbrown/bantin/internal/logging"
)

// Advisor checks text through a generative model.
type Advisor struct {
	provider brain.Provider
	language string
	timeout  time.Duration
}

// NewAdvisor creates an advisor for text written in language.
func NewAdvisor(provider brain.Provider, language string) *Advisor {
	if language == "" {
		language = "Vietnamese"
	}
	return &Advisor{
		provider: provider,
		language: language,
		timeout:  15 * time.Second,
	}
}

func (a *Advisor) prompt(text string) string {
	return fmt.Sprintf("Correct any spelling or grammatical errors in the following %s phrase. "+
		"If it is already correct, return the original phrase. "+
		"Only return the corrected phrase, nothing else. Phrase: %q", a.language, text)
}

// Check returns a corrected version of text. ok is false when text is blank,
// already correct, or the model could not be reached.
func (a *Advisor) Check(ctx context.Context, text string) (suggestion string, ok bool) {
	if strings.TrimSpace(text) == "" || a.provider == nil || !a.provider.Available() {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.provider.Generate(ctx, brain.Request{
		UserPrompt:  a.prompt(text),
		Temperature: brain.Temperature(0),
	})
	if err != nil {
		logging.Debug("spell check failed", "error", err)
		return "", false
	}

	corrected := Clean(resp.Content)
	if corrected == "" || strings.EqualFold(corrected, strings.TrimSpace(text)) {
		return "", false
	}
	return corrected, true
}

// quotePairs are the wrappers the model tends to echo back.
var quotePairs = [][2]string{
	{`"`, `"`},
	{"'", "'"},
	{"“", "”"},
	{"‘", "’"},
	{"«", "»"},
}

// Clean trims model output and strips wrapping quotation marks, however many
// layers there are.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		stripped := false
		for _, q := range quotePairs {
			if len(s) >= len(q[0])+len(q[1]) && strings.HasPrefix(s, q[0]) && strings.HasSuffix(s, q[1]) {
				s = strings.TrimSpace(s[len(q[0]) : len(s)-len(q[1])])
				stripped = true
			}
		}
		if !stripped {
			return s
		}
	}
}
