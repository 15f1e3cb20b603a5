package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/bantin/internal/logging"
)

// DefaultGeminiEndpoint is the public Generative Language API base URL
const DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// Compile-time interface satisfaction check
var _ Provider = (*GeminiProvider)(nil)

// GeminiProvider implements the Provider interface for Google's Gemini models
type GeminiProvider struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewGeminiProvider creates a new Gemini provider.
// An empty endpoint means the public API.
func NewGeminiProvider(apiKey, model, endpoint string) *GeminiProvider {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if endpoint == "" {
		endpoint = DefaultGeminiEndpoint
	}
	return &GeminiProvider{
		apiKey:   apiKey,
		model:    model,
		endpoint: strings.TrimRight(endpoint, "/"),
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		// Typing in the topic box fires spelling checks; keep bursts polite
		limiter: rate.NewLimiter(rate.Every(750*time.Millisecond), 2),
	}
}

func (g *GeminiProvider) Name() string {
	return "gemini"
}

func (g *GeminiProvider) Available() bool {
	return g.apiKey != ""
}

// Model returns the configured model name
func (g *GeminiProvider) Model() string {
	return g.model
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
	Tools             []map[string]any       `json:"tools,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason      string `json:"finishReason"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	ModelVersion string `json:"modelVersion"`
}

func (g *GeminiProvider) Generate(ctx context.Context, req Request) (Response, error) {
	if !g.Available() {
		logging.Warn("Gemini provider not configured")
		return Response{}, fmt.Errorf("gemini: %w", ErrMissingCredential)
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return Response{}, fmt.Errorf("rate limit wait: %w", err)
	}

	logging.Debug("Gemini API request starting",
		"model", g.model,
		"search", req.Search,
		"max_tokens", req.MaxTokens)

	body := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: req.UserPrompt}},
		}},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     req.Temperature,
		},
	}
	if req.SystemPrompt != "" {
		body.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: req.SystemPrompt}},
		}
	}
	if req.Search {
		body.Tools = []map[string]any{{"google_search": map[string]any{}}}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.endpoint, g.model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logging.Error("Gemini API error", "status", resp.StatusCode, "body", string(respBody))
		return Response{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return Response{}, fmt.Errorf("failed to parse response: %w", err)
	}

	var (
		content      strings.Builder
		finishReason string
		grounding    []GroundingChunk
	)
	if len(result.Candidates) > 0 {
		c := result.Candidates[0]
		// Grounded answers arrive split across several parts
		for _, p := range c.Content.Parts {
			content.WriteString(p.Text)
		}
		finishReason = c.FinishReason
		if c.GroundingMetadata != nil {
			for _, chunk := range c.GroundingMetadata.GroundingChunks {
				if chunk.Web == nil {
					continue
				}
				grounding = append(grounding, GroundingChunk{URI: chunk.Web.URI, Title: chunk.Web.Title})
			}
		}
	}

	modelName := g.model
	if result.ModelVersion != "" {
		modelName = result.ModelVersion
	}

	if finishReason == "MAX_TOKENS" {
		logging.Warn("Gemini response truncated due to max tokens",
			"model", modelName,
			"max_tokens", req.MaxTokens,
			"content_length", content.Len())
	}

	logging.Info("Gemini API response",
		"model", modelName,
		"content_length", content.Len(),
		"grounding", len(grounding),
		"finish_reason", finishReason,
		"took", time.Since(start).Round(time.Millisecond))

	return Response{
		Content:     content.String(),
		Model:       modelName,
		RawResponse: string(respBody),
		Grounding:   grounding,
	}, nil
}
