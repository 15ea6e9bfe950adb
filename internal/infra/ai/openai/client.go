package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ghostguard/ghostguard/internal/domain/ai"
	"github.com/ghostguard/ghostguard/internal/domain/threats"
	"github.com/ghostguard/ghostguard/internal/infra/ai/prompt"
)

// Options configure the inference endpoint and sampling.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// Client talks to an OpenAI-compatible chat endpoint (NVIDIA-hosted by default).
type Client struct {
	api  *openai.Client
	opts Options
}

func NewClient(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg), opts: opts}
}

// Analyze sends exactly one of URL/content for deep classification. Transport
// failures map to ai.ErrUnavailable (quota to ai.ErrQuotaExceeded); a response
// that cannot be parsed degrades to the zero-confidence fallback result.
func (c *Client) Analyze(ctx context.Context, req ai.Request) (ai.Result, error) {
	var userPrompt string
	switch {
	case req.URL != "" && req.Content == "":
		userPrompt = prompt.ForURL(req.URL)
	case req.Content != "" && req.URL == "":
		userPrompt = prompt.ForContent(req.Content)
	default:
		return ai.Result{}, ai.ErrInvalidRequest
	}

	content, err := c.complete(ctx, userPrompt, c.opts.Temperature, c.opts.TopP, c.opts.MaxTokens)
	if err != nil {
		return ai.Result{}, err
	}
	return ParseResult(content), nil
}

// SecurityTips asks for three tips for the given severity band. Any failure
// falls back to static advice rather than surfacing an error to the UI.
func (c *Client) SecurityTips(ctx context.Context, level threats.Level) ([]string, error) {
	content, err := c.complete(ctx, prompt.ForSecurityTips(level), 0.7, 0, 1024)
	if err != nil {
		return fallbackTips(), nil
	}
	var tips []string
	if jsonErr := json.Unmarshal([]byte(extractJSON(content, '[', ']')), &tips); jsonErr != nil || len(tips) == 0 {
		return fallbackTips(), nil
	}
	return tips, nil
}

func (c *Client) complete(ctx context.Context, userPrompt string, temperature, topP float32, maxTokens int) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.opts.Model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: userPrompt}},
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("%w: %v", ai.ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// ParseResult decodes the model's reply. Malformed replies are never fatal:
// they become a zero-confidence result so downstream treats the URL as
// "insufficient evidence", not "confirmed safe".
func ParseResult(content string) ai.Result {
	var raw struct {
		ThreatAnalysis          string   `json:"threatAnalysis"`
		SecurityRecommendations []string `json:"securityRecommendations"`
		ConfidenceScore         *float64 `json:"confidenceScore"`
	}
	if err := json.Unmarshal([]byte(extractJSON(content, '{', '}')), &raw); err != nil {
		return ai.Result{
			ThreatAnalysis: "Failed to parse AI analysis. The response wasn't in the expected format.",
			SecurityRecommendations: []string{
				"Try scanning again",
				"Contact support if the issue persists",
			},
			ConfidenceScore: 0,
		}
	}

	res := ai.Result{
		ThreatAnalysis:          raw.ThreatAnalysis,
		SecurityRecommendations: raw.SecurityRecommendations,
	}
	if res.ThreatAnalysis == "" {
		res.ThreatAnalysis = "No analysis available"
	}
	if res.SecurityRecommendations == nil {
		res.SecurityRecommendations = []string{}
	}
	if raw.ConfidenceScore == nil || *raw.ConfidenceScore == 0 {
		res.ConfidenceScore = 50
	} else {
		res.ConfidenceScore = clampScore(int(*raw.ConfidenceScore))
	}
	return res
}

// extractJSON trims reasoning text or code fences around the JSON payload.
func extractJSON(content string, open, closing byte) string {
	start := strings.IndexByte(content, open)
	end := strings.LastIndexByte(content, closing)
	if start < 0 || end <= start {
		return content
	}
	return content[start : end+1]
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func fallbackTips() []string {
	return []string{
		"Keep your software updated",
		"Use strong passwords",
		"Enable two-factor authentication",
	}
}
