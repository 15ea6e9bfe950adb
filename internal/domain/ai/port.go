package ai

import (
	"context"

	"github.com/ghostguard/ghostguard/internal/domain/threats"
)

// Request carries exactly one of URL or Content to analyze.
type Request struct {
	URL     string
	Content string
}

// Result is the structured outcome of one analysis.
type Result struct {
	ThreatAnalysis          string   `json:"threatAnalysis"`
	SecurityRecommendations []string `json:"securityRecommendations"`
	ConfidenceScore         int      `json:"confidenceScore"`
}

// Analyzer is the external inference capability. A malformed model response is
// absorbed into a zero-confidence Result, never surfaced as an error; transport
// failures surface as ErrUnavailable or ErrQuotaExceeded.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (Result, error)
	SecurityTips(ctx context.Context, level threats.Level) ([]string, error)
}
