package openai

import (
	"reflect"
	"testing"
)

func TestParseResultValid(t *testing.T) {
	content := `{"threatAnalysis":"Phishing indicators found","securityRecommendations":["do not click"],"confidenceScore":85}`
	res := ParseResult(content)
	if res.ThreatAnalysis != "Phishing indicators found" {
		t.Errorf("ThreatAnalysis = %q", res.ThreatAnalysis)
	}
	if res.ConfidenceScore != 85 {
		t.Errorf("ConfidenceScore = %d, want 85", res.ConfidenceScore)
	}
	if !reflect.DeepEqual(res.SecurityRecommendations, []string{"do not click"}) {
		t.Errorf("SecurityRecommendations = %v", res.SecurityRecommendations)
	}
}

func TestParseResultMalformed(t *testing.T) {
	for _, content := range []string{"", "not json at all", "{broken", "<think>still reasoning"} {
		res := ParseResult(content)
		if res.ConfidenceScore != 0 {
			t.Errorf("ParseResult(%q).ConfidenceScore = %d, want 0", content, res.ConfidenceScore)
		}
		if len(res.SecurityRecommendations) != 2 {
			t.Errorf("ParseResult(%q) recommendations = %v, want 2 generic entries", content, res.SecurityRecommendations)
		}
	}
}

func TestParseResultSurroundingText(t *testing.T) {
	content := "Here is my assessment:\n```json\n{\"threatAnalysis\":\"ok\",\"confidenceScore\":40}\n```"
	res := ParseResult(content)
	if res.ConfidenceScore != 40 {
		t.Errorf("ConfidenceScore = %d, want 40", res.ConfidenceScore)
	}
	if res.ThreatAnalysis != "ok" {
		t.Errorf("ThreatAnalysis = %q, want ok", res.ThreatAnalysis)
	}
}

func TestParseResultDefaults(t *testing.T) {
	// missing score defaults to 50, missing analysis gets a placeholder
	res := ParseResult(`{}`)
	if res.ConfidenceScore != 50 {
		t.Errorf("missing score = %d, want 50", res.ConfidenceScore)
	}
	if res.ThreatAnalysis != "No analysis available" {
		t.Errorf("ThreatAnalysis = %q", res.ThreatAnalysis)
	}
	if res.SecurityRecommendations == nil {
		t.Error("SecurityRecommendations should be empty, not nil")
	}

	// out-of-range scores clamp into [0,100]
	if got := ParseResult(`{"confidenceScore":250}`).ConfidenceScore; got != 100 {
		t.Errorf("clamped score = %d, want 100", got)
	}
	if got := ParseResult(`{"confidenceScore":-5}`).ConfidenceScore; got != 0 {
		t.Errorf("clamped score = %d, want 0", got)
	}
}
