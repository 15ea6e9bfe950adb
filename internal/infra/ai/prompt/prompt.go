package prompt

import (
	"fmt"

	"github.com/ghostguard/ghostguard/internal/domain/threats"
)

// ForURL builds the analysis prompt for a single URL. The model is instructed
// to answer with the exact JSON shape the client parses.
func ForURL(url string) string {
	return fmt.Sprintf(`Analyze this URL for potential security threats: %q.
Provide a detailed assessment of whether this URL might be phishing, malware, or legitimate.
Include specific indicators that led to your conclusion.
Give a confidence score between 0-100 (higher means more confident in the threat assessment).
Format your response as JSON with the following structure:
{
  "threatAnalysis": "detailed explanation of threats detected",
  "securityRecommendations": ["recommendation 1", "recommendation 2", "recommendation 3"],
  "confidenceScore": number
}`, url)
}

// ForContent builds the analysis prompt for raw message/email content.
func ForContent(content string) string {
	return fmt.Sprintf(`Analyze this content for potential security threats: %q.
Provide a detailed assessment of whether this content might be phishing, malware, or legitimate.
Include specific indicators that led to your conclusion.
Give a confidence score between 0-100 (higher means more confident in the threat assessment).
Format your response as JSON with the following structure:
{
  "threatAnalysis": "detailed explanation of threats detected",
  "securityRecommendations": ["recommendation 1", "recommendation 2", "recommendation 3"],
  "confidenceScore": number
}`, content)
}

// ForSecurityTips asks for actionable tips scaled to a severity band.
func ForSecurityTips(level threats.Level) string {
	return fmt.Sprintf(`Provide 3 security tips for users dealing with %s level security threats.
Make them specific, actionable, and easy to understand.
Format the response as a JSON array of strings.`, level)
}
