package threats

import (
	"strings"
	"time"
)

// ID tipe untuk Threat
type ThreatID string

// Category enum
type Category string

const (
	CategoryPhishing   Category = "phishing"
	CategoryMalware    Category = "malware"
	CategoryScam       Category = "scam"
	CategorySuspicious Category = "suspicious"
	CategorySafe       Category = "safe"
)

// Source enum: where the scanned content came from
type Source string

const (
	SourceEmail    Source = "email"
	SourceWhatsApp Source = "whatsapp"
	SourceBrowser  Source = "browser"
	SourceAPI      Source = "api"
	SourceManual   Source = "manual"
)

// Status enum
type Status string

const (
	StatusActive        Status = "active"
	StatusInvestigating Status = "investigating"
	StatusMitigated     Status = "mitigated"
)

// Level enum: severity band derived from the confidence score
type Level string

const (
	LevelCritical Level = "critical"
	LevelHigh     Level = "high"
	LevelMedium   Level = "medium"
	LevelLow      Level = "low"
)

// Aggregate Root: Threat
type Threat struct {
	ID        ThreatID  `json:"id"`
	TenantID  string    `json:"tenant_id"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
	Score     int       `json:"score"`
	Category  Category  `json:"category"`
	Source    Source    `json:"source"`
	Details   string    `json:"details"`
	Status    Status    `json:"status"`
	ReportURL string    `json:"report_url,omitempty"`
}

// Stats rekap for the dashboard
type Stats struct {
	Total     int `json:"total"`
	Critical  int `json:"critical"`
	High      int `json:"high"`
	Medium    int `json:"medium"`
	Low       int `json:"low"`
	Mitigated int `json:"mitigated"`
}

// LevelFor maps a 0-100 confidence score into a severity band.
func LevelFor(score int) Level {
	switch {
	case score >= 80:
		return LevelCritical
	case score >= 60:
		return LevelHigh
	case score >= 30:
		return LevelMedium
	default:
		return LevelLow
	}
}

// CategoryFor derives the threat category from the score and the analysis text.
// Textual evidence only breaks the phishing/malware tie at the top band.
func CategoryFor(score int, analysis string) Category {
	switch {
	case score > 80:
		if strings.Contains(strings.ToLower(analysis), "phish") {
			return CategoryPhishing
		}
		return CategoryMalware
	case score > 60:
		return CategoryScam
	case score <= 30:
		return CategorySafe
	default:
		return CategorySuspicious
	}
}

// ValidSource reports whether s is a known provenance tag.
func ValidSource(s Source) bool {
	switch s {
	case SourceEmail, SourceWhatsApp, SourceBrowser, SourceAPI, SourceManual:
		return true
	}
	return false
}

// CanTransition reports whether a status change is allowed. Statuses only move
// forward: active -> investigating -> mitigated, never back.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusActive:
		return to == StatusInvestigating || to == StatusMitigated
	case StatusInvestigating:
		return to == StatusMitigated
	}
	return false
}
