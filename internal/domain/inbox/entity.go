package inbox

import "time"

// ItemID tipe untuk content items
type ItemID string

// Item is one piece of scannable content: an email or a chat message.
// URLs are derived from the body at load time; Scanned and ThreatIDs are
// mutated by the scan orchestrator through the Store.
type Item struct {
	ID          ItemID    `json:"id"`
	Sender      string    `json:"sender"`
	Subject     string    `json:"subject,omitempty"`
	Body        string    `json:"body"`
	Timestamp   time.Time `json:"timestamp"`
	ContainsURL bool      `json:"contains_url"`
	URLs        []string  `json:"urls,omitempty"`
	Scanned     bool      `json:"scanned"`
	ThreatIDs   []string  `json:"threat_ids,omitempty"`
}

// ConnectionStatus describes one connected account.
type ConnectionStatus struct {
	Connected    bool      `json:"connected"`
	Account      string    `json:"account,omitempty"`
	Provider     string    `json:"provider,omitempty"`
	LastSyncTime time.Time `json:"last_sync_time,omitempty"`
	Error        string    `json:"error,omitempty"`
}
