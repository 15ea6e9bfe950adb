package sessions

import (
	"time"

	"github.com/ghostguard/ghostguard/internal/application/events"
	"github.com/ghostguard/ghostguard/internal/application/scan"
	"github.com/ghostguard/ghostguard/internal/domain/inbox"
	"github.com/ghostguard/ghostguard/internal/domain/threats"
)

// Session owns everything scoped to one connected account: its item store,
// its scanned-URL cache, and its event bus. All former module-level state of
// the integrations lives here so concurrent sessions cannot interfere.
type Session struct {
	ID          string                 `json:"id"`
	TenantID    string                 `json:"tenant_id"`
	Source      threats.Source         `json:"source"`
	Status      inbox.ConnectionStatus `json:"status"`
	ConnectedAt time.Time              `json:"connected_at"`

	cache *scan.Cache
	items *inbox.MemoryStore
	bus   *events.Bus
}

func (s *Session) SessionID() string { return s.ID }

// ScanCache exposes the session's dedup cache to the orchestrator.
func (s *Session) ScanCache() *scan.Cache { return s.cache }

// Items exposes the session's item store.
func (s *Session) Items() inbox.Store { return s.items }

// Publish pushes an event onto the session bus.
func (s *Session) Publish(ev events.Event) { s.bus.Publish(ev) }

// Subscribe attaches a listener to the session bus.
func (s *Session) Subscribe() (<-chan events.Event, func()) { return s.bus.Subscribe() }
