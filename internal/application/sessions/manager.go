package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ghostguard/ghostguard/internal/application/events"
	"github.com/ghostguard/ghostguard/internal/application/scan"
	"github.com/ghostguard/ghostguard/internal/domain/inbox"
	"github.com/ghostguard/ghostguard/internal/domain/threats"
)

var (
	// ErrNotFound indicates the session id is unknown for the tenant.
	ErrNotFound = errors.New("session not found")
	// ErrBadSource indicates a source that cannot be connected as a session.
	ErrBadSource = errors.New("unsupported session source")
)

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

// Manager owns the session lifecycle per tenant. Connect creates a session
// with a fresh cache; Disconnect tears everything down, which clears the
// dedup cache and makes every URL eligible for re-scan on reconnect.
type Manager struct {
	Loader inbox.Loader
	Clock  Clock

	mu       sync.RWMutex
	sessions map[string]*Session // key tenant + "/" + id
}

func NewManager(loader inbox.Loader, clock Clock) *Manager {
	return &Manager{Loader: loader, Clock: clock, sessions: make(map[string]*Session)}
}

// Connect creates a session for an email or chat account and loads its
// initial inbox through the Loader.
func (m *Manager) Connect(ctx context.Context, tenant string, source threats.Source, account string) (*Session, error) {
	if source != threats.SourceEmail && source != threats.SourceWhatsApp {
		return nil, fmt.Errorf("%w: %s", ErrBadSource, source)
	}

	now := m.Clock.Now()
	sess := &Session{
		ID:       uuid.New().String(),
		TenantID: tenant,
		Source:   source,
		Status: inbox.ConnectionStatus{
			Connected:    true,
			Account:      account,
			Provider:     providerFor(source, account),
			LastSyncTime: now,
		},
		ConnectedAt: now,
		cache:       scan.NewCache(),
		items:       inbox.NewMemoryStore(),
		bus:         events.NewBus(64),
	}

	items, err := m.Loader.Load(ctx, source, account)
	if err != nil {
		return nil, fmt.Errorf("loading inbox: %w", err)
	}
	for _, item := range items {
		sess.items.Add(item)
		sess.Publish(events.Event{
			Kind:      events.KindItemAdded,
			SessionID: sess.ID,
			Time:      now,
			Payload:   item,
		})
	}

	m.mu.Lock()
	m.sessions[key(tenant, sess.ID)] = sess
	m.mu.Unlock()

	sess.Publish(events.Event{
		Kind:      events.KindSessionStatus,
		SessionID: sess.ID,
		Time:      now,
		Payload:   sess.Status,
	})
	return sess, nil
}

// Get looks a session up by id.
func (m *Manager) Get(tenant, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[key(tenant, id)]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// List returns the tenant's sessions.
func (m *Manager) List(tenant string) []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Session
	for k, sess := range m.sessions {
		if strings.HasPrefix(k, tenant+"/") {
			out = append(out, sess)
		}
	}
	return out
}

// Disconnect tears the session down: cache cleared, bus closed, session gone.
func (m *Manager) Disconnect(tenant, id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[key(tenant, id)]
	if ok {
		delete(m.sessions, key(tenant, id))
	}
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	sess.Status = inbox.ConnectionStatus{Connected: false}
	sess.cache.Reset()
	sess.bus.Close()
	return nil
}

func key(tenant, id string) string { return tenant + "/" + id }

// providerFor detects the mail provider from the account domain.
func providerFor(source threats.Source, account string) string {
	if source == threats.SourceWhatsApp {
		return "WhatsApp"
	}
	at := strings.LastIndex(account, "@")
	if at < 0 || at == len(account)-1 {
		return "unknown"
	}
	domain := strings.ToLower(account[at+1:])
	switch {
	case strings.Contains(domain, "gmail"):
		return "Gmail"
	case strings.Contains(domain, "outlook"), strings.Contains(domain, "hotmail"):
		return "Outlook"
	case strings.Contains(domain, "yahoo"):
		return "Yahoo"
	default:
		return domain
	}
}
