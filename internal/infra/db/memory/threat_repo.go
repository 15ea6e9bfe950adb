package memory

import (
	"context"
	"sync"

	"github.com/ghostguard/ghostguard/internal/domain/threats"
)

// ThreatRepository is the default store: append-on-detection, in process
// memory, newest first. Suits the per-session lifetime the scanner needs
// without external infrastructure.
type ThreatRepository struct {
	mu      sync.RWMutex
	byID    map[string]*threats.Threat
	ordered []*threats.Threat
}

func NewThreatRepository() *ThreatRepository {
	return &ThreatRepository{byID: make(map[string]*threats.Threat)}
}

func (r *ThreatRepository) Save(_ context.Context, t *threats.Threat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	if existing, ok := r.byID[repoKey(t.TenantID, t.ID)]; ok {
		*existing = cp
		return nil
	}
	p := &cp
	r.byID[repoKey(t.TenantID, t.ID)] = p
	r.ordered = append(r.ordered, p)
	return nil
}

func (r *ThreatRepository) Get(_ context.Context, tenant string, id threats.ThreatID) (*threats.Threat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[repoKey(tenant, id)]
	if !ok {
		return nil, threats.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *ThreatRepository) Latest(_ context.Context, tenant string, limit int) ([]*threats.Threat, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*threats.Threat
	for i := len(r.ordered) - 1; i >= 0 && len(out) < limit; i-- {
		if r.ordered[i].TenantID != tenant {
			continue
		}
		cp := *r.ordered[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ThreatRepository) UpdateStatus(_ context.Context, tenant string, id threats.ThreatID, status threats.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[repoKey(tenant, id)]
	if !ok {
		return threats.ErrNotFound
	}
	if !threats.CanTransition(t.Status, status) {
		return threats.ErrBadTransition
	}
	t.Status = status
	return nil
}

func (r *ThreatRepository) Stats(_ context.Context, tenant string) (threats.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var s threats.Stats
	for _, t := range r.ordered {
		if t.TenantID != tenant {
			continue
		}
		s.Total++
		switch threats.LevelFor(t.Score) {
		case threats.LevelCritical:
			s.Critical++
		case threats.LevelHigh:
			s.High++
		case threats.LevelMedium:
			s.Medium++
		case threats.LevelLow:
			s.Low++
		}
		if t.Status == threats.StatusMitigated {
			s.Mitigated++
		}
	}
	return s, nil
}

func repoKey(tenant string, id threats.ThreatID) string {
	return tenant + "/" + string(id)
}
