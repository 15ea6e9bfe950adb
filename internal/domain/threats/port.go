package threats

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the threat id does not exist for the tenant.
	ErrNotFound = errors.New("threat not found")
	// ErrBadTransition indicates a status change that would move a threat backwards.
	ErrBadTransition = errors.New("invalid status transition")
)

// Repository port (interface for persistence)
type Repository interface {
	Save(ctx context.Context, t *Threat) error
	Get(ctx context.Context, tenant string, id ThreatID) (*Threat, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Threat, error)
	UpdateStatus(ctx context.Context, tenant string, id ThreatID, status Status) error
	Stats(ctx context.Context, tenant string) (Stats, error)
}

// ReportStore port for archiving the raw AI analysis behind a threat.
type ReportStore interface {
	Store(ctx context.Context, key string, body []byte) (string, error)
}
