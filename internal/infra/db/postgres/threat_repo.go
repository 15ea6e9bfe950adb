package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"

	domain "github.com/ghostguard/ghostguard/internal/domain/threats"
)

type ThreatRepository struct{ db *sql.DB }

func NewThreatRepository(db *sql.DB) *ThreatRepository { return &ThreatRepository{db: db} }

// Connect opens a Postgres pool and verifies it with a bounded ping.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	return db, nil
}

// Save insert/update Threat record
func (r *ThreatRepository) Save(ctx context.Context, t *domain.Threat) error {
	const q = `
INSERT INTO threats
(id, tenant_id, url, detected_at, score, category, source, details, status, report_url)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
 score = EXCLUDED.score,
 category = EXCLUDED.category,
 details = EXCLUDED.details,
 status = EXCLUDED.status,
 report_url = EXCLUDED.report_url;`

	detected := t.Timestamp
	if detected.IsZero() {
		detected = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		t.ID, t.TenantID, t.URL, detected,
		t.Score, t.Category, t.Source, t.Details, t.Status, t.ReportURL,
	)
	return err
}

// Get by ID + Tenant
func (r *ThreatRepository) Get(ctx context.Context, tenant string, id domain.ThreatID) (*domain.Threat, error) {
	const q = `
SELECT id, tenant_id, url, detected_at, score, category, source, details, status, report_url
FROM threats
WHERE tenant_id=$1 AND id=$2 LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, tenant, id)
	t, err := scanThreat(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return t, err
}

// Latest threats per tenant, newest first
func (r *ThreatRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Threat, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, url, detected_at, score, category, source, details, status, report_url
FROM threats
WHERE tenant_id=$1 ORDER BY detected_at DESC LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Threat
	for rows.Next() {
		t, err := scanThreat(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateStatus moves a threat forward in its lifecycle; reverts are rejected.
func (r *ThreatRepository) UpdateStatus(ctx context.Context, tenant string, id domain.ThreatID, status domain.Status) error {
	current, err := r.Get(ctx, tenant, id)
	if err != nil {
		return err
	}
	if !domain.CanTransition(current.Status, status) {
		return domain.ErrBadTransition
	}
	const q = `UPDATE threats SET status = $1 WHERE tenant_id = $2 AND id = $3;`
	_, err = r.db.ExecContext(ctx, q, status, tenant, id)
	return err
}

// Stats rekap per tenant
func (r *ThreatRepository) Stats(ctx context.Context, tenant string) (domain.Stats, error) {
	const q = `
SELECT COUNT(*)                                            AS total,
       COUNT(*) FILTER (WHERE score >= 80)                 AS critical,
       COUNT(*) FILTER (WHERE score >= 60 AND score < 80)  AS high,
       COUNT(*) FILTER (WHERE score >= 30 AND score < 60)  AS medium,
       COUNT(*) FILTER (WHERE score < 30)                  AS low,
       COUNT(*) FILTER (WHERE status = 'mitigated')        AS mitigated
FROM threats
WHERE tenant_id=$1;`
	var s domain.Stats
	if err := r.db.QueryRowContext(ctx, q, tenant).Scan(
		&s.Total, &s.Critical, &s.High, &s.Medium, &s.Low, &s.Mitigated,
	); err != nil {
		return domain.Stats{}, err
	}
	return s, nil
}

func scanThreat(scan func(dest ...any) error) (*domain.Threat, error) {
	var t domain.Threat
	if err := scan(
		&t.ID, &t.TenantID, &t.URL, &t.Timestamp,
		&t.Score, &t.Category, &t.Source, &t.Details, &t.Status, &t.ReportURL,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
