package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghostguard/ghostguard/internal/domain/threats"
)

func sample(id string, tenant string, score int) *threats.Threat {
	return &threats.Threat{
		ID:        threats.ThreatID(id),
		TenantID:  tenant,
		URL:       "https://" + id + ".test",
		Timestamp: time.Now(),
		Score:     score,
		Category:  threats.CategoryFor(score, ""),
		Source:    threats.SourceManual,
		Status:    threats.StatusActive,
	}
}

func TestSaveGetLatest(t *testing.T) {
	ctx := context.Background()
	repo := NewThreatRepository()

	for _, th := range []*threats.Threat{
		sample("t1", "acme", 45),
		sample("t2", "acme", 85),
		sample("t3", "other", 70),
	} {
		if err := repo.Save(ctx, th); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.Get(ctx, "acme", "t2")
	if err != nil || got.Score != 85 {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if _, err := repo.Get(ctx, "acme", "t3"); !errors.Is(err, threats.ErrNotFound) {
		t.Error("tenant isolation broken")
	}

	latest, err := repo.Latest(ctx, "acme", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(latest) != 2 || latest[0].ID != "t2" || latest[1].ID != "t1" {
		t.Errorf("Latest = %v, want newest first", latest)
	}

	one, _ := repo.Latest(ctx, "acme", 1)
	if len(one) != 1 {
		t.Errorf("limit ignored, got %d", len(one))
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	ctx := context.Background()
	repo := NewThreatRepository()
	if err := repo.Save(ctx, sample("t1", "acme", 65)); err != nil {
		t.Fatal(err)
	}

	if err := repo.UpdateStatus(ctx, "acme", "t1", threats.StatusInvestigating); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpdateStatus(ctx, "acme", "t1", threats.StatusMitigated); err != nil {
		t.Fatal(err)
	}
	// never automatically or manually reverted
	if err := repo.UpdateStatus(ctx, "acme", "t1", threats.StatusActive); !errors.Is(err, threats.ErrBadTransition) {
		t.Errorf("revert err = %v, want ErrBadTransition", err)
	}
	if err := repo.UpdateStatus(ctx, "acme", "missing", threats.StatusMitigated); !errors.Is(err, threats.ErrNotFound) {
		t.Errorf("missing err = %v, want ErrNotFound", err)
	}

	got, _ := repo.Get(ctx, "acme", "t1")
	if got.Status != threats.StatusMitigated {
		t.Errorf("Status = %s, want mitigated", got.Status)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	repo := NewThreatRepository()
	repo.Save(ctx, sample("c", "acme", 90))  // critical
	repo.Save(ctx, sample("h", "acme", 65))  // high
	repo.Save(ctx, sample("m", "acme", 40))  // medium
	repo.Save(ctx, sample("x", "other", 99)) // other tenant
	repo.UpdateStatus(ctx, "acme", "m", threats.StatusMitigated)

	s, err := repo.Stats(ctx, "acme")
	if err != nil {
		t.Fatal(err)
	}
	want := threats.Stats{Total: 3, Critical: 1, High: 1, Medium: 1, Mitigated: 1}
	if s != want {
		t.Errorf("Stats = %+v, want %+v", s, want)
	}
}
