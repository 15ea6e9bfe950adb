package scan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ghostguard/ghostguard/internal/application/events"
	domai "github.com/ghostguard/ghostguard/internal/domain/ai"
	"github.com/ghostguard/ghostguard/internal/domain/inbox"
	domscan "github.com/ghostguard/ghostguard/internal/domain/scan"
	"github.com/ghostguard/ghostguard/internal/domain/threats"
)

// Session is the slice of a connected session the orchestrator needs: its
// dedup cache, its item store, and its event bus.
type Session interface {
	SessionID() string
	ScanCache() *Cache
	Items() inbox.Store
	Publish(ev events.Event)
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Policy holds the configurable knobs of the pipeline.
type Policy struct {
	// HeuristicGate skips the AI call for URLs the heuristic pass finds clean.
	// Off by default: the heuristic result is informational only.
	HeuristicGate bool
	// CollectAll makes batch scans report every qualifying threat in an item
	// instead of stopping at the first.
	CollectAll bool
	// AITimeout bounds each inference round trip; a timeout is treated the
	// same as an unreachable endpoint.
	AITimeout time.Duration
}

// Service implements the unified scan use-cases.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Repo    threats.Repository
	AI      domai.Analyzer
	Reports threats.ReportStore // optional
	Clock   Clock
	Policy  Policy
}

// ScanContent extracts URLs from one content item and scans them in order.
// It returns the first qualifying threat and nil when the content is benign.
// AI outages skip the affected URL without failing the scan.
func (s *Service) ScanContent(ctx context.Context, sess Session, tenant, content string, source threats.Source, itemID inbox.ItemID) (*threats.Threat, error) {
	urls := domscan.ExtractURLs(content)
	if len(urls) == 0 {
		return nil, nil
	}

	for _, url := range urls {
		threat, err := s.scanOne(ctx, sess, tenant, url, source)
		if err != nil {
			return nil, err
		}
		if threat != nil {
			s.attach(sess, itemID, threat)
			return threat, nil
		}
	}

	s.markScanned(sess, itemID)
	return nil, nil
}

// ScanContentAll is the documented deviation from first-threat-per-item
// semantics: it scans every URL in the content and returns all qualifying
// threats.
func (s *Service) ScanContentAll(ctx context.Context, sess Session, tenant, content string, source threats.Source, itemID inbox.ItemID) ([]*threats.Threat, error) {
	urls := domscan.ExtractURLs(content)
	if len(urls) == 0 {
		return nil, nil
	}

	var found []*threats.Threat
	for _, url := range urls {
		threat, err := s.scanOne(ctx, sess, tenant, url, source)
		if err != nil {
			return found, err
		}
		if threat != nil {
			s.attach(sess, itemID, threat)
			found = append(found, threat)
		}
	}
	if len(found) == 0 {
		s.markScanned(sess, itemID)
	}
	return found, nil
}

// ScanURL scans a single already-extracted URL.
func (s *Service) ScanURL(ctx context.Context, sess Session, tenant, url string, source threats.Source, itemID inbox.ItemID) (*threats.Threat, error) {
	threat, err := s.scanOne(ctx, sess, tenant, url, source)
	if err != nil {
		return nil, err
	}
	if threat != nil {
		s.attach(sess, itemID, threat)
	} else {
		s.markScanned(sess, itemID)
	}
	return threat, nil
}

// ScanAll walks every unscanned item with URLs, sequentially, collecting the
// threats found. One URL's AI failure never aborts the batch.
func (s *Service) ScanAll(ctx context.Context, sess Session, tenant string, source threats.Source) ([]*threats.Threat, error) {
	var found []*threats.Threat
	for _, item := range sess.Items().Unscanned() {
		if s.Policy.CollectAll {
			itemThreats, err := s.ScanContentAll(ctx, sess, tenant, item.Body, source, item.ID)
			if err != nil {
				return found, err
			}
			found = append(found, itemThreats...)
			continue
		}
		threat, err := s.ScanContent(ctx, sess, tenant, item.Body, source, item.ID)
		if err != nil {
			return found, err
		}
		if threat != nil {
			found = append(found, threat)
		}
	}
	return found, nil
}

// scanOne runs the layered classification for one URL. Returns (nil, nil) on
// a cache hit, a skipped AI outage, or a score at or below the creation gate.
func (s *Service) scanOne(ctx context.Context, sess Session, tenant, url string, source threats.Source) (*threats.Threat, error) {
	// Atomic claim: losing means the URL was already scanned this session.
	// Claiming before the AI round trip guarantees at most one call per URL
	// even under concurrent scans.
	if !sess.ScanCache().Claim(url) {
		return nil, nil
	}

	// Pre-screen. Informational unless the gate is enabled.
	suspicious := domscan.QuickMaliciousCheck(url)
	if s.Policy.HeuristicGate && !suspicious {
		return nil, nil
	}

	aiCtx := ctx
	if s.Policy.AITimeout > 0 {
		var cancel context.CancelFunc
		aiCtx, cancel = context.WithTimeout(ctx, s.Policy.AITimeout)
		defer cancel()
	}
	analysis, err := s.AI.Analyze(aiCtx, domai.Request{URL: url})
	if err != nil {
		if errors.Is(err, domai.ErrInvalidRequest) {
			return nil, err
		}
		// Unreachable endpoint, timeout, or quota: skip this URL, keep going.
		log.Printf("scan: ai analysis skipped url=%s tenant=%s err=%v", url, tenant, err)
		return nil, nil
	}

	if analysis.ConfidenceScore <= 30 {
		return nil, nil
	}

	threat := &threats.Threat{
		ID:        threats.ThreatID(uuid.New().String()),
		TenantID:  tenant,
		URL:       url,
		Timestamp: s.Clock.Now(),
		Score:     analysis.ConfidenceScore,
		Category:  threats.CategoryFor(analysis.ConfidenceScore, analysis.ThreatAnalysis),
		Source:    source,
		Details:   analysis.ThreatAnalysis,
		Status:    threats.StatusActive,
	}
	threat.ReportURL = s.archiveReport(ctx, threat, analysis)

	if err := s.Repo.Save(ctx, threat); err != nil {
		return nil, fmt.Errorf("saving threat: %w", err)
	}

	sess.Publish(events.Event{
		Kind:      events.KindThreatDetected,
		SessionID: sess.SessionID(),
		Time:      s.Clock.Now(),
		Payload:   threat,
	})
	return threat, nil
}

// archiveReport stores the full AI result next to the threat. Best effort: a
// storage failure only logs.
func (s *Service) archiveReport(ctx context.Context, threat *threats.Threat, analysis domai.Result) string {
	if s.Reports == nil {
		return ""
	}
	body, err := json.Marshal(analysis)
	if err != nil {
		return ""
	}
	key := fmt.Sprintf("%s/%s.json", threat.TenantID, threat.ID)
	url, err := s.Reports.Store(ctx, key, body)
	if err != nil {
		log.Printf("scan: report archive failed threat=%s err=%v", threat.ID, err)
		return ""
	}
	return url
}

func (s *Service) attach(sess Session, itemID inbox.ItemID, threat *threats.Threat) {
	if itemID == "" {
		return
	}
	sess.Items().MarkScanned(itemID, string(threat.ID))
}

func (s *Service) markScanned(sess Session, itemID inbox.ItemID) {
	if itemID == "" {
		return
	}
	sess.Items().MarkScanned(itemID)
}
