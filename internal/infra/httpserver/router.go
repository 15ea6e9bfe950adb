package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/ghostguard/ghostguard/internal/application/events"
	appscan "github.com/ghostguard/ghostguard/internal/application/scan"
	appsessions "github.com/ghostguard/ghostguard/internal/application/sessions"
	domai "github.com/ghostguard/ghostguard/internal/domain/ai"
	"github.com/ghostguard/ghostguard/internal/domain/inbox"
	"github.com/ghostguard/ghostguard/internal/domain/threats"
	"github.com/ghostguard/ghostguard/internal/middleware"
)

type Router struct {
	scanSvc  *appscan.Service
	sessions *appsessions.Manager
	repo     threats.Repository
	ai       domai.Analyzer

	// ad-hoc sessions backing POST /scan/url, one per tenant
	mu     sync.Mutex
	manual map[string]*manualSession
}

func NewRouter(scanSvc *appscan.Service, sessions *appsessions.Manager, repo threats.Repository, ai domai.Analyzer, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{
		scanSvc:  scanSvc,
		sessions: sessions,
		repo:     repo,
		ai:       ai,
		manual:   make(map[string]*manualSession),
	}
	mux := chi.NewRouter()

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Get("/ready", middleware.HealthHandler(checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/sessions", r.wrap(r.handleConnect))
		rt.Get("/sessions", r.wrap(r.handleListSessions))
		rt.Get("/sessions/{id}", r.wrap(r.handleGetSession))
		rt.Delete("/sessions/{id}", r.wrap(r.handleDisconnect))
		rt.Get("/sessions/{id}/items", r.wrap(r.handleListItems))
		rt.Post("/sessions/{id}/scan", r.wrap(r.handleScanItem))
		rt.Post("/sessions/{id}/scan-all", r.wrap(r.handleScanAll))
		rt.Post("/scan/url", r.wrap(r.handleScanURL))
		rt.Get("/threats", r.wrap(r.handleLatestThreats))
		rt.Get("/threats/stats", r.wrap(r.handleStats))
		rt.Get("/threats/{id}", r.wrap(r.handleGetThreat))
		rt.Patch("/threats/{id}/status", r.wrap(r.handleUpdateStatus))
		rt.Get("/security-tips", r.wrap(r.handleSecurityTips))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks an error as a client fault for wrap.
type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, threats.ErrNotFound),
				errors.Is(err, appsessions.ErrNotFound),
				errors.Is(err, sql.ErrNoRows):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
			case errors.Is(err, threats.ErrBadTransition),
				errors.Is(err, appsessions.ErrBadSource),
				errors.Is(err, domai.ErrInvalidRequest):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				if bad := (badRequest{}); errors.As(err, &bad) {
					http.Error(w, bad.Error(), http.StatusBadRequest)
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/{tenant}/sessions
// Body: {"source": "email"|"whatsapp", "account": "user@example.com"}
func (r *Router) handleConnect(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	var body struct {
		Source  string `json:"source"`
		Account string `json:"account"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{err}
	}
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return badRequest{err}
	}

	sess, err := r.sessions.Connect(req.Context(), tenant, threats.Source(body.Source), middleware.SanitizeString(body.Account))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, sess)
}

// GET /v1/{tenant}/sessions
func (r *Router) handleListSessions(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	list := r.sessions.List(tenant)
	if list == nil {
		list = []*appsessions.Session{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/{tenant}/sessions/{id}
func (r *Router) handleGetSession(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	sess, err := r.sessions.Get(tenant, chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sess)
}

// DELETE /v1/{tenant}/sessions/{id}
func (r *Router) handleDisconnect(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := r.sessions.Disconnect(tenant, chi.URLParam(req, "id")); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"disconnected": true})
}

// GET /v1/{tenant}/sessions/{id}/items
func (r *Router) handleListItems(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	sess, err := r.sessions.Get(tenant, chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sess.Items().List())
}

// POST /v1/{tenant}/sessions/{id}/scan
// Body: {"item_id": "<id>"}
func (r *Router) handleScanItem(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	sess, err := r.sessions.Get(tenant, chi.URLParam(req, "id"))
	if err != nil {
		return err
	}

	var body struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{err}
	}
	item, ok := sess.Items().Get(inbox.ItemID(body.ItemID))
	if !ok {
		http.Error(w, "item not found", http.StatusNotFound)
		return nil
	}

	middleware.IncrementScans()
	threat, err := r.scanSvc.ScanContent(req.Context(), sess, tenant, item.Body, sess.Source, item.ID)
	if err != nil {
		middleware.IncrementScansFailed()
		return err
	}
	if threat != nil {
		middleware.IncrementThreats()
	}
	return writeJSON(w, http.StatusOK, map[string]any{"threat": threat})
}

// POST /v1/{tenant}/sessions/{id}/scan-all
func (r *Router) handleScanAll(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	sess, err := r.sessions.Get(tenant, chi.URLParam(req, "id"))
	if err != nil {
		return err
	}

	middleware.IncrementScans()
	found, err := r.scanSvc.ScanAll(req.Context(), sess, tenant, sess.Source)
	if err != nil {
		middleware.IncrementScansFailed()
		return err
	}
	if found == nil {
		found = []*threats.Threat{}
	}
	for range found {
		middleware.IncrementThreats()
	}
	return writeJSON(w, http.StatusOK, map[string]any{"threats": found, "count": len(found)})
}

// POST /v1/{tenant}/scan/url
// Body: {"url": "https://..."} — ad-hoc scan outside any connected session.
func (r *Router) handleScanURL(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{err}
	}
	if err := middleware.ValidateURL(body.URL); err != nil {
		return badRequest{err}
	}

	middleware.IncrementScans()
	threat, err := r.scanSvc.ScanURL(req.Context(), r.manualFor(tenant), tenant, body.URL, threats.SourceManual, "")
	if err != nil {
		middleware.IncrementScansFailed()
		return err
	}
	if threat != nil {
		middleware.IncrementThreats()
	}
	return writeJSON(w, http.StatusOK, map[string]any{"threat": threat})
}

// GET /v1/{tenant}/threats?limit=20
func (r *Router) handleLatestThreats(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list, err := r.repo.Latest(req.Context(), tenant, limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*threats.Threat{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/{tenant}/threats/{id}
func (r *Router) handleGetThreat(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	threat, err := r.repo.Get(req.Context(), tenant, threats.ThreatID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, threat)
}

// PATCH /v1/{tenant}/threats/{id}/status
// Body: {"status": "investigating"|"mitigated"}
func (r *Router) handleUpdateStatus(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{err}
	}
	status := threats.Status(body.Status)
	if err := middleware.ValidateStatus(string(status)); err != nil {
		return badRequest{err}
	}

	id := threats.ThreatID(chi.URLParam(req, "id"))
	if err := r.repo.UpdateStatus(req.Context(), tenant, id, status); err != nil {
		return err
	}
	threat, err := r.repo.Get(req.Context(), tenant, id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, threat)
}

// GET /v1/{tenant}/threats/stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	stats, err := r.repo.Stats(req.Context(), tenant)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, stats)
}

// GET /v1/{tenant}/security-tips?level=high
func (r *Router) handleSecurityTips(w http.ResponseWriter, req *http.Request) error {
	level := threats.Level(req.URL.Query().Get("level"))
	if level == "" {
		level = threats.LevelMedium
	}
	if err := middleware.ValidateLevel(string(level)); err != nil {
		return badRequest{err}
	}

	tips, err := r.ai.SecurityTips(req.Context(), level)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"level": level, "tips": tips})
}

// manualSession is the tenant-level session behind ad-hoc URL scans. It has
// its own dedup cache, an empty item store, and a bus nobody listens to.
type manualSession struct {
	tenant string
	cache  *appscan.Cache
	items  *inbox.MemoryStore
	bus    *events.Bus
}

func (m *manualSession) SessionID() string         { return "manual-" + m.tenant }
func (m *manualSession) ScanCache() *appscan.Cache { return m.cache }
func (m *manualSession) Items() inbox.Store        { return m.items }
func (m *manualSession) Publish(ev events.Event)   { m.bus.Publish(ev) }

func (r *Router) manualFor(tenant string) *manualSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.manual[tenant]; ok {
		return sess
	}
	sess := &manualSession{
		tenant: tenant,
		cache:  appscan.NewCache(),
		items:  inbox.NewMemoryStore(),
		bus:    events.NewBus(1),
	}
	r.manual[tenant] = sess
	return sess
}
