package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"scene-mirror/core/codec"
	"scene-mirror/core/filter"
	"scene-mirror/core/host"
	"scene-mirror/core/metrics"
	"scene-mirror/core/proxy"
	"scene-mirror/core/reconcile"
	"scene-mirror/core/schema"
	"scene-mirror/core/snapshot"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNotFound is returned for an unknown collection or entity.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery is returned for a malformed JSONPath expression.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrSnapshotsDisabled is returned when no database is configured.
	ErrSnapshotsDisabled = errors.New("snapshots are disabled: no database")
	// ErrExportDisabled is returned when no object storage is configured.
	ErrExportDisabled = errors.New("export is disabled: no object storage")
)

// Status describes the current state of the mirror.
type Status struct {
	Session     string         `json:"session"`
	Document    string         `json:"document"`
	Collections map[string]int `json:"collections"`
	Entities    int            `json:"entities"`
	Diagnostics int            `json:"diagnostics"`
	Fingerprint string         `json:"fingerprint"`
	SyncedAt    time.Time      `json:"synced_at"`
}

// SyncResult is the outcome of a sync with the document.
type SyncResult struct {
	Plan    *reconcile.Plan `json:"plan"`
	Touched int             `json:"touched"`
	DryRun  bool            `json:"dry_run"`
}

// Service keeps a proxy mirror of a scene document.
//
// The mirror is built on first use and synced with the document once it is
// older than Config.CacheTTL. Concurrent refreshes share one traversal.
type Service struct {
	cfg      Config
	registry *schema.Registry
	filter   *filter.Context
	repo     *snapshot.Repository
	exporter *snapshot.Exporter
	logger   *zap.Logger

	mu       sync.RWMutex
	doc      *host.Document
	root     *proxy.Root
	diags    []proxy.Diagnostic
	syncedAt time.Time

	group singleflight.Group
	now   func() time.Time
}

// NewService creates a mirror service. repo and exporter may be nil, which
// disables snapshots and export respectively.
func NewService(cfg Config, reg *schema.Registry, repo *snapshot.Repository, exporter *snapshot.Exporter, logger *zap.Logger) *Service {
	return &Service{
		cfg:      cfg,
		registry: reg,
		filter:   filter.New(reg, cfg.Filter),
		repo:     repo,
		exporter: exporter,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) newLoader(doc *host.Document) *proxy.Loader {
	return proxy.NewLoader(doc, s.filter, s.logger, proxy.WithMaxDepth(s.cfg.MaxDepth), metrics.Hook())
}

// Reload parses the document and rebuilds the mirror from scratch.
func (s *Service) Reload(ctx context.Context) (*Status, error) {
	start := time.Now()
	doc, err := host.LoadScene(s.registry, s.cfg.DocumentPath)
	if err != nil {
		metrics.ObserveLoad(start, err)
		return nil, err
	}

	l := s.newLoader(doc)
	root := proxy.NewRoot()
	err = root.Load(l)
	metrics.ObserveLoad(start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.cfg.DocumentPath, err)
	}

	s.mu.Lock()
	s.doc, s.root, s.diags, s.syncedAt = doc, root, l.Diagnostics(), s.now()
	s.mu.Unlock()

	s.logger.Info("Mirror loaded",
		zap.String("document", s.cfg.DocumentPath),
		zap.Int("diagnostics", len(l.Diagnostics())),
		zap.Duration("took", time.Since(start)))
	return s.Status(ctx)
}

// Sync reparses the document and brings the mirror up to date with it.
// With dryRun the plan is computed and the mirror left untouched.
func (s *Service) Sync(ctx context.Context, dryRun bool) (*SyncResult, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	doc, err := host.LoadScene(s.registry, s.cfg.DocumentPath)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// updates land on a copy, so a sync failing halfway leaves the mirror as it was
	target := s.root
	if !dryRun {
		if target, err = cloneRoot(s.root); err != nil {
			return nil, err
		}
	}

	l := s.newLoader(doc)
	plan, touched, err := reconcile.Sync(target, l, reconcile.Options{DryRun: dryRun})
	if err != nil {
		return nil, err
	}
	if !dryRun {
		s.doc, s.root, s.diags, s.syncedAt = doc, target, l.Diagnostics(), s.now()
		metrics.ObserveApplied(touched)
		for _, r := range plan.Results {
			if r.Status != reconcile.StatusUnchanged {
				metrics.ObserveChange(string(r.Status))
			}
		}
	}

	s.logger.Info("Mirror synced",
		zap.Bool("dry_run", dryRun),
		zap.Int("added", plan.Summary.Added),
		zap.Int("removed", plan.Summary.Removed),
		zap.Int("renamed", plan.Summary.Renamed),
		zap.Int("updated", plan.Summary.Updated),
		zap.Int("touched", touched))
	return &SyncResult{Plan: plan, Touched: touched, DryRun: dryRun}, nil
}

func cloneRoot(root *proxy.Root) (*proxy.Root, error) {
	data, err := codec.Marshal(root)
	if err != nil {
		return nil, err
	}
	p, err := codec.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	copied, ok := p.(*proxy.Root)
	if !ok {
		return nil, fmt.Errorf("failed to copy mirror: decoded a %s", p.Kind())
	}
	return copied, nil
}

// ensureLoaded builds the mirror when no load happened yet.
func (s *Service) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.root != nil
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	_, err, _ := s.group.Do("load", func() (any, error) {
		s.mu.RLock()
		loaded := s.root != nil
		s.mu.RUnlock()
		if loaded {
			return nil, nil
		}
		return s.Reload(ctx)
	})
	return err
}

// ensureFresh loads the mirror, or syncs it when it is older than the TTL.
func (s *Service) ensureFresh(ctx context.Context) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	if s.cfg.CacheTTL <= 0 {
		return nil
	}
	s.mu.RLock()
	stale := s.now().Sub(s.syncedAt) >= s.cfg.CacheTTL
	s.mu.RUnlock()
	if !stale {
		return nil
	}
	_, err, _ := s.group.Do("sync", func() (any, error) {
		return s.Sync(ctx, false)
	})
	return err
}

// Status reports the current state of the mirror.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	fp, err := codec.Fingerprint(s.root)
	if err != nil {
		return nil, err
	}
	st := &Status{
		Session:     s.cfg.Session,
		Document:    s.cfg.DocumentPath,
		Collections: make(map[string]int),
		Diagnostics: len(s.diags),
		Fingerprint: fp,
		SyncedAt:    s.syncedAt,
	}
	for _, name := range s.root.Names() {
		c, _ := s.root.Collection(name)
		st.Collections[name] = c.Len()
		st.Entities += c.Len()
	}
	return st, nil
}

// Collections returns the entity names of every mirrored collection.
func (s *Service) Collections(ctx context.Context) (map[string][]string, error) {
	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]string)
	for _, name := range s.root.Names() {
		c, _ := s.root.Collection(name)
		keys := c.Keys()
		if keys == nil {
			keys = []string{}
		}
		out[name] = keys
	}
	return out, nil
}

// Entity returns the readable view of one mirrored entity.
func (s *Service) Entity(ctx context.Context, collection, name string) (any, error) {
	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.root.Find(collection, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, name)
	}
	return codec.View(e), nil
}

// Query evaluates a JSONPath expression against the mirror.
func (s *Service) Query(ctx context.Context, path string) ([]any, error) {
	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, err := codec.Query(s.root, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if values == nil {
		values = []any{}
	}
	return values, nil
}

// Diagnostics returns the anomalies of the last load or sync.
func (s *Service) Diagnostics() []proxy.Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]proxy.Diagnostic{}, s.diags...)
}

// Snapshot persists the mirror. created is false when it matched the latest
// snapshot of the session.
func (s *Service) Snapshot(ctx context.Context) (snap *snapshot.Snapshot, created bool, err error) {
	if s.repo == nil {
		return nil, false, ErrSnapshotsDisabled
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	snap, created, err = s.repo.Save(ctx, s.cfg.Session, s.root)
	s.mu.RUnlock()

	switch {
	case err != nil:
		metrics.ObserveSnapshot(metrics.SnapshotError)
	case created:
		metrics.ObserveSnapshot(metrics.SnapshotStored)
	default:
		metrics.ObserveSnapshot(metrics.SnapshotUnchanged)
	}
	return snap, created, err
}

// History lists the stored snapshots of the session, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]snapshot.Snapshot, error) {
	if s.repo == nil {
		return nil, ErrSnapshotsDisabled
	}
	return s.repo.List(ctx, s.cfg.Session, limit)
}

// Export snapshots the mirror and uploads the snapshot to object storage.
// It returns the object key.
func (s *Service) Export(ctx context.Context) (string, error) {
	if s.exporter == nil {
		return "", ErrExportDisabled
	}
	snap, _, err := s.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return s.exporter.Export(ctx, snap)
}

// Restore replaces the mirror with the latest snapshot and writes it back onto
// the in-memory document. Entities missing from the document are skipped. It
// returns the diagnostics of the write.
func (s *Service) Restore(ctx context.Context) ([]proxy.Diagnostic, error) {
	if s.repo == nil {
		return nil, ErrSnapshotsDisabled
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	snap, err := s.repo.Latest(ctx, s.cfg.Session)
	if err != nil {
		return nil, err
	}
	root, err := snapshot.Restore(snap)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w := proxy.NewWriter(s.doc, s.logger, metrics.Hook())
	root.Save(w, s.doc, proxy.Key{})
	s.root, s.diags, s.syncedAt = root, w.Diagnostics(), s.now()

	s.logger.Info("Mirror restored",
		zap.String("fingerprint", snap.Fingerprint),
		zap.Int("diagnostics", len(s.diags)))
	return w.Diagnostics(), nil
}
