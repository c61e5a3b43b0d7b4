package snapshot

import (
	"context"
	"errors"
	"fmt"

	"scene-mirror/core/codec"
	"scene-mirror/core/database"
	"scene-mirror/core/proxy"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a session has no snapshot.
var ErrNotFound = errors.New("snapshot not found")

// requiredColumns are the columns Verify expects in an existing table.
var requiredColumns = []string{"id", "session", "fingerprint", "collections", "payload", "created_at"}

// Repository persists snapshots with gorm.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRepository creates a repository over db.
func NewRepository(db *gorm.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Migrate creates or updates the snapshots table.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&Snapshot{}); err != nil {
		return fmt.Errorf("failed to migrate snapshots: %w", err)
	}
	return nil
}

// Verify checks that the snapshots table carries every column of the model.
func (r *Repository) Verify() error {
	missing, err := database.MissingColumns(r.db, Snapshot{}.TableName(), requiredColumns...)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("snapshots table is missing columns %v", missing)
	}
	return nil
}

// Save persists root for session. When the latest snapshot of the session has
// the same fingerprint, nothing is written and that snapshot is returned with
// created set to false.
func (r *Repository) Save(ctx context.Context, session string, root *proxy.Root) (snap *Snapshot, created bool, err error) {
	payload, err := codec.Marshal(root)
	if err != nil {
		return nil, false, err
	}
	fingerprint := codec.FingerprintBytes(payload)

	latest, err := r.Latest(ctx, session)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	if latest != nil && latest.Fingerprint == fingerprint {
		r.logger.Debug("Snapshot unchanged", zap.String("session", session), zap.String("fingerprint", fingerprint))
		return latest, false, nil
	}

	snap = &Snapshot{
		Session:     session,
		Fingerprint: fingerprint,
		Collections: len(root.NonEmptyCollections()),
		Payload:     payload,
	}
	if err := r.db.WithContext(ctx).Create(snap).Error; err != nil {
		return nil, false, fmt.Errorf("failed to save snapshot: %w", err)
	}
	r.logger.Info("Snapshot saved",
		zap.String("session", session),
		zap.String("fingerprint", fingerprint),
		zap.Int("bytes", len(payload)))
	return snap, true, nil
}

// Latest returns the most recent snapshot of session.
func (r *Repository) Latest(ctx context.Context, session string) (*Snapshot, error) {
	var snap Snapshot
	err := r.db.WithContext(ctx).
		Where("session = ?", session).
		Order("id DESC").
		First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	return &snap, nil
}

// List returns the snapshots of session, newest first, without their payload.
func (r *Repository) List(ctx context.Context, session string, limit int) ([]Snapshot, error) {
	var snaps []Snapshot
	q := r.db.WithContext(ctx).
		Select("id", "session", "fingerprint", "collections", "created_at").
		Where("session = ?", session).
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&snaps).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snaps, nil
}

// Restore decodes the proxy tree of a snapshot.
func Restore(s *Snapshot) (*proxy.Root, error) {
	p, err := codec.Unmarshal(s.Payload)
	if err != nil {
		return nil, err
	}
	root, ok := p.(*proxy.Root)
	if !ok {
		return nil, fmt.Errorf("snapshot %d holds a %s, not a root", s.ID, p.Kind())
	}
	return root, nil
}
