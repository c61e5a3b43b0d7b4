package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"scene-mirror/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Exporter copies snapshots to object storage.
type Exporter struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewExporter creates an exporter writing into bucket.
func NewExporter(client storage.Client, bucket string, logger *zap.Logger) *Exporter {
	return &Exporter{client: client, bucket: bucket, logger: logger}
}

// Export uploads the payload of s and returns its object key. The bucket is
// created when missing.
func (e *Exporter) Export(ctx context.Context, s *Snapshot) (string, error) {
	exists, err := e.client.BucketExists(ctx, e.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := e.client.MakeBucket(ctx, e.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("failed to create bucket %s: %w", e.bucket, err)
		}
	}

	key := s.ObjectKey()
	_, err = e.client.PutObject(
		ctx,
		e.bucket,
		key,
		bytes.NewReader(s.Payload),
		int64(len(s.Payload)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}
	e.logger.Info("Snapshot exported", zap.String("bucket", e.bucket), zap.String("key", key))
	return key, nil
}

// Fetch downloads an exported snapshot.
func (e *Exporter) Fetch(ctx context.Context, session, fingerprint string) (*Snapshot, error) {
	s := &Snapshot{Session: session, Fingerprint: fingerprint}
	obj, err := e.client.GetObject(ctx, e.bucket, s.ObjectKey(), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	defer obj.Close()

	s.Payload, err = io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return s, nil
}

// List returns the fingerprints exported for session.
func (e *Exporter) List(ctx context.Context, session string) ([]string, error) {
	prefix := "snapshots/" + session + "/"
	var fingerprints []string
	for obj := range e.client.ListObjects(ctx, e.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, prefix)
		if strings.HasSuffix(name, ".json") {
			fingerprints = append(fingerprints, strings.TrimSuffix(name, ".json"))
		}
	}
	return fingerprints, nil
}

// Delete removes one exported snapshot.
func (e *Exporter) Delete(ctx context.Context, session, fingerprint string) error {
	s := &Snapshot{Session: session, Fingerprint: fingerprint}
	if err := e.client.RemoveObject(ctx, e.bucket, s.ObjectKey(), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Purge removes every exported snapshot of session and returns how many were
// removed. Every failed removal is reported in the joined error.
func (e *Exporter) Purge(ctx context.Context, session string) (int, error) {
	prefix := "snapshots/" + session + "/"
	var keys []minio.ObjectInfo
	for obj := range e.client.ListObjects(ctx, e.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return 0, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		keys = append(keys, obj)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		objectsCh <- k
	}
	close(objectsCh)

	// the error channel is read to the end so the remover goroutine can exit
	var failures []error
	for rErr := range e.client.RemoveObjects(ctx, e.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		failures = append(failures, fmt.Errorf("failed to delete %s: %w", rErr.ObjectName, rErr.Err))
	}
	removed := len(keys) - len(failures)
	if removed < 0 {
		removed = 0
	}
	if len(failures) > 0 {
		e.logger.Warn("Snapshot purge incomplete", zap.String("session", session),
			zap.Int("removed", removed), zap.Int("failed", len(failures)))
		return removed, errors.Join(failures...)
	}
	e.logger.Info("Snapshots purged", zap.String("session", session), zap.Int("count", removed))
	return removed, nil
}
