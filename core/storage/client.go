package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client is the part of the object store the snapshot exporter talks to.
// *minio.Client satisfies it through NewClient; tests use mocks.Client.
type Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	// GetObject returns the object body; reading it performs the request.
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	// RemoveObjects consumes objectsCh and reports failures on the returned
	// channel, which the caller must read until it is closed.
	RemoveObjects(ctx context.Context, bucketName string, objectsCh <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError
}

// NewClient builds a minio client for cfg. Nothing is dialed until the first
// call.
func NewClient(cfg Config) (Client, error) {
	host, secure, err := endpoint(cfg)
	if err != nil {
		return nil, err
	}
	mc, err := minio.New(host, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    secure,
		Region:    cfg.Region,
		Transport: transport(time.Duration(cfg.TimeoutSeconds) * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client for %s: %w", host, err)
	}
	return &minioClient{Client: mc}, nil
}

// endpoint splits the configured endpoint into the host minio expects and
// whether TLS is used. An https scheme turns TLS on regardless of UseSSL.
func endpoint(cfg Config) (string, bool, error) {
	raw := strings.TrimSpace(cfg.Endpoint)
	if raw == "" {
		return "", false, fmt.Errorf("storage endpoint is empty")
	}
	if !strings.Contains(raw, "://") {
		return strings.TrimSuffix(raw, "/"), cfg.UseSSL, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false, fmt.Errorf("invalid storage endpoint %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http":
		return u.Host, cfg.UseSSL, nil
	case "https":
		return u.Host, true, nil
	}
	return "", false, fmt.Errorf("invalid storage endpoint %q: unsupported scheme %q", raw, u.Scheme)
}

// transport derives from the default transport and bounds every phase of a
// request by timeout (30s when unset).
func transport(timeout time.Duration) *http.Transport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.TLSHandshakeTimeout = timeout
	t.ResponseHeaderTimeout = timeout
	t.MaxIdleConnsPerHost = 16
	return t
}

// minioClient narrows GetObject to an io.ReadCloser.
type minioClient struct {
	*minio.Client
}

func (c *minioClient) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucketName, objectName, opts)
}
