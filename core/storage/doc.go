// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface, which snapshot
// export uses to upload, download, list and remove serialized proxy trees.
// Both AWS S3 and self-hosted MinIO are supported.
//
// Tests replace the client with the testify mock in core/storage/mocks.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
