// Package config provides configuration management for the scene mirror.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file, with defaults taken from the `default` struct tags, and
// validates the result with go-playground/validator.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP listen address, API key, metrics route
//   - Database: snapshot database (sqlite or MySQL)
//   - Storage: S3/MinIO credentials and the export bucket
//   - Log: Logging level and format
//   - Mirror: scene document, session name, traversal depth, cache TTL, filter
//
// Nested keys map to upper-case environment variables joined by underscores,
// e.g. MIRROR_MAX_DEPTH sets mirror.max_depth.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Mirror.DocumentPath)
package config
