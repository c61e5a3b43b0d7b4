package storage

// Config holds configuration for the object storage holding exported snapshots.
type Config struct {
	// Endpoint is the address of the storage service, with or without scheme.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL enables TLS for a bare endpoint; an https:// endpoint always uses it.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket receives exported snapshots.
	Bucket string `mapstructure:"bucket" default:"scene-mirror" validate:"required"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
