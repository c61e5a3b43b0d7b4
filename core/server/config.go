package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Host is the interface the server binds to. Empty means all interfaces.
	Host string `mapstructure:"host" default:""`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080" validate:"required,numeric"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// MetricsPath is the route serving Prometheus metrics. Empty disables it.
	MetricsPath string `mapstructure:"metrics_path" default:"/metrics"`
	// ShutdownSeconds bounds the graceful shutdown.
	ShutdownSeconds int `mapstructure:"shutdown_seconds" default:"10" validate:"gte=0"`
}

// Address returns the listen address for the server.
func (c Config) Address() string {
	return c.Host + ":" + c.Port
}

// MetricsEnabled reports whether the metrics route is served.
func (c Config) MetricsEnabled() bool {
	return c.MetricsPath != ""
}
