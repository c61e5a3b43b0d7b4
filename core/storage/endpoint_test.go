package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantHost   string
		wantSecure bool
		wantErr    bool
	}{
		{"Bare host", Config{Endpoint: "localhost:9000"}, "localhost:9000", false, false},
		{"Bare host with ssl", Config{Endpoint: "minio.internal:9000", UseSSL: true}, "minio.internal:9000", true, false},
		{"Trailing slash", Config{Endpoint: "localhost:9000/"}, "localhost:9000", false, false},
		{"Http scheme", Config{Endpoint: "http://localhost:9000"}, "localhost:9000", false, false},
		{"Https scheme", Config{Endpoint: "https://s3.example.com"}, "s3.example.com", true, false},
		{"Empty", Config{Endpoint: "  "}, "", false, true},
		{"Unsupported scheme", Config{Endpoint: "ftp://files"}, "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, secure, err := endpoint(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantSecure, secure)
		})
	}
}

func TestTransport(t *testing.T) {
	tr := transport(0)
	assert.Equal(t, 30*time.Second, tr.ResponseHeaderTimeout)
	assert.Equal(t, 30*time.Second, tr.TLSHandshakeTimeout)

	tr = transport(5 * time.Second)
	assert.Equal(t, 5*time.Second, tr.ResponseHeaderTimeout)
	assert.Equal(t, 16, tr.MaxIdleConnsPerHost)
}
