package server_test

import (
	"testing"

	"scene-mirror/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Address(t *testing.T) {
	tests := []struct {
		name string
		cfg  server.Config
		want string
	}{
		{"All interfaces", server.Config{Port: "8080"}, ":8080"},
		{"Loopback", server.Config{Host: "127.0.0.1", Port: "9000"}, "127.0.0.1:9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Address())
		})
	}
}

func TestConfig_MetricsEnabled(t *testing.T) {
	assert.True(t, server.Config{MetricsPath: "/metrics"}.MetricsEnabled())
	assert.False(t, server.Config{}.MetricsEnabled())
}
