package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg, err := NewConfig("localhost:8000", []string{"http://localhost:3000"}, time.Hour, time.Hour)
		assert.NoError(t, err, "expected no error for valid config")
		assert.Equal(t, "localhost:8000", cfg.ServerAddr, "expected server address to be set")
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins, "expected allowed origins to be set")
		assert.Equal(t, time.Hour, cfg.ReapInterval, "expected reap interval to be set")
		assert.Equal(t, time.Hour, cfg.SessionIdleTimeout, "expected idle timeout to be set")
	})

	t.Run("empty server address", func(t *testing.T) {
		_, err := NewConfig("", nil, time.Hour, time.Hour)
		assert.Error(t, err, "expected error for empty server address")
	})

	t.Run("non-positive reap interval", func(t *testing.T) {
		_, err := NewConfig("localhost:8000", nil, 0, time.Hour)
		assert.Error(t, err, "expected error for non-positive reap interval")
	})

	t.Run("non-positive idle timeout", func(t *testing.T) {
		_, err := NewConfig("localhost:8000", nil, time.Hour, -time.Second)
		assert.Error(t, err, "expected error for non-positive idle timeout")
	})
}
