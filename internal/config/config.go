package config

import (
	"fmt"
	"time"
)

const (
	// DefaultReapInterval is how often the idle-session reaper sweeps.
	DefaultReapInterval = time.Hour
	// DefaultSessionIdleTimeout is how long an empty legacy session may
	// sit without activity before being reaped.
	DefaultSessionIdleTimeout = time.Hour
)

type Config struct {
	ServerAddr         string
	AllowedOrigins     []string
	ReapInterval       time.Duration
	SessionIdleTimeout time.Duration
}

func NewConfig(serverAddr string, allowedOrigins []string, reapInterval, sessionIdleTimeout time.Duration) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if reapInterval <= 0 {
		return nil, fmt.Errorf("reap interval must be positive")
	}
	if sessionIdleTimeout <= 0 {
		return nil, fmt.Errorf("session idle timeout must be positive")
	}

	return &Config{
		ServerAddr:         serverAddr,
		AllowedOrigins:     allowedOrigins,
		ReapInterval:       reapInterval,
		SessionIdleTimeout: sessionIdleTimeout,
	}, nil
}
