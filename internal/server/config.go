package server

import (
	"time"

	"github.com/devKoy/csv-version-compare/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix string

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Profile listing cache
	CacheTTL time.Duration

	// Request limits
	MaxUploadBytes int64

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults. CORS is open to all
// origins so browser front ends can upload files directly.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           8080,
		PathPrefix:     "/api/v1",
		CORSEnabled:    true,
		CORSOrigins:    []string{},
		CacheTTL:       5 * time.Minute,
		MaxUploadBytes: constants.MaxUploadBytes,
		ReadTimeout:    constants.DefaultReadTimeout,
		WriteTimeout:   constants.DefaultWriteTimeout,
		IdleTimeout:    constants.DefaultIdleTimeout,
	}
}
