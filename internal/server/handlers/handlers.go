// Package handlers provides HTTP request handlers for the csv-version-compare
// API. Every handler is stateless: uploads are parsed, processed and
// discarded within the request.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/devKoy/csv-version-compare/cmd/application"
	"github.com/devKoy/csv-version-compare/internal/server/cache"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app       application.Application
	cache     *cache.Cache
	logger    *zerolog.Logger
	startTime time.Time
	maxUpload int64
}

// New creates a new Handlers instance.
func New(
	app application.Application,
	cache *cache.Cache,
	logger *zerolog.Logger,
	startTime time.Time,
	maxUpload int64,
) *Handlers {
	return &Handlers{
		app:       app,
		cache:     cache,
		logger:    logger,
		startTime: startTime,
		maxUpload: maxUpload,
	}
}
