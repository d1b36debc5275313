// Package app provides the application context and dependency management
// for the csvcompare CLI. It centralizes configuration, logging and the
// schema profile registry shared by every command.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/devKoy/csv-version-compare/cmd/application"
	"github.com/devKoy/csv-version-compare/pkg/errors"
	"github.com/devKoy/csv-version-compare/pkg/schema"
)

// App represents the csvcompare application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Profile registry (lazy-initialized, singleton)
	mu       sync.RWMutex
	profiles *schema.Registry
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with configuration from files and environment
// that can be customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Defaults returns the engine defaults from the configuration.
func (a *App) Defaults() application.Defaults {
	return application.Defaults{
		Profile:       a.config.Profile,
		Key:           a.config.KeyColumns,
		CompareFields: a.config.CompareFields,
		BatchSize:     a.config.BatchSize,
		StyleColumn:   a.config.StyleColumn,
		Parallelism:   a.config.Parallelism,
	}
}

// Profiles returns the profile registry, loading the configured profiles
// file on first use. This is thread-safe and loads at most once.
func (a *App) Profiles() (*schema.Registry, error) {
	a.mu.RLock()
	if a.profiles != nil {
		r := a.profiles
		a.mu.RUnlock()
		return r, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.profiles != nil {
		return a.profiles, nil
	}

	registry := schema.NewRegistry()
	if path := a.config.ProfilesFile; path != "" {
		if err := registry.LoadFile(path); err != nil {
			return nil, err
		}
		a.logger.Debug().
			Str("path", path).
			Int("profiles", len(registry.List())).
			Msg("Loaded profiles file")
	}

	a.profiles = registry
	return registry, nil
}

// Shutdown performs graceful shutdown of the application. Comparisons hold
// no background resources, so only the registry is released.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	a.profiles = nil
	a.mu.Unlock()
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithProfiles sets a custom profile registry (useful for testing).
func WithProfiles(registry *schema.Registry) Option {
	return func(a *App) error {
		a.profiles = registry
		return nil
	}
}

// HTTPDefaults returns the configured listen address for the serve command.
func (a *App) HTTPDefaults() (string, int) {
	return a.config.HTTPHost, a.config.HTTPPort
}
