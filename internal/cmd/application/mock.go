package application

import (
	"github.com/rs/zerolog"

	"github.com/devKoy/csv-version-compare/cmd/application"
	"github.com/devKoy/csv-version-compare/pkg/constants"
	"github.com/devKoy/csv-version-compare/pkg/schema"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    LoggerFunc: func() *zerolog.Logger {
//	        logger := zerolog.Nop()
//	        return &logger
//	    },
//	}
//	cmd := compare.NewCommand(mock)
type Mock struct {
	ProfilesFunc     func() (*schema.Registry, error)
	DefaultsFunc     func() application.Defaults
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

var _ application.Application = (*Mock)(nil)

// Profiles returns the registry from the mock function or the built-ins.
func (m *Mock) Profiles() (*schema.Registry, error) {
	if m.ProfilesFunc != nil {
		return m.ProfilesFunc()
	}
	return schema.NewRegistry(), nil
}

// Defaults returns defaults from the mock function or the package defaults.
func (m *Mock) Defaults() application.Defaults {
	if m.DefaultsFunc != nil {
		return m.DefaultsFunc()
	}
	return application.Defaults{
		Profile:     schema.ProfileCanonical,
		BatchSize:   constants.DefaultBatchSize,
		StyleColumn: constants.ColumnVLU,
	}
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
