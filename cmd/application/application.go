// Package application provides the application interface for csvcompare
// commands and the HTTP server.
//
// The Application interface is the contract between the application layer
// and command implementations. Commands accept it rather than the concrete
// App type so they can be tested with internal/cmd/application.Mock.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            profiles, err := app.Profiles()
//	            if err != nil {
//	                return err
//	            }
//	            // ... normalize and compare
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/devKoy/csv-version-compare/pkg/schema"
)

// Application provides what commands and handlers need from the app.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Profiles returns the schema profile registry: the built-in profiles
	// plus any loaded from the configured profiles file.
	Profiles() (*schema.Registry, error)

	// Defaults returns engine defaults resolved from config files and
	// environment. Command flags override them.
	Defaults() Defaults

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// Defaults holds engine settings shared by the CLI and the server.
type Defaults struct {
	Profile       string
	Key           string
	CompareFields []string
	BatchSize     int
	StyleColumn   string
	Parallelism   int
}
