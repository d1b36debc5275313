// Package constants provides shared constants used throughout csv-version-compare.
// This includes canonical column names, key presets, batch defaults, HTTP limits
// and file permissions that must stay consistent across packages.
package constants

import "time"

// Canonical column names. Every schema profile maps its source headers onto these.
const (
	ColumnOrderNo          = "OrderNo"
	ColumnStoreDescription = "StoreDescription"
	ColumnVLU              = "VLU"
	ColumnStyleNumber      = "StyleNumber"
	ColumnSize             = "Size"
	ColumnQtyOrdered       = "QtyOrdered"
	ColumnQtyReceived      = "QtyReceived"
	ColumnQtyDue           = "QtyDue"
)

// KeySentinel replaces blank key values so that two rows with missing key
// parts still match each other.
const KeySentinel = "NaN"

// Batch planning defaults
const (
	// DefaultBatchSize is the page size used to split large datasets
	DefaultBatchSize = 1000
)

// Timeout constants
const (
	// DefaultReadTimeout is the HTTP server read timeout
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the HTTP server write timeout
	DefaultWriteTimeout = 60 * time.Second

	// DefaultIdleTimeout is the HTTP server idle timeout
	DefaultIdleTimeout = 120 * time.Second

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout = 5 * time.Second
)

// Size limits
const (
	// MaxUploadBytes limits a single multipart request body (64 MiB)
	MaxUploadBytes = 64 << 20

	// MultipartMemory is the in-memory portion of a parsed multipart form
	MultipartMemory = 32 << 20
)

// File permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
