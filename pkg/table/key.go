package table

import (
	"strings"

	"github.com/devKoy/csv-version-compare/pkg/constants"
	"github.com/devKoy/csv-version-compare/pkg/errors"
)

// Key is an ordered tuple of column names identifying a logical record
// across two versions of a dataset.
type Key []string

// Key presets observed in purchase-order exports.
var (
	KeyOrderStore    = Key{constants.ColumnOrderNo, constants.ColumnStoreDescription}
	KeyOrderVLU      = Key{constants.ColumnOrderNo, constants.ColumnVLU}
	KeyOrderVLUStyle = Key{constants.ColumnOrderNo, constants.ColumnVLU, constants.ColumnStyleNumber}
)

// DefaultKey is the key used when the caller does not name one.
var DefaultKey = KeyOrderStore

// keySeparator cannot appear in spreadsheet cells.
const keySeparator = "\x1f"

// ParseKey parses a comma-separated column list. Preset names are accepted:
// "order-store", "order-vlu" and "order-vlu-style".
func ParseKey(s string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultKey, nil
	case "order-store":
		return KeyOrderStore, nil
	case "order-vlu":
		return KeyOrderVLU, nil
	case "order-vlu-style":
		return KeyOrderVLUStyle, nil
	}
	var key Key
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			key = append(key, part)
		}
	}
	if len(key) == 0 {
		return nil, errors.NewValidationError("key", s, "no key columns given")
	}
	return key, nil
}

// String returns the comma-separated column list.
func (k Key) String() string {
	return strings.Join(k, ",")
}

// Tuple returns the row's key tuple as a single comparable string. Blank
// parts are replaced by the KeySentinel.
func (k Key) Tuple(r Row) string {
	parts := make([]string, len(k))
	for i, col := range k {
		parts[i] = r.Value(col).KeyPart()
	}
	return strings.Join(parts, keySeparator)
}

// Validate checks that every key column is present in the dataset.
func (k Key) Validate(d Dataset, role string) error {
	if len(k) == 0 {
		return errors.NewValidationError("key", nil, "no key columns given")
	}
	for _, col := range k {
		if !d.HasColumn(col) {
			return errors.NewSchemaError(d.Name, col, role)
		}
	}
	return nil
}
