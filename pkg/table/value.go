// Package table holds the immutable row and dataset types shared by the
// schema normalizer, the differ, the aggregator and the batch planner.
package table

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/devKoy/csv-version-compare/pkg/constants"
)

// Kind identifies what a Value holds.
type Kind uint8

const (
	// KindEmpty marks an absent or blank cell.
	KindEmpty Kind = iota
	// KindString is free text.
	KindString
	// KindNumber is a numeric cell.
	KindNumber
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "empty"
	}
}

// Value is a single scalar cell. The zero Value is empty.
type Value struct {
	kind Kind
	str  string
	num  decimal.Decimal
}

// Null returns the empty value.
func Null() Value {
	return Value{}
}

// Str returns a string value. Blank strings are still strings; use Cell to
// treat blanks as empty.
func Str(s string) Value {
	return Value{kind: KindString, str: s}
}

// Num returns a numeric value.
func Num(d decimal.Decimal) Value {
	return Value{kind: KindNumber, num: d}
}

// Int returns a numeric value from an integer.
func Int(i int64) Value {
	return Num(decimal.NewFromInt(i))
}

// Float returns a numeric value from a float.
func Float(f float64) Value {
	return Num(decimal.NewFromFloat(f))
}

// Cell converts a raw text cell into a Value: surrounding whitespace is
// trimmed and blank cells become empty.
func Cell(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Null()
	}
	return Str(s)
}

// Kind reports what the value holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsEmpty reports whether the value is the absent marker.
func (v Value) IsEmpty() bool {
	return v.kind == KindEmpty
}

// String returns the canonical text form. Empty values render as "".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num.String()
	default:
		return ""
	}
}

// KeyPart returns the form used inside composite keys. Empty values and
// blank strings become the KeySentinel.
func (v Value) KeyPart() string {
	s := v.String()
	if strings.TrimSpace(s) == "" {
		return constants.KeySentinel
	}
	return s
}

// Equal compares two values. Empty equals only empty. When both sides read
// as numbers (text cells included, so "5" equals "5.0" and "1,000" equals
// "1000") they compare numerically; otherwise by canonical text.
func (v Value) Equal(o Value) bool {
	if v.kind == KindEmpty || o.kind == KindEmpty {
		return v.kind == o.kind
	}
	if vd, ok := v.Decimal(); ok {
		if od, ok := o.Decimal(); ok {
			return vd.Equal(od)
		}
	}
	return v.String() == o.String()
}

// Decimal returns the numeric form of the value. Strings are parsed after
// removing thousands separators; ok is false when no number can be read.
func (v Value) Decimal() (decimal.Decimal, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		s := strings.ReplaceAll(strings.TrimSpace(v.str), ",", "")
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// MarshalJSON renders numbers as JSON numbers, strings as strings and
// empty values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return []byte(v.num.String()), nil
	case KindString:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts JSON strings, numbers, booleans and null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Null()
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Cell(s)
		return nil
	case 't', 'f':
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return err
		}
		*v = Str(strconv.FormatBool(b))
		return nil
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return err
		}
		*v = Num(d)
		return nil
	}
}

// MarshalYAML renders the value for YAML output.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindNumber:
		if v.num.IsInteger() {
			return v.num.IntPart(), nil
		}
		return v.num.InexactFloat64(), nil
	case KindString:
		return v.str, nil
	default:
		return nil, nil
	}
}
