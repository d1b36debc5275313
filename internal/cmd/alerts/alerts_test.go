package alerts

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devKoy/csv-version-compare/internal/cmd/output"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		level Level
		name  string
		icon  string
	}{
		{LevelError, "error", "✗"},
		{LevelWarning, "warning", "!"},
		{LevelInfo, "info", "i"},
		{LevelSuccess, "success", "✓"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.level.String())
		assert.Equal(t, tt.icon, tt.level.Icon())
	}
	assert.Equal(t, "unknown(9)", Level(9).String())
}

func TestAlertString(t *testing.T) {
	a := NewError("compare failed").WithError(errors.New("boom"))
	assert.Equal(t, "✗ compare failed: boom", a.String())
}

func TestFormatWriterPlain(t *testing.T) {
	var buf bytes.Buffer
	w := NewFormatWriter(&buf, output.FormatTable)

	alert := NewWarning("2 rows are not covered by any window").WithDetails("rows: 3, 7")
	require.NoError(t, w.WriteAlert(alert))
	assert.Equal(t, "! 2 rows are not covered by any window\n   rows: 3, 7\n", buf.String())

	buf.Reset()
	w.WithConfig(WriterConfig{UseColor: true})
	require.NoError(t, w.WriteAlert(NewSuccess("done")))
	assert.Equal(t, "\033[32m✓ done\033[0m\n", buf.String())
}

func TestFormatWriterStructured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatWriter(&buf, output.FormatJSON).WriteAlert(NewInfo("hello").WithDetails("a")))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "info", decoded["level"])
	assert.Equal(t, "hello", decoded["message"])
	assert.NotContains(t, decoded, "timestamp")

	buf.Reset()
	require.NoError(t, NewFormatWriter(&buf, output.FormatYAML).WriteAlert(NewError("x")))
	assert.Contains(t, buf.String(), "level: error")
}

func TestDiscardWriter(t *testing.T) {
	assert.NoError(t, DiscardWriter.WriteAlert(NewInfo("ignored")))
}
