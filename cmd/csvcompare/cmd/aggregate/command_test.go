package aggregate

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mockapp "github.com/devKoy/csv-version-compare/internal/cmd/application"
)

const lines = "OrderNo,QtyOrdered,QtyReceived,QtyDue\n" +
	"PO-10,5,2,3\n" +
	"PO-9,4,4,0\n" +
	"PO-10,1,0,n/a\n"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "po.csv")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	cmd := NewCommand(&mockapp.Mock{})
	var out, stderr bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{path}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAggregateCommand(t *testing.T) {
	out, err := run(t)
	require.NoError(t, err)

	var summaries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "PO-9", summaries[0]["OrderNo"])
	assert.Equal(t, "PO-10", summaries[1]["OrderNo"])
	assert.EqualValues(t, 6, summaries[1]["QtyOrdered"])
	assert.EqualValues(t, 2, summaries[1]["QtyReceived"])
	assert.EqualValues(t, 4, summaries[1]["QtyDue"])
}

func TestAggregateCommandOrder(t *testing.T) {
	out, err := run(t, "--order", "PO-10")
	require.NoError(t, err)
	assert.Equal(t, "4", strings.TrimSpace(out))

	out, err = run(t, "--order", "PO-404")
	require.NoError(t, err)
	assert.Equal(t, "0", strings.TrimSpace(out))
}

func TestAggregateCommandGroupMissing(t *testing.T) {
	_, err := run(t, "--group", "Warehouse")
	assert.Error(t, err)
}
