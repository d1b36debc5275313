package differ_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devKoy/csv-version-compare/internal/utils/ptr"
	"github.com/devKoy/csv-version-compare/pkg/differ"
	"github.com/devKoy/csv-version-compare/pkg/errors"
	"github.com/devKoy/csv-version-compare/pkg/logging"
	"github.com/devKoy/csv-version-compare/pkg/schema"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

var header = []string{"OrderNo", "StoreDescription", "VLU", "QtyOrdered", "QtyReceived"}

func dataset(name string, records ...[]string) table.Dataset {
	return table.FromRecords(name, header, records)
}

func types(res *differ.Result) []differ.UpdateType {
	out := make([]differ.UpdateType, len(res.Rows))
	for i, r := range res.Rows {
		out[i] = r.UpdateType
	}
	return out
}

func TestCompareDisjoint(t *testing.T) {
	old := dataset("old",
		[]string{"1", "A", "V1", "5", "0"},
		[]string{"2", "B", "V2", "3", "0"},
	)
	updated := dataset("updated",
		[]string{"3", "C", "V3", "1", "0"},
		[]string{"4", "D", "V4", "2", "0"},
	)

	res, err := differ.Compare(context.Background(), old, updated)
	require.NoError(t, err)

	assert.Equal(t, 2, res.NewCount)
	assert.Equal(t, 2, res.RemovedCount)
	assert.Equal(t, 0, res.UpdatedCount)
	assert.Equal(t, 0, res.UnchangedCount)
	assert.Equal(t, []differ.UpdateType{differ.New, differ.New, differ.Removed, differ.Removed}, types(res))
	assert.Equal(t, "3", res.Rows[0].Value("OrderNo").String())
	assert.Equal(t, "1", res.Rows[2].Value("OrderNo").String(), "removed rows carry the old row")
}

func TestCompareSelf(t *testing.T) {
	ds := dataset("po",
		[]string{"1", "A", "V1", "5", "0"},
		[]string{"1", "A", "V2", "6", "0"},
		[]string{"2", "B", "V3", "3", "1"},
	)

	res, err := differ.Compare(context.Background(), ds, ds)
	require.NoError(t, err)

	assert.Equal(t, 3, res.UnchangedCount)
	assert.False(t, res.HasChanges())
	assert.Empty(t, res.Rows)
}

func TestCompareUpdatedQuantity(t *testing.T) {
	old := dataset("old", []string{"1", "A", "V1", "5", "0"})
	updated := dataset("updated", []string{"1", "A", "V1", "8", "0"})

	res, err := differ.Compare(context.Background(), old, updated, differ.WithFieldChanges(true))
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Equal(t, differ.Updated, row.UpdateType)
	assert.Equal(t, "8", row.Value("QtyOrdered").String(), "updated rows carry the new values")
	assert.Equal(t, 0, row.OldIndex)
	require.Len(t, row.Changes, 1)
	assert.Equal(t, "replace", row.Changes[0].Type)
	assert.Equal(t, "/QtyOrdered", row.Changes[0].Path)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.EqualValues(t, 1, decoded["updated_count"])
	rows := decoded["result"].([]any)
	first := rows[0].(map[string]any)
	assert.Equal(t, "Updated", first["Update Type"])
	assert.Equal(t, "8", first["QtyOrdered"])
	assert.Contains(t, first, "Changes")
}

func TestCompareDuplicateKeysPairInOrder(t *testing.T) {
	old := dataset("old",
		[]string{"1", "A", "V1", "1", "0"},
		[]string{"1", "A", "V2", "2", "0"},
	)
	updated := dataset("updated",
		[]string{"1", "A", "V1", "1", "0"},
		[]string{"1", "A", "V2", "2", "0"},
		[]string{"1", "A", "V3", "3", "0"},
	)

	res, err := differ.Compare(context.Background(), old, updated, differ.WithUnchangedRows(true))
	require.NoError(t, err)

	assert.Equal(t, []differ.UpdateType{differ.Unchanged, differ.Unchanged, differ.New}, types(res))
	assert.Equal(t, 0, res.Rows[0].OldIndex)
	assert.Equal(t, 1, res.Rows[1].OldIndex)
	assert.Equal(t, -1, res.Rows[2].OldIndex)
}

func TestCompareDuplicateOldRowsClaimedOnce(t *testing.T) {
	old := dataset("old",
		[]string{"1", "A", "V1", "5", "0"},
		[]string{"1", "A", "V1", "5", "0"},
	)
	updated := dataset("updated", []string{"1", "A", "V1", "5", "0"})

	res, err := differ.Compare(context.Background(), old, updated)
	require.NoError(t, err)
	assert.Equal(t, 1, res.UnchangedCount)
	assert.Equal(t, 1, res.RemovedCount)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 1, res.Rows[0].OldIndex, "the second old row is left over")
}

// An updated row is paired with the first unclaimed old row sharing its key,
// even when a later candidate would be an exact match.
func TestCompareFirstCandidateOnly(t *testing.T) {
	old := dataset("old",
		[]string{"1", "A", "V1", "1", "0"},
		[]string{"1", "A", "V1", "2", "0"},
	)
	updated := dataset("updated",
		[]string{"1", "A", "V1", "2", "0"},
	)

	res, err := differ.Compare(context.Background(), old, updated)
	require.NoError(t, err)

	assert.Equal(t, 1, res.UpdatedCount)
	assert.Equal(t, 1, res.RemovedCount)
	assert.Equal(t, 0, res.UnchangedCount)
	assert.Equal(t, 0, res.Rows[0].OldIndex)
	assert.Equal(t, 1, res.Rows[1].OldIndex)
}

func TestCompareBlankKeysMatch(t *testing.T) {
	old := dataset("old", []string{"", "A", "V1", "1", "0"})
	updated := dataset("updated", []string{" ", "A", "V1", "1", "0"})

	res, err := differ.Compare(context.Background(), old, updated)
	require.NoError(t, err)
	assert.Equal(t, 1, res.UnchangedCount)
	assert.Empty(t, res.Rows)
}

func TestCompareFields(t *testing.T) {
	old := dataset("old", []string{"1", "A", "V1", "5", "0"})
	updated := dataset("updated", []string{"1", "A", "V9", "5", "0"})

	t.Run("all shared columns", func(t *testing.T) {
		res, err := differ.Compare(context.Background(), old, updated)
		require.NoError(t, err)
		assert.Equal(t, 1, res.UpdatedCount)
	})

	t.Run("quantity fields ignore other columns", func(t *testing.T) {
		ext := []string{"OrderNo", "StoreDescription", "VLU", "QtyOrdered", "QtyReceived", "QtyDue", "Size"}
		o := table.FromRecords("old", ext, [][]string{{"1", "A", "V1", "5", "0", "5", "M"}})
		u := table.FromRecords("updated", ext, [][]string{{"1", "A", "V9", "5", "0", "5", "M"}})
		res, err := differ.Compare(context.Background(), o, u, differ.WithCompareFields(differ.QuantityFields...))
		require.NoError(t, err)
		assert.Equal(t, 1, res.UnchangedCount)
		assert.Equal(t, 0, res.UpdatedCount)
	})

	t.Run("compare field on one side only", func(t *testing.T) {
		o := table.FromRecords("old", []string{"OrderNo", "StoreDescription"}, [][]string{{"1", "A"}})
		u := table.FromRecords("updated", []string{"OrderNo", "StoreDescription", "QtyDue"}, [][]string{{"1", "A", "3"}})
		res, err := differ.Compare(context.Background(), o, u, differ.WithCompareFields("QtyDue"))
		require.NoError(t, err)
		assert.Equal(t, 1, res.UpdatedCount)
	})

	t.Run("compare field missing from both", func(t *testing.T) {
		_, err := differ.Compare(context.Background(), old, updated, differ.WithCompareFields("QtyDue"))
		require.Error(t, err)
		assert.True(t, errors.IsSchemaError(err))
	})
}

func TestCompareErrors(t *testing.T) {
	old := dataset("old", []string{"1", "A", "V1", "5", "0"})
	noStore := table.FromRecords("updated", []string{"OrderNo", "VLU"}, [][]string{{"1", "V1"}})

	t.Run("missing key column", func(t *testing.T) {
		_, err := differ.Compare(context.Background(), old, noStore)
		require.Error(t, err)
		var schemaErr *errors.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "StoreDescription", schemaErr.Column)
		assert.Equal(t, "updated", schemaErr.Dataset)
	})

	t.Run("negative start", func(t *testing.T) {
		_, err := differ.Compare(context.Background(), old, old, differ.WithWindow(-1, nil))
		require.Error(t, err)
		assert.True(t, errors.IsOutOfRange(err))
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := differ.Compare(context.Background(), old, old, differ.WithKey(table.Key{}))
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := differ.Compare(ctx, old, old)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCompareWindow(t *testing.T) {
	old := dataset("old",
		[]string{"1", "A", "V1", "1", "0"},
		[]string{"2", "B", "V2", "1", "0"},
		[]string{"3", "C", "V3", "1", "0"},
	)
	updated := dataset("updated",
		[]string{"2", "B", "V2", "1", "0"},
		[]string{"3", "C", "V3", "2", "0"},
		[]string{"4", "D", "V4", "1", "0"},
		[]string{"5", "E", "V5", "1", "0"},
	)

	tests := []struct {
		name      string
		start     int
		end       *int
		wantTypes []differ.UpdateType
		wantEnd   int
	}{
		{"full", 0, nil, []differ.UpdateType{differ.Updated, differ.New, differ.New, differ.Removed}, 4},
		{"first two", 0, ptr.To(2), []differ.UpdateType{differ.Updated, differ.Removed}, 2},
		{"tail", 2, nil, []differ.UpdateType{differ.New, differ.New}, 4},
		{"end clamped", 3, ptr.To(100), []differ.UpdateType{differ.New}, 4},
		{"start beyond data", 10, nil, []differ.UpdateType{}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := differ.Compare(context.Background(), old, updated, differ.WithWindow(tt.start, tt.end))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTypes, types(res))
			assert.Equal(t, tt.start, res.WindowStart)
			assert.Equal(t, tt.wantEnd, res.WindowEnd)
			assert.Equal(t, 3, res.OldRowCount)
			assert.Equal(t, 4, res.UpdatedRowCount)
		})
	}
}

// Concatenating consecutive windows yields exactly the rows of one
// unwindowed comparison.
func TestComparePagingMatchesFull(t *testing.T) {
	var oldRecs, updRecs [][]string
	for i := 0; i < 23; i++ {
		oldRecs = append(oldRecs, []string{fmt.Sprint(i % 7), "S", fmt.Sprint("V", i), fmt.Sprint(i), "0"})
	}
	for i := 0; i < 29; i++ {
		updRecs = append(updRecs, []string{fmt.Sprint(i % 9), "S", fmt.Sprint("V", i), fmt.Sprint(i % 5), "0"})
	}
	old := table.FromRecords("old", header, oldRecs)
	updated := table.FromRecords("updated", header, updRecs)

	full, err := differ.Compare(context.Background(), old, updated, differ.WithUnchangedRows(true))
	require.NoError(t, err)

	type emitted struct {
		typ   differ.UpdateType
		index int
	}
	collect := func(rows []differ.AnnotatedRow) []emitted {
		out := make([]emitted, len(rows))
		for i, r := range rows {
			out[i] = emitted{r.UpdateType, r.Index}
		}
		return out
	}

	var paged []emitted
	var counts [4]int
	for start := 0; start < 29; start += 4 {
		res, err := differ.Compare(context.Background(), old, updated,
			differ.WithWindow(start, ptr.To(start+4)),
			differ.WithUnchangedRows(true))
		require.NoError(t, err)
		paged = append(paged, collect(res.Rows)...)
		counts[0] += res.NewCount
		counts[1] += res.UpdatedCount
		counts[2] += res.RemovedCount
		counts[3] += res.UnchangedCount
	}

	want := collect(full.Rows)
	less := func(s []emitted) func(i, j int) bool {
		return func(i, j int) bool {
			if s[i].typ != s[j].typ {
				return s[i].typ < s[j].typ
			}
			return s[i].index < s[j].index
		}
	}
	sort.Slice(want, less(want))
	sort.Slice(paged, less(paged))
	assert.Equal(t, want, paged)
	assert.Equal(t, [4]int{full.NewCount, full.UpdatedCount, full.RemovedCount, full.UnchangedCount}, counts)
}

func TestCompareParallelMatchesSequential(t *testing.T) {
	var oldRecs, updRecs [][]string
	for i := 0; i < 200; i++ {
		oldRecs = append(oldRecs, []string{fmt.Sprint(i % 40), "S", "V", fmt.Sprint(i % 3), "0"})
		updRecs = append(updRecs, []string{fmt.Sprint(i % 50), "S", "V", fmt.Sprint(i % 4), "0"})
	}
	old := table.FromRecords("old", header, oldRecs)
	updated := table.FromRecords("updated", header, updRecs)

	seq, err := differ.Compare(context.Background(), old, updated,
		differ.WithParallelism(1), differ.WithFieldChanges(true), differ.WithUnchangedRows(true))
	require.NoError(t, err)
	par, err := differ.Compare(context.Background(), old, updated,
		differ.WithParallelism(8), differ.WithFieldChanges(true), differ.WithUnchangedRows(true))
	require.NoError(t, err)

	seq.TotalTimeSeconds, par.TotalTimeSeconds = 0, 0
	a, err := json.Marshal(seq)
	require.NoError(t, err)
	b, err := json.Marshal(par)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestCompareStyles(t *testing.T) {
	old := dataset("old", []string{"1", "A", "V1", "5", "0"})
	updated := dataset("updated",
		[]string{"1", "A", "V1", "6", "0"},
		[]string{"2", "B", "V2", "1", "0"},
	)
	styles := differ.StyleMap{"V1": "Summer Dress"}

	res, err := differ.Compare(context.Background(), old, updated, differ.WithStyles(styles, ""))
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Summer Dress", res.Rows[0].Style)
	assert.Empty(t, res.Rows[1].Style)

	body, err := json.Marshal(res.Rows[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), `"Style":"Summer Dress"`)
}

func TestStylesFromDataset(t *testing.T) {
	ds := table.FromRecords("styles.csv", []string{"VLU", "StyleName"}, [][]string{
		{"V1", "Dress"},
		{"V2", ""},
		{"V1", "Gown"},
	})
	styles, err := differ.StylesFromDataset(ds, "", "StyleName")
	require.NoError(t, err)
	assert.Equal(t, differ.StyleMap{"V1": "Gown"}, styles)

	_, err = differ.StylesFromDataset(ds, "", "Label")
	assert.True(t, errors.IsSchemaError(err))
}

func TestResultFilterAndSummary(t *testing.T) {
	old := dataset("old", []string{"1", "A", "V1", "5", "0"}, []string{"2", "B", "V2", "1", "0"})
	updated := dataset("updated", []string{"1", "A", "V1", "6", "0"}, []string{"3", "C", "V3", "1", "0"})

	res, err := differ.Compare(context.Background(), old, updated)
	require.NoError(t, err)

	only := res.Filter(differ.Removed)
	require.Len(t, only.Rows, 1)
	assert.Equal(t, differ.Removed, only.Rows[0].UpdateType)
	assert.Equal(t, 1, only.NewCount, "counters are kept")
	assert.Len(t, res.Rows, 3, "original is untouched")

	assert.Contains(t, res.String(), "New: 1, Updated: 1, Removed: 1")
	assert.Equal(t, header, res.Columns())
}

func TestParseUpdateTypes(t *testing.T) {
	got, err := differ.ParseUpdateTypes("new, Removed")
	require.NoError(t, err)
	assert.Equal(t, []differ.UpdateType{differ.New, differ.Removed}, got)

	_, err = differ.ParseUpdateTypes("moved")
	assert.True(t, errors.IsValidationError(err))
}

func TestCompareLogsSummary(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ds := dataset("po", []string{"1", "A", "V1", "5", "0"})

	_, err := differ.Compare(ctx, ds, ds)
	require.NoError(t, err)
	entry, ok := tl.Find("Compared datasets")
	require.True(t, ok, tl.Output())
	assert.Equal(t, int64(1), entry.Get("unchanged").Int())
	assert.Equal(t, int64(0), entry.Get("new").Int())
}

func TestNewDiffer(t *testing.T) {
	old := dataset("old", []string{"1", "A", "V1", "5", "0"})
	updated := dataset("updated",
		[]string{"1", "A", "V1", "5", "0"},
		[]string{"2", "B", "V2", "1", "0"},
	)

	d := differ.NewDiffer(differ.WithUnchangedRows(true))
	res, err := d.Compare(context.Background(), old, updated)
	require.NoError(t, err)
	assert.Equal(t, []differ.UpdateType{differ.Unchanged, differ.New}, types(res))
}

func TestCompareNumericTextIsNumeric(t *testing.T) {
	tests := []struct {
		name     string
		old, upd string
		want     differ.UpdateType
	}{
		{"trailing zero", "5", "5.0", differ.Unchanged},
		{"thousands separator", "1,000", "1000", differ.Unchanged},
		{"changed quantity", "5", "5.5", differ.Updated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := dataset("old", []string{"1", "A", "V1", tt.old, "0"})
			updated := dataset("updated", []string{"1", "A", "V1", tt.upd, "0"})

			res, err := differ.Compare(context.Background(), old, updated, differ.WithUnchangedRows(true))
			require.NoError(t, err)
			assert.Equal(t, []differ.UpdateType{tt.want}, types(res))
		})
	}
}

func TestCompareContinuationRowsInheritOrder(t *testing.T) {
	profile, err := schema.NewRegistry().Get("")
	require.NoError(t, err)

	cols := []string{"OrderNo", "StoreDescription", "QtyOrdered"}
	old := profile.Normalize(table.FromRecords("old", cols, [][]string{
		{"1", "A", "5"},
		{"", "B", "3"},
	}))
	updated := profile.Normalize(table.FromRecords("updated", cols, [][]string{
		{"1", "A", "5"},
		{"2", "X", "1"},
		{"", "B", "3"},
	}))

	res, err := differ.Compare(context.Background(), old, updated)
	require.NoError(t, err)
	assert.Equal(t, 2, res.NewCount)
	assert.Equal(t, 1, res.RemovedCount)
	assert.Equal(t, 1, res.UnchangedCount)
	assert.Equal(t, 0, res.UpdatedCount)
	require.Equal(t, []differ.UpdateType{differ.New, differ.New, differ.Removed}, types(res))
	assert.Equal(t, "2", res.Rows[1].Value("OrderNo").String())
	assert.Equal(t, "B", res.Rows[1].Value("StoreDescription").String())
	assert.Equal(t, "1", res.Rows[2].Value("OrderNo").String())
	assert.Equal(t, "B", res.Rows[2].Value("StoreDescription").String())
}
