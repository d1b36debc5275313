// Package differ reconciles two versions of a line-item dataset. Rows are
// matched by a composite key and classified as New, Updated, Removed or
// Unchanged.
//
// Pairing always runs over the full datasets in updated-row order, so every
// old row is claimed at most once and a window only restricts what is
// reported. Paging through consecutive windows therefore yields the same rows
// as a single unwindowed comparison.
package differ

import (
	"context"
	"runtime"
	"time"

	"github.com/wI2L/jsondiff"
	"golang.org/x/sync/errgroup"

	"github.com/devKoy/csv-version-compare/pkg/constants"
	"github.com/devKoy/csv-version-compare/pkg/errors"
	"github.com/devKoy/csv-version-compare/pkg/logging"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

// Differ compares two versions of a dataset.
type Differ interface {
	// Compare classifies the rows of updated against old.
	Compare(ctx context.Context, old, updated table.Dataset) (*Result, error)
}

// differ is the default implementation of Differ.
type differ struct {
	key           table.Key
	fields        []string
	start         int
	end           *int
	styles        StyleMap
	styleColumn   string
	emitUnchanged bool
	fieldChanges  bool
	parallelism   int
}

// NewDiffer creates a new Differ with the given options.
func NewDiffer(opts ...Option) Differ {
	d := &differ{
		key:         table.DefaultKey,
		styleColumn: constants.ColumnVLU,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Compare is a shorthand for NewDiffer(opts...).Compare(ctx, old, updated).
func Compare(ctx context.Context, old, updated table.Dataset, opts ...Option) (*Result, error) {
	return NewDiffer(opts...).Compare(ctx, old, updated)
}

// Compare implements Differ.
func (d *differ) Compare(ctx context.Context, old, updated table.Dataset) (*Result, error) {
	began := time.Now()
	logger := logging.FromContext(ctx)

	if old.Name == "" {
		old.Name = "old"
	}
	if updated.Name == "" {
		updated.Name = "updated"
	}

	if d.start < 0 {
		return nil, errors.NewWindowError(d.start, d.end)
	}
	fields, err := d.validate(old, updated)
	if err != nil {
		return nil, err
	}

	pairs, state := d.pair(old, updated)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	updLo, updHi := updated.Bounds(d.start, d.end)
	oldLo, oldHi := old.Bounds(d.start, d.end)

	emitted, err := d.classify(ctx, old, updated, pairs, fields, updLo, updHi)
	if err != nil {
		return nil, err
	}

	result := &Result{
		WindowStart:     d.start,
		WindowEnd:       max(updHi, oldHi),
		OldRowCount:     old.Len(),
		UpdatedRowCount: updated.Len(),
		Key:             d.key,
		Rows:            make([]AnnotatedRow, 0, len(emitted)),
	}
	for _, row := range emitted {
		switch row.UpdateType {
		case New:
			result.NewCount++
		case Updated:
			result.UpdatedCount++
		case Unchanged:
			result.UnchangedCount++
			if !d.emitUnchanged {
				continue
			}
		}
		result.Rows = append(result.Rows, d.style(row))
	}

	// Removed rows follow every updated-side row.
	for pos := oldLo; pos < oldHi; pos++ {
		if state.has(pos) {
			continue
		}
		result.RemovedCount++
		result.Rows = append(result.Rows, d.style(AnnotatedRow{
			Row:        old.Row(pos),
			UpdateType: Removed,
			OldIndex:   pos,
		}))
	}

	result.TotalTimeSeconds = time.Since(began).Seconds()
	logger.Debug().
		Str("key", d.key.String()).
		Int("window_start", result.WindowStart).
		Int("window_end", result.WindowEnd).
		Int("new", result.NewCount).
		Int("updated", result.UpdatedCount).
		Int("removed", result.RemovedCount).
		Int("unchanged", result.UnchangedCount).
		Int("paired", state.count).
		Dur("elapsed", time.Since(began)).
		Msg("Compared datasets")

	return result, nil
}

// validate checks that key and comparison columns exist and resolves the
// comparison field list.
func (d *differ) validate(old, updated table.Dataset) ([]string, error) {
	if len(d.key) == 0 {
		return nil, errors.NewValidationError("key", nil, "no key columns given")
	}
	for _, ds := range []table.Dataset{old, updated} {
		if err := d.key.Validate(ds, "key"); err != nil {
			return nil, err
		}
	}
	if len(d.fields) == 0 {
		return updated.SharedColumns(old), nil
	}
	// A field present on one side only compares against empty values.
	for _, field := range d.fields {
		if !old.HasColumn(field) && !updated.HasColumn(field) {
			return nil, errors.NewSchemaError(old.Name+" and "+updated.Name, field, "compare")
		}
	}
	return d.fields, nil
}

// pair walks the full updated dataset in order and claims, for every row,
// the first unclaimed old row with an equal key. Later candidates are never
// considered for that row even when the first one differs.
func (d *differ) pair(old, updated table.Dataset) ([]int, *matchState) {
	idx := newKeyIndex(old, d.key)
	state := newMatchState(old.Len())
	pairs := make([]int, updated.Len())
	for j := range pairs {
		pos := idx.first(updated.Row(j), state)
		pairs[j] = pos
		if pos >= 0 {
			state.consume(pos)
		}
	}
	return pairs, state
}

// classify produces one annotated row per updated row in [lo, hi). Field
// comparison of paired rows fans out across goroutines; results keep
// updated-row order.
func (d *differ) classify(ctx context.Context, old, updated table.Dataset, pairs []int, fields []string, lo, hi int) ([]AnnotatedRow, error) {
	out := make([]AnnotatedRow, hi-lo)
	g, gctx := errgroup.WithContext(ctx)
	limit := d.parallelism
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for j := lo; j < hi; j++ {
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := d.compareRow(old, updated, pairs[j], j, fields)
			if err != nil {
				return err
			}
			out[j-lo] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *differ) compareRow(old, updated table.Dataset, oldPos, updPos int, fields []string) (AnnotatedRow, error) {
	current := updated.Row(updPos)
	if oldPos < 0 {
		return AnnotatedRow{Row: current, UpdateType: New, OldIndex: -1}, nil
	}
	previous := old.Row(oldPos)
	if previous.Equal(current, fields) {
		return AnnotatedRow{Row: current, UpdateType: Unchanged, OldIndex: oldPos}, nil
	}
	row := AnnotatedRow{Row: current, UpdateType: Updated, OldIndex: oldPos}
	if d.fieldChanges {
		patch, err := fieldPatch(previous, current, fields)
		if err != nil {
			return AnnotatedRow{}, err
		}
		row.Changes = patch
	}
	return row, nil
}

// fieldPatch returns the RFC 6902 patch turning the old comparison fields
// into the updated ones.
func fieldPatch(previous, current table.Row, fields []string) (jsondiff.Patch, error) {
	source := make(map[string]table.Value, len(fields))
	target := make(map[string]table.Value, len(fields))
	for _, f := range fields {
		ov, nv := previous.Value(f), current.Value(f)
		if ov.Equal(nv) {
			continue
		}
		source[f] = ov
		target[f] = nv
	}
	patch, err := jsondiff.Compare(source, target)
	if err != nil {
		return nil, errors.WrapResource("compare", "row", "", err)
	}
	return patch, nil
}

func (d *differ) style(row AnnotatedRow) AnnotatedRow {
	row.Style = d.styles.Label(row.Row, d.styleColumn)
	return row
}
