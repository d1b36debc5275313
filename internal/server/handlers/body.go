package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"sort"

	"github.com/fvbommel/sortorder"

	"github.com/devKoy/csv-version-compare/pkg/differ"
	"github.com/devKoy/csv-version-compare/pkg/errors"
	"github.com/devKoy/csv-version-compare/pkg/schema"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

// compareBody is the JSON form of a compare request. Each dataset is a list
// of objects keyed by column name. Columns fixes the column order for both
// datasets; keys not listed follow in natural order.
type compareBody struct {
	Columns []string                 `json:"columns,omitempty"`
	Old     []map[string]table.Value `json:"old"`
	Updated []map[string]table.Value `json:"updated"`
	Styles  differ.StyleMap          `json:"styles,omitempty"`
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// readCompareBody decodes a JSON compare request into normalized datasets.
// The returned style option is nil when the body carries no styles.
func (h *Handlers) readCompareBody(r *http.Request, profile *schema.Profile) (table.Dataset, table.Dataset, differ.Option, error) {
	var body compareBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return table.Dataset{}, table.Dataset{}, nil, errors.NewParseError("json", "", "invalid compare body", err)
	}
	if body.Old == nil {
		return table.Dataset{}, table.Dataset{}, nil, errors.NewValidationError("old", nil, "dataset is required")
	}
	if body.Updated == nil {
		return table.Dataset{}, table.Dataset{}, nil, errors.NewValidationError("updated", nil, "dataset is required")
	}

	old := table.FromMaps("old", objectColumns(body.Columns, body.Old), body.Old)
	updated := table.FromMaps("updated", objectColumns(body.Columns, body.Updated), body.Updated)

	var styles differ.Option
	if len(body.Styles) > 0 {
		styles = differ.WithStyles(body.Styles, h.app.Defaults().StyleColumn)
	}
	return profile.Normalize(old), profile.Normalize(updated), styles, nil
}

// objectColumns returns the declared columns followed by any other keys
// found in objects, in natural order.
func objectColumns(declared []string, objects []map[string]table.Value) []string {
	seen := make(map[string]bool, len(declared))
	columns := make([]string, 0, len(declared))
	for _, col := range declared {
		if !seen[col] {
			seen[col] = true
			columns = append(columns, col)
		}
	}
	var extra []string
	for _, obj := range objects {
		for col := range obj {
			if !seen[col] {
				seen[col] = true
				extra = append(extra, col)
			}
		}
	}
	sort.Slice(extra, func(i, j int) bool { return sortorder.NaturalLess(extra[i], extra[j]) })
	return append(columns, extra...)
}
