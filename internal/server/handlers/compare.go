package handlers

import (
	"net/http"

	"github.com/devKoy/csv-version-compare/internal/cmd/cmdutil"
	"github.com/devKoy/csv-version-compare/internal/server/response"
	"github.com/devKoy/csv-version-compare/internal/utils/ptr"
	"github.com/devKoy/csv-version-compare/pkg/differ"
	"github.com/devKoy/csv-version-compare/pkg/logging"
	"github.com/devKoy/csv-version-compare/pkg/schema"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

// defaultStyleLabel is the label column read from an uploaded style file.
const defaultStyleLabel = "Style"

// HandleCompare handles POST /api/v1/compare.
// @Summary Compare two dataset versions
// @Description Classifies every row of the updated file as New, Updated or Unchanged and every unmatched old row as Removed.
// @Tags compare
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param old_file formData file true "Previous version (CSV or XLSX)"
// @Param updated_file formData file true "Current version (CSV or XLSX)"
// @Param style_file formData file false "VLU to style label mapping"
// @Param body body compareBody false "JSON alternative to the file uploads"
// @Param start query int false "First row of the window"
// @Param end query int false "Row after the last row of the window"
// @Param key query string false "Key columns or preset (order-store, order-vlu, order-vlu-style)"
// @Param profile query string false "Schema profile"
// @Param fields query string false "Compared columns, or quantity"
// @Param types query string false "Update types to return"
// @Param unchanged query bool false "Include Unchanged rows"
// @Param changes query bool false "Attach field patches to Updated rows"
// @Param style_label query string false "Label column of the style file"
// @Success 200 {object} response.Response{data=differ.Result}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 413 {object} response.Response{error=response.Error}
// @Failure 500 {object} response.Response{error=response.Error}
// @Router /api/v1/compare [post].
func (h *Handlers) HandleCompare(w http.ResponseWriter, r *http.Request) {
	if err := h.parseUpload(w, r); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	defer h.cleanup(r)

	profile, err := h.profile(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	opts, err := h.compareOptions(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	var old, updated table.Dataset
	if isJSON(r) {
		var styleOpt differ.Option
		old, updated, styleOpt, err = h.readCompareBody(r, profile)
		if styleOpt != nil {
			opts = append(opts, styleOpt)
		}
	} else {
		old, updated, err = readDatasets(r, profile)
		if err == nil && hasFile(r, "style_file") {
			var styleOpt differ.Option
			styleOpt, err = h.styleOption(r, profile)
			if styleOpt != nil {
				opts = append(opts, styleOpt)
			}
		}
	}
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	types, err := differ.ParseUpdateTypes(r.URL.Query().Get("types"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	ctx := logging.WithProfile(logging.WithOperation(r.Context(), "compare"), profile.Name)
	result, err := differ.Compare(ctx, old, updated, opts...)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Comparison failed")
		response.ErrorFromType(w, err)
		return
	}
	if len(types) > 0 {
		result = result.Filter(types...)
	}

	response.OK(w, result)
}

// readDatasets reads the old and updated uploads.
func readDatasets(r *http.Request, profile *schema.Profile) (table.Dataset, table.Dataset, error) {
	old, err := readDataset(r, "old_file", profile)
	if err != nil {
		return table.Dataset{}, table.Dataset{}, err
	}
	updated, err := readDataset(r, "updated_file", profile)
	if err != nil {
		return table.Dataset{}, table.Dataset{}, err
	}
	return old, updated, nil
}

// compareOptions builds engine options from query parameters and the
// configured defaults.
func (h *Handlers) compareOptions(r *http.Request) ([]differ.Option, error) {
	start, err := queryInt(r, "start")
	if err != nil {
		return nil, err
	}
	end, err := queryInt(r, "end")
	if err != nil {
		return nil, err
	}
	unchanged, err := queryBool(r, "unchanged")
	if err != nil {
		return nil, err
	}
	changes, err := queryBool(r, "changes")
	if err != nil {
		return nil, err
	}

	return cmdutil.CompareOptions(h.app.Defaults(), cmdutil.CompareSettings{
		Key:       r.URL.Query().Get("key"),
		Fields:    queryList(r, "fields"),
		Start:     ptr.Deref(start, 0),
		End:       end,
		Unchanged: unchanged,
		Changes:   changes,
	})
}

// styleOption reads the uploaded style file into a style map keyed by the
// configured style column.
func (h *Handlers) styleOption(r *http.Request, profile *schema.Profile) (differ.Option, error) {
	label := r.URL.Query().Get("style_label")
	if label == "" {
		label = defaultStyleLabel
	}
	column := h.app.Defaults().StyleColumn

	ds, err := readDataset(r, "style_file", profile)
	if err != nil {
		return nil, err
	}
	styles, err := differ.StylesFromDataset(ds, column, label)
	if err != nil {
		return nil, err
	}
	return differ.WithStyles(styles, column), nil
}
