package handlers

import (
	"net/http"

	"github.com/devKoy/csv-version-compare/internal/server/response"
	"github.com/devKoy/csv-version-compare/pkg/batch"
	"github.com/devKoy/csv-version-compare/pkg/errors"
)

// HandleBatchPlan handles POST /api/v1/batch-plan.
// @Summary Plan comparison windows
// @Description Splits a row count into windows for paged comparison. The row count comes from an uploaded file or the total_rows parameter.
// @Tags batch
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "Dataset whose rows are counted"
// @Param total_rows query int false "Row count when no file is uploaded"
// @Param batch_size query int false "Rows per window"
// @Param contiguous query bool false "Use gap-free windows"
// @Success 200 {object} response.Response{data=batch.Plan}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/batch-plan [post].
func (h *Handlers) HandleBatchPlan(w http.ResponseWriter, r *http.Request) {
	if err := h.parseUpload(w, r); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	defer h.cleanup(r)

	total, err := h.totalRows(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	size := h.app.Defaults().BatchSize
	if n, err := queryInt(r, "batch_size"); err != nil {
		response.ErrorFromType(w, err)
		return
	} else if n != nil {
		size = *n
	}

	contiguous, err := queryBool(r, "contiguous")
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	var opts []batch.Option
	if contiguous {
		opts = append(opts, batch.WithContiguous())
	}

	plan, err := batch.New(total, size, opts...)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, plan)
}

// totalRows counts the rows of the uploaded file, or reads total_rows.
func (h *Handlers) totalRows(r *http.Request) (int, error) {
	if hasFile(r, "file") {
		profile, err := h.profile(r)
		if err != nil {
			return 0, err
		}
		ds, err := readDataset(r, "file", profile)
		if err != nil {
			return 0, err
		}
		return ds.Len(), nil
	}

	n, err := queryInt(r, "total_rows")
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, errors.NewValidationError("total_rows", nil, "a file or total_rows is required")
	}
	return *n, nil
}
