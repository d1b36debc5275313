package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/devKoy/csv-version-compare/internal/server/response"
	"github.com/devKoy/csv-version-compare/pkg/aggregate"
	"github.com/devKoy/csv-version-compare/pkg/logging"
)

// outstanding is the response of a single-order aggregate query.
type outstanding struct {
	OrderNo     string      `json:"order_no"`
	Outstanding json.Number `json:"outstanding"`
	Found       bool        `json:"found"`
}

// HandleAggregate handles POST /api/v1/aggregate.
// @Summary Aggregate quantities per order
// @Description Sums ordered, received and due quantities per order number. With order_no, returns the outstanding quantity of that order only.
// @Tags aggregate
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Dataset (CSV or XLSX)"
// @Param order_no query string false "Single order to report"
// @Param profile query string false "Schema profile"
// @Param group query string false "Grouping column (default OrderNo)"
// @Success 200 {object} response.Response{data=[]aggregate.Summary}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 500 {object} response.Response{error=response.Error}
// @Router /api/v1/aggregate [post].
func (h *Handlers) HandleAggregate(w http.ResponseWriter, r *http.Request) {
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
	ds, err := readDataset(r, "file", profile)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	ctx := logging.WithOperation(r.Context(), "aggregate")
	q := r.URL.Query()

	if orderNo := q.Get("order_no"); orderNo != "" {
		due, found, err := aggregate.Outstanding(ctx, ds, orderNo)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		response.OK(w, outstanding{
			OrderNo:     orderNo,
			Outstanding: json.Number(due.String()),
			Found:       found,
		})
		return
	}

	var opts []aggregate.Option
	if group := q.Get("group"); group != "" {
		opts = append(opts, aggregate.WithGroupColumn(group))
	}
	summaries, err := aggregate.Aggregate(ctx, ds, opts...)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, summaries)
}
