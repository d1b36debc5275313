package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devKoy/csv-version-compare/cmd/application"
	mockapp "github.com/devKoy/csv-version-compare/internal/cmd/application"
	"github.com/devKoy/csv-version-compare/pkg/constants"
	"github.com/devKoy/csv-version-compare/pkg/errors"
	"github.com/devKoy/csv-version-compare/pkg/schema"
)

const (
	oldCSV = "OrderNo,StoreDescription,VLU,QtyOrdered\n" +
		"PO1,Store A,V1,5\n" +
		"PO2,Store B,V2,3\n"
	updatedCSV = "OrderNo,StoreDescription,VLU,QtyOrdered\n" +
		"PO1,Store A,V1,7\n" +
		"PO3,Store C,V3,1\n"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	srv, err := New(&mockapp.Mock{}, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv.Handler()
}

// upload builds a multipart body from field name to (filename, content).
func upload(t *testing.T, files map[string][2]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, f := range files {
		part, err := mw.CreateFormFile(field, f[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func do(t *testing.T, h http.Handler, method, target string, files map[string][2]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if files != nil {
		body, contentType := upload(t, files)
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func compareFiles() map[string][2]string {
	return map[string][2]string{
		"old_file":     {"old.csv", oldCSV},
		"updated_file": {"updated.csv", updatedCSV},
	}
}

func TestServerNew(t *testing.T) {
	srv, err := New(&mockapp.Mock{}, Config{PathPrefix: "api/v1/"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1", srv.config.PathPrefix)
	assert.Equal(t, 5*time.Minute, srv.config.CacheTTL)
	assert.Equal(t, int64(constants.MaxUploadBytes), srv.config.MaxUploadBytes)
	assert.False(t, srv.StartTime().IsZero())
}

func TestServerNewFailsOnBrokenProfiles(t *testing.T) {
	app := &mockapp.Mock{
		ProfilesFunc: func() (*schema.Registry, error) {
			return nil, errors.NewParseError("yaml", "profiles.yaml", "bad indent", nil)
		},
	}
	_, err := New(app, DefaultConfig())
	require.Error(t, err)
	var parseErr *errors.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, DefaultConfig())

	for _, path := range []string{"/health", "/api/v1/health"} {
		w, env := do(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Nil(t, env.Error)
		assert.Contains(t, string(env.Data), "csvcompare-api")
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	}

	w, env := do(t, h, http.MethodGet, "/api/v1/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"status":"ready"`)
}

func TestCompareEndpoint(t *testing.T) {
	h := newTestServer(t, DefaultConfig())

	w, env := do(t, h, http.MethodPost, "/api/v1/compare?changes=true", compareFiles())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Nil(t, env.Error)

	var data struct {
		New       int              `json:"new_count"`
		Updated   int              `json:"updated_count"`
		Removed   int              `json:"removed_count"`
		Unchanged int              `json:"unchanged_count"`
		Rows      []map[string]any `json:"result"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data.New)
	assert.Equal(t, 1, data.Updated)
	assert.Equal(t, 1, data.Removed)
	assert.Equal(t, 0, data.Unchanged)

	require.Len(t, data.Rows, 3)
	assert.Equal(t, "Updated", data.Rows[0]["Update Type"])
	assert.Equal(t, "PO1", data.Rows[0]["OrderNo"])
	assert.NotNil(t, data.Rows[0]["Changes"])
	assert.Equal(t, "New", data.Rows[1]["Update Type"])
	assert.Equal(t, "Removed", data.Rows[2]["Update Type"])
	assert.Equal(t, "PO2", data.Rows[2]["OrderNo"])
}

func TestCompareLegacyPath(t *testing.T) {
	h := newTestServer(t, DefaultConfig())

	w, env := do(t, h, http.MethodPost, "/compare-csv/?types=removed", compareFiles())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Rows []map[string]any `json:"result"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "Removed", data.Rows[0]["Update Type"])
}

func TestCompareStyles(t *testing.T) {
	h := newTestServer(t, DefaultConfig())
	files := compareFiles()
	files["style_file"] = [2]string{"styles.csv", "VLU,Style\nV1,Denim\nV3,Linen\n"}

	w, env := do(t, h, http.MethodPost, "/api/v1/compare", files)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Rows []map[string]any `json:"result"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Rows, 3)
	assert.Equal(t, "Denim", data.Rows[0]["Style"])
	assert.Equal(t, "Linen", data.Rows[1]["Style"])
}

func TestCompareErrors(t *testing.T) {
	h := newTestServer(t, DefaultConfig())

	tests := []struct {
		name       string
		target     string
		files      map[string][2]string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing key column",
			target:     "/api/v1/compare?key=OrderNo,Warehouse",
			files:      compareFiles(),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "SCHEMA_ERROR",
		},
		{
			name:       "negative window start",
			target:     "/api/v1/compare?start=-1",
			files:      compareFiles(),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "WINDOW_ERROR",
		},
		{
			name:   "unsupported upload",
			target: "/api/v1/compare",
			files: map[string][2]string{
				"old_file":     {"old.pdf", oldCSV},
				"updated_file": {"updated.csv", updatedCSV},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "PARSE_ERROR",
		},
		{
			name:       "missing updated file",
			target:     "/api/v1/compare",
			files:      map[string][2]string{"old_file": {"old.csv", oldCSV}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "unknown profile",
			target:     "/api/v1/compare?profile=mainframe",
			files:      compareFiles(),
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "bad boolean",
			target:     "/api/v1/compare?unchanged=maybe",
			files:      compareFiles(),
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, h, http.MethodPost, tt.target, tt.files)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.Equal(t, "null", string(env.Data))
		})
	}
}

func postJSON(t *testing.T, h http.Handler, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestCompareJSONBody(t *testing.T) {
	h := newTestServer(t, DefaultConfig())
	body := `{
		"columns": ["OrderNo", "StoreDescription", "VLU", "QtyOrdered"],
		"old": [
			{"OrderNo": "PO1", "StoreDescription": "Store A", "VLU": "V1", "QtyOrdered": 5},
			{"OrderNo": null, "StoreDescription": "Store B", "VLU": "V2", "QtyOrdered": "3"}
		],
		"updated": [
			{"OrderNo": "PO1", "StoreDescription": "Store A", "VLU": "V1", "QtyOrdered": "5.0"},
			{"OrderNo": null, "StoreDescription": "Store B", "VLU": "V2", "QtyOrdered": 4}
		],
		"styles": {"V1": "Denim"}
	}`

	w, env := postJSON(t, h, "/api/v1/compare?unchanged=true", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Nil(t, env.Error)

	var data struct {
		Updated   int              `json:"updated_count"`
		Unchanged int              `json:"unchanged_count"`
		New       int              `json:"new_count"`
		Removed   int              `json:"removed_count"`
		Rows      []map[string]any `json:"result"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data.Unchanged, "5 and 5.0 are the same quantity")
	assert.Equal(t, 1, data.Updated)
	assert.Equal(t, 0, data.New)
	assert.Equal(t, 0, data.Removed)

	require.Len(t, data.Rows, 2)
	assert.Equal(t, "Unchanged", data.Rows[0]["Update Type"])
	assert.Equal(t, "Denim", data.Rows[0]["Style"])
	assert.Equal(t, "Updated", data.Rows[1]["Update Type"])
	assert.Equal(t, "PO1", data.Rows[1]["OrderNo"], "continuation row inherits its order")
	assert.EqualValues(t, 4, data.Rows[1]["QtyOrdered"])
}

func TestCompareJSONBodyErrors(t *testing.T) {
	h := newTestServer(t, DefaultConfig())

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"malformed", `{"old": [`, "PARSE_ERROR"},
		{"unknown field", `{"old": [], "updated": [], "sheets": 2}`, "PARSE_ERROR"},
		{"missing updated", `{"old": [{"OrderNo": "PO1"}]}`, "BAD_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := postJSON(t, h, "/api/v1/compare", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestCompareMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, DefaultConfig())

	w, env := do(t, h, http.MethodGet, "/api/v1/compare", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
	require.NotNil(t, env.Error)
	assert.Equal(t, "METHOD_NOT_ALLOWED", env.Error.Code)
}

func TestCompareUploadTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxUploadBytes = 512
	h := newTestServer(t, cfg)

	files := compareFiles()
	files["updated_file"] = [2]string{"updated.csv", updatedCSV + strings.Repeat("PO9,Store Z,V9,1\n", 200)}

	w, env := do(t, h, http.MethodPost, "/api/v1/compare", files)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", env.Error.Code)

	rows := strings.TrimSuffix(strings.Repeat(`{"OrderNo": "PO9", "QtyOrdered": 1},`, 50), ",")
	w, env = postJSON(t, h, "/api/v1/compare", `{"old": [`+rows+`], "updated": []}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, "JSON bodies share the upload cap")
	require.NotNil(t, env.Error)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", env.Error.Code)
}

func TestAggregateEndpoint(t *testing.T) {
	h := newTestServer(t, DefaultConfig())
	files := map[string][2]string{
		"file": {"po.csv", "OrderNo,QtyOrdered,QtyReceived,QtyDue\nPO-10,5,2,3\nPO-9,4,4,0\nPO-10,1,0,1\n"},
	}

	w, env := do(t, h, http.MethodPost, "/api/v1/aggregate", files)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summaries []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "PO-9", summaries[0]["OrderNo"])
	assert.Equal(t, "PO-10", summaries[1]["OrderNo"])
	assert.EqualValues(t, 4, summaries[1]["QtyDue"])

	w, env = do(t, h, http.MethodPost, "/api/v1/aggregate?order_no=PO-10", files)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"order_no":"PO-10","outstanding":4,"found":true}`, string(env.Data))

	w, env = do(t, h, http.MethodPost, "/api/v1/aggregate?group=Warehouse", files)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SCHEMA_ERROR", env.Error.Code)
}

func TestBatchPlanEndpoint(t *testing.T) {
	app := &mockapp.Mock{
		DefaultsFunc: func() application.Defaults {
			return application.Defaults{Profile: schema.ProfileCanonical, BatchSize: 3}
		},
	}
	srv, err := New(app, DefaultConfig())
	require.NoError(t, err)
	h := srv.Handler()

	w, env := do(t, h, http.MethodPost, "/api/v1/batch-plan?total_rows=10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{
		"total_rows": 10, "batch_size": 3, "total_loops": 4, "contiguous": false,
		"windows": [{"start":0,"end":3},{"start":4,"end":7},{"start":8,"end":10},{"start":10,"end":10}]
	}`, string(env.Data))

	files := map[string][2]string{"file": {"po.csv", oldCSV}}
	w, env = do(t, h, http.MethodPost, "/api/v1/batch-plan?batch_size=1&contiguous=true", files)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{
		"total_rows": 2, "batch_size": 1, "total_loops": 2, "contiguous": true,
		"windows": [{"start":0,"end":1},{"start":1,"end":2}]
	}`, string(env.Data))

	w, env = do(t, h, http.MethodPost, "/api/v1/batch-plan?total_rows=10&batch_size=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)

	w, _ = do(t, h, http.MethodPost, "/api/v1/batch-plan", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfilesEndpoints(t *testing.T) {
	srv, err := New(&mockapp.Mock{}, DefaultConfig())
	require.NoError(t, err)
	h := srv.Handler()

	w, env := do(t, h, http.MethodGet, "/api/v1/profiles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profiles []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &profiles))
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p["name"].(string))
	}
	assert.Contains(t, names, schema.ProfileCanonical)
	assert.Contains(t, names, schema.ProfileERP)
	assert.Equal(t, 1, srv.Cache().ItemCount())

	w, env = do(t, h, http.MethodGet, "/api/v1/profiles/erp", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"name":"erp"`)

	w, env = do(t, h, http.MethodGet, "/api/v1/profiles/mainframe", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, 2, srv.Cache().ItemCount())
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, DefaultConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/compare", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	// OPTIONS is answered by the CORS middleware before method filtering.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestExtractPathParam(t *testing.T) {
	assert.Equal(t, "erp", extractPathParam("/api/v1/profiles/erp", "/api/v1/profiles/"))
	assert.Equal(t, "erp", extractPathParam("/api/v1/profiles/erp/extra", "/api/v1/profiles/"))
	assert.Equal(t, "", extractPathParam("/api", "/api/v1/profiles/"))
}
