package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/devKoy/csv-version-compare/internal/utils/ptr"
	"github.com/devKoy/csv-version-compare/pkg/constants"
	"github.com/devKoy/csv-version-compare/pkg/errors"
	"github.com/devKoy/csv-version-compare/pkg/ingest"
	"github.com/devKoy/csv-version-compare/pkg/schema"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

// parseUpload limits the request body and parses the multipart form.
// Requests without a multipart body are accepted so that query-only calls
// such as batch planning still work.
func (h *Handlers) parseUpload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return nil
	}
	if err := r.ParseMultipartForm(constants.MultipartMemory); err != nil {
		return errors.NewParseError("multipart", "", "invalid multipart upload", err)
	}
	return nil
}

// cleanup removes temporary files written while parsing the upload.
func (h *Handlers) cleanup(r *http.Request) {
	if r.MultipartForm == nil {
		return
	}
	if err := r.MultipartForm.RemoveAll(); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to remove multipart temp files")
	}
}

// hasFile reports whether the form carries a file under field.
func hasFile(r *http.Request, field string) bool {
	return r.MultipartForm != nil && len(r.MultipartForm.File[field]) > 0
}

// readDataset reads the uploaded file under field and normalizes it with
// the profile.
func readDataset(r *http.Request, field string, profile *schema.Profile) (table.Dataset, error) {
	if !hasFile(r, field) {
		return table.Dataset{}, errors.NewValidationError(field, nil, "file is required")
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return table.Dataset{}, errors.NewIOError("open", field, err)
	}
	defer file.Close()

	ds, err := ingest.Read(file, header.Filename, ingest.Options{Sheet: r.URL.Query().Get("sheet")})
	if err != nil {
		return table.Dataset{}, err
	}
	return profile.Normalize(ds), nil
}

// profile resolves the schema profile named by the request, falling back to
// the configured default.
func (h *Handlers) profile(r *http.Request) (*schema.Profile, error) {
	name := r.URL.Query().Get("profile")
	if name == "" {
		name = h.app.Defaults().Profile
	}
	registry, err := h.app.Profiles()
	if err != nil {
		return nil, err
	}
	p, err := registry.Get(name)
	if errors.IsNotFound(err) {
		return nil, errors.NewValidationError("profile", name, "unknown profile")
	}
	return p, err
}

func queryInt(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.NewValidationError(name, raw, "must be an integer")
	}
	return ptr.To(n), nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.NewValidationError(name, raw, "must be a boolean")
	}
	return b, nil
}

// queryList splits a comma-separated parameter, dropping blanks.
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, part := range strings.Split(r.URL.Query().Get(name), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
