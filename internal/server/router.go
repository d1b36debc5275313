package server

import (
	"net/http"

	"github.com/devKoy/csv-version-compare/internal/server/handlers"
	"github.com/devKoy/csv-version-compare/internal/server/middleware"
	"github.com/devKoy/csv-version-compare/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(s.app, s.cache, s.logger, s.startTime, s.config.MaxUploadBytes)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health endpoints
	mux.HandleFunc("/health", method(http.MethodGet, h.HandleHealth))
	if prefix != "" {
		mux.HandleFunc(prefix+"/health", method(http.MethodGet, h.HandleHealth))
	}
	mux.HandleFunc(prefix+"/ready", method(http.MethodGet, h.HandleReady))

	// Engine endpoints
	mux.HandleFunc(prefix+"/compare", method(http.MethodPost, h.HandleCompare))
	mux.HandleFunc(prefix+"/aggregate", method(http.MethodPost, h.HandleAggregate))
	mux.HandleFunc(prefix+"/batch-plan", method(http.MethodPost, h.HandleBatchPlan))

	// Unprefixed path kept for existing upload forms
	mux.HandleFunc("/compare-csv/", method(http.MethodPost, h.HandleCompare))

	// Profiles
	mux.HandleFunc(prefix+"/profiles", method(http.MethodGet, h.HandleListProfiles))
	mux.HandleFunc(prefix+"/profiles/", method(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		name := extractPathParam(r.URL.Path, prefix+"/profiles/")
		if name == "" {
			response.NotFound(w, "Profile name required", "")
			return
		}
		h.HandleGetProfile(w, r, name)
	}))
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	var chain []func(http.Handler) http.Handler

	// Recovery runs outermost, then logging
	chain = append(chain, middleware.Recovery(s.logger), middleware.Logger(s.logger))

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	return middleware.Chain(chain...)(handler)
}

// method restricts a handler to one HTTP method.
func method(allowed string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != allowed {
			w.Header().Set("Allow", allowed)
			response.MethodNotAllowed(w, r.Method)
			return
		}
		next(w, r)
	}
}

// extractPathParam extracts the first path segment after prefix.
func extractPathParam(path, prefix string) string {
	if len(path) < len(prefix) {
		return ""
	}
	for i, c := range path[len(prefix):] {
		if c == '/' {
			return path[len(prefix) : len(prefix)+i]
		}
	}
	return path[len(prefix):]
}
