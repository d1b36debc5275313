package handlers

import (
	"net/http"

	"github.com/devKoy/csv-version-compare/internal/server/cache"
	"github.com/devKoy/csv-version-compare/internal/server/response"
)

// HandleListProfiles handles GET /api/v1/profiles.
// @Summary List schema profiles
// @Description Lists the built-in and configured header profiles
// @Tags profiles
// @Produce json
// @Success 200 {object} response.Response{data=[]schema.Profile}
// @Router /api/v1/profiles [get].
func (h *Handlers) HandleListProfiles(w http.ResponseWriter, _ *http.Request) {
	profiles, hit, err := h.cache.GetOrLoad(cache.ProfilesKey(), func() (any, error) {
		registry, err := h.app.Profiles()
		if err != nil {
			return nil, err
		}
		return registry.List(), nil
	})
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	h.logger.Debug().Bool("cache_hit", hit).Msg("Listing profiles")
	response.OK(w, profiles)
}

// HandleGetProfile handles GET /api/v1/profiles/{name}.
// @Summary Get schema profile
// @Description Returns one header profile by name
// @Tags profiles
// @Produce json
// @Param name path string true "Profile name"
// @Success 200 {object} response.Response{data=schema.Profile}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/profiles/{name} [get].
func (h *Handlers) HandleGetProfile(w http.ResponseWriter, _ *http.Request, name string) {
	profile, _, err := h.cache.GetOrLoad(cache.ProfileKey(name), func() (any, error) {
		registry, err := h.app.Profiles()
		if err != nil {
			return nil, err
		}
		return registry.Get(name)
	})
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, profile)
}
