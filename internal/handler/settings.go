package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/sendesk/sendesk/internal/models"
)

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Settings().Get(h.accountID(r))
	if err != nil {
		h.internalError(w, r, "Failed to load settings", err)
		return
	}
	if settings == nil {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Settings not configured")
		return
	}

	render.JSON(w, r, settings)
}

// UpdateSettings upserts the account's settings; omitted fields keep their
// stored values.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var params models.UpdateSettingsParams
	if !h.decode(w, r, &params) {
		return
	}

	settings, err := h.store.Settings().Update(h.accountID(r), params)
	if err != nil {
		h.internalError(w, r, "Failed to update settings", err)
		return
	}

	render.JSON(w, r, settings)
}
