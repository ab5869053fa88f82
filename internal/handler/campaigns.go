package handler

import (
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/sendesk/sendesk/internal/models"
)

type launchResponse struct {
	Status models.CampaignStatus `json:"status"`
}

func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.CampaignFilter{
		Search:    q.Get("search"),
		Status:    q.Get("status"),
		DateRange: q.Get("date_range"),
	}

	campaigns, err := h.store.Campaigns().List(h.accountID(r), filter)
	if err != nil {
		h.internalError(w, r, "Failed to list campaigns", err)
		return
	}

	render.JSON(w, r, campaigns)
}

func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	campaign, err := h.store.Campaigns().GetByID(id)
	if err != nil {
		h.internalError(w, r, "Failed to get campaign", err)
		return
	}
	if campaign == nil || campaign.AccountID != h.accountID(r) {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Campaign not found")
		return
	}

	render.JSON(w, r, campaign)
}

func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var params models.CreateCampaignParams
	if !h.decode(w, r, &params) {
		return
	}

	if params.Name == "" || params.Template == "" {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Name and template are required")
		return
	}

	params.AccountID = h.accountID(r)

	campaign, err := h.store.Campaigns().Create(params)
	if err != nil {
		h.internalError(w, r, "Failed to create campaign", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, campaign)
}

func (h *Handler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	existing, err := h.store.Campaigns().GetByID(id)
	if err != nil {
		h.internalError(w, r, "Failed to get campaign", err)
		return
	}
	if existing == nil || existing.AccountID != h.accountID(r) {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Campaign not found")
		return
	}

	var params models.UpdateCampaignParams
	if !h.decode(w, r, &params) {
		return
	}

	campaign, err := h.store.Campaigns().Update(id, params)
	if err != nil {
		h.internalError(w, r, "Failed to update campaign", err)
		return
	}
	if campaign == nil {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Campaign not found")
		return
	}

	render.JSON(w, r, campaign)
}

func (h *Handler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	existing, err := h.store.Campaigns().GetByID(id)
	if err != nil {
		h.internalError(w, r, "Failed to get campaign", err)
		return
	}
	if existing == nil || existing.AccountID != h.accountID(r) {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Campaign not found")
		return
	}

	deleted, err := h.store.Campaigns().Delete(id)
	if err != nil {
		h.internalError(w, r, "Failed to delete campaign", err)
		return
	}
	if !deleted {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Campaign not found")
		return
	}

	render.NoContent(w, r)
}

// LaunchCampaign activates the campaign and kicks off message delivery in
// the background. The analytics row is guaranteed to exist once this
// returns.
func (h *Handler) LaunchCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	existing, err := h.store.Campaigns().GetByID(id)
	if err != nil {
		h.internalError(w, r, "Failed to get campaign", err)
		return
	}
	if existing == nil || existing.AccountID != h.accountID(r) {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Campaign not found")
		return
	}

	launched, err := h.store.Campaigns().Launch(id)
	if err != nil {
		h.internalError(w, r, "Failed to launch campaign", err)
		return
	}
	if !launched {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Campaign not found")
		return
	}

	go func() {
		if err := h.service.Dispatch.DispatchCampaign(id); err != nil {
			h.logger.Error("Failed to dispatch campaign",
				zap.Int64("campaignID", id),
				zap.Error(err))
		}
	}()

	render.JSON(w, r, launchResponse{Status: models.CampaignStatusActive})
}
