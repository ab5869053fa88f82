package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

const analyticsCacheTTL = 30 * time.Second

// GetAnalytics returns the account's analytics rows, optionally narrowed to
// one campaign. Responses are cached briefly in Redis when it is
// configured; the storage layer itself stays cache-free.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	accountID := h.accountID(r)

	var campaignID *int64
	campaignParam := r.URL.Query().Get("campaign_id")
	if campaignParam != "" {
		id, err := strconv.ParseInt(campaignParam, 10, 64)
		if err != nil {
			h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidID, "campaign_id must be an integer")
			return
		}
		campaignID = &id
	}

	cacheKey := fmt.Sprintf("analytics:%d:%s", accountID, campaignParam)

	if h.redis != nil {
		if raw, err := h.redis.Get(r.Context(), cacheKey).Bytes(); err == nil {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = w.Write(raw)
			return
		}
	}

	rows, err := h.store.Analytics().List(accountID, campaignID)
	if err != nil {
		h.internalError(w, r, "Failed to load analytics", err)
		return
	}

	if h.redis != nil {
		if raw, err := json.Marshal(rows); err == nil {
			if err := h.redis.Set(r.Context(), cacheKey, raw, analyticsCacheTTL).Err(); err != nil {
				h.logger.Warn("Failed to cache analytics response", zap.Error(err))
			}
		}
	}

	render.JSON(w, r, rows)
}
