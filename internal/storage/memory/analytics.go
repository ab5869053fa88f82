package memory

import (
	"time"

	"github.com/sendesk/sendesk/internal/models"
)

type analyticsRepository struct {
	store *Store
}

func (r *analyticsRepository) List(accountID int64, campaignID *int64) ([]*models.Analytics, error) {
	analytics := []*models.Analytics{}
	for _, row := range r.store.analytics {
		if row.AccountID != accountID {
			continue
		}
		if campaignID != nil && row.CampaignID != *campaignID {
			continue
		}
		analytics = append(analytics, copyAnalytics(row))
	}

	sortNewestFirst(analytics, func(a *models.Analytics) (time.Time, int64) { return a.UpdatedAt, a.ID })
	return analytics, nil
}

// CreateOrUpdate finds the existing row by a linear scan over campaign id.
// Fine at this scale; index by campaign id if this ever becomes hot.
func (r *analyticsRepository) CreateOrUpdate(params models.AnalyticsParams) (*models.Analytics, error) {
	for _, row := range r.store.analytics {
		if row.CampaignID != params.CampaignID {
			continue
		}

		row.Sent = coalesce(params.Sent, row.Sent)
		row.Delivered = coalesce(params.Delivered, row.Delivered)
		row.Read = coalesce(params.Read, row.Read)
		row.Optout = coalesce(params.Optout, row.Optout)
		row.Hold = coalesce(params.Hold, row.Hold)
		row.Failed = coalesce(params.Failed, row.Failed)
		row.UpdatedAt = time.Now()

		return copyAnalytics(row), nil
	}

	row := &models.Analytics{
		ID:         r.store.nextAnalyticsID(),
		AccountID:  params.AccountID,
		CampaignID: params.CampaignID,
		Sent:       coalesce(params.Sent, 0),
		Delivered:  coalesce(params.Delivered, 0),
		Read:       coalesce(params.Read, 0),
		Optout:     coalesce(params.Optout, 0),
		Hold:       coalesce(params.Hold, 0),
		Failed:     coalesce(params.Failed, 0),
		UpdatedAt:  time.Now(),
	}

	r.store.analytics[row.ID] = row
	return copyAnalytics(row), nil
}

func coalesce(v *int64, fallback int64) int64 {
	if v != nil {
		return *v
	}
	return fallback
}

func copyAnalytics(a *models.Analytics) *models.Analytics {
	cp := *a
	return &cp
}
