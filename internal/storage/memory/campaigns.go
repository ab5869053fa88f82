package memory

import (
	"sort"
	"time"

	"github.com/sendesk/sendesk/internal/models"
)

type campaignRepository struct {
	store *Store
}

func (r *campaignRepository) List(accountID int64, filter *models.CampaignFilter) ([]*models.Campaign, error) {
	match := campaignPredicate(filter)

	campaigns := []*models.Campaign{}
	for _, campaign := range r.store.campaigns {
		if campaign.AccountID != accountID {
			continue
		}
		if match != nil && !match(campaign) {
			continue
		}
		campaigns = append(campaigns, copyCampaign(campaign))
	}

	sortNewestFirst(campaigns, func(c *models.Campaign) (time.Time, int64) { return c.CreatedAt, c.ID })
	return campaigns, nil
}

func campaignPredicate(filter *models.CampaignFilter) func(*models.Campaign) bool {
	if filter == nil {
		return nil
	}

	switch {
	case filter.Search != "":
		return func(c *models.Campaign) bool {
			return models.ContainsFold(c.Name, filter.Search)
		}
	case filter.Status != "":
		return func(c *models.Campaign) bool {
			return string(c.Status) == filter.Status
		}
	case filter.DateRange != "":
		start := models.DateRangeStart(filter.DateRange, time.Now())
		return func(c *models.Campaign) bool {
			return !c.CreatedAt.Before(start)
		}
	default:
		return nil
	}
}

func (r *campaignRepository) GetByID(id int64) (*models.Campaign, error) {
	campaign, ok := r.store.campaigns[id]
	if !ok {
		return nil, nil
	}
	return copyCampaign(campaign), nil
}

func (r *campaignRepository) Create(params models.CreateCampaignParams) (*models.Campaign, error) {
	campaign := &models.Campaign{
		ID:           r.store.nextCampaignID(),
		AccountID:    params.AccountID,
		Name:         params.Name,
		Template:     params.Template,
		ContactLabel: models.NullStringFrom(params.ContactLabel),
		Status:       models.CampaignStatusDraft,
		ScheduledFor: models.NullTimeFrom(params.ScheduledFor),
		CreatedAt:    time.Now(),
	}

	r.store.campaigns[campaign.ID] = campaign
	return copyCampaign(campaign), nil
}

func (r *campaignRepository) Update(id int64, params models.UpdateCampaignParams) (*models.Campaign, error) {
	campaign, ok := r.store.campaigns[id]
	if !ok {
		return nil, nil
	}

	if params.Name != nil {
		campaign.Name = *params.Name
	}
	if params.Template != nil {
		campaign.Template = *params.Template
	}
	if params.ContactLabel != nil {
		campaign.ContactLabel = models.NullStringFrom(params.ContactLabel)
	}
	if params.Status != nil {
		campaign.Status = *params.Status
	}
	if params.ScheduledFor != nil {
		campaign.ScheduledFor = models.NullTimeFrom(params.ScheduledFor)
	}

	return copyCampaign(campaign), nil
}

func (r *campaignRepository) Delete(id int64) (bool, error) {
	if _, ok := r.store.campaigns[id]; !ok {
		return false, nil
	}
	delete(r.store.campaigns, id)
	return true, nil
}

func (r *campaignRepository) Launch(id int64) (bool, error) {
	campaign, ok := r.store.campaigns[id]
	if !ok {
		return false, nil
	}

	campaign.Status = models.CampaignStatusActive

	analytics := &analyticsRepository{store: r.store}
	_, err := analytics.CreateOrUpdate(models.AnalyticsParams{
		AccountID:  campaign.AccountID,
		CampaignID: campaign.ID,
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *campaignRepository) ListDue(now time.Time) ([]*models.Campaign, error) {
	due := []*models.Campaign{}
	for _, campaign := range r.store.campaigns {
		if campaign.Status != models.CampaignStatusDraft {
			continue
		}
		if !campaign.ScheduledFor.Valid || campaign.ScheduledFor.Time.After(now) {
			continue
		}
		due = append(due, copyCampaign(campaign))
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].ScheduledFor.Time.Equal(due[j].ScheduledFor.Time) {
			return due[i].ScheduledFor.Time.Before(due[j].ScheduledFor.Time)
		}
		return due[i].ID < due[j].ID
	})

	return due, nil
}

func copyCampaign(c *models.Campaign) *models.Campaign {
	cp := *c
	return &cp
}
