package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sendesk/sendesk/internal/models"
)

const campaignColumns = `id, account_id, name, template, contact_label, status, scheduled_for, created_at`

type campaignRepository struct {
	db        *sqlx.DB
	analytics *analyticsRepository
}

// List returns campaigns for the account, newest first, with the same
// single-dimension filter rule as contacts: search, then status, then date
// range.
func (r *campaignRepository) List(accountID int64, filter *models.CampaignFilter) ([]*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE account_id = $1`
	args := []interface{}{accountID}

	if filter != nil {
		switch {
		case filter.Search != "":
			query += ` AND name ILIKE $2`
			args = append(args, "%"+filter.Search+"%")
		case filter.Status != "":
			query += ` AND status = $2`
			args = append(args, filter.Status)
		case filter.DateRange != "":
			query += ` AND created_at >= $2`
			args = append(args, models.DateRangeStart(filter.DateRange, time.Now()))
		}
	}

	query += ` ORDER BY created_at DESC, id DESC`

	campaigns := []*models.Campaign{}
	if err := r.db.Select(&campaigns, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	return campaigns, nil
}

func (r *campaignRepository) GetByID(id int64) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`

	var campaign models.Campaign
	err := r.db.Get(&campaign, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return &campaign, nil
}

// Create stores a new campaign as a draft, whatever status the caller sent.
func (r *campaignRepository) Create(params models.CreateCampaignParams) (*models.Campaign, error) {
	query := `
		INSERT INTO campaigns (account_id, name, template, contact_label, status, scheduled_for, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + campaignColumns

	var campaign models.Campaign
	err := r.db.Get(&campaign, query,
		params.AccountID,
		params.Name,
		params.Template,
		models.NullStringFrom(params.ContactLabel),
		models.CampaignStatusDraft,
		models.NullTimeFrom(params.ScheduledFor),
		time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	return &campaign, nil
}

func (r *campaignRepository) Update(id int64, params models.UpdateCampaignParams) (*models.Campaign, error) {
	campaign, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
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

	query := `
		UPDATE campaigns
		SET name = $2, template = $3, contact_label = $4, status = $5, scheduled_for = $6
		WHERE id = $1
	`

	_, err = r.db.Exec(query, id,
		campaign.Name,
		campaign.Template,
		campaign.ContactLabel,
		campaign.Status,
		campaign.ScheduledFor,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	return campaign, nil
}

func (r *campaignRepository) Delete(id int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete campaign: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete campaign: %w", err)
	}

	return rows > 0, nil
}

// Launch activates the campaign and ensures its analytics row exists. The
// upsert makes the analytics side idempotent: an existing row keeps its
// counters, a missing row starts at zero.
func (r *campaignRepository) Launch(id int64) (bool, error) {
	campaign, err := r.GetByID(id)
	if err != nil {
		return false, err
	}
	if campaign == nil {
		return false, nil
	}

	query := `UPDATE campaigns SET status = $2 WHERE id = $1`
	if _, err := r.db.Exec(query, id, models.CampaignStatusActive); err != nil {
		return false, fmt.Errorf("failed to launch campaign: %w", err)
	}

	_, err = r.analytics.CreateOrUpdate(models.AnalyticsParams{
		AccountID:  campaign.AccountID,
		CampaignID: campaign.ID,
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// ListDue returns draft campaigns whose scheduled time has passed.
func (r *campaignRepository) ListDue(now time.Time) ([]*models.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE status = $1 AND scheduled_for IS NOT NULL AND scheduled_for <= $2
		ORDER BY scheduled_for ASC, id ASC
	`

	campaigns := []*models.Campaign{}
	if err := r.db.Select(&campaigns, query, models.CampaignStatusDraft, now); err != nil {
		return nil, fmt.Errorf("failed to list due campaigns: %w", err)
	}

	return campaigns, nil
}
