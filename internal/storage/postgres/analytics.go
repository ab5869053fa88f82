package postgres

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sendesk/sendesk/internal/models"
)

const analyticsColumns = `id, account_id, campaign_id, sent, delivered, read, optout, hold, failed, updated_at`

type analyticsRepository struct {
	db *sqlx.DB
}

func (r *analyticsRepository) List(accountID int64, campaignID *int64) ([]*models.Analytics, error) {
	query := `SELECT ` + analyticsColumns + ` FROM analytics WHERE account_id = $1`
	args := []interface{}{accountID}

	if campaignID != nil {
		query += ` AND campaign_id = $2`
		args = append(args, *campaignID)
	}

	query += ` ORDER BY updated_at DESC, id DESC`

	analytics := []*models.Analytics{}
	if err := r.db.Select(&analytics, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list analytics: %w", err)
	}

	return analytics, nil
}

// CreateOrUpdate upserts keyed on campaign id. Nil counters fall through to
// the stored value on conflict and to zero on insert; updated_at is stamped
// either way.
func (r *analyticsRepository) CreateOrUpdate(params models.AnalyticsParams) (*models.Analytics, error) {
	query := `
		INSERT INTO analytics (account_id, campaign_id, sent, delivered, read, optout, hold, failed, updated_at)
		VALUES ($1, $2, COALESCE($3, 0), COALESCE($4, 0), COALESCE($5, 0), COALESCE($6, 0), COALESCE($7, 0), COALESCE($8, 0), $9)
		ON CONFLICT (campaign_id) DO UPDATE SET
			sent = COALESCE($3, analytics.sent),
			delivered = COALESCE($4, analytics.delivered),
			read = COALESCE($5, analytics.read),
			optout = COALESCE($6, analytics.optout),
			hold = COALESCE($7, analytics.hold),
			failed = COALESCE($8, analytics.failed),
			updated_at = $9
		RETURNING ` + analyticsColumns

	var row models.Analytics
	err := r.db.Get(&row, query,
		params.AccountID,
		params.CampaignID,
		params.Sent,
		params.Delivered,
		params.Read,
		params.Optout,
		params.Hold,
		params.Failed,
		time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert analytics: %w", err)
	}

	return &row, nil
}
