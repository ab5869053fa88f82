package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sendesk/sendesk/internal/models"
)

const settingsColumns = `id, account_id, waba_api_url, facebook_access_token, partner_mobile, waba_id, campaign_api_key, updated_at`

type settingsRepository struct {
	db *sqlx.DB
}

func (r *settingsRepository) Get(accountID int64) (*models.Settings, error) {
	query := `SELECT ` + settingsColumns + ` FROM settings WHERE account_id = $1`

	var settings models.Settings
	err := r.db.Get(&settings, query, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return &settings, nil
}

// Update upserts keyed on account id, same merge-or-create pattern as the
// analytics upsert: nil fields keep the stored value.
func (r *settingsRepository) Update(accountID int64, params models.UpdateSettingsParams) (*models.Settings, error) {
	query := `
		INSERT INTO settings (account_id, waba_api_url, facebook_access_token, partner_mobile, waba_id, campaign_api_key, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (account_id) DO UPDATE SET
			waba_api_url = COALESCE($2, settings.waba_api_url),
			facebook_access_token = COALESCE($3, settings.facebook_access_token),
			partner_mobile = COALESCE($4, settings.partner_mobile),
			waba_id = COALESCE($5, settings.waba_id),
			campaign_api_key = COALESCE($6, settings.campaign_api_key),
			updated_at = $7
		RETURNING ` + settingsColumns

	var settings models.Settings
	err := r.db.Get(&settings, query,
		accountID,
		params.WabaAPIURL,
		params.FacebookAccessToken,
		params.PartnerMobile,
		params.WabaID,
		params.CampaignAPIKey,
		time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert settings: %w", err)
	}

	return &settings, nil
}
