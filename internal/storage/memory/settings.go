package memory

import (
	"database/sql"
	"time"

	"github.com/sendesk/sendesk/internal/models"
)

type settingsRepository struct {
	store *Store
}

func (r *settingsRepository) Get(accountID int64) (*models.Settings, error) {
	for _, settings := range r.store.settings {
		if settings.AccountID == accountID {
			return copySettings(settings), nil
		}
	}
	return nil, nil
}

func (r *settingsRepository) Update(accountID int64, params models.UpdateSettingsParams) (*models.Settings, error) {
	for _, settings := range r.store.settings {
		if settings.AccountID != accountID {
			continue
		}

		settings.WabaAPIURL = coalesceString(params.WabaAPIURL, settings.WabaAPIURL)
		settings.FacebookAccessToken = coalesceString(params.FacebookAccessToken, settings.FacebookAccessToken)
		settings.PartnerMobile = coalesceString(params.PartnerMobile, settings.PartnerMobile)
		settings.WabaID = coalesceString(params.WabaID, settings.WabaID)
		settings.CampaignAPIKey = coalesceString(params.CampaignAPIKey, settings.CampaignAPIKey)
		settings.UpdatedAt = time.Now()

		return copySettings(settings), nil
	}

	settings := &models.Settings{
		ID:                  r.store.nextSettingsID(),
		AccountID:           accountID,
		WabaAPIURL:          nullValue(params.WabaAPIURL),
		FacebookAccessToken: nullValue(params.FacebookAccessToken),
		PartnerMobile:       nullValue(params.PartnerMobile),
		WabaID:              nullValue(params.WabaID),
		CampaignAPIKey:      nullValue(params.CampaignAPIKey),
		UpdatedAt:           time.Now(),
	}

	r.store.settings[settings.ID] = settings
	return copySettings(settings), nil
}

func coalesceString(v *string, fallback models.NullString) models.NullString {
	if v != nil {
		return models.NullString{NullString: sql.NullString{String: *v, Valid: true}}
	}
	return fallback
}

// nullValue keeps provided values, including empty strings, and stores nil
// as absent. Matches NULL column behavior on the Postgres side.
func nullValue(v *string) models.NullString {
	if v == nil {
		return models.NullString{}
	}
	return models.NullString{NullString: sql.NullString{String: *v, Valid: true}}
}

func copySettings(s *models.Settings) *models.Settings {
	cp := *s
	return &cp
}
