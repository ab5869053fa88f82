package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sendesk/sendesk/internal/config"
	"github.com/sendesk/sendesk/internal/models"
	"github.com/sendesk/sendesk/internal/storage"
)

var (
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrSettingsIncomplete = errors.New("account settings missing WABA API URL")
)

type dispatchService struct {
	cfg            *config.Config
	store          storage.Storage
	httpClient     *http.Client
	logger         *zap.Logger
	circuitBreaker *CircuitBreaker
}

func NewDispatchService(
	cfg *config.Config,
	store storage.Storage,
	logger *zap.Logger,
) DispatchService {
	cb := NewCircuitBreaker(&cfg.Dispatch.CircuitBreaker, logger)

	return &dispatchService{
		cfg:   cfg,
		store: store,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Dispatch.Timeout) * time.Second,
		},
		logger:         logger,
		circuitBreaker: cb,
	}
}

// DispatchCampaign sends the campaign template to every contact the
// campaign targets. Contacts are resolved through the campaign's contact
// label when one is set, otherwise the whole account is targeted. Outcomes
// land in the campaign's analytics row.
func (s *dispatchService) DispatchCampaign(campaignID int64) error {
	campaign, err := s.store.Campaigns().GetByID(campaignID)
	if err != nil {
		return fmt.Errorf("failed to load campaign: %w", err)
	}
	if campaign == nil {
		return ErrCampaignNotFound
	}

	settings, err := s.store.Settings().Get(campaign.AccountID)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil || !settings.WabaAPIURL.Valid {
		return ErrSettingsIncomplete
	}

	var filter *models.ContactFilter
	if campaign.ContactLabel.Valid {
		filter = &models.ContactFilter{Label: campaign.ContactLabel.String}
	}

	contacts, err := s.store.Contacts().List(campaign.AccountID, filter)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	s.logger.Info("Dispatching campaign",
		zap.Int64("campaignID", campaign.ID),
		zap.Int("contacts", len(contacts)))

	var sent, failed int64
	for _, contact := range contacts {
		if err := s.sendToContact(campaign, settings, contact); err != nil {
			failed++
			s.logger.Error("Failed to deliver campaign message",
				zap.Int64("campaignID", campaign.ID),
				zap.Int64("contactID", contact.ID),
				zap.Error(err))
			continue
		}
		sent++
	}

	return s.recordOutcome(campaign, sent, failed)
}

func (s *dispatchService) sendToContact(campaign *models.Campaign, settings *models.Settings, contact *models.Contact) error {
	return s.circuitBreaker.Execute(context.Background(), func() error {
		reqBody := DispatchRequest{
			To:         contact.Mobile,
			Template:   campaign.Template,
			CampaignID: campaign.ID,
		}

		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}

		req, err := http.NewRequest(http.MethodPost, settings.WabaAPIURL.String, bytes.NewBuffer(jsonData))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		if settings.FacebookAccessToken.Valid {
			req.Header.Set("Authorization", "Bearer "+settings.FacebookAccessToken.String)
		}
		if settings.CampaignAPIKey.Valid {
			req.Header.Set("X-Campaign-Key", settings.CampaignAPIKey.String)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				s.logger.Warn("Failed to close response body", zap.Error(err))
			}
		}()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return nil
	})
}

// recordOutcome folds this dispatch round into the campaign's counters. The
// upsert overwrites whole counters, so current values are read first.
func (s *dispatchService) recordOutcome(campaign *models.Campaign, sent, failed int64) error {
	rows, err := s.store.Analytics().List(campaign.AccountID, &campaign.ID)
	if err != nil {
		return fmt.Errorf("failed to load analytics: %w", err)
	}

	if len(rows) > 0 {
		sent += rows[0].Sent
		failed += rows[0].Failed
	}

	_, err = s.store.Analytics().CreateOrUpdate(models.AnalyticsParams{
		AccountID:  campaign.AccountID,
		CampaignID: campaign.ID,
		Sent:       &sent,
		Failed:     &failed,
	})
	if err != nil {
		return fmt.Errorf("failed to record dispatch outcome: %w", err)
	}

	return nil
}

// LaunchDueCampaigns launches and dispatches scheduled drafts whose time
// has come. Failures on one campaign do not block the rest.
func (s *dispatchService) LaunchDueCampaigns() error {
	due, err := s.store.Campaigns().ListDue(time.Now())
	if err != nil {
		return fmt.Errorf("failed to list due campaigns: %w", err)
	}

	if len(due) == 0 {
		return nil
	}

	s.logger.Info("Found due campaigns", zap.Int("count", len(due)))

	for _, campaign := range due {
		launched, err := s.store.Campaigns().Launch(campaign.ID)
		if err != nil {
			s.logger.Error("Failed to launch campaign",
				zap.Int64("campaignID", campaign.ID),
				zap.Error(err))
			continue
		}
		if !launched {
			continue
		}

		if err := s.DispatchCampaign(campaign.ID); err != nil {
			s.logger.Error("Failed to dispatch campaign",
				zap.Int64("campaignID", campaign.ID),
				zap.Error(err))
		}
	}

	return nil
}

func (s *dispatchService) GetCircuitBreakerStatus() (BreakerState, uint32, uint32) {
	requests, failures := s.circuitBreaker.GetCounts()
	return s.circuitBreaker.GetState(), requests, failures
}
