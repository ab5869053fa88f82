// Package memory implements the storage contract with process-local keyed
// collections. It backs development and test runs when no database is
// configured and must stay observably equivalent to the Postgres backend.
//
// The store is not safe for concurrent use; callers that need parallelism
// should run against Postgres.
package memory

import (
	"github.com/sendesk/sendesk/internal/models"
	"github.com/sendesk/sendesk/internal/storage"
)

// Store is the in-memory storage implementation: five keyed collections
// plus monotonically increasing id counters, scoped to process lifetime.
type Store struct {
	users     map[int64]*models.User
	contacts  map[int64]*models.Contact
	campaigns map[int64]*models.Campaign
	analytics map[int64]*models.Analytics
	settings  map[int64]*models.Settings

	userSeq      int64
	contactSeq   int64
	campaignSeq  int64
	analyticsSeq int64
	settingsSeq  int64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:     make(map[int64]*models.User),
		contacts:  make(map[int64]*models.Contact),
		campaigns: make(map[int64]*models.Campaign),
		analytics: make(map[int64]*models.Analytics),
		settings:  make(map[int64]*models.Settings),
	}
}

func (s *Store) Users() storage.UserRepository          { return &userRepository{store: s} }
func (s *Store) Contacts() storage.ContactRepository    { return &contactRepository{store: s} }
func (s *Store) Campaigns() storage.CampaignRepository  { return &campaignRepository{store: s} }
func (s *Store) Analytics() storage.AnalyticsRepository { return &analyticsRepository{store: s} }
func (s *Store) Settings() storage.SettingsRepository   { return &settingsRepository{store: s} }

// Ping always succeeds; there is nothing to reach.
func (s *Store) Ping() error { return nil }

func (s *Store) nextUserID() int64 {
	s.userSeq++
	return s.userSeq
}

func (s *Store) nextContactID() int64 {
	s.contactSeq++
	return s.contactSeq
}

func (s *Store) nextCampaignID() int64 {
	s.campaignSeq++
	return s.campaignSeq
}

func (s *Store) nextAnalyticsID() int64 {
	s.analyticsSeq++
	return s.analyticsSeq
}

func (s *Store) nextSettingsID() int64 {
	s.settingsSeq++
	return s.settingsSeq
}
