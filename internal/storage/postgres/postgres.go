// Package postgres implements the storage contract against PostgreSQL.
// Queries rely on the database engine for locking and constraint
// enforcement; no additional coordination happens here.
package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sendesk/sendesk/internal/storage"
)

// Store is the PostgreSQL-backed storage implementation.
type Store struct {
	db        *sqlx.DB
	users     *userRepository
	contacts  *contactRepository
	campaigns *campaignRepository
	analytics *analyticsRepository
	settings  *settingsRepository
}

// New creates a Postgres store over an established connection pool.
func New(db *sqlx.DB) *Store {
	analytics := &analyticsRepository{db: db}

	return &Store{
		db:        db,
		users:     &userRepository{db: db},
		contacts:  &contactRepository{db: db},
		campaigns: &campaignRepository{db: db, analytics: analytics},
		analytics: analytics,
		settings:  &settingsRepository{db: db},
	}
}

func (s *Store) Users() storage.UserRepository           { return s.users }
func (s *Store) Contacts() storage.ContactRepository     { return s.contacts }
func (s *Store) Campaigns() storage.CampaignRepository   { return s.campaigns }
func (s *Store) Analytics() storage.AnalyticsRepository  { return s.analytics }
func (s *Store) Settings() storage.SettingsRepository    { return s.settings }

// Ping checks if the database connection is healthy.
func (s *Store) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return s.db.PingContext(ctx)
}
