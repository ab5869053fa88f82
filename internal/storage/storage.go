// Package storage defines the persistence contract shared by the Postgres
// and in-memory backends. Lookup operations report absence with a nil
// entity, never an error; mutations against missing rows report a boolean
// where noted. The one hard failure is ErrUserNotFound from
// CreateResetToken.
package storage

import (
	"errors"
	"time"

	"github.com/sendesk/sendesk/internal/models"
)

// ErrUserNotFound is returned by CreateResetToken when the user id does not
// resolve. Other missing-row cases are soft signals, kept asymmetric on
// purpose.
var ErrUserNotFound = errors.New("user not found")

// ResetTokenTTL is how long a password reset token stays valid.
const ResetTokenTTL = time.Hour

// Storage is the backend contract. Both implementations must be observably
// equivalent for every operation: same merge semantics, same filter
// priority, same upsert keys.
type Storage interface {
	Users() UserRepository
	Contacts() ContactRepository
	Campaigns() CampaignRepository
	Analytics() AnalyticsRepository
	Settings() SettingsRepository

	// Ping checks backend availability.
	Ping() error
}

// UserRepository manages users and password reset tokens.
type UserRepository interface {
	GetByID(id int64) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(params models.CreateUserParams) (*models.User, error)

	// CreateResetToken generates a random token, stores it on the user
	// with a one hour expiry and returns it. Fails with ErrUserNotFound
	// for an unknown id.
	CreateResetToken(userID int64) (string, error)

	// VerifyResetToken resolves the owning user when the token matches
	// and has not expired. Expired tokens are treated as absent, not
	// purged.
	VerifyResetToken(token string) (*models.User, error)

	// UpdatePassword replaces the password and clears any reset token.
	// Returns false when the user does not exist.
	UpdatePassword(userID int64, password string) (bool, error)
}

// ContactRepository manages contacts scoped to an account.
type ContactRepository interface {
	List(accountID int64, filter *models.ContactFilter) ([]*models.Contact, error)
	GetByID(id int64) (*models.Contact, error)
	GetByMobile(mobile string, accountID int64) (*models.Contact, error)
	Create(params models.CreateContactParams) (*models.Contact, error)

	// Update applies a shallow merge and returns the updated contact, or
	// nil when the id does not resolve.
	Update(id int64, params models.UpdateContactParams) (*models.Contact, error)

	// Delete reports whether a row was removed.
	Delete(id int64) (bool, error)

	// Import processes records sequentially. With dedupe enabled, a
	// record whose (mobile, account) pair already exists in storage is
	// skipped and counted as a duplicate; each check re-queries current
	// state, so earlier records in the same batch are seen by later ones.
	Import(records []models.CreateContactParams, dedupeByMobile bool) (*models.ImportResult, error)
}

// CampaignRepository manages campaigns scoped to an account.
type CampaignRepository interface {
	List(accountID int64, filter *models.CampaignFilter) ([]*models.Campaign, error)
	GetByID(id int64) (*models.Campaign, error)

	// Create stores a new campaign. Status is forced to draft regardless
	// of input.
	Create(params models.CreateCampaignParams) (*models.Campaign, error)

	Update(id int64, params models.UpdateCampaignParams) (*models.Campaign, error)
	Delete(id int64) (bool, error)

	// Launch transitions the campaign to active and ensures a zero-valued
	// analytics row exists for it. Returns false when the campaign does
	// not exist.
	Launch(id int64) (bool, error)

	// ListDue returns draft campaigns scheduled at or before now.
	ListDue(now time.Time) ([]*models.Campaign, error)
}

// AnalyticsRepository manages per-campaign delivery counters.
type AnalyticsRepository interface {
	// List returns analytics for the account, optionally narrowed to one
	// campaign.
	List(accountID int64, campaignID *int64) ([]*models.Analytics, error)

	// CreateOrUpdate upserts keyed on campaign id. Provided counters
	// overwrite, nil counters preserve existing values; inserts default
	// every counter to zero.
	CreateOrUpdate(params models.AnalyticsParams) (*models.Analytics, error)
}

// SettingsRepository manages per-account settings.
type SettingsRepository interface {
	Get(accountID int64) (*models.Settings, error)

	// Update upserts keyed on account id with the same merge-or-create
	// semantics as the analytics upsert.
	Update(accountID int64, params models.UpdateSettingsParams) (*models.Settings, error)
}
