// Package models defines data structures used throughout the application.
package models

import (
	"time"
)

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// User represents a dashboard account holder.
type User struct {
	ID               int64          `db:"id" json:"id"`
	Username         string         `db:"username" json:"username"`
	Email            NullString `db:"email" json:"email,omitempty"`
	Password         string         `db:"password" json:"-"`
	ResetToken       NullString `db:"reset_token" json:"-"`
	ResetTokenExpiry NullTime   `db:"reset_token_expiry" json:"-"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// Contact represents a messaging recipient scoped to an account.
type Contact struct {
	ID        int64          `db:"id" json:"id"`
	AccountID int64          `db:"account_id" json:"account_id"`
	Name      string         `db:"name" json:"name"`
	Mobile    string         `db:"mobile" json:"mobile"`
	Label     NullString `db:"label" json:"label,omitempty"`
	Location  NullString `db:"location" json:"location,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Campaign represents a templated messaging campaign.
type Campaign struct {
	ID           int64          `db:"id" json:"id"`
	AccountID    int64          `db:"account_id" json:"account_id"`
	Name         string         `db:"name" json:"name"`
	Template     string         `db:"template" json:"template"`
	ContactLabel NullString `db:"contact_label" json:"contact_label,omitempty"`
	Status       CampaignStatus `db:"status" json:"status"`
	ScheduledFor NullTime   `db:"scheduled_for" json:"scheduled_for,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// Analytics holds per-campaign delivery counters. Exactly one row exists
// per campaign id.
type Analytics struct {
	ID         int64     `db:"id" json:"id"`
	AccountID  int64     `db:"account_id" json:"account_id"`
	CampaignID int64     `db:"campaign_id" json:"campaign_id"`
	Sent       int64     `db:"sent" json:"sent"`
	Delivered  int64     `db:"delivered" json:"delivered"`
	Read       int64     `db:"read" json:"read"`
	Optout     int64     `db:"optout" json:"optout"`
	Hold       int64     `db:"hold" json:"hold"`
	Failed     int64     `db:"failed" json:"failed"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Settings holds per-account WABA integration settings. Exactly one row
// exists per account id.
type Settings struct {
	ID                  int64          `db:"id" json:"id"`
	AccountID           int64          `db:"account_id" json:"account_id"`
	WabaAPIURL          NullString `db:"waba_api_url" json:"waba_api_url,omitempty"`
	FacebookAccessToken NullString `db:"facebook_access_token" json:"facebook_access_token,omitempty"`
	PartnerMobile       NullString `db:"partner_mobile" json:"partner_mobile,omitempty"`
	WabaID              NullString `db:"waba_id" json:"waba_id,omitempty"`
	CampaignAPIKey      NullString `db:"campaign_api_key" json:"campaign_api_key,omitempty"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}

// CreateUserParams is the input for creating a user. Password is expected
// to be hashed by the caller.
type CreateUserParams struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email,omitempty"`
}

// CreateContactParams is the input for creating a contact. Empty label or
// location values are stored as absent, never as empty strings.
type CreateContactParams struct {
	AccountID int64   `json:"account_id"`
	Name      string  `json:"name"`
	Mobile    string  `json:"mobile"`
	Label     *string `json:"label,omitempty"`
	Location  *string `json:"location,omitempty"`
}

// UpdateContactParams is a shallow merge: nil fields keep the stored value.
type UpdateContactParams struct {
	Name     *string `json:"name,omitempty"`
	Mobile   *string `json:"mobile,omitempty"`
	Label    *string `json:"label,omitempty"`
	Location *string `json:"location,omitempty"`
}

// CreateCampaignParams is the input for creating a campaign. Status is
// accepted but ignored: new campaigns always start as drafts.
type CreateCampaignParams struct {
	AccountID    int64          `json:"account_id"`
	Name         string         `json:"name"`
	Template     string         `json:"template"`
	ContactLabel *string        `json:"contact_label,omitempty"`
	Status       CampaignStatus `json:"status,omitempty"`
	ScheduledFor *time.Time     `json:"scheduled_for,omitempty"`
}

// UpdateCampaignParams is a shallow merge: nil fields keep the stored value.
type UpdateCampaignParams struct {
	Name         *string         `json:"name,omitempty"`
	Template     *string         `json:"template,omitempty"`
	ContactLabel *string         `json:"contact_label,omitempty"`
	Status       *CampaignStatus `json:"status,omitempty"`
	ScheduledFor *time.Time      `json:"scheduled_for,omitempty"`
}

// AnalyticsParams is the input for the analytics upsert. Nil counters keep
// the stored value on update and default to zero on insert.
type AnalyticsParams struct {
	AccountID  int64  `json:"account_id"`
	CampaignID int64  `json:"campaign_id"`
	Sent       *int64 `json:"sent,omitempty"`
	Delivered  *int64 `json:"delivered,omitempty"`
	Read       *int64 `json:"read,omitempty"`
	Optout     *int64 `json:"optout,omitempty"`
	Hold       *int64 `json:"hold,omitempty"`
	Failed     *int64 `json:"failed,omitempty"`
}

// UpdateSettingsParams is the input for the settings upsert. Nil fields keep
// the stored value on update and default to absent on insert.
type UpdateSettingsParams struct {
	WabaAPIURL          *string `json:"waba_api_url,omitempty"`
	FacebookAccessToken *string `json:"facebook_access_token,omitempty"`
	PartnerMobile       *string `json:"partner_mobile,omitempty"`
	WabaID              *string `json:"waba_id,omitempty"`
	CampaignAPIKey      *string `json:"campaign_api_key,omitempty"`
}

// ImportResult reports the outcome of a contact import.
type ImportResult struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
}
