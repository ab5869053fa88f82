// Package storagetest runs one behavioral suite against any storage
// backend. Both the Postgres and in-memory implementations execute the
// same assertions, which is what keeps them observably equivalent.
package storagetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendesk/sendesk/internal/models"
	"github.com/sendesk/sendesk/internal/storage"
)

// Harness adapts a backend to the suite. New must return an empty store;
// ExpireResetToken must force the user's stored reset token past its
// expiry, using whatever backdoor the backend allows.
type Harness struct {
	New              func(t *testing.T) storage.Storage
	ExpireResetToken func(t *testing.T, s storage.Storage, userID int64)
}

// Run executes the full contract suite.
func Run(t *testing.T, h Harness) {
	t.Run("Users", func(t *testing.T) { testUsers(t, h) })
	t.Run("ResetTokens", func(t *testing.T) { testResetTokens(t, h) })
	t.Run("Contacts", func(t *testing.T) { testContacts(t, h) })
	t.Run("ContactFilters", func(t *testing.T) { testContactFilters(t, h) })
	t.Run("ContactImport", func(t *testing.T) { testContactImport(t, h) })
	t.Run("Campaigns", func(t *testing.T) { testCampaigns(t, h) })
	t.Run("CampaignFilters", func(t *testing.T) { testCampaignFilters(t, h) })
	t.Run("Analytics", func(t *testing.T) { testAnalytics(t, h) })
	t.Run("Settings", func(t *testing.T) { testSettings(t, h) })
	t.Run("Ping", func(t *testing.T) {
		s := h.New(t)
		assert.NoError(t, s.Ping())
	})
}

func ptr[T any](v T) *T { return &v }

func createUser(t *testing.T, s storage.Storage, username string) *models.User {
	t.Helper()
	user, err := s.Users().Create(models.CreateUserParams{
		Username: username,
		Password: "hashed-password",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func createContact(t *testing.T, s storage.Storage, params models.CreateContactParams) *models.Contact {
	t.Helper()
	contact, err := s.Contacts().Create(params)
	require.NoError(t, err)
	require.NotNil(t, contact)
	return contact
}

func createCampaign(t *testing.T, s storage.Storage, params models.CreateCampaignParams) *models.Campaign {
	t.Helper()
	campaign, err := s.Campaigns().Create(params)
	require.NoError(t, err)
	require.NotNil(t, campaign)
	return campaign
}

func testUsers(t *testing.T, h Harness) {
	s := h.New(t)

	email := "alice@example.com"
	user, err := s.Users().Create(models.CreateUserParams{
		Username: "alice",
		Password: "hashed-password",
		Email:    &email,
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.Email.Valid)
	assert.Equal(t, email, user.Email.String)
	assert.False(t, user.CreatedAt.IsZero())

	noEmail := createUser(t, s, "bob")
	assert.False(t, noEmail.Email.Valid)

	byID, err := s.Users().GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, user.Username, byID.Username)

	byUsername, err := s.Users().GetByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, byUsername)
	assert.Equal(t, user.ID, byUsername.ID)

	byEmail, err := s.Users().GetByEmail(email)
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	missing, err := s.Users().GetByID(99999)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = s.Users().GetByUsername("nobody")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = s.Users().GetByEmail("nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func testResetTokens(t *testing.T, h Harness) {
	t.Run("issue and verify", func(t *testing.T) {
		s := h.New(t)
		user := createUser(t, s, "alice")

		token, err := s.Users().CreateResetToken(user.ID)
		require.NoError(t, err)
		assert.Len(t, token, 40)

		resolved, err := s.Users().VerifyResetToken(token)
		require.NoError(t, err)
		require.NotNil(t, resolved)
		assert.Equal(t, user.ID, resolved.ID)
	})

	t.Run("unknown user", func(t *testing.T) {
		s := h.New(t)

		_, err := s.Users().CreateResetToken(99999)
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})

	t.Run("unknown token", func(t *testing.T) {
		s := h.New(t)
		createUser(t, s, "alice")

		resolved, err := s.Users().VerifyResetToken("not-a-real-token")
		assert.NoError(t, err)
		assert.Nil(t, resolved)
	})

	t.Run("expired token is treated as absent", func(t *testing.T) {
		s := h.New(t)
		user := createUser(t, s, "alice")

		token, err := s.Users().CreateResetToken(user.ID)
		require.NoError(t, err)

		h.ExpireResetToken(t, s, user.ID)

		resolved, err := s.Users().VerifyResetToken(token)
		assert.NoError(t, err)
		assert.Nil(t, resolved)
	})

	t.Run("reissue replaces previous token", func(t *testing.T) {
		s := h.New(t)
		user := createUser(t, s, "alice")

		first, err := s.Users().CreateResetToken(user.ID)
		require.NoError(t, err)
		second, err := s.Users().CreateResetToken(user.ID)
		require.NoError(t, err)
		require.NotEqual(t, first, second)

		resolved, err := s.Users().VerifyResetToken(first)
		assert.NoError(t, err)
		assert.Nil(t, resolved)

		resolved, err = s.Users().VerifyResetToken(second)
		require.NoError(t, err)
		require.NotNil(t, resolved)
		assert.Equal(t, user.ID, resolved.ID)
	})

	t.Run("password update clears the token", func(t *testing.T) {
		s := h.New(t)
		user := createUser(t, s, "alice")

		token, err := s.Users().CreateResetToken(user.ID)
		require.NoError(t, err)

		updated, err := s.Users().UpdatePassword(user.ID, "new-hashed-password")
		require.NoError(t, err)
		assert.True(t, updated)

		resolved, err := s.Users().VerifyResetToken(token)
		assert.NoError(t, err)
		assert.Nil(t, resolved)

		reloaded, err := s.Users().GetByID(user.ID)
		require.NoError(t, err)
		require.NotNil(t, reloaded)
		assert.Equal(t, "new-hashed-password", reloaded.Password)
		assert.False(t, reloaded.ResetToken.Valid)
	})

	t.Run("password update for missing user", func(t *testing.T) {
		s := h.New(t)

		updated, err := s.Users().UpdatePassword(99999, "whatever")
		assert.NoError(t, err)
		assert.False(t, updated)
	})
}

func testContacts(t *testing.T, h Harness) {
	t.Run("create stores empty optionals as absent", func(t *testing.T) {
		s := h.New(t)

		contact := createContact(t, s, models.CreateContactParams{
			AccountID: 1,
			Name:      "Dana",
			Mobile:    "+15550001111",
			Label:     ptr(""),
			Location:  ptr(""),
		})
		assert.False(t, contact.Label.Valid)
		assert.False(t, contact.Location.Valid)

		labeled := createContact(t, s, models.CreateContactParams{
			AccountID: 1,
			Name:      "Eve",
			Mobile:    "+15550002222",
			Label:     ptr("vip"),
			Location:  ptr("Berlin"),
		})
		assert.Equal(t, "vip", labeled.Label.String)
		assert.Equal(t, "Berlin", labeled.Location.String)
	})

	t.Run("get by mobile is account scoped", func(t *testing.T) {
		s := h.New(t)

		createContact(t, s, models.CreateContactParams{AccountID: 1, Name: "Dana", Mobile: "+15550001111"})

		found, err := s.Contacts().GetByMobile("+15550001111", 1)
		require.NoError(t, err)
		require.NotNil(t, found)

		otherAccount, err := s.Contacts().GetByMobile("+15550001111", 2)
		assert.NoError(t, err)
		assert.Nil(t, otherAccount)
	})

	t.Run("update merges only the provided fields", func(t *testing.T) {
		s := h.New(t)

		contact := createContact(t, s, models.CreateContactParams{
			AccountID: 1,
			Name:      "Dana",
			Mobile:    "+15550001111",
			Label:     ptr("vip"),
		})

		updated, err := s.Contacts().Update(contact.ID, models.UpdateContactParams{
			Name: ptr("Dana Scully"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "Dana Scully", updated.Name)
		assert.Equal(t, "+15550001111", updated.Mobile)
		assert.Equal(t, "vip", updated.Label.String)

		cleared, err := s.Contacts().Update(contact.ID, models.UpdateContactParams{
			Label: ptr(""),
		})
		require.NoError(t, err)
		require.NotNil(t, cleared)
		assert.False(t, cleared.Label.Valid)
		assert.Equal(t, "Dana Scully", cleared.Name)
	})

	t.Run("update missing contact", func(t *testing.T) {
		s := h.New(t)

		updated, err := s.Contacts().Update(99999, models.UpdateContactParams{Name: ptr("Ghost")})
		assert.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("delete reports whether a row was removed", func(t *testing.T) {
		s := h.New(t)
		contact := createContact(t, s, models.CreateContactParams{AccountID: 1, Name: "Dana", Mobile: "+15550001111"})

		removed, err := s.Contacts().Delete(contact.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		gone, err := s.Contacts().GetByID(contact.ID)
		assert.NoError(t, err)
		assert.Nil(t, gone)

		removed, err = s.Contacts().Delete(contact.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("list is newest first and account scoped", func(t *testing.T) {
		s := h.New(t)

		first := createContact(t, s, models.CreateContactParams{AccountID: 1, Name: "First", Mobile: "+15550001111"})
		second := createContact(t, s, models.CreateContactParams{AccountID: 1, Name: "Second", Mobile: "+15550002222"})
		createContact(t, s, models.CreateContactParams{AccountID: 2, Name: "Other", Mobile: "+15550003333"})

		contacts, err := s.Contacts().List(1, nil)
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, second.ID, contacts[0].ID)
		assert.Equal(t, first.ID, contacts[1].ID)
	})
}

func testContactFilters(t *testing.T, h Harness) {
	seed := func(t *testing.T) storage.Storage {
		s := h.New(t)
		createContact(t, s, models.CreateContactParams{
			AccountID: 1, Name: "Alice Johnson", Mobile: "+15550001111",
			Label: ptr("vip"), Location: ptr("New York"),
		})
		createContact(t, s, models.CreateContactParams{
			AccountID: 1, Name: "Bob Smith", Mobile: "+15550002222",
			Label: ptr("lead"), Location: ptr("Newark"),
		})
		createContact(t, s, models.CreateContactParams{
			AccountID: 1, Name: "Carol Jones", Mobile: "+15550003333",
			Label: ptr("vip"), Location: ptr("Boston"),
		})
		return s
	}

	tests := []struct {
		name          string
		filter        *models.ContactFilter
		expectedNames []string
	}{
		{
			name:          "no filter returns everything",
			filter:        nil,
			expectedNames: []string{"Carol Jones", "Bob Smith", "Alice Johnson"},
		},
		{
			name:          "search matches name case-insensitively",
			filter:        &models.ContactFilter{Search: "aLiCe"},
			expectedNames: []string{"Alice Johnson"},
		},
		{
			name:          "search matches mobile substring",
			filter:        &models.ContactFilter{Search: "0002222"},
			expectedNames: []string{"Bob Smith"},
		},
		{
			name:          "label is an exact match",
			filter:        &models.ContactFilter{Label: "vip"},
			expectedNames: []string{"Carol Jones", "Alice Johnson"},
		},
		{
			name:          "label does not substring match",
			filter:        &models.ContactFilter{Label: "vi"},
			expectedNames: []string{},
		},
		{
			name:          "location is a substring match",
			filter:        &models.ContactFilter{Location: "new"},
			expectedNames: []string{"Bob Smith", "Alice Johnson"},
		},
		{
			name:          "search wins over label when both are set",
			filter:        &models.ContactFilter{Search: "Bob", Label: "vip"},
			expectedNames: []string{"Bob Smith"},
		},
		{
			name:          "label wins over location when both are set",
			filter:        &models.ContactFilter{Label: "lead", Location: "Boston"},
			expectedNames: []string{"Bob Smith"},
		},
		{
			name:          "recognized date range keeps recent rows",
			filter:        &models.ContactFilter{DateRange: models.DateRangeLastWeek},
			expectedNames: []string{"Carol Jones", "Bob Smith", "Alice Johnson"},
		},
		{
			name:          "unrecognized date range bounds nothing",
			filter:        &models.ContactFilter{DateRange: "fortnight"},
			expectedNames: []string{"Carol Jones", "Bob Smith", "Alice Johnson"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seed(t)

			contacts, err := s.Contacts().List(1, tt.filter)
			require.NoError(t, err)

			names := make([]string, 0, len(contacts))
			for _, c := range contacts {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.expectedNames, names)
		})
	}
}

func testContactImport(t *testing.T, h Harness) {
	t.Run("dedupe skips existing and in-batch duplicates", func(t *testing.T) {
		s := h.New(t)

		createContact(t, s, models.CreateContactParams{AccountID: 1, Name: "Existing", Mobile: "+15550001111"})

		result, err := s.Contacts().Import([]models.CreateContactParams{
			{AccountID: 1, Name: "Dup of existing", Mobile: "+15550001111"},
			{AccountID: 1, Name: "Fresh", Mobile: "+15550002222"},
			{AccountID: 1, Name: "Dup within batch", Mobile: "+15550002222"},
			{AccountID: 1, Name: "Another fresh", Mobile: "+15550003333"},
		}, true)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 2, result.Duplicates)

		contacts, err := s.Contacts().List(1, nil)
		require.NoError(t, err)
		assert.Len(t, contacts, 3)
	})

	t.Run("same mobile in another account is not a duplicate", func(t *testing.T) {
		s := h.New(t)

		createContact(t, s, models.CreateContactParams{AccountID: 2, Name: "Elsewhere", Mobile: "+15550001111"})

		result, err := s.Contacts().Import([]models.CreateContactParams{
			{AccountID: 1, Name: "Mine", Mobile: "+15550001111"},
		}, true)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
		assert.Equal(t, 0, result.Duplicates)
	})

	t.Run("dedupe disabled imports everything", func(t *testing.T) {
		s := h.New(t)

		result, err := s.Contacts().Import([]models.CreateContactParams{
			{AccountID: 1, Name: "One", Mobile: "+15550001111"},
			{AccountID: 1, Name: "Two", Mobile: "+15550001111"},
		}, false)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 0, result.Duplicates)

		contacts, err := s.Contacts().List(1, nil)
		require.NoError(t, err)
		assert.Len(t, contacts, 2)
	})

	t.Run("empty batch", func(t *testing.T) {
		s := h.New(t)

		result, err := s.Contacts().Import(nil, true)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Imported)
		assert.Equal(t, 0, result.Duplicates)
	})
}

func testCampaigns(t *testing.T, h Harness) {
	t.Run("create forces draft status", func(t *testing.T) {
		s := h.New(t)

		campaign := createCampaign(t, s, models.CreateCampaignParams{
			AccountID: 1,
			Name:      "Spring Sale",
			Template:  "spring_sale_v1",
			Status:    models.CampaignStatusActive,
		})
		assert.Equal(t, models.CampaignStatusDraft, campaign.Status)
	})

	t.Run("update merges only the provided fields", func(t *testing.T) {
		s := h.New(t)

		campaign := createCampaign(t, s, models.CreateCampaignParams{
			AccountID:    1,
			Name:         "Spring Sale",
			Template:     "spring_sale_v1",
			ContactLabel: ptr("vip"),
		})

		updated, err := s.Campaigns().Update(campaign.ID, models.UpdateCampaignParams{
			Name:   ptr("Spring Sale 2026"),
			Status: ptr(models.CampaignStatusCompleted),
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "Spring Sale 2026", updated.Name)
		assert.Equal(t, "spring_sale_v1", updated.Template)
		assert.Equal(t, "vip", updated.ContactLabel.String)
		assert.Equal(t, models.CampaignStatusCompleted, updated.Status)
	})

	t.Run("update missing campaign", func(t *testing.T) {
		s := h.New(t)

		updated, err := s.Campaigns().Update(99999, models.UpdateCampaignParams{Name: ptr("Ghost")})
		assert.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("launch activates and seeds zeroed analytics", func(t *testing.T) {
		s := h.New(t)

		campaign := createCampaign(t, s, models.CreateCampaignParams{
			AccountID: 1,
			Name:      "Spring Sale",
			Template:  "spring_sale_v1",
		})

		launched, err := s.Campaigns().Launch(campaign.ID)
		require.NoError(t, err)
		assert.True(t, launched)

		reloaded, err := s.Campaigns().GetByID(campaign.ID)
		require.NoError(t, err)
		require.NotNil(t, reloaded)
		assert.Equal(t, models.CampaignStatusActive, reloaded.Status)

		rows, err := s.Analytics().List(1, &campaign.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, campaign.ID, rows[0].CampaignID)
		assert.Zero(t, rows[0].Sent)
		assert.Zero(t, rows[0].Failed)
	})

	t.Run("relaunch preserves accumulated counters", func(t *testing.T) {
		s := h.New(t)

		campaign := createCampaign(t, s, models.CreateCampaignParams{
			AccountID: 1,
			Name:      "Spring Sale",
			Template:  "spring_sale_v1",
		})

		launched, err := s.Campaigns().Launch(campaign.ID)
		require.NoError(t, err)
		require.True(t, launched)

		_, err = s.Analytics().CreateOrUpdate(models.AnalyticsParams{
			AccountID:  1,
			CampaignID: campaign.ID,
			Sent:       ptr(int64(42)),
		})
		require.NoError(t, err)

		launched, err = s.Campaigns().Launch(campaign.ID)
		require.NoError(t, err)
		require.True(t, launched)

		rows, err := s.Analytics().List(1, &campaign.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(42), rows[0].Sent)
	})

	t.Run("launch missing campaign", func(t *testing.T) {
		s := h.New(t)

		launched, err := s.Campaigns().Launch(99999)
		assert.NoError(t, err)
		assert.False(t, launched)
	})

	t.Run("delete reports whether a row was removed", func(t *testing.T) {
		s := h.New(t)
		campaign := createCampaign(t, s, models.CreateCampaignParams{AccountID: 1, Name: "Sale", Template: "t"})

		removed, err := s.Campaigns().Delete(campaign.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = s.Campaigns().Delete(campaign.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("list due returns only scheduled drafts", func(t *testing.T) {
		s := h.New(t)
		now := time.Now()

		due := createCampaign(t, s, models.CreateCampaignParams{
			AccountID:    1,
			Name:         "Due",
			Template:     "t",
			ScheduledFor: ptr(now.Add(-time.Hour)),
		})
		createCampaign(t, s, models.CreateCampaignParams{
			AccountID:    1,
			Name:         "Future",
			Template:     "t",
			ScheduledFor: ptr(now.Add(time.Hour)),
		})
		createCampaign(t, s, models.CreateCampaignParams{
			AccountID: 1,
			Name:      "Unscheduled",
			Template:  "t",
		})
		active := createCampaign(t, s, models.CreateCampaignParams{
			AccountID:    1,
			Name:         "Already active",
			Template:     "t",
			ScheduledFor: ptr(now.Add(-time.Hour)),
		})
		_, err := s.Campaigns().Launch(active.ID)
		require.NoError(t, err)

		campaigns, err := s.Campaigns().ListDue(now)
		require.NoError(t, err)
		require.Len(t, campaigns, 1)
		assert.Equal(t, due.ID, campaigns[0].ID)
	})
}

func testCampaignFilters(t *testing.T, h Harness) {
	seed := func(t *testing.T) storage.Storage {
		s := h.New(t)
		createCampaign(t, s, models.CreateCampaignParams{AccountID: 1, Name: "Spring Sale", Template: "t1"})
		second := createCampaign(t, s, models.CreateCampaignParams{AccountID: 1, Name: "Summer Promo", Template: "t2"})
		createCampaign(t, s, models.CreateCampaignParams{AccountID: 1, Name: "Winter Sale", Template: "t3"})
		_, err := s.Campaigns().Launch(second.ID)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name          string
		filter        *models.CampaignFilter
		expectedNames []string
	}{
		{
			name:          "no filter returns everything newest first",
			filter:        nil,
			expectedNames: []string{"Winter Sale", "Summer Promo", "Spring Sale"},
		},
		{
			name:          "search matches name case-insensitively",
			filter:        &models.CampaignFilter{Search: "sale"},
			expectedNames: []string{"Winter Sale", "Spring Sale"},
		},
		{
			name:          "status is an exact match",
			filter:        &models.CampaignFilter{Status: "active"},
			expectedNames: []string{"Summer Promo"},
		},
		{
			name:          "search wins over status when both are set",
			filter:        &models.CampaignFilter{Search: "Winter", Status: "active"},
			expectedNames: []string{"Winter Sale"},
		},
		{
			name:          "unrecognized date range bounds nothing",
			filter:        &models.CampaignFilter{DateRange: "fortnight"},
			expectedNames: []string{"Winter Sale", "Summer Promo", "Spring Sale"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seed(t)

			campaigns, err := s.Campaigns().List(1, tt.filter)
			require.NoError(t, err)

			names := make([]string, 0, len(campaigns))
			for _, c := range campaigns {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.expectedNames, names)
		})
	}
}

func testAnalytics(t *testing.T, h Harness) {
	t.Run("insert defaults missing counters to zero", func(t *testing.T) {
		s := h.New(t)

		row, err := s.Analytics().CreateOrUpdate(models.AnalyticsParams{
			AccountID:  1,
			CampaignID: 10,
			Sent:       ptr(int64(5)),
		})
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, int64(5), row.Sent)
		assert.Zero(t, row.Delivered)
		assert.Zero(t, row.Read)
		assert.Zero(t, row.Optout)
		assert.Zero(t, row.Hold)
		assert.Zero(t, row.Failed)
		assert.False(t, row.UpdatedAt.IsZero())
	})

	t.Run("update overwrites provided counters and keeps the rest", func(t *testing.T) {
		s := h.New(t)

		_, err := s.Analytics().CreateOrUpdate(models.AnalyticsParams{
			AccountID:  1,
			CampaignID: 10,
			Sent:       ptr(int64(5)),
		})
		require.NoError(t, err)

		row, err := s.Analytics().CreateOrUpdate(models.AnalyticsParams{
			AccountID:  1,
			CampaignID: 10,
			Delivered:  ptr(int64(3)),
		})
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, int64(5), row.Sent)
		assert.Equal(t, int64(3), row.Delivered)

		rows, err := s.Analytics().List(1, nil)
		require.NoError(t, err)
		require.Len(t, rows, 1, "upsert must never create a second row per campaign")
	})

	t.Run("list narrows by campaign", func(t *testing.T) {
		s := h.New(t)

		_, err := s.Analytics().CreateOrUpdate(models.AnalyticsParams{AccountID: 1, CampaignID: 10})
		require.NoError(t, err)
		_, err = s.Analytics().CreateOrUpdate(models.AnalyticsParams{AccountID: 1, CampaignID: 11})
		require.NoError(t, err)
		_, err = s.Analytics().CreateOrUpdate(models.AnalyticsParams{AccountID: 2, CampaignID: 12})
		require.NoError(t, err)

		rows, err := s.Analytics().List(1, nil)
		require.NoError(t, err)
		assert.Len(t, rows, 2)

		campaignID := int64(11)
		rows, err = s.Analytics().List(1, &campaignID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, campaignID, rows[0].CampaignID)
	})
}

func testSettings(t *testing.T, h Harness) {
	t.Run("unset settings are absent", func(t *testing.T) {
		s := h.New(t)

		settings, err := s.Settings().Get(1)
		assert.NoError(t, err)
		assert.Nil(t, settings)
	})

	t.Run("upsert creates then merges", func(t *testing.T) {
		s := h.New(t)

		created, err := s.Settings().Update(1, models.UpdateSettingsParams{
			WabaAPIURL:     ptr("https://waba.example.com"),
			CampaignAPIKey: ptr("key-1"),
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, int64(1), created.AccountID)
		assert.Equal(t, "https://waba.example.com", created.WabaAPIURL.String)
		assert.Equal(t, "key-1", created.CampaignAPIKey.String)
		assert.False(t, created.PartnerMobile.Valid)

		merged, err := s.Settings().Update(1, models.UpdateSettingsParams{
			PartnerMobile: ptr("+15550001111"),
		})
		require.NoError(t, err)
		require.NotNil(t, merged)
		assert.Equal(t, "https://waba.example.com", merged.WabaAPIURL.String)
		assert.Equal(t, "key-1", merged.CampaignAPIKey.String)
		assert.Equal(t, "+15550001111", merged.PartnerMobile.String)

		reloaded, err := s.Settings().Get(1)
		require.NoError(t, err)
		require.NotNil(t, reloaded)
		assert.Equal(t, merged.ID, reloaded.ID, "upsert must never create a second row per account")
	})

	t.Run("accounts do not share settings", func(t *testing.T) {
		s := h.New(t)

		_, err := s.Settings().Update(1, models.UpdateSettingsParams{WabaAPIURL: ptr("https://one.example.com")})
		require.NoError(t, err)
		_, err = s.Settings().Update(2, models.UpdateSettingsParams{WabaAPIURL: ptr("https://two.example.com")})
		require.NoError(t, err)

		one, err := s.Settings().Get(1)
		require.NoError(t, err)
		require.NotNil(t, one)
		assert.Equal(t, "https://one.example.com", one.WabaAPIURL.String)

		two, err := s.Settings().Get(2)
		require.NoError(t, err)
		require.NotNil(t, two)
		assert.Equal(t, "https://two.example.com", two.WabaAPIURL.String)
	})
}
