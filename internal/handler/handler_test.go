package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sendesk/sendesk/internal/config"
	"github.com/sendesk/sendesk/internal/handler"
	"github.com/sendesk/sendesk/internal/middleware"
	"github.com/sendesk/sendesk/internal/models"
	"github.com/sendesk/sendesk/internal/service"
	"github.com/sendesk/sendesk/internal/session"
	"github.com/sendesk/sendesk/internal/storage"
	"github.com/sendesk/sendesk/internal/storage/memory"
)

const testCookieName = "sid"

type testEnv struct {
	server *httptest.Server
	client *http.Client
	store  storage.Storage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	sessions := session.NewMemoryStore()
	logger := zap.NewNop()

	cfg := &config.Config{
		Dispatch: config.DispatchConfig{
			Timeout: 5,
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxRequests:      3,
				Interval:         60,
				Timeout:          60,
				FailureRatio:     0.6,
				ConsecutiveFails: 5,
			},
		},
		Scheduler: config.SchedulerConfig{IntervalMinutes: 1},
	}

	svc := service.NewService(cfg, store, nil, logger)

	h := handler.NewHandler(handler.Options{
		Store:      store,
		Sessions:   sessions,
		Service:    svc,
		CookieName: testCookieName,
		SessionTTL: time.Hour,
		Logger:     logger,
	})

	auth := middleware.NewSessionAuth(sessions, testCookieName)

	r := chi.NewRouter()
	r.Get("/health", h.HealthCheck)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)
		r.Post("/auth/forgot-password", h.ForgotPassword)
		r.Post("/auth/reset-password", h.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Get("/me", h.CurrentUser)

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", h.ListContacts)
				r.Post("/", h.CreateContact)
				r.Post("/import", h.ImportContacts)
				r.Get("/{id}", h.GetContact)
				r.Put("/{id}", h.UpdateContact)
				r.Delete("/{id}", h.DeleteContact)
			})

			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", h.ListCampaigns)
				r.Post("/", h.CreateCampaign)
				r.Get("/{id}", h.GetCampaign)
				r.Put("/{id}", h.UpdateCampaign)
				r.Delete("/{id}", h.DeleteCampaign)
				r.Post("/{id}/launch", h.LaunchCampaign)
			})

			r.Get("/analytics", h.GetAnalytics)
			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		server: server,
		client: &http.Client{Jar: jar},
		store:  store,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, raw
}

func (e *testEnv) register(t *testing.T, username string) {
	t.Helper()
	resp, _ := e.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func decodeJSON(t *testing.T, raw []byte, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dst))
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var registered map[string]interface{}
	decodeJSON(t, raw, &registered)
	assert.Equal(t, "alice", registered["username"])
	assert.NotContains(t, registered, "password")

	resp, raw = env.do(t, http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]interface{}
	decodeJSON(t, raw, &me)
	assert.Equal(t, "alice", me["username"])

	resp, raw = env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"password": "other",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var errResp handler.ErrorResponse
	decodeJSON(t, raw, &errResp)
	assert.Equal(t, "USERNAME_TAKEN", errResp.Error)

	resp, _ = env.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp handler.ErrorResponse
	decodeJSON(t, raw, &errResp)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Error)
}

func TestPasswordReset(t *testing.T) {
	env := newTestEnv(t)

	email := "alice@example.com"
	user, err := env.store.Users().Create(models.CreateUserParams{
		Username: "alice",
		Password: "old-hash",
		Email:    &email,
	})
	require.NoError(t, err)

	resp, raw := env.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{
		"email": email,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(raw), "token", "reset tokens never appear in responses")

	resp, _ = env.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{
		"email": "nobody@example.com",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode, "unknown emails get the same response")

	reloaded, err := env.store.Users().GetByID(user.ID)
	require.NoError(t, err)
	require.True(t, reloaded.ResetToken.Valid)
	token := reloaded.ResetToken.String

	resp, raw = env.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"token":    "bogus",
		"password": "new-password",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp handler.ErrorResponse
	decodeJSON(t, raw, &errResp)
	assert.Equal(t, "INVALID_RESET_TOKEN", errResp.Error)

	resp, _ = env.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "new-password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "new-password",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/me", "/api/contacts/", "/api/campaigns/", "/api/analytics", "/api/settings"} {
		resp, _ := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestContactEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	resp, raw := env.do(t, http.MethodPost, "/api/contacts/", map[string]string{
		"name":   "Dana",
		"mobile": "+15550001111",
		"label":  "vip",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]interface{}
	decodeJSON(t, raw, &created)
	contactID := int64(created["id"].(float64))

	resp, _ = env.do(t, http.MethodPost, "/api/contacts/", map[string]string{
		"mobile": "+15550002222",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "name is required")

	resp, raw = env.do(t, http.MethodGet, "/api/contacts/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []map[string]interface{}
	decodeJSON(t, raw, &listed)
	require.Len(t, listed, 1)

	resp, raw = env.do(t, http.MethodGet, "/api/contacts/?search=dana", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, raw, &listed)
	require.Len(t, listed, 1)

	resp, raw = env.do(t, http.MethodGet, "/api/contacts/?search=nobody", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, raw, &listed)
	assert.Empty(t, listed)

	resp, raw = env.do(t, http.MethodPut, fmt.Sprintf("/api/contacts/%d", contactID), map[string]string{
		"name": "Dana Scully",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]interface{}
	decodeJSON(t, raw, &updated)
	assert.Equal(t, "Dana Scully", updated["name"])
	assert.Equal(t, "+15550001111", updated["mobile"])

	resp, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/contacts/%d", contactID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, fmt.Sprintf("/api/contacts/%d", contactID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/contacts/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestContactOwnership(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "alice")
	resp, raw := env.do(t, http.MethodPost, "/api/contacts/", map[string]string{
		"name":   "Dana",
		"mobile": "+15550001111",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]interface{}
	decodeJSON(t, raw, &created)
	contactID := int64(created["id"].(float64))

	resp, _ = env.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env.register(t, "mallory")

	path := fmt.Sprintf("/api/contacts/%d", contactID)

	resp, _ = env.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, path, map[string]string{"name": "Hijacked"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestImportContacts(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	resp, _ := env.do(t, http.MethodPost, "/api/contacts/", map[string]string{
		"name":   "Existing",
		"mobile": "+15550001111",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := env.do(t, http.MethodPost, "/api/contacts/import", map[string]interface{}{
		"deduplicate_by_mobile": true,
		"contacts": []map[string]string{
			{"name": "Dup", "mobile": "+15550001111"},
			{"name": "Fresh", "mobile": "+15550002222"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.ImportResult
	decodeJSON(t, raw, &result)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
}

func TestCampaignLaunch(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	resp, raw := env.do(t, http.MethodPost, "/api/campaigns/", map[string]string{
		"name":     "Spring Sale",
		"template": "spring_sale_v1",
		"status":   "active",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]interface{}
	decodeJSON(t, raw, &created)
	assert.Equal(t, "draft", created["status"], "create always yields a draft")
	campaignID := int64(created["id"].(float64))

	resp, raw = env.do(t, http.MethodPost, fmt.Sprintf("/api/campaigns/%d/launch", campaignID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var launch map[string]interface{}
	decodeJSON(t, raw, &launch)
	assert.Equal(t, "active", launch["status"])

	resp, raw = env.do(t, http.MethodGet, fmt.Sprintf("/api/analytics?campaign_id=%d", campaignID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []map[string]interface{}
	decodeJSON(t, raw, &rows)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 0, rows[0]["sent"])

	resp, _ = env.do(t, http.MethodPost, "/api/campaigns/99999/launch", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalyticsBadCampaignID(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	resp, _ := env.do(t, http.MethodGet, "/api/analytics?campaign_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettingsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	resp, _ := env.do(t, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "settings start unset")

	resp, raw := env.do(t, http.MethodPut, "/api/settings", map[string]string{
		"waba_api_url":     "https://waba.example.com",
		"campaign_api_key": "key-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = env.do(t, http.MethodPut, "/api/settings", map[string]string{
		"partner_mobile": "+15550001111",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var merged map[string]interface{}
	decodeJSON(t, raw, &merged)
	assert.Equal(t, "https://waba.example.com", merged["waba_api_url"])
	assert.Equal(t, "+15550001111", merged["partner_mobile"])

	resp, raw = env.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loaded map[string]interface{}
	decodeJSON(t, raw, &loaded)
	assert.Equal(t, "key-1", loaded["campaign_api_key"])
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]interface{}
	decodeJSON(t, raw, &health)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "connected", health["database_status"])
	assert.Equal(t, "disabled", health["redis_status"])
}
