// Package handler provides HTTP request handlers for the application.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/sendesk/sendesk/internal/middleware"
	"github.com/sendesk/sendesk/internal/service"
	"github.com/sendesk/sendesk/internal/session"
	"github.com/sendesk/sendesk/internal/storage"
)

const (
	errorCodeInvalidBody        = "INVALID_BODY"
	errorCodeInvalidID          = "INVALID_ID"
	errorCodeNotFound           = "NOT_FOUND"
	errorCodeUsernameTaken      = "USERNAME_TAKEN"
	errorCodeInvalidCredentials = "INVALID_CREDENTIALS"
	errorCodeInvalidResetToken  = "INVALID_RESET_TOKEN"
	errorCodeValidation         = "VALIDATION_ERROR"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler serves the dashboard API on top of the storage contract.
type Handler struct {
	store      storage.Storage
	sessions   session.Store
	service    *service.Service
	redis      *redis.Client
	cookieName string
	sessionTTL time.Duration
	logger     *zap.Logger
}

type Options struct {
	Store      storage.Storage
	Sessions   session.Store
	Service    *service.Service
	Redis      *redis.Client
	CookieName string
	SessionTTL time.Duration
	Logger     *zap.Logger
}

func NewHandler(opts Options) *Handler {
	return &Handler{
		store:      opts.Store,
		sessions:   opts.Sessions,
		service:    opts.Service,
		redis:      opts.Redis,
		cookieName: opts.CookieName,
		sessionTTL: opts.SessionTTL,
		logger:     opts.Logger,
	}
}

func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error:     errorCode,
		Message:   message,
		Timestamp: time.Now(),
	})
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.logger.Error(message,
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.Error(err))
	h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, message)
}

// decode reads a JSON body into dst, answering 400 itself on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidBody, "Request body is not valid JSON")
		return false
	}
	return true
}

// pathID parses the {id} route parameter, answering 400 itself on failure.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidID, "Route id must be an integer")
		return 0, false
	}
	return id, true
}

// accountID returns the authenticated account scope.
func (h *Handler) accountID(r *http.Request) int64 {
	sess := middleware.GetSession(r.Context())
	if sess == nil {
		return 0
	}
	return sess.AccountID
}
