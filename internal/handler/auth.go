package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sendesk/sendesk/internal/models"
	"github.com/sendesk/sendesk/internal/session"
	"github.com/sendesk/sendesk/internal/storage"
)

type registerRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates an account and signs the new user in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Username and password are required")
		return
	}

	existing, err := h.store.Users().GetByUsername(req.Username)
	if err != nil {
		h.internalError(w, r, "Failed to check username", err)
		return
	}
	if existing != nil {
		h.sendError(w, r, http.StatusConflict, errorCodeUsernameTaken, "Username is already taken")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalError(w, r, "Failed to hash password", err)
		return
	}

	user, err := h.store.Users().Create(models.CreateUserParams{
		Username: req.Username,
		Password: string(hashed),
		Email:    req.Email,
	})
	if err != nil {
		h.internalError(w, r, "Failed to create user", err)
		return
	}

	if err := h.startSession(w, user); err != nil {
		h.internalError(w, r, "Failed to create session", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

// Login authenticates with username and password.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.store.Users().GetByUsername(req.Username)
	if err != nil {
		h.internalError(w, r, "Failed to look up user", err)
		return
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		h.sendError(w, r, http.StatusUnauthorized, errorCodeInvalidCredentials, "Invalid username or password")
		return
	}

	if err := h.startSession(w, user); err != nil {
		h.internalError(w, r, "Failed to create session", err)
		return
	}

	render.JSON(w, r, user)
}

// Logout destroys the current session and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		if err := h.sessions.Destroy(cookie.Value); err != nil {
			h.logger.Warn("Failed to destroy session", zap.Error(err))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	render.JSON(w, r, messageResponse{Message: "Logged out"})
}

// ForgotPassword issues a reset token for the account behind the email. The
// response is the same whether or not the email resolves, so addresses
// cannot be probed.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.store.Users().GetByEmail(req.Email)
	if err != nil {
		h.internalError(w, r, "Failed to look up user", err)
		return
	}

	if user != nil {
		if _, err := h.store.Users().CreateResetToken(user.ID); err != nil && !errors.Is(err, storage.ErrUserNotFound) {
			h.internalError(w, r, "Failed to create reset token", err)
			return
		}
		// The token is delivered out of band; it never appears in the
		// response.
		h.logger.Info("Password reset token issued", zap.Int64("userID", user.ID))
	}

	render.JSON(w, r, messageResponse{Message: "If the email exists, a reset link has been sent"})
}

// ResetPassword exchanges a valid reset token for a new password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Password == "" {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Password is required")
		return
	}

	user, err := h.store.Users().VerifyResetToken(req.Token)
	if err != nil {
		h.internalError(w, r, "Failed to verify reset token", err)
		return
	}
	if user == nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidResetToken, "Reset token is invalid or expired")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalError(w, r, "Failed to hash password", err)
		return
	}

	if _, err := h.store.Users().UpdatePassword(user.ID, string(hashed)); err != nil {
		h.internalError(w, r, "Failed to update password", err)
		return
	}

	render.JSON(w, r, messageResponse{Message: "Password updated"})
}

// CurrentUser returns the authenticated user.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.Users().GetByID(h.accountID(r))
	if err != nil {
		h.internalError(w, r, "Failed to load user", err)
		return
	}
	if user == nil {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "User not found")
		return
	}

	render.JSON(w, r, user)
}

func (h *Handler) startSession(w http.ResponseWriter, user *models.User) error {
	sid := uuid.New().String()
	now := time.Now()

	sess := &session.Session{
		UserID:    user.ID,
		AccountID: user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(h.sessionTTL),
	}

	if err := h.sessions.Set(sid, sess); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    sid,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}
