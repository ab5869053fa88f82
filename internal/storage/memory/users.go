package memory

import (
	"time"

	"github.com/sendesk/sendesk/internal/models"
	"github.com/sendesk/sendesk/internal/storage"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) GetByID(id int64) (*models.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(user), nil
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	for _, user := range r.store.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.store.users {
		if user.Email.Valid && user.Email.String == email {
			return copyUser(user), nil
		}
	}
	return nil, nil
}

func (r *userRepository) Create(params models.CreateUserParams) (*models.User, error) {
	user := &models.User{
		ID:        r.store.nextUserID(),
		Username:  params.Username,
		Email:     models.NullStringFrom(params.Email),
		Password:  params.Password,
		CreatedAt: time.Now(),
	}

	r.store.users[user.ID] = user
	return copyUser(user), nil
}

func (r *userRepository) CreateResetToken(userID int64) (string, error) {
	user, ok := r.store.users[userID]
	if !ok {
		return "", storage.ErrUserNotFound
	}

	token, err := storage.NewResetToken()
	if err != nil {
		return "", err
	}

	user.ResetToken = models.NullStringFrom(&token)
	user.ResetTokenExpiry = models.NullTimeFrom(ptrTime(time.Now().Add(storage.ResetTokenTTL)))

	return token, nil
}

func (r *userRepository) VerifyResetToken(token string) (*models.User, error) {
	now := time.Now()
	for _, user := range r.store.users {
		if !user.ResetToken.Valid || user.ResetToken.String != token {
			continue
		}
		if !user.ResetTokenExpiry.Valid || !user.ResetTokenExpiry.Time.After(now) {
			// Expired tokens stay on the row but no longer match.
			return nil, nil
		}
		return copyUser(user), nil
	}
	return nil, nil
}

func (r *userRepository) UpdatePassword(userID int64, password string) (bool, error) {
	user, ok := r.store.users[userID]
	if !ok {
		return false, nil
	}

	user.Password = password
	user.ResetToken = models.NullStringFrom(nil)
	user.ResetTokenExpiry = models.NullTimeFrom(nil)

	return true, nil
}

func copyUser(u *models.User) *models.User {
	cp := *u
	return &cp
}

func ptrTime(t time.Time) *time.Time { return &t }
