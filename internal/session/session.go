// Package session provides the HTTP session store: a Postgres-backed
// implementation with an in-process fallback for when the database is
// unavailable or not configured.
package session

import (
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Session is the data persisted per session id.
type Session struct {
	UserID    int64     `json:"user_id"`
	AccountID int64     `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is the standard get/set/destroy-by-id session contract. Get returns
// nil for missing or expired sessions.
type Store interface {
	Get(sid string) (*Session, error)
	Set(sid string, sess *Session) error
	Destroy(sid string) error
}

// New picks the session store. With a healthy database connection sessions
// persist in the session table; otherwise the process-local store is used
// and sessions will not survive a restart. Store initialization failure is
// a degradation, never a startup failure.
func New(db *sqlx.DB, logger *zap.Logger) Store {
	if db == nil {
		logger.Info("No database configured, using in-memory session store")
		return NewMemoryStore()
	}

	store, err := NewPostgresStore(db)
	if err != nil {
		logger.Warn("Failed to initialize database session store, falling back to in-memory sessions",
			zap.Error(err))
		return NewMemoryStore()
	}

	return store
}
