package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresStore persists sessions in a session table on the application's
// database connection. The table is created on initialization if missing.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore prepares the session table and returns the store.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	schema := `
		CREATE TABLE IF NOT EXISTS session (
			sid TEXT PRIMARY KEY,
			sess JSONB NOT NULL,
			expire TIMESTAMPTZ NOT NULL
		)
	`

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create session table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(sid string) (*Session, error) {
	query := `SELECT sess FROM session WHERE sid = $1 AND expire > $2`

	var raw []byte
	err := s.db.Get(&raw, query, sid, time.Now())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &sess, nil
}

func (s *PostgresStore) Set(sid string, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	query := `
		INSERT INTO session (sid, sess, expire)
		VALUES ($1, $2, $3)
		ON CONFLICT (sid) DO UPDATE SET sess = $2, expire = $3
	`

	if _, err := s.db.Exec(query, sid, raw, sess.ExpiresAt); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

func (s *PostgresStore) Destroy(sid string) error {
	if _, err := s.db.Exec(`DELETE FROM session WHERE sid = $1`, sid); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
