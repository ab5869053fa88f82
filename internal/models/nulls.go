package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// NullString is sql.NullString with flat JSON encoding: the bare string when
// present, null when absent.
type NullString struct {
	sql.NullString
}

func (s NullString) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.String)
}

// NullTime is sql.NullTime with flat JSON encoding.
type NullTime struct {
	sql.NullTime
}

func (t NullTime) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time)
}

// NullStringFrom converts an optional string into its stored form. Empty
// values coerce to absent.
func NullStringFrom(s *string) NullString {
	if s == nil || *s == "" {
		return NullString{}
	}
	return NullString{sql.NullString{String: *s, Valid: true}}
}

// NullTimeFrom converts an optional time into its stored form.
func NullTimeFrom(t *time.Time) NullTime {
	if t == nil || t.IsZero() {
		return NullTime{}
	}
	return NullTime{sql.NullTime{Time: *t, Valid: true}}
}
