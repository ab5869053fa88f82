package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateRangeStart(t *testing.T) {
	now := time.Date(2026, time.March, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rangeKey string
		expected time.Time
	}{
		{
			name:     "today truncates to midnight",
			rangeKey: DateRangeToday,
			expected: time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "last week goes back seven days",
			rangeKey: DateRangeLastWeek,
			expected: time.Date(2026, time.March, 8, 14, 30, 0, 0, time.UTC),
		},
		{
			name:     "last month goes back one calendar month",
			rangeKey: DateRangeLastMonth,
			expected: time.Date(2026, time.February, 15, 14, 30, 0, 0, time.UTC),
		},
		{
			name:     "last year goes back one calendar year",
			rangeKey: DateRangeLastYear,
			expected: time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC),
		},
		{
			name:     "unrecognized name bounds nothing",
			rangeKey: "fortnight",
			expected: time.Time{},
		},
		{
			name:     "empty name bounds nothing",
			rangeKey: "",
			expected: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DateRangeStart(tt.rangeKey, now))
		})
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Alice Johnson", "aLiCe"))
	assert.True(t, ContainsFold("Alice Johnson", ""))
	assert.True(t, ContainsFold("+15550001111", "0001111"))
	assert.False(t, ContainsFold("Alice", "Bob"))
}

func TestNullStringFrom(t *testing.T) {
	value := "vip"
	empty := ""

	assert.False(t, NullStringFrom(nil).Valid)
	assert.False(t, NullStringFrom(&empty).Valid, "empty strings coerce to absent")

	got := NullStringFrom(&value)
	assert.True(t, got.Valid)
	assert.Equal(t, "vip", got.String)
}

func TestNullTimeFrom(t *testing.T) {
	var zero time.Time
	now := time.Now()

	assert.False(t, NullTimeFrom(nil).Valid)
	assert.False(t, NullTimeFrom(&zero).Valid)

	got := NullTimeFrom(&now)
	assert.True(t, got.Valid)
	assert.Equal(t, now, got.Time)
}
