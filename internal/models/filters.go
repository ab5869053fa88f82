package models

import (
	"strings"
	"time"
)

// Recognized date range names for list filters.
const (
	DateRangeToday     = "today"
	DateRangeLastWeek  = "last-week"
	DateRangeLastMonth = "last-month"
	DateRangeLastYear  = "last-year"
)

// ContactFilter narrows a contact listing. Only the first non-empty field is
// applied, in declaration order: Search, then Label, then Location, then
// DateRange. Supplying several fields does not combine them.
type ContactFilter struct {
	Search    string `json:"search,omitempty"`
	Label     string `json:"label,omitempty"`
	Location  string `json:"location,omitempty"`
	DateRange string `json:"date_range,omitempty"`
}

// CampaignFilter narrows a campaign listing. Same single-dimension rule as
// ContactFilter: Search, then Status, then DateRange.
type CampaignFilter struct {
	Search    string `json:"search,omitempty"`
	Status    string `json:"status,omitempty"`
	DateRange string `json:"date_range,omitempty"`
}

// DateRangeStart returns the inclusive lower bound for a named date range,
// relative to now. Unrecognized names return the zero time, which bounds
// nothing.
func DateRangeStart(name string, now time.Time) time.Time {
	switch name {
	case DateRangeToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case DateRangeLastWeek:
		return now.AddDate(0, 0, -7)
	case DateRangeLastMonth:
		return now.AddDate(0, -1, 0)
	case DateRangeLastYear:
		return now.AddDate(-1, 0, 0)
	default:
		return time.Time{}
	}
}

// ContainsFold reports whether s contains substr, ignoring case. Both
// backends use it so substring filters stay equivalent.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
