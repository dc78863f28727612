package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// Day is a trip-scoped record for one calendar date.
// (TripID, Date) is unique: a trip never holds two rows for the same date.
// Rows are created lazily — the first item, attachment, or explicit detail
// save for a date creates the row; viewing an empty date does not.
type Day struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Date      time.Time `json:"date"` // canonical midnight UTC
	City      string    `json:"city,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	Journal   string    `json:"journal,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Items is populated by range queries that eager-load a day's items;
	// single-row lookups leave it nil.
	Items []Item `json:"items,omitempty"`
}

// ParseDate parses a "2006-01-02" string into a canonical midnight-UTC
// instant. Impossible calendar dates (e.g. 2024-02-30) are rejected:
// time.Parse normalizes them instead of failing, so the parsed value is
// formatted back and compared against the input.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil || t.Format(DateFormat) != s {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, s)
	}
	return t, nil
}

// NormalizeDate truncates t to midnight UTC, discarding the time-of-day and
// zone. Every date stored or compared by this application goes through here
// so that DST shifts and client timezones can never split one calendar day
// into two keys.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
