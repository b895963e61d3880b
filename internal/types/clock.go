package types

import "time"

// Timestamp renders t at second precision in UTC, the format stored on
// aggregates and embedded in outbound messages.
func Timestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// Now is Timestamp(time.Now()).
func Now() string {
	return Timestamp(time.Now())
}
