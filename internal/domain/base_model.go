package domain

import "time"

// TimestampLayout renders ISO-8601 UTC timestamps with millisecond precision.
// Values in this layout sort lexically in time order.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// TimestampedEntity interface for entities with timestamps
type TimestampedEntity interface {
	SetCreatedAt(timestamp string)
	SetUpdatedAt(timestamp string)
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(value string) (time.Time, error) {
	return time.Parse(TimestampLayout, value)
}
