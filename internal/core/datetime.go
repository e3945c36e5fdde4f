package core

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDateTime = errors.New("invalid date-time: expected ISO 8601, e.g. 2024-01-15T10:30:00")

// Layouts accepted by ParseDateTime, tried in order. Fractional seconds are
// accepted by the parser even though the layouts do not spell them out.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDateTime parses an ISO 8601 date-time. Values without a zone offset
// are taken as UTC. The result is always in UTC.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDateTime
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}
