package http

import (
	"fmt"
	"time"
)

// JiraTimeLayout is the timestamp layout Jira emits and Juncture relays.
const JiraTimeLayout = "2006-01-02T15:04:05.000-0700"

var timeLayouts = []string{
	time.RFC3339Nano,
	JiraTimeLayout,
	"2006-01-02T15:04:05-0700",
	"2006-01-02",
}

// ParseTime parses a wire timestamp. An empty string yields the zero time.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse time %q: unrecognized layout", s)
}

// ParseOptionalTime is ParseTime returning nil for empty or absent values.
func ParseOptionalTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := ParseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
