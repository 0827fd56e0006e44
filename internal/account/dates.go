package account

import (
	"strings"
	"time"
)

// Layouts accepted for createdAt, tried in order. Day-first forms come from
// Vietnamese exports; the last one is what browsers print for vi-VN/en-US.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"15:04:05 02/01/2006",
	"15:04 02/01/2006",
	"1/2/2006, 3:04:05 PM",
}

// ParseCreatedAt parses a createdAt value. Zone-less values are read as UTC
// so ordering does not depend on the host's local zone.
func ParseCreatedAt(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
