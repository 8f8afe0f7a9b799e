package utils

import (
	"time"
	_ "time/tzdata" // zone database for hosts without one
)

// DefaultTimeZone is the zone run timestamps are displayed in.
const DefaultTimeZone = "Europe/Helsinki"

// LoadLocation resolves a zone name, falling back to UTC when the zone database
// does not know it.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, err
	}
	return loc, nil
}

// IsWeekend reports whether t falls on a Saturday or Sunday in loc.
func IsWeekend(t time.Time, loc *time.Location) bool {
	switch t.In(loc).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}
