package validator

import (
	"strings"
	"time"
)

// Age bounds, inclusive
const (
	MinAge = 0
	MaxAge = 150
)

// birthDateLayouts are tried in order when parsing a date of birth
var birthDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// ParseBirthDate parses a date of birth in one of the accepted layouts and
// truncates it to a calendar date.
func ParseBirthDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// AgeFrom returns the number of whole years between birth and now. The result
// is negative when birth is in the future.
func AgeFrom(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// CheckAge reports whether birthDate parses and yields an age in [0, 150]
// as of today. Unparseable input is rejected.
func CheckAge(birthDate string) bool {
	return CheckAgeAt(birthDate, time.Now())
}

// CheckAgeAt is CheckAge against a fixed clock
func CheckAgeAt(birthDate string, now time.Time) bool {
	birth, ok := ParseBirthDate(birthDate)
	if !ok {
		return false
	}
	// compare calendar dates only
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if birth.After(today) {
		return false
	}
	age := AgeFrom(birth, today)
	return age >= MinAge && age <= MaxAge
}

// GetBirthDateError returns user-friendly error message for a date of birth
func GetBirthDateError(birthDate string) string {
	if strings.TrimSpace(birthDate) == "" {
		return "Date of birth is required"
	}
	if _, ok := ParseBirthDate(birthDate); !ok {
		return "Invalid date of birth. Use YYYY-MM-DD"
	}
	if !CheckAge(birthDate) {
		return "Date of birth must give an age between 0 and 150 years"
	}
	return ""
}
