package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the day-first layout used by every date field.
	DateLayout = "02/01/2006"
	// DateTimeLayout is DateLayout followed by a 24h clock.
	DateTimeLayout = "02/01/2006 15:04"
)

// ParseDate converts a "DD/MM/YYYY" or "DD/MM/YYYY HH:MM" string into a
// calendar date at midnight UTC. The clock part, if any, is ignored.
func ParseDate(dateStr string) (time.Time, error) {
	datePart, _, _ := strings.Cut(strings.TrimSpace(dateStr), " ")
	parts := strings.Split(datePart, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date format, expected DD/MM/YYYY")
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day: %v", err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month: %v", err)
	}

	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year: %v", err)
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}

	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day must be between 1 and 31")
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ParseDateTime is ParseDate keeping an optional "HH:MM" clock.
func ParseDateTime(value string) (time.Time, error) {
	date, err := ParseDate(value)
	if err != nil {
		return time.Time{}, err
	}
	_, clock, ok := strings.Cut(strings.TrimSpace(value), " ")
	if !ok {
		return date, nil
	}
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time: %v", err)
	}
	return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

// FormatDate renders t as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateTime renders t as DD/MM/YYYY HH:MM.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// DaysUntil returns the number of calendar days from now to the date in
// dateStr. Past dates are negative. ok is false when dateStr is unparsable.
func DaysUntil(dateStr string, now time.Time) (days int, ok bool) {
	target, err := ParseDate(dateStr)
	if err != nil {
		return 0, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today).Hours() / 24), true
}
