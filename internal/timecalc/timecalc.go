package timecalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical DD/MM/YYYY record date.
const DateLayout = "02/01/2006"

const minutesPerDay = 24 * 60

// clockTolerance absorbs the rounding of time fractions that spreadsheets
// store with 15 significant digits (0.333333333333333 is 08:00, not 07:59).
const clockTolerance = 1e-6

// TimeToDecimal converts "HH:MM" or "HH:MM:SS" to decimal hours.
// Missing seconds count as zero. Hours are not bounded, so durations such as
// "26:30:00" convert as well.
func TimeToDecimal(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("malformed time %q: %w", s, err)
		}
		fields[i] = n
	}
	return float64(fields[0]) + float64(fields[1])/60 + float64(fields[2])/3600, nil
}

// DecimalFractionToClock converts a spreadsheet time-of-day fraction
// (0 <= f < 1) to "HH:MM". Seconds are truncated.
func DecimalFractionToClock(f float64) string {
	total := int(math.Floor(f*minutesPerDay + clockTolerance))
	if f < 0 {
		total = int(math.Floor(f * minutesPerDay))
	}
	if f < 1 && total >= minutesPerDay {
		total = minutesPerDay - 1
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// MinutesSinceMidnight returns the minute-of-day of "HH:MM" or "HH:MM:SS".
// Seconds are ignored.
func MinutesSinceMidnight(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed minute in %q: %w", s, err)
	}
	return h*60 + m, nil
}

// DurationBetween returns the HH:MM:SS span from timeIn to timeOut.
// A timeOut earlier than timeIn is a shift that ends on the next day.
func DurationBetween(timeIn, timeOut string) (string, error) {
	in, err := MinutesSinceMidnight(timeIn)
	if err != nil {
		return "", err
	}
	out, err := MinutesSinceMidnight(timeOut)
	if err != nil {
		return "", err
	}
	diff := out - in
	if diff < 0 {
		diff += minutesPerDay
	}
	return FormatDurationHHMMSS(int64(diff) * 60), nil
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatHours renders decimal hours with one decimal, e.g. "9.5h".
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 1, 64) + "h"
}

// ParseDate parses a DD/MM/YYYY date as a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats t as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay returns 00:00:00 of the same day, in UTC calendar terms.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// InclusiveDays counts the calendar days from `from` through `to`.
// It returns 0 when `to` is before `from`.
func InclusiveDays(from, to time.Time) int {
	a, b := StartOfDay(from), StartOfDay(to)
	if b.Before(a) {
		return 0
	}
	return int(b.Sub(a).Hours()/24) + 1
}
