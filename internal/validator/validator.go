package validator

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

var dateRegex = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// IsValidDate reports whether s is a zero-padded DD/MM/YYYY date that exists
// on the calendar (31/02/2024 does not).
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	day, _ := strconv.Atoi(s[0:2])
	month, _ := strconv.Atoi(s[3:5])
	year, _ := strconv.Atoi(s[6:10])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

var timeRegex = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

// IsValidTime reports whether s is HH:MM or HH:MM:SS. Field ranges are not
// checked, so "25:61" passes; see StrictTime.
func IsValidTime(s string) bool {
	return timeRegex.MatchString(s)
}

// TimeRule decides whether a time-of-day string is acceptable.
type TimeRule func(string) bool

// LooseTime only checks the HH:MM[:SS] shape.
var LooseTime TimeRule = IsValidTime

// StrictTime additionally requires hours 00-23 and minutes/seconds 00-59.
var StrictTime TimeRule = func(s string) bool {
	if !IsValidTime(s) {
		return false
	}
	parts := strings.Split(s, ":")
	limits := []int{23, 59, 59}
	for i, p := range parts {
		n, _ := strconv.Atoi(p)
		if n > limits[i] {
			return false
		}
	}
	return true
}
