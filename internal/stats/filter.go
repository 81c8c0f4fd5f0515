// Package stats derives dashboard figures from a committed record set. Every
// function is pure: inputs are never modified and equal inputs give equal
// outputs.
package stats

import (
	"errors"
	"strings"
	"time"

	"github.com/Tiliavir/hora-obra/internal/model"
	"github.com/Tiliavir/hora-obra/internal/timecalc"
	"github.com/Tiliavir/hora-obra/internal/validator"
)

// All disables the worksite or role criterion of a Filter.
const All = "all"

// Filter selects records by inclusive date range, worksite and role. Nil
// bounds and empty or All criteria match everything.
type Filter struct {
	From     *time.Time
	To       *time.Time
	Worksite string
	Role     string
}

// NewFilter builds a Filter from DD/MM/YYYY bounds (empty = open) and
// validates it.
func NewFilter(from, to, worksite, role string) (Filter, error) {
	f := Filter{Worksite: worksite, Role: role}
	var errs validator.ValidationErrors
	if from != "" {
		t, err := parseBound(from)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "from", Message: "must be a date in DD/MM/YYYY format"})
		} else {
			f.From = &t
		}
	}
	if to != "" {
		t, err := parseBound(to)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "to", Message: "must be a date in DD/MM/YYYY format"})
		} else {
			f.To = &t
		}
	}
	if len(errs) > 0 {
		return Filter{}, errs
	}
	if err := f.Validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

var errInvalidBound = errors.New("invalid date bound")

func parseBound(s string) (time.Time, error) {
	if !validator.IsValidDate(strings.TrimSpace(s)) {
		return time.Time{}, errInvalidBound
	}
	return timecalc.ParseDate(s)
}

// Validate checks that the date range is not inverted.
func (f Filter) Validate() error {
	if f.From != nil && f.To != nil && timecalc.StartOfDay(*f.To).Before(timecalc.StartOfDay(*f.From)) {
		return validator.ValidationErrors{{Field: "to", Message: "must not be before from"}}
	}
	return nil
}

// Period returns the date range of the filter.
func (f Filter) Period() Period {
	return Period{From: f.From, To: f.To}
}

func (f Filter) matches(r model.TimeRecord) bool {
	if active(f.Worksite) && r.Worksite != f.Worksite {
		return false
	}
	if active(f.Role) && r.Role != f.Role {
		return false
	}
	if f.From == nil && f.To == nil {
		return true
	}
	day, err := timecalc.ParseDate(r.Date)
	if err != nil {
		return false
	}
	if f.From != nil && day.Before(timecalc.StartOfDay(*f.From)) {
		return false
	}
	if f.To != nil && day.After(timecalc.StartOfDay(*f.To)) {
		return false
	}
	return true
}

func active(criterion string) bool {
	return criterion != "" && criterion != All
}

// Apply returns the records matching f, in their original order.
func Apply(records []model.TimeRecord, f Filter) []model.TimeRecord {
	out := make([]model.TimeRecord, 0, len(records))
	for _, r := range records {
		if f.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Period is an optional inclusive date range.
type Period struct {
	From *time.Time
	To   *time.Time
}

// Days returns the number of calendar days in the period. ok is false unless
// both bounds are set.
func (p Period) Days() (days int, ok bool) {
	if p.From == nil || p.To == nil {
		return 0, false
	}
	return timecalc.InclusiveDays(*p.From, *p.To), true
}

// Bounded reports whether both bounds are set.
func (p Period) Bounded() bool {
	return p.From != nil && p.To != nil
}
