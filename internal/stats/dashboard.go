package stats

import (
	"cmp"
	"math"
	"slices"

	"github.com/Tiliavir/hora-obra/internal/model"
)

// Summary holds the headline indicators of a record set.
type Summary struct {
	TotalHours float64 `json:"total_hours"`
	Employees  int     `json:"employees"`
	Worksites  int     `json:"worksites"`
	Records    int     `json:"records"`
}

// Indicators sums hours and counts distinct employees and worksites.
func Indicators(records []model.TimeRecord) Summary {
	employees := make(map[string]struct{})
	worksites := make(map[string]struct{})
	var sum Summary
	for _, r := range records {
		sum.TotalHours += r.DurationHours
		employees[r.EmployeeID] = struct{}{}
		worksites[r.Worksite] = struct{}{}
	}
	sum.Employees = len(employees)
	sum.Worksites = len(worksites)
	sum.Records = len(records)
	return sum
}

// PerWorksite returns the hours of each worksite, in order of first
// appearance, with its percentage of the hours of all records rounded to one
// decimal. The percentage is 0 when there are no hours.
func PerWorksite(records []model.TimeRecord) []model.WorksiteShare {
	var shares []model.WorksiteShare
	index := make(map[string]int)
	var total float64
	for _, r := range records {
		i, ok := index[r.Worksite]
		if !ok {
			i = len(shares)
			index[r.Worksite] = i
			shares = append(shares, model.WorksiteShare{Worksite: r.Worksite})
		}
		shares[i].Hours += r.DurationHours
		total += r.DurationHours
	}
	for i := range shares {
		if total > 0 {
			shares[i].Percentage = roundTenth(shares[i].Hours / total * 100)
		}
	}
	return shares
}

func roundTenth(f float64) float64 {
	return math.Round(f*10) / 10
}

// HoursPerEmployee returns the n employees with most hours at chartWorksite
// ("" or All for every worksite), labelled "<id> - <name>". n <= 0 returns
// all of them.
func HoursPerEmployee(records []model.TimeRecord, chartWorksite string, n int) []model.EmployeeHours {
	var bars []model.EmployeeHours
	index := make(map[string]int)
	for _, r := range records {
		if active(chartWorksite) && r.Worksite != chartWorksite {
			continue
		}
		label := r.EmployeeID + " - " + r.EmployeeName
		i, ok := index[label]
		if !ok {
			i = len(bars)
			index[label] = i
			bars = append(bars, model.EmployeeHours{Label: label})
		}
		bars[i].Hours += r.DurationHours
	}
	slices.SortStableFunc(bars, func(a, b model.EmployeeHours) int {
		return cmp.Compare(b.Hours, a.Hours)
	})
	if n > 0 && n < len(bars) {
		bars = bars[:n]
	}
	return bars
}

// Worksites lists the distinct worksites in order of first appearance.
func Worksites(records []model.TimeRecord) []string {
	return distinct(records, func(r model.TimeRecord) string { return r.Worksite })
}

// Roles lists the distinct roles in order of first appearance.
func Roles(records []model.TimeRecord) []string {
	return distinct(records, func(r model.TimeRecord) string { return r.Role })
}

func distinct(records []model.TimeRecord, key func(model.TimeRecord) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
