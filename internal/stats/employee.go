package stats

import (
	"cmp"
	"slices"

	"github.com/Tiliavir/hora-obra/internal/model"
)

const (
	// DefaultOvertimeAfter is the record length in hours beyond which hours
	// count as overtime.
	DefaultOvertimeAfter = 8.0
	// DefaultUnderAllocation is the total below which an employee is
	// under-allocated.
	DefaultUnderAllocation = 40.0
)

// PerEmployee groups records by employee ID, in order of first appearance.
// Overtime is the sum over individual records of the hours above
// overtimeAfter; two records on the same day are checked separately.
func PerEmployee(records []model.TimeRecord, period Period, overtimeAfter float64) []model.EmployeeStatistics {
	var order []string
	groups := make(map[string]*model.EmployeeStatistics)
	days := make(map[string]map[string]struct{})

	for _, r := range records {
		s, ok := groups[r.EmployeeID]
		if !ok {
			s = &model.EmployeeStatistics{
				EmployeeID:   r.EmployeeID,
				EmployeeName: r.EmployeeName,
				Role:         r.Role,
			}
			groups[r.EmployeeID] = s
			days[r.EmployeeID] = make(map[string]struct{})
			order = append(order, r.EmployeeID)
		}
		if !s.WorkedAt(r.Worksite) {
			s.Worksites = append(s.Worksites, r.Worksite)
		}
		s.TotalHours += r.DurationHours
		if r.DurationHours > overtimeAfter {
			s.OvertimeHours += r.DurationHours - overtimeAfter
		}
		days[r.EmployeeID][r.Date] = struct{}{}
		s.Records = append(s.Records, r)
	}

	periodDays, bounded := period.Days()
	out := make([]model.EmployeeStatistics, 0, len(order))
	for _, id := range order {
		s := groups[id]
		s.DaysWorked = len(days[id])
		if s.DaysWorked > 0 {
			s.AverageDailyHours = s.TotalHours / float64(s.DaysWorked)
		}
		if bounded {
			s.DaysWithoutRecord = max(periodDays-s.DaysWorked, 0)
		}
		out = append(out, *s)
	}
	return out
}

// TopByHours ranks stats by total hours, highest first. Ties keep their input
// order. n <= 0 returns the full ranking. stats is not modified.
func TopByHours(stats []model.EmployeeStatistics, n int) []model.RankedEmployee {
	sorted := slices.Clone(stats)
	slices.SortStableFunc(sorted, func(a, b model.EmployeeStatistics) int {
		return cmp.Compare(b.TotalHours, a.TotalHours)
	})
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	ranked := make([]model.RankedEmployee, len(sorted))
	for i, s := range sorted {
		ranked[i] = model.RankedEmployee{EmployeeStatistics: s, Rank: i + 1}
	}
	return ranked
}

// UnderAllocated returns the employees with fewer than threshold total hours.
// A worksite other than "" or All keeps only employees who worked there.
func UnderAllocated(stats []model.EmployeeStatistics, threshold float64, worksite string) []model.EmployeeStatistics {
	var out []model.EmployeeStatistics
	for _, s := range stats {
		if active(worksite) && !s.WorkedAt(worksite) {
			continue
		}
		if s.TotalHours < threshold {
			out = append(out, s)
		}
	}
	return out
}

// FindEmployee returns the statistics of the employee with the given ID.
func FindEmployee(stats []model.EmployeeStatistics, id string) (model.EmployeeStatistics, bool) {
	for _, s := range stats {
		if s.EmployeeID == id {
			return s, true
		}
	}
	return model.EmployeeStatistics{}, false
}
