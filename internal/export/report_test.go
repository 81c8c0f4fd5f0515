package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/hora-obra/internal/model"
	"github.com/Tiliavir/hora-obra/internal/stats"
)

func employee(id, name string) model.EmployeeStatistics {
	records := []model.TimeRecord{
		{EmployeeID: id, EmployeeName: name, Role: "Eletricista", Worksite: "Edifício Central",
			Date: "15/01/2024", TimeIn: "08:00", TimeOut: "17:00", DurationText: "09:00:00", DurationHours: 9},
		{EmployeeID: id, EmployeeName: name, Role: "Eletricista", Worksite: "Residencial Jardins",
			Date: "16/01/2024", TimeIn: "08:00", TimeOut: "18:00", DurationText: "10:00:00", DurationHours: 10},
	}
	return stats.PerEmployee(records, stats.Period{}, stats.DefaultOvertimeAfter)[0]
}

func TestBuildReport(t *testing.T) {
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC)

	report := BuildReport(employee("01", "João Silva"), stats.Period{From: &from, To: &to}, now)

	assert.Equal(t, "Period: 15/01/2024 to 31/01/2024", report.PeriodLabel)
	assert.Equal(t, "01 - João Silva", report.Identity())
	assert.True(t, strings.HasPrefix(report.Code, "REL-01-"), report.Code)
	assert.Len(t, report.Code, len("REL-01-")+8)
	assert.Equal(t, now, report.GeneratedAt)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, ReportRow{Date: "16/01/2024", TimeIn: "08:00", TimeOut: "18:00", Hours: "10.0h", Worksite: "Residencial Jardins"}, report.Rows[1])
	assert.Equal(t, []SummaryItem{
		{"Total hours", "19.0h"},
		{"Days worked", "2"},
		{"Average daily", "9.5h/day"},
		{"Overtime", "3.0h"},
		{"Days without record", "0"},
	}, report.Summary())
}

func TestPeriodLabel_Open(t *testing.T) {
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Period: complete", PeriodLabel(stats.Period{}))
	assert.Equal(t, "Period: complete", PeriodLabel(stats.Period{From: &from}))
}

func TestReportFileName(t *testing.T) {
	assert.Equal(t, "report-01-João-Silva.pdf", ReportFileName(model.EmployeeStatistics{EmployeeID: "01", EmployeeName: "João Silva"}))
	assert.Equal(t, "report-07-Ana-Maria-Souza.pdf", ReportFileName(model.EmployeeStatistics{EmployeeID: "07", EmployeeName: "Ana  Maria\tSouza"}))
	assert.Equal(t, "report-a-b-X.pdf", ReportFileName(model.EmployeeStatistics{EmployeeID: "a/b", EmployeeName: "X"}))
}

func TestRenderPDF(t *testing.T) {
	report := BuildReport(employee("01", "João Silva"), stats.Period{}, time.Now())

	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, report))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderPDF_ManyRowsPaginate(t *testing.T) {
	stat := employee("02", "Maria Santos")
	for i := 0; i < 120; i++ {
		stat.Records = append(stat.Records, stat.Records[0])
	}
	report := BuildReport(stat, stats.Period{}, time.Now())

	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, report))
	pages := bytes.Count(buf.Bytes(), []byte("/Type /Page")) - bytes.Count(buf.Bytes(), []byte("/Type /Pages"))
	assert.Greater(t, pages, 1)
}

func TestBatchWrite(t *testing.T) {
	dir := t.TempDir()
	reports := []EmployeeReport{
		BuildReport(employee("01", "João Silva"), stats.Period{}, time.Now()),
		BuildReport(employee("02", "Maria Santos"), stats.Period{}, time.Now()),
	}

	var calls []time.Time
	b := Batch{
		Dir:   dir,
		Delay: 20 * time.Millisecond,
		Render: func(r EmployeeReport) ([]byte, error) {
			calls = append(calls, time.Now())
			return []byte(r.Code), nil
		},
	}

	paths, err := b.Write(context.Background(), reports)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "report-01-João-Silva.pdf"),
		filepath.Join(dir, "report-02-Maria-Santos.pdf"),
	}, paths)
	require.Len(t, calls, 2)
	assert.GreaterOrEqual(t, calls[1].Sub(calls[0]), 20*time.Millisecond)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, reports[1].Code, string(data))
}

func TestBatchWrite_Empty(t *testing.T) {
	_, err := Batch{Dir: t.TempDir()}.Write(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoEmployees)
}

func TestBatchWrite_Canceled(t *testing.T) {
	reports := []EmployeeReport{
		BuildReport(employee("01", "João Silva"), stats.Period{}, time.Now()),
		BuildReport(employee("02", "Maria Santos"), stats.Period{}, time.Now()),
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := Batch{
		Dir:   t.TempDir(),
		Delay: time.Hour,
		Render: func(r EmployeeReport) ([]byte, error) {
			cancel()
			return []byte("x"), nil
		},
	}

	paths, err := b.Write(ctx, reports)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, paths, 1)
}

func TestBatchWrite_RenderError(t *testing.T) {
	boom := errors.New("boom")
	b := Batch{
		Dir:    t.TempDir(),
		Render: func(EmployeeReport) ([]byte, error) { return nil, boom },
	}
	paths, err := b.Write(context.Background(), []EmployeeReport{BuildReport(employee("01", "João"), stats.Period{}, time.Now())})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, paths)
}
