package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

type rgb struct{ r, g, b int }

var (
	colorPrimary   = rgb{59, 130, 246}
	colorSecondary = rgb{16, 185, 129}
	colorGray      = rgb{107, 114, 128}
	colorPanel     = rgb{245, 247, 250}
	colorStripe    = rgb{248, 250, 252}
)

const (
	pageMargin = 15.0
	rowHeight  = 7.0
)

var registerColumns = []struct {
	title string
	width float64
}{
	{"Date", 30},
	{"Time in", 25},
	{"Time out", 25},
	{"Hours", 25},
	{"Worksite", 75},
}

// RenderPDF writes the report as an A4 portrait PDF.
func RenderPDF(w io.Writer, report EmployeeReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetTitle(report.Title+" "+report.Identity(), true)
	pdf.SetCreator("hora-obra", true)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(colorGray.r, colorGray.g, colorGray.b)
		pdf.CellFormat(0, 5, fmt.Sprintf("%s  |  page %d/{nb}", report.Code, pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	titleBand(pdf, tr, report, pageW)
	employeeBox(pdf, tr, report)
	summaryBand(pdf, tr, report)
	registerTable(pdf, tr, report.Rows)
	generationStamp(pdf, tr, report, pageW)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("rendering report %s: %w", report.Code, err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing report %s: %w", report.Code, err)
	}
	return nil
}

func fill(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetFillColor(c.r, c.g, c.b)
}

func titleBand(pdf *fpdf.Fpdf, tr func(string) string, report EmployeeReport, pageW float64) {
	fill(pdf, colorPrimary)
	pdf.Rect(0, 0, pageW, 40, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(0, 12)
	pdf.CellFormat(pageW, 8, tr(report.Title), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetX(0)
	pdf.CellFormat(pageW, 8, tr(report.PeriodLabel), "", 1, "C", false, 0, "")
}

func employeeBox(pdf *fpdf.Fpdf, tr func(string) string, report EmployeeReport) {
	e := report.Employee
	fill(pdf, colorPanel)
	pdf.Rect(pageMargin, 50, 180, 35, "F")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(pageMargin+5, 54)
	pdf.CellFormat(0, 7, "EMPLOYEE", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		"ID: " + report.Identity(),
		"Role: " + e.Role,
		"Worksite(s): " + strings.Join(e.Worksites, ", "),
	} {
		pdf.SetX(pageMargin + 5)
		pdf.CellFormat(170, 7, tr(line), "", 1, "L", false, 0, "")
	}
}

func summaryBand(pdf *fpdf.Fpdf, tr func(string) string, report EmployeeReport) {
	fill(pdf, colorSecondary)
	pdf.Rect(pageMargin, 95, 180, 8, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(pageMargin+5, 95)
	pdf.CellFormat(0, 8, "SUMMARY", "", 1, "L", false, 0, "")

	fill(pdf, colorStripe)
	pdf.Rect(pageMargin, 103, 180, 25, "F")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)

	items := report.Summary()
	for i, item := range items {
		x := pageMargin + 5
		if i%2 == 1 {
			x = 105
		}
		y := 106 + float64(i/2)*7
		pdf.SetXY(x, y)
		pdf.CellFormat(85, 6, tr(item.Label+": "+item.Value), "", 0, "L", false, 0, "")
	}
}

func tableHeader(pdf *fpdf.Fpdf, tr func(string) string) {
	fill(pdf, colorPrimary)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetX(pageMargin)
	for _, col := range registerColumns {
		pdf.CellFormat(col.width, rowHeight+1, tr(col.title), "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 9)
}

func registerTable(pdf *fpdf.Fpdf, tr func(string) string, rows []ReportRow) {
	_, pageH := pdf.GetPageSize()
	limit := pageH - pageMargin - 10

	pdf.SetY(135)
	tableHeader(pdf, tr)
	for i, row := range rows {
		if pdf.GetY()+rowHeight > limit {
			pdf.AddPage()
			tableHeader(pdf, tr)
		}
		fill(pdf, colorStripe)
		striped := i%2 == 1
		pdf.SetX(pageMargin)
		cells := []string{row.Date, row.TimeIn, row.TimeOut, row.Hours, row.Worksite}
		for j, col := range registerColumns {
			pdf.CellFormat(col.width, rowHeight, tr(cells[j]), "", 0, "L", striped, 0, "")
		}
		pdf.Ln(-1)
	}
}

func generationStamp(pdf *fpdf.Fpdf, tr func(string) string, report EmployeeReport, pageW float64) {
	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+35 > pageH-pageMargin {
		pdf.AddPage()
	}
	y := pdf.GetY() + 15
	fill(pdf, colorGray)
	pdf.Rect(0, y, pageW, 20, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(pageMargin+5, y+5)
	pdf.CellFormat(0, 5, tr("Generated at: "+report.GeneratedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.SetX(pageMargin + 5)
	pdf.CellFormat(0, 5, tr("Code: "+report.Code), "", 1, "L", false, 0, "")
}
