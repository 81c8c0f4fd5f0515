package cmd

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// printTable prints rows under headers in left-aligned columns.
func printTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}

	printRow(w, widths, headers)
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = strings.Repeat("-", widths[i])
	}
	printRow(w, widths, sep)
	for _, row := range rows {
		printRow(w, widths, row)
	}
}

func printRow(w io.Writer, widths []int, cells []string) {
	var sb strings.Builder
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		sb.WriteString(cell)
		if i < len(cells)-1 {
			sb.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)+2))
		}
	}
	fmt.Fprintln(w, sb.String())
}

// bar renders value as a bar of at most width characters relative to top.
func bar(value, top float64, width int) string {
	if top <= 0 || value <= 0 {
		return ""
	}
	n := int(value / top * float64(width))
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}

// capList returns up to limit lines followed by "... and N more" when lines
// were left out.
func capList(lines []string, limit int) []string {
	if limit <= 0 || len(lines) <= limit {
		return lines
	}
	out := append([]string{}, lines[:limit]...)
	return append(out, fmt.Sprintf("... and %d more", len(lines)-limit))
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", utf8.RuneCountInString(title)))
}
