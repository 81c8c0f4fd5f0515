package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Tiliavir/hora-obra/internal/model"
)

// ReadCSV reads delimited text into rows of text cells. Quoted fields are
// honored, so a worksite such as "Obra 1, Bloco B" stays one cell.
//
// UTF-8 and UTF-16 input (with BOM) is decoded as such; anything that is not
// valid UTF-8 is read as Windows-1252, the encoding spreadsheet programs use
// for CSV exports on pt-BR systems.
func ReadCSV(r io.Reader) ([]model.Row, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	text, err := decodeText(raw)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(strings.NewReader(text))
	csvReader.Comma = sniffDelimiter(text)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true

	var rows []model.Row
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := csvReader.FieldPos(0)
		cells := make([]model.CellValue, len(record))
		for i, v := range record {
			cells[i] = model.Text(strings.TrimSpace(v))
		}
		rows = append(rows, model.Row{Number: line, Cells: cells})
	}
	return rows, nil
}

func decodeText(raw []byte) (string, error) {
	if bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) || bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) {
		decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		out, _, err := transform.Bytes(decoder, raw)
		if err != nil {
			return "", fmt.Errorf("decode csv: %w", err)
		}
		return string(out), nil
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decode csv as windows-1252: %w", err)
	}
	return string(out), nil
}

// sniffDelimiter picks ';' when the header line has semicolons but no commas.
func sniffDelimiter(text string) rune {
	header, _, _ := strings.Cut(text, "\n")
	if !strings.Contains(header, ",") && strings.Contains(header, ";") {
		return ';'
	}
	return ','
}
