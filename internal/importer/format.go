package importer

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// Format is the tabular file format of an import.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

var ErrUnsupportedFormat = errors.New("unsupported file format: use .csv, .xlsx or .xls")

var (
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

func formatForMIME(mimeType string) (Format, bool) {
	media, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "", false
	}
	switch media {
	case "text/csv", "application/csv", "text/comma-separated-values":
		return FormatCSV, true
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return FormatXLSX, true
	case "application/vnd.ms-excel":
		return FormatXLS, true
	}
	return "", false
}

// DetectFormat chooses the reader for a file: by extension first, then by MIME
// type, then by the magic bytes at the start of the content.
func DetectFormat(name, mimeType string, head []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	}

	if f, ok := formatForMIME(mimeType); ok {
		return f, nil
	}

	switch {
	case bytes.HasPrefix(head, zipMagic):
		return FormatXLSX, nil
	case bytes.HasPrefix(head, ole2Magic):
		return FormatXLS, nil
	}
	return "", fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
}
