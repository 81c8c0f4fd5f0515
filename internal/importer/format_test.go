package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		mimeType string
		head     []byte
		want     Format
	}{
		{"csv extension", "horas.csv", "", nil, FormatCSV},
		{"upper-case extension", "HORAS.XLSX", "", nil, FormatXLSX},
		{"xls extension", "legado.xls", "", nil, FormatXLS},
		{"extension wins over mime", "horas.csv", "application/vnd.ms-excel", nil, FormatCSV},
		{"csv mime with params", "export", "text/csv; charset=utf-8", nil, FormatCSV},
		{"xlsx mime", "export", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil, FormatXLSX},
		{"xls mime", "export", "application/vnd.ms-excel", nil, FormatXLS},
		{"zip magic", "upload", "", []byte("PK\x03\x04rest"), FormatXLSX},
		{"ole2 magic", "upload", "application/octet-stream", append([]byte{}, ole2Magic...), FormatXLS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.file, tt.mimeType, tt.head)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat_Unsupported(t *testing.T) {
	_, err := DetectFormat("notas.txt", "text/plain", []byte("hello"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
