package importer

import (
	"bytes"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// File is a selected import source. Open is called once per processing run.
type File struct {
	Name     string
	MIMEType string
	Open     func() (io.ReadCloser, error)
}

// FileFromPath returns a File backed by a file on disk.
func FileFromPath(path string) File {
	return File{
		Name:     filepath.Base(path),
		MIMEType: mime.TypeByExtension(filepath.Ext(path)),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// FileFromBytes returns a File backed by an in-memory download.
func FileFromBytes(name, mimeType string, data []byte) File {
	return File{
		Name:     name,
		MIMEType: mimeType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
