package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Tiliavir/hora-obra/internal/storage"
)

// DefaultBatchDelay separates consecutive documents of a batch.
const DefaultBatchDelay = time.Second

var ErrNoEmployees = errors.New("no employees to report: import data first")

// Batch writes one PDF per report into Dir, one after another.
type Batch struct {
	Dir   string
	Delay time.Duration
	// Logger defaults to a discarding logger.
	Logger *slog.Logger
	// Render defaults to RenderPDF.
	Render func(report EmployeeReport) ([]byte, error)
}

// Write renders and stores every report, waiting Delay between documents.
// It stops at the first failure or when ctx is done and returns the paths
// written so far.
func (b Batch) Write(ctx context.Context, reports []EmployeeReport) ([]string, error) {
	if len(reports) == 0 {
		return nil, ErrNoEmployees
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	render := b.Render
	if render == nil {
		render = renderToBytes
	}

	logger.Info("generating reports", slog.Int("count", len(reports)), slog.String("dir", b.Dir))
	var written []string
	for i, report := range reports {
		if i > 0 && b.Delay > 0 {
			timer := time.NewTimer(b.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return written, ctx.Err()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return written, err
		}

		data, err := render(report)
		if err != nil {
			return written, err
		}
		path := filepath.Join(b.Dir, ReportFileName(report.Employee))
		if err := storage.WriteFileAtomic(path, data, 0o644); err != nil {
			return written, fmt.Errorf("saving report for employee %s: %w", report.Employee.EmployeeID, err)
		}
		logger.Debug("report written", slog.String("path", path), slog.String("code", report.Code))
		written = append(written, path)
	}
	logger.Info("reports complete", slog.Int("count", len(written)))
	return written, nil
}

func renderToBytes(report EmployeeReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderPDF(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
