package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Tiliavir/hora-obra/internal/importer"
	"github.com/Tiliavir/hora-obra/internal/model"
	"github.com/Tiliavir/hora-obra/internal/parser"
	"github.com/Tiliavir/hora-obra/internal/sheets"
	"github.com/Tiliavir/hora-obra/internal/validator"
)

// stdinSource reads a CSV timesheet from standard input.
const stdinSource = "-"

// resolveSource turns a command-line source into an importable file:
// a path, "-" for stdin, or gsheet:<file-id>.
func resolveSource(ctx context.Context, source string, stdin io.Reader, out io.Writer) (importer.File, error) {
	if fileID, ok := sheets.ParseSource(source); ok {
		return downloadSheet(ctx, fileID, out)
	}
	if source == stdinSource {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return importer.File{}, fmt.Errorf("reading stdin: %w", err)
		}
		return importer.FileFromBytes("stdin.csv", "text/csv", data), nil
	}
	if _, err := os.Stat(source); err != nil {
		return importer.File{}, fmt.Errorf("cannot open %s: %w", source, err)
	}
	return importer.FileFromPath(source), nil
}

func downloadSheet(ctx context.Context, fileID string, out io.Writer) (importer.File, error) {
	auth, err := newAuthenticator(out)
	if err != nil {
		return importer.File{}, err
	}
	httpClient, err := auth.HTTPClient(ctx)
	if err != nil {
		return importer.File{}, err
	}
	dl, err := sheets.NewClient(httpClient, "").Export(ctx, fileID, sheets.ExportXLSX)
	if err != nil {
		return importer.File{}, fmt.Errorf("downloading %s%s: %w", sheets.SourcePrefix, fileID, err)
	}
	logger.Info("sheet downloaded", "file_id", fileID, "name", dl.Name, "bytes", len(dl.Data))
	return importer.FileFromBytes(dl.Name, dl.MIMEType, dl.Data), nil
}

func newAuthenticator(out io.Writer) (*sheets.Authenticator, error) {
	auth, err := sheets.NewAuthenticator(sheets.AuthOptions{
		ClientID:     cfg.Sheets.ClientID,
		ClientSecret: cfg.Sheets.ClientSecret,
		Scopes:       cfg.Sheets.Scopes,
		Out:          out,
		Logger:       logger,
	})
	if errors.Is(err, sheets.ErrNoClientID) {
		return nil, fmt.Errorf("%w: set it in the config file or %s", err, "HORA_OBRA_SHEETS_CLIENT_ID")
	}
	return auth, err
}

func newPipeline(session *importer.Session, opts ...importer.Option) *importer.Pipeline {
	parseOpts := parser.Options{}
	if cfg.Import.StrictTime {
		parseOpts.TimeRule = validator.StrictTime
	}
	opts = append([]importer.Option{
		importer.WithLogger(logger),
		importer.WithParseOptions(parseOpts),
	}, opts...)
	return importer.New(session, opts...)
}

// loadRecords imports and commits a source without asking, for commands that
// analyse the data. Rejected rows are only counted.
func loadRecords(ctx context.Context, source string, stdin io.Reader, errOut io.Writer) ([]model.TimeRecord, error) {
	file, err := resolveSource(ctx, source, stdin, errOut)
	if err != nil {
		return nil, err
	}

	session := importer.NewSession()
	p := newPipeline(session)
	if err := p.Select(file); err != nil {
		return nil, err
	}
	out, err := p.Process(ctx)
	if err != nil {
		return nil, err
	}
	if !out.OK() {
		return nil, importFailure(out)
	}
	if len(out.Errors) > 0 {
		fmt.Fprintf(errOut, "Warning: %d invalid rows skipped (run 'hora-obra import %s' for details)\n", len(out.Errors), source)
	}
	if _, err := p.Commit(); err != nil {
		return nil, err
	}
	return session.Records(), nil
}

func importFailure(out importer.Outcome) error {
	if len(out.Errors) == 1 {
		return fmt.Errorf("import of %s failed: %s: %s", out.FileName, out.Failure, out.Errors[0])
	}
	return fmt.Errorf("import of %s failed: %s", out.FileName, out.Failure)
}
