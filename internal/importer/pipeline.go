package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/hora-obra/internal/model"
	"github.com/Tiliavir/hora-obra/internal/parser"
)

// State is a step of the import state machine.
type State int

const (
	Idle State = iota
	FileSelected
	Processing
	PreviewReady
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FileSelected:
		return "file-selected"
	case Processing:
		return "processing"
	case PreviewReady:
		return "preview-ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Progress checkpoints reported while processing.
const (
	ProgressStarted = 0
	ProgressRead    = 50
	ProgressParsed  = 80
	ProgressDone    = 100
)

// maxFileSize bounds how much of a source is read into memory.
const maxFileSize = 64 << 20

var (
	ErrBusy            = errors.New("an import is already being processed")
	ErrNoFile          = errors.New("no file selected")
	ErrNothingToCommit = errors.New("no import preview to commit")
)

// Failure messages shown to the user when processing does not produce a
// preview.
const (
	msgReadFailed = "could not read file"
	msgNoRecords  = "no valid records found in file"
	msgTooLarge   = "file is too large"
)

// Event reports a state transition or progress checkpoint.
type Event struct {
	State    State
	Progress int
	Message  string
}

// Outcome is the result of processing one file. A failed outcome carries a
// user-facing Failure message and no records.
type Outcome struct {
	ID       uuid.UUID
	FileName string
	Format   Format
	Records  []model.TimeRecord
	Errors   []string
	Failure  string
}

// OK reports whether the outcome can be committed.
func (o Outcome) OK() bool {
	return o.Failure == "" && len(o.Records) > 0
}

type Option func(*Pipeline)

// WithObserver registers fn to receive every Event. fn runs synchronously on
// the goroutine driving the pipeline.
func WithObserver(fn func(Event)) Option {
	return func(p *Pipeline) { p.observer = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

func WithParseOptions(opts parser.Options) Option {
	return func(p *Pipeline) { p.parseOpts = opts }
}

// Pipeline turns a selected file into a preview and commits that preview to
// a Session. Only one file is processed at a time.
type Pipeline struct {
	session   *Session
	observer  func(Event)
	logger    *slog.Logger
	parseOpts parser.Options
	now       func() time.Time

	mu      sync.Mutex
	state   State
	file    *File
	preview *Outcome
}

// New returns an idle pipeline that commits into session.
func New(session *Session, opts ...Option) *Pipeline {
	p := &Pipeline{
		session: session,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Preview returns the outcome awaiting commit, if any.
func (p *Pipeline) Preview() (Outcome, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != PreviewReady || p.preview == nil {
		return Outcome{}, false
	}
	return *p.preview, true
}

// Select chooses the file to process next. Any pending preview is discarded.
func (p *Pipeline) Select(f File) error {
	p.mu.Lock()
	if p.state == Processing {
		p.mu.Unlock()
		return ErrBusy
	}
	p.file = &f
	p.preview = nil
	p.transition(FileSelected)
	p.mu.Unlock()

	p.emit(Event{State: FileSelected, Progress: ProgressStarted, Message: f.Name})
	return nil
}

// Process reads and parses the selected file. Problems with the file itself
// are reported in the returned Outcome; the error is only non-nil when the
// pipeline is busy, has no file, or ctx is done.
func (p *Pipeline) Process(ctx context.Context) (Outcome, error) {
	p.mu.Lock()
	if p.state == Processing {
		p.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	if p.file == nil {
		p.mu.Unlock()
		return Outcome{}, ErrNoFile
	}
	f := *p.file
	p.preview = nil
	p.transition(Processing)
	p.mu.Unlock()

	out, err := p.run(ctx, f)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.transition(FileSelected)
		return Outcome{}, err
	}
	if !out.OK() {
		p.transition(Failed)
		p.logger.Warn("import failed", slog.String("file", f.Name), slog.String("reason", out.Failure),
			slog.Int("row_errors", len(out.Errors)))
		return out, nil
	}
	p.preview = &out
	p.transition(PreviewReady)
	p.logger.Info("import preview ready", slog.String("file", f.Name), slog.String("import_id", out.ID.String()),
		slog.Int("records", len(out.Records)), slog.Int("row_errors", len(out.Errors)))
	return out, nil
}

func (p *Pipeline) run(ctx context.Context, f File) (Outcome, error) {
	out := Outcome{ID: uuid.New(), FileName: f.Name}
	p.emit(Event{State: Processing, Progress: ProgressStarted, Message: "reading " + f.Name})

	data, err := readAll(f)
	if err != nil {
		p.logger.Error("read import file", slog.String("file", f.Name), slog.Any("error", err))
		return p.fail(out, failureMessage(err)), nil
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	format, err := DetectFormat(f.Name, f.MIMEType, data)
	if err != nil {
		return p.fail(out, err.Error()), nil
	}
	out.Format = format

	rows, err := readRows(format, data)
	if err != nil {
		p.logger.Error("decode import file", slog.String("file", f.Name), slog.String("format", string(format)),
			slog.Any("error", err))
		return p.fail(out, fmt.Sprintf("%s: %v", msgReadFailed, err)), nil
	}
	p.emit(Event{State: Processing, Progress: ProgressRead, Message: fmt.Sprintf("%d rows read", len(rows))})
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	res := parser.ParseRows(rows, p.parseOpts)
	out.Records = res.Records
	out.Errors = res.Errors
	p.emit(Event{State: Processing, Progress: ProgressParsed,
		Message: fmt.Sprintf("%d records, %d errors", len(res.Records), len(res.Errors))})

	if len(out.Records) == 0 {
		out.Records = nil
		return p.fail(out, msgNoRecords), nil
	}
	p.emit(Event{State: PreviewReady, Progress: ProgressDone, Message: fmt.Sprintf("%d records ready", len(out.Records))})
	return out, nil
}

func (p *Pipeline) fail(out Outcome, msg string) Outcome {
	out.Failure = msg
	p.emit(Event{State: Failed, Progress: ProgressDone, Message: msg})
	return out
}

// Commit replaces the session's record set with the pending preview and
// returns the pipeline to Idle. Without a preview the session is left
// untouched.
func (p *Pipeline) Commit() (int, error) {
	p.mu.Lock()
	if p.state != PreviewReady || p.preview == nil || len(p.preview.Records) == 0 {
		p.mu.Unlock()
		return 0, ErrNothingToCommit
	}
	out := *p.preview
	p.session.Replace(Snapshot{
		ImportID:    out.ID,
		Source:      out.FileName,
		CommittedAt: p.now(),
		Records:     out.Records,
	})
	p.preview = nil
	p.file = nil
	p.transition(Idle)
	p.mu.Unlock()

	p.logger.Info("import committed", slog.String("import_id", out.ID.String()), slog.Int("records", len(out.Records)))
	p.emit(Event{State: Idle, Progress: ProgressDone, Message: fmt.Sprintf("%d records imported", len(out.Records))})
	return len(out.Records), nil
}

// Cancel discards the selected file and any preview without touching the
// session.
func (p *Pipeline) Cancel() error {
	p.mu.Lock()
	if p.state == Processing {
		p.mu.Unlock()
		return ErrBusy
	}
	p.file = nil
	p.preview = nil
	p.transition(Idle)
	p.mu.Unlock()

	p.emit(Event{State: Idle, Message: "import canceled"})
	return nil
}

// transition must be called with mu held.
func (p *Pipeline) transition(to State) {
	if p.state == to {
		return
	}
	p.logger.Debug("import state", slog.String("from", p.state.String()), slog.String("to", to.String()))
	p.state = to
}

func (p *Pipeline) emit(e Event) {
	if p.observer != nil {
		p.observer(e)
	}
}

var errTooLarge = errors.New(msgTooLarge)

func readAll(f File) ([]byte, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("%s: no content", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxFileSize {
		return nil, errTooLarge
	}
	return data, nil
}

func failureMessage(err error) string {
	if errors.Is(err, errTooLarge) {
		return msgTooLarge
	}
	return fmt.Sprintf("%s: %v", msgReadFailed, err)
}

func readRows(format Format, data []byte) ([]model.Row, error) {
	switch format {
	case FormatCSV:
		return parser.ReadCSV(bytes.NewReader(data))
	case FormatXLSX:
		return parser.ReadXLSX(bytes.NewReader(data))
	case FormatXLS:
		return parser.ReadXLS(bytes.NewReader(data))
	}
	return nil, ErrUnsupportedFormat
}
