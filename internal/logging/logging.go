// Package logging builds the structured logger shared by all commands.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-chi/httplog/v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to w. JSON output uses Elastic Common Schema
// attribute names so it can be shipped as-is.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", FormatText:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	case FormatJSON:
		logFormat := httplog.SchemaECS.Concise(false)
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       lvl,
			ReplaceAttr: logFormat.ReplaceAttr,
		})
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", format)
	}
	return slog.New(handler).With(slog.String("app", "hora-obra")), nil
}

// ParseLevel accepts debug, info, warn/warning and error; empty means warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
