// Package logging provides the compact text handler used by the command line tool.
package logging

import (
	"context"
	"io"
	"strings"
	"sync"

	"golang.org/x/exp/slog"
)

// LogHandler writes one line per record: time, level, message, then key=value pairs.
type LogHandler struct {
	level slog.Leveler
	attrs []slog.Attr
	group string
	mu    *sync.Mutex
	out   io.Writer
}

func NewLogHandler(o io.Writer, opts *slog.HandlerOptions) *LogHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}

	return &LogHandler{
		level: level,
		out:   o,
		mu:    &sync.Mutex{},
	}
}

// NewLogger returns a logger writing to o with the given minimum level.
func NewLogger(o io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewLogHandler(o, &slog.HandlerOptions{Level: level}))
}

func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(a))
	}

	return &clone
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if clone.group != "" {
		clone.group += "."
	}
	clone.group += name

	return &clone
}

func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	formattedTime := r.Time.Format("2006/01/02 15:04:05")

	strs := []string{formattedTime, r.Level.String(), r.Message}

	for _, a := range h.attrs {
		strs = append(strs, format(a))
	}
	r.Attrs(func(a slog.Attr) bool {
		strs = append(strs, format(h.qualify(a)))
		return true
	})

	b := []byte(strings.Join(strs, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.out.Write(b)

	return err
}

func (h *LogHandler) qualify(a slog.Attr) slog.Attr {
	if h.group != "" {
		a.Key = h.group + "." + a.Key
	}

	return a
}

func format(a slog.Attr) string {
	value := a.Value.Resolve().String()
	if strings.ContainsAny(value, " \t\n\"=") {
		value = "\"" + strings.ReplaceAll(value, "\"", "\\\"") + "\""
	}

	return a.Key + "=" + value
}
