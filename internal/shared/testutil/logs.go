package testutil

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// Entry is one captured log call
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// recorder is shared by a handler and every handler derived from it
type recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// LogRecorder is an slog.Handler that keeps every record in memory.
// Attributes added with Logger.With are merged into each entry.
type LogRecorder struct {
	rec    *recorder
	attrs  []slog.Attr
	prefix string
	t      testing.TB
}

// NewLogRecorder creates a recorder. When t is non-nil entries are echoed
// to the test log.
func NewLogRecorder(t testing.TB) *LogRecorder {
	return &LogRecorder{rec: &recorder{}, t: t}
}

// NewRecordingLogger returns a logger writing into a fresh recorder
func NewRecordingLogger(t testing.TB) (*slog.Logger, *LogRecorder) {
	h := NewLogRecorder(t)
	return slog.New(h), h
}

// DiscardLogger drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (h *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (h *LogRecorder) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[h.prefix+a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.prefix+a.Key] = a.Value.Any()
		return true
	})

	h.rec.mu.Lock()
	h.rec.entries = append(h.rec.entries, Entry{Level: r.Level, Message: r.Message, Attrs: attrs})
	h.rec.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

func (h *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *LogRecorder) WithGroup(name string) slog.Handler {
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// Entries returns a copy of everything captured so far
func (h *LogRecorder) Entries() []Entry {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	return append([]Entry(nil), h.rec.entries...)
}

// Find returns the first entry whose message contains msg
func (h *LogRecorder) Find(msg string) (Entry, bool) {
	for _, e := range h.Entries() {
		if strings.Contains(e.Message, msg) {
			return e, true
		}
	}
	return Entry{}, false
}

// AtLevel returns the entries logged at level
func (h *LogRecorder) AtLevel(level slog.Level) []Entry {
	var out []Entry
	for _, e := range h.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets all captured entries
func (h *LogRecorder) Reset() {
	h.rec.mu.Lock()
	h.rec.entries = nil
	h.rec.mu.Unlock()
}

// RequireLogged fails the test unless a message containing msg was logged at level
func RequireLogged(t testing.TB, h *LogRecorder, level slog.Level, msg string) Entry {
	t.Helper()
	for _, e := range h.AtLevel(level) {
		if strings.Contains(e.Message, msg) {
			return e
		}
	}
	t.Fatalf("no %s entry containing %q in %d captured entries", level, msg, len(h.Entries()))
	return Entry{}
}
