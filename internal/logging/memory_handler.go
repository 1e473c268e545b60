package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultCapacity bounds the in-memory log ring when no explicit size
// is given.
const DefaultCapacity = 500

// MemoryHandler is an slog.Handler that keeps the most recent records
// as formatted lines in a fixed-size ring. It backs the admin log
// inspection endpoint; once the ring is full the oldest line is
// dropped for each new one.
type MemoryHandler struct {
	mu    sync.Mutex
	level slog.Level
	lines []string
	next  int
	full  bool
}

func NewMemoryHandler(capacity int, level slog.Level) *MemoryHandler {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryHandler{
		level: level,
		lines: make([]string, capacity),
	}
}

func (h *MemoryHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *MemoryHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	b.WriteString(record.Time.UTC().Format(time.RFC3339))
	b.WriteString(" ")
	b.WriteString(record.Level.String())
	b.WriteString(" ")
	b.WriteString(record.Message)
	record.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
		return true
	})

	h.mu.Lock()
	h.lines[h.next] = b.String()
	h.next = (h.next + 1) % len(h.lines)
	if h.next == 0 {
		h.full = true
	}
	h.mu.Unlock()
	return nil
}

// Recent returns up to n lines, oldest first.
func (h *MemoryHandler) Recent(n int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	size := h.next
	start := 0
	if h.full {
		size = len(h.lines)
		start = h.next
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]string, 0, n)
	for i := size - n; i < size; i++ {
		out = append(out, h.lines[(start+i)%len(h.lines)])
	}
	return out
}

func (h *MemoryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *MemoryHandler) WithGroup(name string) slog.Handler {
	return h
}
