package logger

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/compass/internal/ui/output"
	"go.trai.ch/compass/internal/ui/style"
)

// levelMark is the glyph and color used for records at or above a level.
type levelMark struct {
	min   slog.Level
	glyph string
	color lipgloss.Color
}

// Ordered from most to least severe. Records below the last entry get the
// Debug mark.
var levelMarks = []levelMark{
	{min: slog.LevelError, glyph: style.Cross, color: style.Red},
	{min: slog.LevelWarn, glyph: style.Warning, color: style.Yellow},
	{min: slog.LevelInfo, color: style.Slate},
}

var debugMark = levelMark{glyph: style.Dot, color: style.Iris}

func markFor(level slog.Level) levelMark {
	for _, m := range levelMarks {
		if level >= m.min {
			return m
		}
	}
	return debugMark
}

// ConsoleHandler is a slog.Handler writing one colored line per record.
// Attributes are rendered as key=value; values containing spaces are quoted.
type ConsoleHandler struct {
	mu     *sync.Mutex
	out    *termenv.Output
	level  slog.Leveler
	prefix string // group path applied to attribute keys, "fetch." for WithGroup("fetch")
	suffix string // pre-rendered attributes from WithAttrs
}

// NewConsoleHandler creates a ConsoleHandler writing to w.
// opts.Level is consulted on every record so a *slog.LevelVar can move it.
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	h := &ConsoleHandler{
		mu:    &sync.Mutex{},
		out:   output.New(w),
		level: slog.LevelInfo,
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	mark := markFor(r.Level)

	var b strings.Builder
	if mark.glyph != "" {
		b.WriteString(mark.glyph)
		b.WriteByte(' ')
	}
	b.WriteString(r.Message)
	b.WriteString(h.suffix)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.prefix, a)
		return true
	})

	line := h.out.String(b.String()).Foreground(h.out.Color(string(mark.color))).String() + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line)
	return err
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	b.WriteString(h.suffix)
	for _, a := range attrs {
		appendAttr(&b, h.prefix, a)
	}
	clone := *h
	clone.suffix = b.String()
	return &clone
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		nested := prefix
		if a.Key != "" {
			nested += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, nested, ga)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')

	v := a.Value.String()
	if v == "" || strings.ContainsAny(v, " \t\n\"=") {
		v = strconv.Quote(v)
	}
	b.WriteString(v)
}
