// Package logger implements the ports.Logger adapter on top of log/slog.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.trai.ch/compass/internal/core/ports"
	"go.trai.ch/zerr"
)

// Logger implements ports.Logger. Output format and destination can be
// switched at runtime; records already in flight finish on the old handler.
type Logger struct {
	current atomic.Pointer[slog.Logger]
	level   slog.LevelVar

	mu   sync.Mutex
	w    io.Writer
	json bool
}

// New creates a Logger writing console lines to stderr at info level.
func New() ports.Logger {
	l := &Logger{w: os.Stderr}
	l.install()
	return l
}

// install swaps in a handler for the current settings. Callers hold mu.
func (l *Logger) install() {
	opts := &slog.HandlerOptions{Level: &l.level}
	if l.json {
		l.current.Store(slog.New(slog.NewJSONHandler(l.w, opts)))
		return
	}
	l.current.Store(slog.New(NewConsoleHandler(l.w, opts)))
}

// SetOutput changes the destination. A nil writer selects os.Stderr.
func (l *Logger) SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w = w
	l.install()
}

// SetJSON switches between JSON records and console lines.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.json = enable
	l.install()
}

// SetVerbose lowers the threshold to debug.
func (l *Logger) SetVerbose(enable bool) {
	if enable {
		l.level.Set(slog.LevelDebug)
	} else {
		l.level.Set(slog.LevelInfo)
	}
}

func (l *Logger) Debug(msg string) { l.current.Load().Debug(msg) }

func (l *Logger) Info(msg string) { l.current.Load().Info(msg) }

func (l *Logger) Warn(msg string) { l.current.Load().Warn(msg) }

// Error logs err. JSON records carry the zerr metadata of the chain as
// fields; console output lists the causes and metadata on their own lines.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.Lock()
	json := l.json
	l.mu.Unlock()

	lg := l.current.Load()
	if json {
		zerr.Log(context.Background(), lg, err)
		return
	}
	lg.Error(FormatError(err))
}

// FormatError renders err as a headline, its causes and any attached metadata.
func FormatError(err error) string {
	chain := walk(err)
	if len(chain.messages) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(indent(chain.messages[0], 7))

	if len(chain.messages) > 1 {
		b.WriteString("\n\n  Caused by:")
		for _, msg := range chain.messages[1:] {
			b.WriteString("\n    → ")
			b.WriteString(indent(msg, 6))
		}
	}

	if len(chain.fields) > 0 {
		keys := make([]string, 0, len(chain.fields))
		for k := range chain.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\n\n  Context:")
		for _, k := range keys {
			fmt.Fprintf(&b, "\n    %s=%v", k, chain.fields[k])
		}
	}
	return b.String()
}

type errorChain struct {
	messages []string
	fields   map[string]any
}

// walk follows the zerr chain. Wrappers with an empty message contribute only
// metadata. The first foreign error ends the walk with its full text. When a
// key repeats, the outermost value wins.
func walk(err error) errorChain {
	var chain errorChain
	for err != nil {
		ze, ok := err.(*zerr.Error)
		if !ok {
			chain.messages = append(chain.messages, err.Error())
			break
		}

		if msg := ze.Message(); msg != "" {
			chain.messages = append(chain.messages, msg)
		}
		for k, v := range ze.Metadata() {
			if chain.fields == nil {
				chain.fields = make(map[string]any)
			}
			if _, seen := chain.fields[k]; !seen {
				chain.fields[k] = v
			}
		}
		err = ze.Unwrap()
	}
	return chain
}

func indent(msg string, width int) string {
	return strings.ReplaceAll(msg, "\n", "\n"+strings.Repeat(" ", width))
}
