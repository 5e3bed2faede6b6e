// Package output picks the color profile shared by log lines and command
// results so both streams agree on whether to emit ANSI sequences.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ForceColorEnvVar forces ANSI colors even when the destination is not a terminal.
const ForceColorEnvVar = "COMPASS_FORCE_COLOR"

// Mode is the color decision taken from the environment.
type Mode int

const (
	// ModeAuto probes the destination.
	ModeAuto Mode = iota
	// ModeNever disables colors. Set by NO_COLOR.
	ModeNever
	// ModeAlways emits basic ANSI colors. Set by COMPASS_FORCE_COLOR.
	ModeAlways
)

// DetectMode reads NO_COLOR and COMPASS_FORCE_COLOR through getenv.
// NO_COLOR takes precedence.
func DetectMode(getenv func(string) string) Mode {
	switch {
	case getenv("NO_COLOR") != "":
		return ModeNever
	case getenv(ForceColorEnvVar) != "":
		return ModeAlways
	default:
		return ModeAuto
	}
}

// Profile returns the termenv profile for w under mode.
func (m Mode) Profile(w io.Writer) termenv.Profile {
	switch m {
	case ModeNever:
		return termenv.Ascii
	case ModeAlways:
		return termenv.ANSI
	default:
		return termenv.NewOutput(w).EnvColorProfile()
	}
}

// New creates a termenv.Output for w. A nil w selects os.Stderr.
func New(w io.Writer) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w,
		termenv.WithProfile(DetectMode(os.Getenv).Profile(w)),
		termenv.WithTTY(true),
	)
}

// Renderer creates a lipgloss renderer for w with the same profile New would pick.
// A nil w selects os.Stdout.
func Renderer(w io.Writer) *lipgloss.Renderer {
	if w == nil {
		w = os.Stdout
	}
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(DetectMode(os.Getenv).Profile(w))
	return r
}
