package app

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
	"go.trai.ch/compass/internal/ui/style"
)

// componentJSON is the printed form of a component. Degraded is included,
// unlike the cached form.
type componentJSON struct {
	domain.ParsedComponent
	Degraded bool `json:"degraded,omitempty"`
}

func componentView(c domain.ParsedComponent) componentJSON {
	return componentJSON{ParsedComponent: c, Degraded: c.Degraded}
}

type batchView struct {
	Reference string         `json:"reference"`
	Component *componentJSON `json:"component,omitempty"`
	Error     string         `json:"error,omitempty"`
	Hint      string         `json:"hint,omitempty"`
}

func newBatchView(res domain.BatchResult) batchView {
	if res.Err != nil {
		return batchView{
			Reference: res.Reference,
			Error:     res.Err.Error(),
			Hint:      domain.Remediation(res.Err),
		}
	}
	view := componentView(res.Component)
	return batchView{Reference: res.Reference, Component: &view}
}

type versionView struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

func (a *App) printComponent(c domain.ParsedComponent) {
	s := a.styles

	a.printf("%s %s\n", s.Title.Render(c.Name), s.Muted.Render("@"+c.Version))
	if c.Description != "" {
		a.printf("%s\n", c.Description)
	}
	if c.Degraded {
		a.printf("%s %s\n", s.Warning.Render(style.Warning),
			s.Warning.Render("served from an expired cache entry, the source could not be reached"))
	}
	if !c.IsValidComponent {
		a.printf("%s %s\n", s.Warning.Render(style.Warning),
			s.Warning.Render("document does not declare a spec block"))
	}

	a.printf("\n%s %s\n", s.Label.Render("Source:"), c.Source)
	a.printf("%s %s\n", s.Label.Render("Fetched:"), c.FetchedAt.Format(time.RFC3339))

	if len(c.Parameters) == 0 {
		a.printf("\n%s\n", s.Muted.Render("No inputs."))
		return
	}

	rows := make([][]string, 0, len(c.Parameters))
	for _, p := range c.Parameters {
		rows = append(rows, []string{p.Name, p.Type, requirement(p), defaultValue(p), describe(p)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Muted).
		Headers("INPUT", "TYPE", "REQUIRED", "DEFAULT", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.Label.Padding(0, 1)
			case col == 2 && row >= 0 && row < len(rows) && rows[row][col] == "yes":
				return s.Required.Padding(0, 1)
			case col == 2:
				return s.Optional.Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		})

	a.printf("\n%s\n", t.String())
}

func (a *App) printBatch(results []domain.BatchResult) {
	s := a.styles
	for _, res := range results {
		if res.Err != nil {
			a.printf("%s %s\n", s.Error.Render(style.Cross), res.Reference)
			a.printf("    %s\n", s.Error.Render(res.Err.Error()))
			a.printf("    %s %s\n", s.Label.Render("Hint:"), domain.Remediation(res.Err))
			continue
		}

		icon := s.Success.Render(style.Check)
		if res.Component.Degraded {
			icon = s.Warning.Render(style.Warning)
		}
		a.printf("%s %s %s %s\n", icon, res.Reference,
			s.Muted.Render("→ "+res.Component.Version),
			s.Muted.Render(strconv.Itoa(len(res.Component.Parameters))+" "+plural(len(res.Component.Parameters), "input", "inputs")))
	}
}

func (a *App) printVersions(ref domain.ComponentReference, versions []string) {
	s := a.styles
	a.printf("%s %s\n", s.Title.Render(ref.Location()), s.Muted.Render(strconv.Itoa(len(versions))+" "+plural(len(versions), "version", "versions")))

	for _, v := range versions {
		switch domain.ClassifyVersion(v, a.cfg.PrimaryBranch, a.cfg.SecondaryBranch) {
		case domain.ClassPrimaryBranch:
			a.printf("  %s %s %s\n", s.Success.Render(style.Dot), v, s.Muted.Render("branch"))
		case domain.ClassSemantic:
			a.printf("  %s %s\n", s.Title.Render(style.Dot), v)
		default:
			a.printf("  %s %s\n", s.Muted.Render(style.Circle), v)
		}
	}
}

func (a *App) printStats(stats ports.CacheStats) {
	s := a.styles
	pairs := [][2]string{
		{"Entries", strconv.Itoa(stats.EntryCount)},
		{"Expired", strconv.Itoa(stats.StaleCount)},
		{"Hits", strconv.FormatUint(stats.Hits, 10)},
		{"Misses", strconv.FormatUint(stats.Misses, 10)},
		{"Evictions", strconv.FormatUint(stats.Evictions, 10)},
		{"Hit rate", strconv.FormatFloat(stats.HitRate*100, 'f', 1, 64) + "%"},
	}
	for _, p := range pairs {
		a.printf("%s %s\n", s.Label.Render(padRight(p[0]+":", 11)), p[1])
	}
}

func requirement(p domain.ComponentParameter) string {
	if p.Required {
		return "yes"
	}
	return "no"
}

func defaultValue(p domain.ComponentParameter) string {
	if p.Default == nil {
		return "-"
	}
	if *p.Default == "" {
		return `""`
	}
	return *p.Default
}

func describe(p domain.ComponentParameter) string {
	if len(p.Options) == 0 {
		return p.Description
	}
	opts := "one of: " + strings.Join(p.Options, ", ")
	if p.Description == "" {
		return opts
	}
	return p.Description + " (" + opts + ")"
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
