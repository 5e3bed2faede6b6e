// Package app implements the application layer for compass.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"go.trai.ch/compass/internal/adapters/metrics"
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
	"go.trai.ch/compass/internal/ui/output"
	"go.trai.ch/compass/internal/ui/style"
	"go.trai.ch/zerr"
)

// LogSettings is implemented by loggers that can be reconfigured from CLI flags.
type LogSettings interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// OutputOptions controls how results are printed.
type OutputOptions struct {
	// JSON prints machine readable output instead of styled text.
	JSON bool
}

// App represents the main application logic.
type App struct {
	resolver ports.ComponentResolver
	logger   ports.Logger
	metrics  *metrics.Metrics
	cfg      domain.Config

	out    io.Writer
	errOut io.Writer
	styles style.Styles
}

// New creates a new App instance writing to stdout and stderr.
func New(resolver ports.ComponentResolver, logger ports.Logger, cfg domain.Config, m *metrics.Metrics) *App {
	a := &App{
		resolver: resolver,
		logger:   logger,
		metrics:  m,
		cfg:      cfg,
	}
	return a.WithOutput(os.Stdout, os.Stderr)
}

// WithOutput redirects results to out and hints to errOut.
func (a *App) WithOutput(out, errOut io.Writer) *App {
	a.out = out
	a.errOut = errOut
	a.styles = style.New(output.Renderer(out))
	return a
}

// ConfigureLogging applies the CLI logging flags when the logger supports them.
func (a *App) ConfigureLogging(jsonLogs, verbose bool) {
	settings, ok := a.logger.(LogSettings)
	if !ok {
		return
	}
	settings.SetJSON(jsonLogs)
	settings.SetVerbose(verbose)
}

// Resolve resolves a single reference and prints the component.
func (a *App) Resolve(ctx context.Context, ref string, opts OutputOptions) error {
	component, err := a.resolver.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	if opts.JSON {
		return a.writeJSON(componentView(component))
	}
	a.printComponent(component)
	return nil
}

// ResolveAll resolves every reference and prints one result per reference.
// Failures are reported inline; ErrBatchFailed is returned if any occurred.
func (a *App) ResolveAll(ctx context.Context, refs []string, opts OutputOptions) error {
	results, err := a.resolver.ResolveAll(ctx, refs)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	if opts.JSON {
		views := make([]batchView, 0, len(results))
		for _, res := range results {
			views = append(views, newBatchView(res))
		}
		if err := a.writeJSON(views); err != nil {
			return err
		}
	} else {
		a.printBatch(results)
	}

	if failed > 0 {
		a.logger.Debug(fmt.Sprintf("%d of %d references failed", failed, len(results)))
		return domain.ErrBatchFailed
	}
	return nil
}

// Versions lists the version candidates of the component named by ref.
// A version in ref is ignored.
func (a *App) Versions(ctx context.Context, ref string, opts OutputOptions) error {
	parsed, err := domain.ParseReference(ref, a.cfg.DefaultInstance)
	if err != nil {
		return err
	}

	list, err := a.resolver.ListVersions(ctx, parsed.Instance, parsed.Path, parsed.Name)
	if err != nil {
		return err
	}

	if opts.JSON {
		views := make([]versionView, 0, len(list))
		for _, v := range list {
			views = append(views, versionView{
				Name:  v,
				Class: domain.ClassifyVersion(v, a.cfg.PrimaryBranch, a.cfg.SecondaryBranch).String(),
			})
		}
		return a.writeJSON(views)
	}
	a.printVersions(parsed, list)
	return nil
}

// Invalidate drops cache entries matching pattern.
func (a *App) Invalidate(pattern string) error {
	n, err := a.resolver.Invalidate(pattern)
	if err != nil {
		return err
	}
	a.printf("%s removed %d cache %s\n", a.styles.Success.Render(style.Check), n, plural(n, "entry", "entries"))
	return nil
}

// Reset drops every cache entry.
func (a *App) Reset() error {
	if err := a.resolver.Reset(); err != nil {
		return err
	}
	a.printf("%s cache cleared\n", a.styles.Success.Render(style.Check))
	return nil
}

// Stats prints cache usage counters.
func (a *App) Stats(opts OutputOptions) error {
	stats := a.resolver.Stats()
	if opts.JSON {
		return a.writeJSON(stats)
	}
	a.printStats(stats)
	return nil
}

// PrintMetrics writes the collected metrics of this process to the error stream.
func (a *App) PrintMetrics() error {
	if a.metrics == nil {
		return nil
	}

	snapshot, err := a.metrics.Snapshot()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		_, _ = fmt.Fprintf(a.errOut, "%s %s\n", a.styles.Muted.Render(name), formatFloat(snapshot[name]))
	}
	return nil
}

// ReportError logs err and prints a remediation hint.
// Batch failures were already reported per reference and are skipped.
func (a *App) ReportError(err error) {
	if err == nil || errors.Is(err, domain.ErrBatchFailed) {
		return
	}
	a.logger.Error(err)
	_, _ = fmt.Fprintf(a.errOut, "%s %s\n", a.styles.Label.Render("Hint:"), domain.Remediation(err))
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "failed to write output")
	}
	return nil
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
