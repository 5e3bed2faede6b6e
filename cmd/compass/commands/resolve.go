package commands

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <reference>",
		Short: "Resolve a component and show its inputs",
		Example: "  compass resolve gitlab.com/components/opentofu/full-pipeline@2.0.0\n" +
			"  compass resolve '$CI_SERVER_FQDN/my-group/ci/lint'",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Resolve(cmd.Context(), args[0], outputOptions(cmd))
		},
	}
}

func (c *CLI) newResolveAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve-all [references...]",
		Short: "Resolve several components in parallel",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			refs := args
			if file, _ := cmd.Flags().GetString("file"); file != "" {
				fromFile, err := readReferences(file, cmd.InOrStdin())
				if err != nil {
					return err
				}
				refs = append(refs, fromFile...)
			}
			if len(refs) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			return c.app.ResolveAll(cmd.Context(), refs, outputOptions(cmd))
		},
	}
	cmd.Flags().StringP("file", "f", "", "Read references from a file, one per line ('-' for stdin)")
	return cmd
}

// readReferences reads one reference per line. Blank lines and lines starting
// with '#' are skipped.
func readReferences(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path) //nolint:gosec // path is supplied by the user on purpose
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to open reference file"), "path", path)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var refs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read reference file"), "path", path)
	}
	return refs, nil
}
