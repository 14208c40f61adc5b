package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/joinery/internal/config"
	"github.com/matzehuels/joinery/pkg/docstore"
	"github.com/matzehuels/joinery/pkg/errors"
	"github.com/matzehuels/joinery/pkg/hierarchy"
	pkgio "github.com/matzehuels/joinery/pkg/io"
	"github.com/matzehuels/joinery/pkg/render"
	"github.com/matzehuels/joinery/pkg/render/nodelink"
)

// Output formats for "groups tree".
const (
	formatTree = "tree"
	formatText = "text"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatJSON = "json"
)

var treeFormats = []string{formatTree, formatText, formatDOT, formatSVG, formatJSON}

// groupsCommand creates the groups command group.
func (c *CLI) groupsCommand() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Inspect the group hierarchy of the stored objects",
		Long: `Inspect the group hierarchy of the stored objects.

Groups are inferred into a forest by membership: a group's parent is the
smallest group whose members are a strict superset of its own. The explicit
hierarchy follows the backslash-separated tag paths instead.

With --from, the commands read a report written by "groups report --json"
instead of the store.`,
	}

	cmd.PersistentFlags().StringVar(&from, "from", "", "read a JSON report instead of the store")

	cmd.AddCommand(c.groupsTreeCommand(&from))
	cmd.AddCommand(c.groupsSharedCommand(&from))
	cmd.AddCommand(c.groupsReportCommand(&from))

	return cmd
}

// resolveFunc is the body of a command that needs the resolved groups.
type resolveFunc func(ctx context.Context, res *hierarchy.Result) error

// withResult resolves the groups of every stored object, or imports them
// from a JSON report when from is set, and runs fn.
func (c *CLI) withResult(cmd *cobra.Command, from string, fn resolveFunc) error {
	if from != "" {
		res, err := pkgio.ImportJSON(from)
		if err != nil {
			return err
		}
		c.Logger.Debug("imported report", "path", from, "groups", len(res.Index.Groups))
		return fn(withLogger(cmd.Context(), c.Logger), res)
	}

	return c.withStore(cmd, func(ctx context.Context, store docstore.Store, _ *config.Config) error {
		logger := loggerFromContext(ctx)
		prog := newProgress(logger)
		r := &hierarchy.Resolver{Store: store, Logger: logger}
		res, err := r.Resolve(ctx, nil)
		if err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Resolved %d groups", len(res.Index.Groups)))
		if n := len(res.Skipped); n > 0 {
			printWarning(cmd.ErrOrStderr(), "Skipped %d inconsistent memberships (use --verbose for details)", n)
		}
		return fn(ctx, res)
	})
}

// groupsTreeCommand creates the "groups tree" subcommand.
func (c *CLI) groupsTreeCommand(from *string) *cobra.Command {
	var (
		explicit bool
		detailed bool
		format   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the inferred or explicit group tree",
		Long: `Print the group tree.

Formats:
  tree  styled tree for the terminal (default)
  text  indented "- path (name)" listing
  dot   Graphviz DOT
  svg   rendered with Graphviz
  json  nodes and parent/child edges`,
		Example: `  joinery groups tree
  joinery groups tree --explicit --format text
  joinery groups tree --format svg --detailed -o groups.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(treeFormats, format) {
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want one of %v)", format, treeFormats)
			}
			return c.withResult(cmd, *from, func(ctx context.Context, res *hierarchy.Result) error {
				forest := res.Inferred
				if explicit {
					forest = res.Explicit
				}
				w, closeOut, err := createOutput(cmd, output)
				if err != nil {
					return err
				}
				if err := writeTree(ctx, w, forest, format, detailed); err != nil {
					closeOut()
					return err
				}
				if err := closeOut(); err != nil {
					return err
				}
				if output != "" {
					printFile(cmd.ErrOrStderr(), output)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&explicit, "explicit", false, "follow tag paths instead of inferring from membership")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include member counts in dot and svg output")
	cmd.Flags().StringVarP(&format, "format", "f", formatTree, "output format: tree, text, dot, svg, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return treeFormats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// writeTree writes f to w in format.
func writeTree(ctx context.Context, w io.Writer, f *hierarchy.Forest, format string, detailed bool) error {
	switch format {
	case formatText:
		return render.Tree(w, f)
	case formatDOT:
		_, err := io.WriteString(w, nodelink.ToDOT(f, nodelink.Options{Detailed: detailed}))
		return err
	case formatSVG:
		svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(f, nodelink.Options{Detailed: detailed}))
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	case formatJSON:
		return pkgio.WriteForestJSON(f, w)
	default:
		_, err := fmt.Fprintln(w, groupTree(f))
		return err
	}
}

// groupsSharedCommand creates the "groups shared" subcommand.
func (c *CLI) groupsSharedCommand(from *string) *cobra.Command {
	return &cobra.Command{
		Use:   "shared",
		Short: "List the pairs of groups that share objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withResult(cmd, *from, func(_ context.Context, res *hierarchy.Result) error {
				return render.Shared(cmd.OutOrStdout(), res.Shared)
			})
		},
	}
}

// groupsReportCommand creates the "groups report" subcommand.
func (c *CLI) groupsReportCommand(from *string) *cobra.Command {
	var (
		asJSON bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the full group structure, shared objects and inferred tree",
		Long: `Print every group with its simple name, parent, children and objects,
followed by the shared objects and the inferred tree.

With --json the report is written in the format read back by --from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withResult(cmd, *from, func(_ context.Context, res *hierarchy.Result) error {
				if asJSON && output != "" {
					if err := pkgio.ExportJSON(res, output); err != nil {
						return err
					}
					printFile(cmd.ErrOrStderr(), output)
					return nil
				}
				w, closeOut, err := createOutput(cmd, output)
				if err != nil {
					return err
				}
				if asJSON {
					err = pkgio.WriteJSON(res, w)
				} else {
					err = render.Report(w, res)
				}
				if err != nil {
					closeOut()
					return err
				}
				if err := closeOut(); err != nil {
					return err
				}
				if output != "" {
					printFile(cmd.ErrOrStderr(), output)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "write JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
