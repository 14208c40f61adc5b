package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/joinery/internal/config"
	"github.com/matzehuels/joinery/pkg/codec"
	"github.com/matzehuels/joinery/pkg/docstore"
	"github.com/matzehuels/joinery/pkg/element"
	"github.com/matzehuels/joinery/pkg/errors"
	"github.com/matzehuels/joinery/pkg/geom"
	pkgio "github.com/matzehuels/joinery/pkg/io"
)

// elementCommand creates the element command group.
func (c *CLI) elementCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "element",
		Aliases: []string{"el"},
		Short:   "Create, inspect and edit timber elements",
	}

	cmd.AddCommand(c.elementCreateCommand())
	cmd.AddCommand(c.elementShowCommand())
	cmd.AddCommand(c.elementListCommand())
	cmd.AddCommand(c.elementSetNameCommand())
	cmd.AddCommand(c.elementSetThicknessCommand())
	cmd.AddCommand(c.elementFeaturesCommand())

	return cmd
}

// createOptions holds the flags of "element create".
type createOptions struct {
	shape     string
	box       string
	origin    string
	xAxis     string
	yAxis     string
	name      string
	typ       string
	parent    string
	index     int
	radii     string
	thickness float64
	group     string
}

// elementCreateCommand creates the "element create" subcommand.
func (c *CLI) elementCreateCommand() *cobra.Command {
	var opts createOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Store a new element",
		Long: `Store a new element: the shape, a marker for its frame, a group tag shared
by both, and the default attributes.

The shape is read from a world-space geometry JSON file (--shape, "-" for
stdin) or built as a box (--box W,D,H) standing in the frame. Unless given,
the axis runs up the frame Z axis with the height of the shape and the
radius is half its width.`,
		Example: `  joinery element create --box 0.2,0.2,3 --name post
  joinery element create --shape beam.json --origin 0,0,3 --x-axis 0,1,0 --type plate --thickness 0.04`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := opts.spec(cmd)
			if err != nil {
				return err
			}
			return c.withStore(cmd, func(ctx context.Context, store docstore.Store, _ *config.Config) error {
				e, err := element.Create(ctx, store, spec)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printSuccess(out, "Created element %s", e.ID())
				printDetail(out, "marker %s", e.MarkerID())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.shape, "shape", "", "geometry JSON file for the shape (- for stdin)")
	cmd.Flags().StringVar(&opts.box, "box", "", "build a box shape of width,depth,height")
	cmd.Flags().StringVar(&opts.origin, "origin", "", "frame origin as x,y,z (default 0,0,0)")
	cmd.Flags().StringVar(&opts.xAxis, "x-axis", "", "frame X axis as x,y,z (default 1,0,0)")
	cmd.Flags().StringVar(&opts.yAxis, "y-axis", "", "frame Y axis as x,y,z (default 0,1,0)")
	cmd.Flags().StringVar(&opts.name, "name", "", "element name")
	cmd.Flags().StringVar(&opts.typ, "type", element.TypeBeam, "element type")
	cmd.Flags().StringVar(&opts.parent, "parent", "", "parent assembly")
	cmd.Flags().IntVar(&opts.index, "index", element.NoIndex, "element index")
	cmd.Flags().StringVar(&opts.radii, "radii", "", "comma-separated radii, matched to axis segments in turn")
	cmd.Flags().Float64Var(&opts.thickness, "thickness", 0, "element thickness")
	cmd.Flags().StringVar(&opts.group, "group", "", "group tag shared by shape and marker (default a fresh UUID)")
	cmd.MarkFlagsMutuallyExclusive("shape", "box")
	cmd.MarkFlagsOneRequired("shape", "box")

	return cmd
}

// spec turns the flags into an element.Spec.
func (o *createOptions) spec(cmd *cobra.Command) (element.Spec, error) {
	var spec element.Spec
	var err error

	if o.box != "" {
		dims, err := parseFloats(o.box, 3)
		if err != nil {
			return spec, fmt.Errorf("--box: %w", err)
		}
		spec.Shape = boxShape(dims[0], dims[1], dims[2])
	} else if spec.Shape, err = readShape(cmd.InOrStdin(), o.shape); err != nil {
		return spec, err
	}

	frame := geom.WorldXY
	if o.origin != "" {
		v, err := parseFloats(o.origin, 3)
		if err != nil {
			return spec, fmt.Errorf("--origin: %w", err)
		}
		frame.Origin = geom.Point3{X: v[0], Y: v[1], Z: v[2]}
	}
	if o.xAxis != "" {
		if frame.XAxis, err = parseVector(o.xAxis); err != nil {
			return spec, fmt.Errorf("--x-axis: %w", err)
		}
	}
	if o.yAxis != "" {
		if frame.YAxis, err = parseVector(o.yAxis); err != nil {
			return spec, fmt.Errorf("--y-axis: %w", err)
		}
	}
	fwd, ok := frame.Forward()
	if !ok {
		return spec, errors.New(errors.ErrCodeInvalidInput, "--x-axis and --y-axis do not define a plane")
	}
	spec.Frame = frame
	// Shape files are in world space; the box is built in the frame.
	if o.box != "" {
		spec.Shape = spec.Shape.Transform(fwd)
	}

	spec.Name = o.name
	spec.Type = o.typ
	spec.Parent = o.parent
	spec.Group = o.group
	if cmd.Flags().Changed("index") {
		spec.Index = &o.index
	}
	if cmd.Flags().Changed("thickness") {
		spec.Thickness = &o.thickness
	}
	if o.radii != "" {
		if spec.Radii, err = parseFloats(o.radii, 0); err != nil {
			return spec, fmt.Errorf("--radii: %w", err)
		}
	}
	return spec, nil
}

// elementShowCommand creates the "element show" subcommand.
func (c *CLI) elementShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print every field of an element",
		Long:  `Print every field of an element. The id may be the shape or the marker.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, store docstore.Store, _ *config.Config) error {
				e, err := element.Lookup(ctx, store, args[0])
				if err != nil {
					return err
				}
				snap, err := e.Snapshot(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return pkgio.WriteSnapshots([]*element.Snapshot{snap}, cmd.OutOrStdout())
				}
				printSnapshot(cmd.OutOrStdout(), snap)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

// elementListCommand creates the "element list" subcommand.
func (c *CLI) elementListCommand() *cobra.Command {
	var (
		asJSON bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every element in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, store docstore.Store, _ *config.Config) error {
				logger := loggerFromContext(ctx)
				prog := newProgress(logger)
				found, err := element.Discover(ctx, store, nil, logger)
				if err != nil {
					return err
				}
				snaps := make([]*element.Snapshot, 0, len(found))
				for _, e := range found {
					snap, err := e.Snapshot(ctx)
					if err != nil {
						return err
					}
					snaps = append(snaps, snap)
				}
				prog.done(fmt.Sprintf("Read %d elements", len(snaps)))

				w, closeOut, err := createOutput(cmd, output)
				if err != nil {
					return err
				}
				if asJSON || output != "" {
					if err := pkgio.WriteSnapshots(snaps, w); err != nil {
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
				}
				if len(snaps) == 0 {
					printInfo(w, "No elements found")
					return nil
				}
				fmt.Fprintln(w, elementTable(snaps))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to file")

	return cmd
}

// elementSetNameCommand creates the "element set-name" subcommand.
func (c *CLI) elementSetNameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-name <id> <name>",
		Short: "Set or clear the element name",
		Long:  `Set the element name. An empty name clears it.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, store docstore.Store, _ *config.Config) error {
				e, err := element.Lookup(ctx, store, args[0])
				if err != nil {
					return err
				}
				if err := e.SetName(ctx, args[1]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Set name of %s to %q", e.ID(), args[1])
				return nil
			})
		},
	}
}

// elementSetThicknessCommand creates the "element set-thickness" subcommand.
func (c *CLI) elementSetThicknessCommand() *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "set-thickness <id> [value]",
		Short: "Set or clear the element thickness",
		Args: func(cmd *cobra.Command, args []string) error {
			if clearAll {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var value float64
			if !clearAll {
				var err error
				if value, err = strconv.ParseFloat(args[1], 64); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "thickness %q", args[1])
				}
			}
			return c.withStore(cmd, func(ctx context.Context, store docstore.Store, _ *config.Config) error {
				e, err := element.Lookup(ctx, store, args[0])
				if err != nil {
					return err
				}
				if clearAll {
					if err := e.ClearThickness(ctx); err != nil {
						return err
					}
					printSuccess(cmd.OutOrStdout(), "Cleared thickness of %s", e.ID())
					return nil
				}
				if err := e.SetThickness(ctx, value); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Set thickness of %s to %s", e.ID(), codec.FormatFloat(value))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "clear the thickness")

	return cmd
}

// elementFeaturesCommand creates the "element features" subcommand.
func (c *CLI) elementFeaturesCommand() *cobra.Command {
	var (
		add      []string
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "features <id>",
		Short: "Count, append or clear the features of an element",
		Long: `Without flags, print the number of features. --add appends the geometry in
each given JSON file (world space); --clear removes every feature.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearAll && len(add) > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--add and --clear cannot be combined")
			}
			features := make([]geom.Geometry, 0, len(add))
			for _, path := range add {
				g, err := readShape(cmd.InOrStdin(), path)
				if err != nil {
					return err
				}
				features = append(features, g)
			}

			return c.withStore(cmd, func(ctx context.Context, store docstore.Store, _ *config.Config) error {
				e, err := element.Lookup(ctx, store, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch {
				case clearAll:
					if err := e.ClearFeatures(ctx); err != nil {
						return err
					}
					printSuccess(out, "Cleared features of %s", e.ID())
				case len(features) > 0:
					if err := e.AppendFeatures(ctx, features); err != nil {
						return err
					}
					printSuccess(out, "Appended %d features to %s", len(features), e.ID())
				}
				n, err := e.FeatureCount(ctx)
				if err != nil {
					return err
				}
				printKeyValue(out, "features", strconv.Itoa(n))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&add, "add", nil, "geometry JSON file to append (repeatable)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "remove every feature")

	return cmd
}

// =============================================================================
// Input Helpers
// =============================================================================

// readShape decodes one geometry JSON document from path, or from stdin when
// path is "-".
func readShape(stdin io.Reader, path string) (geom.Geometry, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("read shape: %w", err)
	}
	g, err := codec.JSONSerializer{}.Unmarshal(string(data))
	if err != nil {
		return geom.Geometry{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "shape %s", path)
	}
	return g, nil
}

// parseFloats parses a comma-separated list. want > 0 requires exactly that
// many values.
func parseFloats(s string, want int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if want > 0 && len(parts) != want {
		return nil, errors.New(errors.ErrCodeInvalidInput, "want %d comma-separated numbers, got %q", want, s)
	}
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "number %q", p)
		}
		values[i] = v
	}
	return values, nil
}

func parseVector(s string) (geom.Vector3, error) {
	v, err := parseFloats(s, 3)
	if err != nil {
		return geom.Vector3{}, err
	}
	return geom.Vector3{X: v[0], Y: v[1], Z: v[2]}, nil
}

// boxShape returns an axis-aligned box mesh standing on the XY plane with its
// base centred on the origin, so that the default axis runs through it.
func boxShape(width, depth, height float64) geom.Geometry {
	x0, x1 := -width/2, width/2
	y0, y1 := -depth/2, depth/2
	vertices := []geom.Point3{
		{X: x0, Y: y0, Z: 0}, {X: x1, Y: y0, Z: 0}, {X: x1, Y: y1, Z: 0}, {X: x0, Y: y1, Z: 0},
		{X: x0, Y: y0, Z: height}, {X: x1, Y: y0, Z: height}, {X: x1, Y: y1, Z: height}, {X: x0, Y: y1, Z: height},
	}
	faces := [][]int{
		{0, 3, 2, 1}, {4, 5, 6, 7},
		{0, 1, 5, 4}, {1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7},
	}
	return geom.NewMesh(vertices, faces)
}
