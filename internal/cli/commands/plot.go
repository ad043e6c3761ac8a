package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapview/internal/plot"
)

// PlotOptions holds options for the plot command.
type PlotOptions struct {
	X      string
	Y      string
	Kind   string
	Width  int
	Height int
}

// NewPlotCommand creates the plot command.
func NewPlotCommand() *cobra.Command {
	opts := &PlotOptions{}

	cmd := &cobra.Command{
		Use:   "plot SQL",
		Short: "Chart two columns of a query result",
		Long: `Run a query and draw two of its columns as a line or scatter chart.

By default the first column is plotted on the x axis and the second on the y
axis. Columns can be chosen by zero-based index or by name. A non-numeric x
column is replaced by the row number.`,
		Example: `  leapview plot -d ./data "SELECT day, amount FROM sales ORDER BY day"
  leapview plot -d ./data --kind scatter --x height --y weight "SELECT * FROM people"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.X, "x", "0", "X column (index or name)")
	cmd.Flags().StringVar(&opts.Y, "y", "1", "Y column (index or name)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "Chart kind: line or scatter (default from config)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "Chart width in cells (default from config)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "Chart height in lines (default from config)")

	_ = cmd.RegisterFlagCompletionFunc("kind", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(plot.KindLine), string(plot.KindScatter)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runPlot(cmd *cobra.Command, sqlQuery string, opts *PlotOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	kindName := opts.Kind
	if kindName == "" {
		kindName = cc.Cfg.Plot.Kind
	}
	kind, err := plot.ParseKind(kindName)
	if err != nil {
		return err
	}

	if err := cc.ImportDataDir(cmd.Context()); err != nil {
		return err
	}

	before := cc.Failures()
	set, err := cc.Session.Execute(cmd.Context(), sqlQuery)
	if err != nil {
		return err
	}
	if cc.Failures() > before {
		return ErrStatementFailed
	}
	if set.Empty() {
		return fmt.Errorf("nothing to plot: statement returned no result")
	}

	mapper := plot.Mapper{}
	if mapper.X, err = resolveColumn(set.Columns, opts.X); err != nil {
		return err
	}
	if mapper.Y, err = resolveColumn(set.Columns, opts.Y); err != nil {
		return err
	}

	points, err := mapper.Points(set)
	if err != nil {
		return err
	}

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = cc.Cfg.Plot.Width
	}
	if height <= 0 {
		height = cc.Cfg.Plot.Height
	}

	x, y := mapper.Labels(set)
	chart := plot.Chart{Kind: kind, Width: width, Height: height, XLabel: x, YLabel: y}
	cc.Renderer.Println(chart.Render(points))

	if set.Truncated {
		cc.Renderer.Warning(fmt.Sprintf("only the first %s are plotted", cc.Renderer.Count(len(set.Rows), "row")))
	}
	return nil
}
