// Command report prints the sales dashboard to a terminal or exports its rows.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

type reportOptions struct {
	seed     uint64
	timezone string
	region   string
	start    string
	end      string
	width    int

	format string
	output string
}

// reportEnv is what every subcommand resolves from config and flags.
type reportEnv struct {
	cfg       *config.Config
	logger    *slog.Logger
	dashboard *services.Dashboard
}

func main() {
	if err := newRootCmd(time.Now).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(now func() time.Time) *cobra.Command {
	opts := &reportOptions{}

	root := &cobra.Command{
		Use:   "report",
		Short: "Print the sales dashboard in the terminal",
		Long: `Generate the synthetic sales data and print the headline metrics with
the daily, regional and category breakdowns.

Defaults come from the same DASHBOARD_* environment variables and
DASHBOARD_CONFIG file as the web server; flags override them.

Examples:
  report                                   # all regions, full span
  report --region 서울 --start 2024-03-01  # one region from a date
  report export --format xlsx -o sales.xlsx`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.resolve(cmd, now)
			if err != nil {
				return err
			}
			return runReport(cmd.OutOrStdout(), env, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.Uint64Var(&opts.seed, "seed", 0, "Random seed (default from DASHBOARD_SEED)")
	flags.StringVar(&opts.timezone, "timezone", "", "IANA timezone for calendar days (default from DASHBOARD_TIMEZONE)")
	flags.StringVar(&opts.region, "region", "", "Region to show, or 전체 for all")
	flags.StringVar(&opts.start, "start", "", "First day, YYYY-MM-DD (default: start of span)")
	flags.StringVar(&opts.end, "end", "", "Last day, YYYY-MM-DD (default: today)")
	root.Flags().IntVar(&opts.width, "width", 0, "Output width (default: terminal width)")

	root.AddCommand(newExportCmd(opts, now))
	return root
}

func newExportCmd(opts *reportOptions, now func() time.Time) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered sales rows as csv, xlsx or parquet",
		Example: `  report export --format csv > sales.csv
  report export --region 부산 --format parquet -o busan.parquet`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.resolve(cmd, now)
			if err != nil {
				return err
			}
			return runExport(cmd.OutOrStdout(), env, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "csv", "Export format: csv, xlsx or parquet")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}

// resolve loads the configuration and applies the flags that were set.
func (o *reportOptions) resolve(cmd *cobra.Command, now func() time.Time) (*reportEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Dashboard.Seed = o.seed
	}
	if flags.Changed("timezone") {
		if o.timezone == "" {
			return nil, fmt.Errorf("--timezone must not be empty")
		}
		if _, err := time.LoadLocation(o.timezone); err != nil {
			return nil, fmt.Errorf("invalid --timezone %q: %w", o.timezone, err)
		}
		cfg.Dashboard.Timezone = o.timezone
	}

	logger := observability.NewLoggerTo(cmd.ErrOrStderr(), cfg.Logger)
	dashboard := services.NewDashboard(cfg.Dashboard.Seed,
		services.WithClock(now),
		services.WithLocation(cfg.Dashboard.Location()),
		services.WithPreviewRows(cfg.Dashboard.PreviewRows),
		services.WithLogger(logger),
	)

	return &reportEnv{cfg: cfg, logger: logger, dashboard: dashboard}, nil
}

func runReport(out io.Writer, env *reportEnv, opts *reportOptions) error {
	f, err := env.dashboard.ParseFilter(opts.region, opts.start, opts.end)
	if err != nil {
		return err
	}

	width := opts.width
	if width <= 0 {
		width = terminalWidth(out)
	}

	view := env.dashboard.View(f)
	env.logger.Debug("rendering report", "region", f.Region, "rows", view.FilteredCount, "width", width)
	return renderReport(out, env.cfg.Dashboard.Title, view, width)
}

func runExport(out io.Writer, env *reportEnv, opts *reportOptions) (err error) {
	exportFormat, err := services.ParseExportFormat(opts.format)
	if err != nil {
		return err
	}

	f, err := env.dashboard.ParseFilter(opts.region, opts.start, opts.end)
	if err != nil {
		return err
	}
	rows := env.dashboard.Records(f)

	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.output, err)
		}
		defer func() {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}()
		out = file
	}

	if err := services.Export(out, exportFormat, rows); err != nil {
		return err
	}
	env.logger.Info("exported rows", "format", exportFormat, "rows", len(rows), "output", opts.output)
	return nil
}

// terminalWidth reports the width of out when it is a terminal.
func terminalWidth(out io.Writer) int {
	file, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
