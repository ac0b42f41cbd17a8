// Package main is the entrypoint for the licensing CLI.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/michaeldubu/quantum-licensing-engine/internal/catalog"
	"github.com/michaeldubu/quantum-licensing-engine/internal/config"
	"github.com/michaeldubu/quantum-licensing-engine/internal/engine"
	"github.com/michaeldubu/quantum-licensing-engine/internal/forecast"
	"github.com/michaeldubu/quantum-licensing-engine/internal/marketing"
	"github.com/michaeldubu/quantum-licensing-engine/internal/reports"
)

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalOptions holds the persistent flags shared by all commands.
type globalOptions struct {
	configPath string
	logLevel   string
}

func (o *globalOptions) logger(cmd *cobra.Command) zerolog.Logger {
	level, err := zerolog.ParseLevel(o.logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(level).
		With().Timestamp().Logger()
}

func (o *globalOptions) engine(cmd *cobra.Command) (*engine.Engine, error) {
	e, err := config.LoadEngine(o.configPath, engine.WithLogger(o.logger(cmd)))
	if err != nil {
		return nil, fmt.Errorf("load pricing: %w", err)
	}
	return e, nil
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "licensing",
		Short: "Licensing and revenue forecasting engine",
		Long: `licensing issues commercial licenses, prices quotes with volume
discounts, projects compounding monthly revenue and prints the
marketing launch timeline.

Pricing defaults to the built-in tier catalog. Use --config to load
a YAML pricing file instead.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a pricing YAML file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newQuoteCmd(opts),
		newForecastCmd(opts),
		newTiersCmd(opts),
		newTimelineCmd(opts),
		newConfigCmd(opts),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Licensing Engine %s\n", Version)
			fmt.Fprintf(out, "  Commit:     %s\n", Commit)
			fmt.Fprintf(out, "  Built:      %s\n", BuildDate)
			fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newQuoteCmd(opts *globalOptions) *cobra.Command {
	var (
		company        string
		tier           string
		users          int
		months         int
		asJSON         bool
		showCredential bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Issue a license and price it",
		Example: `  licensing quote --company TechCorp --tier ENTERPRISE --users 100 --months 12
  licensing quote --company Acme --tier basic --users 5 --months 1 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine(cmd)
			if err != nil {
				return err
			}

			res, err := e.Evaluate(engine.Request{
				CompanyName: company,
				TierID:      catalog.TierID(tier),
				UserCount:   users,
				TermMonths:  months,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			var genOpts []reports.Option
			if showCredential {
				genOpts = append(genOpts, reports.WithRevealedCredentials())
			}
			return reports.NewGenerator(opts.logger(cmd), genOpts...).WriteResult(cmd.OutOrStdout(), res, e.Catalog())
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "company name (required)")
	cmd.Flags().StringVar(&tier, "tier", "", "license tier (required)")
	cmd.Flags().IntVar(&users, "users", 1, "number of users")
	cmd.Flags().IntVar(&months, "months", 12, "contract term in months")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&showCredential, "show-credential", false, "print the access credential unmasked")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("tier")

	return cmd
}

func newForecastCmd(opts *globalOptions) *cobra.Command {
	var (
		start  string
		tier   string
		months int
		growth string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project compounding monthly revenue",
		Example: `  licensing forecast --start 1000 --months 12 --growth 0.15
  licensing forecast --tier ENTERPRISE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine(cmd)
			if err != nil {
				return err
			}

			var amount decimal.Decimal
			switch {
			case tier != "":
				t, err := e.Catalog().Resolve(catalog.TierID(tier))
				if err != nil {
					return err
				}
				amount = t.BaseMonthlyFee
			default:
				amount, err = decimal.NewFromString(start)
				if err != nil {
					return fmt.Errorf("invalid --start %q: %w", start, err)
				}
			}

			if !cmd.Flags().Changed("months") {
				months = e.Forecaster().Months()
			}
			rate := e.Forecaster().GrowthRate()
			if growth != "" {
				rate, err = decimal.NewFromString(growth)
				if err != nil {
					return fmt.Errorf("invalid --growth %q: %w", growth, err)
				}
			}

			if err := forecast.CheckRequest(amount, months, rate); err != nil {
				return err
			}

			points, err := e.Project(amount, months, rate)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), points)
			}
			return reports.NewGenerator(opts.logger(cmd)).WriteForecast(cmd.OutOrStdout(), points)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "starting monthly revenue")
	cmd.Flags().StringVar(&tier, "tier", "", "start from this tier's base fee instead of --start")
	cmd.Flags().IntVar(&months, "months", 12, fmt.Sprintf("number of months to project (at most %d)", forecast.MaxRequestMonths))
	cmd.Flags().StringVar(&growth, "growth", "", "monthly growth rate (default from pricing config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the points as JSON")
	cmd.MarkFlagsMutuallyExclusive("start", "tier")
	cmd.MarkFlagsOneRequired("start", "tier")

	return cmd
}

func newTiersCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "List the tier catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), e.Catalog().Tiers())
			}
			return reports.NewGenerator(opts.logger(cmd)).WriteTiers(cmd.OutOrStdout(), e.Catalog().Tiers())
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}

func newTimelineCmd(opts *globalOptions) *cobra.Command {
	var (
		start  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print the marketing launch timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if start != "" {
				parsed, err := time.Parse(time.DateOnly, start)
				if err != nil {
					return fmt.Errorf("invalid --start %q, want YYYY-MM-DD: %w", start, err)
				}
				day = parsed
			}

			tl := marketing.Schedule(day)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), tl)
			}
			return reports.NewGenerator(opts.logger(cmd)).WriteTimeline(cmd.OutOrStdout(), tl)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "launch date as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the timeline as JSON")
	return cmd
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pricing configuration files",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init <path>",
			Short: "Write the built-in pricing as a YAML file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.DefaultPricing().Save(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pricing written to %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate [path]",
			Short: "Validate a pricing YAML file (default --config)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := opts.configPath
				if len(args) == 1 {
					path = args[0]
				}
				if path == "" {
					return fmt.Errorf("no pricing file given")
				}

				cfg, err := config.LoadPricing(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d tiers, %d discount brackets OK\n",
					path, len(cfg.Tiers), len(cfg.DiscountBrackets))
				return nil
			},
		},
	)

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
