package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/cesu-salary/internal/apperr"
	"github.com/username/cesu-salary/internal/calendar"
	"github.com/username/cesu-salary/internal/config"
	"github.com/username/cesu-salary/internal/payroll"
	"github.com/username/cesu-salary/internal/report"
	"github.com/username/cesu-salary/internal/salary"
	"github.com/username/cesu-salary/pkg/dateutil"
	"go.uber.org/zap"
)

type calculateOptions struct {
	month       int
	year        int
	period      string
	rate        float64
	transport   float64
	absentDays  int
	icsFile     string
	icsURL      string
	fallback    string
	format      string
	outputsFile string
	teeOutput   string
}

func calculateCmd() *cobra.Command {
	opts := &calculateOptions{}

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute the salary of a month",
		Long:  "Compute the salary breakdown of a month. Flags override the config file and CESU_* environment variables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd, opts)
		},
	}

	bindCalculateFlags(cmd, opts)

	return cmd
}

func bindCalculateFlags(cmd *cobra.Command, opts *calculateOptions) {
	cmd.Flags().IntVarP(&opts.month, "month", "m", 0, "Month 1-12 (0 for the current month)")
	cmd.Flags().IntVarP(&opts.year, "year", "y", 0, "Year (0 for the current year)")
	cmd.Flags().StringVar(&opts.period, "period", "", "Period as YYYY-MM or MM/YYYY, instead of --month/--year")
	cmd.Flags().Float64Var(&opts.rate, "rate", config.DefaultHourlyRate, "Net hourly rate in euros")
	cmd.Flags().Float64Var(&opts.transport, "transport", config.DefaultTransportAllowance, "Monthly transport allowance in euros")
	cmd.Flags().IntVar(&opts.absentDays, "absent-days", 0, "Number of absent days")
	bindHolidayFlags(cmd, &opts.icsFile, &opts.icsURL, &opts.fallback)
	cmd.Flags().StringVar(&opts.format, "format", "text", "Report format: text or json")
	cmd.Flags().StringVar(&opts.outputsFile, "outputs-file", "", "Append total_hours/total_salary to this file (default: $GITHUB_OUTPUT)")
	cmd.Flags().StringVar(&opts.teeOutput, "tee-output", "", "Mirror the report to a file")
}

func bindHolidayFlags(cmd *cobra.Command, icsFile, icsURL, fallback *string) {
	cmd.Flags().StringVar(icsFile, "ics", config.DefaultLocalFile, "Local holidays ICS file")
	cmd.Flags().StringVar(icsURL, "ics-url", calendar.DefaultRemoteURL, "Holidays ICS feed URL")
	cmd.Flags().StringVar(fallback, "fallback", string(calendar.FallbackEmpty), "When no holiday source works: empty, builtin or none")
}

// applyHolidayFlags copies explicitly set holiday flags over the loaded config
func applyHolidayFlags(cmd *cobra.Command, cfg *config.Config, icsFile, icsURL, fallback string) {
	if cmd.Flags().Changed("ics") {
		cfg.Holidays.LocalFile = icsFile
	}
	if cmd.Flags().Changed("ics-url") {
		cfg.Holidays.RemoteURL = icsURL
	}
	if cmd.Flags().Changed("fallback") {
		cfg.Holidays.Fallback = fallback
	}
}

func (o *calculateOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("rate") {
		cfg.Salary.HourlyRate = o.rate
	}
	if cmd.Flags().Changed("transport") {
		cfg.Salary.TransportAllowance = o.transport
	}
	if cmd.Flags().Changed("absent-days") {
		cfg.Salary.AbsentDays = o.absentDays
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = o.format
	}
	if cmd.Flags().Changed("outputs-file") {
		cfg.Output.NamedOutputsFile = o.outputsFile
	}
	applyHolidayFlags(cmd, cfg, o.icsFile, o.icsURL, o.fallback)
}

func (o *calculateOptions) resolvePeriod(cmd *cobra.Command, now time.Time) (int, time.Month, error) {
	if o.period == "" {
		year, month, err := dateutil.ResolvePeriod(o.year, o.month, now)
		if err != nil {
			return 0, 0, apperr.InvalidInput("%v", err)
		}
		return year, month, nil
	}

	if cmd.Flags().Changed("month") || cmd.Flags().Changed("year") {
		return 0, 0, apperr.InvalidInput("--period cannot be combined with --month or --year")
	}
	year, month, err := dateutil.ParseYearMonth(o.period)
	if err != nil {
		return 0, 0, apperr.InvalidInput("%v", err)
	}
	return year, month, nil
}

func runCalculate(cmd *cobra.Command, opts *calculateOptions) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return apperr.InvalidInput("%v", err)
	}

	year, month, err := opts.resolvePeriod(cmd, dateutil.Today())
	if err != nil {
		return err
	}
	logger.Debug("Period resolved", zap.String("period", dateutil.FormatPeriod(year, month)))

	out = os.Stdout
	if opts.teeOutput != "" {
		if err := os.MkdirAll(filepath.Dir(opts.teeOutput), 0o755); err != nil {
			return fmt.Errorf("failed to create tee path: %w", err)
		}
		f, err := os.OpenFile(opts.teeOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open tee-output file: %w", err)
		}
		defer f.Close()
		out = io.MultiWriter(os.Stdout, f)
	}
	defer func() {
		out = os.Stdout
	}()

	manager := payroll.NewManager(calendar.NewProvider(cfg.ProviderConfig(), logger), logger)

	result, err := manager.Calculate(cmd.Context(), payroll.Request{
		Year:  year,
		Month: month,
		Inputs: salary.Inputs{
			HourlyRate:         cfg.Salary.HourlyRate,
			TransportAllowance: cfg.Salary.TransportAllowance,
			AbsentDays:         cfg.Salary.AbsentDays,
		},
	})
	if err != nil {
		return err
	}

	details := report.DetailsFrom(result.MonthInfo, result.Resolution)
	switch cfg.Output.Format {
	case "json":
		text, err := report.FormatJSON(result.Breakdown, details)
		if err != nil {
			return err
		}
		printf("%s", text)
	default:
		printf("%s", report.Format(result.Breakdown, details))
	}

	if cfg.Output.NamedOutputsFile != "" {
		if err := appendOutputs(cfg.Output.NamedOutputsFile, result.Breakdown); err != nil {
			return err
		}
		logger.Debug("Named outputs written", zap.String("file", cfg.Output.NamedOutputsFile))
	}

	return nil
}

func appendOutputs(path string, b *salary.Breakdown) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open outputs file: %w", err)
	}
	defer f.Close()

	return report.WriteOutputs(f, b)
}
