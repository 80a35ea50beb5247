package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/username/cesu-salary/internal/apperr"
	"github.com/username/cesu-salary/internal/calendar"
	"github.com/username/cesu-salary/internal/config"
	"github.com/username/cesu-salary/pkg/dateutil"
	"go.uber.org/zap"
)

func holidaysCmd() *cobra.Command {
	var year int
	var refresh bool
	var icsFile, icsURL, fallback string

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List the public holidays of a year",
		Long:  "List the public holidays of a year as resolved from the local file, the remote feed or the builtin definitions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyHolidayFlags(cmd, cfg, icsFile, icsURL, fallback)
			if err := cfg.Validate(); err != nil {
				return apperr.InvalidInput("%v", err)
			}

			y, _, err := dateutil.ResolvePeriod(year, 0, dateutil.Today())
			if err != nil {
				return apperr.InvalidInput("%v", err)
			}

			provider := calendar.NewProvider(cfg.ProviderConfig(), logger)

			if refresh {
				logger.Info("Refreshing holidays feed",
					zap.String("url", cfg.Holidays.RemoteURL),
					zap.String("file", cfg.Holidays.LocalFile))
				if err := provider.Refresh(cmd.Context()); err != nil {
					return fmt.Errorf("refresh failed: %w", err)
				}
				printf("Holidays feed saved to %s\n", cfg.Holidays.LocalFile)
			}

			res, err := provider.Resolve(cmd.Context(), y)
			if err != nil {
				return err
			}

			printf("\n=== PUBLIC HOLIDAYS %d ===\n", y)
			printf("Source: %s\n", res.Source)
			for _, w := range res.Warnings {
				printf("Warning: %s\n", w)
			}
			for _, d := range res.Holidays.Dates() {
				printf("  %s  %s\n", d, d.Weekday())
			}
			printf("Total: %d\n", res.Holidays.Len())

			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year (0 for the current year)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Download the remote feed into the local file first")
	bindHolidayFlags(cmd, &icsFile, &icsURL, &fallback)

	return cmd
}
