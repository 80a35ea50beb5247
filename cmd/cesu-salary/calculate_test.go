package main

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/cesu-salary/internal/apperr"
	"github.com/username/cesu-salary/internal/config"
)

func TestCalculateOptions_ApplyOnlyChangedFlags(t *testing.T) {
	opts := &calculateOptions{}
	cmd := &cobra.Command{Use: "calculate"}
	bindCalculateFlags(cmd, opts)
	if err := cmd.Flags().Set("rate", "15.5"); err != nil {
		t.Fatalf("Set(rate) error = %v", err)
	}
	if err := cmd.Flags().Set("fallback", "builtin"); err != nil {
		t.Fatalf("Set(fallback) error = %v", err)
	}

	cfg := &config.Config{
		Salary:   config.SalaryConfig{HourlyRate: 12, TransportAllowance: 80, AbsentDays: 1},
		Holidays: config.HolidaysConfig{LocalFile: "mine.ics", Fallback: "empty"},
	}

	opts.apply(cmd, cfg)

	if cfg.Salary.HourlyRate != 15.5 {
		t.Errorf("HourlyRate = %v, want 15.5", cfg.Salary.HourlyRate)
	}
	if cfg.Salary.TransportAllowance != 80 {
		t.Errorf("TransportAllowance = %v, want config value 80", cfg.Salary.TransportAllowance)
	}
	if cfg.Salary.AbsentDays != 1 {
		t.Errorf("AbsentDays = %d, want config value 1", cfg.Salary.AbsentDays)
	}
	if cfg.Holidays.LocalFile != "mine.ics" {
		t.Errorf("LocalFile = %q, want config value", cfg.Holidays.LocalFile)
	}
	if cfg.Holidays.Fallback != "builtin" {
		t.Errorf("Fallback = %q, want builtin", cfg.Holidays.Fallback)
	}
}

func TestCalculateOptions_ResolvePeriod(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		flags     map[string]string
		wantYear  int
		wantMonth time.Month
		wantErr   bool
	}{
		{"Defaults to now", nil, 2026, time.October, false},
		{"Month and year", map[string]string{"month": "6", "year": "2026"}, 2026, time.June, false},
		{"Period", map[string]string{"period": "2025-02"}, 2025, time.February, false},
		{"Period with month", map[string]string{"period": "2025-02", "month": "3"}, 0, 0, true},
		{"Bad month", map[string]string{"month": "13"}, 0, 0, true},
		{"Bad period", map[string]string{"period": "feb"}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &calculateOptions{}
			cmd := &cobra.Command{Use: "calculate"}
			bindCalculateFlags(cmd, opts)

			for k, v := range tt.flags {
				if err := cmd.Flags().Set(k, v); err != nil {
					t.Fatalf("Set(%s) error = %v", k, err)
				}
			}

			year, month, err := opts.resolvePeriod(cmd, now)
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrInvalidInput) {
					t.Errorf("resolvePeriod() error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolvePeriod() error = %v", err)
			}
			if year != tt.wantYear || month != tt.wantMonth {
				t.Errorf("resolvePeriod() = (%d, %v), want (%d, %v)", year, month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}
