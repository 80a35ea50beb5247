package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/username/cesu-salary/internal/apperr"
	"github.com/username/cesu-salary/internal/calendar"
	"github.com/username/cesu-salary/internal/salary"
	"go.uber.org/zap"
)

type staticSource struct {
	set   *calendar.HolidaySet
	err   error
	calls int
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) Holidays(ctx context.Context, year int) (*calendar.HolidaySet, error) {
	s.calls++
	return s.set, s.err
}

func TestManager_Calculate_ScenarioA(t *testing.T) {
	logger := zap.NewNop()
	src := &staticSource{set: calendar.NewHolidaySet(2026, calendar.Date{Year: 2026, Month: time.June, Day: 10})}
	provider := calendar.NewProviderWithSources([]calendar.Source{src}, calendar.FallbackEmpty, logger)

	m := NewManager(provider, logger)
	res, err := m.Calculate(context.Background(), Request{
		Year:   2026,
		Month:  time.June,
		Inputs: salary.Inputs{HourlyRate: 12, TransportAllowance: 60},
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	if res.Breakdown.TotalHours != 36 {
		t.Errorf("TotalHours = %v, want 36", res.Breakdown.TotalHours)
	}
	if res.Breakdown.RoundedTotalSalary() != 535.20 {
		t.Errorf("RoundedTotalSalary() = %v, want 535.20", res.Breakdown.RoundedTotalSalary())
	}
	if res.Resolution.Source != "static" {
		t.Errorf("Source = %q, want static", res.Resolution.Source)
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
	if res.MonthInfo.HolidayCount() != 1 {
		t.Errorf("HolidayCount() = %d, want 1", res.MonthInfo.HolidayCount())
	}
}

func TestManager_Calculate_DegradesWithoutHolidays(t *testing.T) {
	logger := zap.NewNop()
	src := &staticSource{err: apperr.Unavailable("static", errors.New("offline"))}
	provider := calendar.NewProviderWithSources([]calendar.Source{src}, calendar.FallbackEmpty, logger)

	m := NewManager(provider, logger)
	res, err := m.Calculate(context.Background(), Request{
		Year:   2026,
		Month:  time.June,
		Inputs: salary.Inputs{HourlyRate: 12, TransportAllowance: 60},
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	if res.Breakdown.TotalHours != 35 {
		t.Errorf("TotalHours = %v, want 35", res.Breakdown.TotalHours)
	}
	if len(res.Resolution.Warnings) == 0 {
		t.Error("Warnings empty, want the unavailable source surfaced")
	}
}

func TestManager_Calculate_NoFallbackFails(t *testing.T) {
	logger := zap.NewNop()
	src := &staticSource{err: apperr.Unavailable("static", errors.New("offline"))}
	provider := calendar.NewProviderWithSources([]calendar.Source{src}, calendar.FallbackNone, logger)

	m := NewManager(provider, logger)
	_, err := m.Calculate(context.Background(), Request{
		Year:   2026,
		Month:  time.June,
		Inputs: salary.Inputs{HourlyRate: 12},
	})
	if !errors.Is(err, apperr.ErrHolidayResourceUnavailable) {
		t.Errorf("Calculate() error = %v, want ErrHolidayResourceUnavailable", err)
	}
}

func TestManager_Calculate_InvalidInputSkipsResolution(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name string
		req  Request
	}{
		{"Invalid month", Request{Year: 2026, Month: 13, Inputs: salary.Inputs{HourlyRate: 12}}},
		{"Negative absent days", Request{Year: 2026, Month: time.June, Inputs: salary.Inputs{HourlyRate: 12, AbsentDays: -2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &staticSource{set: calendar.NewHolidaySet(2026)}
			provider := calendar.NewProviderWithSources([]calendar.Source{src}, calendar.FallbackEmpty, logger)

			_, err := NewManager(provider, logger).Calculate(context.Background(), tt.req)
			if !errors.Is(err, apperr.ErrInvalidInput) {
				t.Errorf("Calculate() error = %v, want ErrInvalidInput", err)
			}
			if src.calls != 0 {
				t.Errorf("holiday source called %d times, want 0", src.calls)
			}
		})
	}
}
