package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/username/cesu-salary/internal/calendar"
	"github.com/username/cesu-salary/internal/salary"
	"go.uber.org/zap"
)

// HolidayResolver supplies the holidays of a year
type HolidayResolver interface {
	Resolve(ctx context.Context, year int) (*calendar.Resolution, error)
}

// Request describes one monthly calculation
type Request struct {
	Year   int
	Month  time.Month
	Inputs salary.Inputs
}

// Result holds everything produced by a calculation run
type Result struct {
	RunID      string
	Breakdown  *salary.Breakdown
	MonthInfo  *calendar.MonthInfo
	Resolution *calendar.Resolution
}

// Manager runs the holiday resolution, calendar analysis and salary formula
type Manager struct {
	holidays HolidayResolver
	logger   *zap.Logger
}

// NewManager creates a new payroll manager
func NewManager(holidays HolidayResolver, logger *zap.Logger) *Manager {
	return &Manager{
		holidays: holidays,
		logger:   logger,
	}
}

// Calculate computes the salary of the requested month.
// Input errors are checked before any holiday resource is touched.
func (m *Manager) Calculate(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.NewString()
	logger := m.logger.With(zap.String("run_id", runID))

	logger.Info("Starting salary calculation",
		zap.Int("year", req.Year),
		zap.Int("month", int(req.Month)),
		zap.Float64("hourly_rate", req.Inputs.HourlyRate),
		zap.Float64("transport_allowance", req.Inputs.TransportAllowance),
		zap.Int("absent_days", req.Inputs.AbsentDays))

	if err := req.Inputs.Validate(); err != nil {
		return nil, err
	}
	// Validates the period without holidays so a bad month fails fast
	if _, err := calendar.Analyze(req.Year, req.Month, nil); err != nil {
		return nil, err
	}

	resolution, err := m.holidays.Resolve(ctx, req.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve holidays: %w", err)
	}

	info, err := calendar.Analyze(req.Year, req.Month, resolution.Holidays)
	if err != nil {
		return nil, err
	}

	logger.Debug("Month analyzed",
		zap.Int("days", info.DaysInMonth),
		zap.Ints("sundays", info.Sundays),
		zap.Ints("thursdays", info.Thursdays),
		zap.Ints("holidays", info.Holidays),
		zap.String("holiday_source", resolution.Source))

	breakdown, err := salary.Compute(info, req.Inputs)
	if err != nil {
		return nil, err
	}

	if breakdown.Negative() {
		logger.Warn("Absent days exceed billable hours, total is negative",
			zap.Float64("total_hours", breakdown.TotalHours),
			zap.Int("absent_days", breakdown.AbsentDays))
	}

	logger.Info("Salary calculated",
		zap.Float64("total_hours", breakdown.TotalHours),
		zap.Float64("total_salary", breakdown.RoundedTotalSalary()))

	return &Result{
		RunID:      runID,
		Breakdown:  breakdown,
		MonthInfo:  info,
		Resolution: resolution,
	}, nil
}
