package calendar

import (
	"context"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/fr"
	"go.uber.org/zap"
)

// BuiltinSource computes the French national holidays without any resource,
// Easter-based ones included
type BuiltinSource struct {
	holidays []*cal.Holiday
	logger   *zap.Logger
}

// NewBuiltinSource creates a BuiltinSource over the French public holiday definitions
func NewBuiltinSource(logger *zap.Logger) *BuiltinSource {
	return &BuiltinSource{
		holidays: fr.Holidays,
		logger:   logger,
	}
}

// Name returns the source label used in reports
func (bs *BuiltinSource) Name() string {
	return "builtin:fr"
}

// Holidays returns the actual (not observed) date of every holiday in year
func (bs *BuiltinSource) Holidays(ctx context.Context, year int) (*HolidaySet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set := NewHolidaySet(year)
	for _, h := range bs.holidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		set.add(Date{Year: actual.Year(), Month: actual.Month(), Day: actual.Day()})
	}

	bs.logger.Debug("Builtin holidays computed",
		zap.Int("year", year),
		zap.Int("holidays", set.Len()))

	return set, nil
}
