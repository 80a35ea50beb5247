// Package salary turns a month classification into CESU billable hours and pay.
//
// Hours: one per calendar day, one extra per Sunday and per public holiday, a
// quarter hour per Thursday rounded up to whole hours, minus one per absent day.
// Pay: hours times the net hourly rate, plus a 10% bonus, plus the transport
// allowance. Values are kept at full float64 precision; rounding to cents is a
// presentation concern.
package salary

import (
	"math"
	"strconv"
	"time"

	"github.com/username/cesu-salary/internal/apperr"
	"github.com/username/cesu-salary/internal/calendar"
)

const (
	// BonusRate is added on top of the base salary
	BonusRate = 0.10
	// ThursdayRate is the extra fraction of an hour earned per Thursday
	ThursdayRate = 0.25
)

// Inputs holds the employer-supplied figures of a month
type Inputs struct {
	HourlyRate         float64
	TransportAllowance float64
	AbsentDays         int
}

// Validate checks that no figure is negative or non-finite
func (in Inputs) Validate() error {
	if math.IsNaN(in.HourlyRate) || math.IsInf(in.HourlyRate, 0) || in.HourlyRate < 0 {
		return apperr.InvalidInput("hourly rate must be a non-negative number, got %v", in.HourlyRate)
	}
	if math.IsNaN(in.TransportAllowance) || math.IsInf(in.TransportAllowance, 0) || in.TransportAllowance < 0 {
		return apperr.InvalidInput("transport allowance must be a non-negative number, got %v", in.TransportAllowance)
	}
	if in.AbsentDays < 0 {
		return apperr.InvalidInput("absent days cannot be negative, got %d", in.AbsentDays)
	}
	return nil
}

// Breakdown is the full result of a monthly calculation
type Breakdown struct {
	Year               int        `json:"year"`
	Month              time.Month `json:"month"`
	DaysInMonth        int        `json:"days_in_month"`
	SundayCount        int        `json:"sunday_count"`
	HolidayCount       int        `json:"holiday_count"`
	ThursdayCount      int        `json:"thursday_count"`
	BaseHours          float64    `json:"base_hours"`
	SundayBonusHours   float64    `json:"sunday_bonus_hours"`
	HolidayBonusHours  float64    `json:"holiday_bonus_hours"`
	ThursdayBonusHours float64    `json:"thursday_bonus_hours"`
	AbsentDays         int        `json:"absent_days"`
	TotalHours         float64    `json:"total_hours"`
	HourlyRate         float64    `json:"hourly_rate"`
	BaseSalary         float64    `json:"base_salary"`
	BonusRate          float64    `json:"bonus_rate"`
	SalaryWithBonus    float64    `json:"salary_with_bonus"`
	TransportAllowance float64    `json:"transport_allowance"`
	TotalSalary        float64    `json:"total_salary"`
}

// Negative reports whether absences exceed the billable hours
func (b *Breakdown) Negative() bool {
	return b.TotalHours < 0
}

// RoundedTotalSalary returns the total salary rounded to cents, see RoundCents
func (b *Breakdown) RoundedTotalSalary() float64 {
	return RoundCents(b.TotalSalary)
}

// RoundCents rounds a currency amount to 2 decimals the way "%.2f" prints it:
// the exact binary value is rounded, ties go to the even cent (60.125 -> 60.12).
func RoundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}

// ThursdayBonus returns the extra hours earned for n Thursdays
func ThursdayBonus(n int) float64 {
	return math.Ceil(float64(n) * ThursdayRate)
}

// Compute applies the CESU formula to a classified month.
// Negative total hours are returned as is.
func Compute(info *calendar.MonthInfo, in Inputs) (*Breakdown, error) {
	if info == nil {
		return nil, apperr.InvalidInput("month classification is missing")
	}
	if info.Month < time.January || info.Month > time.December || info.DaysInMonth <= 0 {
		return nil, apperr.InvalidInput("month classification %d-%02d is not valid", info.Year, int(info.Month))
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	baseHours := float64(info.DaysInMonth)
	sundayBonus := float64(info.SundayCount())
	holidayBonus := float64(info.HolidayCount())
	thursdayBonus := ThursdayBonus(info.ThursdayCount())

	totalHours := baseHours
	totalHours += sundayBonus
	totalHours += holidayBonus
	totalHours += thursdayBonus
	totalHours -= float64(in.AbsentDays)

	baseSalary := totalHours * in.HourlyRate
	withBonus := baseSalary * (1 + BonusRate)
	totalSalary := withBonus + in.TransportAllowance

	for _, v := range []float64{totalHours, baseSalary, withBonus, totalSalary} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &apperr.ComputationError{
				Year:               info.Year,
				Month:              int(info.Month),
				HourlyRate:         in.HourlyRate,
				TransportAllowance: in.TransportAllowance,
				AbsentDays:         in.AbsentDays,
				Reason:             "result is not a finite number",
			}
		}
	}

	return &Breakdown{
		Year:               info.Year,
		Month:              info.Month,
		DaysInMonth:        info.DaysInMonth,
		SundayCount:        info.SundayCount(),
		HolidayCount:       info.HolidayCount(),
		ThursdayCount:      info.ThursdayCount(),
		BaseHours:          baseHours,
		SundayBonusHours:   sundayBonus,
		HolidayBonusHours:  holidayBonus,
		ThursdayBonusHours: thursdayBonus,
		AbsentDays:         in.AbsentDays,
		TotalHours:         totalHours,
		HourlyRate:         in.HourlyRate,
		BaseSalary:         baseSalary,
		BonusRate:          BonusRate,
		SalaryWithBonus:    withBonus,
		TransportAllowance: in.TransportAllowance,
		TotalSalary:        totalSalary,
	}, nil
}
