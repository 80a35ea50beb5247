package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/username/cesu-salary/internal/apperr"
)

// DayType represents how a day is classified by weekday
type DayType int

const (
	DayTypeOrdinary DayType = iota + 1
	DayTypeSunday
	DayTypeThursday
)

func (t DayType) String() string {
	switch t {
	case DayTypeSunday:
		return "sunday"
	case DayTypeThursday:
		return "thursday"
	default:
		return "ordinary"
	}
}

// Date is a civil calendar date without time or zone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Valid reports whether the day exists in the Gregorian calendar
func (d Date) Valid() bool {
	if d.Year < 1 || d.Month < time.January || d.Month > time.December {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysInMonth(d.Year, d.Month)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Weekday returns the day of week of the date
func (d Date) Weekday() time.Weekday {
	return Weekday(d.Year, d.Month, d.Day)
}

// HolidaySet is the set of public holidays of one calendar year.
// It is read-only once built.
type HolidaySet struct {
	year  int
	dates map[Date]struct{}
}

// NewHolidaySet builds a set for year from dates, dropping those of other years
func NewHolidaySet(year int, dates ...Date) *HolidaySet {
	hs := &HolidaySet{
		year:  year,
		dates: make(map[Date]struct{}, len(dates)),
	}
	for _, d := range dates {
		hs.add(d)
	}
	return hs
}

func (hs *HolidaySet) add(d Date) {
	if d.Year != hs.year || !d.Valid() {
		return
	}
	hs.dates[d] = struct{}{}
}

// Year returns the year the set is scoped to
func (hs *HolidaySet) Year() int {
	if hs == nil {
		return 0
	}
	return hs.year
}

// Len returns the number of distinct holidays
func (hs *HolidaySet) Len() int {
	if hs == nil {
		return 0
	}
	return len(hs.dates)
}

// Contains checks if the date is a listed holiday
func (hs *HolidaySet) Contains(d Date) bool {
	if hs == nil {
		return false
	}
	_, ok := hs.dates[d]
	return ok
}

// Dates returns the holidays sorted chronologically
func (hs *HolidaySet) Dates() []Date {
	if hs == nil {
		return nil
	}
	out := make([]Date, 0, len(hs.dates))
	for d := range hs.dates {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Day < out[j].Day
	})
	return out
}

// InMonth returns the ascending day numbers of holidays falling in month
func (hs *HolidaySet) InMonth(month time.Month) []int {
	days := []int{}
	for _, d := range hs.Dates() {
		if d.Month == month {
			days = append(days, d.Day)
		}
	}
	return days
}

// DayInfo represents the classification of a single day
type DayInfo struct {
	Day     int
	Weekday time.Weekday
	Type    DayType
	Holiday bool
}

// MonthInfo represents the day classification of a month
type MonthInfo struct {
	Year        int
	Month       time.Month
	DaysInMonth int
	Sundays     []int
	Thursdays   []int
	Holidays    []int
	Days        []DayInfo
}

// SundayCount returns the number of Sundays in the month
func (m *MonthInfo) SundayCount() int { return len(m.Sundays) }

// ThursdayCount returns the number of Thursdays in the month
func (m *MonthInfo) ThursdayCount() int { return len(m.Thursdays) }

// HolidayCount returns the number of public holidays in the month
func (m *MonthInfo) HolidayCount() int { return len(m.Holidays) }

// Analyze classifies every day of the month.
// A Sunday that is also a holiday is listed in both Sundays and Holidays.
func Analyze(year int, month time.Month, holidays *HolidaySet) (*MonthInfo, error) {
	if month < time.January || month > time.December {
		return nil, apperr.InvalidInput("month must be between 1 and 12, got %d", int(month))
	}
	if year < 1 {
		return nil, apperr.InvalidInput("year must be positive, got %d", year)
	}

	daysInMonth := DaysInMonth(year, month)
	info := &MonthInfo{
		Year:        year,
		Month:       month,
		DaysInMonth: daysInMonth,
		Sundays:     []int{},
		Thursdays:   []int{},
		Holidays:    []int{},
		Days:        make([]DayInfo, 0, daysInMonth),
	}

	for day := 1; day <= daysInMonth; day++ {
		weekday := Weekday(year, month, day)

		dayType := DayTypeOrdinary
		switch weekday {
		case time.Sunday:
			dayType = DayTypeSunday
			info.Sundays = append(info.Sundays, day)
		case time.Thursday:
			dayType = DayTypeThursday
			info.Thursdays = append(info.Thursdays, day)
		}

		isHoliday := holidays.Contains(Date{Year: year, Month: month, Day: day})
		if isHoliday {
			info.Holidays = append(info.Holidays, day)
		}

		info.Days = append(info.Days, DayInfo{
			Day:     day,
			Weekday: weekday,
			Type:    dayType,
			Holiday: isHoliday,
		})
	}

	return info, nil
}

// IsLeapYear reports whether year is a Gregorian leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns 28, 29, 30 or 31 for a valid month, 0 otherwise
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// month offsets for Sakamoto's method
var weekdayOffsets = [12]int{0, 3, 2, 5, 0, 3, 5, 1, 4, 6, 2, 4}

// Weekday computes the day of week with Sakamoto's congruence (proleptic Gregorian).
// Out of range months and days are normalized the way time.Date does,
// so month 13 is January of the next year and day 0 the last day of the previous month.
func Weekday(year int, month time.Month, day int) time.Weekday {
	m := int(month) - 1
	carry := floorDiv(m, 12)
	year += carry
	m -= carry * 12

	y := year
	if m < 2 {
		y--
	}
	w := (y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) + weekdayOffsets[m] + day) % 7
	if w < 0 {
		w += 7
	}
	return time.Weekday(w)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
