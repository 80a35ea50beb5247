package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/username/cesu-salary/internal/calendar"
	"github.com/username/cesu-salary/internal/salary"
)

const ruler = "══════════════════════════════════════════"

// Details carries the calendar lists and holiday provenance shown next to the figures
type Details struct {
	Sundays        []int
	Thursdays      []int
	Holidays       []int
	HolidaySource  string
	HolidayWarning []string
}

// DetailsFrom extracts the report details from a month classification
func DetailsFrom(info *calendar.MonthInfo, res *calendar.Resolution) Details {
	d := Details{}
	if info != nil {
		d.Sundays = info.Sundays
		d.Thursdays = info.Thursdays
		d.Holidays = info.Holidays
	}
	if res != nil {
		d.HolidaySource = res.Source
		d.HolidayWarning = res.Warnings
	}
	return d
}

// Format renders the breakdown as a human readable report
func Format(b *salary.Breakdown, d Details) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n=== SALARY CALCULATION FOR %02d/%d ===\n", int(b.Month), b.Year)
	fmt.Fprintf(&sb, "Days in month: %d\n", b.DaysInMonth)
	fmt.Fprintf(&sb, "Public holidays: %s (count: %d)\n", dayList(d.Holidays), b.HolidayCount)
	fmt.Fprintf(&sb, "Sundays: %s (count: %d)\n", dayList(d.Sundays), b.SundayCount)
	fmt.Fprintf(&sb, "Thursdays: %s (count: %d)\n", dayList(d.Thursdays), b.ThursdayCount)
	if d.HolidaySource != "" {
		fmt.Fprintf(&sb, "Holiday source: %s\n", d.HolidaySource)
	}
	for _, w := range d.HolidayWarning {
		fmt.Fprintf(&sb, "Warning: %s\n", w)
	}

	sb.WriteString("\n=== HOURS BREAKDOWN ===\n")
	fmt.Fprintf(&sb, "Base hours (1 per day): %s\n", hours(b.BaseHours))
	fmt.Fprintf(&sb, "Sunday bonus (+1 per Sunday): +%s\n", hours(b.SundayBonusHours))
	fmt.Fprintf(&sb, "Holiday bonus (+1 per holiday): +%s\n", hours(b.HolidayBonusHours))
	fmt.Fprintf(&sb, "Thursday bonus (25%% per Thursday, rounded up): +%s\n", hours(b.ThursdayBonusHours))
	fmt.Fprintf(&sb, "Absent days: -%d\n", b.AbsentDays)
	fmt.Fprintf(&sb, "TOTAL HOURS: %s\n", hours(b.TotalHours))
	if b.Negative() {
		sb.WriteString("Warning: absences exceed billable hours, total hours are negative\n")
	}

	sb.WriteString("\n=== SALARY BREAKDOWN ===\n")
	fmt.Fprintf(&sb, "Base salary (%s hours × %s): %s\n", hours(b.TotalHours), euros(b.HourlyRate), euros(b.BaseSalary))
	fmt.Fprintf(&sb, "With %.0f%% bonus: %s\n", b.BonusRate*100, euros(b.SalaryWithBonus))
	fmt.Fprintf(&sb, "Transport allowance: +%s\n", euros(b.TransportAllowance))

	sb.WriteString("\n" + ruler + "\n")
	fmt.Fprintf(&sb, "TOTAL SALARY: %s\n", euros(b.TotalSalary))
	sb.WriteString(ruler + "\n")

	return sb.String()
}

type jsonReport struct {
	*salary.Breakdown
	Sundays            []int    `json:"sundays"`
	Thursdays          []int    `json:"thursdays"`
	Holidays           []int    `json:"holidays"`
	HolidaySource      string   `json:"holiday_source,omitempty"`
	Warnings           []string `json:"warnings,omitempty"`
	RoundedTotalSalary float64  `json:"rounded_total_salary"`
}

// FormatJSON renders the breakdown and details as indented JSON
func FormatJSON(b *salary.Breakdown, d Details) (string, error) {
	data, err := json.MarshalIndent(jsonReport{
		Breakdown:          b,
		Sundays:            nonNil(d.Sundays),
		Thursdays:          nonNil(d.Thursdays),
		Holidays:           nonNil(d.Holidays),
		HolidaySource:      d.HolidaySource,
		Warnings:           d.HolidayWarning,
		RoundedTotalSalary: b.RoundedTotalSalary(),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data) + "\n", nil
}

// WriteOutputs writes total_hours and total_salary as key=value lines
func WriteOutputs(w io.Writer, b *salary.Breakdown) error {
	_, err := fmt.Fprintf(w, "total_hours=%s\ntotal_salary=%.2f\n",
		hours(b.TotalHours), b.RoundedTotalSalary())
	if err != nil {
		return fmt.Errorf("failed to write outputs: %w", err)
	}
	return nil
}

func hours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func euros(v float64) string {
	return fmt.Sprintf("%.2f€", salary.RoundCents(v))
}

func dayList(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func nonNil(days []int) []int {
	if days == nil {
		return []int{}
	}
	return days
}
