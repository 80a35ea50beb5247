package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/username/cesu-salary/internal/calendar"
	"github.com/username/cesu-salary/internal/salary"
)

func scenario(t *testing.T, absent int) (*salary.Breakdown, Details) {
	t.Helper()

	holidays := calendar.NewHolidaySet(2026, calendar.Date{Year: 2026, Month: time.June, Day: 10})
	info, err := calendar.Analyze(2026, time.June, holidays)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	b, err := salary.Compute(info, salary.Inputs{HourlyRate: 12, TransportAllowance: 60, AbsentDays: absent})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	res := &calendar.Resolution{Holidays: holidays, Source: "file:test.ics"}
	return b, DetailsFrom(info, res)
}

func TestFormat_ScenarioA(t *testing.T) {
	b, d := scenario(t, 0)

	out := Format(b, d)

	for _, want := range []string{
		"SALARY CALCULATION FOR 06/2026",
		"Days in month: 30",
		"Public holidays: [10] (count: 1)",
		"Sundays: [7, 14, 21, 28] (count: 4)",
		"Thursdays: [4, 11, 18, 25] (count: 4)",
		"Holiday source: file:test.ics",
		"Thursday bonus (25% per Thursday, rounded up): +1",
		"Absent days: -0",
		"TOTAL HOURS: 36",
		"Base salary (36 hours × 12.00€): 432.00€",
		"With 10% bonus: 475.20€",
		"Transport allowance: +60.00€",
		"TOTAL SALARY: 535.20€",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q\n%s", want, out)
		}
	}

	if strings.Contains(out, "negative") {
		t.Errorf("Format() has a negative warning for positive hours\n%s", out)
	}
}

func TestFormat_ScenarioB_NegativeSurfaced(t *testing.T) {
	b, d := scenario(t, 40)

	out := Format(b, d)

	for _, want := range []string{
		"Absent days: -40",
		"TOTAL HOURS: -4",
		"total hours are negative",
		"Base salary (-4 hours × 12.00€): -48.00€",
		"TOTAL SALARY: 7.20€",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q\n%s", want, out)
		}
	}
}

func TestFormat_Warnings(t *testing.T) {
	b, d := scenario(t, 0)
	d.HolidayWarning = []string{"remote:http://example: status 500"}

	out := Format(b, d)
	if !strings.Contains(out, "Warning: remote:http://example: status 500") {
		t.Errorf("Format() does not surface the holiday warning\n%s", out)
	}
}

func TestFormatJSON(t *testing.T) {
	b, d := scenario(t, 0)

	out, err := FormatJSON(b, d)
	if err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("FormatJSON() is not valid JSON: %v", err)
	}

	if decoded["total_hours"] != 36.0 {
		t.Errorf("total_hours = %v, want 36", decoded["total_hours"])
	}
	if decoded["rounded_total_salary"] != 535.2 {
		t.Errorf("rounded_total_salary = %v, want 535.2", decoded["rounded_total_salary"])
	}
	if decoded["holiday_source"] != "file:test.ics" {
		t.Errorf("holiday_source = %v, want file:test.ics", decoded["holiday_source"])
	}
	if _, ok := decoded["warnings"]; ok {
		t.Error("warnings present although there are none")
	}
}

func TestFormat_HalfCentRoundsToEven(t *testing.T) {
	b := &salary.Breakdown{Year: 2026, Month: time.June, BonusRate: salary.BonusRate, TotalSalary: 60.125}

	out := Format(b, Details{})
	if !strings.Contains(out, "TOTAL SALARY: 60.12€") {
		t.Errorf("Format() missing half-even total, got:\n%s", out)
	}

	var buf bytes.Buffer
	if err := WriteOutputs(&buf, b); err != nil {
		t.Fatalf("WriteOutputs() error = %v", err)
	}
	if !strings.Contains(buf.String(), "total_salary=60.12\n") {
		t.Errorf("WriteOutputs() = %q, want total_salary=60.12", buf.String())
	}
}

func TestWriteOutputs(t *testing.T) {
	tests := []struct {
		name   string
		absent int
		want   string
	}{
		{"Scenario A", 0, "total_hours=36\ntotal_salary=535.20\n"},
		{"Scenario B", 40, "total_hours=-4\ntotal_salary=7.20\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := scenario(t, tt.absent)

			var buf bytes.Buffer
			if err := WriteOutputs(&buf, b); err != nil {
				t.Fatalf("WriteOutputs() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("WriteOutputs() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
