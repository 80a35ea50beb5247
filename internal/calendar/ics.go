package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/username/cesu-salary/internal/apperr"
)

// ParseHolidays extracts the all-day event start dates of year from an iCalendar feed.
// Broken events are skipped.
func ParseHolidays(text string, year int) *HolidaySet {
	set, _ := ParseHolidaysDetailed(text, year)
	return set
}

// ParseHolidaysDetailed works like ParseHolidays and also returns one error per
// skipped event, each wrapping apperr.ErrHolidayResourceMalformed
func ParseHolidaysDetailed(text string, year int) (*HolidaySet, []error) {
	set := NewHolidaySet(year)
	var skipped []error

	inEvent := false
	eventLine := 0
	var start string

	for _, l := range unfoldLines(text) {
		name, value, ok := splitProperty(l.text)
		if !ok {
			continue
		}

		switch {
		case name == "BEGIN" && strings.EqualFold(value, "VEVENT"):
			if inEvent {
				skipped = append(skipped, malformed(eventLine, "event not closed before next BEGIN:VEVENT"))
			}
			inEvent = true
			eventLine = l.number
			start = ""

		case name == "END" && strings.EqualFold(value, "VEVENT"):
			if !inEvent {
				continue
			}
			inEvent = false

			date, err := parseEventDate(start)
			if err != nil {
				skipped = append(skipped, malformed(eventLine, "DTSTART: %v", err))
				continue
			}
			// DTEND is not read: a multi-day span contributes its start date only.
			if date.Year == year {
				set.add(date)
			}

		case inEvent && name == "DTSTART":
			start = value
		}
	}

	if inEvent {
		skipped = append(skipped, malformed(eventLine, "event not closed before end of document"))
	}

	return set, skipped
}

type icsLine struct {
	number int
	text   string
}

// unfoldLines joins RFC 5545 continuation lines onto the line they continue
func unfoldLines(text string) []icsLine {
	var lines []icsLine

	// Lines have no length limit: the whole feed is already in memory.
	for i, raw := range strings.Split(text, "\n") {
		number := i + 1
		raw = strings.TrimRight(raw, "\r")
		if raw == "" {
			continue
		}
		if (raw[0] == ' ' || raw[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1].text += raw[1:]
			continue
		}
		lines = append(lines, icsLine{number: number, text: raw})
	}

	return lines
}

// splitProperty splits "NAME;PARAM=X:value" into upper-cased NAME and value
func splitProperty(line string) (string, string, bool) {
	colon := strings.IndexByte(line, ':')
	if colon <= 0 {
		return "", "", false
	}

	name := line[:colon]
	if semi := strings.IndexByte(name, ';'); semi >= 0 {
		name = name[:semi]
	}

	return strings.ToUpper(strings.TrimSpace(name)), strings.TrimSpace(line[colon+1:]), true
}

// parseEventDate reads the YYYYMMDD prefix of a DTSTART/DTEND value.
// A time part such as "T000000Z" is ignored.
func parseEventDate(value string) (Date, error) {
	if value == "" {
		return Date{}, fmt.Errorf("missing")
	}
	if len(value) < 8 {
		return Date{}, fmt.Errorf("value %q is shorter than YYYYMMDD", value)
	}
	if len(value) > 8 && value[8] != 'T' && value[8] != 't' {
		return Date{}, fmt.Errorf("value %q has unexpected suffix", value)
	}

	digits := value[:8]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Date{}, fmt.Errorf("value %q is not YYYYMMDD", value)
		}
	}

	y, _ := strconv.Atoi(digits[0:4])
	m, _ := strconv.Atoi(digits[4:6])
	d, _ := strconv.Atoi(digits[6:8])

	date := Date{Year: y, Month: time.Month(m), Day: d}
	if !date.Valid() {
		return Date{}, fmt.Errorf("%s is not a calendar date", digits)
	}

	return date, nil
}

func malformed(line int, format string, args ...interface{}) error {
	return fmt.Errorf("%w: event at line %d: %s",
		apperr.ErrHolidayResourceMalformed, line, fmt.Sprintf(format, args...))
}
