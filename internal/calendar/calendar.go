package calendar

import (
	"strconv"
	"strings"
	"time"

	"labor-odds/internal/errors"
)

const isoLayout = "2006-01-02"

// Normalize truncates t to midnight UTC of its calendar day.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a normalized calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	a, b = Normalize(a), Normalize(b)
	return int(b.Sub(a).Round(time.Hour).Hours() / 24)
}

// AddDays shifts d by n calendar days.
func AddDays(d time.Time, n int) time.Time {
	return Normalize(d).AddDate(0, 0, n)
}

func Format(d time.Time) string {
	return d.Format(isoLayout)
}

// GenerateDates returns every date from start to end inclusive.
// A start after end yields an empty slice.
func GenerateDates(start, end time.Time) []time.Time {
	start, end = Normalize(start), Normalize(end)
	if start.After(end) {
		return []time.Time{}
	}

	dates := make([]time.Time, 0, DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// ParseISO parses "YYYY-MM-DD" without going through layout parsing.
func ParseISO(s string) (time.Time, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return time.Time{}, errors.Newf("date %q is not YYYY-MM-DD", s)
	}
	y, err1 := strconv.Atoi(s[0:4])
	m, err2 := strconv.Atoi(s[5:7])
	d, err3 := strconv.Atoi(s[8:10])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, errors.Newf("date %q is not YYYY-MM-DD", s)
	}
	return validDate(y, m, d, s)
}

// ParseMonthDay parses "mm/dd" (leading zeros optional) and assigns a year from
// the season: January belongs to seasonStartYear+1, every other month to
// seasonStartYear.
func ParseMonthDay(s string, seasonStartYear int) (time.Time, error) {
	s = strings.TrimSpace(s)
	month, day, ok := strings.Cut(s, "/")
	if !ok {
		return time.Time{}, errors.Newf("date %q is not mm/dd", s)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "date %q: month", s)
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "date %q: day", s)
	}

	year := seasonStartYear
	if time.Month(m) == time.January {
		year++
	}
	return validDate(year, m, d, s)
}

func validDate(y, m, d int, raw string) (time.Time, error) {
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, errors.Newf("date %q out of range", raw)
	}
	t := Date(y, time.Month(m), d)
	// time.Date normalizes overflow (02/30 -> 03/02), which we reject
	if t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, errors.Newf("date %q does not exist in %d", raw, y)
	}
	return t, nil
}
