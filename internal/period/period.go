// Package period turns free-form period expressions into canonical date
// ranges on an April-start fiscal calendar.
package period

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Source records which grammar rule produced a Range.
type Source string

const (
	SourceRange    Source = "range"
	SourceQuarter  Source = "quarter"
	SourceMonth    Source = "month"
	SourceYear     Source = "year"
	SourceRelative Source = "relative"
	SourceDefault  Source = "default"
)

// Range is a resolved reporting period. Start <= End always holds.
type Range struct {
	Start       time.Time
	End         time.Time
	Description string
	IsRange     bool
	Source      Source
}

// Contains reports whether t falls inside the range (inclusive).
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Resolver resolves expressions against a configured default year, so that
// relative terms stay deterministic against fixed fixtures.
type Resolver struct {
	DefaultYear int
}

var (
	yearPattern    = regexp.MustCompile(`\b(\d{4})\b`)
	quarterPattern = regexp.MustCompile(`(?i)\bq\s*([1-4])\b|\bquarter\s+([1-4])\b`)
)

var months = []struct {
	name  string
	month time.Month
}{
	{"january", time.January}, {"february", time.February}, {"march", time.March},
	{"april", time.April}, {"may", time.May}, {"june", time.June},
	{"july", time.July}, {"august", time.August}, {"september", time.September},
	{"october", time.October}, {"november", time.November}, {"december", time.December},
}

// Resolve is total: any input yields a usable range. Resolution priority is
// explicit range, explicit quarter, month+year, bare year, relative keyword,
// then the default fiscal year.
func (r Resolver) Resolve(expr string) Range {
	lower := strings.ToLower(strings.TrimSpace(expr))
	years := findYears(lower)

	// explicit range: "2022 to 2024", "2022-2024"
	if (strings.Contains(lower, " to ") || strings.Contains(lower, "-")) && len(years) >= 2 {
		start, end := years[0], years[len(years)-1]
		if end < start {
			start, end = end, start
		}
		return Range{
			Start:       date(start, time.January, 1),
			End:         date(end, time.December, 31),
			Description: fmt.Sprintf("From %d to %d", start, end),
			IsRange:     true,
			Source:      SourceRange,
		}
	}

	if m := quarterPattern.FindStringSubmatch(lower); m != nil {
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		q, _ := strconv.Atoi(digits)
		year := r.defaultYear()
		if len(years) > 0 {
			year = years[0]
		}
		return QuarterRange(q, year)
	}

	for _, m := range months {
		if strings.Contains(lower, m.name) {
			year := r.defaultYear()
			if len(years) > 0 {
				year = years[0]
			}
			start := date(year, m.month, 1)
			return Range{
				Start:       start,
				End:         start.AddDate(0, 1, -1),
				Description: fmt.Sprintf("%s%s %d", strings.ToUpper(m.name[:1]), m.name[1:], year),
				Source:      SourceMonth,
			}
		}
	}

	if len(years) > 0 {
		return yearRange(years[0], SourceYear, fmt.Sprintf("Year %d", years[0]))
	}

	for _, term := range []string{"this year", "current year", "year to date", "ytd"} {
		if strings.Contains(lower, term) {
			y := r.defaultYear()
			return yearRange(y, SourceRelative, fmt.Sprintf("Year to Date %d", y))
		}
	}
	for _, term := range []string{"last year", "previous year"} {
		if strings.Contains(lower, term) {
			y := r.defaultYear() - 1
			return yearRange(y, SourceRelative, fmt.Sprintf("Previous Year %d", y))
		}
	}

	return r.Default()
}

// Default is the range unparseable input degrades to.
func (r Resolver) Default() Range {
	y := r.defaultYear()
	return yearRange(y, SourceDefault, fmt.Sprintf("Year %d (default)", y))
}

func (r Resolver) defaultYear() int {
	if r.DefaultYear > 0 {
		return r.DefaultYear
	}
	return 2024
}

// QuarterRange maps a fiscal quarter to its dates: the financial year starts
// in April, so Q4 runs January through March of the following calendar year.
func QuarterRange(q, year int) Range {
	var start, end time.Time
	switch q {
	case 1:
		start, end = date(year, time.April, 1), date(year, time.June, 30)
	case 2:
		start, end = date(year, time.July, 1), date(year, time.September, 30)
	case 3:
		start, end = date(year, time.October, 1), date(year, time.December, 31)
	default:
		q = 4
		start, end = date(year+1, time.January, 1), date(year+1, time.March, 31)
	}
	return Range{
		Start:       start,
		End:         end,
		Description: fmt.Sprintf("Q%d %d", q, year),
		IsRange:     true,
		Source:      SourceQuarter,
	}
}

// QuarterOfMonth maps a calendar month to its fiscal quarter and fiscal year.
// January through March belong to Q4 of the previous fiscal year.
func QuarterOfMonth(year int, month time.Month) (q, fiscalYear int) {
	switch {
	case month <= time.March:
		return 4, year - 1
	case month <= time.June:
		return 1, year
	case month <= time.September:
		return 2, year
	default:
		return 3, year
	}
}

// PrevQuarter steps one fiscal quarter back.
func PrevQuarter(q, year int) (int, int) {
	if q > 1 {
		return q - 1, year
	}
	return 4, year - 1
}

// ParseQuarter reads tokens like "Q3 2023" or "quarter 2 2024". A bare year
// is treated as that year's Q4, matching how annual requests are anchored.
func ParseQuarter(token string, defaultYear int) (q, year int, ok bool) {
	lower := strings.ToLower(strings.TrimSpace(token))
	years := findYears(lower)
	year = defaultYear
	if len(years) > 0 {
		year = years[0]
	}
	if m := quarterPattern.FindStringSubmatch(lower); m != nil {
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		q, _ = strconv.Atoi(digits)
		return q, year, true
	}
	if len(years) > 0 {
		return 4, year, true
	}
	return 0, 0, false
}

func yearRange(y int, src Source, desc string) Range {
	return Range{
		Start:       date(y, time.January, 1),
		End:         date(y, time.December, 31),
		Description: desc,
		Source:      src,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func findYears(s string) []int {
	var out []int
	for _, m := range yearPattern.FindAllStringSubmatch(s, -1) {
		if y, err := strconv.Atoi(m[1]); err == nil {
			out = append(out, y)
		}
	}
	return out
}
