// Package schedule implements recurrence rules and the occurrence generator.
//
// An occurrence is a calendar period for which completion is tracked. Periods
// are derived on demand from a rule and a bounded display window; they are
// never persisted on their own.
package schedule

import (
	"fmt"
	"time"
)

// Pattern identifies how often a rule recurs.
type Pattern string

const (
	PatternDaily      Pattern = "daily"
	PatternWeekly     Pattern = "weekly"
	PatternMonthly    Pattern = "monthly"
	PatternQuarterly  Pattern = "quarterly"
	PatternHalfYearly Pattern = "half_yearly"
	PatternYearly     Pattern = "yearly"
)

// Granularity is the calendar resolution of a pattern's periods.
type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityMonth
)

// Valid reports whether the pattern is one of the known values.
func (p Pattern) Valid() bool {
	switch p {
	case PatternDaily, PatternWeekly, PatternMonthly, PatternQuarterly, PatternHalfYearly, PatternYearly:
		return true
	}
	return false
}

// Granularity returns the period resolution for the pattern.
func (p Pattern) Granularity() Granularity {
	switch p {
	case PatternDaily, PatternWeekly:
		return GranularityDay
	default:
		return GranularityMonth
	}
}

// dayStep returns the step in days for day-granularity patterns, 0 otherwise.
func (p Pattern) dayStep() int {
	switch p {
	case PatternDaily:
		return 1
	case PatternWeekly:
		return 7
	}
	return 0
}

// monthStep returns the step in calendar months for month-granularity
// patterns, 0 otherwise.
func (p Pattern) monthStep() int {
	switch p {
	case PatternMonthly:
		return 1
	case PatternQuarterly:
		return 3
	case PatternHalfYearly:
		return 6
	case PatternYearly:
		return 12
	}
	return 0
}

// Rule describes a recurrence: pattern, activation date, optional end date.
type Rule struct {
	Pattern Pattern    `json:"pattern"`
	Start   time.Time  `json:"start"`
	End     *time.Time `json:"end,omitempty"`
	Paused  bool       `json:"paused"`
}

// Validate checks the rule at creation/edit time. End before start is
// rejected here, not at generation time.
func (r Rule) Validate() error {
	if !r.Pattern.Valid() {
		return fmt.Errorf("%w: unknown pattern %q", ErrInvalidRule, r.Pattern)
	}
	if r.Start.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidRule)
	}
	if r.End != nil && r.End.Before(r.Start) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidRule)
	}
	return nil
}

// Period is one tracked occurrence. Day is zero for month-granularity
// periods. The zero Period is not a valid period.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day,omitempty"`
}

// Key renders the period in its stable, sortable form: "2026-01" for month
// granularity, "2026-01-15" for day granularity. Lexicographic order of keys
// equals chronological order.
func (p Period) Key() string {
	if p.Day == 0 {
		return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
	}
	return fmt.Sprintf("%04d-%02d-%02d", p.Year, int(p.Month), p.Day)
}

// ParsePeriodKey parses a key produced by Period.Key.
func ParsePeriodKey(key string) (Period, error) {
	var p Period
	switch len(key) {
	case 7:
		var month int
		if _, err := fmt.Sscanf(key, "%4d-%2d", &p.Year, &month); err != nil {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, key)
		}
		if month < 1 || month > 12 {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, key)
		}
		p.Month = time.Month(month)
	case 10:
		t, err := time.Parse("2006-01-02", key)
		if err != nil {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, key)
		}
		p.Year, p.Month, p.Day = t.Year(), t.Month(), t.Day()
	default:
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, key)
	}
	if p.Key() != key {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, key)
	}
	return p, nil
}

// Compare orders two periods chronologically: -1, 0, or 1.
func (p Period) Compare(o Period) int {
	a := [3]int{p.Year, int(p.Month), p.Day}
	b := [3]int{o.Year, int(o.Month), o.Day}
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// After reports whether p is strictly after o.
func (p Period) After(o Period) bool { return p.Compare(o) > 0 }

// PeriodOf returns the period containing t at the given granularity.
func PeriodOf(t time.Time, g Granularity) Period {
	p := Period{Year: t.Year(), Month: t.Month()}
	if g == GranularityDay {
		p.Day = t.Day()
	}
	return p
}

// IsFuture reports whether the period lies strictly after the period
// containing now. Future periods are neither complete nor incomplete and are
// excluded from rate denominators and edit affordances.
func (p Period) IsFuture(now time.Time) bool {
	g := GranularityMonth
	if p.Day != 0 {
		g = GranularityDay
	}
	return p.After(PeriodOf(now, g))
}
