package schedule

import "time"

// Window bounds occurrence generation. The window is a presentation concern:
// a bounded number of years forward from now, so a rule without an end date
// never implies unbounded generation.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowUntil returns a window from the rule's activation up to horizonYears
// past now.
func WindowUntil(start, now time.Time, horizonYears int) Window {
	return Window{Start: start, End: now.AddDate(horizonYears, 0, 0)}
}

// Occurrences generates the ordered sequence of periods for a rule within a
// window. The sequence is anchored at the rule's start date: weekly steps 7
// days from the start, quarterly every 3rd calendar month from the start
// month, and so on. Output is restricted to
// [max(rule.Start, window.Start), min(rule.End ?? window.End, window.End)],
// comparing on the anchored occurrence date.
//
// The function is pure: the same inputs always regenerate the identical
// sequence.
func Occurrences(rule Rule, window Window) []Period {
	if !rule.Pattern.Valid() || rule.Start.IsZero() {
		return nil
	}

	end := dateOnly(window.End)
	if rule.End != nil {
		if ruleEnd := dateOnly(*rule.End); ruleEnd.Before(end) {
			end = ruleEnd
		}
	}
	start := dateOnly(rule.Start)
	lower := dateOnly(window.Start)
	if start.After(lower) {
		lower = start
	}
	if end.Before(lower) {
		return nil
	}

	if step := rule.Pattern.dayStep(); step > 0 {
		return dayOccurrences(start, lower, end, step)
	}
	return monthOccurrences(start, lower, end, rule.Pattern.monthStep())
}

func dayOccurrences(start, lower, end time.Time, step int) []Period {
	// Jump directly to the first occurrence at or after lower.
	cur := start
	if days := int(lower.Sub(start).Hours() / 24); days > 0 {
		cur = start.AddDate(0, 0, (days/step)*step)
		for cur.Before(lower) {
			cur = cur.AddDate(0, 0, step)
		}
	}

	var periods []Period
	for !cur.After(end) {
		periods = append(periods, PeriodOf(cur, GranularityDay))
		cur = cur.AddDate(0, 0, step)
	}
	return periods
}

func monthOccurrences(start, lower, end time.Time, step int) []Period {
	// Month arithmetic runs on a flat month index so that stepping from a
	// day-31 anchor never skips a short month.
	anchorIdx := start.Year()*12 + int(start.Month()) - 1
	anchorDay := start.Day()

	var periods []Period
	for idx := anchorIdx; ; idx += step {
		year, month := idx/12, time.Month(idx%12+1)
		day := anchorDay
		if last := daysIn(year, month); day > last {
			day = last
		}
		occ := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if occ.After(end) {
			return periods
		}
		if occ.Before(lower) {
			continue
		}
		periods = append(periods, Period{Year: year, Month: month})
	}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
