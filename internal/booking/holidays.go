package booking

import "time"

// Calendar is a set of public holidays keyed by local date. Eligibility
// evaluation treats it as read-only input.
type Calendar struct {
	dates map[string]string
}

const dateKey = "2006-01-02"

func NewCalendar() Calendar {
	return Calendar{dates: map[string]string{}}
}

// Add marks a date as a holiday. Used for config-supplied extra closures on
// top of the built-in table.
func (c Calendar) Add(date time.Time, name string) {
	c.dates[date.Format(dateKey)] = name
}

// Holiday reports whether the date (in its own location) is a holiday.
func (c Calendar) Holiday(date time.Time) (string, bool) {
	name, ok := c.dates[date.Format(dateKey)]
	return name, ok
}

// KoreanHolidays builds the KR public-holiday calendar for the given years:
// the fixed-date holidays by rule, the lunar ones (Seollal, Buddha's
// Birthday, Chuseok) and substitute days from a hand-maintained table.
// Extend lunarTable when the covered years run out.
func KoreanHolidays(years ...int) Calendar {
	cal := NewCalendar()
	for _, y := range years {
		for _, f := range fixedHolidays {
			cal.Add(time.Date(y, f.month, f.day, 0, 0, 0, 0, time.UTC), f.name)
		}
		for _, l := range lunarTable {
			if l.year == y {
				cal.Add(time.Date(l.year, l.month, l.day, 0, 0, 0, 0, time.UTC), l.name)
			}
		}
	}
	return cal
}

var fixedHolidays = []struct {
	month time.Month
	day   int
	name  string
}{
	{time.January, 1, "New Year's Day"},
	{time.March, 1, "Independence Movement Day"},
	{time.May, 5, "Children's Day"},
	{time.June, 6, "Memorial Day"},
	{time.August, 15, "Liberation Day"},
	{time.October, 3, "National Foundation Day"},
	{time.October, 9, "Hangeul Day"},
	{time.December, 25, "Christmas Day"},
}

var lunarTable = []struct {
	year  int
	month time.Month
	day   int
	name  string
}{
	{2024, time.February, 9, "Seollal"},
	{2024, time.February, 10, "Seollal"},
	{2024, time.February, 11, "Seollal"},
	{2024, time.February, 12, "Seollal (substitute)"},
	{2024, time.May, 6, "Children's Day (substitute)"},
	{2024, time.May, 15, "Buddha's Birthday"},
	{2024, time.September, 16, "Chuseok"},
	{2024, time.September, 17, "Chuseok"},
	{2024, time.September, 18, "Chuseok"},

	{2025, time.January, 28, "Seollal"},
	{2025, time.January, 29, "Seollal"},
	{2025, time.January, 30, "Seollal"},
	{2025, time.March, 3, "Independence Movement Day (substitute)"},
	{2025, time.May, 6, "Buddha's Birthday (substitute)"},
	{2025, time.October, 5, "Chuseok"},
	{2025, time.October, 6, "Chuseok"},
	{2025, time.October, 7, "Chuseok"},
	{2025, time.October, 8, "Chuseok (substitute)"},

	{2026, time.February, 16, "Seollal"},
	{2026, time.February, 17, "Seollal"},
	{2026, time.February, 18, "Seollal"},
	{2026, time.March, 2, "Independence Movement Day (substitute)"},
	{2026, time.May, 25, "Buddha's Birthday (substitute)"},
	{2026, time.August, 17, "Liberation Day (substitute)"},
	{2026, time.September, 24, "Chuseok"},
	{2026, time.September, 25, "Chuseok"},
	{2026, time.September, 26, "Chuseok"},

	{2027, time.February, 6, "Seollal"},
	{2027, time.February, 7, "Seollal"},
	{2027, time.February, 8, "Seollal"},
	{2027, time.February, 9, "Seollal (substitute)"},
	{2027, time.May, 13, "Buddha's Birthday"},
	{2027, time.August, 16, "Liberation Day (substitute)"},
	{2027, time.September, 14, "Chuseok"},
	{2027, time.September, 15, "Chuseok"},
	{2027, time.September, 16, "Chuseok"},
	{2027, time.October, 4, "National Foundation Day (substitute)"},
}
