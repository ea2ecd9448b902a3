package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEvaluate(t *testing.T) {
	cal := KoreanHolidays(2026)

	cases := []struct {
		name     string
		date     time.Time
		eligible bool
		reason   Reason
	}{
		// 2026-08-05 is a Wednesday with no holiday.
		{"plain wednesday", date(2026, time.August, 5), true, ReasonNone},
		{"thursday", date(2026, time.August, 6), true, ReasonNone},
		{"saturday", date(2026, time.August, 8), false, ReasonWeekday},
		{"sunday", date(2026, time.August, 9), false, ReasonWeekday},
		{"monday", date(2026, time.August, 10), false, ReasonWeekday},
		// 2026-10-09 is Hangeul Day and a Friday.
		{"holiday friday", date(2026, time.October, 9), false, ReasonHoliday},
		// 2026-06-04 is the first Thursday of June; 2026-06-06 (Memorial Day) is a Saturday.
		{"first friday", date(2026, time.June, 5), true, ReasonNone},
		{"second friday", date(2026, time.June, 12), false, ReasonWeekOfMonth},
		{"third friday", date(2026, time.June, 19), true, ReasonNone},
		{"fourth friday", date(2026, time.June, 26), false, ReasonWeekOfMonth},
		// July 2026 has five Fridays; the fifth is bookable.
		{"fifth friday", date(2026, time.July, 31), true, ReasonNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.date, cal)
			assert.Equal(t, tc.eligible, got.Eligible)
			assert.Equal(t, tc.reason, got.Reason)
		})
	}
}

func TestEvaluateWeekdayRuleWinsOverHoliday(t *testing.T) {
	cal := NewCalendar()
	// A Saturday that is also marked as a holiday: the weekday rule fires first.
	d := date(2026, time.August, 15) // Liberation Day, Saturday
	cal.Add(d, "Liberation Day")

	got := Evaluate(d, cal)
	assert.False(t, got.Eligible)
	assert.Equal(t, ReasonWeekday, got.Reason)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	cal := KoreanHolidays(2026)
	d := date(2026, time.June, 12)

	first := Evaluate(d, cal)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(d, cal))
	}
}

func TestKoreanHolidaysCoversFixedDates(t *testing.T) {
	cal := KoreanHolidays(2025, 2026)

	for _, d := range []time.Time{
		date(2025, time.January, 1),
		date(2025, time.March, 1),
		date(2026, time.May, 5),
		date(2026, time.December, 25),
	} {
		_, ok := cal.Holiday(d)
		assert.True(t, ok, "%s should be a holiday", d.Format("2006-01-02"))
	}

	_, ok := cal.Holiday(date(2026, time.August, 5))
	assert.False(t, ok)
}

func TestCalendarAdd(t *testing.T) {
	cal := NewCalendar()
	d := date(2026, time.September, 2)
	cal.Add(d, "office closure")

	name, ok := cal.Holiday(d)
	assert.True(t, ok)
	assert.Equal(t, "office closure", name)
}
