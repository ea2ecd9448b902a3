// Package booking decides whether a date is bookable under the office's
// seat policy and drives the reservation attempts against the webservice.
package booking

import (
	"fmt"
	"time"
)

// Reason explains a skip decision.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonWeekday     Reason = "weekday"
	ReasonHoliday     Reason = "holiday"
	ReasonWeekOfMonth Reason = "week-of-month"
)

// Decision is the outcome of evaluating one candidate date. Pure data.
type Decision struct {
	Eligible bool
	Reason   Reason
	Detail   string
}

// Evaluate applies the booking rules to a date: office days are Wednesday
// through Friday, public holidays are closed, and on the 2nd and 4th Friday
// of a month the office is closed as well. Rules run in order and the first
// failing one names the skip reason. Pure function of (date, calendar).
func Evaluate(date time.Time, cal Calendar) Decision {
	wd := date.Weekday()
	if wd != time.Wednesday && wd != time.Thursday && wd != time.Friday {
		return Decision{Reason: ReasonWeekday, Detail: wd.String()}
	}

	if name, ok := cal.Holiday(date); ok {
		return Decision{Reason: ReasonHoliday, Detail: name}
	}

	if wd == time.Friday {
		weekOfMonth := (date.Day()-1)/7 + 1
		if weekOfMonth == 2 || weekOfMonth == 4 {
			return Decision{Reason: ReasonWeekOfMonth, Detail: fmt.Sprintf("Friday #%d of the month", weekOfMonth)}
		}
	}

	return Decision{Eligible: true}
}
