package booking

import "time"

// CandidatePolicy produces the ordered seat ids to attempt for a date.
// Policies must be pure functions of the date.
type CandidatePolicy interface {
	Candidates(date time.Time) []string
}

// ParityPolicy alternates between a seat pair by day-of-month parity: even
// days lead with EvenFirst, odd days with OddFirst, the other seat as
// fallback.
type ParityPolicy struct {
	EvenFirst string
	OddFirst  string
}

func (p ParityPolicy) Candidates(date time.Time) []string {
	if date.Day()%2 == 0 {
		return []string{p.EvenFirst, p.OddFirst}
	}
	return []string{p.OddFirst, p.EvenFirst}
}

// PriorityPolicy tries a fixed list in the same order regardless of date.
type PriorityPolicy struct {
	Seats []string
}

func (p PriorityPolicy) Candidates(time.Time) []string {
	out := make([]string, len(p.Seats))
	copy(out, p.Seats)
	return out
}

func DefaultParityPolicy() ParityPolicy {
	return ParityPolicy{EvenFirst: "004-001", OddFirst: "004-002"}
}

func DefaultPriorityPolicy() PriorityPolicy {
	return PriorityPolicy{Seats: []string{
		"004-001", "004-005", "004-002", "004-006",
		"004-003", "004-007", "004-004", "004-008",
	}}
}
