package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParityPolicy(t *testing.T) {
	p := DefaultParityPolicy()

	even := p.Candidates(date(2026, time.August, 6))
	assert.Equal(t, []string{"004-001", "004-002"}, even)

	odd := p.Candidates(date(2026, time.August, 5))
	assert.Equal(t, []string{"004-002", "004-001"}, odd)
}

func TestParityPolicyIsPure(t *testing.T) {
	p := DefaultParityPolicy()
	d := date(2026, time.August, 6)
	assert.Equal(t, p.Candidates(d), p.Candidates(d))
}

func TestPriorityPolicyOrderIsDateIndependent(t *testing.T) {
	p := DefaultPriorityPolicy()
	want := []string{"004-001", "004-005", "004-002", "004-006", "004-003", "004-007", "004-004", "004-008"}

	assert.Equal(t, want, p.Candidates(date(2026, time.August, 5)))
	assert.Equal(t, want, p.Candidates(date(2027, time.February, 11)))
}

func TestPriorityPolicyCopiesItsList(t *testing.T) {
	p := PriorityPolicy{Seats: []string{"A", "B"}}
	got := p.Candidates(time.Now())
	got[0] = "mutated"
	assert.Equal(t, []string{"A", "B"}, p.Seats)
}
