package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeongjhs/workon/internal/portal"
)

// The webservice stores seat ids in a fixed-width CHAR(36) column and
// matches them byte-for-byte, trailing spaces included.
const seatIDWidth = 36

// PadSeatID right-pads a seat id with spaces to the legacy 36-character
// width. Ids already at full width pass through unchanged.
func PadSeatID(id string) string {
	if len(id) >= seatIDWidth {
		return id
	}
	return id + strings.Repeat(" ", seatIDWidth-len(id))
}

// AttemptResult is the tri-state outcome of one booking attempt.
type AttemptResult int

const (
	// Booked: the server confirmed the reservation.
	Booked AttemptResult = iota
	// Rejected: the server answered and said no (seat taken, rule violation).
	Rejected
	// TransportFailed: the request never got a usable answer.
	TransportFailed
)

func (r AttemptResult) String() string {
	switch r {
	case Booked:
		return "booked"
	case Rejected:
		return "rejected"
	case TransportFailed:
		return "transport-failed"
	default:
		return "unknown"
	}
}

// Attempt records one candidate's outcome.
type Attempt struct {
	SeatID      string
	Result      AttemptResult
	Status      int
	RawResponse string
	Err         error
}

// Outcome aggregates a whole attempt loop.
type Outcome struct {
	Booked   bool
	SeatID   string
	Attempts []Attempt
}

// ExhaustedError means every candidate failed. It carries the per-seat
// outcomes for reporting; a later scheduled run may retry the whole flow.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	seats := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		seats[i] = fmt.Sprintf("%s=%s", strings.TrimSpace(a.SeatID), a.Result)
	}
	return "booking: all candidates failed: " + strings.Join(seats, ", ")
}

// Request is the booking payload minus the seat: who books, which day,
// which time window, and the contact number the form requires.
type Request struct {
	EmailAlias string
	Date       time.Time
	StartTime  string
	EndTime    string
	Cel1       string
	Cel2       string
	Cel3       string
}

// Attempter issues booking attempts over an authenticated session, one
// candidate at a time, stopping at the first success. Attempts are strictly
// sequential; a candidate must fail before the next is tried.
type Attempter struct {
	Session       *portal.Client
	ReserveURL    string
	BaseOfficeURL string
	Log           zerolog.Logger
}

func DefaultAttempter(session *portal.Client, log zerolog.Logger) *Attempter {
	return &Attempter{
		Session:       session,
		ReserveURL:    "https://cj.cj.net/CONF/Common/WebService/WSBaseOffice.asmx/setSeatReserve",
		BaseOfficeURL: "https://cj.cj.net/conf/autonomousseat/user/baseoffice.aspx",
		Log:           log,
	}
}

type reservePayload struct {
	EmailAlias string `json:"email_alias"`
	ReserveID  string `json:"reserveID"`
	SeatID     string `json:"seatID"`
	Day        string `json:"r_day"`
	Start      string `json:"r_st"`
	End        string `json:"r_et"`
	Cel1       string `json:"cel1"`
	Cel2       string `json:"cel2"`
	Cel3       string `json:"cel3"`
	ToShare    string `json:"toShare"`
	Type       string `json:"type"`
}

// Reserve primes the base-office page and then runs the candidate loop.
// Per-candidate failures (rejections and transport errors alike) are
// absorbed and the loop moves on; only exhaustion of the whole list is an
// error.
func (a *Attempter) Reserve(ctx context.Context, req Request, candidates []string) (Outcome, error) {
	a.Log.Info().Msg("accessing base office page")
	if _, err := a.Session.Get(ctx, a.BaseOfficeURL); err != nil {
		return Outcome{}, err
	}

	var out Outcome
	for i, seat := range candidates {
		a.Log.Info().Str("seat", seat).Msgf("attempting reservation (%d/%d)", i+1, len(candidates))
		att := a.tryReserve(ctx, req, seat)
		out.Attempts = append(out.Attempts, att)

		switch att.Result {
		case Booked:
			a.Log.Info().Str("seat", seat).Msg("seat reserved")
			out.Booked = true
			out.SeatID = seat
			return out, nil
		case Rejected:
			a.Log.Info().Str("seat", seat).Int("status", att.Status).Msg("seat not available")
		case TransportFailed:
			a.Log.Warn().Str("seat", seat).Err(att.Err).Msg("reservation request failed")
		}
	}
	return out, &ExhaustedError{Attempts: out.Attempts}
}

func (a *Attempter) tryReserve(ctx context.Context, req Request, seatID string) Attempt {
	payload := reservePayload{
		EmailAlias: req.EmailAlias,
		SeatID:     PadSeatID(seatID),
		Day:        req.Date.Format("2006-01-02"),
		Start:      req.StartTime,
		End:        req.EndTime,
		Cel1:       req.Cel1,
		Cel2:       req.Cel2,
		Cel3:       req.Cel3,
		Type:       "C",
	}

	res, err := a.Session.PostJSON(ctx, a.ReserveURL, payload)
	if err != nil {
		return Attempt{SeatID: payload.SeatID, Result: TransportFailed, Err: err}
	}

	att := Attempt{SeatID: payload.SeatID, Status: res.Status, RawResponse: string(res.Body)}
	if res.Status != 200 {
		att.Result = Rejected
		return att
	}

	var body struct {
		D string `json:"d"`
	}
	if err := json.Unmarshal(res.Body, &body); err != nil {
		// Legacy compatibility: the service occasionally answers with a
		// non-JSON success page. Kept bug-for-bug, literal "Y" included.
		text := string(res.Body)
		if strings.Contains(strings.ToLower(text), "success") || strings.Contains(text, "Y") {
			att.Result = Booked
		} else {
			att.Result = Rejected
		}
		return att
	}
	if body.D == "Y" {
		att.Result = Booked
	} else {
		att.Result = Rejected
	}
	return att
}
