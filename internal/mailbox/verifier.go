package mailbox

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"
)

// The certification mail spells the code as "... Certification Number: 482913".
// Exactly six digits after the colon; fullwidth colons appear in some
// localizations.
var codePattern = regexp.MustCompile(`Certification Number\s*[:：]\s*(\d{6})`)

// ExtractCode returns the 6-digit verification code embedded in a mail body.
func ExtractCode(body string) (string, bool) {
	m := codePattern.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// TimeoutError means no acceptable code arrived before the deadline.
type TimeoutError struct {
	Waited time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("mailbox: no verification code within %s", e.Waited)
}

// Searcher is the mailbox query the verifier polls. *Client implements it;
// tests substitute fakes.
type Searcher interface {
	Search(ctx context.Context, from, subject string) ([]Message, error)
}

// Verifier polls the mailbox until a code newer than the request instant
// shows up. Search errors do not abort the loop: mail delivery is the slow,
// flaky part of the flow and a failed poll just means trying again.
type Verifier struct {
	Mailbox Searcher
	From    string
	Subject string

	PollInterval time.Duration
	Deadline     time.Duration

	Log zerolog.Logger
}

const (
	defaultPollInterval = 5 * time.Second
	defaultDeadline     = 60 * time.Second
)

// WaitForCode returns the first code found in a message received strictly
// after notBefore. Messages at or before the bound are ignored even when
// their body matches: a stale code from an earlier run must never satisfy
// this one. The wait is cancellable through ctx.
func (v *Verifier) WaitForCode(ctx context.Context, notBefore time.Time) (string, error) {
	interval := v.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	deadline := v.Deadline
	if deadline <= 0 {
		deadline = defaultDeadline
	}

	start := time.Now()
	timer := time.NewTimer(0) // first poll immediately
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}

		if code, ok := v.poll(ctx, notBefore); ok {
			v.Log.Info().Str("code", code).Msg("found verification code")
			return code, nil
		}

		elapsed := time.Since(start)
		if elapsed+interval > deadline {
			return "", &TimeoutError{Waited: deadline}
		}
		v.Log.Debug().Dur("elapsed", elapsed).Msg("verification code not yet delivered")
		timer.Reset(interval)
	}
}

func (v *Verifier) poll(ctx context.Context, notBefore time.Time) (string, bool) {
	msgs, err := v.Mailbox.Search(ctx, v.From, v.Subject)
	if err != nil {
		v.Log.Warn().Err(err).Msg("mailbox poll failed")
		return "", false
	}
	// msgs arrive newest first; the first fresh match wins.
	for _, m := range msgs {
		if !m.ReceivedAt.After(notBefore) {
			continue
		}
		if code, ok := ExtractCode(m.Body); ok {
			return code, true
		}
	}
	return "", false
}
