// Package auth drives the portal's multi-step login handshakes. Two variants
// exist: DirectLogin rides the intranet SSO bridge, OutOfBandLogin completes
// the external-network email verification. Both leave the shared portal
// session authenticated; they share nothing else but the state-token
// chaining discipline in the portal package.
package auth

import (
	"context"
	"time"
)

// Credentials is the portal login identity, loaded once at startup.
type Credentials struct {
	Username string
	Password string
}

// Flow authenticates the portal session it was constructed with. A Flow runs
// once; any failure aborts the whole handshake and the session is unusable.
type Flow interface {
	Authenticate(ctx context.Context) error
}

// CodeWaiter blocks until a verification code newer than notBefore arrives,
// or the waiter's deadline expires.
type CodeWaiter interface {
	WaitForCode(ctx context.Context, notBefore time.Time) (string, error)
}

// Endpoints are the portal pages each variant walks through. Defaults match
// the production portal; tests point them at local fakes.
type Endpoints struct {
	// Direct variant.
	LoginURL    string
	MainURL     string
	ContentsURL string
	SSOURL      string

	// OutOfBand variant.
	MailCertURL  string
	CodeIssueURL string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		LoginURL:    "https://cj.cj.net/PT/login.aspx?sLang=KOR",
		MainURL:     "https://cj.cj.net/PT/PortalBuilder/main_frame.aspx",
		ContentsURL: "https://cj.cj.net/NPT/PortalBuilder/Framework/contents_system.aspx?SYSTEM_ID=SY7c88ddea-815f-42d6-90c6-064663262c6a&CONTENTS_ID=EPCT1639&CONTROL_MODE=FULL",
		SSOURL:      "https://reserve.cjenm.com/sso.fo",

		MailCertURL:  "https://cj.cj.net/PT/Anonymity/Account/mail_certification_main.aspx?sLang=KOR",
		CodeIssueURL: "https://cj.cj.net/PT/Anonymity/Account/sms_certification_issue.aspx?itype=mail&sLang=KOR",
	}
}

func statusOKOrRedirect(status int) bool {
	return status == 200 || (status >= 300 && status < 400)
}
