package auth

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeongjhs/workon/internal/portal"
)

// OutOfBandLogin authenticates from outside the intranet: credentials go to
// the mail-certification page, the portal mails a 6-digit code to the user's
// external alias, and the code is posted back to complete the login. Every
// post must echo the server's current state-token set; the set is replaced
// whenever a response embeds a fresh one.
type OutOfBandLogin struct {
	Session   *portal.Client
	Creds     Credentials
	Endpoints Endpoints
	Verifier  CodeWaiter

	// MailAlias is the external address the portal delivers the code to,
	// e.g. user@mnetplus.world. PhoneHint is the registered SMS number the
	// code-issue form expects to see even for mail delivery.
	MailAlias string
	PhoneHint string

	Log zerolog.Logger

	tokens portal.TokenSet
	now    func() time.Time
}

func (f *OutOfBandLogin) Authenticate(ctx context.Context) error {
	if f.now == nil {
		f.now = time.Now
	}

	f.Log.Info().Msg("initializing session")
	if err := f.initSession(ctx); err != nil {
		return err
	}

	f.Log.Info().Msg("submitting credentials")
	if err := f.submitCredentials(ctx); err != nil {
		return err
	}

	// The not-before bound for mail filtering is taken immediately before
	// the code request goes out, so a code from a previous run can never
	// satisfy this one.
	requestedAt := f.now()

	f.Log.Info().Msg("requesting verification code")
	if err := f.requestCode(ctx); err != nil {
		return err
	}

	f.Log.Info().Msg("waiting for verification code")
	code, err := f.Verifier.WaitForCode(ctx, requestedAt)
	if err != nil {
		return err
	}

	f.Log.Info().Msg("submitting verification code")
	if err := f.submitCode(ctx, code); err != nil {
		return err
	}

	f.Log.Info().Msg("authentication completed")
	return nil
}

func (f *OutOfBandLogin) initSession(ctx context.Context) error {
	res, err := f.Session.Get(ctx, f.Endpoints.MailCertURL)
	if err != nil {
		return err
	}
	ts, err := portal.ExtractTokenSet(res.Body, "mail certification page")
	if err != nil {
		return err
	}
	f.tokens = ts
	return nil
}

func (f *OutOfBandLogin) submitCredentials(ctx context.Context) error {
	form := url.Values{}
	f.tokens.Apply(form)
	form.Set("hid_chk_flag", "N")
	form.Set("txtEmailAlias", f.Creds.Username)
	form.Set("txtPWD", f.Creds.Password)
	form.Set("__EVENTTARGET", "tbtnConfirm")
	form.Set("__EVENTARGUMENT", "")

	res, err := f.Session.PostForm(ctx, f.Endpoints.MailCertURL, f.Endpoints.MailCertURL, form)
	if err != nil {
		return err
	}
	if !statusOKOrRedirect(res.Status) {
		return &portal.AuthError{Step: "credential submission", Status: res.Status}
	}
	f.tokens = f.tokens.Refresh(res.Body)
	return nil
}

func (f *OutOfBandLogin) requestCode(ctx context.Context) error {
	form := f.certForm()
	form.Set("bHighScreen", "")
	form.Set("__EVENTTARGET", "MailtbtnSubmit2")

	res, err := f.Session.PostForm(ctx, f.Endpoints.CodeIssueURL, f.Endpoints.MailCertURL, form)
	if err != nil {
		return err
	}
	if res.Status != 200 {
		return &portal.AuthError{Step: "code request", Status: res.Status}
	}
	f.tokens = f.tokens.Refresh(res.Body)
	return nil
}

func (f *OutOfBandLogin) submitCode(ctx context.Context, code string) error {
	form := f.certForm()
	form.Set("MailtxtAnswer", code)
	form.Set("bHighScreen", "1")
	form.Set("__EVENTTARGET", "MailtbtnSubmit")

	res, err := f.Session.PostForm(ctx, f.Endpoints.CodeIssueURL, f.Endpoints.CodeIssueURL, form)
	if err != nil {
		return err
	}
	if res.Status != 200 {
		return &portal.AuthError{Step: "code submission", Status: res.Status}
	}
	// The server signals business-level acceptance only through subsequent
	// page state, not this response. HTTP status is all we can check here.
	f.Log.Debug().Int("response_bytes", len(res.Body)).Msg("code accepted at transport level")
	return nil
}

// certForm is the fixed routing envelope both certification posts share:
// current token set, delivery hints, and the user check fields.
func (f *OutOfBandLogin) certForm() url.Values {
	form := url.Values{}
	f.tokens.Apply(form)
	form.Set("txtAnswer", "")
	form.Set("MailtxtAnswer", "")
	form.Set("mcjw_txtAnswer", "")
	form.Set("hid_email_alias", f.Creds.Username)
	form.Set("hid_user_chk", f.Creds.Password)
	form.Set("hid_chk_flag", "N")
	form.Set("hid_typechk", "1")
	form.Set("hid_mcjwuser", "0")
	form.Set("hid_smstext", f.PhoneHint)
	form.Set("hid_mailtext", f.MailAlias)
	form.Set("hid_smschk", "1")
	form.Set("hid_mailchk", "1")
	form.Set("__EVENTARGUMENT", "")
	return form
}
