package auth

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/jeongjhs/workon/internal/portal"
)

// DirectLogin authenticates on the intranet: a credential post against the
// portal, then a bridge of the portal-issued SSO ticket into the reservation
// application. The ticket is single-use; if the contents page does not carry
// it the run fails, there is nothing to retry.
type DirectLogin struct {
	Session   *portal.Client
	Creds     Credentials
	Endpoints Endpoints
	Log       zerolog.Logger
}

func (f *DirectLogin) Authenticate(ctx context.Context) error {
	f.Log.Info().Msg("accessing login page")
	if _, err := f.Session.Get(ctx, f.Endpoints.LoginURL); err != nil {
		return err
	}

	f.Log.Info().Msg("submitting credentials")
	if err := f.login(ctx); err != nil {
		return err
	}

	// The server finishes establishing the session only once the main frame
	// has been requested. Nothing is read from the response.
	f.Log.Info().Msg("accessing main page")
	if _, err := f.Session.Get(ctx, f.Endpoints.MainURL); err != nil {
		return err
	}

	f.Log.Info().Msg("retrieving SSO ticket")
	ticket, err := f.ssoTicket(ctx)
	if err != nil {
		return err
	}

	f.Log.Info().Msg("authenticating to reservation application")
	if err := f.ssoAuthenticate(ctx, ticket); err != nil {
		return err
	}

	f.Log.Info().Msg("authentication completed")
	return nil
}

func (f *DirectLogin) login(ctx context.Context) error {
	form := url.Values{}
	form.Set("txtID", f.Creds.Username)
	form.Set("txtPWD", f.Creds.Password)

	res, err := f.Session.PostFormNoRedirect(ctx, f.Endpoints.LoginURL, f.Endpoints.LoginURL, form)
	if err != nil {
		return err
	}
	if !statusOKOrRedirect(res.Status) {
		return &portal.AuthError{Step: "login", Status: res.Status}
	}
	return nil
}

// ssoTicket pulls the embedded cjworld_id out of the contents page. The page
// renders a form targeting the reservation application's SSO endpoint; the
// hidden field inside it is the one-time ticket.
func (f *DirectLogin) ssoTicket(ctx context.Context) (string, error) {
	res, err := f.Session.Get(ctx, f.Endpoints.ContentsURL)
	if err != nil {
		return "", err
	}
	return portal.ExtractFormField(res.Body, "contents page", f.Endpoints.SSOURL, "cjworld_id")
}

// ssoAuthenticate forwards the ticket. The server answers with redirects and
// cookies as side effects; beyond transport success there is nothing to
// validate.
func (f *DirectLogin) ssoAuthenticate(ctx context.Context, ticket string) error {
	form := url.Values{}
	form.Set("cjworld_id", ticket)
	_, err := f.Session.PostForm(ctx, f.Endpoints.SSOURL, f.Endpoints.ContentsURL, form)
	return err
}
