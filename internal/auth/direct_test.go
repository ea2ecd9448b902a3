package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeongjhs/workon/internal/portal"
)

func testEndpoints(base string) Endpoints {
	return Endpoints{
		LoginURL:     base + "/login",
		MainURL:      base + "/main",
		ContentsURL:  base + "/contents",
		SSOURL:       base + "/sso",
		MailCertURL:  base + "/cert",
		CodeIssueURL: base + "/issue",
	}
}

func TestDirectLoginHappyPath(t *testing.T) {
	var steps []string
	var ssoTicket string

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	eps := testEndpoints(srv.URL)

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			steps = append(steps, "login-get")
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1"})
			return
		}
		steps = append(steps, "login-post")
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.FormValue("txtID"))
		assert.Equal(t, "secret", r.FormValue("txtPWD"))
		http.Redirect(w, r, "/main", http.StatusFound)
	})
	mux.HandleFunc("/main", func(w http.ResponseWriter, r *http.Request) {
		steps = append(steps, "main")
	})
	mux.HandleFunc("/contents", func(w http.ResponseWriter, r *http.Request) {
		steps = append(steps, "contents")
		fmt.Fprintf(w, `<html><body><form action="%s"><input type="hidden" name="cjworld_id" value="TICKET-42" /></form></body></html>`, eps.SSOURL)
	})
	mux.HandleFunc("/sso", func(w http.ResponseWriter, r *http.Request) {
		steps = append(steps, "sso")
		require.NoError(t, r.ParseForm())
		ssoTicket = r.FormValue("cjworld_id")
	})

	f := &DirectLogin{
		Session:   portal.NewClient(2 * time.Second),
		Creds:     Credentials{Username: "alice", Password: "secret"},
		Endpoints: eps,
		Log:       zerolog.Nop(),
	}
	require.NoError(t, f.Authenticate(context.Background()))

	assert.Equal(t, []string{"login-get", "login-post", "main", "contents", "sso"}, steps)
	assert.Equal(t, "TICKET-42", ssoTicket)
}

func TestDirectLoginBadStatusIsAuthError(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusForbidden)
		}
	})

	f := &DirectLogin{
		Session:   portal.NewClient(2 * time.Second),
		Creds:     Credentials{Username: "alice", Password: "wrong"},
		Endpoints: testEndpoints(srv.URL),
		Log:       zerolog.Nop(),
	}
	err := f.Authenticate(context.Background())

	var aerr *portal.AuthError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "login", aerr.Step)
	assert.Equal(t, http.StatusForbidden, aerr.Status)
}

func TestDirectLoginMissingTicketIsProtocolError(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/main", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/contents", func(w http.ResponseWriter, r *http.Request) {
		// Page renders, but the SSO form is gone.
		fmt.Fprint(w, `<html><body><p>maintenance</p></body></html>`)
	})
	mux.HandleFunc("/sso", func(w http.ResponseWriter, r *http.Request) {
		t.Error("SSO endpoint must not be called without a ticket")
	})

	f := &DirectLogin{
		Session:   portal.NewClient(2 * time.Second),
		Creds:     Credentials{Username: "alice", Password: "secret"},
		Endpoints: testEndpoints(srv.URL),
		Log:       zerolog.Nop(),
	}
	err := f.Authenticate(context.Background())

	var perr *portal.ProtocolError
	require.ErrorAs(t, err, &perr)
}
