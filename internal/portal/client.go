// Package portal is a minimal session client for the legacy ASP.NET portal.
// It carries cookies across requests the way a browser would and exposes the
// three request shapes the portal understands: plain GETs, URL-encoded form
// POSTs, and JSON POSTs against the webservice endpoints.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Response is the portion of an HTTP response the flows care about.
type Response struct {
	Status int
	Body   []byte
}

// Client issues requests on behalf of one portal session. A session's cookie
// state is owned by exactly one flow at a time; Client is not safe for
// concurrent use and is not meant to be.
type Client struct {
	hc         *http.Client
	noRedirect *http.Client
}

func NewClient(timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil)
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		hc: &http.Client{Jar: jar, Timeout: timeout},
		noRedirect: &http.Client{
			Jar:     jar,
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Get fetches a page, following redirects.
func (c *Client) Get(ctx context.Context, rawURL string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Response{}, &TransportError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", browserUA)
	return c.do(c.hc, req)
}

// PostForm submits a URL-encoded form, following redirects. The portal
// rejects posts without a browser UA and a Referer, so both are always set.
func (c *Client) PostForm(ctx context.Context, rawURL, referer string, form url.Values) (Response, error) {
	return c.postForm(ctx, c.hc, rawURL, referer, form)
}

// PostFormNoRedirect submits a form but does not follow a redirect response.
// The login endpoint answers a successful credential post with a 302 whose
// target we never need; the Set-Cookie headers are the point.
func (c *Client) PostFormNoRedirect(ctx context.Context, rawURL, referer string, form url.Values) (Response, error) {
	return c.postForm(ctx, c.noRedirect, rawURL, referer, form)
}

func (c *Client) postForm(ctx context.Context, hc *http.Client, rawURL, referer string, form url.Values) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Response{}, &TransportError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	return c.do(hc, req)
}

// PostJSON submits a JSON payload to a webservice endpoint. The legacy
// webservice only answers requests marked as XMLHttpRequest.
func (c *Client) PostJSON(ctx context.Context, rawURL string, payload any) (Response, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Response{}, &TransportError{URL: rawURL, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(b))
	if err != nil {
		return Response{}, &TransportError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	return c.do(c.hc, req)
}

func (c *Client) do(hc *http.Client, req *http.Request) (Response, error) {
	res, err := hc.Do(req)
	if err != nil {
		return Response{}, &TransportError{URL: req.URL.String(), Err: err}
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Response{}, &TransportError{URL: req.URL.String(), Err: err}
	}
	return Response{Status: res.StatusCode, Body: body}, nil
}
