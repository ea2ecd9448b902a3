package portal

import (
	"bytes"
	"net/url"

	"golang.org/x/net/html"
)

// ASP.NET hidden state fields. The server embeds a fresh set in every page it
// renders and rejects any form post that does not echo the current set back.
const (
	fieldViewState          = "__VIEWSTATE"
	fieldViewStateGenerator = "__VIEWSTATEGENERATOR"
	fieldEventValidation    = "__EVENTVALIDATION"
)

// TokenSet is one server-issued set of anti-forgery state fields. The set
// sent with request N+1 must be exactly the set extracted from the response
// to request N; callers replace the whole value, never individual fields.
type TokenSet struct {
	ViewState          string
	ViewStateGenerator string
	EventValidation    string
}

// ExtractTokenSet parses the three hidden state fields out of a rendered
// page. A page without all three is a ProtocolError: the flow cannot
// continue without a complete set.
func ExtractTokenSet(body []byte, page string) (TokenSet, error) {
	inputs := hiddenInputs(body)
	ts := TokenSet{
		ViewState:          inputs[fieldViewState],
		ViewStateGenerator: inputs[fieldViewStateGenerator],
		EventValidation:    inputs[fieldEventValidation],
	}
	switch {
	case ts.ViewState == "":
		return TokenSet{}, &ProtocolError{Page: page, Missing: fieldViewState}
	case ts.ViewStateGenerator == "":
		return TokenSet{}, &ProtocolError{Page: page, Missing: fieldViewStateGenerator}
	case ts.EventValidation == "":
		return TokenSet{}, &ProtocolError{Page: page, Missing: fieldEventValidation}
	}
	return ts, nil
}

// Refresh returns the token set embedded in body, or the receiver unchanged
// when the response did not re-issue one. Some postbacks render a fresh set,
// some do not; the current set stays valid until replaced.
func (t TokenSet) Refresh(body []byte) TokenSet {
	ts, err := ExtractTokenSet(body, "")
	if err != nil {
		return t
	}
	return ts
}

// Apply copies the token set into a form about to be posted.
func (t TokenSet) Apply(form url.Values) {
	form.Set(fieldViewState, t.ViewState)
	form.Set(fieldViewStateGenerator, t.ViewStateGenerator)
	form.Set(fieldEventValidation, t.EventValidation)
}

// ExtractFormField locates the form whose action equals action and returns
// the value of its named input. A missing form, missing input, or empty
// value is a ProtocolError.
func ExtractFormField(body []byte, page, action, name string) (string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", &ProtocolError{Page: page, Missing: "parseable HTML"}
	}
	form := findForm(doc, action)
	if form == nil {
		return "", &ProtocolError{Page: page, Missing: `form action="` + action + `"`}
	}
	var value string
	var found bool
	walk(form, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "input" && attr(n, "name") == name {
			found = true
			value = attr(n, "value")
		}
	})
	if !found {
		return "", &ProtocolError{Page: page, Missing: `input name="` + name + `"`}
	}
	if value == "" {
		return "", &ProtocolError{Page: page, Missing: name + " value"}
	}
	return value, nil
}

func hiddenInputs(body []byte) map[string]string {
	out := map[string]string{}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return out
	}
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "input" {
			if name := attr(n, "name"); name != "" {
				out[name] = attr(n, "value")
			}
		}
	})
	return out
}

func findForm(doc *html.Node, action string) *html.Node {
	var form *html.Node
	walk(doc, func(n *html.Node) {
		if form == nil && n.Type == html.ElementNode && n.Data == "form" && attr(n, "action") == action {
			form = n
		}
	})
	return form
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
