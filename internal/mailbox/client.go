// Package mailbox retrieves the portal's verification mail over IMAP and
// waits for a code that is provably newer than the run that requested it.
package mailbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"
)

// Message is one candidate verification mail: when the server received it
// and its decoded text content.
type Message struct {
	ReceivedAt time.Time
	Body       string
}

// Client connects to an IMAP mailbox per search; no connection is kept open
// across polls. Gmail with an app password is the expected target.
type Client struct {
	host     string
	port     string
	username string
	password string
}

func NewClient(host, port, username, password string) *Client {
	if port == "" {
		port = "993"
	}
	return &Client{host: host, port: port, username: username, password: password}
}

// Search logs in, selects INBOX, and returns every message matching the
// sender and subject filters, newest first, with receipt timestamps and
// decoded bodies.
func (c *Client) Search(ctx context.Context, from, subject string) ([]Message, error) {
	addr := c.host + ":" + c.port
	client, err := imapclient.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}
	defer func() { _ = client.Logout().Wait() }()

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		return nil, fmt.Errorf("IMAP login for %s: %w", c.username, err)
	}
	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		return nil, fmt.Errorf("selecting INBOX: %w", err)
	}

	criteria := &imap.SearchCriteria{
		Header: []imap.SearchCriteriaHeaderField{
			{Key: "From", Value: from},
			{Key: "Subject", Value: subject},
		},
	}
	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}
	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchOpts := &imap.FetchOptions{
		UID:          true,
		InternalDate: true,
		BodySection:  []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), fetchOpts)
	defer fetchCmd.Close()

	var out []Message
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}
		buf, err := msg.Collect()
		if err != nil {
			continue
		}
		m := Message{ReceivedAt: buf.InternalDate}
		if raw := buf.FindBodySection(bodySection); raw != nil {
			m.Body = decodeBody(raw)
		}
		out = append(out, m)
	}
	if err := fetchCmd.Close(); err != nil {
		return out, fmt.Errorf("fetching messages: %w", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReceivedAt.After(out[j].ReceivedAt)
	})
	return out, nil
}

// decodeBody extracts the readable text of a raw RFC 2822 message:
// inline text/plain and text/html parts concatenated, attachments skipped.
// If MIME parsing fails the raw bytes are treated as plain text.
func decodeBody(raw []byte) string {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return string(raw)
	}
	defer mr.Close()

	var b strings.Builder
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		if !strings.HasPrefix(contentType, "text/plain") && !strings.HasPrefix(contentType, "text/html") {
			continue
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}
		b.Write(body)
	}
	return b.String()
}
