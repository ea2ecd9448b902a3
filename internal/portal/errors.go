package portal

import "fmt"

// ProtocolError means a page the flow depends on no longer contains the
// element we expect. There is no point retrying: the remote markup changed.
type ProtocolError struct {
	Page    string
	Missing string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("portal: page structure changed: %s missing %s", e.Page, e.Missing)
}

// AuthError is an unacceptable HTTP status on a required authentication step.
type AuthError struct {
	Step   string
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("portal: %s failed: HTTP %d", e.Step, e.Status)
}

// TransportError wraps a network-level failure on a single request.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("portal: request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
