package agent

import (
	"errors"
	"fmt"
)

// ErrNoCredentials marks invocation failures caused by missing or
// unretrievable AWS credentials at call time.
var ErrNoCredentials = errors.New("aws credentials not found")

// ErrorKind categorizes invocation failures. The web layer maps kinds to
// user-facing message templates; the kinds themselves stay display-free.
type ErrorKind string

const (
	KindAccessDenied  ErrorKind = "access_denied"
	KindNotFound      ErrorKind = "not_found"
	KindService       ErrorKind = "service"
	KindNoCredentials ErrorKind = "no_credentials"
	KindExtraction    ErrorKind = "extraction"
	KindUnknown       ErrorKind = "unknown"
)

// InvokeError is the typed failure returned by Invoker.Invoke. Message
// holds the service-provided error text for KindService.
type InvokeError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *InvokeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("invoke agent: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("invoke agent: %s: %v", e.Kind, e.Err)
}

func (e *InvokeError) Unwrap() error {
	return e.Err
}

// UnexpectedEventError reports a response stream whose next event carried
// no chunk payload.
type UnexpectedEventError struct {
	Event Event
}

func (e *UnexpectedEventError) Error() string {
	return fmt.Sprintf("unexpected event in response stream: %s", e.Event.Type)
}
