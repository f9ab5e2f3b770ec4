package api

import "fmt"

// ErrorKind classifies an API failure.
type ErrorKind string

const (
	// KindTransport: no well-formed response reached us (connection error,
	// timeout, undecodable body).
	KindTransport ErrorKind = "transport"
	// KindHTTP: the server answered with a non-2xx status.
	KindHTTP ErrorKind = "http"
	// KindAPIRejected: a well-formed error envelope (invalid key, wrong id).
	KindAPIRejected ErrorKind = "api_rejected"
)

// Error is the uniform failure shape returned by the client. Callers recover
// it at the smallest enclosing scope and degrade; it never escapes a cycle.
type Error struct {
	Kind    ErrorKind
	Code    int
	Message string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("api: http status %d: %s", e.Code, e.Message)
	case KindAPIRejected:
		return fmt.Sprintf("api: rejected (code %d): %s", e.Code, e.Message)
	default:
		return fmt.Sprintf("api: transport: %s", e.Message)
	}
}
