package vsware

import (
	"errors"
	"fmt"
)

// Kind is the category of a client error.
type Kind string

const (
	// KindTransport wraps a failure returned by the HTTP transport (DNS, TLS, connection, timeout).
	KindTransport Kind = "transport"
	// KindPrecondition marks a missing session credential.
	KindPrecondition Kind = "precondition"
	// KindDecode marks a body that did not match the expected shape.
	KindDecode Kind = "decode"
	// KindRequest marks a request that could not be built or encoded.
	KindRequest Kind = "request"
)

var (
	ErrNotLoggedIn          = errors.New("no bearer token, login has not been performed")
	ErrMissingAuthorization = errors.New("login response has no Authorization header")
)

// Error is returned by every Client operation. Err is the underlying cause and stays
// reachable through errors.Is and errors.As.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("vsware %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a client Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
