package vsware

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// Session is the state a Client carries between calls: the cookie jar shared by every request
// and the bearer token captured at login. A Session belongs to one Client.
//
// The bearer token is written by Login and read by the gateway operations afterwards.
// Calling Login concurrently on the same session races on the token and is not supported.
type Session struct {
	ID     uuid.UUID
	jar    *cookiejar.Jar
	bearer string
}

// NewSession creates an empty session with a private cookie jar.
func NewSession() (*Session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Session{
		ID:  uuid.New(),
		jar: jar,
	}, nil
}

// Jar returns the cookie store used for every request of this session.
func (s *Session) Jar() http.CookieJar {
	return s.jar
}

// Bearer returns the captured token and whether one is present.
func (s *Session) Bearer() (string, bool) {
	return s.bearer, s.bearer != ""
}

func (s *Session) SetBearer(token string) {
	s.bearer = token
}

// ClearBearer drops the token; gateway operations fail with ErrNotLoggedIn until the next
// successful Login.
func (s *Session) ClearBearer() {
	s.bearer = ""
}
