package vsware

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Response carries a decoded body together with the exchange it came from.
// Body holds the bytes exactly as received.
type Response[T any] struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Data       T
}

// OK reports whether the server answered with a 2xx status.
func (r *Response[T]) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Raw returns the received body unchanged.
func (r *Response[T]) Raw() json.RawMessage {
	return json.RawMessage(r.Body)
}
