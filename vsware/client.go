package vsware

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
)

const (
	// DefaultUserAgent is sent on every request; the portal rejects clients that do not
	// look like a browser.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0"

	// DefaultGatewayBaseURL hosts the assessment service. It is shared by all tenants.
	DefaultGatewayBaseURL = "https://api-gateway.vsware.ie"

	contentTypeJSON = "application/json"
	contentTypeText = "text/plain;charset=UTF-8"
)

// RequestObserver is notified once per operation, after the body has been decoded.
// statusCode is zero when no response was received.
type RequestObserver interface {
	ObserveRequest(operation, method string, statusCode int, duration time.Duration, err error)
}

// Client talks to one tenant of the portal.
type Client struct {
	subdomain      string
	controlBaseURL string
	appBaseURL     string
	gatewayBaseURL string
	userAgent      string

	session    *Session
	httpClient *http.Client
	observer   RequestObserver
	clock      clockwork.Clock
}

type Option func(*Client)

// WithHTTPClient uses hc as the transport. The client is copied and the session's jar is
// attached to the copy.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSession makes the client use a session owned by the caller.
func WithSession(s *Session) Option {
	return func(c *Client) { c.session = s }
}

func WithControlBaseURL(u string) Option {
	return func(c *Client) { c.controlBaseURL = u }
}

func WithAppBaseURL(u string) Option {
	return func(c *Client) { c.appBaseURL = u }
}

func WithGatewayBaseURL(u string) Option {
	return func(c *Client) { c.gatewayBaseURL = u }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithObserver(o RequestObserver) Option {
	return func(c *Client) { c.observer = o }
}

func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// New creates a client for the given tenant subdomain.
func New(subdomain string, opts ...Option) (*Client, error) {
	c := &Client{
		subdomain:      subdomain,
		controlBaseURL: fmt.Sprintf("https://%s.vsware.ie", subdomain),
		appBaseURL:     fmt.Sprintf("https://%s.app.vsware.ie", subdomain),
		gatewayBaseURL: DefaultGatewayBaseURL,
		userAgent:      DefaultUserAgent,
		clock:          clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.session == nil {
		s, err := NewSession()
		if err != nil {
			return nil, err
		}
		c.session = s
	}

	hc := &http.Client{}
	if c.httpClient != nil {
		copied := *c.httpClient
		hc = &copied
	}
	hc.Jar = c.session.Jar()
	c.httpClient = hc

	return c, nil
}

func (c *Client) Subdomain() string      { return c.subdomain }
func (c *Client) ControlBaseURL() string { return c.controlBaseURL }
func (c *Client) GatewayBaseURL() string { return c.gatewayBaseURL }
func (c *Client) Session() *Session      { return c.session }

// AppBaseURL is the tenant's app origin. No operation uses it yet.
func (c *Client) AppBaseURL() string { return c.appBaseURL }

type request struct {
	op          string
	method      string
	url         string
	body        []byte
	contentType string
	bearer      bool

	// inspect runs on the response headers before the body is decoded.
	inspect func(http.Header) error
}

type decoder[T any] func(body []byte, out *T) error

func decodeJSON[T any](body []byte, out *T) error {
	return json.Unmarshal(body, out)
}

func decodeText(body []byte, out *string) error {
	*out = string(body)
	return nil
}

// exchange performs r once and decodes the body with decode. A decode failure still returns
// the response so callers can look at the status and body.
func exchange[T any](ctx context.Context, c *Client, r request, decode decoder[T]) (*Response[T], error) {
	start := c.clock.Now()
	resp, err := send[T](ctx, c, r)
	if err == nil && r.inspect != nil {
		err = r.inspect(resp.Header)
	}
	if err == nil && decode != nil {
		if derr := decode(resp.Body, &resp.Data); derr != nil {
			err = &Error{Kind: KindDecode, Op: r.op, Err: derr}
		}
	}
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.observe(ctx, r, status, c.clock.Since(start), err)
	return resp, err
}

func send[T any](ctx context.Context, c *Client, r request) (*Response[T], error) {
	var token string
	if r.bearer {
		t, ok := c.session.Bearer()
		if !ok {
			return nil, &Error{Kind: KindPrecondition, Op: r.op, Err: ErrNotLoggedIn}
		}
		token = t
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, &Error{Kind: KindRequest, Op: r.op, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: r.op, Err: err}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: r.op, Err: err}
	}

	return &Response[T]{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

func (c *Client) observe(ctx context.Context, r request, status int, d time.Duration, err error) {
	if c.observer != nil {
		c.observer.ObserveRequest(r.op, r.method, status, d, err)
	}
	if err != nil {
		slog.WarnContext(ctx, "VSware request failed",
			"operation", r.op, "method", r.method, "status", status,
			"duration", d, "session_id", c.session.ID, "error", err)
		return
	}
	slog.DebugContext(ctx, "VSware request completed",
		"operation", r.op, "method", r.method, "status", status,
		"duration", d, "session_id", c.session.ID)
}

func (c *Client) controlURL(format string, args ...any) string {
	return c.controlBaseURL + fmt.Sprintf(format, args...)
}

func (c *Client) gatewayURL(format string, args ...any) string {
	return c.gatewayBaseURL + fmt.Sprintf(format, args...)
}

func getJSON[T any](ctx context.Context, c *Client, op, url string) (*Response[T], error) {
	return exchange[T](ctx, c, request{op: op, method: http.MethodGet, url: url}, decodeJSON[T])
}

func gatewayGetJSON[T any](ctx context.Context, c *Client, op, url string) (*Response[T], error) {
	return exchange[T](ctx, c, request{op: op, method: http.MethodGet, url: url, bearer: true}, decodeJSON[T])
}
