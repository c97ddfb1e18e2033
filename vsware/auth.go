package vsware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
)

type LoginResult struct {
	Username            string          `json:"username"`
	AccountMainUserRole string          `json:"accountMainUserRole"`
	DisplayName         string          `json:"displayname"`
	FirstName           string          `json:"firstName"`
	LastName            string          `json:"lastName"`
	NextStep            string          `json:"nextStep"`
	WizardSteps         json.RawMessage `json:"wizardSteps"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Source   string `json:"source"`
}

// Setup primes the cookie jar with the tenant cookie the portal sets on first contact.
// The body is not interpreted.
func (c *Client) Setup(ctx context.Context) (*Response[struct{}], error) {
	return exchange[struct{}](ctx, c, request{
		op:     "setup",
		method: http.MethodGet,
		url:    c.controlURL("/control/tenant"),
	}, nil)
}

// Login authenticates and stores the Authorization response header as the session's bearer
// token. The token is kept only once the body has decoded. Any failure, including a response
// without that header (ErrMissingAuthorization), leaves the session without a token.
func (c *Client) Login(ctx context.Context, username, password string) (*Response[LoginResult], error) {
	c.session.ClearBearer()

	body, err := json.Marshal(loginRequest{
		Username: username,
		Password: password,
		Source:   "web",
	})
	if err != nil {
		return nil, &Error{Kind: KindRequest, Op: "login", Err: err}
	}

	var token string
	resp, err := exchange[LoginResult](ctx, c, request{
		op:          "login",
		method:      http.MethodPost,
		url:         c.controlURL("/tokenapiV2/login"),
		body:        body,
		contentType: contentTypeText,
		inspect: func(h http.Header) error {
			token = h.Get("Authorization")
			if token == "" {
				return &Error{Kind: KindPrecondition, Op: "login", Err: ErrMissingAuthorization}
			}
			return nil
		},
	}, decodeJSON[LoginResult])
	if err != nil {
		return resp, err
	}
	c.session.SetBearer(token)

	slog.InfoContext(ctx, "VSware login succeeded",
		"subdomain", c.subdomain, "session_id", c.session.ID, "next_step", resp.Data.NextStep)
	return resp, nil
}

// RenewAccessToken extends the validity of the session cookie. The portal expects the literal
// text null as the body.
func (c *Client) RenewAccessToken(ctx context.Context) error {
	_, err := exchange[struct{}](ctx, c, request{
		op:          "renew_access_token",
		method:      http.MethodPost,
		url:         c.controlURL("/control/user/renew-access-token"),
		body:        []byte("null"),
		contentType: contentTypeText,
	}, nil)
	return err
}
