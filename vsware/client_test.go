package vsware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     string
}

// fakePortal stands in for both the control host and the gateway.
type fakePortal struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func (p *fakePortal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	p.mu.Lock()
	p.requests = append(p.requests, recordedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     string(body),
	})
	p.mu.Unlock()
	if p.handler != nil {
		p.handler(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{}`))
}

func (p *fakePortal) last(t *testing.T) recordedRequest {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.requests, "no request reached the server")
	return p.requests[len(p.requests)-1]
}

func (p *fakePortal) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *fakePortal) {
	t.Helper()
	portal := &fakePortal{handler: handler}
	srv := httptest.NewServer(portal)
	t.Cleanup(srv.Close)

	opts = append([]Option{
		WithControlBaseURL(srv.URL),
		WithGatewayBaseURL(srv.URL),
		WithClock(clockwork.NewFakeClock()),
	}, opts...)
	c, err := New("testschool", opts...)
	require.NoError(t, err)
	return c, portal
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func loginHandler(token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/tokenapiV2/login" {
			if token != "" {
				w.Header().Set("Authorization", token)
			}
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}
}

type observation struct {
	operation string
	method    string
	status    int
	err       error
}

type recordingObserver struct {
	observed []observation
}

func (o *recordingObserver) ObserveRequest(operation, method string, statusCode int, _ time.Duration, err error) {
	o.observed = append(o.observed, observation{operation, method, statusCode, err})
}

func TestNew_DerivesOrigins(t *testing.T) {
	c, err := New("stmarys")
	require.NoError(t, err)

	assert.Equal(t, "stmarys", c.Subdomain())
	assert.Equal(t, "https://stmarys.vsware.ie", c.ControlBaseURL())
	assert.Equal(t, "https://stmarys.app.vsware.ie", c.AppBaseURL())
	assert.Equal(t, "https://api-gateway.vsware.ie", c.GatewayBaseURL())
	assert.NotNil(t, c.Session().Jar())

	_, ok := c.Session().Bearer()
	assert.False(t, ok)
}

func TestNew_DoesNotMutateCallerHTTPClient(t *testing.T) {
	hc := &http.Client{Timeout: 5 * time.Second}

	c, err := New("stmarys", WithHTTPClient(hc))
	require.NoError(t, err)

	assert.Nil(t, hc.Jar)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	assert.Equal(t, c.Session().Jar(), c.httpClient.Jar)
}

func TestNew_UsesProvidedSession(t *testing.T) {
	s, err := NewSession()
	require.NoError(t, err)
	s.SetBearer("Bearer abc")

	c, err := New("stmarys", WithSession(s))
	require.NoError(t, err)

	assert.Same(t, s, c.Session())
	token, ok := c.Session().Bearer()
	assert.True(t, ok)
	assert.Equal(t, "Bearer abc", token)
}

func TestSetup_PrimesCookieJar(t *testing.T) {
	c, portal := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/control/tenant" {
			http.SetCookie(w, &http.Cookie{Name: "tenant", Value: "42", Path: "/"})
		}
		_, _ = w.Write([]byte(`{}`))
	})
	ctx := context.Background()

	resp, err := c.Setup(ctx)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, http.MethodGet, portal.last(t).Method)
	assert.Equal(t, "/control/tenant", portal.last(t).Path)
	assert.Equal(t, DefaultUserAgent, portal.last(t).Header.Get("User-Agent"))

	_, err = c.GetLocale(ctx)
	require.NoError(t, err)

	req := portal.last(t)
	assert.Equal(t, "/control/localisation/locale/current/", req.Path)
	assert.Contains(t, req.Header.Get("Cookie"), "tenant=42")
}

func TestLogin_CapturesBearerToken(t *testing.T) {
	c, portal := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Authorization", "Bearer token-123")
		http.SetCookie(w, &http.Cookie{Name: "SESSION", Value: "s1", Path: "/"})
		_, _ = w.Write([]byte(`{"username":"parent@example.com","accountMainUserRole":"PARENT","displayname":"Pat Parent","firstName":"Pat","lastName":"Parent","nextStep":"HOME","wizardSteps":null}`))
	})

	resp, err := c.Login(context.Background(), "parent@example.com", "hunter2")
	require.NoError(t, err)

	req := portal.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/tokenapiV2/login", req.Path)
	assert.JSONEq(t, `{"username":"parent@example.com","password":"hunter2","source":"web"}`, req.Body)

	assert.Equal(t, "parent@example.com", resp.Data.Username)
	assert.Equal(t, "Pat Parent", resp.Data.DisplayName)
	assert.Equal(t, "HOME", resp.Data.NextStep)
	assert.Equal(t, "null", string(resp.Data.WizardSteps))

	token, ok := c.Session().Bearer()
	require.True(t, ok)
	assert.Equal(t, "Bearer token-123", token)

	_, err = c.GetLocale(context.Background())
	require.NoError(t, err)
	assert.Contains(t, portal.last(t).Header.Get("Cookie"), "SESSION=s1")
}

func TestLogin_MissingAuthorizationHeader(t *testing.T) {
	c, _ := newTestClient(t, jsonHandler(`{"username":"parent@example.com"}`))

	resp, err := c.Login(context.Background(), "parent@example.com", "hunter2")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAuthorization)
	assert.True(t, IsKind(err, KindPrecondition))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, ok := c.Session().Bearer()
	assert.False(t, ok)
}

func TestLogin_FailedReloginDropsPreviousToken(t *testing.T) {
	var sendHeader atomic.Bool
	sendHeader.Store(true)
	c, portal := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if sendHeader.Load() {
			w.Header().Set("Authorization", "Bearer first")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})
	ctx := context.Background()

	_, err := c.Login(ctx, "parent@example.com", "hunter2")
	require.NoError(t, err)

	sendHeader.Store(false)
	_, err = c.Login(ctx, "parent@example.com", "hunter2")
	require.ErrorIs(t, err, ErrMissingAuthorization)

	_, ok := c.Session().Bearer()
	assert.False(t, ok)

	sent := portal.count()
	_, err = c.GetAssessments(ctx, IntID(1), IntID(2))
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Equal(t, sent, portal.count())
}

func TestLogin_DecodeFailureKeepsNoToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Authorization", "Bearer x")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})

	resp, err := c.Login(context.Background(), "parent@example.com", "hunter2")

	require.Error(t, err)
	assert.True(t, IsKind(err, KindDecode))
	require.NotNil(t, resp)
	assert.Equal(t, "<html>maintenance</html>", string(resp.Body))

	_, ok := c.Session().Bearer()
	assert.False(t, ok)
}

func TestGatewayOperations_RequireLogin(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		call func(c *Client) error
	}{
		{"GetAssessments", func(c *Client) error {
			_, err := c.GetAssessments(ctx, IntID(1), IntID(2))
			return err
		}},
		{"GetTeacherCommentsAndResultsForAssessment", func(c *Client) error {
			_, err := c.GetTeacherCommentsAndResultsForAssessment(ctx, IntID(2), IntID(1), IntID(3))
			return err
		}},
		{"GetOverviewCommentsForAssessment", func(c *Client) error {
			_, err := c.GetOverviewCommentsForAssessment(ctx, IntID(2), IntID(1), IntID(3))
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, portal := newTestClient(t, nil)

			err := tt.call(c)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotLoggedIn)
			assert.True(t, IsKind(err, KindPrecondition))
			assert.Zero(t, portal.count(), "no request may be sent without a bearer token")
		})
	}
}

func TestGatewayOperations_SendBearerAfterLogin(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		call func(c *Client) error
		path string
	}{
		{"GetAssessments", func(c *Client) error {
			_, err := c.GetAssessments(ctx, IntID(1001), IntID(77))
			return err
		}, "/assessment-service/control/assessment/77/term/learner/1001"},
		{"GetTeacherCommentsAndResultsForAssessment", func(c *Client) error {
			_, err := c.GetTeacherCommentsAndResultsForAssessment(ctx, IntID(77), IntID(1001), StringID("555"))
			return err
		}, "/assessment-service/control/assessment/77/result/term/learner/1001/555"},
		{"GetOverviewCommentsForAssessment", func(c *Client) error {
			_, err := c.GetOverviewCommentsForAssessment(ctx, IntID(77), IntID(1001), IntID(555))
			return err
		}, "/assessment-service/control/assessment/77/comment/overview/555/1001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, portal := newTestClient(t, loginHandler("Bearer gw"))
			_, err := c.Login(ctx, "u", "p")
			require.NoError(t, err)

			require.NoError(t, tt.call(c))

			req := portal.last(t)
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, "Bearer gw", req.Header.Get("Authorization"))
			assert.Equal(t, DefaultUserAgent, req.Header.Get("User-Agent"))
		})
	}
}

func TestGetAssessments_PublishedQuery(t *testing.T) {
	c, portal := newTestClient(t, loginHandler("Bearer gw"))
	ctx := context.Background()
	_, err := c.Login(ctx, "u", "p")
	require.NoError(t, err)

	_, err = c.GetAssessments(ctx, IntID(1), IntID(2))
	require.NoError(t, err)

	assert.Equal(t, "published=true", portal.last(t).RawQuery)
}

func TestRenewAccessToken_SendsLiteralNull(t *testing.T) {
	c, portal := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	err := c.RenewAccessToken(context.Background())
	require.NoError(t, err)

	req := portal.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/control/user/renew-access-token", req.Path)
	assert.Equal(t, "null", req.Body)
}

func TestControlGetOperations_Paths(t *testing.T) {
	ctx := context.Background()
	learner := IntID(1001)
	tests := []struct {
		name     string
		call     func(c *Client) error
		path     string
		rawQuery string
	}{
		{"GetLocale", func(c *Client) error { _, err := c.GetLocale(ctx); return err }, "/control/localisation/locale/current/", ""},
		{"GetSecurityRoles", func(c *Client) error { _, err := c.GetSecurityRoles(ctx); return err }, "/control/securityroles/user/", ""},
		{"GetUnreadCount", func(c *Client) error { _, err := c.GetUnreadCount(ctx); return err }, "/control/comms/threads/unread-count/", ""},
		{"GetParentalDetails", func(c *Client) error { _, err := c.GetParentalDetails(ctx); return err }, "/control/parental/details", ""},
		{"GetAllAcademicYears", func(c *Client) error { _, err := c.GetAllAcademicYears(ctx); return err }, "/control/calendar/academicyear/fetch", ""},
		{"GetPersonalInfo", func(c *Client) error { _, err := c.GetPersonalInfo(ctx, learner); return err }, "/control/parental/1001/personal-info", ""},
		{"GetSchoolInfo", func(c *Client) error { _, err := c.GetSchoolInfo(ctx, learner); return err }, "/control/parental/1001/school-info", ""},
		{"GetAttendanceRecordOverview", func(c *Client) error {
			_, err := c.GetAttendanceRecordOverview(ctx, learner, StringID("12"))
			return err
		}, "/control/parental/1001/attendance/12/overview", ""},
		{"GetBasicBehaviourData", func(c *Client) error { _, err := c.GetBasicBehaviourData(ctx, learner); return err }, "/control/parental/1001/behaviour", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, portal := newTestClient(t, nil)

			require.NoError(t, tt.call(c))

			req := portal.last(t)
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, tt.rawQuery, req.RawQuery)
			assert.Empty(t, req.Header.Get("Authorization"))
		})
	}
}

func TestControlListOperations_Paths(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		call     func(c *Client) error
		path     string
		rawQuery string
	}{
		{"GetLearners", func(c *Client) error { _, err := c.GetLearners(ctx); return err }, "/control/household/learners/", ""},
		{"GetUnreadNotifications", func(c *Client) error { _, err := c.GetUnreadNotifications(ctx); return err }, "/control/notification", "acknowledgementStatuses=NEW"},
		{"GetAcademicYears", func(c *Client) error { _, err := c.GetAcademicYears(ctx, StringID("1001")); return err }, "/control/learners/1001/academic-years", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, portal := newTestClient(t, jsonHandler(`[]`))

			require.NoError(t, tt.call(c))

			req := portal.last(t)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, tt.rawQuery, req.RawQuery)
		})
	}
}

func TestGetAttendanceCodes_Scope(t *testing.T) {
	tests := []struct {
		name  string
		scope AttendanceCodeScope
		path  string
	}{
		{"default", AttendanceCodesDefault, "/control/parental/attendance-codes"},
		{"empty string", "", "/control/parental/attendance-codes"},
		{"all", AttendanceCodesAll, "/control/parental/attendance-codes/all"},
		{"unknown", "other", "/control/parental/attendance-codes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, portal := newTestClient(t, jsonHandler(`[{"id":1,"code":"P","shortDescription":"Present","statutoryCode":"P","type":"PRESENT","availableToParents":true,"availableToTeachers":"Yes","deleted":false}]`))

			resp, err := c.GetAttendanceCodes(context.Background(), tt.scope)
			require.NoError(t, err)

			assert.Equal(t, tt.path, portal.last(t).Path)
			require.Len(t, resp.Data, 1)
			assert.Equal(t, AvailableToTeachersYes, resp.Data[0].AvailableToTeachers)
		})
	}
}

func TestGetFullBehaviour_SendsBareLearnerID(t *testing.T) {
	c, portal := newTestClient(t, jsonHandler(`{"status":200,"payload":{"displayName":"Sam","id":1001,"collection":[],"chart":{"Positive":3},"startingPoints":100,"totalPoints":103},"errors":null,"errorMessage":null}`))

	resp, err := c.GetFullBehaviour(context.Background(), IntID(1001))
	require.NoError(t, err)

	req := portal.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/control/behaviour/incident/fetch/ALL/0/current", req.Path)
	assert.Equal(t, "currentYear=true", req.RawQuery)
	assert.Equal(t, "1001", req.Body)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	assert.Equal(t, 200, resp.Data.Status)
	assert.Equal(t, float64(103), resp.Data.Payload.TotalPoints)
	assert.Equal(t, float64(3), resp.Data.Payload.Chart["Positive"])
}

func TestResponse_KeepsBodyVerbatim(t *testing.T) {
	body := "{ \"country\" : \"IE\",\n  \"language\":\"en\", \"locale\":\"en_IE\", \"extra\": [1, 2] }"
	c, _ := newTestClient(t, jsonHandler(body))

	resp, err := c.GetLocale(context.Background())
	require.NoError(t, err)

	assert.Equal(t, body, string(resp.Raw()))
	assert.Equal(t, "IE", resp.Data.Country)
	assert.Equal(t, "en_IE", resp.Data.Locale)
}

func TestResponse_StatusIsReportedNotEnforced(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"country":"","language":"","locale":""}`))
	})

	resp, err := c.GetLocale(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, resp.OK())
}

func TestNonJSONBody_FailsAtDecode(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html><body>Internal Server Error</body></html>`))
	})

	resp, err := c.GetSecurityRoles(context.Background())

	require.Error(t, err)
	assert.True(t, IsKind(err, KindDecode))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "Internal Server Error")
}

func TestTransportError_IsWrappedNotReplaced(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := New("testschool", WithControlBaseURL(srv.URL))
	require.NoError(t, err)

	resp, err := c.GetLocale(context.Background())

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, IsKind(err, KindTransport))
	var urlErr *url.Error
	assert.True(t, errors.As(err, &urlErr))
}

func TestObserver_SeesEveryOperation(t *testing.T) {
	obs := &recordingObserver{}
	c, _ := newTestClient(t, jsonHandler(`not json`), WithObserver(obs))
	ctx := context.Background()

	_, _ = c.GetLocale(ctx)
	_, _ = c.GetAssessments(ctx, IntID(1), IntID(2))

	require.Len(t, obs.observed, 2)
	assert.Equal(t, "get_locale", obs.observed[0].operation)
	assert.Equal(t, http.MethodGet, obs.observed[0].method)
	assert.Equal(t, http.StatusOK, obs.observed[0].status)
	assert.True(t, IsKind(obs.observed[0].err, KindDecode))

	assert.Equal(t, "get_assessments", obs.observed[1].operation)
	assert.Zero(t, obs.observed[1].status)
	assert.ErrorIs(t, obs.observed[1].err, ErrNotLoggedIn)
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindPrecondition, Op: "get_assessments", Err: ErrNotLoggedIn}

	assert.Equal(t, "vsware get_assessments: precondition: no bearer token, login has not been performed", err.Error())
	assert.False(t, IsKind(errors.New("plain"), KindPrecondition))
}
