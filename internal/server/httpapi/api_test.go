package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/controlpanel/internal/logging"
	"github.com/dmitrijs2005/controlpanel/internal/server/auth"
	"github.com/dmitrijs2005/controlpanel/internal/server/fitness"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/controlpanel/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()

	m := repomanager.NewMemoryRepositoryManager()
	codec, err := auth.NewTokenCodec([]byte("test-secret"), "HS256", time.Hour)
	require.NoError(t, err)

	l := logging.Discard()
	as := services.NewAuthService(m, auth.NewHasher(bcrypt.MinCost), codec, auth.DefaultPolicy(), l)
	ws := services.NewWidgetService(m)
	hs := services.NewHealthService(m, fitness.NewStub("", ""), l)

	return New(as, ws, hs, NewMetrics(), l, Options{
		AppName:        "Control Panel API",
		Environment:    "test",
		APIBaseURL:     "http://api.test",
		RequestTimeout: 5 * time.Second,
		AllowedOrigins: []string{"*"},
	})
}

type client struct {
	t *testing.T
	h http.Handler
}

func (c client) do(method, path, token string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	c.h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func creds(email, password string) map[string]string {
	return map[string]string{"email": email, "password": password}
}

func TestAuthFlow_EndToEnd(t *testing.T) {
	c := client{t: t, h: newTestAPI(t).Handler()}

	rr := c.do(http.MethodPost, "/auth/signup", "", creds("a@example.com", "Weakpw1!"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	signup := decode[tokenResponse](t, rr)
	assert.NotEmpty(t, signup.AccessToken)
	assert.Equal(t, "bearer", signup.TokenType)
	assert.Equal(t, int64(3600), signup.ExpiresIn)

	rr = c.do(http.MethodPost, "/auth/signup", "", creds("a@example.com", "Weakpw1!"))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "already_registered", decode[ErrorResponse](t, rr).Error.Code)

	rr = c.do(http.MethodPost, "/auth/login", "", creds("a@example.com", "Weakpw1!"))
	require.Equal(t, http.StatusOK, rr.Code)
	login := decode[tokenResponse](t, rr)

	wrong := c.do(http.MethodPost, "/auth/login", "", creds("a@example.com", "Weakpw1?"))
	unknown := c.do(http.MethodPost, "/auth/login", "", creds("ghost@example.com", "Weakpw1!"))
	require.Equal(t, http.StatusUnauthorized, wrong.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	we, ue := decode[ErrorResponse](t, wrong).Error, decode[ErrorResponse](t, unknown).Error
	assert.Equal(t, we.Code, ue.Code)
	assert.Equal(t, we.Message, ue.Message)

	rr = c.do(http.MethodGet, "/auth/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	me := decode[accountResponse](t, rr)
	assert.Equal(t, "a@example.com", me.Email)
	assert.NotZero(t, me.ID)

	tok := []byte(login.AccessToken)
	i := strings.LastIndex(login.AccessToken, ".") + 4
	if tok[i] == 'Q' {
		tok[i] = 'R'
	} else {
		tok[i] = 'Q'
	}
	rr = c.do(http.MethodGet, "/auth/me", string(tok), nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
}

func TestSignup_WeakPasswordReportsAllViolations(t *testing.T) {
	c := client{t: t, h: newTestAPI(t).Handler()}

	rr := c.do(http.MethodPost, "/auth/signup", "", creds("a@example.com", "short"))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	e := decode[ErrorResponse](t, rr).Error
	assert.Equal(t, "weak_password", e.Code)
	assert.Len(t, e.Details, 4)
	assert.Contains(t, e.Details, auth.MsgNoUpper)
	assert.NotEmpty(t, e.RequestID)
}

func TestSignup_BadBodies(t *testing.T) {
	c := client{t: t, h: newTestAPI(t).Handler()}

	for name, body := range map[string]string{
		"empty":         "",
		"not json":      "{",
		"unknown field": `{"email":"a@example.com","password":"Weakpw1!","admin":true}`,
		"trailing data": `{"email":"a@example.com","password":"Weakpw1!"} {}`,
		"bad email":     `{"email":"nope","password":"Weakpw1!"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rr := c.do(http.MethodPost, "/auth/signup", "", body)
			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			assert.Equal(t, "invalid_request", decode[ErrorResponse](t, rr).Error.Code)
		})
	}
}

func TestSignup_BodyTooLarge(t *testing.T) {
	c := client{t: t, h: newTestAPI(t).Handler()}

	body := `{"email":"a@example.com","password":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	rr := c.do(http.MethodPost, "/auth/signup", "", body)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[ErrorResponse](t, rr).Error.Message, "exceeds")
}

func TestProtectedRoutes_RequireBearer(t *testing.T) {
	c := client{t: t, h: newTestAPI(t).Handler()}

	for _, path := range []string{"/auth/me", "/widgets/layout", "/health/summary"} {
		rr := c.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)

		rr = c.do(http.MethodGet, path, "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rr := httptest.NewRecorder()
	c.h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWidgetLayout(t *testing.T) {
	c := client{t: t, h: newTestAPI(t).Handler()}
	tok := decode[tokenResponse](t, c.do(http.MethodPost, "/auth/signup", "", creds("w@example.com", "Weakpw1!"))).AccessToken

	rr := c.do(http.MethodGet, "/widgets/layout", tok, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"type":"health"}]`, string(mustField(t, rr, "widgets")))

	rr = c.do(http.MethodPost, "/widgets/layout", tok, map[string]any{
		"widgets": []map[string]any{{"type": "clock"}, {"type": "health", "w": 2}},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = c.do(http.MethodGet, "/widgets/layout", tok, nil)
	assert.JSONEq(t, `[{"type":"clock"},{"type":"health","w":2}]`, string(mustField(t, rr, "widgets")))

	rr = c.do(http.MethodPost, "/widgets/layout", tok, map[string]any{"widgets": []map[string]any{{"w": 1}}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealthSummary(t *testing.T) {
	c := client{t: t, h: newTestAPI(t).Handler()}
	tok := decode[tokenResponse](t, c.do(http.MethodPost, "/auth/signup", "", creds("h@example.com", "Weakpw1!"))).AccessToken

	rr := c.do(http.MethodGet, "/health/summary", tok, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	s := decode[healthSummary](t, rr)
	require.NotNil(t, s.RestingHR)
	assert.Equal(t, 55, *s.RestingHR)
	assert.Equal(t, fitness.NoteNotConfigured, *s.Notes)

	rr = c.do(http.MethodPost, "/health/summary", tok, map[string]any{"resting_hr": 50, "notes": "manual"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	s = decode[healthSummary](t, c.do(http.MethodGet, "/health/summary", tok, nil))
	assert.Equal(t, 50, *s.RestingHR)
	assert.Nil(t, s.TrainingLoad)
	assert.Equal(t, "manual", *s.Notes)

	rr = c.do(http.MethodPost, "/health/summary", tok, map[string]any{"resting_hr": -3})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPublicEndpoints(t *testing.T) {
	c := client{t: t, h: newTestAPI(t).Handler()}

	rr := c.do(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Control Panel API","status":"ok"}`, rr.Body.String())

	rr = c.do(http.MethodGet, "/health/ping", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","environment":"test","api_base_url":"http://api.test"}`, rr.Body.String())

	rr = c.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", decode[ErrorResponse](t, rr).Error.Code)

	rr = c.do(http.MethodDelete, "/auth/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	c := client{t: t, h: newTestAPI(t).Handler()}

	c.do(http.MethodPost, "/auth/login", "", creds("ghost@example.com", "Weakpw1!"))
	c.do(http.MethodGet, "/health/ping", "", nil)

	rr := c.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `controlpanel_http_requests_total{method="GET",route="/health/ping",status="200"} 1`)
	assert.Contains(t, body, `controlpanel_auth_failures_total{code="invalid_credentials"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func mustField(t *testing.T, rr *httptest.ResponseRecorder, name string) json.RawMessage {
	t.Helper()
	m := decode[map[string]json.RawMessage](t, rr)
	v, ok := m[name]
	require.True(t, ok, "missing %q in %s", name, rr.Body.String())
	return v
}
