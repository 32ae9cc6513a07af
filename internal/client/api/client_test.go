package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", append([]Option{WithHTTPClient(srv.Client())}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("localhost:8000")
	require.Error(t, err)

	_, err = New("ftp://example.com")
	require.Error(t, err)

	c, err := New("https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", c.baseURL)
}

func TestSignup_SendsCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/signup", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var in credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, credentials{Email: "a@b.c", Password: "Secret1!x"}, in)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"access_token":"tok","token_type":"bearer","expires_in":3600}`)
	})

	tok, err := c.Signup(context.Background(), "a@b.c", "Secret1!x")
	require.NoError(t, err)
	assert.Equal(t, &Token{AccessToken: "tok", TokenType: "bearer", ExpiresIn: 3600}, tok)
}

func TestLogin_DecodesErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"code":"invalid_credentials","message":"invalid email or password","request_id":"rid"}}`)
	})

	_, err := c.Login(context.Background(), "a@b.c", "nope")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid_credentials", apiErr.Code)
	assert.Equal(t, "rid", apiErr.RequestID)
	assert.Contains(t, err.Error(), "invalid email or password")
}

func TestError_IncludesDetails(t *testing.T) {
	e := &Error{Status: 400, Code: "weak_password", Message: "password too weak", Details: []string{"a", "b"}}
	assert.Equal(t, "400 weak_password: password too weak (a; b)", e.Error())
}

func TestDecodeError_NonJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, WithToken("tok"))

	_, err := c.Me(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "http_error", apiErr.Code)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestMe_SendsBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"id":7,"email":"a@b.c","created_at":"2026-01-02T03:04:05Z"}`)
	}, WithToken("tok"))

	a, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), a.ID)
	assert.Equal(t, "a@b.c", a.Email)
	assert.Equal(t, 2026, a.CreatedAt.Year())
}

func TestAuthenticatedCalls_RequireToken(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	ctx := context.Background()

	_, err := c.Me(ctx)
	assert.ErrorIs(t, err, ErrNoToken)
	_, err = c.GetLayout(ctx)
	assert.ErrorIs(t, err, ErrNoToken)
	_, err = c.SaveLayout(ctx, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrNoToken)
	_, err = c.GetHealth(ctx)
	assert.ErrorIs(t, err, ErrNoToken)
	_, err = c.SaveHealth(ctx, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrNoToken)
	assert.False(t, called)
}

func TestLayoutAndHealth_PassRawDocuments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /widgets/layout":
			_, _ = io.WriteString(w, `{"widgets":[{"type":"health"}]}`)
		case "POST /widgets/layout":
			b, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"widgets":[{"type":"steps"}]}`, string(b))
			_, _ = w.Write(b)
		case "GET /health/summary":
			_, _ = io.WriteString(w, `{"resting_hr":55}`)
		case "POST /health/summary":
			b, _ := io.ReadAll(r.Body)
			_, _ = w.Write(b)
		default:
			http.NotFound(w, r)
		}
	}, WithToken("tok"))
	ctx := context.Background()

	got, err := c.GetLayout(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"widgets":[{"type":"health"}]}`, string(got))

	got, err = c.SaveLayout(ctx, json.RawMessage(`{"widgets":[{"type":"steps"}]}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"widgets":[{"type":"steps"}]}`, string(got))

	got, err = c.GetHealth(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"resting_hr":55}`, string(got))

	got, err = c.SaveHealth(ctx, json.RawMessage(`{"notes":"ok"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"notes":"ok"}`, string(got))
}

func TestDo_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Login(ctx, "a@b.c", "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
