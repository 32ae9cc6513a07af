package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/controlpanel/internal/common"
)

// DefaultTimeout bounds a single request when the caller supplies no
// http.Client of its own.
const DefaultTimeout = 15 * time.Second

// ErrNoToken is returned by authenticated calls made without a token.
var ErrNoToken = errors.New("no access token, run login first")

// Error is the decoded error envelope of a failed request.
type Error struct {
	Status    int      `json:"-"`
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}
	return msg
}

// Token mirrors the signup and login response body.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Account mirrors the /auth/me response body.
type Account struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, e.g. with httptest's.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token used by authenticated calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New builds a client for the server rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) Signup(ctx context.Context, email, password string) (*Token, error) {
	var t Token
	if err := c.do(ctx, http.MethodPost, "/auth/signup", false, credentials{email, password}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	var t Token
	if err := c.do(ctx, http.MethodPost, "/auth/login", false, credentials{email, password}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) Me(ctx context.Context) (*Account, error) {
	var a Account
	if err := c.do(ctx, http.MethodGet, "/auth/me", true, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetLayout returns the raw layout document.
func (c *Client) GetLayout(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/widgets/layout", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveLayout posts doc as-is, so it must be a {"widgets": [...]} object.
func (c *Client) SaveLayout(ctx context.Context, doc json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/widgets/layout", true, doc, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetHealth(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/health/summary", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SaveHealth(ctx context.Context, doc json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/health/summary", true, doc, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, in, out any) error {
	if authed && c.token == "" {
		return ErrNoToken
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var env struct {
		Error Error `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &env); err != nil || env.Error.Code == "" {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Code: "http_error", Message: msg}
	}
	env.Error.Status = resp.StatusCode
	return &env.Error
}
