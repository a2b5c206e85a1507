// Package client talks to the civicdesk REST api. It is the transport collaborator
// of the list controllers, the status policy and the dashboard.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linesmerrill/civicdesk/models"
)

// DefaultTimeout bounds every request made with the default http.Client
const DefaultTimeout = 15 * time.Second

const apiPrefix = "/api/v1"

// Client is a civicdesk api client. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger

	mu    sync.RWMutex
	token string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets the bearer token used for authenticated calls
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the logger requests are traced to
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the api hosted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the bearer token
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Session is returned by Login
type Session struct {
	Token string      `json:"token"`
	ID    string      `json:"_id"`
	Role  models.Role `json:"role"`
}

// Login exchanges email and password for a bearer token and keeps it on the client
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" {
		return Session{}, &ValidationError{Field: "email", Reason: "required"}
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/token", nil, nil, "")
	if err != nil {
		return Session{}, err
	}
	req.SetBasicAuth(email, password)

	var s Session
	if err := c.send(req, "login", &s); err != nil {
		return Session{}, err
	}
	c.SetToken(s.Token)
	return s, nil
}

// Logout revokes the current token
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doJSON(ctx, "logout", http.MethodDelete, "/auth/logout", nil, nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, &RequestError{Op: method + " " + path, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if t := c.Token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
	return req, nil
}

// doJSON sends in (if non-nil) as a JSON body and decodes the response into out (if non-nil)
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	return c.send(req, op, out)
}

func (c *Client) send(req *http.Request, op string, out interface{}) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warnw("request failed", "op", op, "url", req.URL.String(), "error", err)
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debugw("request completed",
		"op", op,
		"status", resp.StatusCode,
		"requestId", req.Header.Get("X-Request-ID"),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// readErrorMessage pulls the "response" field out of an api error body, falling
// back to the raw text
func readErrorMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	var e models.ErrorMessageResponse
	if json.Unmarshal(b, &e) == nil && e.Response != "" {
		return e.Response
	}
	return strings.TrimSpace(string(b))
}
