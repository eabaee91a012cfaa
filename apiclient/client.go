// Package apiclient talks to the remote content API on behalf of the
// signed-in admin.
//
// Every call reads the response body once, classifies it (empty, JSON or
// text) and maps the outcome onto a small error taxonomy: ErrUnauthenticated
// for 401s (after clearing the bound session), *APIError for other failures,
// ErrMalformedResponse / ErrEmptyResponse for success bodies that break the
// contract and *NetworkError when the API could not be reached.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/eringen/pubadmin/session"
)

var logger = log.New("apiclient")

// Logger returns the package logger so callers can adjust its level.
func Logger() *log.Logger {
	return logger
}

// Client issues requests against the content API. A Client is safe to share;
// WithSession returns a copy bound to one admin's session.
type Client struct {
	baseURL string
	http    *http.Client
	session session.Store
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: &LoggingTransport{Base: http.DefaultTransport},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithSession returns a copy of c that authenticates with, and clears on
// 401, the given session store.
func (c *Client) WithSession(s session.Store) *Client {
	cp := *c
	cp.session = s
	return &cp
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	// anonymous requests carry no bearer token and treat 401 as an ordinary
	// failure instead of a lost session.
	anonymous bool
}

type response struct {
	status      int
	contentType string
	text        string
	kind        bodyKind
}

// Call sends a JSON request and decodes a JSON success body into out.
// in and out may be nil. A success response with an empty body leaves out
// untouched and returns nil.
func (c *Client) Call(ctx context.Context, method, path string, in, out any) error {
	rq := request{method: method, path: path}
	var (
		resp response
		err  error
	)
	if in != nil {
		resp, err = c.sendJSON(ctx, rq, in)
	} else {
		resp, err = c.send(ctx, rq)
	}
	if err != nil {
		return err
	}
	return resp.decode(out)
}

// sendJSON is send with a JSON-encoded body.
func (c *Client) sendJSON(ctx context.Context, rq request, in any) (response, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return response{}, fmt.Errorf("encode request: %w", err)
	}
	rq.body = bytes.NewReader(b)
	rq.contentType = "application/json"
	return c.send(ctx, rq)
}

// decode checks a success body and unmarshals it into out. With a nil out a
// JSON body must still parse; plain text is accepted.
func (r response) decode(out any) error {
	if r.kind == bodyEmpty {
		return nil
	}
	if out == nil {
		if r.kind == bodyJSON && !json.Valid([]byte(r.text)) {
			return fmt.Errorf("%w: body is not valid JSON", ErrMalformedResponse)
		}
		return nil
	}
	return decodeJSON(r.kind, r.text, out)
}

// send performs the request and applies the status rules shared by every
// endpoint. The returned response always has a 2xx status.
func (c *Client) send(ctx context.Context, rq request) (response, error) {
	req, err := http.NewRequestWithContext(ctx, rq.method, c.baseURL+rq.path, rq.body)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}
	if rq.contentType != "" {
		req.Header.Set("Content-Type", rq.contentType)
	}
	req.Header.Set("Accept", "application/json")
	if !rq.anonymous && c.session != nil {
		if sess, ok := c.session.Load(); ok && sess.Token != "" {
			req.Header.Set("Authorization", "Bearer "+sess.Token)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return response{}, &NetworkError{Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return response{}, &NetworkError{Err: fmt.Errorf("read response: %w", err)}
	}
	resp := response{
		status:      res.StatusCode,
		contentType: res.Header.Get("Content-Type"),
		text:        string(raw),
	}
	resp.kind = classify(resp.contentType, resp.text)

	if res.StatusCode == http.StatusUnauthorized && !rq.anonymous {
		if c.session != nil {
			if err := c.session.Clear(); err != nil {
				logger.Warnf("clear session after 401: %v", err)
			}
		}
		logger.Infof("%s %s -> 401, session cleared", rq.method, rq.path)
		return response{}, ErrUnauthenticated
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return response{}, errorFromResponse(res.StatusCode, resp.kind, resp.text)
	}
	return resp, nil
}
