package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"irrigation_console/internal/logger"

	"github.com/google/uuid"
)

const (
	apiPrefix       = "/api"
	maxResponseSize = 4 << 20 // 4 MB
	headerRequestID = "X-Request-ID"
)

// TokenSource supplies the current bearer token; "" means anonymous.
type TokenSource interface {
	Token() string
}

// Options configures a Client. BaseURL wins over Origin/BackendAddr resolution.
type Options struct {
	Origin      string
	BackendAddr string
	BaseURL     string
	HTTPClient  *http.Client
	// Location used to render history sample times; defaults to time.Local.
	Location *time.Location
	Now      func() time.Time
}

// Client executes backend requests and turns read failures into fallback values.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *logger.Logger
	loc     *time.Location
	now     func() time.Time
}

// New builds a client. The base address is resolved here, once.
func New(opts Options, tokens TokenSource, log *logger.Logger) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = ResolveBaseURL(opts.Origin, opts.BackendAddr)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log.Infow("api_base_resolved", "base_url", base, "origin", opts.Origin)
	return &Client{baseURL: base, http: hc, tokens: tokens, log: log, loc: loc, now: now}
}

// BaseURL returns the resolved API base.
func (c *Client) BaseURL() string { return c.baseURL }

// ResolveBaseURL targets the backend directly when the console runs on a
// loopback origin; otherwise it goes through the reverse proxy at <origin>/api.
func ResolveBaseURL(origin, backendAddr string) string {
	direct := strings.TrimRight(backendAddr, "/") + apiPrefix
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" || isLoopback(u.Hostname()) {
		return direct
	}
	return u.Scheme + "://" + u.Host + apiPrefix
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	req.Header.Set(headerRequestID, uuid.NewString())
	return req, nil
}

// do executes req and decodes a 2xx JSON body into out (if non-nil).
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxResponseSize)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: readMessage(body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, body)
		return nil
	}
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformed, req.Method, req.URL.Path, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// envelope is the {success, message} wrapper most write endpoints reply with.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// action sends a write request and treats {"success": false} as a failure.
func (c *Client) action(ctx context.Context, method, path string, query url.Values, body any) error {
	var env envelope
	if err := c.sendJSON(ctx, method, path, query, body, &env); err != nil {
		return err
	}
	if env.Success != nil && !*env.Success {
		return &StatusError{Code: http.StatusOK, Message: env.Message}
	}
	return nil
}

// readMessage pulls "message" or "error" from an error body, best-effort.
func readMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// isCanceled reports whether err is the caller tearing the request down.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
