// Package api is the HTTP client for the confession-board API.
//
// Every call here is a credentialed pass-through to the remote service; no
// business logic lives on this side. The client is deliberately tolerant of
// the API's looseness: list endpoints come in primary/fallback pairs, bodies
// are sometimes plain text where JSON is expected, and list payloads arrive
// either bare or wrapped in an envelope object. All of that tolerance is
// concentrated here so callers branch on typed results instead of
// re-inspecting headers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/teknohive/fessctl/internal/board"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the API origin, e.g. "https://api.teknohive.me".
	BaseURL string

	// Cookie is the raw session cookie header value, empty when signed out.
	Cookie string

	// Timeout bounds each request (default: 15s).
	Timeout time.Duration

	// Logger for request-level diagnostics (default: stderr logger).
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
		Logger:  log.New(os.Stderr, "[api] ", log.LstdFlags),
	}
}

// Client issues credentialed requests against the board API.
type Client struct {
	base   *url.URL
	http   *http.Client
	cookie string
	logger *log.Logger
}

// New creates a client for the given configuration.
func New(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[api] ", log.LstdFlags)
	}
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		cookie: config.Cookie,
		logger: logger,
	}, nil
}

// LoginURL returns the browser entry point for the OAuth login flow.
func (c *Client) LoginURL() string {
	return c.endpoint("/auth/google/login")
}

func (c *Client) endpoint(path string) string {
	ref := &url.URL{Path: path}
	return c.base.ResolveReference(ref).String()
}

// do issues one request. body, when non-nil, is JSON-encoded.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
	return c.http.Do(req)
}

// ResultKind enumerates the outcomes of a list read.
type ResultKind int

const (
	// ResultOK: the endpoint returned a decodable JSON list.
	ResultOK ResultKind = iota

	// ResultEmptyBody: the endpoint answered 2xx but the body was not
	// structured data (e.g. text/plain). Treated as an empty result set.
	ResultEmptyBody

	// ResultError: every endpoint failed.
	ResultError
)

// ListResult is the typed outcome of LoadList. Callers branch on Kind
// instead of inspecting headers or status codes themselves.
type ListResult struct {
	Kind   ResultKind
	Items  []board.Item
	Status int // last HTTP status on ResultError, 0 otherwise
}

// FailurePolicy decides what a failed list read yields at a call site.
type FailurePolicy int

const (
	// FailEmpty: a failed read yields an empty list and no error.
	FailEmpty FailurePolicy = iota

	// FailPropagate: a failed read propagates RemoteUnavailableError.
	FailPropagate
)

// LoadList issues a credentialed GET against primary; on non-success, if
// fallback is non-empty, it retries against it once. When both fail the
// returned error is a *RemoteUnavailableError and the result kind is
// ResultError.
func (c *Client) LoadList(ctx context.Context, primary, fallback string) (ListResult, error) {
	result, err := c.loadOnce(ctx, primary)
	if err == nil {
		return result, nil
	}
	if fallback == "" {
		return result, err
	}

	c.logger.Printf("primary endpoint %s failed (%v), trying fallback %s", primary, err, fallback)
	result, ferr := c.loadOnce(ctx, fallback)
	if ferr == nil {
		return result, nil
	}
	return result, ferr
}

// loadOnce reads one list endpoint.
func (c *Client) loadOnce(ctx context.Context, path string) (ListResult, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return ListResult{Kind: ResultError}, &RemoteUnavailableError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ListResult{Kind: ResultError, Status: resp.StatusCode},
			&RemoteUnavailableError{Endpoint: path, Status: resp.StatusCode}
	}

	if !isJSONResponse(resp) {
		// Plain-text success. The server does this; treat it as an empty
		// result set rather than attempting a parse that would fail.
		return ListResult{Kind: ResultEmptyBody}, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ListResult{Kind: ResultError}, &RemoteUnavailableError{Endpoint: path, Err: err}
	}

	items, ok := decodeItems(data)
	if !ok {
		c.logger.Printf("malformed list payload from %s (%d bytes), substituting empty list", path, len(data))
		return ListResult{Kind: ResultEmptyBody}, nil
	}
	return ListResult{Kind: ResultOK, Items: items}, nil
}

// isJSONResponse reports whether the declared content type is structured data.
func isJSONResponse(resp *http.Response) bool {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// envelopeKeys are the wrapper fields list payloads have been seen inside.
var envelopeKeys = []string{"messages", "songfess", "items", "data"}

// decodeItems decodes a list payload that is either a bare JSON array or an
// envelope object holding one.
func decodeItems(data []byte) ([]board.Item, bool) {
	var items []board.Item
	if err := json.Unmarshal(data, &items); err == nil {
		return items, true
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, false
	}
	for _, key := range envelopeKeys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, true
		}
	}
	return nil, false
}

// applyPolicy maps a LoadList outcome through the caller's failure policy.
func applyPolicy(result ListResult, err error, policy FailurePolicy) ([]board.Item, error) {
	if err != nil {
		if policy == FailEmpty {
			return nil, nil
		}
		return nil, err
	}
	return result.Items, nil
}

// Messages fetches the message list.
func (c *Client) Messages(ctx context.Context, policy FailurePolicy) ([]board.Item, error) {
	result, err := c.LoadList(ctx, "/api/admin/messages", "")
	return applyPolicy(result, err, policy)
}

// Songfess fetches the song-confession list, falling back to the legacy
// endpoint when the primary is unavailable.
func (c *Client) Songfess(ctx context.Context, policy FailurePolicy) ([]board.Item, error) {
	result, err := c.LoadList(ctx, "/api/admin/songfessAll", "/api/admin/songfess")
	return applyPolicy(result, err, policy)
}

// SongfessByID fetches one song confession, trying the public detail endpoint
// first and the admin one second.
func (c *Client) SongfessByID(ctx context.Context, id string) (*board.Item, error) {
	paths := []string{
		"/api/songfess/" + url.PathEscape(id),
		"/api/admin/songfessAll/" + url.PathEscape(id),
	}

	var lastErr error
	for _, path := range paths {
		resp, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			lastErr = &RemoteUnavailableError{Endpoint: path, Err: err}
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			lastErr = &RemoteUnavailableError{Endpoint: path, Status: resp.StatusCode}
			continue
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = &RemoteUnavailableError{Endpoint: path, Err: err}
			continue
		}
		var item board.Item
		if err := json.Unmarshal(data, &item); err != nil {
			lastErr = fmt.Errorf("failed to decode songfess %s: %w", id, err)
			continue
		}
		return &item, nil
	}
	return nil, lastErr
}

// deleteEndpoints maps a board kind to its delete endpoint.
var deleteEndpoints = map[board.Kind]string{
	board.KindMessage:  "/api/admin/message/delete",
	board.KindSongfess: "/api/admin/songfess/delete",
}

// DeleteItem asks the server to delete one entry. On refusal the error is a
// *RemoteRejectedError carrying the HTTP status; the caller must not remove
// the item locally until this returns nil.
func (c *Client) DeleteItem(ctx context.Context, kind board.Kind, id string) error {
	path, ok := deleteEndpoints[kind]
	if !ok {
		return fmt.Errorf("unknown board kind %q", kind)
	}

	resp, err := c.do(ctx, http.MethodPost, path, map[string]string{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteRejectedError{Endpoint: path, Status: resp.StatusCode}
	}
	return nil
}

// SessionUser is the identity record the session endpoint returns.
type SessionUser struct {
	ID      string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	IsAdmin bool   `json:"isAdmin"`
}

// SessionStatus is the outcome of a session check.
type SessionStatus struct {
	// Authenticated reports whether the server accepted the credential.
	Authenticated bool

	// User is the identity record; nil when the server answered 200 with a
	// non-JSON body (the caller synthesizes a minimal record in that case).
	User *SessionUser
}

// SessionCheck performs a credentialed read of the identity endpoint.
//
// A 200 with JSON yields the contained user; a 200 with any other body still
// counts as authenticated (the server does this) with a nil user; a non-2xx
// answer is the normal "not authenticated" outcome, not an error. Only
// network-level failures return an error.
func (c *Client) SessionCheck(ctx context.Context) (SessionStatus, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/protected", nil)
	if err != nil {
		return SessionStatus{}, fmt.Errorf("session check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SessionStatus{Authenticated: false}, nil
	}

	if !isJSONResponse(resp) {
		return SessionStatus{Authenticated: true}, nil
	}

	var payload struct {
		User *SessionUser `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		// Declared JSON but undecodable; still a 2xx.
		c.logger.Printf("malformed session payload: %v", err)
		return SessionStatus{Authenticated: true}, nil
	}
	return SessionStatus{Authenticated: true, User: payload.User}, nil
}

// Logout performs the best-effort server-side logout.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteRejectedError{Endpoint: "/auth/logout", Status: resp.StatusCode}
	}
	return nil
}
