package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// systemIDHeader carries the routing identifier returned at login on
// every authenticated call.
const systemIDHeader = "X-System-Id"

// queryTimeFormat is the timestamp format the upstream expects on query
// parameters, interpreted in its configured local time zone.
const queryTimeFormat = "2006-01-02T15:04:05.000"

// Client talks to the dealer management API. It is unauthenticated;
// Authenticate exchanges credentials for a Session used for data calls.
type Client struct {
	baseURL  string
	httpc    *http.Client
	pageSize int
}

// NewClient builds a Client for the given API base URL.
func NewClient(baseURL string, pageSize int) *Client {
	return &Client{
		baseURL:  baseURL,
		httpc:    &http.Client{Timeout: 60 * time.Second},
		pageSize: pageSize,
	}
}

// Session is an authenticated upstream session. Tokens are short-lived
// and never cached: each sync run authenticates fresh.
type Session struct {
	client   *Client
	httpc    *http.Client
	systemID string
}

// authResponse is the login endpoint's response shape.
type authResponse struct {
	AuthToken            string `json:"authToken"`
	AvailableConnections []struct {
		SystemID ID `json:"systemId"`
	} `json:"availableConnections"`
}

// Authenticate exchanges credentials for a bearer token and system id.
// A rejected exchange or a response missing either field is an
// *AuthenticationError; no retry is attempted in-process.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	body, err := json.Marshal(map[string]string{
		"UserName": username,
		"Password": password,
	})
	if err != nil {
		return nil, &AuthenticationError{Reason: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/authenticate", bytes.NewReader(body))
	if err != nil {
		return nil, &AuthenticationError{Reason: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &AuthenticationError{Reason: "exchange credentials", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &AuthenticationError{Reason: fmt.Sprintf("login returned status %d", resp.StatusCode)}
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, &AuthenticationError{Reason: "decode response", Err: err}
	}
	if auth.AuthToken == "" {
		return nil, &AuthenticationError{Reason: "response missing authToken"}
	}
	if len(auth.AvailableConnections) == 0 || auth.AvailableConnections[0].SystemID == "" {
		return nil, &AuthenticationError{Reason: "response missing system id"}
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: auth.AuthToken, TokenType: "Bearer"})
	return &Session{
		client:   c,
		httpc:    oauth2.NewClient(ctx, ts),
		systemID: auth.AvailableConnections[0].SystemID.String(),
	}, nil
}

// SystemID returns the routing identifier for this session.
func (s *Session) SystemID() string { return s.systemID }

// get issues an authenticated GET and returns the body on 2xx, or an
// *UpstreamError on any other status.
func (s *Session) get(ctx context.Context, path string, query string) ([]byte, error) {
	url := s.client.baseURL + path
	if query != "" {
		url += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("upstream: build request %s: %w", path, err)
	}
	return s.do(req, path)
}

// post issues an authenticated JSON POST, same error contract as get.
func (s *Session) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("upstream: encode request %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("upstream: build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, path)
}

func (s *Session) do(req *http.Request, endpoint string) ([]byte, error) {
	req.Header.Set(systemIDHeader, s.systemID)
	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Endpoint: endpoint, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("upstream: read %s response: %w", endpoint, err)
	}
	return body, nil
}
