package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/pulse/internal/model"
)

// HTTPClient implements PulseClient using the pulse HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	user       string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request; user identifies the caller for inbox and
// presence operations.
func NewHTTPClient(baseURL, token, user string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		user:       user,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Changes and events ---

func (c *HTTPClient) Announce(ctx context.Context, change *model.Change) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/changes", change, nil)
}

func (c *HTTPClient) RecentEvents(ctx context.Context, sinceMillis int64, project string) ([]model.Event, error) {
	q := url.Values{}
	if sinceMillis > 0 {
		q.Set("since", strconv.FormatInt(sinceMillis, 10))
	}
	if project != "" {
		q.Set("project", project)
	}

	path := "/v1/events/recent"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Events []model.Event `json:"events"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// --- Notifications ---

func (c *HTTPClient) ListNotifications(ctx context.Context, unreadOnly bool) ([]*model.Notification, error) {
	path := "/v1/notifications"
	if unreadOnly {
		path += "?unread=true"
	}

	var resp struct {
		Notifications []*model.Notification `json:"notifications"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

func (c *HTTPClient) UnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/notifications/unread_count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.UnreadCount, nil
}

func (c *HTTPClient) MarkRead(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

func (c *HTTPClient) MarkAllRead(ctx context.Context) (int64, error) {
	var resp struct {
		Updated int64 `json:"updated"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/notifications/read_all", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

func (c *HTTPClient) DeleteNotification(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/notifications/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) DeleteRead(ctx context.Context) (int64, error) {
	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/v1/notifications/read", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

// --- Activity trail ---

func (c *HTTPClient) Activity(ctx context.Context, project string, limit int) ([]*model.ActivityEntry, error) {
	q := url.Values{}
	if project != "" {
		q.Set("project", project)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	path := "/v1/activity"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Activity []*model.ActivityEntry `json:"activity"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Activity, nil
}

// --- Presence ---

func (c *HTTPClient) Presence(ctx context.Context) (*PresenceResponse, error) {
	var resp PresenceResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/presence", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Heartbeat(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/presence/heartbeat", nil, nil)
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the
// JSON response.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content: success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.user != "" {
		req.Header.Set("X-Pulse-User", c.user)
	}
}
