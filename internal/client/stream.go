package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/alfredjeanlab/pulse/internal/model"
)

// StreamEvents opens the SSE stream and invokes handler for every event
// frame until the connection drops or ctx is cancelled. Comment frames
// (the connected banner and heartbeats) are consumed silently. The caller
// owns reconnection; a clean ctx cancellation returns ctx.Err().
func (c *HTTPClient) StreamEvents(ctx context.Context, project string, handler func(model.Event)) error {
	path := "/v1/events/stream"
	if project != "" {
		path += "?project=" + url.QueryEscape(project)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: "stream rejected"}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var eventType, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			// Frame boundary.
			if data != "" {
				var evt model.Event
				if err := json.Unmarshal([]byte(data), &evt); err == nil {
					if eventType == "" || eventType == string(evt.Type) {
						handler(evt)
					}
				}
			}
			eventType, data = "", ""
		case strings.HasPrefix(line, ":"):
			// Comment (connected banner, heartbeat). Keep-alive only.
		case strings.HasPrefix(line, "event:"):
			eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stream: %w", err)
	}
	return fmt.Errorf("stream closed by server")
}
