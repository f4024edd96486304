// Package transport pushes rendered frames to a display controller.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ByLCY/flipdot/framebuffer"
)

// Path is the controller endpoint that accepts a serialized frame.
const Path = "/framebuffer"

// ContentType of the request body: one line of 'X'/' ' per row.
const ContentType = "text/plain; charset=us-ascii"

// Client posts frames to http://<Host>/framebuffer.
type Client struct {
	// Host is "host", "host:port" or a full base URL.
	Host string
	// HTTP defaults to a client with a 10 second timeout.
	HTTP *http.Client
}

// StatusError reports a non-2xx reply from the controller.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("transport: controller replied %d", e.Code)
	}
	return fmt.Sprintf("transport: controller replied %d: %s", e.Code, e.Body)
}

var defaultClient = &http.Client{Timeout: 10 * time.Second}

// URL returns the endpoint frames are posted to.
func (c *Client) URL() (string, error) {
	if c.Host == "" {
		return "", fmt.Errorf("transport: empty host")
	}
	base := c.Host
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("transport: bad host %q: %w", c.Host, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + Path
	return u.String(), nil
}

// Send posts the serialized frame once. It does not retry.
func (c *Client) Send(ctx context.Context, fb *framebuffer.FrameBuffer) error {
	endpoint, err := c.URL()
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(fb.Bytes()))
	if err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	req.Header.Set("Content-Type", ContentType)

	hc := c.HTTP
	if hc == nil {
		hc = defaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("transport: post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return nil
}
