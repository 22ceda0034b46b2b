package erp

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
)

// Client talks to the ERP backend. One instance is shared by the auth and
// attendance surfaces; token state is guarded by its own mutex rather than
// anything process-global.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu           sync.Mutex // guards tokens and refresh state
	otpMu        sync.Mutex // serializes OTP verification
	accessToken  string
	refreshToken string

	clientID string
	userID   string
	shiftID  string
	deviceID string
}

// NewClient creates an ERP client with a bounded request timeout
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		deviceID:   uuid.NewString(),
	}
}

// SetTokens installs the access and refresh tokens from a stored credential
func (c *Client) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	c.refreshToken = refresh
}

// Tokens returns the current access and refresh tokens
func (c *Client) Tokens() (access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

// SetIdentity installs the user, client and shift the session acts on behalf of
func (c *Client) SetIdentity(userID, clientID, shiftID string) {
	c.userID = userID
	c.clientID = clientID
	c.shiftID = shiftID
}

// SetDeviceID overrides the generated device id (restored from a credential)
func (c *Client) SetDeviceID(id string) {
	if id != "" {
		c.deviceID = id
	}
}

// DeviceID returns the device id sent with auth requests
func (c *Client) DeviceID() string {
	return c.deviceID
}

// ClientID returns the selected ERP client id
func (c *Client) ClientID() string {
	return c.clientID
}

// ShiftID returns the selected shift id
func (c *Client) ShiftID() string {
	return c.shiftID
}

// APIError reports a non-2xx ERP response
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("erp: %s (status %d)", e.Detail, e.Status)
}

// doJSON performs an authorized JSON request and decodes the response body.
// A 401 triggers one token refresh and retry.
func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, body any) (map[string]any, error) {
	payload, status, err := c.doJSONOnce(ctx, method, path, params, body, true)
	if err != nil {
		return payload, err
	}
	if status == http.StatusUnauthorized {
		if refreshErr := c.refreshAccessToken(ctx); refreshErr == nil {
			payload, status, err = c.doJSONOnce(ctx, method, path, params, body, true)
			if err != nil {
				return payload, err
			}
		}
	}
	if status < 200 || status >= 300 {
		return payload, &APIError{Status: status, Detail: messageFrom(payload)}
	}
	return payload, nil
}

func (c *Client) doJSONOnce(ctx context.Context, method, path string, params url.Values, body any, authorized bool) (map[string]any, int, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorized {
		c.mu.Lock()
		token := c.accessToken
		c.mu.Unlock()
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("erp request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Some endpoints answer with plain text on errors
		payload = map[string]any{"message": strings.TrimSpace(string(raw))}
	}
	return payload, resp.StatusCode, nil
}

// messageFrom pulls a human-readable detail out of an error payload
func messageFrom(payload map[string]any) string {
	for _, key := range []string{"message", "error", "detail"} {
		if v, ok := payload[key].(string); ok && v != "" {
			return v
		}
	}
	return "request failed"
}
