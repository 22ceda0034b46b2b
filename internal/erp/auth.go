package erp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// LoginResult holds the identity and tokens returned by a successful login
type LoginResult struct {
	UserID       string
	ClientID     string
	AccessToken  string
	RefreshToken string
}

// RequestOTP asks the ERP to send a one-time code to the given email
func (c *Client) RequestOTP(ctx context.Context, email string) error {
	body := map[string]any{
		"email":     email,
		"device_id": c.deviceID,
	}
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/api/auth/request-otp", nil, body)
	return err
}

// VerifyOTP exchanges a one-time code for tokens
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error) {
	c.otpMu.Lock()
	defer c.otpMu.Unlock()

	body := map[string]any{
		"email":     email,
		"otp":       code,
		"device_id": c.deviceID,
	}
	payload, err := c.doJSON(ctx, http.MethodPost, "/auth/api/auth/verify-otp", nil, body)
	if err != nil {
		return nil, err
	}
	return c.adoptLogin(payload)
}

// CredentialLogin authenticates with email and password
func (c *Client) CredentialLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]any{
		"email":     email,
		"password":  password,
		"device_id": c.deviceID,
	}
	payload, err := c.doJSON(ctx, http.MethodPost, "/auth/api/auth/login", nil, body)
	if err != nil {
		return nil, err
	}
	return c.adoptLogin(payload)
}

// refreshAccessToken exchanges the refresh token for a new access token
func (c *Client) refreshAccessToken(ctx context.Context) error {
	c.mu.Lock()
	refresh := c.refreshToken
	c.mu.Unlock()
	if refresh == "" {
		return fmt.Errorf("no refresh token")
	}

	payload, _, err := c.doJSONOnce(ctx, http.MethodPost, "/auth/api/auth/refresh-token", nil,
		map[string]any{"refresh_token": refresh}, false)
	if err != nil {
		return err
	}

	token := pickString(payload, "access_token", "accessToken", "token")
	if token == "" {
		return fmt.Errorf("refresh response carried no access token")
	}

	c.mu.Lock()
	c.accessToken = token
	if next := pickString(payload, "refresh_token", "refreshToken"); next != "" {
		c.refreshToken = next
	}
	c.mu.Unlock()
	return nil
}

// adoptLogin stores the tokens and identity from a login payload
func (c *Client) adoptLogin(payload map[string]any) (*LoginResult, error) {
	// Tokens sometimes live under a "data" envelope
	if data, ok := payload["data"].(map[string]any); ok {
		payload = data
	}

	result := &LoginResult{
		UserID:       pickString(payload, "user_id", "userId", "_id", "id"),
		ClientID:     pickString(payload, "client_id", "clientId"),
		AccessToken:  pickString(payload, "access_token", "accessToken", "token"),
		RefreshToken: pickString(payload, "refresh_token", "refreshToken"),
	}
	if result.AccessToken == "" {
		return nil, fmt.Errorf("login response carried no access token")
	}

	c.mu.Lock()
	c.accessToken = result.AccessToken
	c.refreshToken = result.RefreshToken
	c.mu.Unlock()
	if result.UserID != "" {
		c.userID = result.UserID
	}
	if result.ClientID != "" {
		c.clientID = result.ClientID
	}
	return result, nil
}

// Shift is one work schedule window offered by the ERP
type Shift struct {
	ID       string
	Name     string
	Assigned bool
}

// FetchUserShifts lists the shifts available to the logged-in user
func (c *Client) FetchUserShifts(ctx context.Context, clientID string) ([]Shift, error) {
	params := url.Values{}
	if c.userID != "" {
		params.Set("user_id", c.userID)
	}
	payload, err := c.doJSON(ctx, http.MethodGet, "/auth/api/shifts/client/"+clientID, params, nil)
	if err != nil {
		return nil, err
	}

	var shifts []Shift
	for _, item := range pickList(payload, "data", "shifts", "items", "results") {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := pickString(entry, "_id", "id", "shift_id", "shiftId")
		if id == "" {
			continue
		}
		shifts = append(shifts, Shift{
			ID:       id,
			Name:     pickString(entry, "name", "shift_name", "title"),
			Assigned: pickBool(entry, "assigned", "is_assigned", "isAssigned"),
		})
	}
	return shifts, nil
}

// AutoSelectShift picks the assigned shift, falling back to the first one
func (c *Client) AutoSelectShift(ctx context.Context, clientID string) (string, error) {
	shifts, err := c.FetchUserShifts(ctx, clientID)
	if err != nil {
		return "", err
	}
	if len(shifts) == 0 {
		return "", nil
	}
	for _, shift := range shifts {
		if shift.Assigned {
			c.shiftID = shift.ID
			return shift.ID, nil
		}
	}
	c.shiftID = shifts[0].ID
	return shifts[0].ID, nil
}
