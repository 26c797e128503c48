package authgate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
)

const validatePath = "/api/validate"

// Identity is the caller description returned by the auth service.
type Identity struct {
	UserID           string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	BusinessEnrolled bool   `json:"businessEnrolled"`
}

// Client calls the external auth service that owns sessions. The API
// never inspects session tokens itself; it forwards them here.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cookieName string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the auth service client from configuration.
func NewClient(cfg config.AuthServiceConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("auth service base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		cookieName: cfg.CookieName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// CookieName returns the session cookie the middleware should forward.
func (c *Client) CookieName() string {
	if c.cookieName == "" {
		return "session"
	}
	return c.cookieName
}

type validateRequest struct {
	Token string `json:"token"`
}

type validateResponse struct {
	Valid bool      `json:"valid"`
	User  *Identity `json:"user"`
}

// Validate exchanges a session token for the caller identity.
func (c *Client) Validate(ctx context.Context, token string) (*Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session token")
	}

	payload, err := json.Marshal(validateRequest{Token: token})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding validate request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+validatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building validate request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "auth service unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session rejected")
	case resp.StatusCode >= 500:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("auth service returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, fmt.Sprintf("auth service returned %d", resp.StatusCode))
	}

	var decoded validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding validate response")
	}
	if !decoded.Valid || decoded.User == nil || decoded.User.UserID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session invalid")
	}
	return decoded.User, nil
}
