package admincli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the server's /v1 HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPayload struct {
	Token string `json:"token"`
}

type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) postCredentials(ctx context.Context, path, username, password string) (string, error) {
	body, err := json.Marshal(credentials{Username: username, Password: password})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeAPIError(resp)
	}

	var payload tokenPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("unexpected response: %w", err)
	}
	return payload.Token, nil
}

// Register creates an account and returns the session token issued for it.
func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	return c.postCredentials(ctx, "/v1/auth/register", username, password)
}

// Login returns a fresh session token for an existing account.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	return c.postCredentials(ctx, "/v1/auth/login", username, password)
}

// Logout revokes the given session token.
func (c *Client) Logout(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var payload errorPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Message == "" {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return fmt.Errorf("%s: %s", payload.Error, payload.Message)
}
