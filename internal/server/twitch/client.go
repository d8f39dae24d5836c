// Package twitch provides a small client for the Helix clips endpoint and
// helpers for working with clip URLs.
package twitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

// clipURLPattern accepts clips.twitch.tv short links and
// www.twitch.tv/<channel>/clip/<slug> links, capturing the clip slug.
var clipURLPattern = regexp.MustCompile(`^(?:https?://)?(?:(?:clips|www)\.twitch\.tv/)(?:[a-zA-Z0-9]\w{2,24}/clip/)?([a-zA-Z0-9_-]+)\S*$`)

var (
	ErrInvalidClipURL = errors.New("invalid clip url")
	ErrClipNotFound   = errors.New("clip not found")

	// ErrIncompleteClip marks a Helix response missing fields we require.
	ErrIncompleteClip = errors.New("incomplete clip data")
)

// Clip is the subset of Helix clip metadata the service stores.
type Clip struct {
	CreatedAt       time.Time `json:"created_at"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	BroadcasterName string    `json:"broadcaster_name"`
	CreatorName     string    `json:"creator_name"`
}

type clipsResponse struct {
	Data []Clip `json:"data"`
}

// ClipIDFromURL extracts the clip slug from a Twitch clip URL.
func ClipIDFromURL(rawURL string) (string, error) {
	m := clipURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", ErrInvalidClipURL
	}
	return m[1], nil
}

// ClipURL returns the canonical short link for a clip slug.
func ClipURL(id string) string {
	return "https://clips.twitch.tv/" + id
}

type Client struct {
	baseURL    string
	clientID   string
	oauthToken string
	httpClient *http.Client
}

func NewClient(baseURL, clientID, oauthToken string) *Client {
	return &Client{
		baseURL:    baseURL,
		clientID:   clientID,
		oauthToken: oauthToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetClip fetches metadata for a single clip by slug. An empty title is
// allowed (Twitch permits it); all other fields must be present.
func (c *Client) GetClip(ctx context.Context, id string) (*Clip, error) {

	reqURL := c.baseURL + "/clips?id=" + url.QueryEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", c.oauthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("helix status %d", resp.StatusCode)
	}

	var body clipsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	if len(body.Data) == 0 {
		return nil, ErrClipNotFound
	}

	clip := body.Data[0]
	if clip.CreatedAt.IsZero() || clip.URL == "" || clip.BroadcasterName == "" || clip.CreatorName == "" {
		return nil, ErrIncompleteClip
	}

	return &clip, nil
}
