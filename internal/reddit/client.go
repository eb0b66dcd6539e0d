// Package reddit is the API client supplying item records to the pipeline:
// OAuth authentication and the per-origin listing endpoints.
package reddit

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/internal/config"
	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

const (
	authURL = "https://www.reddit.com/api/v1/access_token"
	apiURL  = "https://oauth.reddit.com"

	// API page size cap
	maxPageSize = 100
)

// Client is an authenticated Reddit API client.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	Username   string
	AuthToken  string
}

// NewClient creates a new Reddit API client.
func NewClient(cfg config.RedditConfig) *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		UserAgent: cfg.UserAgent,
		Username:  cfg.Username,
	}
}

// Login performs the OAuth2 password grant and stores the access token.
func (c *Client) Login(cfg config.RedditConfig) error {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", cfg.Username)
	form.Set("password", cfg.Password)

	req, err := http.NewRequest("POST", authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create auth request: %w", err)
	}
	req.SetBasicAuth(cfg.ClientID, cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("authentication failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return fmt.Errorf("authentication returned an empty token")
	}

	c.AuthToken = tokenResp.AccessToken
	log.Info("Successfully authenticated with Reddit")
	return nil
}

// ListingParams are the pagination parameters for listing endpoints.
type ListingParams struct {
	After string
	Limit int
}

// GetItems retrieves one page of the listing backing a content origin.
// Returns the items, the pagination cursor for the next page ("" when the
// listing is exhausted), and an error.
func (c *Client) GetItems(origin models.ContentOrigin, params ListingParams) ([]*models.Item, string, error) {
	endpoint, err := c.listingEndpoint(origin)
	if err != nil {
		return nil, "", err
	}

	query := url.Values{}
	query.Set("raw_json", "0")
	if params.After != "" {
		query.Set("after", params.After)
	}
	limit := params.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	query.Set("limit", fmt.Sprintf("%d", limit))

	reqURL := fmt.Sprintf("%s%s?%s", apiURL, endpoint, query.Encode())
	log.Debugf("Requesting URL: %s", reqURL)

	var listing thing
	if err := c.getJSON(reqURL, &listing); err != nil {
		return nil, "", err
	}

	items := make([]*models.Item, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		item, err := convertThing(child)
		if err != nil {
			log.Warnf("Skipping unconvertible listing entry: %v", err)
			continue
		}
		items = append(items, item)
	}

	log.Debugf("Retrieved %d items from %s", len(items), endpoint)
	return items, listing.Data.After, nil
}

// GetCommentContext fetches the ancestor chain and replies for a saved
// comment by requesting its thread with context. Failures are reported so
// the caller can export the comment without context.
func (c *Client) GetCommentContext(item *models.Item, contextDepth int) error {
	if !item.IsComment() || item.Comment.LinkPermalink == "" {
		return nil
	}

	permalink := strings.TrimSuffix(item.Comment.LinkPermalink, "/")
	reqURL := fmt.Sprintf("%s%s/%s?context=%d&raw_json=0", apiURL, permalink, item.ID, contextDepth)
	log.Debugf("Requesting comment context: %s", reqURL)

	var pages []thing
	if err := c.getJSON(reqURL, &pages); err != nil {
		return fmt.Errorf("failed to fetch comment context: %w", err)
	}
	if len(pages) < 2 {
		return fmt.Errorf("comment thread response missing comment listing")
	}

	attachContext(item, pages[1])
	return nil
}

func (c *Client) listingEndpoint(origin models.ContentOrigin) (string, error) {
	switch origin {
	case models.OriginSaved:
		return fmt.Sprintf("/user/%s/saved", c.Username), nil
	case models.OriginUpvoted:
		return fmt.Sprintf("/user/%s/upvoted", c.Username), nil
	case models.OriginSubmitted:
		return fmt.Sprintf("/user/%s/submitted", c.Username), nil
	case models.OriginCommented:
		return fmt.Sprintf("/user/%s/comments", c.Username), nil
	}
	return "", fmt.Errorf("unknown content origin %q", origin)
}

func (c *Client) getJSON(reqURL string, out interface{}) error {
	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	if c.AuthToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.AuthToken))
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
