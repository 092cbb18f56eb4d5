// Package console implements the interactive terminal search client. It
// talks to a running ArchiveIQ server over the JSON API.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
)

// Client is an authenticated HTTP client for the ArchiveIQ API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Results []struct {
		Content    string  `json:"content"`
		Similarity float32 `json:"similarity"`
	} `json:"results"`
}

// Login exchanges credentials for a bearer token and keeps it for
// subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp loginResponse
	if err := c.post(ctx, "/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("login response carried no access token")
	}
	c.token = resp.AccessToken
	return nil
}

// Search runs a query against the server and returns the ranked results.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	var resp searchResponse
	if err := c.post(ctx, "/api/search", searchRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, domain.SearchResult{Content: r.Content, Similarity: r.Similarity})
	}
	return results, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%s %s: %s (%s)", http.MethodPost, path, resp.Status, strings.TrimSpace(string(msg)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
