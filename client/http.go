package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) SetToken(token string) {
	c.Token = token
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.get(ctx, "/health")
	if err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}
	return &health, nil
}

// ListProposals fetches one page of proposals. Sorting is done server
// side: sortColumn names a proposal field and sortDirection is "asc"
// or "desc". Both may be empty for the server default ordering.
func (c *Client) ListProposals(ctx context.Context, page, pageSize int, sortColumn, sortDirection string) (*ProposalPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if sortColumn != "" {
		q.Set("sort", sortColumn)
		q.Set("direction", sortDirection)
	}
	resp, err := c.get(ctx, "/api/v1/proposals?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	var result ProposalPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode proposals: %w", err)
	}
	return &result, nil
}

func (c *Client) GetProposal(ctx context.Context, id string) (*Proposal, error) {
	resp, err := c.get(ctx, "/api/v1/proposals/"+url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	var result Proposal
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	return &result, nil
}

// ListActivity fetches one page of the platform activity feed, newest
// first.
func (c *Client) ListActivity(ctx context.Context, page, pageSize int) (*ActivityPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	resp, err := c.get(ctx, "/api/v1/activity?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	var result ActivityPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}
	return &result, nil
}

// -- HTTP helpers -------------------------------------------------------------

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var apiErr ErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		return fmt.Errorf("API %d: %s — %s", resp.StatusCode, apiErr.Error, apiErr.Details)
	}
	return fmt.Errorf("API %d: %s", resp.StatusCode, string(body))
}
