// Package congress wraps the Congress.gov v3 API. The key travels in
// the X-API-Key header; missing payload fields default to empty values
// rather than failing the caller.
package congress

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

// Bill is a bill list or detail record. Only the fields the ingestion
// pipeline consumes are decoded.
type Bill struct {
	Congress       int     `json:"congress"`
	Type           string  `json:"type"`
	Number         string  `json:"number"`
	Title          string  `json:"title"`
	IntroducedDate string  `json:"introducedDate"`
	LatestAction   *Action `json:"latestAction"`
	Sponsors       []struct {
		BioguideID string `json:"bioguideId"`
		FirstName  string `json:"firstName"`
		LastName   string `json:"lastName"`
		FullName   string `json:"fullName"`
		Party      string `json:"party"`
		State      string `json:"state"`
	} `json:"sponsors"`
	Summary *struct {
		Text string `json:"text"`
	} `json:"summary"`
}

// Action is a bill's latest recorded action.
type Action struct {
	ActionDate string `json:"actionDate"`
	Text       string `json:"text"`
}

// MemberVote is one recorded vote of a member.
type MemberVote struct {
	BillTitle string `json:"billTitle"`
	Position  string `json:"position"`
	VoteDate  string `json:"voteDate"`
}

// Client talks to the Congress.gov API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Congress.gov client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("congress api: invalid API key (403)")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("congress api: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// RecentBills lists bills for a congress, most recently updated first.
func (c *Client) RecentBills(ctx context.Context, congress, limit, offset int) ([]Bill, error) {
	body, err := c.get(ctx, fmt.Sprintf("/bill/%d", congress), url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Bills []Bill `json:"bills"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding bill list: %w", err)
	}
	return result.Bills, nil
}

// BillDetail fetches one bill's full record.
func (c *Client) BillDetail(ctx context.Context, congress int, billType, number string) (*Bill, error) {
	body, err := c.get(ctx, fmt.Sprintf("/bill/%d/%s/%s", congress, billType, number), url.Values{})
	if err != nil {
		return nil, err
	}

	var result struct {
		Bill Bill `json:"bill"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding bill detail: %w", err)
	}
	return &result.Bill, nil
}

// MemberVotes lists recorded votes for a member by bioguide ID.
func (c *Client) MemberVotes(ctx context.Context, bioguideID string) ([]MemberVote, error) {
	body, err := c.get(ctx, "/member/"+bioguideID+"/votes", url.Values{
		"limit": {"100"},
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Votes []MemberVote `json:"votes"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding member votes: %w", err)
	}
	return result.Votes, nil
}

// Proxy forwards an arbitrary endpoint+query to the upstream API with
// the server-side key injected, returning status and raw body. Used by
// the /api/congress route.
func (c *Client) Proxy(ctx context.Context, endpoint string, query url.Values) (int, []byte, error) {
	requestURL := c.baseURL + endpoint
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// SummaryText returns the bill's summary text, or "" when absent.
func (b *Bill) SummaryText() string {
	if b.Summary == nil {
		return ""
	}
	return b.Summary.Text
}

// StatusText returns the latest action text, or "" when absent.
func (b *Bill) StatusText() string {
	if b.LatestAction == nil {
		return ""
	}
	return b.LatestAction.Text
}
