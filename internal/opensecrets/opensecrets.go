// Package opensecrets wraps the OpenSecrets disclosure API. The key
// travels as an `apikey` query parameter; all calls request JSON output.
package opensecrets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Legislator is one member returned by getLegislators.
type Legislator struct {
	CID        string `json:"cid"`
	FirstLast  string `json:"firstlast"`
	Party      string `json:"party"`
	Office     string `json:"office"`
	BioguideID string `json:"bioguide_id"`
}

// Contributor is one top-contributor aggregate.
type Contributor struct {
	OrgName string  `json:"org_name"`
	Total   float64 `json:"total,string"`
	PACs    float64 `json:"pacs,string"`
	Indivs  float64 `json:"indivs,string"`
}

// Industry is one industry-level contribution aggregate.
type Industry struct {
	IndustryName string  `json:"industry_name"`
	IndustryCode string  `json:"industry_code"`
	Total        float64 `json:"total,string"`
	PACs         float64 `json:"pacs,string"`
	Indivs       float64 `json:"indivs,string"`
}

// Client talks to the OpenSecrets API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates an OpenSecrets client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	query := url.Values{}
	for k, vs := range params {
		query[k] = vs
	}
	query.Set("apikey", c.apiKey)
	query.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opensecrets api: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// attributes unwraps the OpenSecrets convention of nesting every record
// under an "@attributes" object.
type attributes[T any] struct {
	Attributes T `json:"@attributes"`
}

// LegislatorsByState lists current legislators for a two-letter state.
func (c *Client) LegislatorsByState(ctx context.Context, state string) ([]Legislator, error) {
	body, err := c.get(ctx, url.Values{
		"method": {"getLegislators"},
		"id":     {state},
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Response struct {
			Legislators struct {
				Legislator []attributes[Legislator] `json:"legislator"`
			} `json:"legislators"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding legislators: %w", err)
	}

	out := make([]Legislator, len(result.Response.Legislators.Legislator))
	for i, l := range result.Response.Legislators.Legislator {
		out[i] = l.Attributes
	}
	return out, nil
}

// TopContributors lists top contributing organizations for a candidate.
func (c *Client) TopContributors(ctx context.Context, cid string) ([]Contributor, error) {
	body, err := c.get(ctx, url.Values{
		"method": {"candContrib"},
		"cid":    {cid},
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Response struct {
			Contributors struct {
				Contributor []attributes[Contributor] `json:"contributor"`
			} `json:"contributors"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding contributors: %w", err)
	}

	out := make([]Contributor, len(result.Response.Contributors.Contributor))
	for i, item := range result.Response.Contributors.Contributor {
		out[i] = item.Attributes
	}
	return out, nil
}

// IndustryContributions lists industry-level aggregates for a candidate.
func (c *Client) IndustryContributions(ctx context.Context, cid string) ([]Industry, error) {
	body, err := c.get(ctx, url.Values{
		"method": {"candIndustry"},
		"cid":    {cid},
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Response struct {
			Industries struct {
				Industry []attributes[Industry] `json:"industry"`
			} `json:"industries"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding industries: %w", err)
	}

	out := make([]Industry, len(result.Response.Industries.Industry))
	for i, item := range result.Response.Industries.Industry {
		out[i] = item.Attributes
	}
	return out, nil
}
