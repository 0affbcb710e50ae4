// Package gateway implements domain.ProviderGateway by speaking the proxy
// gateway's request envelope over HTTP. The caller's app password is
// supplied explicitly at construction and sent on every call; provider
// credentials never appear on this side of the boundary.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fundbench/fundbench-backend/internal/payload"
)

// Client calls the proxy gateway
type Client struct {
	baseURL  string
	password string
	http     *http.Client
}

// NewClient creates a new Client instance pointed at a proxy gateway
func NewClient(baseURL, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		password: password,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// envelope is the proxy request shape; zero-valued fields are omitted
type envelope struct {
	Action     string `json:"action"`
	PBID       string `json:"pbId,omitempty"`
	HarmonicID string `json:"harmonicId,omitempty"`
	Domain     string `json:"domain,omitempty"`
	UseSandbox bool   `json:"useSandbox,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

// call posts one envelope and decodes the success body into out
func (c *Client) call(ctx context.Context, env envelope, out interface{}) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode proxy request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/proxy", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build proxy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-App-Password", c.password)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("proxy request failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read proxy response: %w", err)
	}

	var eb errorBody
	if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
		return errors.New(eb.Error)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("proxy returned status %d", res.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode proxy response: %w", err)
	}
	return nil
}

// VerifyPassword checks the configured password against the gateway
// without touching any upstream.
func (c *Client) VerifyPassword(ctx context.Context) error {
	return c.call(ctx, envelope{Action: "verify_password"}, nil)
}

// PitchBookCompany fetches the company bio for a PitchBook identifier
func (c *Client) PitchBookCompany(ctx context.Context, pbID string, sandbox bool) (*payload.PBCompany, error) {
	var out payload.PBCompany
	if err := c.call(ctx, envelope{Action: "pb_company", PBID: pbID, UseSandbox: sandbox}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PitchBookDeals fetches the deal summaries for a company
func (c *Client) PitchBookDeals(ctx context.Context, pbID string, sandbox bool) (*payload.PBDealList, error) {
	var out payload.PBDealList
	if err := c.call(ctx, envelope{Action: "pb_deals", PBID: pbID, UseSandbox: sandbox}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PitchBookDealDetail fetches the detailed record for one deal
func (c *Client) PitchBookDealDetail(ctx context.Context, dealID string, sandbox bool) (*payload.PBDeal, error) {
	var out payload.PBDeal
	if err := c.call(ctx, envelope{Action: "pb_deal_details", PBID: dealID, UseSandbox: sandbox}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PitchBookCredits fetches the current credits-usage snapshot
func (c *Client) PitchBookCredits(ctx context.Context, sandbox bool) (*payload.PBCredits, error) {
	var out payload.PBCredits
	if err := c.call(ctx, envelope{Action: "pb_credits", UseSandbox: sandbox}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchByDomain searches Harmonic for companies on a bare domain
func (c *Client) SearchByDomain(ctx context.Context, domain string) (*payload.HarmonicSearch, error) {
	var out payload.HarmonicSearch
	if err := c.call(ctx, envelope{Action: "h_search", Domain: domain}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HarmonicCompany fetches the full Harmonic company record by id
func (c *Client) HarmonicCompany(ctx context.Context, harmonicID string) (*payload.HarmonicCompany, error) {
	var out payload.HarmonicCompany
	if err := c.call(ctx, envelope{Action: "h_company", HarmonicID: harmonicID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
