// Package netradyne implements the vendor API client used by the scores
// pipeline: token acquisition with reuse, and the monthly fleet score fetch.
package netradyne

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/fleetops/scorecard-etl/internal/config"
)

// Score is one driver's monthly score as reported by the fleet API. The API
// does not report analyzed minutes; callers default that field.
type Score struct {
	DriverID string
	Score    int
}

// Client talks to the vendor API. Construct with NewClient.
type Client struct {
	cfg    config.Netradyne
	http   *http.Client
	logger *slog.Logger
}

// NewClient builds a client from the vendor configuration.
func NewClient(cfg config.Netradyne, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{},
		logger: logger,
	}
}

type tokenInfo struct {
	AccessToken string `json:"accessToken"`
	ExpiresOn   int64  `json:"expiresOn"` // ms since epoch
}

type tokenListResponse struct {
	Data []tokenInfo `json:"data"`
}

type tokenCreateResponse struct {
	Data tokenInfo `json:"data"`
}

type scoreResponse struct {
	Data struct {
		Scores []struct {
			Driver struct {
				DriverID string `json:"driverId"`
			} `json:"driver"`
			Score *int `json:"score"`
		} `json:"scores"`
	} `json:"data"`
}

// Token returns a valid access token, preferring an existing unexpired token
// over minting a new one. Among unexpired tokens the one expiring last wins.
func (c *Client) Token(ctx context.Context) (string, error) {
	if tok, err := c.existingToken(ctx); err != nil {
		c.logger.Warn("listing existing tokens failed, minting a new one", "error", err)
	} else if tok != "" {
		return tok, nil
	}
	return c.mintToken(ctx)
}

func (c *Client) existingToken(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.AuthTimeout)
	defer cancel()

	// The token list endpoint is the mint endpoint pluralized.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.AuthURL+"s", nil)
	if err != nil {
		return "", fmt.Errorf("build token list request: %w", err)
	}
	c.basicAuth(req)

	var body tokenListResponse
	if err := c.do(req, &body); err != nil {
		return "", fmt.Errorf("list tokens: %w", err)
	}

	nowMS := time.Now().UnixMilli()
	var valid []tokenInfo
	for _, t := range body.Data {
		if t.ExpiresOn > nowMS && t.AccessToken != "" {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		c.logger.Info("no valid existing tokens")
		return "", nil
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].ExpiresOn > valid[j].ExpiresOn })
	c.logger.Info("reusing existing token",
		"expiresOn", time.UnixMilli(valid[0].ExpiresOn).UTC().Format(time.RFC3339))
	return valid[0].AccessToken, nil
}

func (c *Client) mintToken(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.AuthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, nil)
	if err != nil {
		return "", fmt.Errorf("build token mint request: %w", err)
	}
	c.basicAuth(req)

	var body tokenCreateResponse
	if err := c.do(req, &body); err != nil {
		return "", fmt.Errorf("mint token: %w", err)
	}
	if body.Data.AccessToken == "" {
		return "", fmt.Errorf("mint token: response carried no access token")
	}
	c.logger.Info("minted new access token")
	return body.Data.AccessToken, nil
}

// FleetScores fetches one month of driver scores. month is the first instant
// of the target month; the API addresses months by their UTC ms epoch.
func (c *Client) FleetScores(ctx context.Context, month time.Time) ([]Score, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ScoreEndpoint(), nil)
	if err != nil {
		return nil, fmt.Errorf("build score request: %w", err)
	}
	req.Header.Set("Accept-Language", "en-US")
	req.Header.Set("Authorization", "Bearer "+token)

	q := url.Values{}
	q.Set("time", strconv.FormatInt(month.UTC().UnixMilli(), 10))
	q.Set("interval", "monthly")
	q.Set("limit", "1000")
	req.URL.RawQuery = q.Encode()

	var body scoreResponse
	if err := c.do(req, &body); err != nil {
		return nil, fmt.Errorf("fetch fleet scores: %w", err)
	}

	var scores []Score
	for _, s := range body.Data.Scores {
		if s.Driver.DriverID == "" || s.Score == nil {
			c.logger.Warn("skipping score entry with missing driver or score")
			continue
		}
		scores = append(scores, Score{DriverID: s.Driver.DriverID, Score: *s.Score})
	}
	c.logger.Info("retrieved fleet scores", "count", len(scores))
	return scores, nil
}

func (c *Client) basicAuth(req *http.Request) {
	req.Header.Set("Accept-Language", "en-US")
	req.Header.Set("Authorization", "Basic "+c.cfg.BasicAuth)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, data)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}
