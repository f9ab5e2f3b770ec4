package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a rate-limited game API client. A single minimum spacing applies
// to every request issued through one Client, regardless of section or
// caller; it is not a per-category budget.
type Client struct {
	BaseURL string
	apiKey  string

	minInterval time.Duration
	httpClient  *http.Client

	// injectable for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	lastRequest time.Time
}

// NewClient creates a client enforcing minInterval between requests.
func NewClient(baseURL, apiKey string, minInterval time.Duration) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		minInterval: minInterval,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		now:         time.Now,
		sleep:       sleepContext,
	}
}

// Fetch issues one GET to /<section>[/<id>]?key=...&selections=... after
// waiting out the remainder of the minimum request interval. The last-request
// timestamp advances on every attempt, success or failure, since the attempt
// consumed rate-limit budget either way.
func (c *Client) Fetch(ctx context.Context, section string, selections []string, id string) (map[string]json.RawMessage, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	endpoint := c.BaseURL + "/" + section
	if id != "" {
		endpoint += "/" + url.PathEscape(id)
	}
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("selections", strings.Join(dedupe(selections), ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	c.lastRequest = c.now()
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: fmt.Sprintf("read body: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindHTTP, Code: resp.StatusCode, Message: string(body)}
	}

	// The API signals rejection inside an otherwise-200 response:
	// {"error": {"code": n, "error": "message"}}
	var envelope struct {
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"error"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &Error{Kind: KindTransport, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if envelope.Error != nil {
		return nil, &Error{Kind: KindAPIRejected, Code: envelope.Error.Code, Message: envelope.Error.Message}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &Error{Kind: KindTransport, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return raw, nil
}

// throttle suspends the caller until the minimum interval since the last
// request has elapsed. The wait observes ctx so shutdown isn't stuck behind
// a long rate-limit sleep.
func (c *Client) throttle(ctx context.Context) error {
	if c.lastRequest.IsZero() {
		return nil
	}
	elapsed := c.now().Sub(c.lastRequest)
	if elapsed >= c.minInterval {
		return nil
	}
	wait := c.minInterval - elapsed
	log.Printf("[INFO] rate limit: waiting %s before next request", wait.Round(time.Millisecond))
	return c.sleep(ctx, wait)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// dedupe removes repeated selections while preserving first-seen order.
func dedupe(selections []string) []string {
	seen := make(map[string]bool, len(selections))
	out := make([]string, 0, len(selections))
	for _, s := range selections {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
