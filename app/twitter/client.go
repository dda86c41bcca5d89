package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/lysyi3m/mention-comb/app/cfg"
)

const defaultBaseURL = "https://api.twitter.com/2"

// Client talks to the Twitter API v2. Searches run in app context with the
// bearer token; posting replies requires user context, signed with OAuth1.
type Client struct {
	httpClient  *http.Client
	oauthClient *http.Client
	baseURL     string
	bearerToken string
	userAgent   string
}

func NewClient(httpClient *http.Client) *Client {
	c := cfg.Get()

	oauthConfig := oauth1.NewConfig(c.ConsumerKey, c.ConsumerSecret)
	token := oauth1.NewToken(c.AccessToken, c.AccessSecret)

	return &Client{
		httpClient:  httpClient,
		oauthClient: oauthConfig.Client(oauth1.NoContext, token),
		baseURL:     defaultBaseURL,
		bearerToken: c.BearerToken,
		userAgent:   c.UserAgent,
	}
}

// SearchRecent fetches mentions newer than sinceID matching the query. On
// throttling (HTTP 429) it returns a nil response together with the parsed
// rate limit metadata and no error; throttling is an expected condition the
// caller handles, not a failure.
func (c *Client) SearchRecent(ctx context.Context, query, sinceID string, maxResults int) (*SearchResponse, RateLimit, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("tweet.fields", "author_id,lang,created_at")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username")
	params.Set("max_results", strconv.Itoa(maxResults))
	if sinceID != "" {
		params.Set("since_id", sinceID)
	}

	reqURL := c.baseURL + "/tweets/search/recent?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, RateLimit{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, RateLimit{}, fmt.Errorf("failed to search mentions: %w", err)
	}
	defer resp.Body.Close()

	rateLimit := parseRateLimit(resp.Header)

	if resp.StatusCode == http.StatusTooManyRequests {
		rateLimit.Limited = true
		return nil, rateLimit, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, rateLimit, fmt.Errorf("search request failed: %d %s: %s", resp.StatusCode, resp.Status, body)
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, rateLimit, fmt.Errorf("failed to decode search response: %w", err)
	}

	return &searchResp, rateLimit, nil
}

// PostReply posts text as a reply to the given tweet id, signed with the
// user-context OAuth1 credentials.
func (c *Client) PostReply(ctx context.Context, text, inReplyToID string) error {
	payload := map[string]interface{}{
		"text": text,
		"reply": map[string]string{
			"in_reply_to_tweet_id": inReplyToID,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode reply payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tweets", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.oauthClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post reply: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("reply request failed: %d %s: %s", resp.StatusCode, resp.Status, respBody)
	}

	return nil
}

func parseRateLimit(header http.Header) RateLimit {
	rl := RateLimit{Remaining: -1}

	if v := header.Get("x-rate-limit-remaining"); v != "" {
		if remaining, err := strconv.Atoi(v); err == nil {
			rl.Remaining = remaining
		}
	}
	if v := header.Get("x-rate-limit-reset"); v != "" {
		if reset, err := strconv.ParseInt(v, 10, 64); err == nil {
			rl.Reset = time.Unix(reset, 0)
		}
	}

	return rl
}
