package bitmex

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	MainnetBaseURL = "https://www.bitmex.com/api/v1"
	TestnetBaseURL = "https://testnet.bitmex.com/api/v1"

	defaultTimeout       = 10 * time.Second
	defaultExpiresWindow = 5 * time.Second
)

// Credentials is one API key pair. A zero value means unauthenticated:
// public market data still works, account endpoints get rejected by the
// venue.
type Credentials struct {
	Key    string
	Secret string
}

func (c Credentials) IsZero() bool {
	return c.Key == ""
}

// RateLimit mirrors the venue's x-ratelimit response headers.
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// APIError is a non-2xx response decoded from the venue's error envelope.
// Transport errors are returned as-is, never wrapped into APIError.
type APIError struct {
	Status  int
	Name    string
	Message string
}

func (e *APIError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("bitmex: http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("bitmex: http %d %s: %s", e.Status, e.Name, e.Message)
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Name    string `json:"name"`
	} `json:"error"`
}

// Client is a thin signed REST client for the BitMEX v1 API. It performs no
// retries and no rate limiting of its own; venue rejections and transport
// failures surface to the caller unchanged.
type Client struct {
	http          *resty.Client
	creds         Credentials
	basePath      string
	expiresWindow time.Duration
	now           func() time.Time

	rateMu sync.Mutex
	rate   RateLimit
}

type Option func(*Client)

// WithBaseURL overrides the venue URL, e.g. for a local test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(u)
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithExpiresWindow sets how far in the future signed requests expire.
func WithExpiresWindow(d time.Duration) Option {
	return func(c *Client) {
		c.expiresWindow = d
	}
}

func withClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func NewClient(creds Credentials, testnet bool, opts ...Option) *Client {
	baseURL := MainnetBaseURL
	if testnet {
		baseURL = TestnetBaseURL
	}

	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json"),
		creds:         creds,
		expiresWindow: defaultExpiresWindow,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if u, err := url.Parse(c.http.BaseURL); err == nil {
		c.basePath = u.Path
	}
	return c
}

// LastRateLimit reports the rate-limit headers of the most recent response.
func (c *Client) LastRateLimit() RateLimit {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()
	return c.rate
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) del(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any, out any) error {
	endpoint := path
	if len(params) > 0 {
		endpoint = path + "?" + params.Encode()
	}

	// The body is marshaled up front: the signature covers the exact bytes
	// that go on the wire.
	var payload string
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("bitmex: marshal request body: %w", err)
		}
		payload = string(raw)
	}

	req := c.http.R().SetContext(ctx)
	if payload != "" {
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}
	if !c.creds.IsZero() {
		expires := c.now().Add(c.expiresWindow).Unix()
		req.SetHeader("api-key", c.creds.Key)
		req.SetHeader("api-expires", strconv.FormatInt(expires, 10))
		req.SetHeader("api-signature", sign(c.creds.Secret, method, c.basePath+endpoint, expires, payload))
	}

	resp, err := req.Execute(method, endpoint)
	if err != nil {
		return err
	}
	c.recordRateLimit(resp.Header())

	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode(), Message: string(resp.Body())}
		var envelope errorEnvelope
		if jsonErr := json.Unmarshal(resp.Body(), &envelope); jsonErr == nil && envelope.Error.Message != "" {
			apiErr.Name = envelope.Error.Name
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("bitmex: decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) recordRateLimit(h http.Header) {
	limit, err := strconv.Atoi(h.Get("x-ratelimit-limit"))
	if err != nil {
		return
	}
	remaining, _ := strconv.Atoi(h.Get("x-ratelimit-remaining"))
	reset, _ := strconv.ParseInt(h.Get("x-ratelimit-reset"), 10, 64)

	c.rateMu.Lock()
	defer c.rateMu.Unlock()
	c.rate = RateLimit{
		Limit:     limit,
		Remaining: remaining,
		Reset:     time.Unix(reset, 0),
	}
}

// sign computes the BitMEX request signature:
// hex(HMAC-SHA256(secret, verb + path + expires + body)), where path
// includes the query string.
func sign(secret, verb, path string, expires int64, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(verb + path + strconv.FormatInt(expires, 10) + body))
	return hex.EncodeToString(mac.Sum(nil))
}
