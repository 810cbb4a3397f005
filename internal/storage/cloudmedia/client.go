package cloudmedia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/ohanalens/go-gallery/internal/logging"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultRetryMax   = 3
	defaultRetryMin   = 500 * time.Millisecond
	defaultRetryCeil  = 5 * time.Second
	headerAPIKey      = "X-Api-Key"
	headerTimestamp   = "X-Signature-Timestamp"
	headerSignature   = "X-Signature"
	assetsPathPrefix  = "/v1/assets"
	usagePath         = "/v1/usage"
)

// Config carries the CDN account credentials and endpoint.
type Config struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

// Client talks to the remote media CDN. It implements both the storage and
// the usage-reporting contracts.
type Client struct {
	baseURL string
	apiKey  string
	signer  signer
	http    *http.Client
	now     func() time.Time
	logger  interfaces.Logger
}

var (
	_ interfaces.MediaStorage  = (*Client)(nil)
	_ interfaces.UsageReporter = (*Client)(nil)
)

// ClientOption customises the CDN client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client. Retries are the
// caller's responsibility when this is used.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithClock overrides the signature timestamp source.
func WithClock(clock func() time.Time) ClientOption {
	return func(c *Client) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithLogger attaches a logger provider to the client.
func WithLogger(provider interfaces.LoggerProvider) ClientOption {
	return func(c *Client) {
		c.logger = logging.StorageLogger(provider)
	}
}

// NewClient constructs a CDN client with retrying transport defaults. The
// retry policy treats 429 as non-retryable so the admission flow can surface
// provider throttling instead of burning the remaining quota on retries.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("cloudmedia: base URL is required")
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudmedia: credentials are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		signer:  signer{secret: cfg.APISecret},
		now:     time.Now,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = defaultRetryMax
		retryClient.RetryWaitMin = defaultRetryMin
		retryClient.RetryWaitMax = defaultRetryCeil
		retryClient.Logger = retryLogger{logger: c.logger}
		retryClient.CheckRetry = noRetryOnThrottle

		standard := retryClient.StandardClient()
		standard.Timeout = timeout
		c.http = standard
	}

	return c, nil
}

// noRetryOnThrottle wraps the default retry policy but passes 429 through.
func noRetryOnThrottle(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil && resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

type uploadResponse struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
	Format   string `json:"format"`
	Bytes    int64  `json:"bytes"`
}

func (c *Client) Upload(ctx context.Context, req interfaces.UploadRequest) (*interfaces.StoredObject, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, fmt.Errorf("cloudmedia: build upload form: %w", err)
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, fmt.Errorf("cloudmedia: build upload form: %w", err)
	}
	if err := writer.WriteField("path", req.Path); err != nil {
		return nil, fmt.Errorf("cloudmedia: build upload form: %w", err)
	}
	if err := writer.WriteField("kind", string(req.Kind)); err != nil {
		return nil, fmt.Errorf("cloudmedia: build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("cloudmedia: build upload form: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, assetsPathPrefix, &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("cloudmedia: upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.statusError("upload", resp)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("cloudmedia: decode upload response: %w", err)
	}

	return &interfaces.StoredObject{
		PublicID: out.PublicID,
		URL:      out.URL,
		Format:   out.Format,
		Size:     out.Bytes,
	}, nil
}

func (c *Client) Delete(ctx context.Context, publicID string) error {
	path := assetsPathPrefix + "/" + url.PathEscape(publicID)

	httpReq, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("cloudmedia: delete: %w", err)
	}
	defer resp.Body.Close()

	// A missing asset is a successful delete; the desired state holds.
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.statusError("delete", resp)
	}
	return nil
}

type deletePrefixResponse struct {
	Deleted int `json:"deleted"`
}

func (c *Client) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	path := assetsPathPrefix + "?prefix=" + url.QueryEscape(prefix)

	httpReq, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("cloudmedia: delete prefix: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, c.statusError("delete prefix", resp)
	}

	var out deletePrefixResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("cloudmedia: decode delete response: %w", err)
	}
	return out.Deleted, nil
}

func (c *Client) Exists(ctx context.Context, publicID string) (bool, error) {
	path := assetsPathPrefix + "/" + url.PathEscape(publicID)

	httpReq, err := c.newRequest(ctx, http.MethodHead, path, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("cloudmedia: exists: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, c.statusError("exists", resp)
	}
}

type usageResponse struct {
	Plan    string `json:"plan"`
	Storage struct {
		UsedBytes int64 `json:"usedBytes"`
	} `json:"storage"`
	Limits struct {
		ImageMaxSizeBytes int64 `json:"imageMaxSizeBytes"`
		VideoMaxSizeBytes int64 `json:"videoMaxSizeBytes"`
		RawMaxSizeBytes   int64 `json:"rawMaxSizeBytes"`
		ImageMaxPx        int64 `json:"imageMaxPx"`
		AssetMaxTotalPx   int64 `json:"assetMaxTotalPx"`
	} `json:"limits"`
	RateLimit struct {
		Allowed   int       `json:"allowed"`
		Remaining int       `json:"remaining"`
		ResetAt   time.Time `json:"resetAt"`
	} `json:"rateLimit"`
}

func (c *Client) Usage(ctx context.Context) (*interfaces.AccountUsage, error) {
	httpReq, err := c.newRequest(ctx, http.MethodGet, usagePath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("cloudmedia: usage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError("usage", resp)
	}

	var out usageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("cloudmedia: decode usage response: %w", err)
	}

	return &interfaces.AccountUsage{
		Plan:               out.Plan,
		StorageUsedBytes:   out.Storage.UsedBytes,
		ImageMaxSizeBytes:  out.Limits.ImageMaxSizeBytes,
		VideoMaxSizeBytes:  out.Limits.VideoMaxSizeBytes,
		RawMaxSizeBytes:    out.Limits.RawMaxSizeBytes,
		ImageMaxPx:         out.Limits.ImageMaxPx,
		AssetMaxTotalPx:    out.Limits.AssetMaxTotalPx,
		RateLimitAllowed:   out.RateLimit.Allowed,
		RateLimitRemaining: out.RateLimit.Remaining,
		RateLimitResetAt:   out.RateLimit.ResetAt,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("cloudmedia: build request: %w", err)
	}

	// Signatures cover the path without its query so prefix deletes and
	// plain deletes sign identically for the same resource path.
	signedPath := path
	if i := strings.IndexByte(signedPath, '?'); i >= 0 {
		signedPath = signedPath[:i]
	}

	ts := c.now()
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set(headerTimestamp, fmt.Sprintf("%d", ts.Unix()))
	req.Header.Set(headerSignature, c.signer.sign(method, signedPath, ts))
	return req, nil
}

func (c *Client) statusError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	c.logger.Warn("cdn request failed", "op", op, "status", resp.StatusCode)
	return fmt.Errorf("cloudmedia: %s failed with status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(snippet)))
}

// retryLogger adapts the module logger to retryablehttp's leveled contract.
// Transient errors log at warn because the client is about to retry them.
type retryLogger struct {
	logger interfaces.Logger
}

func (l retryLogger) Error(msg string, kv ...any) { l.logger.Warn(msg, kv...) }
func (l retryLogger) Warn(msg string, kv ...any)  { l.logger.Warn(msg, kv...) }
func (l retryLogger) Info(msg string, kv ...any)  { l.logger.Info(msg, kv...) }
func (l retryLogger) Debug(msg string, kv ...any) { l.logger.Debug(msg, kv...) }
