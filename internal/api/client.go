package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/evemarkets/crest-trawler/internal/version"
)

// Client provides access to the CREST market API.
//
// A Client is safe for use by one caller at a time; concurrent polling
// uses a pool of Clients rather than sharing one.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger

	cache *responseCache
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new CREST API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   baseURL,
		userAgent: version.UserAgent(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
		cache:  newResponseCache(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// PurgeMarketCache evicts cached market-order responses from this client.
func (c *Client) PurgeMarketCache() int {
	return c.cache.purge("/market/")
}

// CacheSize returns the number of cached responses held by this client.
func (c *Client) CacheSize() int {
	return c.cache.size()
}
