package mojang

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultRateLimitSleep = time.Minute
	defaultMaxAttempts    = 5
)

// Client

type Client struct {
	httpClient *http.Client
	ownsClient bool
	baseURL    *BaseURL

	retryOnRateLimit bool
	rateLimitSleep   time.Duration
	maxAttempts      int

	log zerolog.Logger
}

// New returns a Client with its own transport and the default retry policy.
func New() *Client {
	return NewWithOptions()
}

func NewWithOptions(opts ...Option) *Client {
	c := &Client{
		httpClient:       &http.Client{},
		ownsClient:       true,
		baseURL:          NewMojangBaseURL(),
		retryOnRateLimit: true,
		rateLimitSleep:   defaultRateLimitSleep,
		maxAttempts:      defaultMaxAttempts,
		log:              zerolog.Nop(),
	}
	for _, opt := range opts {
		opt.configure(c)
	}
	return c
}

// Close releases the transport if the Client owns it. Clients built with
// WithHTTPClient leave the transport's lifecycle to the caller. Safe to call
// more than once.
func (c *Client) Close() {
	if c.ownsClient {
		c.httpClient.CloseIdleConnections()
	}
}

// Options

type optionFunc func(*Client)
type Option struct{ configure optionFunc }

// WithHTTPClient makes the Client send requests through client. The caller
// keeps ownership; Close will not touch it. client must be safe for
// concurrent use.
func WithHTTPClient(client *http.Client) Option {
	return Option{func(c *Client) {
		c.httpClient = client
		c.ownsClient = false
	}}
}

func WithBaseURL(baseURL *BaseURL) Option {
	return Option{func(c *Client) {
		c.baseURL = baseURL
	}}
}

// WithRetryOnRateLimit controls whether HTTP 429 responses are waited out
// and retried. Enabled by default.
func WithRetryOnRateLimit(enabled bool) Option {
	return Option{func(c *Client) {
		c.retryOnRateLimit = enabled
	}}
}

// WithRateLimitSleep sets the pause before retrying a rate-limited request.
func WithRateLimitSleep(d time.Duration) Option {
	return Option{func(c *Client) {
		c.rateLimitSleep = d
	}}
}

// WithMaxAttempts bounds the attempts per call, counting the first one.
// Values below 1 are clamped to 1.
func WithMaxAttempts(n int) Option {
	return Option{func(c *Client) {
		if n < 1 {
			n = 1
		}
		c.maxAttempts = n
	}}
}

func WithLogger(log zerolog.Logger) Option {
	return Option{func(c *Client) {
		c.log = log
	}}
}
