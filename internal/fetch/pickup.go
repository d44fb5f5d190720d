package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultTimeout = 10 * time.Second

// defaultUserAgents is the rotation pool used when no custom agents are
// configured. Each fresh transport identity picks the next one.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// PickupClient implements Fetcher against the retail pickup-message
// endpoint. Each transport identity is a dedicated http.Client with its
// own cookie jar and user agent; Teardown discards it so the following
// Fetch starts from a clean session.
type PickupClient struct {
	baseURL  string
	part     string
	store    string
	location string
	timeout  time.Duration

	userAgents []string
	limiter    *rate.Limiter

	mu      sync.Mutex
	client  *http.Client
	ua      string
	uaIndex int
}

// PickupOption configures the PickupClient.
type PickupOption func(*PickupClient)

// WithBaseURL overrides the pickup-message endpoint.
func WithBaseURL(u string) PickupOption {
	return func(c *PickupClient) {
		c.baseURL = u
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) PickupOption {
	return func(c *PickupClient) {
		c.timeout = d
	}
}

// WithLocation sets the optional location hint sent to the upstream.
func WithLocation(loc string) PickupOption {
	return func(c *PickupClient) {
		c.location = loc
	}
}

// WithUserAgents overrides the user agent rotation pool.
func WithUserAgents(agents []string) PickupOption {
	return func(c *PickupClient) {
		if len(agents) > 0 {
			c.userAgents = agents
		}
	}
}

// WithLimiter injects a rate limiter that gates every upstream call.
func WithLimiter(l *rate.Limiter) PickupOption {
	return func(c *PickupClient) {
		c.limiter = l
	}
}

// NewPickupClient creates a Fetcher for the given part and store.
func NewPickupClient(baseURL, part, store string, opts ...PickupOption) *PickupClient {
	c := &PickupClient{
		baseURL:    baseURL,
		part:       part,
		store:      store,
		timeout:    defaultTimeout,
		userAgents: defaultUserAgents,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the raw pickup-message payload. Failures are reported
// as *Error with the observed status code or timeout flag set.
func (c *PickupClient) Fetch(ctx context.Context) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Err: fmt.Errorf("rate limiter wait: %w", err)}
		}
	}

	client, ua := c.session()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(), http.NoBody)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &Error{Timeout: true, Err: err}
		}
		return nil, &Error{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("upstream status %d: %s", resp.StatusCode, truncate(body, 200)),
		}
	}

	return body, nil
}

// Teardown discards the current transport identity. The next Fetch
// builds a new client with an empty cookie jar and the next user agent.
func (c *PickupClient) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = nil
	c.ua = ""
}

// session returns the current transport identity, building a fresh one
// if the previous identity was torn down.
func (c *PickupClient) session() (*http.Client, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		jar, _ := cookiejar.New(nil)
		c.client = &http.Client{
			Timeout: c.timeout,
			Jar:     jar,
		}
		c.ua = c.userAgents[c.uaIndex%len(c.userAgents)]
		c.uaIndex++
	}

	return c.client, c.ua
}

func (c *PickupClient) requestURL() string {
	params := url.Values{}
	params.Set("parts.0", c.part)
	params.Set("store", c.store)
	params.Set("little", "true")
	if c.location != "" {
		params.Set("location", c.location)
	}
	return c.baseURL + "?" + params.Encode()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
