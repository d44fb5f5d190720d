package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domain "github.com/pickupwatch/pickupwatch/pkg/types"
)

const defaultPushoverURL = "https://api.pushover.net/1/messages.json"

// PushoverNotifier implements Notifier via the Pushover message API.
type PushoverNotifier struct {
	token   string
	userKey string
	apiURL  string
	client  *http.Client
}

// PushoverOption configures a PushoverNotifier.
type PushoverOption func(*PushoverNotifier)

// WithPushoverURL overrides the Pushover API endpoint.
func WithPushoverURL(u string) PushoverOption {
	return func(p *PushoverNotifier) {
		p.apiURL = u
	}
}

// WithPushoverHTTPClient sets a custom HTTP client.
func WithPushoverHTTPClient(c *http.Client) PushoverOption {
	return func(p *PushoverNotifier) {
		p.client = c
	}
}

// NewPushoverNotifier creates a notifier for the given application token
// and user key.
func NewPushoverNotifier(token, userKey string, opts ...PushoverOption) *PushoverNotifier {
	p := &PushoverNotifier{
		token:   token,
		userKey: userKey,
		apiURL:  defaultPushoverURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Send delivers a notification through Pushover.
func (p *PushoverNotifier) Send(ctx context.Context, n Notification) error {
	form := url.Values{}
	form.Set("token", p.token)
	form.Set("user", p.userKey)
	form.Set("title", n.Title)
	form.Set("message", n.Body)
	form.Set("priority", pushoverPriority(n.Priority))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.apiURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("creating pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending pushover message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("pushover returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("pushover returned %d: %s", resp.StatusCode, body)
	}

	return nil
}

func pushoverPriority(p domain.Priority) string {
	if p == domain.PriorityHigh {
		return "1"
	}
	return "0"
}
