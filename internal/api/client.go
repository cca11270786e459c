// Package api is the HTTP client for the remote card and progress service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/gateway"
	"github.com/abhisek/nudge/internal/session"
)

const maxBodyBytes = 4 << 20

// Client talks to the remote API. Every call passes through one circuit
// breaker; card documents are cached briefly since they never change.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	breaker *gobreaker.CircuitBreaker
	cards   *expirable.LRU[string, *card.Document]

	cacheSize       int
	cacheTTL        time.Duration
	breakerFailures uint32
	breakerTimeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithCardCache sizes the card document cache. A size of zero disables it.
func WithCardCache(size int, ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheSize = size
		c.cacheTTL = ttl
	}
}

// WithBreaker sets how many consecutive failures open the breaker and how
// long it stays open.
func WithBreaker(failures uint32, openFor time.Duration) Option {
	return func(c *Client) {
		c.breakerFailures = failures
		c.breakerTimeout = openFor
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		http:            &http.Client{Timeout: 15 * time.Second},
		logger:          zap.NewNop(),
		cacheSize:       64,
		cacheTTL:        10 * time.Minute,
		breakerFailures: 5,
		breakerTimeout:  30 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.Named("api")

	if c.cacheSize > 0 {
		c.cards = expirable.NewLRU[string, *card.Document](c.cacheSize, nil, c.cacheTTL)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "remote-api",
		Timeout: c.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.breakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || clientFault(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return c
}

// BreakerState reports the circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// FetchCardDocument fetches and decodes the document for interactionID.
func (c *Client) FetchCardDocument(ctx context.Context, sess session.Session, interactionID string) (*card.Document, error) {
	key := sess.AppID + "/" + interactionID
	if c.cards != nil {
		if doc, ok := c.cards.Get(key); ok {
			return doc, nil
		}
	}

	q := url.Values{}
	q.Set("user_id", sess.UserID)
	q.Set("app_id", sess.AppID)
	path := PathCards + "/" + url.PathEscape(interactionID)

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, q, nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch card %s: %w", interactionID, err)
	}
	doc, err := card.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("fetch card %s: %w", interactionID, err)
	}

	if c.cards != nil {
		c.cards.Add(key, doc)
	}
	return doc, nil
}

// PushProgress stores a progress snapshot. It satisfies gateway.Remote.
func (c *Client) PushProgress(ctx context.Context, p gateway.Payload) error {
	if err := c.do(ctx, http.MethodPost, PathProgress, nil, p, nil); err != nil {
		return fmt.Errorf("push progress %s: %w", p.InteractionID, err)
	}
	return nil
}

// FetchPriorProgress lists the stored progress for the session.
func (c *Client) FetchPriorProgress(ctx context.Context, sess session.Session) ([]ProgressRecord, error) {
	var resp ListResponse[ProgressRecord]
	if err := c.do(ctx, http.MethodGet, PathProgress, sessionQuery(sess), nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch progress: %w", err)
	}
	return resp.Items, nil
}

// FetchNotifications lists pending notifications for the session.
func (c *Client) FetchNotifications(ctx context.Context, sess session.Session) ([]Notification, error) {
	var resp ListResponse[Notification]
	if err := c.do(ctx, http.MethodGet, PathNotifications, sessionQuery(sess), nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}
	return resp.Items, nil
}

// TriggerAction reports a user action and returns the nudge the backend
// created for it. The new notification shows up in FetchNotifications.
func (c *Client) TriggerAction(ctx context.Context, sess session.Session, action string, details map[string]string) (*ActionResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if action == "" {
		return nil, fmt.Errorf("trigger action: action is required")
	}
	req := ActionRequest{UserID: sess.UserID, AppID: sess.AppID, Action: action, Details: details}
	var resp ActionResponse
	if err := c.do(ctx, http.MethodPost, PathActions, nil, req, &resp); err != nil {
		return nil, fmt.Errorf("trigger action %q: %w", action, err)
	}
	return &resp, nil
}

func sessionQuery(sess session.Session) url.Values {
	q := url.Values{}
	q.Set("user_id", sess.UserID)
	q.Set("app_id", sess.AppID)
	return q
}

// do runs one request through the breaker and decodes a JSON response into
// out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, query, in, out)
	})
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set(HeaderRequestID, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
		zap.Duration("latency", time.Since(start)))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
		var er ErrorResponse
		if json.Unmarshal(data, &er) == nil {
			se.Message = er.Error
		}
		return se
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
