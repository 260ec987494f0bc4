// Package calendar upgrades pending OpenTimestamps commitments against calendar servers.
package calendar

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/otsproof-backend/internal/metrics"
	"github.com/goodnatureofminers/otsproof-backend/internal/ots"
	"github.com/goodnatureofminers/otsproof-backend/pkg/workerpool"
)

// DefaultCalendars are the public calendars trusted for upgrades.
var DefaultCalendars = []string{
	"https://alice.btc.calendar.opentimestamps.org",
	"https://bob.btc.calendar.opentimestamps.org",
	"https://finney.calendar.eternitywall.com",
	"https://btc.calendar.catallaxy.com",
}

const (
	acceptHeader = "application/vnd.opentimestamps.v1"

	defaultTimeout       = 10 * time.Second
	defaultMaxResponse   = 10000
	defaultRatePerSecond = 10
	defaultConcurrency   = 4
)

var (
	errNotFound    = errors.New("commitment not found")
	errTooLarge    = errors.New("calendar response too large")
	errBadResponse = errors.New("unexpected calendar status")
)

// Client fetches upgrades for pending attestations from whitelisted calendars.
type Client struct {
	whitelist   map[string]struct{}
	client      HTTPDoer
	limiter     ratelimit.Limiter
	timeout     time.Duration
	maxResponse int64
	concurrency int
	metrics     Metrics
	logger      *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithCalendars replaces the whitelist.
func WithCalendars(urls []string) Option {
	return func(c *Client) {
		c.whitelist = make(map[string]struct{}, len(urls))
		for _, u := range urls {
			c.whitelist[normalize(u)] = struct{}{}
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) { c.client = client }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(perSecond int) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = ratelimit.New(perSecond)
		} else {
			c.limiter = ratelimit.NewUnlimited()
		}
	}
}

// WithConcurrency sets how many calendars are queried at once for one envelope.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewClient constructs a calendar client trusting DefaultCalendars.
func NewClient(logger *zap.Logger, m Metrics, opts ...Option) *Client {
	c := &Client{
		client:      http.DefaultClient,
		limiter:     ratelimit.New(defaultRatePerSecond),
		timeout:     defaultTimeout,
		maxResponse: defaultMaxResponse,
		concurrency: defaultConcurrency,
		metrics:     m,
		logger:      logger.Named("calendar_client"),
	}
	WithCalendars(DefaultCalendars)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upgrade asks the calendars behind every pending attestation for the rest of the
// path to a block and merges what they return into a copy of the envelope.
// Calendars are queried concurrently; fragments are merged in attestation order.
// It reports changed=true only if some calendar added data; otherwise the input
// is returned as is. Unreachable calendars and undecodable input are not errors.
func (c *Client) Upgrade(ctx context.Context, envelope []byte) ([]byte, bool) {
	original, err := ots.Decode(envelope)
	if err != nil {
		c.logger.Debug("skip upgrade of undecodable envelope", zap.Error(err))
		return envelope, false
	}

	var targets []ots.PendingAttestation
	for _, pending := range ots.PendingAttestations(original.Tree) {
		uri := normalize(pending.URI)
		if _, ok := c.whitelist[uri]; !ok {
			c.logger.Debug("ignoring calendar outside whitelist", zap.String("calendar", pending.URI))
			continue
		}
		pending.URI = uri
		targets = append(targets, pending)
	}
	if len(targets) == 0 {
		return envelope, false
	}

	fetched := make([]fetchResult, len(targets))
	err = workerpool.Process(ctx, c.concurrency, targets, func(ctx context.Context, i int, p ots.PendingAttestation) error {
		fetched[i] = c.fetchFragment(ctx, p.URI, original.Tree.Nodes[p.Node].Msg)
		return nil
	})
	if err != nil {
		c.logger.Debug("calendar upgrade interrupted", zap.Error(err))
	}

	upgraded := original.Clone()
	changed := false
	for i, p := range targets {
		res := fetched[i]
		if res.started.IsZero() {
			continue
		}
		merged := false
		if res.err == nil {
			merged, res.err = upgraded.Tree.Merge(p.Node, res.fragment, res.fragment.Root())
		}
		c.metrics.ObserveRequest(p.URI, outcome(merged, res.err), res.started)
		if res.err != nil {
			c.logger.Debug("calendar upgrade failed", zap.String("calendar", p.URI), zap.Error(res.err))
			continue
		}
		changed = changed || merged
	}

	if !changed {
		return envelope, false
	}
	out, err := ots.Encode(upgraded)
	if err != nil {
		c.logger.Warn("encode upgraded envelope", zap.Error(err))
		return envelope, false
	}
	return out, true
}

type fetchResult struct {
	fragment *ots.Tree
	started  time.Time
	err      error
}

func (c *Client) fetchFragment(ctx context.Context, uri string, msg []byte) fetchResult {
	res := fetchResult{started: time.Now()}
	body, err := c.fetch(ctx, uri, msg)
	if err != nil {
		res.err = err
		return res
	}
	if res.fragment, err = ots.DecodeTimestamp(body, msg); err != nil {
		res.err = fmt.Errorf("decode calendar response: %w", err)
	}
	return res
}

func (c *Client) fetch(ctx context.Context, uri string, msg []byte) ([]byte, error) {
	c.limiter.Take()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri+"/timestamp/"+hex.EncodeToString(msg), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", "otsproof-backend")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, errNotFound
	default:
		return nil, fmt.Errorf("%w: %d", errBadResponse, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponse+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > c.maxResponse {
		return nil, errTooLarge
	}
	return body, nil
}

func outcome(changed bool, err error) string {
	switch {
	case errors.Is(err, errNotFound):
		return metrics.CalendarNotFound
	case err != nil:
		return metrics.CalendarError
	case changed:
		return metrics.CalendarUpgraded
	default:
		return metrics.CalendarUnchanged
	}
}

func normalize(uri string) string {
	return strings.TrimRight(strings.TrimSpace(uri), "/")
}
