package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"go.uber.org/ratelimit"
)

const (
	// DefaultEsploraURL is the public mempool.space API.
	DefaultEsploraURL = "https://mempool.space/api"

	defaultEsploraTimeout = 10 * time.Second
	maxEsploraBody        = 64 << 10
)

// Esplora queries an Esplora-compatible REST API (mempool.space, blockstream.info).
type Esplora struct {
	baseURL string
	client  HTTPDoer
	limiter ratelimit.Limiter
	timeout time.Duration
	metrics Metrics
}

// EsploraOption customizes an Esplora client.
type EsploraOption func(*Esplora)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client HTTPDoer) EsploraOption {
	return func(e *Esplora) { e.client = client }
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(perSecond int) EsploraOption {
	return func(e *Esplora) {
		if perSecond > 0 {
			e.limiter = ratelimit.New(perSecond)
		} else {
			e.limiter = ratelimit.NewUnlimited()
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) EsploraOption {
	return func(e *Esplora) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEsplora constructs an Esplora client rooted at baseURL.
func NewEsplora(baseURL string, metrics Metrics, opts ...EsploraOption) *Esplora {
	if baseURL == "" {
		baseURL = DefaultEsploraURL
	}
	e := &Esplora{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
		limiter: ratelimit.New(5),
		timeout: defaultEsploraTimeout,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BlockHash returns the hash of the main-chain block at height.
func (e *Esplora) BlockHash(ctx context.Context, height uint64) (hash string, err error) {
	started := time.Now()
	defer func() {
		e.metrics.Observe("block_hash", err, started)
	}()

	body, err := e.get(ctx, "/block-height/"+strconv.FormatUint(height, 10))
	if err != nil {
		return "", err
	}
	parsed, err := chainhash.NewHashFromStr(strings.TrimSpace(string(body)))
	if err != nil {
		return "", fmt.Errorf("parse block hash for height %d: %w", height, err)
	}
	return parsed.String(), nil
}

type esploraBlock struct {
	Timestamp int64 `json:"timestamp"`
}

// BlockTime returns the header timestamp (unix seconds) of the block.
func (e *Esplora) BlockTime(ctx context.Context, hash string) (ts int64, err error) {
	started := time.Now()
	defer func() {
		e.metrics.Observe("block_time", err, started)
	}()

	parsed, err := chainhash.NewHashFromStr(hash)
	if err != nil {
		return 0, fmt.Errorf("parse block hash %q: %w", hash, err)
	}
	body, err := e.get(ctx, "/block/"+parsed.String())
	if err != nil {
		return 0, err
	}

	var block esploraBlock
	if err := json.Unmarshal(body, &block); err != nil {
		return 0, fmt.Errorf("decode block %s: %w", hash, err)
	}
	if block.Timestamp <= 0 {
		return 0, fmt.Errorf("block %s has no timestamp", hash)
	}
	return block.Timestamp, nil
}

func (e *Esplora) get(ctx context.Context, path string) ([]byte, error) {
	e.limiter.Take()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: %w: %d", path, ErrUnexpectedStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEsploraBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return body, nil
}
