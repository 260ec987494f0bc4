// Package confirmation turns block attestations into displayable confirmations.
package confirmation

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/otsproof-backend/internal/ots"
	"github.com/goodnatureofminers/otsproof-backend/internal/proof/model"
)

// DisplayLayout renders times the way en-US locales print them.
const DisplayLayout = "1/2/2006, 3:04:05 PM"

// BlockExplorer resolves block heights to hashes and hashes to header times.
type BlockExplorer interface {
	BlockHash(ctx context.Context, height uint64) (string, error)
	BlockTime(ctx context.Context, hash string) (int64, error)
}

// Resolver builds confirmations, falling back to a degraded display when the
// block time cannot be found.
type Resolver struct {
	explorer        BlockExplorer
	location        *time.Location
	lookupTimeout   time.Duration
	legacyWallClock bool
	now             func() time.Time
	logger          *zap.Logger
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithLocation sets the zone used for the display string. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(r *Resolver) {
		if loc != nil {
			r.location = loc
		}
	}
}

// WithLookupTimeout bounds the whole explorer lookup (hash + header).
func WithLookupTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.lookupTimeout = d
		}
	}
}

// WithLegacyWallClockFallback stores the current time as the confirmation time
// of degraded confirmations instead of leaving it empty.
func WithLegacyWallClockFallback(enabled bool) Option {
	return func(r *Resolver) { r.legacyWallClock = enabled }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// NewResolver constructs a Resolver. explorer may be nil, in which case every
// attestation without a block time degrades.
func NewResolver(explorer BlockExplorer, logger *zap.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		explorer:      explorer,
		location:      time.UTC,
		lookupTimeout: 20 * time.Second,
		now:           time.Now,
		logger:        logger.Named("confirmation_resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails: lookup errors produce a degraded confirmation.
func (r *Resolver) Resolve(ctx context.Context, att ots.BlockAttestation) model.Confirmation {
	if att.BlockTime != nil && *att.BlockTime > 0 {
		return r.confirmed(att.BlockIndex, time.Unix(*att.BlockTime, 0))
	}

	blockTime, err := r.lookup(ctx, att.BlockIndex)
	if err != nil {
		r.logger.Warn("block time unavailable",
			zap.Uint64("block", att.BlockIndex),
			zap.Error(err),
		)
		return r.degraded(att.BlockIndex)
	}
	return r.confirmed(att.BlockIndex, time.Unix(blockTime, 0))
}

func (r *Resolver) lookup(ctx context.Context, height uint64) (int64, error) {
	if r.explorer == nil {
		return 0, fmt.Errorf("no block explorer configured")
	}

	ctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	hash, err := r.explorer.BlockHash(ctx, height)
	if err != nil {
		return 0, fmt.Errorf("block hash: %w", err)
	}
	ts, err := r.explorer.BlockTime(ctx, hash)
	if err != nil {
		return 0, fmt.Errorf("block time: %w", err)
	}
	return ts, nil
}

func (r *Resolver) confirmed(block uint64, t time.Time) model.Confirmation {
	iso := t.UTC().Format(model.TimeLayout)
	return model.Confirmation{
		BlockIndex: block,
		Time:       &iso,
		Display:    t.In(r.location).Format(DisplayLayout),
	}
}

func (r *Resolver) degraded(block uint64) model.Confirmation {
	c := model.Confirmation{
		BlockIndex: block,
		Display:    fmt.Sprintf("Block #%d (time unknown)", block),
		Degraded:   true,
	}
	if r.legacyWallClock {
		iso := r.now().UTC().Format(model.TimeLayout)
		c.Time = &iso
	}
	return c
}
