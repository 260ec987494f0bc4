package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/otsproof-backend/internal/clock"
	"github.com/goodnatureofminers/otsproof-backend/internal/metrics"
	"github.com/goodnatureofminers/otsproof-backend/internal/ots"
	"github.com/goodnatureofminers/otsproof-backend/internal/proof/model"
)

// SweepResult summarizes one reconciliation sweep.
type SweepResult struct {
	Pending   int  `json:"pending"`
	Confirmed int  `json:"confirmed"`
	Degraded  int  `json:"degraded"`
	Upgraded  int  `json:"upgraded"`
	Unchanged int  `json:"unchanged"`
	Failed    int  `json:"failed"`
	Saved     bool `json:"saved"`
}

// Reconciler advances pending proofs towards confirmation.
type Reconciler struct {
	store    ProofStore
	upgrader Upgrader
	resolver Resolver
	metrics  ReconcilerMetrics
	listener SweepListener
	logger   *zap.Logger
	now      func() time.Time

	mu sync.Mutex
}

// NewReconciler builds a Reconciler. listener may be nil.
func NewReconciler(
	store ProofStore,
	upgrader Upgrader,
	resolver Resolver,
	m ReconcilerMetrics,
	listener SweepListener,
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		store:    store,
		upgrader: upgrader,
		resolver: resolver,
		metrics:  m,
		listener: listener,
		logger:   logger.Named("reconciler"),
		now:      clock.Now,
	}
}

// RunSweep runs one pass over all pending proofs and persists the changed set once.
// Calls are serialized; a call made while a sweep is running waits for it.
// If ctx is cancelled before the write starts the sweep's changes are dropped;
// a write that has started is completed.
func (r *Reconciler) RunSweep(ctx context.Context) (res SweepResult, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	started := time.Now()
	defer func() {
		r.metrics.ObserveSweep(err, started)
		if r.listener != nil {
			r.listener.SweepCompleted(res, err)
		}
	}()

	snap, err := r.store.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("%w: load proofs: %w", ErrPersistence, err)
	}

	changed := false
	for i := range snap.Proofs {
		p := &snap.Proofs[i]
		if !p.Reconcilable() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Pending++

		outcome, perr := r.reconcile(ctx, p)
		r.metrics.ObserveProof(outcome)
		switch outcome {
		case metrics.OutcomeConfirmed:
			res.Confirmed++
			changed = true
		case metrics.OutcomeDegraded:
			res.Confirmed++
			res.Degraded++
			changed = true
		case metrics.OutcomeUpgraded:
			res.Upgraded++
			changed = true
		case metrics.OutcomeFailed:
			res.Failed++
			r.logger.Warn("skipping proof this sweep", zap.String("item_id", p.ItemID), zap.Error(perr))
		default:
			res.Unchanged++
		}
	}

	if err := ctx.Err(); err != nil {
		r.logger.Info("sweep cancelled, dropping changes", zap.Int("pending", res.Pending))
		return res, err
	}
	if !changed {
		r.logger.Debug("sweep finished without changes", zap.Int("pending", res.Pending))
		return res, nil
	}

	snap.Touch(r.now())
	if err := r.store.Save(context.WithoutCancel(ctx), snap); err != nil {
		r.logger.Error("save swept proofs", zap.Error(err))
		return res, fmt.Errorf("%w: save proofs: %w", ErrPersistence, err)
	}
	res.Saved = true
	r.logger.Info("sweep saved",
		zap.Int("pending", res.Pending),
		zap.Int("confirmed", res.Confirmed),
		zap.Int("upgraded", res.Upgraded),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

// reconcile upgrades one proof in place and reports what happened to it.
// On failure, including a panic in a collaborator, p is left untouched.
func (r *Reconciler) reconcile(ctx context.Context, p *model.Proof) (outcome string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome, err = metrics.OutcomeFailed, fmt.Errorf("%w: %v", errReconcilePanic, rec)
		}
	}()

	next := *p
	outcome, err = r.reconcileProof(ctx, &next)
	if err == nil {
		*p = next
	}
	return outcome, err
}

func (r *Reconciler) reconcileProof(ctx context.Context, p *model.Proof) (string, error) {
	envelope, err := hex.DecodeString(p.Commitment)
	if err != nil {
		return metrics.OutcomeFailed, fmt.Errorf("commitment is not hex: %w", err)
	}

	upgraded, upgradedChanged := r.upgrader.Upgrade(ctx, envelope)
	decoded, err := ots.Decode(upgraded)
	if err != nil {
		return metrics.OutcomeFailed, err
	}

	anchors := ots.ExtractBitcoinAttestations(decoded.Tree)
	if len(anchors) > 0 {
		c := r.resolver.Resolve(ctx, anchors[0])
		encoded, err := ots.EncodeHex(decoded)
		if err != nil {
			return metrics.OutcomeFailed, err
		}
		p.Confirm(c, encoded, r.now().UTC())
		if c.Degraded {
			return metrics.OutcomeDegraded, nil
		}
		return metrics.OutcomeConfirmed, nil
	}

	if upgradedChanged {
		p.Commitment = hex.EncodeToString(upgraded)
		p.UpdatedAt = r.now().UTC()
		return metrics.OutcomeUpgraded, nil
	}
	return metrics.OutcomeUnchanged, nil
}
