package service

import (
	"context"
	"time"

	"github.com/goodnatureofminers/otsproof-backend/internal/ots"
	"github.com/goodnatureofminers/otsproof-backend/internal/proof/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ProofStore interface {
		Load(ctx context.Context) (model.Snapshot, error)
		Save(ctx context.Context, snap model.Snapshot) error
	}
	Upgrader interface {
		Upgrade(ctx context.Context, envelope []byte) ([]byte, bool)
	}
	Resolver interface {
		Resolve(ctx context.Context, att ots.BlockAttestation) model.Confirmation
	}
	ReconcilerMetrics interface {
		ObserveSweep(err error, started time.Time)
		ObserveProof(outcome string)
	}
	// SweepListener is notified after every sweep, successful or not.
	SweepListener interface {
		SweepCompleted(result SweepResult, err error)
	}
	Sweeper interface {
		RunSweep(ctx context.Context) (SweepResult, error)
	}
)
