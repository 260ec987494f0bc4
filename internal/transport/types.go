// Package transport exposes the proof API over HTTP and reports service health over gRPC.
package transport

import (
	"context"

	"github.com/goodnatureofminers/otsproof-backend/internal/proof/model"
	"github.com/goodnatureofminers/otsproof-backend/internal/proof/service"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ProofService interface {
		ListProofs(ctx context.Context) (model.Snapshot, error)
		GetProof(ctx context.Context, itemID string) (model.Proof, error)
		CreateOrUpdateProof(ctx context.Context, in service.ProofInput, sealedBy string) (model.Proof, error)
		UpdateProof(ctx context.Context, itemID string, patch service.ProofPatch) (model.Proof, error)
		DeleteProof(ctx context.Context, itemID string) error
	}
	Sweeper interface {
		RunSweep(ctx context.Context) (service.SweepResult, error)
	}
)
