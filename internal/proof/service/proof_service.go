package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/otsproof-backend/internal/clock"
	"github.com/goodnatureofminers/otsproof-backend/internal/proof/model"
)

const unknownField = "Unknown"

// ProofInput carries the fields of a create-or-replace request.
type ProofInput struct {
	ItemID                  string      `json:"itemId"`
	Version                 string      `json:"version"`
	Packer                  string      `json:"packer"`
	Date                    string      `json:"date"`
	ContentHash             string      `json:"contentHash"`
	Commitment              string      `json:"commitment"`
	State                   model.State `json:"state"`
	ConfirmationBlock       *uint64     `json:"confirmationBlock"`
	ConfirmationTime        *string     `json:"confirmationTime"`
	ConfirmationTimeDisplay *string     `json:"confirmationTimeDisplay"`
	ImageURL                string      `json:"imageUrl"`
}

// ProofPatch carries a partial update; nil fields are left untouched.
type ProofPatch struct {
	Version                 *string      `json:"version"`
	Packer                  *string      `json:"packer"`
	Date                    *string      `json:"date"`
	ContentHash             *string      `json:"contentHash"`
	Commitment              *string      `json:"commitment"`
	State                   *model.State `json:"state"`
	ConfirmationBlock       *uint64      `json:"confirmationBlock"`
	ConfirmationTime        *string      `json:"confirmationTime"`
	ConfirmationTimeDisplay *string      `json:"confirmationTimeDisplay"`
	ImageURL                *string      `json:"imageUrl"`
}

// ProofService handles proof reads and writes issued by API clients.
//
// Every write is a full load -> mutate -> save cycle on the store. The reconciler
// does the same, so a request racing a sweep (or another request) can lose an update.
type ProofService struct {
	store  ProofStore
	logger *zap.Logger
	now    func() time.Time
}

// NewProofService builds a ProofService over store.
func NewProofService(store ProofStore, logger *zap.Logger) *ProofService {
	return &ProofService{
		store:  store,
		logger: logger.Named("proof_service"),
		now:    clock.Now,
	}
}

// ListProofs returns the whole stored document.
func (s *ProofService) ListProofs(ctx context.Context) (model.Snapshot, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: load proofs: %w", ErrPersistence, err)
	}
	if snap.Proofs == nil {
		snap.Proofs = []model.Proof{}
	}
	return snap, nil
}

// GetProof returns the proof for itemID.
func (s *ProofService) GetProof(ctx context.Context, itemID string) (model.Proof, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return model.Proof{}, fmt.Errorf("%w: load proofs: %w", ErrPersistence, err)
	}
	i := snap.Find(itemID)
	if i < 0 {
		return model.Proof{}, ErrProofNotFound
	}
	return snap.Proofs[i], nil
}

// CreateOrUpdateProof stores a proof built from in, sealed by the packer owning the
// request token. An existing proof with the same item id is replaced, keeping its
// creation time, its sealer and, when in has none, its image.
func (s *ProofService) CreateOrUpdateProof(ctx context.Context, in ProofInput, sealedBy string) (model.Proof, error) {
	in.ItemID = strings.TrimSpace(in.ItemID)
	if in.ItemID == "" {
		return model.Proof{}, fmt.Errorf("%w: itemId is required", ErrInvalidProof)
	}
	logger := s.logger.With(zap.String("item_id", in.ItemID))

	packer := in.Packer
	if packer == "" {
		packer = unknownField
	}
	if packer != unknownField && packer != sealedBy {
		logger.Warn("packer does not match token owner",
			zap.String("packer", packer),
			zap.String("sealed_by", sealedBy),
		)
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		return model.Proof{}, fmt.Errorf("%w: load proofs: %w", ErrPersistence, err)
	}

	now := s.now().UTC()
	p := model.Proof{
		ItemID:                  in.ItemID,
		Version:                 orDefault(in.Version, unknownField),
		Packer:                  packer,
		SealedBy:                sealedBy,
		Date:                    orDefault(in.Date, now.Format(model.TimeLayout)),
		ContentHash:             strings.ToLower(in.ContentHash),
		Commitment:              strings.ToLower(in.Commitment),
		State:                   in.State,
		ConfirmationBlock:       in.ConfirmationBlock,
		ConfirmationTime:        in.ConfirmationTime,
		ConfirmationTimeDisplay: in.ConfirmationTimeDisplay,
		ImageURL:                in.ImageURL,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	var prev *model.Proof
	i := snap.Find(in.ItemID)
	if i >= 0 {
		prev = &snap.Proofs[i]
		p.CreatedAt = prev.CreatedAt
		if prev.SealedBy != "" {
			p.SealedBy = prev.SealedBy
		}
		if p.ImageURL == "" {
			p.ImageURL = prev.ImageURL
		}
		if p.ContentHash == "" {
			p.ContentHash = prev.ContentHash
		}
		if p.Commitment == "" {
			p.Commitment = prev.Commitment
		}
		if p.State == "" && prev.State == model.StateConfirmed {
			keepConfirmation(&p, *prev)
		}
	}
	if p.State == "" {
		p.State = model.StatePending
	}
	if err := validate(prev, p); err != nil {
		return model.Proof{}, err
	}

	if i >= 0 {
		snap.Proofs[i] = p
	} else {
		snap.Proofs = append(snap.Proofs, p)
	}
	snap.Touch(now)
	if err := s.store.Save(ctx, snap); err != nil {
		return model.Proof{}, fmt.Errorf("%w: save proof: %w", ErrPersistence, err)
	}
	logger.Info("proof stored", zap.Bool("replaced", i >= 0), zap.String("state", string(p.State)))
	return p, nil
}

// UpdateProof applies a partial update to an existing proof.
func (s *ProofService) UpdateProof(ctx context.Context, itemID string, patch ProofPatch) (model.Proof, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return model.Proof{}, fmt.Errorf("%w: load proofs: %w", ErrPersistence, err)
	}
	i := snap.Find(itemID)
	if i < 0 {
		return model.Proof{}, ErrProofNotFound
	}

	prev := snap.Proofs[i]
	p := prev
	setString(&p.Version, patch.Version)
	setString(&p.Packer, patch.Packer)
	setString(&p.Date, patch.Date)
	setString(&p.ImageURL, patch.ImageURL)
	if patch.ContentHash != nil {
		p.ContentHash = strings.ToLower(*patch.ContentHash)
	}
	if patch.Commitment != nil {
		p.Commitment = strings.ToLower(*patch.Commitment)
	}
	if patch.State != nil {
		p.State = *patch.State
	}
	if patch.ConfirmationBlock != nil {
		p.ConfirmationBlock = patch.ConfirmationBlock
	}
	if patch.ConfirmationTime != nil {
		p.ConfirmationTime = patch.ConfirmationTime
	}
	if patch.ConfirmationTimeDisplay != nil {
		p.ConfirmationTimeDisplay = patch.ConfirmationTimeDisplay
	}
	if err := validate(&prev, p); err != nil {
		return model.Proof{}, err
	}

	now := s.now().UTC()
	p.UpdatedAt = now
	snap.Proofs[i] = p
	snap.Touch(now)
	if err := s.store.Save(ctx, snap); err != nil {
		return model.Proof{}, fmt.Errorf("%w: save proof: %w", ErrPersistence, err)
	}
	return p, nil
}

// DeleteProof removes the proof for itemID.
func (s *ProofService) DeleteProof(ctx context.Context, itemID string) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load proofs: %w", ErrPersistence, err)
	}
	i := snap.Find(itemID)
	if i < 0 {
		return ErrProofNotFound
	}

	snap.Proofs = append(snap.Proofs[:i], snap.Proofs[i+1:]...)
	snap.Touch(s.now())
	if err := s.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("%w: delete proof: %w", ErrPersistence, err)
	}
	s.logger.Info("proof deleted", zap.String("item_id", itemID))
	return nil
}

// validate checks p on its own and, when prev is set, as a successor of prev.
func validate(prev *model.Proof, p model.Proof) error {
	if !p.State.Valid() {
		return fmt.Errorf("%w: unknown state %q", ErrInvalidProof, p.State)
	}
	if !isHex(p.ContentHash) {
		return fmt.Errorf("%w: contentHash is not hex", ErrInvalidProof)
	}
	if !isHex(p.Commitment) {
		return fmt.Errorf("%w: commitment is not hex", ErrInvalidProof)
	}
	if p.State == model.StatePending &&
		(p.ConfirmationBlock != nil || p.ConfirmationTime != nil || p.ConfirmationTimeDisplay != nil) {
		return fmt.Errorf("%w: pending proof cannot carry confirmation fields", ErrInvalidProof)
	}
	if p.State == model.StateConfirmed {
		if p.ConfirmationBlock == nil || p.ConfirmationTimeDisplay == nil {
			return fmt.Errorf("%w: confirmed proof needs confirmationBlock and confirmationTimeDisplay", ErrInvalidProof)
		}
		if p.ConfirmationTime != nil {
			if _, err := time.Parse(time.RFC3339Nano, *p.ConfirmationTime); err != nil {
				return fmt.Errorf("%w: confirmationTime: %v", ErrInvalidProof, err)
			}
		}
	}

	if prev == nil {
		return nil
	}
	if prev.ContentHash != "" && p.ContentHash != prev.ContentHash {
		return fmt.Errorf("%w: contentHash of %s is immutable", ErrConflict, prev.ItemID)
	}
	if prev.State == model.StateConfirmed && p.State == model.StatePending {
		return fmt.Errorf("%w: %s is already confirmed", ErrConflict, prev.ItemID)
	}
	return nil
}

func keepConfirmation(p *model.Proof, prev model.Proof) {
	p.State = prev.State
	if p.ConfirmationBlock == nil {
		p.ConfirmationBlock = prev.ConfirmationBlock
	}
	if p.ConfirmationTime == nil {
		p.ConfirmationTime = prev.ConfirmationTime
	}
	if p.ConfirmationTimeDisplay == nil {
		p.ConfirmationTimeDisplay = prev.ConfirmationTimeDisplay
	}
}

func isHex(s string) bool {
	if s == "" {
		return true
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
