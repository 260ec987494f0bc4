// Package model defines the proof records kept by the service.
package model

import "time"

// State is the lifecycle state of a proof.
type State string

const (
	// StatePending marks a proof whose commitment is not anchored yet.
	StatePending State = "pending"
	// StateConfirmed marks a proof anchored in a Bitcoin block. It never reverts.
	StateConfirmed State = "confirmed"
)

// TimeLayout is the ISO-8601 form used for confirmation times (millisecond precision, UTC).
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	return s == StatePending || s == StateConfirmed
}

// Proof binds an item to a content hash and a timestamp commitment.
type Proof struct {
	ItemID      string `json:"itemId"`
	Version     string `json:"version"`
	Packer      string `json:"packer"`
	SealedBy    string `json:"sealedBy,omitempty"`
	Date        string `json:"date"`
	ContentHash string `json:"contentHash,omitempty"`
	// Commitment is the hex-encoded detached timestamp.
	Commitment string `json:"commitment,omitempty"`
	State      State  `json:"state"`

	ConfirmationBlock       *uint64 `json:"confirmationBlock"`
	ConfirmationTime        *string `json:"confirmationTime"`
	ConfirmationTimeDisplay *string `json:"confirmationTimeDisplay"`

	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Reconcilable reports whether the scheduler should look at the proof.
func (p Proof) Reconcilable() bool {
	return p.State == StatePending && p.Commitment != "" && p.ContentHash != ""
}

// Confirm moves the proof to the confirmed state.
func (p *Proof) Confirm(c Confirmation, commitment string, now time.Time) {
	block := c.BlockIndex
	display := c.Display
	p.State = StateConfirmed
	p.ConfirmationBlock = &block
	p.ConfirmationTimeDisplay = &display
	p.ConfirmationTime = nil
	if c.Time != nil {
		ts := *c.Time
		p.ConfirmationTime = &ts
	}
	p.Commitment = commitment
	p.UpdatedAt = now
}

// Confirmation is the resolved, displayable projection of a block attestation.
type Confirmation struct {
	BlockIndex uint64
	// Time is the ISO-8601 block time, nil when it could not be resolved.
	Time    *string
	Display string
	// Degraded is set when the block time lookup failed.
	Degraded bool
}

// Snapshot is the whole document persisted by a proof store.
type Snapshot struct {
	Proofs      []Proof    `json:"proofs"`
	LastUpdated *time.Time `json:"lastUpdated"`
}

// Find returns the index of the proof with itemID, or -1.
func (s *Snapshot) Find(itemID string) int {
	for i := range s.Proofs {
		if s.Proofs[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// Touch stamps the snapshot modification time.
func (s *Snapshot) Touch(now time.Time) {
	ts := now.UTC()
	s.LastUpdated = &ts
}

// Unknown marks a field the extraction could not read.
const Unknown = "UNKNOWN"

// ExtractionCandidate is one item detected in a single extraction batch.
type ExtractionCandidate struct {
	ItemID  string `json:"itemId"`
	Version string `json:"version"`
	Packer  string `json:"packer"`
}
