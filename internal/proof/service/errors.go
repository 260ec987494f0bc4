package service

import "errors"

var (
	// ErrProofNotFound is returned when no proof has the requested item id.
	ErrProofNotFound = errors.New("proof not found")
	// ErrInvalidProof is returned for malformed proof input.
	ErrInvalidProof = errors.New("invalid proof")
	// ErrConflict is returned when input would break a proof invariant
	// (content hash change, confirmed proof reverting to pending).
	ErrConflict = errors.New("proof conflict")
	// ErrPersistence wraps proof store failures.
	ErrPersistence = errors.New("proof persistence failed")

	errReconcilePanic = errors.New("reconcile panicked")
)
