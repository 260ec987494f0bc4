// Package file keeps the proof snapshot in a single JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goodnatureofminers/otsproof-backend/internal/proof/model"
)

// Metrics records store operations.
type Metrics interface {
	Observe(operation string, err error, started time.Time)
}

// Store reads and replaces the snapshot document. Writes go through a temp file
// and a rename so readers never see a partial document.
type Store struct {
	path    string
	metrics Metrics
	mu      sync.Mutex
}

// NewStore returns a store backed by the JSON file at path.
func NewStore(path string, metrics Metrics) (*Store, error) {
	if path == "" {
		return nil, errors.New("proofs file path is required")
	}
	return &Store{path: path, metrics: metrics}, nil
}

// Load returns the stored snapshot. A missing file is an empty snapshot.
func (s *Store) Load(ctx context.Context) (snap model.Snapshot, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("load", err, started)
	}()

	if err = ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}

	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return model.Snapshot{Proofs: []model.Proof{}}, nil
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	if err = json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if snap.Proofs == nil {
		snap.Proofs = []model.Proof{}
	}
	return snap, nil
}

// Save replaces the stored snapshot.
func (s *Store) Save(ctx context.Context, snap model.Snapshot) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("save", err, started)
	}()

	if err = ctx.Err(); err != nil {
		return err
	}
	if snap.Proofs == nil {
		snap.Proofs = []model.Proof{}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err = writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true

	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer func() {
		_ = d.Close()
	}()
	return d.Sync()
}
