package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/otsproof-backend/internal/proof/model"
	"github.com/goodnatureofminers/otsproof-backend/pkg/safe"
)

const maxRevisionQuery = `
SELECT coalesce(max(revision), toUInt64(0)) AS max_revision
FROM proof_snapshots`

const insertProofsQuery = `
INSERT INTO proofs (
	revision,
	position,
	item_id,
	version,
	packer,
	sealed_by,
	date,
	content_hash,
	commitment,
	state,
	confirmation_block,
	confirmation_time,
	confirmation_time_display,
	image_url,
	created_at,
	updated_at
) VALUES`

const insertSnapshotQuery = `
INSERT INTO proof_snapshots (revision, last_updated, proof_count) VALUES (?, ?, ?)`

const (
	pruneProofsQuery    = `DELETE FROM proofs WHERE revision <= ?`
	pruneSnapshotsQuery = `DELETE FROM proof_snapshots WHERE revision <= ?`
)

// keepRevisions is how many of the newest revisions survive a save.
const keepRevisions = 10

// Save writes the snapshot as a new revision and drops revisions older than
// the newest keepRevisions. Saves are serialized so two writers never share a
// revision number.
func (r *Repository) Save(ctx context.Context, snap model.Snapshot) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	defer func() {
		r.metrics.Observe("save", err, start)
	}()

	revision, err := r.maxRevision(ctx)
	if err != nil {
		return err
	}
	revision++

	if len(snap.Proofs) > 0 {
		if err = r.insertProofs(ctx, revision, snap.Proofs); err != nil {
			return err
		}
	}

	count, err := safe.Uint64(len(snap.Proofs))
	if err != nil {
		return fmt.Errorf("proof count: %w", err)
	}
	if err = r.conn.Exec(ctx, insertSnapshotQuery, revision, snap.LastUpdated, count); err != nil {
		return fmt.Errorf("insert snapshot marker: %w", err)
	}

	if revision > keepRevisions {
		r.prune(ctx, revision-keepRevisions)
	}
	return nil
}

// prune removes every revision up to and including below. The new revision is
// already visible, so a failure here only leaves extra history behind and is
// reported through metrics alone.
func (r *Repository) prune(ctx context.Context, below uint64) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("prune", err, start)
	}()

	if err = r.conn.Exec(ctx, pruneSnapshotsQuery, below); err != nil {
		err = fmt.Errorf("prune snapshot markers: %w", err)
		return
	}
	if err = r.conn.Exec(ctx, pruneProofsQuery, below); err != nil {
		err = fmt.Errorf("prune proofs: %w", err)
	}
}

func (r *Repository) maxRevision(ctx context.Context) (revision uint64, err error) {
	rows, err := r.conn.Query(ctx, maxRevisionQuery)
	if err != nil {
		return 0, fmt.Errorf("query max revision: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		return 0, fmt.Errorf("max revision not found")
	}
	if err = rows.Scan(&revision); err != nil {
		return 0, fmt.Errorf("scan max revision: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate max revision: %w", err)
	}
	return revision, nil
}

func (r *Repository) insertProofs(ctx context.Context, revision uint64, proofs []model.Proof) (err error) {
	batch, err := r.conn.PrepareBatch(ctx, insertProofsQuery)
	if err != nil {
		return fmt.Errorf("prepare proofs batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = batch.Abort()
		}
	}()

	for i, p := range proofs {
		position, convErr := safe.Uint64(i)
		if convErr != nil {
			return fmt.Errorf("proof position: %w", convErr)
		}
		if err = batch.Append(
			revision,
			position,
			p.ItemID,
			p.Version,
			p.Packer,
			p.SealedBy,
			p.Date,
			p.ContentHash,
			p.Commitment,
			string(p.State),
			p.ConfirmationBlock,
			p.ConfirmationTime,
			p.ConfirmationTimeDisplay,
			p.ImageURL,
			p.CreatedAt.UTC(),
			p.UpdatedAt.UTC(),
		); err != nil {
			return fmt.Errorf("append proof %s: %w", p.ItemID, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert proofs: %w", err)
	}
	return nil
}
