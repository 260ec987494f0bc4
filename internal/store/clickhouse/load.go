package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/otsproof-backend/internal/proof/model"
)

const latestSnapshotQuery = `
SELECT revision, last_updated
FROM proof_snapshots
ORDER BY revision DESC
LIMIT 1`

const selectProofsQuery = `
SELECT
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
FROM proofs
WHERE revision = ?
ORDER BY position`

// Load returns the latest saved snapshot, or an empty one if nothing was saved yet.
func (r *Repository) Load(ctx context.Context) (snap model.Snapshot, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("load", err, start)
	}()

	revision, lastUpdated, found, err := r.latestSnapshot(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	snap = model.Snapshot{Proofs: []model.Proof{}}
	if !found {
		return snap, nil
	}
	if lastUpdated != nil {
		ts := lastUpdated.UTC()
		snap.LastUpdated = &ts
	}

	proofs, err := r.selectProofs(ctx, revision)
	if err != nil {
		return model.Snapshot{}, err
	}
	snap.Proofs = proofs
	return snap, nil
}

func (r *Repository) latestSnapshot(ctx context.Context) (revision uint64, lastUpdated *time.Time, found bool, err error) {
	rows, err := r.conn.Query(ctx, latestSnapshotQuery)
	if err != nil {
		return 0, nil, false, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return 0, nil, false, fmt.Errorf("iterate latest snapshot: %w", err)
		}
		return 0, nil, false, nil
	}
	if err = rows.Scan(&revision, &lastUpdated); err != nil {
		return 0, nil, false, fmt.Errorf("scan latest snapshot: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, nil, false, fmt.Errorf("iterate latest snapshot: %w", err)
	}
	return revision, lastUpdated, true, nil
}

func (r *Repository) selectProofs(ctx context.Context, revision uint64) (proofs []model.Proof, err error) {
	rows, err := r.conn.Query(ctx, selectProofsQuery, revision)
	if err != nil {
		return nil, fmt.Errorf("query proofs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	proofs = []model.Proof{}
	for rows.Next() {
		var (
			p     model.Proof
			state string
		)
		if err = rows.Scan(
			&p.ItemID,
			&p.Version,
			&p.Packer,
			&p.SealedBy,
			&p.Date,
			&p.ContentHash,
			&p.Commitment,
			&state,
			&p.ConfirmationBlock,
			&p.ConfirmationTime,
			&p.ConfirmationTimeDisplay,
			&p.ImageURL,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan proof: %w", err)
		}
		p.State = model.State(state)
		p.CreatedAt = p.CreatedAt.UTC()
		p.UpdatedAt = p.UpdatedAt.UTC()
		proofs = append(proofs, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proofs: %w", err)
	}
	return proofs, nil
}
