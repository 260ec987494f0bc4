// Package sqlite keeps the proof snapshot in an SQLite database through gorm.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	// pure-Go driver registered as "sqlite"
	_ "modernc.org/sqlite"

	"github.com/goodnatureofminers/otsproof-backend/internal/proof/model"
)

// Metrics records store operations.
type Metrics interface {
	Observe(operation string, err error, started time.Time)
}

type proofRow struct {
	ItemID                  string `gorm:"primaryKey"`
	Position                int    `gorm:"index"`
	Version                 string
	Packer                  string
	SealedBy                string
	Date                    string
	ContentHash             string
	Commitment              string
	State                   string
	ConfirmationBlock       *uint64
	ConfirmationTime        *string
	ConfirmationTimeDisplay *string
	ImageURL                string
	CreatedAt               time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime:false"`
}

func (proofRow) TableName() string { return "proofs" }

type snapshotMeta struct {
	ID          uint `gorm:"primaryKey"`
	LastUpdated *time.Time
}

func (snapshotMeta) TableName() string { return "snapshot_meta" }

const metaID = 1

// Store persists snapshots as rows; Save replaces the whole set in one transaction.
type Store struct {
	db      *gorm.DB
	metrics Metrics
}

// Open opens (creating if needed) the database at dsn and migrates the schema.
func Open(dsn string, metrics Metrics) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("sqlite dsn is required")
	}
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return New(db, metrics)
}

// New wraps an existing gorm handle.
func New(db *gorm.DB, metrics Metrics) (*Store, error) {
	if err := db.AutoMigrate(&proofRow{}, &snapshotMeta{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return &Store{db: db, metrics: metrics}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load returns the stored snapshot in saved order.
func (s *Store) Load(ctx context.Context) (snap model.Snapshot, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("load", err, started)
	}()

	var rows []proofRow
	if err = s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return model.Snapshot{}, fmt.Errorf("select proofs: %w", err)
	}

	var meta snapshotMeta
	res := s.db.WithContext(ctx).Limit(1).Find(&meta, metaID)
	if err = res.Error; err != nil {
		return model.Snapshot{}, fmt.Errorf("select snapshot meta: %w", err)
	}

	snap.Proofs = make([]model.Proof, 0, len(rows))
	for _, r := range rows {
		snap.Proofs = append(snap.Proofs, r.toModel())
	}
	if res.RowsAffected > 0 && meta.LastUpdated != nil {
		ts := meta.LastUpdated.UTC()
		snap.LastUpdated = &ts
	}
	return snap, nil
}

// Save replaces every stored proof with the snapshot contents.
func (s *Store) Save(ctx context.Context, snap model.Snapshot) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("save", err, started)
	}()

	rows := make([]proofRow, 0, len(snap.Proofs))
	for i, p := range snap.Proofs {
		rows = append(rows, fromModel(i, p))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&proofRow{}).Error; err != nil {
			return fmt.Errorf("delete proofs: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 100).Error; err != nil {
				return fmt.Errorf("insert proofs: %w", err)
			}
		}
		meta := snapshotMeta{ID: metaID, LastUpdated: snap.LastUpdated}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&meta).Error; err != nil {
			return fmt.Errorf("upsert snapshot meta: %w", err)
		}
		return nil
	})
	return err
}

func fromModel(position int, p model.Proof) proofRow {
	return proofRow{
		ItemID:                  p.ItemID,
		Position:                position,
		Version:                 p.Version,
		Packer:                  p.Packer,
		SealedBy:                p.SealedBy,
		Date:                    p.Date,
		ContentHash:             p.ContentHash,
		Commitment:              p.Commitment,
		State:                   string(p.State),
		ConfirmationBlock:       p.ConfirmationBlock,
		ConfirmationTime:        p.ConfirmationTime,
		ConfirmationTimeDisplay: p.ConfirmationTimeDisplay,
		ImageURL:                p.ImageURL,
		CreatedAt:               p.CreatedAt.UTC(),
		UpdatedAt:               p.UpdatedAt.UTC(),
	}
}

func (r proofRow) toModel() model.Proof {
	return model.Proof{
		ItemID:                  r.ItemID,
		Version:                 r.Version,
		Packer:                  r.Packer,
		SealedBy:                r.SealedBy,
		Date:                    r.Date,
		ContentHash:             r.ContentHash,
		Commitment:              r.Commitment,
		State:                   model.State(r.State),
		ConfirmationBlock:       r.ConfirmationBlock,
		ConfirmationTime:        r.ConfirmationTime,
		ConfirmationTimeDisplay: r.ConfirmationTimeDisplay,
		ImageURL:                r.ImageURL,
		CreatedAt:               r.CreatedAt.UTC(),
		UpdatedAt:               r.UpdatedAt.UTC(),
	}
}
