package repository

// Each snapshot is one row holding the JSON-encoded state; the newest row
// wins on restore.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/learning-hub/internal/snapshot"
)

// SnapshotRepo reads and writes the registry_snapshots table.
type SnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepo constructs a SnapshotRepo with the provided DB handle.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// EnsureSchema creates the snapshot table when missing.
func (r *SnapshotRepo) EnsureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS registry_snapshots (
	             id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	             taken_at DATETIME(6) NOT NULL,
	             payload LONGBLOB NOT NULL
	           )`
	if _, err := r.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create registry_snapshots: %w", err)
	}
	return nil
}

// Save inserts st as the newest snapshot.
func (r *SnapshotRepo) Save(ctx context.Context, st snapshot.State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	const q = "INSERT INTO registry_snapshots (taken_at, payload) VALUES (?, ?)"
	if _, err := r.db.ExecContext(ctx, q, st.TakenAt, payload); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recently saved snapshot, or ErrNoSnapshot.
func (r *SnapshotRepo) Latest(ctx context.Context) (snapshot.State, error) {
	const q = "SELECT payload FROM registry_snapshots ORDER BY id DESC LIMIT 1"
	var payload []byte
	if err := r.db.QueryRowContext(ctx, q).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return snapshot.State{}, ErrNoSnapshot
		}
		return snapshot.State{}, fmt.Errorf("select snapshot: %w", err)
	}
	var st snapshot.State
	if err := json.Unmarshal(payload, &st); err != nil {
		return snapshot.State{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return st, nil
}

// Prune deletes every snapshot except the newest keep rows.
func (r *SnapshotRepo) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	// MySQL refuses LIMIT inside IN subqueries, hence the derived table.
	const q = `DELETE FROM registry_snapshots
	           WHERE id NOT IN (
	             SELECT id FROM (
	               SELECT id FROM registry_snapshots ORDER BY id DESC LIMIT ?
	             ) newest
	           )`
	if _, err := r.db.ExecContext(ctx, q, keep); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
