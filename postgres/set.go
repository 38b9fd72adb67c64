package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/specgraph"
)

// SaveSet persists a full spec set for a project in one transaction with
// replace semantics. Features without IDs get auto-generated UUIDs, as do
// their Conditions. Cycles are not rejected here: the engine reports them as
// graph findings, and a store that refused to persist them would hide the
// very records a validation run needs to see.
func (s *PGStore) SaveSet(ctx context.Context, project string, features []specgraph.Feature) error {
	for i := range features {
		normalize(&features[i])
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("specstore: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM spec_features WHERE project = $1`, project); err != nil {
		return fmt.Errorf("specstore: delete set: %w", err)
	}

	for i := range features {
		f := &features[i]
		record, err := encodeRecord(f)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO spec_features (id, project, parent, record, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			f.ID, project, f.Parent, record, f.CreatedAt, f.UpdatedAt,
		); err != nil {
			return fmt.Errorf("specstore: insert feature %s: %w", f.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("specstore: commit: %w", err)
	}
	return nil
}

// LoadSet retrieves every feature record for a project, ordered by
// created_at. Returns an empty slice (not nil) if none exist.
func (s *PGStore) LoadSet(ctx context.Context, project string) ([]specgraph.Feature, error) {
	return s.ListFeatures(ctx, project)
}

// DeleteSet removes every feature record for a project.
// No error if the project doesn't exist.
func (s *PGStore) DeleteSet(ctx context.Context, project string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM spec_features WHERE project = $1`, project); err != nil {
		return fmt.Errorf("specstore: delete set: %w", err)
	}
	return nil
}
