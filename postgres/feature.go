package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meikuraledutech/specgraph"
)

// AddFeature inserts a single feature record into a project's spec set.
// If f.ID is empty, a UUID is auto-generated (likewise for its conditions).
// Returns the feature ID (generated or provided).
func (s *PGStore) AddFeature(ctx context.Context, project string, f *specgraph.Feature) (string, error) {
	normalize(f)

	record, err := encodeRecord(f)
	if err != nil {
		return "", err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO spec_features (id, project, parent, record, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, project, f.Parent, record, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("specstore: insert feature: %w", err)
	}
	return f.ID, nil
}

// GetFeature fetches a single feature record by its ID.
// Returns nil, nil if not found.
func (s *PGStore) GetFeature(ctx context.Context, id string) (*specgraph.Feature, error) {
	var record []byte
	err := s.db.QueryRow(ctx,
		`SELECT record FROM spec_features WHERE id = $1`, id,
	).Scan(&record)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("specstore: get feature: %w", err)
	}
	return decodeRecord(record)
}

// UpdateFeature replaces an existing feature record.
// Returns specgraph.ErrNodeNotFound if the feature doesn't exist.
func (s *PGStore) UpdateFeature(ctx context.Context, f *specgraph.Feature) error {
	normalize(f)
	f.UpdatedAt = time.Now().UTC()

	record, err := encodeRecord(f)
	if err != nil {
		return err
	}
	ct, err := s.db.Exec(ctx,
		`UPDATE spec_features SET parent = $1, record = $2, updated_at = $3 WHERE id = $4`,
		f.Parent, record, f.UpdatedAt, f.ID,
	)
	if err != nil {
		return fmt.Errorf("specstore: update feature: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return specgraph.ErrNodeNotFound
	}
	return nil
}

// DeleteFeature deletes a feature record by its ID.
// No error if the feature doesn't exist.
func (s *PGStore) DeleteFeature(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM spec_features WHERE id = $1`, id); err != nil {
		return fmt.Errorf("specstore: delete feature: %w", err)
	}
	return nil
}

// ListFeatures returns all feature records for a project, ordered by
// created_at. Returns an empty slice (not nil) if none found.
func (s *PGStore) ListFeatures(ctx context.Context, project string) ([]specgraph.Feature, error) {
	rows, err := s.db.Query(ctx,
		`SELECT record FROM spec_features WHERE project = $1 ORDER BY created_at`, project)
	if err != nil {
		return nil, fmt.Errorf("specstore: list features: %w", err)
	}
	defer rows.Close()

	features := []specgraph.Feature{}
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("specstore: scan feature: %w", err)
		}
		f, err := decodeRecord(record)
		if err != nil {
			return nil, err
		}
		features = append(features, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("specstore: rows features: %w", err)
	}
	return features, nil
}

// normalize fills the fields every persisted record must carry: ids,
// nodeType discriminators, schema version, and timestamps.
func normalize(f *specgraph.Feature) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.NodeType = specgraph.NodeTypeFeature
	if f.SchemaVersion == 0 {
		f.SchemaVersion = specgraph.SchemaVersion
	}
	now := time.Now().UTC()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = now
	}
	for i := range f.Conditions {
		c := &f.Conditions[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.NodeType = specgraph.NodeTypeCondition
	}
}

func encodeRecord(f *specgraph.Feature) ([]byte, error) {
	record, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("specstore: encode feature %s: %w", f.ID, err)
	}
	return record, nil
}

func decodeRecord(record []byte) (*specgraph.Feature, error) {
	var f specgraph.Feature
	if err := json.Unmarshal(record, &f); err != nil {
		return nil, fmt.Errorf("specstore: decode feature: %w", err)
	}
	if f.SchemaVersion > specgraph.SchemaVersion {
		return nil, fmt.Errorf("specstore: feature %s has schemaVersion %d: %w",
			f.ID, f.SchemaVersion, specgraph.ErrSchemaVersion)
	}
	return &f, nil
}

// isNoRows checks if the error is a "no rows" error from pgx.
func isNoRows(err error) bool {
	return err != nil && err.Error() == "no rows in result set"
}
