package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS spec_features (
    id         TEXT PRIMARY KEY,
    project    TEXT NOT NULL,
    parent     TEXT NOT NULL DEFAULT '',
    record     JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_spec_features_project ON spec_features(project);
CREATE INDEX IF NOT EXISTS idx_spec_features_parent  ON spec_features(parent);
`

// CreateSchema creates the spec_features table if it doesn't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the spec_features table.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS spec_features CASCADE;`)
	return err
}
