// Package jsonfile persists spec sets as one JSON file per feature record,
// grouped in a directory per project. It exists so the engine can run
// against a checked-in spec directory without a database.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/meikuraledutech/specgraph"
)

// FileStore implements specgraph.Store on a local directory tree:
// <root>/<project>/<feature-id>.json.
type FileStore struct {
	root string
}

// New creates a FileStore rooted at dir. The directory is created lazily by
// CreateSchema or the first write.
func New(dir string) *FileStore {
	return &FileStore{root: dir}
}

// CreateSchema creates the root directory if it doesn't exist.
func (s *FileStore) CreateSchema(ctx context.Context) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("specstore: create root: %w", err)
	}
	return nil
}

// DropSchema removes the root directory and every record under it.
func (s *FileStore) DropSchema(ctx context.Context) error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("specstore: drop root: %w", err)
	}
	return nil
}

// SaveSet replaces a project's record directory with the given features.
func (s *FileStore) SaveSet(ctx context.Context, project string, features []specgraph.Feature) error {
	dir := filepath.Join(s.root, project)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("specstore: replace set: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("specstore: create set dir: %w", err)
	}
	for i := range features {
		f := &features[i]
		normalize(f)
		if err := writeRecord(dir, f); err != nil {
			return err
		}
	}
	return nil
}

// LoadSet reads every record of a project, ordered by createdAt (ties broken
// by id). Returns an empty slice (not nil) if the project has no records.
func (s *FileStore) LoadSet(ctx context.Context, project string) ([]specgraph.Feature, error) {
	return s.ListFeatures(ctx, project)
}

// DeleteSet removes a project's record directory.
// No error if the project doesn't exist.
func (s *FileStore) DeleteSet(ctx context.Context, project string) error {
	if err := os.RemoveAll(filepath.Join(s.root, project)); err != nil {
		return fmt.Errorf("specstore: delete set: %w", err)
	}
	return nil
}

// AddFeature writes a single record into a project.
// If f.ID is empty, a UUID is auto-generated (likewise for its conditions).
func (s *FileStore) AddFeature(ctx context.Context, project string, f *specgraph.Feature) (string, error) {
	dir := filepath.Join(s.root, project)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("specstore: create set dir: %w", err)
	}
	normalize(f)
	if err := writeRecord(dir, f); err != nil {
		return "", err
	}
	return f.ID, nil
}

// GetFeature looks a record up by id across every project.
// Returns nil, nil if not found.
func (s *FileStore) GetFeature(ctx context.Context, id string) (*specgraph.Feature, error) {
	path, err := s.findRecord(id)
	if err != nil || path == "" {
		return nil, err
	}
	return readRecord(path)
}

// UpdateFeature replaces an existing record in place.
// Returns specgraph.ErrNodeNotFound if the record doesn't exist.
func (s *FileStore) UpdateFeature(ctx context.Context, f *specgraph.Feature) error {
	path, err := s.findRecord(f.ID)
	if err != nil {
		return err
	}
	if path == "" {
		return specgraph.ErrNodeNotFound
	}
	normalize(f)
	f.UpdatedAt = time.Now().UTC()
	return writeRecord(filepath.Dir(path), f)
}

// DeleteFeature removes a record by id. No error if it doesn't exist.
func (s *FileStore) DeleteFeature(ctx context.Context, id string) error {
	path, err := s.findRecord(id)
	if err != nil || path == "" {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("specstore: delete feature: %w", err)
	}
	return nil
}

// ListFeatures reads every record of a project, ordered by createdAt.
func (s *FileStore) ListFeatures(ctx context.Context, project string) ([]specgraph.Feature, error) {
	dir := filepath.Join(s.root, project)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []specgraph.Feature{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("specstore: list features: %w", err)
	}

	features := []specgraph.Feature{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		f, err := readRecord(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		features = append(features, *f)
	}
	sort.SliceStable(features, func(i, j int) bool {
		if !features[i].CreatedAt.Equal(features[j].CreatedAt) {
			return features[i].CreatedAt.Before(features[j].CreatedAt)
		}
		return features[i].ID < features[j].ID
	})
	return features, nil
}

// findRecord returns the path of the record file holding id, or "".
func (s *FileStore) findRecord(id string) (string, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("specstore: scan root: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(s.root, e.Name(), id+".json")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// writeRecord marshals a record and writes it atomically via temp + rename.
func writeRecord(dir string, f *specgraph.Feature) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("specstore: encode feature %s: %w", f.ID, err)
	}
	tmp, err := os.CreateTemp(dir, "."+f.ID+"-*")
	if err != nil {
		return fmt.Errorf("specstore: write feature %s: %w", f.ID, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("specstore: write feature %s: %w", f.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("specstore: write feature %s: %w", f.ID, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, f.ID+".json")); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("specstore: write feature %s: %w", f.ID, err)
	}
	return nil
}

// readRecord loads and shape-checks one record file.
func readRecord(path string) (*specgraph.Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("specstore: read feature: %w", err)
	}
	var f specgraph.Feature
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("specstore: decode %s: %w", filepath.Base(path), err)
	}
	if f.SchemaVersion > specgraph.SchemaVersion {
		return nil, fmt.Errorf("specstore: feature %s has schemaVersion %d: %w",
			f.ID, f.SchemaVersion, specgraph.ErrSchemaVersion)
	}
	return &f, nil
}

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
