package specgraph

import "context"

// Store defines the contract for persisting and retrieving Feature records.
// The engine never touches a Store itself; servers and tools load records
// through one, run the engine over the in-memory set, and decide what to
// write back.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Spec sets (bulk operations, replace semantics)
	SaveSet(ctx context.Context, project string, features []Feature) error
	LoadSet(ctx context.Context, project string) ([]Feature, error)
	DeleteSet(ctx context.Context, project string) error

	// Features
	AddFeature(ctx context.Context, project string, f *Feature) (string, error)
	GetFeature(ctx context.Context, id string) (*Feature, error)
	UpdateFeature(ctx context.Context, f *Feature) error
	DeleteFeature(ctx context.Context, id string) error
	ListFeatures(ctx context.Context, project string) ([]Feature, error)
}
