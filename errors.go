package specgraph

import "errors"

var (
	// ErrNodeNotFound is returned when an operation names a node id that is
	// absent from the graph or store. It lets callers tell "no impact" apart
	// from "unknown node".
	ErrNodeNotFound = errors.New("specgraph: node not found")

	// ErrUnknownStatus is returned when a raw status string is outside the
	// closed enumeration.
	ErrUnknownStatus = errors.New("specgraph: unknown status")

	// ErrSchemaVersion is returned by stores when a persisted record carries
	// a schemaVersion newer than this library understands.
	ErrSchemaVersion = errors.New("specgraph: unsupported schema version")
)
