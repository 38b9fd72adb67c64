package specgraph

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The persisted field names are a cross-consumer contract: renaming any of
// them breaks every independent parser of the same records.
func TestFeaturePersistedFieldNames(t *testing.T) {
	f := Feature{
		ID:            "f1",
		NodeType:      NodeTypeFeature,
		Title:         "Title",
		Description:   "Desc",
		Status:        StatusActive,
		Parent:        "p1",
		Dependencies:  []string{"d1"},
		CodeRefs:      []string{"a.go#L1"},
		Tags:          []string{"core"},
		Metadata:      map[string]any{"k": "v"},
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
		SchemaVersion: SchemaVersion,
		Conditions: []Condition{
			{ID: "c1", NodeType: NodeTypeCondition, Description: "d", Status: StatusDraft},
		},
	}

	data, err := json.Marshal(&f)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{
		"id", "nodeType", "title", "description", "status", "parent",
		"dependencies", "conditions", "codeRefs", "tags", "metadata",
		"createdAt", "updatedAt", "schemaVersion",
	} {
		assert.Contains(t, raw, key)
	}

	var conds []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["conditions"], &conds))
	require.Len(t, conds, 1)
	for _, key := range []string{"id", "nodeType", "description", "status"} {
		assert.Contains(t, conds[0], key)
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("needs-review")
	require.NoError(t, err)
	assert.Equal(t, StatusNeedsReview, s)

	_, err = ParseStatus("done")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestNodeInterface(t *testing.T) {
	f := feat("f1")
	f.CodeRefs = []string{"a.go#L1"}
	c := Condition{ID: "c1", Description: "check", Status: StatusDraft}

	var n Node = &f
	assert.Equal(t, "f1", n.NodeID())
	assert.Equal(t, "Feature f1", n.NodeTitle())
	assert.Equal(t, []string{"a.go#L1"}, n.NodeCodeRefs())

	n = &c
	assert.Equal(t, "c1", n.NodeID())
	assert.Equal(t, "check", n.NodeTitle())
	assert.Equal(t, StatusDraft, n.NodeStatus())
}
