package specgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropagateStatusUnknownSource(t *testing.T) {
	g := impactFixture()

	_, err := PropagateStatus(g, "ghost", StatusNeedsReview, nil)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestPropagateStatusDefaultRule(t *testing.T) {
	g := impactFixture()

	changes, err := PropagateStatus(g, "root", StatusDeprecated, nil)
	require.NoError(t, err)

	byID := map[string]StatusChange{}
	for _, ch := range changes {
		byID[ch.ID] = ch
	}
	// Everything reachable moves to needs-review under ReviewRule.
	require.Len(t, byID, 4)
	for _, ch := range changes {
		assert.Equal(t, StatusNeedsReview, ch.NewStatus)
	}
	assert.Equal(t, StatusActive, byID["child"].OldStatus)
}

func TestPropagateStatusSkipsAlreadyAtTarget(t *testing.T) {
	root := feat("root")
	dep := feat("dep", "root")
	dep.Status = StatusNeedsReview
	g := BuildGraph([]Feature{root, dep})

	changes, err := PropagateStatus(g, "root", StatusActive, nil)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestPropagateStatusSkipsDeprecated(t *testing.T) {
	root := feat("root")
	dep := feat("dep", "root")
	dep.Status = StatusDeprecated
	g := BuildGraph([]Feature{root, dep})

	changes, err := PropagateStatus(g, "root", StatusActive, nil)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestPropagateStatusCustomRule(t *testing.T) {
	g := impactFixture()

	// Only direct dependents move, and they mirror the source status.
	rule := func(rel Relation, source, current Status) (Status, bool) {
		if rel != RelationDependent {
			return "", false
		}
		return source, true
	}

	changes, err := PropagateStatus(g, "root", StatusDeprecated, rule)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, "dep1", changes[0].ID)
	assert.Equal(t, StatusDeprecated, changes[0].NewStatus)
}

func TestPropagateStatusDryRunPurity(t *testing.T) {
	features := []Feature{feat("root"), feat("dep", "root")}
	g := BuildGraph(features)

	first, err := PropagateStatus(g, "root", StatusDeprecated, nil)
	require.NoError(t, err)

	// No record was mutated by the first call.
	n, ok := g.Node("dep")
	require.True(t, ok)
	assert.Equal(t, StatusActive, n.NodeStatus())
	assert.Equal(t, StatusActive, features[1].Status)

	second, err := PropagateStatus(g, "root", StatusDeprecated, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPropagateStatusTerminatesOnCycle(t *testing.T) {
	g := BuildGraph([]Feature{feat("a", "b"), feat("b", "a")})

	changes, err := PropagateStatus(g, "a", StatusDeprecated, nil)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "b", changes[0].ID)
}
