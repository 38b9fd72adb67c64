package specgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// impactFixture builds:
//
//	root ── child (parent edge)
//	root <── dep1 <── dep2 (dependency edges)
//
// plus a condition under child.
func impactFixture() *Graph {
	root := feat("root")
	child := feat("child")
	child.Parent = "root"
	child.Conditions = []Condition{
		{ID: "child-c1", Description: "check", Status: StatusDraft},
	}
	dep1 := feat("dep1", "root")
	dep2 := feat("dep2", "dep1")
	return BuildGraph([]Feature{root, child, dep1, dep2})
}

func TestAnalyzeImpactUnknownSource(t *testing.T) {
	g := impactFixture()

	_, err := AnalyzeImpact(g, "ghost", 3)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestAnalyzeImpactDepthOne(t *testing.T) {
	g := impactFixture()

	result, err := AnalyzeImpact(g, "root", 1)
	require.NoError(t, err)

	require.Len(t, result.ImpactedNodes, 2)
	byID := map[string]ImpactedNode{}
	for _, n := range result.ImpactedNodes {
		byID[n.ID] = n
		assert.Equal(t, 1, n.Depth)
		assert.NotEqual(t, RelationTransitive, n.Relation)
	}
	assert.Equal(t, RelationChild, byID["child"].Relation)
	assert.Equal(t, RelationDependent, byID["dep1"].Relation)
}

func TestAnalyzeImpactTransitive(t *testing.T) {
	g := impactFixture()

	result, err := AnalyzeImpact(g, "root", 3)
	require.NoError(t, err)

	byID := map[string]ImpactedNode{}
	for _, n := range result.ImpactedNodes {
		byID[n.ID] = n
	}
	require.Len(t, byID, 4)
	assert.Equal(t, RelationChild, byID["child"].Relation)
	assert.Equal(t, RelationDependent, byID["dep1"].Relation)
	assert.Equal(t, RelationTransitive, byID["child-c1"].Relation)
	assert.Equal(t, 2, byID["child-c1"].Depth)
	assert.Equal(t, RelationTransitive, byID["dep2"].Relation)
	assert.Equal(t, 2, byID["dep2"].Depth)
}

func TestAnalyzeImpactNoDuplicatesFirstDiscoveryWins(t *testing.T) {
	// "both" is reachable from root as a direct child AND as a direct
	// dependent; it must appear once, with the relation of first discovery.
	root := feat("root")
	both := feat("both", "root")
	both.Parent = "root"
	g := BuildGraph([]Feature{root, both})

	result, err := AnalyzeImpact(g, "root", 3)
	require.NoError(t, err)

	require.Len(t, result.ImpactedNodes, 1)
	assert.Equal(t, "both", result.ImpactedNodes[0].ID)
	assert.Equal(t, RelationChild, result.ImpactedNodes[0].Relation)
}

func TestAnalyzeImpactIdempotent(t *testing.T) {
	g := impactFixture()

	first, err := AnalyzeImpact(g, "root", 2)
	require.NoError(t, err)
	second, err := AnalyzeImpact(g, "root", 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeImpactTerminatesOnCycle(t *testing.T) {
	g := BuildGraph([]Feature{feat("a", "b"), feat("b", "a")})

	result, err := AnalyzeImpact(g, "a", 10)
	require.NoError(t, err)
	require.Len(t, result.ImpactedNodes, 1)
	assert.Equal(t, "b", result.ImpactedNodes[0].ID)
}

func TestAnalyzeImpactFromCondition(t *testing.T) {
	g := impactFixture()

	// Conditions are addressable sources; they just have no outgoing edges.
	result, err := AnalyzeImpact(g, "child-c1", 3)
	require.NoError(t, err)
	assert.Empty(t, result.ImpactedNodes)
}
