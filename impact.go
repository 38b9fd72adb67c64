package specgraph

// Relation classifies how an impacted node was reached from the change
// source.
type Relation string

const (
	// RelationChild marks a direct child (tree edge) of the source.
	RelationChild Relation = "child"
	// RelationDependent marks a direct dependent (reverse dependency edge)
	// of the source.
	RelationDependent Relation = "dependent"
	// RelationTransitive marks a node reached through more than one hop.
	RelationTransitive Relation = "transitive"
)

// ImpactedNode is one node reached from the change source.
type ImpactedNode struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Depth    int      `json:"depth"`
	Relation Relation `json:"relation"`
}

// ImpactResult is the outcome of one bounded impact traversal.
type ImpactResult struct {
	SourceID      string         `json:"sourceId"`
	MaxDepth      int            `json:"maxDepth"`
	ImpactedNodes []ImpactedNode `json:"impactedNodes"`
}

// AnalyzeImpact walks outward from sourceID over tree-child and dependent
// edges, breadth first, up to maxDepth hops. Depth-1 discoveries are labeled
// child or dependent; deeper ones transitive. A node is recorded at most
// once — first discovery wins, even if a later path is shorter or carries a
// different relation — which also guarantees termination on cyclic graphs.
// Returns ErrNodeNotFound when sourceID is absent from the graph, so callers
// can tell "no impact" from "unknown node".
func AnalyzeImpact(g *Graph, sourceID string, maxDepth int) (*ImpactResult, error) {
	if _, ok := g.Node(sourceID); !ok {
		return nil, ErrNodeNotFound
	}
	if maxDepth < 1 {
		maxDepth = 1
	}

	result := &ImpactResult{
		SourceID:      sourceID,
		MaxDepth:      maxDepth,
		ImpactedNodes: []ImpactedNode{},
	}

	visited := map[string]bool{sourceID: true}
	frontier := []string{sourceID}

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			for _, childID := range g.Tree[id] {
				if n, added := visit(g, visited, childID); added {
					result.ImpactedNodes = append(result.ImpactedNodes,
						impacted(n, depth, RelationChild))
					next = append(next, childID)
				}
			}
			for _, depID := range g.ReverseDag[id] {
				if n, added := visit(g, visited, depID); added {
					result.ImpactedNodes = append(result.ImpactedNodes,
						impacted(n, depth, RelationDependent))
					next = append(next, depID)
				}
			}
		}
		frontier = next
	}

	return result, nil
}

// visit marks id as seen and returns its node. added is false for ids that
// were already visited or are not graph nodes (unresolved edge targets).
func visit(g *Graph, visited map[string]bool, id string) (n Node, added bool) {
	if visited[id] {
		return nil, false
	}
	n, ok := g.Node(id)
	if !ok {
		return nil, false
	}
	visited[id] = true
	return n, true
}

func impacted(n Node, depth int, rel Relation) ImpactedNode {
	if depth > 1 {
		rel = RelationTransitive
	}
	return ImpactedNode{
		ID:       n.NodeID(),
		Title:    n.NodeTitle(),
		Depth:    depth,
		Relation: rel,
	}
}
