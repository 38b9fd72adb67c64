package specgraph

// StatusChange is one entry in a propagation change-set: the node whose
// status should move, and from/to what. Applying changes is the caller's job.
type StatusChange struct {
	ID        string `json:"id"`
	OldStatus Status `json:"oldStatus"`
	NewStatus Status `json:"newStatus"`
}

// PropagationRule decides what status a reached node should take when the
// source node's status changes. Returning ok=false leaves the node alone.
// Keeping the rule a plain function keeps it testable apart from traversal.
type PropagationRule func(rel Relation, sourceStatus, currentStatus Status) (newStatus Status, ok bool)

// ReviewRule is the default propagation policy: any status change on a
// dependency or parent forces reached nodes back to needs-review, except
// deprecated nodes, which stay put.
func ReviewRule(rel Relation, sourceStatus, currentStatus Status) (Status, bool) {
	if currentStatus == StatusDeprecated {
		return "", false
	}
	return StatusNeedsReview, true
}

// PropagateStatus computes the dry-run change-set for moving sourceID to
// newStatus: it walks the same child and dependent edges as AnalyzeImpact
// (unbounded depth, visited-set terminated) and records a change for every
// reached node whose current status differs from what rule decides. Neither
// the graph nor the underlying records are mutated. A nil rule means
// ReviewRule. Returns ErrNodeNotFound for an unknown sourceID.
func PropagateStatus(g *Graph, sourceID string, newStatus Status, rule PropagationRule) ([]StatusChange, error) {
	if _, ok := g.Node(sourceID); !ok {
		return nil, ErrNodeNotFound
	}
	if rule == nil {
		rule = ReviewRule
	}

	changes := []StatusChange{}
	visited := map[string]bool{sourceID: true}
	frontier := []string{sourceID}

	for depth := 1; len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			for _, childID := range g.Tree[id] {
				if n, added := visit(g, visited, childID); added {
					changes = appendChange(changes, n, depth, RelationChild, newStatus, rule)
					next = append(next, childID)
				}
			}
			for _, depID := range g.ReverseDag[id] {
				if n, added := visit(g, visited, depID); added {
					changes = appendChange(changes, n, depth, RelationDependent, newStatus, rule)
					next = append(next, depID)
				}
			}
		}
		frontier = next
	}

	return changes, nil
}

func appendChange(changes []StatusChange, n Node, depth int, rel Relation, sourceStatus Status, rule PropagationRule) []StatusChange {
	if depth > 1 {
		rel = RelationTransitive
	}
	target, ok := rule(rel, sourceStatus, n.NodeStatus())
	if !ok || target == n.NodeStatus() {
		return changes
	}
	return append(changes, StatusChange{
		ID:        n.NodeID(),
		OldStatus: n.NodeStatus(),
		NewStatus: target,
	})
}
