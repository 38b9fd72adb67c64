package specgraph

import "sort"

// Graph is a derived, read-only snapshot of one Feature set. It is rebuilt
// from scratch by BuildGraph on every call and never persisted; callers must
// rebuild whenever the underlying records change.
type Graph struct {
	// Tree maps a Feature id to its child node ids: the Feature's own
	// Condition ids first, then child Feature ids in input order.
	Tree map[string][]string `json:"tree"`

	// Roots lists Feature ids with no parent, in input order.
	Roots []string `json:"roots"`

	// Dag maps a Feature id to its declared dependency ids.
	Dag map[string][]string `json:"dag"`

	// ReverseDag maps a dependency id to the Feature ids that depend on it.
	ReverseDag map[string][]string `json:"reverseDag"`

	// TopologicalOrder is a full linearization of the Feature ids when the
	// dependency graph is acyclic, nil otherwise. The order is
	// dependent-first: a node appears only after everything depending on it,
	// so the most-depended-upon features come last. Reverse it for a
	// build-dependencies-first order.
	TopologicalOrder []string `json:"topologicalOrder,omitempty"`

	// CycleNodes is exactly the set of Feature ids that could not be
	// linearized, sorted by id. Empty when the graph is acyclic.
	CycleNodes []string `json:"cycleNodes,omitempty"`

	// OrphanNodes lists Feature ids whose declared parent does not exist in
	// the input set, sorted by id. Orphan-ness is a warning, not a failure.
	OrphanNodes []string `json:"orphanNodes,omitempty"`

	nodes    map[string]Node
	features map[string]*Feature
}

// BuildGraph constructs the unified graph for a Feature set: the parent/child
// tree, the dependency DAG and its reverse, a topological ordering when the
// DAG is acyclic, and the cycle/orphan findings. Input order never changes
// which nodes end up in Tree, Roots or Dag, only sibling ordering.
func BuildGraph(features []Feature) *Graph {
	g := &Graph{
		Tree:       make(map[string][]string, len(features)),
		Dag:        make(map[string][]string, len(features)),
		ReverseDag: make(map[string][]string),
		nodes:      make(map[string]Node),
		features:   make(map[string]*Feature, len(features)),
	}

	// Copy records so the snapshot cannot alias caller-owned memory.
	owned := make([]Feature, len(features))
	copy(owned, features)

	// First pass: register every node and each feature's condition children.
	for i := range owned {
		f := &owned[i]
		g.nodes[f.ID] = f
		g.features[f.ID] = f

		children := make([]string, 0, len(f.Conditions))
		for j := range f.Conditions {
			c := &f.Conditions[j]
			g.nodes[c.ID] = c
			children = append(children, c.ID)
		}
		g.Tree[f.ID] = children

		deps := make([]string, len(f.Dependencies))
		copy(deps, f.Dependencies)
		g.Dag[f.ID] = deps
		for _, dep := range f.Dependencies {
			g.ReverseDag[dep] = append(g.ReverseDag[dep], f.ID)
		}
	}

	// Second pass: wire parents. A missing parent id flags the child as an
	// orphan; the rest of the graph stays valid.
	for i := range owned {
		f := &owned[i]
		if f.Parent == "" {
			g.Roots = append(g.Roots, f.ID)
			continue
		}
		if _, ok := g.features[f.Parent]; !ok {
			g.OrphanNodes = append(g.OrphanNodes, f.ID)
			continue
		}
		g.Tree[f.Parent] = append(g.Tree[f.Parent], f.ID)
	}
	sort.Strings(g.OrphanNodes)

	g.TopologicalOrder, g.CycleNodes = topoSort(owned, g.features)
	return g
}

// topoSort runs Kahn's in-degree elimination over the dependency edges.
// For every feature A and each declared dependency B, inDegree[B] is
// incremented once; dependency targets absent from the set are skipped
// entirely. When every feature makes it into the output the order is
// returned with no cycle nodes; otherwise the order is nil and the residual
// set — every feature that never reached in-degree zero — is returned sorted.
func topoSort(features []Feature, known map[string]*Feature) (order, cycle []string) {
	inDegree := make(map[string]int, len(features))
	for i := range features {
		inDegree[features[i].ID] = 0
	}
	for i := range features {
		for _, dep := range features[i].Dependencies {
			if _, ok := known[dep]; ok {
				inDegree[dep]++
			}
		}
	}

	queue := make([]string, 0, len(features))
	for i := range features {
		if inDegree[features[i].ID] == 0 {
			queue = append(queue, features[i].ID)
		}
	}

	order = make([]string, 0, len(features))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, dep := range known[id].Dependencies {
			if _, ok := known[dep]; !ok {
				continue
			}
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(order) == len(features) {
		return order, nil
	}

	placed := make(map[string]bool, len(order))
	for _, id := range order {
		placed[id] = true
	}
	for i := range features {
		if !placed[features[i].ID] {
			cycle = append(cycle, features[i].ID)
		}
	}
	sort.Strings(cycle)
	return nil, cycle
}

// Node returns the Feature or Condition registered under id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Feature returns the Feature registered under id; Condition ids miss.
func (g *Graph) Feature(id string) (*Feature, bool) {
	f, ok := g.features[id]
	return f, ok
}

// Len reports the total node count, Conditions included.
func (g *Graph) Len() int { return len(g.nodes) }

// Acyclic reports whether the dependency graph linearized fully.
func (g *Graph) Acyclic() bool { return g.TopologicalOrder != nil }
