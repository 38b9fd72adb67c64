package specgraph

import (
	"sort"
	"strings"
)

// statusGlyphs gives each status a distinct marker in rendered trees.
var statusGlyphs = map[Status]string{
	StatusDraft:       "○",
	StatusActive:      "◐",
	StatusNeedsReview: "◇",
	StatusVerified:    "●",
	StatusDeprecated:  "✕",
}

// fallbackGlyph marks nodes carrying a status outside the enumeration.
const fallbackGlyph = "?"

// RenderTree produces the hierarchical text rendering of a graph: roots
// sorted by id, depth first, each feature's conditions before its feature
// children. Identical graph in, byte-identical text out.
func RenderTree(g *Graph) string {
	var b strings.Builder

	roots := make([]string, len(g.Roots))
	copy(roots, g.Roots)
	sort.Strings(roots)

	for _, id := range roots {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		b.WriteString(nodeLine(n))
		b.WriteString("\n")
		renderChildren(g, &b, id, "")
	}
	return b.String()
}

func renderChildren(g *Graph, b *strings.Builder, id, prefix string) {
	children := g.Tree[id]
	for i, childID := range children {
		n, ok := g.Node(childID)
		if !ok {
			continue
		}
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(nodeLine(n))
		b.WriteString("\n")
		renderChildren(g, b, childID, childPrefix)
	}
}

func nodeLine(n Node) string {
	glyph, ok := statusGlyphs[n.NodeStatus()]
	if !ok {
		glyph = fallbackGlyph
	}
	title := n.NodeTitle()
	if title == "" {
		return glyph + " " + n.NodeID()
	}
	return glyph + " " + n.NodeID() + ": " + title
}
