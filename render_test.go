package specgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func renderFixture() *Graph {
	alpha := feat("alpha")
	alpha.Title = "Alpha"
	alpha.Status = StatusActive
	alpha.Conditions = []Condition{
		{ID: "alpha-c1", Description: "first check", Status: StatusVerified},
	}
	beta := feat("beta")
	beta.Title = "Beta"
	beta.Status = StatusDraft
	beta.Parent = "alpha"
	gamma := feat("gamma")
	gamma.Title = "Gamma"
	gamma.Status = Status("bogus")

	// Out-of-order input: roots must still render sorted by id.
	return BuildGraph([]Feature{gamma, alpha, beta})
}

func TestRenderTree(t *testing.T) {
	got := RenderTree(renderFixture())

	want := "◐ alpha: Alpha\n" +
		"├── ● alpha-c1: first check\n" +
		"└── ○ beta: Beta\n" +
		"? gamma: Gamma\n"
	assert.Equal(t, want, got)
}

func TestRenderTreeDeterministic(t *testing.T) {
	g := renderFixture()

	assert.Equal(t, RenderTree(g), RenderTree(g))
}

func TestRenderTreeNestedPrefixes(t *testing.T) {
	a := feat("a")
	a.Title = "A"
	b := feat("b")
	b.Title = "B"
	b.Parent = "a"
	c := feat("c")
	c.Title = "C"
	c.Parent = "b"
	d := feat("d")
	d.Title = "D"
	d.Parent = "a"

	got := RenderTree(BuildGraph([]Feature{a, b, c, d}))

	want := "◐ a: A\n" +
		"├── ◐ b: B\n" +
		"│   └── ◐ c: C\n" +
		"└── ◐ d: D\n"
	assert.Equal(t, want, got)
}

func TestRenderTreeEmptyGraph(t *testing.T) {
	assert.Equal(t, "", RenderTree(BuildGraph(nil)))
}

func TestRenderTreeGlyphPerStatus(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range []Status{StatusDraft, StatusActive, StatusNeedsReview, StatusVerified, StatusDeprecated} {
		glyph, ok := statusGlyphs[s]
		assert.True(t, ok, "missing glyph for %s", s)
		assert.False(t, seen[glyph], "glyph %q reused", glyph)
		seen[glyph] = true
	}
	assert.False(t, seen[fallbackGlyph], "fallback glyph collides")
}
