package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopoOrderLeavesFirst(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("c")
	g.AddEdge("a", "b") // a depends on b
	g.AddEdge("b", "c") // b depends on c

	order, ok := g.TopoOrder()
	require.True(t, ok)
	require.Len(t, order, 3)

	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	assert.Less(t, pos["c"], pos["b"], "c must come before b")
	assert.Less(t, pos["b"], pos["a"], "b must come before a")
}

func TestTopoOrderDetectsCycle(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	_, ok := g.TopoOrder()
	assert.False(t, ok, "a cyclic graph must not produce a topological order")
}

func TestCyclesDetectsSimpleCycle(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("c")
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")

	cycles := g.Cycles()
	require.Len(t, cycles, 1)
	require.Equal(t, "a", cycles[0][0], "cycle path should be closed at its starting node")
	require.Equal(t, "a", cycles[0][len(cycles[0])-1])
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cycles[0][:len(cycles[0])-1])
}

func TestCyclesEmptyForAcyclicGraph(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddEdge("a", "b")

	assert.Empty(t, g.Cycles())
}

func TestCyclesDeduplicatesRotations(t *testing.T) {
	g := New()
	for _, n := range []string{"a", "b", "c"} {
		g.AddNode(n)
	}
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")

	// Starting the DFS from any node in the same cycle must not produce
	// a second, rotated copy of it.
	cycles := g.Cycles()
	assert.Len(t, cycles, 1)
}

func TestCyclesReportsOnePerStronglyConnectedComponent(t *testing.T) {
	g := New()
	for _, n := range []string{"a", "b", "c", "d"} {
		g.AddNode(n)
	}
	// a diamond with two distinct elementary cycles back to "a":
	// a->b->d->a and a->c->d->a. Both b and c are live, a and d both
	// sit on both cycles, so this is one strongly-connected component.
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("b", "d")
	g.AddEdge("c", "d")
	g.AddEdge("d", "a")

	cycles := g.Cycles()
	require.Len(t, cycles, 1, "a component with multiple elementary cycles must still report exactly one")
}

func TestCyclesReportsSelfLoopAsItsOwnComponent(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddEdge("a", "a")
	g.AddEdge("a", "b")

	cycles := g.Cycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "a"}, cycles[0])
}

func TestSuccessorsAndHasNode(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddEdge("a", "b")

	assert.True(t, g.HasNode("a"))
	assert.False(t, g.HasNode("z"))
	assert.Equal(t, []string{"b"}, g.Successors("a"))
	assert.Empty(t, g.Successors("b"))
}
