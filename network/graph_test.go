package network

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// 1 - 2 - 4
//  \     /
//   3 --
//    \
//     5
func exampleGraph() *Graph {
	g := New(false)
	for _, e := range [][2]string{{"1", "2"}, {"1", "3"}, {"2", "4"}, {"3", "4"}, {"3", "5"}} {
		g.AddEdge(e[0], e[1], nil)
	}
	return g
}

func weightedGraph() *Graph {
	g := New(false)
	for _, e := range []struct {
		u, v string
		w    float64
	}{{"1", "2", 1}, {"1", "3", 5}, {"2", "4", 2}, {"3", "4", 1}, {"3", "5", 2}} {
		g.AddEdge(e.u, e.v, map[string]float64{"weight": e.w})
	}
	return g
}

func idx(t *testing.T, g *Graph, label string) int {
	i, err := g.Lookup(label)
	if err != nil {
		t.Fatal(err)
	}
	return i
}

func TestGraphBasics(t *testing.T) {
	g := exampleGraph()
	if g.Len() != 5 {
		t.Fatalf("The graph should contain %d nodes (actual %d)", 5, g.Len())
	}
	assert.Equal(t, 5, g.NumEdges())
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, g.Labels())

	three := idx(t, g, "3")
	assert.Equal(t, 3, g.Degree(three))
	assert.Equal(t, []int{0, 3, 4}, g.Neighbours(three))
	assert.True(t, g.HasEdge(three, 0))
	assert.True(t, g.HasEdge(0, three))
	assert.False(t, g.HasEdge(0, 4))

	_, err := g.Lookup("nope")
	assert.True(t, errors.Is(err, ErrNodeNotFound))
}

func TestWeight(t *testing.T) {
	g := weightedGraph()
	one, three, five := idx(t, g, "1"), idx(t, g, "3"), idx(t, g, "5")
	assert.Equal(t, 5.0, g.Weight(one, three, "weight"))
	assert.Equal(t, 5.0, g.Weight(three, one, "weight"))
	assert.Equal(t, 1.0, g.Weight(one, three, ""))
	assert.Equal(t, 1.0, g.Weight(one, three, "missing"))
	assert.Equal(t, 0.0, g.Weight(one, five, "weight"))

	g.AddEdge("1", "3", map[string]float64{"weight": 7})
	assert.Equal(t, 7.0, g.Weight(one, three, "weight"))
	assert.Equal(t, 5, g.NumEdges())
}

func TestDirectedGraph(t *testing.T) {
	g := New(true)
	g.AddEdge("a", "b", nil)
	g.AddEdge("c", "a", nil)
	a, b, c := idx(t, g, "a"), idx(t, g, "b"), idx(t, g, "c")
	assert.True(t, g.HasEdge(a, b))
	assert.False(t, g.HasEdge(b, a))
	assert.Equal(t, []int{b}, g.Neighbours(a))
	assert.Equal(t, 2, g.Degree(a))
	assert.Equal(t, []Edge{{a, b}, {c, a}}, g.Edges())
}

func TestSelfLoopsAndRemoval(t *testing.T) {
	g := New(false)
	g.AddEdge("0", "1", nil)
	g.AddEdge("1", "2", nil)
	g.AddEdge("2", "2", nil)
	assert.Equal(t, []int{2}, g.SelfLoops())
	assert.Equal(t, 2, g.NumEdges())
	assert.Equal(t, []int{1}, g.Neighbours(idx(t, g, "2")))

	g.RemoveEdge(0, 1)
	assert.False(t, g.HasEdge(0, 1))
	assert.Empty(t, g.Neighbours(0))
	assert.Equal(t, 1, g.NumEdges())
}

func TestSubgraphKeepsOrderAndAttributes(t *testing.T) {
	g := weightedGraph()
	g.SetNodeAttr(idx(t, g, "4"), "eligible", "true")
	h := g.Subgraph(func(i int) bool { return g.Label(i) != "1" })
	assert.Equal(t, []string{"2", "3", "4", "5"}, h.Labels())
	assert.Equal(t, 3, h.NumEdges())
	assert.True(t, h.Truthy(idx(t, h, "4"), "eligible"))
	assert.Equal(t, 2.0, h.Weight(idx(t, h, "3"), idx(t, h, "5"), "weight"))
	// The original is untouched.
	assert.Equal(t, 5, g.NumEdges())
}

func TestTruthy(t *testing.T) {
	g := New(false)
	for i, v := range []string{"true", "1", "0.5", "false", "0", "x"} {
		g.SetNodeAttr(g.AddNode(string(rune('a'+i))), "e", v)
	}
	g.AddNode("none")
	var got []bool
	for i := 0; i < g.Len(); i++ {
		got = append(got, g.Truthy(i, "e"))
	}
	assert.Equal(t, []bool{true, true, true, false, false, false, false}, got)
}

func TestAdjacencyMatrix(t *testing.T) {
	g := weightedGraph()
	a := g.AdjacencyMatrix("weight")
	r, c := a.Dims()
	require.Equal(t, 5, r)
	require.Equal(t, 5, c)
	assert.Equal(t, 5.0, a.At(0, 2))
	assert.Equal(t, 5.0, a.At(2, 0))
	assert.Equal(t, 0.0, a.At(0, 4))
	assert.Nil(t, New(false).AdjacencyMatrix(""))
}

func TestRawGoogleMatrix(t *testing.T) {
	g := New(true)
	g.AddEdge("a", "b", nil)
	g.AddEdge("a", "c", nil)
	g.AddNode("d")
	m := g.RawGoogleMatrix("")
	assert.Equal(t, []float64{0, 0.5, 0.5, 0}, m.RawRowView(0))
	// b has no out-links.
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, m.RawRowView(1))
}

func TestRootedPageRank(t *testing.T) {
	g := exampleGraph()
	root := idx(t, g, "1")
	pr := g.RootedPageRank(root, 0.85, 0, "")
	require.Len(t, pr, 5)
	var sum float64
	for _, x := range pr {
		sum += x
	}
	assert.InDelta(t, 1, sum, 1e-6)
	for i, x := range pr {
		if i != root && x >= pr[root] {
			t.Fatalf("The root should have the highest rank (%v)", pr)
		}
	}
	// 5 is two hops away from the root.
	assert.Greater(t, pr[idx(t, g, "2")], pr[idx(t, g, "5")])
}

func TestSimRank(t *testing.T) {
	// Star: the leaves are all alike.
	g := New(false)
	for _, leaf := range []string{"b", "c", "d"} {
		g.AddEdge("a", leaf, nil)
	}
	sim := g.SimRank(0.8, 10, "")
	for i := 0; i < 4; i++ {
		assert.Equal(t, 1.0, sim.At(i, i))
	}
	// Each leaf reaches the hub with probability 1, the hub a leaf with 1/3.
	assert.InDelta(t, 0.8/9, sim.At(1, 2), 1e-9)
	assert.InDelta(t, sim.At(1, 2), sim.At(2, 1), 1e-12)
	assert.False(t, math.IsNaN(sim.At(0, 1)))
	assert.Equal(t, 0.0, sim.At(0, 1))
}

func TestArcs(t *testing.T) {
	g := New(false)
	g.AddEdge("a", "b", map[string]float64{"weight": 2})
	g.AddEdge("b", "b", map[string]float64{"weight": 3})
	g.AddEdge("b", "c", nil)
	rows := g.Arcs("weight")
	require.Len(t, rows, 3)
	assert.Equal(t, []Arc{{1, 2}}, rows[0])
	assert.Equal(t, []Arc{{0, 2}, {1, 3}, {2, 1}}, rows[1])
	assert.Equal(t, []Arc{{1, 1}}, g.Arcs("")[2])
}

// denseRootedPageRank iterates with the full transition matrix.
func denseRootedPageRank(g *Graph, root int, alpha float64, iterations int) []float64 {
	n := g.Len()
	m := g.AdjacencyMatrix("weight")
	dangling := make([]bool, n)
	for i := 0; i < n; i++ {
		row := m.RawRowView(i)
		var s float64
		for _, x := range row {
			s += x
		}
		if s == 0 {
			dangling[i] = true
			continue
		}
		for j := range row {
			row[j] /= s
		}
	}
	x := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.SetVec(i, 1/float64(n))
	}
	for it := 0; it < iterations; it++ {
		var lost float64
		for i, d := range dangling {
			if d {
				lost += x.AtVec(i)
			}
		}
		var next mat.VecDense
		next.MulVec(m.T(), x)
		for i := 0; i < n; i++ {
			restart := 0.0
			if i == root {
				restart = 1
			}
			next.SetVec(i, alpha*(next.AtVec(i)+lost*restart)+(1-alpha)*restart)
		}
		x = &next
	}
	return x.RawVector().Data
}

func TestTransitionRootedPageRank(t *testing.T) {
	g := New(true)
	g.AddEdge("a", "b", map[string]float64{"weight": 1})
	g.AddEdge("a", "c", map[string]float64{"weight": 3})
	g.AddEdge("b", "c", map[string]float64{"weight": 1})
	g.AddEdge("c", "a", map[string]float64{"weight": 2})
	g.AddEdge("c", "c", map[string]float64{"weight": 1})
	// d is dangling.
	g.AddEdge("c", "d", map[string]float64{"weight": 1})

	walk := g.Transition("weight")
	for root := 0; root < g.Len(); root++ {
		got := walk.RootedPageRank(root, 0.85, 0)
		want := denseRootedPageRank(g, root, 0.85, 200)
		require.Len(t, got, len(want))
		for i := range want {
			assert.InDelta(t, want[i], got[i], 1e-4, "root %s node %s", g.Label(root), g.Label(i))
		}
		assert.Equal(t, got, g.RootedPageRank(root, 0.85, 0, "weight"))
	}
	assert.Nil(t, New(false).Transition("").RootedPageRank(0, 0.85, 0))
}
