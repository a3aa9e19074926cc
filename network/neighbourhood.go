package network

import (
	"math"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// Neighbourhood returns the sorted nodes within k hops of u, u excluded.
// For k <= 1 these are the direct neighbours.
func (g *Graph) Neighbourhood(u, k int) []int {
	if k <= 1 {
		return g.succ[u]
	}
	var found []int
	var bf traverse.BreadthFirst
	bf.Walk(g.g, simple.Node(int64(u)), func(n graph.Node, d int) bool {
		if d > k {
			return true
		}
		if d > 0 {
			found = append(found, int(n.ID()))
		}
		return false
	})
	sort.Ints(found)
	return found
}

type hood struct {
	node, k int
}

// Neighbourhoods computes (weighted) sizes of neighbourhoods, their
// intersections and unions. Neighbourhoods wider than one hop are memoised,
// since predictors ask for the same node over and over.
type Neighbourhoods struct {
	g     *Graph
	cache *lru.Cache[hood, []int]
}

// NewNeighbourhoods returns a helper for g keeping up to size k-hop
// neighbourhoods. A size <= 0 disables memoisation.
func NewNeighbourhoods(g *Graph, size int) *Neighbourhoods {
	n := &Neighbourhoods{g: g}
	if size > 0 {
		n.cache, _ = lru.New[hood, []int](size)
	}
	return n
}

func (n *Neighbourhoods) Graph() *Graph {
	return n.g
}

// Of returns the k-neighbourhood of u.
func (n *Neighbourhoods) Of(u, k int) []int {
	if k <= 1 || n.cache == nil {
		return n.g.Neighbourhood(u, k)
	}
	h := hood{u, k}
	if nodes, ok := n.cache.Get(h); ok {
		return nodes
	}
	nodes := n.g.Neighbourhood(u, k)
	n.cache.Add(h, nodes)
	return nodes
}

// Size is the number of nodes in the k-neighbourhood of u or, if weight is
// set, the sum of the weights of the edges from u to them raised to power.
func (n *Neighbourhoods) Size(u int, weight string, k int, power float64) float64 {
	nodes := n.Of(u, k)
	if weight == "" {
		return float64(len(nodes))
	}
	var s float64
	for _, v := range nodes {
		s += math.Pow(n.g.Weight(u, v, weight), power)
	}
	return s
}

// IntersectionSize is the number of common k-neighbours of a and b or, if
// weight is set, the dot product of their weight vectors.
func (n *Neighbourhoods) IntersectionSize(a, b int, weight string, k int) float64 {
	common := Intersection(n.Of(a, k), n.Of(b, k))
	if weight == "" {
		return float64(len(common))
	}
	var s float64
	for _, c := range common {
		s += n.g.Weight(a, c, weight) * n.g.Weight(b, c, weight)
	}
	return s
}

// UnionSize combines Size and IntersectionSize by inclusion-exclusion.
func (n *Neighbourhoods) UnionSize(a, b int, weight string, k int, power float64) float64 {
	if weight == "" {
		na, nb := n.Of(a, k), n.Of(b, k)
		return float64(len(na) + len(nb) - len(Intersection(na, nb)))
	}
	return n.Size(a, weight, k, power) + n.Size(b, weight, k, power) - n.IntersectionSize(a, b, weight, k)
}

// Intersection returns the common elements of two sorted slices.
func Intersection(a, b []int) []int {
	var out []int
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// Difference returns the elements of sorted a that are not in sorted b.
func Difference(a, b []int) []int {
	var out []int
	j := 0
	for _, x := range a {
		for j < len(b) && b[j] < x {
			j++
		}
		if j < len(b) && b[j] == x {
			continue
		}
		out = append(out, x)
	}
	return out
}

// EgoGraph returns the subgraph induced by u and its k-neighbourhood.
func (g *Graph) EgoGraph(u, k int) *Graph {
	keep := map[int]bool{u: true}
	for _, v := range g.Neighbourhood(u, k) {
		keep[v] = true
	}
	return g.Subgraph(func(i int) bool { return keep[i] })
}
