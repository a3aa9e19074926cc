package network

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cast"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

var ErrNodeNotFound = errors.New("node not found")

// topology is the part of the gonum simple graphs that Graph mutates.
type topology interface {
	graph.Graph
	graph.NodeAdder
	graph.EdgeAdder
	graph.EdgeRemover
}

type edgeKey struct {
	u, v int
}

// Edge is an edge between two node indices.
type Edge struct {
	U, V int
}

// Graph is a labelled network. Nodes are numbered densely in insertion
// order and that index is also the ID of the node in the underlying gonum
// graph, so matrix rows and node indices always agree.
type Graph struct {
	directed bool
	g        topology

	labels    []string
	index     map[string]int
	nodeAttrs []map[string]string

	// Sorted successor (and predecessor, for directed graphs) lists.
	succ [][]int
	pred [][]int

	edgeAttrs map[edgeKey]map[string]float64
	loops     map[int]map[string]float64
}

func New(directed bool) *Graph {
	g := &Graph{
		directed:  directed,
		index:     make(map[string]int),
		edgeAttrs: make(map[edgeKey]map[string]float64),
		loops:     make(map[int]map[string]float64),
	}
	if directed {
		g.g = simple.NewDirectedGraph()
	} else {
		g.g = simple.NewUndirectedGraph()
	}
	return g
}

func (g *Graph) Directed() bool {
	return g.directed
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.labels)
}

// Gonum exposes the underlying topology for gonum algorithms. Node IDs are
// node indices. It must not be mutated.
func (g *Graph) Gonum() graph.Graph {
	return g.g
}

func (g *Graph) Label(i int) string {
	return g.labels[i]
}

// Labels returns the node labels in index order.
func (g *Graph) Labels() []string {
	out := make([]string, len(g.labels))
	copy(out, g.labels)
	return out
}

func (g *Graph) Index(label string) (int, bool) {
	i, ok := g.index[label]
	return i, ok
}

// Lookup is Index with an error for unknown labels.
func (g *Graph) Lookup(label string) (int, error) {
	i, ok := g.index[label]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrNodeNotFound, label)
	}
	return i, nil
}

// AddNode adds a node if it does not exist yet and returns its index.
func (g *Graph) AddNode(label string) int {
	if i, ok := g.index[label]; ok {
		return i
	}
	i := len(g.labels)
	g.labels = append(g.labels, label)
	g.index[label] = i
	g.nodeAttrs = append(g.nodeAttrs, nil)
	g.succ = append(g.succ, nil)
	if g.directed {
		g.pred = append(g.pred, nil)
	}
	g.g.AddNode(simple.Node(int64(i)))
	return i
}

func (g *Graph) SetNodeAttr(i int, key, value string) {
	if g.nodeAttrs[i] == nil {
		g.nodeAttrs[i] = make(map[string]string)
	}
	g.nodeAttrs[i][key] = value
}

func (g *Graph) NodeAttr(i int, key string) (string, bool) {
	v, ok := g.nodeAttrs[i][key]
	return v, ok
}

// NodeAttrs returns a copy of the attributes of node i.
func (g *Graph) NodeAttrs(i int) map[string]string {
	out := make(map[string]string, len(g.nodeAttrs[i]))
	for k, v := range g.nodeAttrs[i] {
		out[k] = v
	}
	return out
}

// Truthy reports whether node i carries a true value for attr. Boolean
// literals and non-zero numbers are true, everything else is false.
func (g *Graph) Truthy(i int, attr string) bool {
	v, ok := g.NodeAttr(i, attr)
	if !ok {
		return false
	}
	if b, err := cast.ToBoolE(v); err == nil {
		return b
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		return f != 0
	}
	return false
}

func (g *Graph) key(u, v int) edgeKey {
	if !g.directed && u > v {
		u, v = v, u
	}
	return edgeKey{u, v}
}

// AddEdge adds an edge between the labelled nodes, creating them if
// needed. Attributes of an existing edge are updated. Self-loops are kept
// aside from the topology; see SelfLoops.
func (g *Graph) AddEdge(u, v string, attrs map[string]float64) {
	g.AddEdgeIndex(g.AddNode(u), g.AddNode(v), attrs)
}

func (g *Graph) AddEdgeIndex(u, v int, attrs map[string]float64) {
	if u == v {
		if g.loops[u] == nil {
			g.loops[u] = make(map[string]float64)
		}
		for k, w := range attrs {
			g.loops[u][k] = w
		}
		return
	}
	k := g.key(u, v)
	if !g.HasEdge(u, v) {
		g.g.SetEdge(simple.Edge{F: simple.Node(int64(u)), T: simple.Node(int64(v))})
		g.succ[u] = insertSorted(g.succ[u], v)
		if g.directed {
			g.pred[v] = insertSorted(g.pred[v], u)
		} else {
			g.succ[v] = insertSorted(g.succ[v], u)
		}
		g.edgeAttrs[k] = make(map[string]float64, len(attrs))
	}
	for name, w := range attrs {
		g.edgeAttrs[k][name] = w
	}
}

// RemoveEdge removes the edge between u and v if present.
func (g *Graph) RemoveEdge(u, v int) {
	if u == v {
		delete(g.loops, u)
		return
	}
	if !g.HasEdge(u, v) {
		return
	}
	g.g.RemoveEdge(int64(u), int64(v))
	g.succ[u] = removeSorted(g.succ[u], v)
	if g.directed {
		g.pred[v] = removeSorted(g.pred[v], u)
	} else {
		g.succ[v] = removeSorted(g.succ[v], u)
	}
	delete(g.edgeAttrs, g.key(u, v))
}

func (g *Graph) HasEdge(u, v int) bool {
	if u == v {
		_, ok := g.loops[u]
		return ok
	}
	if g.directed {
		return g.g.(graph.Directed).HasEdgeFromTo(int64(u), int64(v))
	}
	return g.g.HasEdgeBetween(int64(u), int64(v))
}

// EdgeAttr returns the attribute of the edge between u and v.
func (g *Graph) EdgeAttr(u, v int, attr string) (float64, bool) {
	if u == v {
		w, ok := g.loops[u][attr]
		return w, ok
	}
	w, ok := g.edgeAttrs[g.key(u, v)][attr]
	return w, ok
}

// Weight returns the weight of the edge between u and v: 0 without an edge,
// 1 if attr is empty or the edge does not carry attr.
func (g *Graph) Weight(u, v int, attr string) float64 {
	if !g.HasEdge(u, v) {
		return 0
	}
	if attr == "" {
		return 1
	}
	if w, ok := g.EdgeAttr(u, v, attr); ok {
		return w
	}
	return 1
}

// Neighbours returns the sorted successors of u. The returned slice must
// not be modified.
func (g *Graph) Neighbours(u int) []int {
	return g.succ[u]
}

// Degree returns the number of edges incident to u, self-loops counting
// twice.
func (g *Graph) Degree(u int) int {
	d := len(g.succ[u])
	if g.directed {
		d += len(g.pred[u])
	}
	if _, ok := g.loops[u]; ok {
		d += 2
	}
	return d
}

// Edges returns all edges, self-loops excluded, ordered by source then
// target index. Undirected edges are listed once with U < V.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for u, nbrs := range g.succ {
		for _, v := range nbrs {
			if !g.directed && v < u {
				continue
			}
			out = append(out, Edge{u, v})
		}
	}
	return out
}

// NumEdges returns the number of edges, self-loops excluded.
func (g *Graph) NumEdges() int {
	n := 0
	for _, nbrs := range g.succ {
		n += len(nbrs)
	}
	if !g.directed {
		n /= 2
	}
	return n
}

// SelfLoops returns the sorted indices of nodes with a self-loop.
func (g *Graph) SelfLoops() []int {
	out := make([]int, 0, len(g.loops))
	for u := range g.loops {
		out = append(out, u)
	}
	sort.Ints(out)
	return out
}

// Subgraph returns the graph induced by the nodes for which keep returns
// true. Node order and attributes are preserved.
func (g *Graph) Subgraph(keep func(i int) bool) *Graph {
	h := New(g.directed)
	for i, l := range g.labels {
		if !keep(i) {
			continue
		}
		j := h.AddNode(l)
		for k, v := range g.nodeAttrs[i] {
			h.SetNodeAttr(j, k, v)
		}
	}
	for _, e := range g.Edges() {
		u, uok := h.index[g.labels[e.U]]
		v, vok := h.index[g.labels[e.V]]
		if uok && vok {
			h.AddEdgeIndex(u, v, g.edgeAttrs[g.key(e.U, e.V)])
		}
	}
	for l, attrs := range g.loops {
		if u, ok := h.index[g.labels[l]]; ok {
			h.AddEdgeIndex(u, u, attrs)
		}
	}
	return h
}

func (g *Graph) Copy() *Graph {
	return g.Subgraph(func(int) bool { return true })
}

func (g *Graph) String() string {
	kind := "undirected"
	if g.directed {
		kind = "directed"
	}
	return fmt.Sprintf("%s graph with %d nodes and %d edges", kind, g.Len(), g.NumEdges())
}

func insertSorted(s []int, x int) []int {
	i := sort.SearchInts(s, x)
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = x
	return s
}

func removeSorted(s []int, x int) []int {
	i := sort.SearchInts(s, x)
	if i < len(s) && s[i] == x {
		return append(s[:i], s[i+1:]...)
	}
	return s
}
