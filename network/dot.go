package network

import (
	"errors"
	"io"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	dotfmt "gonum.org/v1/gonum/graph/formats/dot"
	"gonum.org/v1/gonum/graph/simple"
)

type dotNode struct {
	graph.Node
	label string
	attrs map[string]string
}

func (n *dotNode) SetDOTID(id string) {
	n.label = id
}

func (n *dotNode) SetAttribute(attr encoding.Attribute) error {
	n.attrs[attr.Key] = attr.Value
	return nil
}

type dotEdge struct {
	graph.Edge
	attrs map[string]string
}

func (e *dotEdge) SetAttribute(attr encoding.Attribute) error {
	e.attrs[attr.Key] = attr.Value
	return nil
}

// dotRecord keeps nodes and edges in the order they appear in the file.
type dotRecord struct {
	nodes []*dotNode
	edges []*dotEdge
}

func (r *dotRecord) node(n graph.Node) graph.Node {
	return &dotNode{Node: n, attrs: make(map[string]string)}
}

func (r *dotRecord) edge(from, to graph.Node) graph.Edge {
	return &dotEdge{Edge: simple.Edge{F: from, T: to}, attrs: make(map[string]string)}
}

func (r *dotRecord) add(n graph.Node) {
	if dn, ok := n.(*dotNode); ok {
		r.nodes = append(r.nodes, dn)
	}
}

// set records e and reports whether it belongs in the gonum topology.
func (r *dotRecord) set(e graph.Edge) bool {
	if de, ok := e.(*dotEdge); ok {
		r.edges = append(r.edges, de)
	}
	return e.From().ID() != e.To().ID()
}

type dotUndirected struct {
	*simple.UndirectedGraph
	dotRecord
}

func (g *dotUndirected) NewNode() graph.Node { return g.node(g.UndirectedGraph.NewNode()) }
func (g *dotUndirected) AddNode(n graph.Node) {
	g.UndirectedGraph.AddNode(n)
	g.add(n)
}
func (g *dotUndirected) NewEdge(from, to graph.Node) graph.Edge { return g.edge(from, to) }
func (g *dotUndirected) SetEdge(e graph.Edge) {
	if g.set(e) {
		g.UndirectedGraph.SetEdge(e)
	}
}

type dotDirected struct {
	*simple.DirectedGraph
	dotRecord
}

func (g *dotDirected) NewNode() graph.Node { return g.node(g.DirectedGraph.NewNode()) }
func (g *dotDirected) AddNode(n graph.Node) {
	g.DirectedGraph.AddNode(n)
	g.add(n)
}
func (g *dotDirected) NewEdge(from, to graph.Node) graph.Edge { return g.edge(from, to) }
func (g *dotDirected) SetEdge(e graph.Edge) {
	if g.set(e) {
		g.DirectedGraph.SetEdge(e)
	}
}

// ReadDOT reads a network from a Graphviz DOT file holding a single graph
// or digraph. Numeric edge attributes become edge weights, node attributes
// are kept as strings.
func ReadDOT(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	file, err := dotfmt.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	if len(file.Graphs) == 0 {
		return nil, errors.New("dot: no graph in file")
	}
	directed := file.Graphs[0].Directed

	var rec *dotRecord
	if directed {
		dst := &dotDirected{DirectedGraph: simple.NewDirectedGraph()}
		rec = &dst.dotRecord
		err = dot.Unmarshal(data, dst)
	} else {
		dst := &dotUndirected{UndirectedGraph: simple.NewUndirectedGraph()}
		rec = &dst.dotRecord
		err = dot.Unmarshal(data, dst)
	}
	if err != nil {
		return nil, err
	}

	g := New(directed)
	for _, n := range rec.nodes {
		i := g.AddNode(n.label)
		for k, v := range n.attrs {
			g.SetNodeAttr(i, k, v)
		}
	}
	for _, e := range rec.edges {
		attrs := make(map[string]float64)
		for k, v := range e.attrs {
			if w, err := strconv.ParseFloat(v, 64); err == nil {
				attrs[k] = w
			}
		}
		g.AddEdge(e.From().(*dotNode).label, e.To().(*dotNode).label, attrs)
	}
	return g, nil
}
