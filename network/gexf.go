package network

import (
	"encoding/xml"
	"io"

	"github.com/spf13/cast"
	"gonum.org/v1/gonum/graph/formats/gexf12"
)

// ReadGEXF reads a GEXF 1.2 network. Node IDs become labels, attribute
// values are stored under their attribute titles and the edge weight under
// "weight". Numeric edge attributes are kept, others are dropped.
func ReadGEXF(r io.Reader) (*Graph, error) {
	var content gexf12.Content
	if err := xml.NewDecoder(r).Decode(&content); err != nil {
		return nil, err
	}
	titles := map[string]map[string]string{"node": {}, "edge": {}}
	for _, attrs := range content.Graph.Attributes {
		if titles[attrs.Class] == nil {
			continue
		}
		for _, a := range attrs.Attributes {
			titles[attrs.Class][a.ID] = a.Title
		}
	}
	title := func(class, id string) string {
		if t, ok := titles[class][id]; ok && t != "" {
			return t
		}
		return id
	}

	g := New(content.Graph.DefaultEdgeType == "directed")
	for _, n := range content.Graph.Nodes.Nodes {
		i := g.AddNode(n.ID)
		if n.AttValues == nil {
			continue
		}
		for _, v := range n.AttValues.AttValues {
			g.SetNodeAttr(i, title("node", v.For), v.Value)
		}
	}
	for _, e := range content.Graph.Edges.Edges {
		attrs := make(map[string]float64)
		if e.AttValues != nil {
			for _, v := range e.AttValues.AttValues {
				if f, err := cast.ToFloat64E(v.Value); err == nil {
					attrs[title("edge", v.For)] = f
				}
			}
		}
		if e.Weight != 0 {
			attrs["weight"] = e.Weight
		}
		g.AddEdge(e.Source, e.Target, attrs)
	}
	return g, nil
}
