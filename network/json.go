package network

import (
	"encoding/json"
	"io"
)

// Adjacency is one record of a JSON adjacency list: a node and the nodes
// it references.
type Adjacency struct {
	Node       string   `json:"node"`
	References []string `json:"references"`
}

// ReadJSON reads an undirected network from a JSON adjacency list such as
//
//	[{"node": "a", "references": ["b", "c"]}, {"node": "d"}]
//
// A node referencing itself yields a self-loop.
func ReadJSON(r io.Reader) (*Graph, error) {
	var records []Adjacency
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}
	g := New(false)
	for _, rec := range records {
		g.AddNode(rec.Node)
		for _, ref := range rec.References {
			g.AddEdge(rec.Node, ref, nil)
		}
	}
	return g, nil
}
