package network

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

// AddRandomEdges adds int(m*pct) random new edges of weight 1 to g, m being
// the current number of edges.
func AddRandomEdges(g *Graph, pct float64, rnd *rand.Rand) {
	AddRemoveRandomEdges(g, pct, 0, rnd)
}

// RemoveRandomEdges removes int(m*pct) random edges from g.
func RemoveRandomEdges(g *Graph, pct float64, rnd *rand.Rand) {
	AddRemoveRandomEdges(g, 0, pct, rnd)
}

// AddRemoveRandomEdges removes and adds random edges, both counts being
// relative to the number of edges before the change.
func AddRemoveRandomEdges(g *Graph, pctAdd, pctRemove float64, rnd *rand.Rand) {
	edges := g.Edges()
	m := len(edges)
	toAdd := int(float64(m) * pctAdd)
	toRemove := int(float64(m) * pctRemove)
	logrus.Debugf("Will add %d (%f) edges to and remove %d (%f) edges from %d", toAdd, pctAdd, toRemove, pctRemove, m)

	var candidates []Edge
	if toAdd > 0 {
		for u := 0; u < g.Len(); u++ {
			for v := u + 1; v < g.Len(); v++ {
				if !g.HasEdge(u, v) && !g.HasEdge(v, u) {
					candidates = append(candidates, Edge{u, v})
				}
			}
		}
	}

	rnd.Shuffle(len(edges), func(i, j int) { edges[i], edges[j] = edges[j], edges[i] })
	for _, e := range edges[:min(toRemove, m)] {
		g.RemoveEdge(e.U, e.V)
	}

	rnd.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	for _, e := range candidates[:min(toAdd, len(candidates))] {
		g.AddEdgeIndex(e.U, e.V, map[string]float64{"weight": 1})
	}
}
