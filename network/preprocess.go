package network

import (
	"github.com/sirupsen/logrus"
)

// WithoutSelfLoops returns a copy of g without self-loops.
func WithoutSelfLoops(g *Graph) *Graph {
	h := g.Copy()
	if loops := h.SelfLoops(); len(loops) > 0 {
		logrus.Warnf("Network contains %d self-loops. Removing...", len(loops))
		for _, u := range loops {
			h.RemoveEdge(u, u)
		}
	}
	return h
}

// WithoutLowDegreeNodes returns a copy of g without the nodes whose degree
// is below minimum. If eligible is set, only eligible nodes are removed.
func WithoutLowDegreeNodes(g *Graph, minimum int, eligible string) *Graph {
	removed := 0
	h := g.Subgraph(func(i int) bool {
		if g.Degree(i) >= minimum {
			return true
		}
		if eligible != "" && !g.Truthy(i, eligible) {
			return true
		}
		removed++
		return false
	})
	logrus.Infof("Removed %d nodes (degree < %d)", removed, minimum)
	return h
}

// WithoutUncommonNodes returns copies of the networks restricted to the
// nodes they all share. If eligible is set, only eligible nodes are removed.
func WithoutUncommonNodes(networks []*Graph, eligible string) []*Graph {
	out := make([]*Graph, len(networks))
	if len(networks) == 0 {
		return out
	}
	common := func(label string) bool {
		for _, g := range networks {
			if _, ok := g.Index(label); !ok {
				return false
			}
		}
		return true
	}
	for n, g := range networks {
		removed := 0
		out[n] = g.Subgraph(func(i int) bool {
			if common(g.Label(i)) {
				return true
			}
			if eligible != "" && !g.Truthy(i, eligible) {
				return true
			}
			removed++
			return false
		})
		logrus.Infof("Removed %d nodes (not common)", removed)
	}
	return out
}
