package predictors

import (
	"fmt"
	"math"
	"sort"

	"github.com/linkpred/golinkpred/evaluation"
	"github.com/linkpred/golinkpred/network"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

type weightedBuilder interface {
	graph.Weighted
	graph.NodeAdder
	graph.WeightedEdgeAdder
}

// distanceGraph converts edge weights, taken as proximities, to costs
// 1/w^alpha. An unweighted graph or alpha 0 gives every edge cost 1.
// Negative or undefined costs are rejected.
func distanceGraph(g *network.Graph, weight string, alpha float64) (graph.Graph, error) {
	var d weightedBuilder
	if g.Directed() {
		d = simple.NewWeightedDirectedGraph(0, math.Inf(1))
	} else {
		d = simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	}
	for u := 0; u < g.Len(); u++ {
		d.AddNode(simple.Node(int64(u)))
	}
	for _, e := range g.Edges() {
		cost := 1.0
		if weight != "" && alpha != 0 {
			w := g.Weight(e.U, e.V, weight)
			cost = 1 / math.Pow(w, alpha)
			if cost < 0 || math.IsNaN(cost) {
				return nil, fmt.Errorf("%w: edge %s-%s has weight %v, distance %v", ErrBadParameter, g.Label(e.U), g.Label(e.V), w, cost)
			}
		}
		d.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(int64(e.U)), T: simple.Node(int64(e.V)), W: cost})
	}
	return d, nil
}

// graphDistance scores reachable pairs by the inverse of their shortest
// path length. For directed graphs the shorter direction counts.
func graphDistance(b *Base, p Params) (*evaluation.Scoresheet, error) {
	weight, err := p.Weight("weight")
	if err != nil {
		return nil, err
	}
	alpha, err := p.Float("alpha", 1)
	if err != nil {
		return nil, err
	}
	dist, err := distanceGraph(b.G, weight, alpha)
	if err != nil {
		return nil, err
	}
	paths := path.DijkstraAllPaths(dist)
	res := evaluation.NewScoresheet()
	for _, u := range b.EligibleNodes() {
		for _, v := range b.EligibleNodes() {
			if u == v || (!b.G.Directed() && v < u) {
				continue
			}
			d := paths.Weight(int64(u), int64(v))
			if math.IsInf(d, 1) || d <= 0 {
				continue
			}
			pair := b.pair(u, v)
			if w, ok := res.Lookup(pair); !ok || 1/d > w {
				res.Set(pair, 1/d)
			}
		}
	}
	return res, nil
}

// katz sums β^k times the number of walks of length k, up to max_power,
// between each pair. Walks are counted from both ends, so undirected
// scores are halved.
func katz(b *Base, p Params) (*evaluation.Scoresheet, error) {
	weight, err := p.Weight("weight")
	if err != nil {
		return nil, err
	}
	beta, err := p.Float("beta", 0.001)
	if err != nil {
		return nil, err
	}
	maxPower, err := p.Int("max_power", 5)
	if err != nil {
		return nil, err
	}
	res := evaluation.NewScoresheet()
	n := b.G.Len()
	rows := b.G.Arcs(weight)
	eligible := make([]bool, n)
	for i := range eligible {
		eligible[i] = b.EligibleNode(i)
	}

	// Row i of A^k is propagated along the arcs, one root at a time. The
	// buffers stay zero between roots.
	walks, next, score := make([]float64, n), make([]float64, n), make([]float64, n)
	grownMark, reachedMark := make([]bool, n), make([]bool, n)
	for _, i := range b.EligibleNodes() {
		front, reached := []int{i}, []int(nil)
		walks[i] = 1
		for k := 1; k <= maxPower; k++ {
			var grown []int
			for _, u := range front {
				for _, arc := range rows[u] {
					if !grownMark[arc.To] {
						grownMark[arc.To] = true
						grown = append(grown, arc.To)
					}
					next[arc.To] += walks[u] * arc.W
				}
				walks[u] = 0
			}
			factor := math.Pow(beta, float64(k))
			for _, v := range grown {
				grownMark[v] = false
				if !reachedMark[v] {
					reachedMark[v] = true
					reached = append(reached, v)
				}
				score[v] += next[v] * factor
			}
			walks, next = next, walks
			front = grown
		}
		for _, u := range front {
			walks[u] = 0
		}
		sort.Ints(reached)
		for _, j := range reached {
			if s := score[j]; j != i && s != 0 && eligible[j] {
				res.Add(b.pair(i, j), s)
			}
			score[j], reachedMark[j] = 0, false
		}
		logrus.Debugf("Katz walks from %s reached %d nodes", b.G.Label(i), len(reached))
	}
	if !b.G.Directed() {
		res.Each(func(pair evaluation.Pair, w float64) {
			res.Set(pair, w/2)
		})
	}
	return res, nil
}
