package predictors

import (
	"github.com/linkpred/golinkpred/evaluation"
	"github.com/linkpred/golinkpred/network"
)

// rootedPageRank scores (root, v) by the PageRank of v in random walks
// restarting at root, summed over both directions. With the k parameter
// every walk is confined to the k-neighbourhood of its root, which is
// faster but approximate.
func rootedPageRank(b *Base, p Params) (*evaluation.Scoresheet, error) {
	weight, err := p.Weight("weight")
	if err != nil {
		return nil, err
	}
	alpha, err := p.Float("alpha", 0.85)
	if err != nil {
		return nil, err
	}
	beta, err := p.Float("beta", 0)
	if err != nil {
		return nil, err
	}
	k, err := p.Int("k", 0)
	if err != nil {
		return nil, err
	}
	ego := p.Has("k") && k > 0

	res := evaluation.NewScoresheet()
	var whole *network.Transition
	if !ego {
		whole = b.G.Transition(weight)
	}
	for _, u := range b.EligibleNodes() {
		g, root, walk := b.G, u, whole
		if ego {
			g = b.G.EgoGraph(u, k)
			root, _ = g.Index(b.G.Label(u))
			walk = g.Transition(weight)
		}
		for v, w := range walk.RootedPageRank(root, alpha, beta) {
			if w <= 0 || v == root {
				continue
			}
			// Attributes are carried over to the ego graph.
			if b.Eligible != "" && !g.Truthy(v, b.Eligible) {
				continue
			}
			res.Add(evaluation.MustPair(b.G.Label(u), g.Label(v)), w)
		}
	}
	return res, nil
}

// simRank reads the pair scores off the upper triangle of the SimRank
// matrix.
func simRank(b *Base, p Params) (*evaluation.Scoresheet, error) {
	weight, err := p.Weight("weight")
	if err != nil {
		return nil, err
	}
	c, err := p.Float("c", 0.8)
	if err != nil {
		return nil, err
	}
	iterations, err := p.Int("num_iterations", 10)
	if err != nil {
		return nil, err
	}
	res := evaluation.NewScoresheet()
	sim := b.G.SimRank(c, iterations, weight)
	if sim == nil {
		return res, nil
	}
	n, _ := sim.Dims()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if w := sim.At(i, j); w > 0 && b.EligiblePair(i, j) {
				res.Set(b.pair(i, j), w)
			}
		}
	}
	return res, nil
}
