package predictors

import (
	"slices"

	"github.com/linkpred/golinkpred/evaluation"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
)

// communityLevels returns the communities, as original node IDs, at every
// level of a Louvain clustering from the finest to the coarsest. Levels
// that merge nothing are left out.
func communityLevels(r community.ReducedGraph) [][][]graph.Node {
	var levels [][][]graph.Node
	for !nilReduced(r) {
		if !singletons(r.Structure()) {
			levels = append(levels, r.Communities())
		}
		r = r.Expanded()
	}
	slices.Reverse(levels)
	return levels
}

// nilReduced reports whether r is absent. Expanded returns a typed nil at
// the lowest level.
func nilReduced(r community.ReducedGraph) bool {
	switch r := r.(type) {
	case *community.ReducedUndirected:
		return r == nil
	case *community.ReducedDirected:
		return r == nil
	}
	return r == nil
}

func singletons(structure [][]graph.Node) bool {
	for _, c := range structure {
		if len(c) > 1 {
			return false
		}
	}
	return true
}

// communityPredictor rewards pairs for sharing a Louvain community: with L
// levels, sharing one at level i (0 being the finest) scores L-i.
func communityPredictor(b *Base, p Params) (*evaluation.Scoresheet, error) {
	seed, err := p.Int("seed", 1)
	if err != nil {
		return nil, err
	}
	resolution, err := p.Float("resolution", 1)
	if err != nil {
		return nil, err
	}
	res := evaluation.NewScoresheet()
	if b.G.Len() == 0 {
		return res, nil
	}
	levels := communityLevels(community.Modularize(b.G.Gonum(), resolution, rand.NewSource(uint64(seed))))
	for i, communities := range levels {
		weight := float64(len(levels) - i)
		for _, nodes := range communities {
			for x, u := range nodes {
				for _, v := range nodes[x+1:] {
					if b.EligiblePair(int(u.ID()), int(v.ID())) {
						res.Add(b.pair(int(u.ID()), int(v.ID())), weight)
					}
				}
			}
		}
	}
	return res, nil
}

// copyPredictor predicts the edges of the graph itself, scored by their
// weight or 1.
func copyPredictor(b *Base, p Params) (*evaluation.Scoresheet, error) {
	weight, err := p.Weight("")
	if err != nil {
		return nil, err
	}
	res := evaluation.NewScoresheet()
	for _, e := range b.G.Edges() {
		if w := b.G.Weight(e.U, e.V, weight); w > 0 {
			res.Set(b.pair(e.U, e.V), w)
		}
	}
	return res, nil
}

// randomPredictor scores every eligible pair uniformly at random.
func randomPredictor(b *Base, p Params) (*evaluation.Scoresheet, error) {
	seed, err := p.Int("seed", 1)
	if err != nil {
		return nil, err
	}
	rnd := rand.New(rand.NewSource(uint64(seed)))
	res := evaluation.NewScoresheet()
	for _, e := range b.allPairs() {
		if w := rnd.Float64(); w > 0 {
			res.Set(b.pair(e.U, e.V), w)
		}
	}
	return res, nil
}
