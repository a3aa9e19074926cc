package predictors

import (
	"math"
	"sort"

	"github.com/linkpred/golinkpred/evaluation"
	"github.com/linkpred/golinkpred/network"
)

// likelyK is the neighbourhood radius within which candidate pairs are
// looked for.
const likelyK = 2

// similarity builds a predictor scoring likely pairs with score. The
// weight parameter defaults to unweighted.
func similarity(score func(b *Base, weight string, u, v int) float64) predictFunc {
	return func(b *Base, p Params) (*evaluation.Scoresheet, error) {
		weight, err := p.Weight("")
		if err != nil {
			return nil, err
		}
		res := evaluation.NewScoresheet()
		for _, e := range b.likelyPairs(likelyK) {
			if w := score(b, weight, e.U, e.V); w > 0 {
				res.Set(b.pair(e.U, e.V), w)
			}
		}
		return res, nil
	}
}

func (b *Base) size(u int, weight string) float64 {
	return b.hoods.Size(u, weight, 1, 2)
}

func (b *Base) intersection(u, v int, weight string) float64 {
	return b.hoods.IntersectionSize(u, v, weight, 1)
}

// edgeProduct is w(u, c)·w(v, c), 1 if unweighted.
func (b *Base) edgeProduct(u, v, c int, weight string) float64 {
	if weight == "" {
		return 1
	}
	return b.G.Weight(u, c, weight) * b.G.Weight(v, c, weight)
}

func adamicAdar(b *Base, weight string, u, v int) float64 {
	var w float64
	for _, c := range network.Intersection(b.G.Neighbours(u), b.G.Neighbours(v)) {
		l := math.Log(b.size(c, weight))
		if l <= 0 {
			continue
		}
		w += b.edgeProduct(u, v, c, weight) / l
	}
	return w
}

func resourceAllocation(b *Base, weight string, u, v int) float64 {
	var w float64
	for _, c := range network.Intersection(b.G.Neighbours(u), b.G.Neighbours(v)) {
		if s := b.size(c, weight); s > 0 {
			w += b.edgeProduct(u, v, c, weight) / s
		}
	}
	return w
}

func associationStrength(b *Base, weight string, u, v int) float64 {
	return b.intersection(u, v, weight) / (b.size(u, weight) * b.size(v, weight))
}

func cosine(b *Base, weight string, u, v int) float64 {
	return b.intersection(u, v, weight) / math.Sqrt(b.size(u, weight)*b.size(v, weight))
}

func jaccard(b *Base, weight string, u, v int) float64 {
	return b.intersection(u, v, weight) / b.hoods.UnionSize(u, v, weight, 1, 2)
}

func nMeasure(b *Base, weight string, u, v int) float64 {
	su, sv := b.size(u, weight), b.size(v, weight)
	return math.Sqrt2 * b.intersection(u, v, weight) / math.Sqrt(su*su+sv*sv)
}

func maxOverlap(b *Base, weight string, u, v int) float64 {
	return b.intersection(u, v, weight) / math.Max(b.size(u, weight), b.size(v, weight))
}

func minOverlap(b *Base, weight string, u, v int) float64 {
	return b.intersection(u, v, weight) / math.Min(b.size(u, weight), b.size(v, weight))
}

// pearson correlates the neighbour vectors of u and v. The vectors are
// taken to have |V|-1 entries.
func pearson(b *Base, weight string, u, v int) float64 {
	n := float64(b.G.Len() - 1)
	l2u, l2v := b.size(u, weight), b.size(v, weight)
	l1u, l1v := b.hoods.Size(u, weight, 1, 1), b.hoods.Size(v, weight, 1, 1)
	num := n*b.intersection(u, v, weight) - l1u*l1v
	den := math.Sqrt(n*l2u-l1u*l1u) * math.Sqrt(n*l2v-l1v*l1v)
	if den == 0 {
		return 0
	}
	return num / den
}

// commonNeighbours is |N(u)∩N(v)|^(1-α) · S(u,v)^α, S being the weighted
// intersection.
func commonNeighbours(b *Base, p Params) (*evaluation.Scoresheet, error) {
	weight, err := p.Weight("")
	if err != nil {
		return nil, err
	}
	alpha, err := p.Float("alpha", 1)
	if err != nil {
		return nil, err
	}
	res := evaluation.NewScoresheet()
	for _, e := range b.likelyPairs(likelyK) {
		var w float64
		switch {
		case weight == "" || alpha == 0:
			w = b.intersection(e.U, e.V, "")
		case alpha == 1:
			w = b.intersection(e.U, e.V, weight)
		default:
			k := b.intersection(e.U, e.V, "")
			s := b.intersection(e.U, e.V, weight)
			w = math.Pow(k, 1-alpha) * math.Pow(s, alpha)
		}
		if w > 0 {
			res.Set(b.pair(e.U, e.V), w)
		}
	}
	return res, nil
}

// commonKNeighbours is Σ_{k=1}^{max_k} β^k |Γk(u)∩Γk(v)|.
func commonKNeighbours(b *Base, p Params) (*evaluation.Scoresheet, error) {
	weight, err := p.Weight("")
	if err != nil {
		return nil, err
	}
	beta, err := p.Float("beta", 0.01)
	if err != nil {
		return nil, err
	}
	maxK, err := p.Int("max_k", 3)
	if err != nil {
		return nil, err
	}
	res := evaluation.NewScoresheet()
	for _, e := range b.likelyPairs(likelyK) {
		var w float64
		for k := 1; k <= maxK; k++ {
			w += math.Pow(beta, float64(k)) * b.hoods.IntersectionSize(e.U, e.V, weight, k)
		}
		if w > 0 {
			res.Set(b.pair(e.U, e.V), w)
		}
	}
	return res, nil
}

// degreeProduct scores every eligible pair, also those without common
// neighbours, keeping scores of at least minimum.
func degreeProduct(b *Base, p Params) (*evaluation.Scoresheet, error) {
	weight, err := p.Weight("")
	if err != nil {
		return nil, err
	}
	minimum, err := p.Float("minimum", 1)
	if err != nil {
		return nil, err
	}
	res := evaluation.NewScoresheet()
	for _, e := range b.allPairs() {
		w := b.size(e.U, weight) * b.size(e.V, weight)
		if w >= minimum && w > 0 {
			res.Set(b.pair(e.U, e.V), w)
		}
	}
	return res, nil
}

// k50 compares the observed overlap with the one expected by chance.
func k50(b *Base, p Params) (*evaluation.Scoresheet, error) {
	weight, err := p.Weight("")
	if err != nil {
		return nil, err
	}
	var all float64
	for u := 0; u < b.G.Len(); u++ {
		all += b.size(u, weight)
	}
	res := evaluation.NewScoresheet()
	for _, e := range b.likelyPairs(likelyK) {
		su, sv := b.size(e.U, weight), b.size(e.V, weight)
		den := su * sv
		if den == 0 || all == su || all == sv {
			continue
		}
		expected := math.Min(den/(all-su), den/(all-sv))
		w := (b.intersection(e.U, e.V, weight) - expected) / math.Sqrt(den)
		if w > 0 {
			res.Set(b.pair(e.U, e.V), w)
		}
	}
	return res, nil
}

// minkowski builds a predictor scoring 1/d, d being the Minkowski distance
// of order r between the weight vectors of two nodes. A fixed r > 0 takes
// precedence over the r parameter.
func minkowski(r float64) predictFunc {
	return func(b *Base, p Params) (*evaluation.Scoresheet, error) {
		weight, err := p.Weight("weight")
		if err != nil {
			return nil, err
		}
		order := r
		if order <= 0 {
			if order, err = p.Float("r", 1); err != nil {
				return nil, err
			}
		}
		res := evaluation.NewScoresheet()
		for _, e := range b.likelyPairs(likelyK) {
			nu, nv := b.G.Neighbours(e.U), b.G.Neighbours(e.V)
			var d float64
			for _, c := range network.Intersection(nu, nv) {
				d += math.Pow(math.Abs(b.G.Weight(e.U, c, weight)-b.G.Weight(e.V, c, weight)), order)
			}
			for _, c := range network.Difference(nu, nv) {
				d += math.Pow(b.G.Weight(e.U, c, weight), order)
			}
			for _, c := range network.Difference(nv, nu) {
				d += math.Pow(b.G.Weight(e.V, c, weight), order)
			}
			d = math.Pow(d, 1/order)
			if d > 0 {
				res.Set(b.pair(e.U, e.V), 1/d)
			}
		}
		return res, nil
	}
}

// hIndex is the largest h such that h of the values are at least h.
func hIndex(values []int) int {
	sorted := append([]int(nil), values...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	h := 0
	for i, x := range sorted {
		if x < i+1 {
			break
		}
		h = i + 1
	}
	return h
}

// hCore returns the sorted neighbours of u having at least h neighbours
// themselves, h being the h-index of those neighbour degrees.
func (b *Base) hCore(u int) []int {
	nbrs := b.G.Neighbours(u)
	degrees := make([]int, len(nbrs))
	for i, c := range nbrs {
		degrees[i] = len(b.G.Neighbours(c))
	}
	h := hIndex(degrees)
	var core []int
	for i, c := range nbrs {
		if degrees[i] >= h {
			core = append(core, c)
		}
	}
	return core
}

// hirschCore is the Jaccard index of the h-cores of both nodes.
func hirschCore(b *Base, _ Params) (*evaluation.Scoresheet, error) {
	res := evaluation.NewScoresheet()
	for _, e := range b.likelyPairs(likelyK) {
		if len(network.Intersection(b.G.Neighbours(e.U), b.G.Neighbours(e.V))) == 0 {
			continue
		}
		cu, cv := b.hCore(e.U), b.hCore(e.V)
		common := len(network.Intersection(cu, cv))
		if common == 0 {
			continue
		}
		res.Set(b.pair(e.U, e.V), float64(common)/float64(len(cu)+len(cv)-common))
	}
	return res, nil
}
