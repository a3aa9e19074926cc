package predictors

import (
	"errors"
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/linkpred/golinkpred/evaluation"
	"github.com/linkpred/golinkpred/network"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

var (
	ErrUnknownPredictor = errors.New("unknown predictor")
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrBadParameter     = errors.New("bad parameter")
)

// Neighbourhoods wider than one hop are memoised up to this many entries
// per predictor.
const hoodCacheSize = 4096

// Params holds the loosely typed parameters of a prediction, as read from
// a profile.
type Params map[string]any

func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

func (p Params) Float(name string, def float64) (float64, error) {
	v, ok := p[name]
	if !ok {
		return def, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %s", ErrBadParameter, name, err)
	}
	return f, nil
}

func (p Params) Int(name string, def int) (int, error) {
	v, ok := p[name]
	if !ok {
		return def, nil
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %s", ErrBadParameter, name, err)
	}
	return i, nil
}

// Weight returns the edge attribute to use as weight. An explicit null or
// empty value means unweighted.
func (p Params) Weight(def string) (string, error) {
	v, ok := p["weight"]
	if !ok {
		return def, nil
	}
	if v == nil {
		return "", nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("%w: weight: %s", ErrBadParameter, err)
	}
	return s, nil
}

// Base holds the graph a predictor works on and decides which nodes take
// part in predictions.
type Base struct {
	G *network.Graph
	// Eligible names a node attribute. If set, only nodes for which it is
	// true are predicted.
	Eligible string

	hoods *network.Neighbourhoods
}

func NewBase(g *network.Graph, eligible string) *Base {
	return &Base{G: g, Eligible: eligible, hoods: network.NewNeighbourhoods(g, hoodCacheSize)}
}

func (b *Base) EligibleNode(u int) bool {
	return b.Eligible == "" || b.G.Truthy(u, b.Eligible)
}

func (b *Base) EligiblePair(u, v int) bool {
	return u != v && b.EligibleNode(u) && b.EligibleNode(v)
}

func (b *Base) EligibleNodes() []int {
	var out []int
	for u := 0; u < b.G.Len(); u++ {
		if b.EligibleNode(u) {
			out = append(out, u)
		}
	}
	return out
}

func (b *Base) pair(u, v int) evaluation.Pair {
	return evaluation.MustPair(b.G.Label(u), b.G.Label(v))
}

// likelyPairs returns the eligible pairs of nodes within k hops of each
// other, each unordered pair once, u < v.
func (b *Base) likelyPairs(k int) []network.Edge {
	seen := make(map[network.Edge]bool)
	var out []network.Edge
	for _, u := range b.EligibleNodes() {
		for _, v := range b.hoods.Of(u, k) {
			if !b.EligiblePair(u, v) {
				continue
			}
			e := network.Edge{U: min(u, v), V: max(u, v)}
			if seen[e] {
				continue
			}
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// allPairs returns every eligible pair, u < v.
func (b *Base) allPairs() []network.Edge {
	nodes := b.EligibleNodes()
	out := make([]network.Edge, 0, len(nodes)*(len(nodes)-1)/2)
	for i, u := range nodes {
		for _, v := range nodes[i+1:] {
			out = append(out, network.Edge{U: u, V: v})
		}
	}
	return out
}

type predictFunc func(b *Base, p Params) (*evaluation.Scoresheet, error)

// Predictor scores pairs of nodes of a graph.
type Predictor struct {
	*Base
	name    string
	params  []string
	predict predictFunc
}

func (p *Predictor) Name() string {
	return p.name
}

// Parameters returns the names of the parameters Predict accepts.
func (p *Predictor) Parameters() []string {
	return p.params
}

// Predict computes the scoresheet. Pairs scoring 0 or less are absent.
func (p *Predictor) Predict(params Params) (*evaluation.Scoresheet, error) {
	for name := range params {
		if !slices.Contains(p.params, name) {
			return nil, fmt.Errorf("%w: %s does not accept %q", ErrUnknownParameter, p.name, name)
		}
	}
	logrus.Debugf("Predicting with %s %v", p.name, params)
	return p.predict(p.Base, params)
}

// FilterExcluded removes the excluded pairs from sheet and returns it.
func FilterExcluded(sheet *evaluation.Scoresheet, excluded mapset.Set[evaluation.Pair]) *evaluation.Scoresheet {
	if excluded == nil {
		return sheet
	}
	sheet.Each(func(p evaluation.Pair, _ float64) {
		if excluded.Contains(p) {
			sheet.Delete(p)
		}
	})
	return sheet
}
