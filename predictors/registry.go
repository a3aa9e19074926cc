package predictors

import (
	"fmt"
	"sort"

	"github.com/linkpred/golinkpred/network"
)

type entry struct {
	predict predictFunc
	params  []string
}

var weightOnly = []string{"weight"}

var registry = map[string]entry{
	"AdamicAdar":          {similarity(adamicAdar), weightOnly},
	"AssociationStrength": {similarity(associationStrength), weightOnly},
	"CommonNeighbours":    {commonNeighbours, []string{"alpha", "weight"}},
	"CommonKNeighbours":   {commonKNeighbours, []string{"beta", "max_k", "weight"}},
	"Cosine":              {similarity(cosine), weightOnly},
	"DegreeProduct":       {degreeProduct, []string{"minimum", "weight"}},
	"Euclidean":           {minkowski(2), weightOnly},
	"HirschCore":          {hirschCore, nil},
	"Jaccard":             {similarity(jaccard), weightOnly},
	"K50":                 {k50, weightOnly},
	"Manhattan":           {minkowski(1), weightOnly},
	"MaxOverlap":          {similarity(maxOverlap), weightOnly},
	"MinOverlap":          {similarity(minOverlap), weightOnly},
	"Minkowski":           {minkowski(0), []string{"r", "weight"}},
	"NMeasure":            {similarity(nMeasure), weightOnly},
	"Pearson":             {similarity(pearson), weightOnly},
	"ResourceAllocation":  {similarity(resourceAllocation), weightOnly},

	"GraphDistance": {graphDistance, []string{"alpha", "weight"}},
	"Katz":          {katz, []string{"beta", "max_power", "weight"}},

	"RootedPageRank": {rootedPageRank, []string{"alpha", "beta", "k", "weight"}},
	"SimRank":        {simRank, []string{"c", "num_iterations", "weight"}},

	"Community": {communityPredictor, []string{"resolution", "seed"}},
	"Copy":      {copyPredictor, weightOnly},
	"Random":    {randomPredictor, []string{"seed"}},
}

// Names returns the names of all predictors, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parameters returns the parameters accepted by the named predictor.
func Parameters(name string) ([]string, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPredictor, name)
	}
	return e.params, nil
}

// New returns the named predictor for g. If eligible is not empty, only
// nodes for which that attribute is true take part in predictions.
func New(name string, g *network.Graph, eligible string) (*Predictor, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPredictor, name)
	}
	return &Predictor{
		Base:    NewBase(g, eligible),
		name:    name,
		params:  e.params,
		predict: e.predict,
	}, nil
}
