package predictors

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/linkpred/golinkpred/evaluation"
	"github.com/linkpred/golinkpred/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func distanceGraph5() *network.Graph {
	return buildGraph(false, []wedge{{"0", "1", 1}, {"0", "2", 3}, {"1", "2", 1}, {"1", "3", 2}, {"2", "4", 1}})
}

func TestGraphDistanceUnweighted(t *testing.T) {
	want := scores{
		{"0", "1"}: 1, {"0", "2"}: 1, {"1", "2"}: 1, {"1", "3"}: 1, {"2", "4"}: 1,
		{"0", "3"}: 0.5, {"0", "4"}: 0.5, {"1", "4"}: 0.5, {"2", "3"}: 0.5,
		{"3", "4"}: 1. / 3,
	}
	g := distanceGraph5()
	checkSheet(t, want, predict(t, "GraphDistance", g, "", unweighted))
	checkSheet(t, want, predict(t, "GraphDistance", g, "", Params{"alpha": 0}))
}

func TestGraphDistanceWeighted(t *testing.T) {
	want := scores{
		{"0", "1"}: 1, {"0", "2"}: 3, {"1", "2"}: 1, {"1", "3"}: 2, {"2", "4"}: 1,
		{"0", "3"}: 2. / 3, {"0", "4"}: 0.75, {"1", "4"}: 0.5, {"2", "3"}: 2. / 3,
		{"3", "4"}: 0.4,
	}
	checkSheet(t, want, predict(t, "GraphDistance", distanceGraph5(), "", nil))
}

func TestGraphDistanceAlpha(t *testing.T) {
	s2, s3 := math.Sqrt(2), math.Sqrt(3)
	want := scores{
		{"0", "1"}: 1, {"0", "2"}: s3, {"1", "2"}: 1, {"1", "3"}: s2,
		{"2", "4"}: 1, {"0", "3"}: 1 / (1 + 1/s2),
		{"0", "4"}: 1 / (1 + 1/s3), {"1", "4"}: 0.5,
		{"2", "3"}: 1 / (1 + 1/s2), {"3", "4"}: 1 / (2 + 1/s2),
	}
	checkSheet(t, want, predict(t, "GraphDistance", distanceGraph5(), "", Params{"alpha": 0.5}))
}

func TestGraphDistanceUnreachable(t *testing.T) {
	g := buildGraph(false, []wedge{{"a", "b", 1}, {"c", "d", 1}})
	checkSheet(t, scores{{"a", "b"}: 1, {"c", "d"}: 1}, predict(t, "GraphDistance", g, "", nil))
}

func katzGraph(directed bool) *network.Graph {
	edges := []wedge{{"1", "2", 1}, {"0", "2", 5}, {"2", "3", 1}, {"0", "4", 2}, {"1", "4", 1}, {"3", "5", 1}, {"4", "5", 3}}
	if !directed {
		return buildGraph(false, edges)
	}
	g := network.New(true)
	for _, e := range edges {
		g.AddEdge(e.u, e.v, map[string]float64{"weight": e.w})
		g.AddEdge(e.v, e.u, map[string]float64{"weight": e.w})
	}
	return g
}

func TestKatz(t *testing.T) {
	const beta = 0.01
	g := katzGraph(false)
	for _, weight := range []string{"weight", ""} {
		var inv, k mat.Dense
		n := g.Len()
		m := g.AdjacencyMatrix(weight)
		k.Scale(-beta, m)
		for i := 0; i < n; i++ {
			k.Set(i, i, k.At(i, i)+1)
		}
		require.NoError(t, inv.Inverse(&k))

		params := Params{"beta": beta, "weight": weight}
		if weight == "" {
			params["weight"] = nil
		}
		sheet := predict(t, "Katz", g, "", params)
		assert.Equal(t, n*(n-1)/2, sheet.Len())
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				p := evaluation.MustPair(g.Label(i), g.Label(j))
				assert.InDelta(t, inv.At(i, j), sheet.Get(p), 1e-5, "%v weight=%q", p, weight)
			}
		}
	}
}

func TestKatzUndirectedIsHalved(t *testing.T) {
	params := Params{"beta": 0.1, "max_power": 3}
	undirected := predict(t, "Katz", katzGraph(false), "", params)
	directed := predict(t, "Katz", katzGraph(true), "", params)
	require.Equal(t, directed.Len(), undirected.Len())
	directed.Each(func(p evaluation.Pair, w float64) {
		assert.InDelta(t, w/2, undirected.Get(p), 1e-9, "%v", p)
	})
}

func TestKatzEligible(t *testing.T) {
	g := katzGraph(false)
	for _, l := range []string{"0", "1", "2"} {
		i, _ := g.Index(l)
		g.SetNodeAttr(i, "eligible", "true")
	}
	sheet := predict(t, "Katz", g, "eligible", nil)
	checkKeys := func(p evaluation.Pair) {
		assert.Contains(t, []string{"0", "1", "2"}, p.U)
		assert.Contains(t, []string{"0", "1", "2"}, p.V)
	}
	assert.Equal(t, 3, sheet.Len())
	sheet.Each(func(p evaluation.Pair, _ float64) { checkKeys(p) })
}

func TestGraphDistanceRejectsNegativeWeights(t *testing.T) {
	g := buildGraph(false, []wedge{{"a", "b", -1}, {"b", "c", 2}})
	p, err := New("GraphDistance", g, "")
	require.NoError(t, err)
	for _, params := range []Params{nil, {"alpha": 0.5}} {
		_, err = p.Predict(params)
		assert.True(t, errors.Is(err, ErrBadParameter), "%v", err)
	}
	// Costs are not derived from weights here.
	checkSheet(t, scores{{"a", "b"}: 1, {"b", "c"}: 1, {"a", "c"}: 0.5}, predict(t, "GraphDistance", g, "", unweighted))
}

func TestKatzRing(t *testing.T) {
	const n = 1000
	g := network.New(false)
	for i := 0; i < n; i++ {
		g.AddEdge(fmt.Sprint(i), fmt.Sprint((i+1)%n), nil)
	}
	const b = 0.001
	// Walks of length l between nodes at distance d on a long ring.
	want := map[int]float64{
		1: b + 3*math.Pow(b, 3) + 10*math.Pow(b, 5),
		2: b*b + 4*math.Pow(b, 4),
		3: math.Pow(b, 3) + 5*math.Pow(b, 5),
		4: math.Pow(b, 4),
		5: math.Pow(b, 5),
	}
	sheet := predict(t, "Katz", g, "", nil)
	require.Equal(t, n*len(want), sheet.Len())
	for d, w := range want {
		assert.InEpsilon(t, w, sheet.Get(evaluation.MustPair("10", fmt.Sprint(10+d))), 1e-9, "distance %d", d)
		assert.InEpsilon(t, w, sheet.Get(evaluation.MustPair("0", fmt.Sprint(n-d))), 1e-9, "distance %d", d)
	}
	_, ok := sheet.Lookup(evaluation.MustPair("10", "16"))
	assert.False(t, ok)
}

func TestKatzDirected(t *testing.T) {
	const beta, maxPower = 0.1, 4
	g := buildGraph(true, []wedge{{"a", "b", 2}, {"b", "c", 1}, {"c", "a", 3}, {"c", "d", 1}, {"d", "d", 2}, {"e", "a", 1}})
	n := g.Len()
	adj := g.AdjacencyMatrix("weight")
	sum := mat.NewDense(n, n, nil)
	power := mat.DenseCopyOf(adj)
	for k := 1; k <= maxPower; k++ {
		if k > 1 {
			var next mat.Dense
			next.Mul(power, adj)
			power = &next
		}
		var term mat.Dense
		term.Scale(math.Pow(beta, float64(k)), power)
		sum.Add(sum, &term)
	}

	sheet := predict(t, "Katz", g, "", Params{"beta": beta, "max_power": maxPower})
	want := scores{}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if w := sum.At(i, j) + sum.At(j, i); w != 0 {
				want[[2]string{g.Label(i), g.Label(j)}] = w
			}
		}
	}
	checkSheet(t, want, sheet)
}
