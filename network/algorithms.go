package network

import (
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Arc is a weighted link to a successor.
type Arc struct {
	To int
	W  float64
}

// Arcs returns the successors of every node, self-loops included, with the
// edge weight read from weight (1 if empty). Rows follow node indices and
// are sorted by successor.
func (g *Graph) Arcs(weight string) [][]Arc {
	rows := make([][]Arc, g.Len())
	for u, nbrs := range g.succ {
		_, loop := g.loops[u]
		row := make([]Arc, 0, len(nbrs)+1)
		for _, v := range nbrs {
			if loop && v > u {
				row = append(row, Arc{u, g.Weight(u, u, weight)})
				loop = false
			}
			row = append(row, Arc{v, g.Weight(u, v, weight)})
		}
		if loop {
			row = append(row, Arc{u, g.Weight(u, u, weight)})
		}
		rows[u] = row
	}
	return rows
}

// AdjacencyMatrix returns the dense adjacency matrix of g, rows and columns
// following node indices. Entries hold the edge weight read from weight (1
// if empty). It returns nil for an empty graph.
func (g *Graph) AdjacencyMatrix(weight string) *mat.Dense {
	n := g.Len()
	if n == 0 {
		return nil
	}
	a := mat.NewDense(n, n, nil)
	for u, row := range g.Arcs(weight) {
		for _, arc := range row {
			a.Set(u, arc.To, arc.W)
		}
	}
	return a
}

// RawGoogleMatrix returns the row-stochastic transition matrix of g without
// teleportation. Rows of dangling nodes are uniform.
func (g *Graph) RawGoogleMatrix(weight string) *mat.Dense {
	m := g.AdjacencyMatrix(weight)
	if m == nil {
		return nil
	}
	n, _ := m.Dims()
	for i := 0; i < n; i++ {
		row := m.RawRowView(i)
		s := floats.Sum(row)
		if s == 0 {
			for j := range row {
				row[j] = 1 / float64(n)
			}
			continue
		}
		floats.Scale(1/s, row)
	}
	return m
}

const (
	pagerankMaxIter = 100
	pagerankTol     = 1e-6
)

// Transition is the row-normalised transition matrix of a graph, kept as
// sparse rows. Nodes whose out-weights sum to 0 are dangling.
type Transition struct {
	g        *Graph
	rows     [][]Arc
	dangling []bool
}

// Transition builds the random walk transition of g once, so that rooted
// PageRank can be computed for many roots.
func (g *Graph) Transition(weight string) *Transition {
	t := &Transition{g: g, rows: g.Arcs(weight), dangling: make([]bool, g.Len())}
	for u, row := range t.rows {
		var s float64
		for _, arc := range row {
			s += arc.W
		}
		if s == 0 {
			t.dangling[u] = true
			continue
		}
		for i := range row {
			row[i].W /= s
		}
	}
	return t
}

// RootedPageRank returns the PageRank of every node, indexed like the
// nodes of g, for random walks that restart at root. With probability alpha
// the walk follows an edge; on a restart it jumps to root with weight
// 1-beta and to any other node with weight beta.
func (g *Graph) RootedPageRank(root int, alpha, beta float64, weight string) []float64 {
	return g.Transition(weight).RootedPageRank(root, alpha, beta)
}

// RootedPageRank is the power iteration behind Graph.RootedPageRank. One
// iteration costs O(n + m).
func (t *Transition) RootedPageRank(root int, alpha, beta float64) []float64 {
	n := len(t.rows)
	if n == 0 {
		return nil
	}
	p := make([]float64, n)
	for i := range p {
		p[i] = beta
	}
	p[root] = 1 - beta
	if s := floats.Sum(p); s > 0 {
		floats.Scale(1/s, p)
	} else {
		for i := range p {
			p[i] = 1 / float64(n)
		}
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = 1 / float64(n)
	}
	next := make([]float64, n)
	for iter := 0; iter < pagerankMaxIter; iter++ {
		var lost float64
		for i := range next {
			next[i] = 0
		}
		for u, row := range t.rows {
			if t.dangling[u] {
				lost += x[u]
				continue
			}
			for _, arc := range row {
				next[arc.To] += x[u] * arc.W
			}
		}
		for i := range next {
			next[i] = alpha*(next[i]+lost*p[i]) + (1-alpha)*p[i]
		}
		diff := floats.Distance(next, x, 1)
		x, next = next, x
		if diff < float64(n)*pagerankTol {
			return x
		}
	}
	logrus.Warnf("Rooted PageRank for node %s did not converge in %d iterations", t.g.Label(root), pagerankMaxIter)
	return x
}

// SimRank returns the SimRank similarity of all node pairs after the given
// number of iterations of sim = c * Mᵀ * sim * M, M being the raw Google
// matrix. Self-similarity stays 1.
func (g *Graph) SimRank(c float64, iterations int, weight string) *mat.Dense {
	m := g.RawGoogleMatrix(weight)
	if m == nil {
		return nil
	}
	n, _ := m.Dims()
	sim := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		sim.Set(i, i, 1)
	}
	var tmp mat.Dense
	for it := 0; it < iterations; it++ {
		logrus.Debugf("Starting SimRank iteration %d", it)
		tmp.Mul(m.T(), sim)
		sim.Mul(&tmp, m)
		sim.Scale(c, sim)
		for i := 0; i < n; i++ {
			sim.Set(i, i, 1)
		}
	}
	return sim
}
