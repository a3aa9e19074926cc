package network

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEdgelist(t *testing.T) {
	in := `# a comment
a b 2.5
b c

d
`
	g, err := ReadEdgelist(strings.NewReader(in))
	require.NoError(t, err)
	assert.False(t, g.Directed())
	assert.Equal(t, []string{"a", "b", "c", "d"}, g.Labels())
	assert.Equal(t, 2.5, g.Weight(0, 1, "weight"))
	assert.Equal(t, 1.0, g.Weight(1, 2, "weight"))

	_, err = ReadEdgelist(strings.NewReader("a b c d\n"))
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 1, perr.Line)

	_, err = ReadEdgelist(strings.NewReader("a b\na b heavy\n"))
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
}

func TestWriteEdgelist(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEdgelist(&buf, weightedGraph(), "weight"))
	assert.Equal(t, "1 2 1\n1 3 5\n2 4 2\n3 4 1\n3 5 2\n", buf.String())

	g, err := ReadEdgelist(&buf)
	require.NoError(t, err)
	assert.Equal(t, 5, g.NumEdges())
}

func TestReadPajek(t *testing.T) {
	in := `*Network test
*Vertices 3
1 "a b" 0.1 0.2 0.5 ellipse
2 "c"
3 "d" ic Red
*Edges
1 2 2.5
2 3
`
	g, err := ReadPajek(strings.NewReader(in))
	require.NoError(t, err)
	assert.False(t, g.Directed())
	assert.Equal(t, []string{"a b", "c", "d"}, g.Labels())
	assert.Equal(t, 2.5, g.Weight(0, 1, "weight"))
	assert.Equal(t, 1.0, g.Weight(1, 2, "weight"))

	x, _ := g.NodeAttr(0, "x")
	shape, _ := g.NodeAttr(0, "shape")
	z, _ := g.NodeAttr(0, "z")
	ic, _ := g.NodeAttr(2, "ic")
	assert.Equal(t, []string{"0.1", "ellipse", "0.5", "Red"}, []string{x, shape, z, ic})
}

func TestReadPajekArcs(t *testing.T) {
	in := `*Vertices 3
1 a
2 b
3 c
*Arcslist
1 2 3
`
	g, err := ReadPajek(strings.NewReader(in))
	require.NoError(t, err)
	assert.True(t, g.Directed())
	assert.Equal(t, []Edge{{0, 1}, {0, 2}}, g.Edges())
}

func TestReadPajekErrors(t *testing.T) {
	for name, in := range map[string]string{
		"count":     "*Vertices 2\n1 a\n",
		"duplicate": "*Vertices 2\n1 a\n2 a\n",
		"matrix":    "*Vertices 1\n1 a\n*Matrix\n1\n",
		"orphan":    "1 2\n",
	} {
		_, err := ReadPajek(strings.NewReader(in))
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("%s: expected a parse error, got %v", name, err)
		}
	}
}

func TestReadDOT(t *testing.T) {
	in := `graph {
	a [eligible=true];
	a -- b [weight=2, color=red];
	b -- c;
	c -- c;
}`
	g, err := ReadDOT(strings.NewReader(in))
	require.NoError(t, err)
	assert.False(t, g.Directed())
	assert.Equal(t, []string{"a", "b", "c"}, g.Labels())
	assert.Equal(t, 2.0, g.Weight(0, 1, "weight"))
	assert.Equal(t, 2, g.NumEdges())
	assert.Equal(t, []int{2}, g.SelfLoops())
	assert.True(t, g.Truthy(0, "eligible"))

	g, err = ReadDOT(strings.NewReader("digraph { x -> y; }"))
	require.NoError(t, err)
	assert.True(t, g.Directed())
	assert.True(t, g.HasEdge(0, 1))
	assert.False(t, g.HasEdge(1, 0))
}

func TestReadJSON(t *testing.T) {
	in := `[{"node": "A", "references": ["A", "B", "G"]}, {"node": "B", "references": ["C"]}, {"node": "Z"}]`
	g, err := ReadJSON(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "G", "C", "Z"}, g.Labels())
	assert.Equal(t, 3, g.NumEdges())
	assert.Equal(t, []int{0}, g.SelfLoops())
}

func TestReadGEXF(t *testing.T) {
	in := `<?xml version="1.0" encoding="UTF-8"?>
<gexf xmlns="http://www.gexf.net/1.2draft" version="1.2">
  <graph defaultedgetype="undirected">
    <attributes class="node">
      <attribute id="0" title="eligible" type="boolean"/>
    </attributes>
    <attributes class="edge">
      <attribute id="0" title="strength" type="double"/>
      <attribute id="1" title="kind" type="string"/>
    </attributes>
    <nodes>
      <node id="a" label="Alpha">
        <attvalues><attvalue for="0" value="true"/></attvalues>
      </node>
      <node id="b" label="Beta"/>
      <node id="c" label="Gamma"/>
    </nodes>
    <edges>
      <edge id="0" source="a" target="b" weight="2.5">
        <attvalues><attvalue for="0" value="0.5"/><attvalue for="1" value="road"/></attvalues>
      </edge>
      <edge id="1" source="b" target="c"/>
    </edges>
  </graph>
</gexf>`
	g, err := ReadGEXF(strings.NewReader(in))
	require.NoError(t, err)
	assert.False(t, g.Directed())
	assert.Equal(t, []string{"a", "b", "c"}, g.Labels())
	assert.True(t, g.Truthy(0, "eligible"))
	assert.False(t, g.Truthy(1, "eligible"))
	assert.Equal(t, 2.5, g.Weight(0, 1, "weight"))
	s, ok := g.EdgeAttr(0, 1, "strength")
	assert.True(t, ok)
	assert.Equal(t, 0.5, s)
	_, ok = g.EdgeAttr(0, 1, "kind")
	assert.False(t, ok)
	assert.Equal(t, 1.0, g.Weight(1, 2, "weight"))
	assert.Equal(t, 2, g.NumEdges())

	g, err = ReadGEXF(strings.NewReader(`<gexf xmlns="http://www.gexf.net/1.2draft" version="1.2">
  <graph defaultedgetype="directed"><edges><edge source="x" target="y"/></edges></graph>
</gexf>`))
	require.NoError(t, err)
	assert.True(t, g.Directed())
	assert.True(t, g.HasEdge(0, 1))
	assert.False(t, g.HasEdge(1, 0))

	_, err = ReadGEXF(strings.NewReader("<gexf"))
	assert.Error(t, err)
}

func TestReadAdjlist(t *testing.T) {
	in := "# comment\na b c\nb d # trailing\n\ne\n"
	g, err := ReadAdjlist(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, g.Labels())
	assert.Equal(t, 3, g.NumEdges())
	assert.True(t, g.HasEdge(2, 0))
	assert.Equal(t, 0, g.Degree(4))
}

func TestReadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "train.edgelist", []byte("a b\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "train.gml", []byte("graph [ ]"), 0644))

	g, err := ReadFile(fs, "train.edgelist")
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())

	require.NoError(t, afero.WriteFile(fs, "train.adjlist", []byte("a b c\n"), 0644))
	g, err = ReadFile(fs, "train.adjlist")
	require.NoError(t, err)
	assert.Equal(t, 2, g.NumEdges())

	_, err = ReadFile(fs, "train.gml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = ReadFile(fs, "missing.net")
	assert.Error(t, err)
}
