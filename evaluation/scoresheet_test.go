package evaluation

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPair(t *testing.T) {
	p := MustPair("a", "b")
	if p != MustPair("b", "a") {
		t.Fatalf("Pair(a, b) should equal Pair(b, a)")
	}
	assert.Equal(t, Pair{"b", "a"}, p)
	assert.Equal(t, "b - a", p.String())

	_, err := NewPair("a", "a")
	assert.True(t, errors.Is(err, ErrSelfLoop))
	assert.Panics(t, func() { MustPair("x", "x") })

	assert.True(t, MustPair("a", "b").Less(MustPair("a", "c")))
	assert.True(t, MustPair("c", "a").Less(MustPair("c", "b")))
	assert.False(t, p.Less(p))
}

func letterSheet() *Scoresheet {
	s := NewScoresheet()
	for i, l := range "abcdefghijklmnopqrstuvwx" {
		s.Set(MustPair(string(l), "0"), float64(i))
	}
	return s
}

func pairsOf(items []Item) []Pair {
	out := make([]Pair, len(items))
	for i, it := range items {
		out[i] = it.Pair
	}
	return out
}

func TestRankedItems(t *testing.T) {
	s := letterSheet()
	ranked := s.RankedItems(0)
	require.Len(t, ranked, 24)
	assert.Equal(t, []Pair{{"x", "0"}, {"w", "0"}, {"v", "0"}}, pairsOf(ranked[:3]))
	assert.Equal(t, ranked, s.RankedItems(0))
	assert.Len(t, s.RankedItems(5), 5)
	assert.Len(t, s.RankedItems(100), 24)
}

func TestRankedItemsTies(t *testing.T) {
	s := NewScoresheet()
	s.Set(MustPair("a", "b"), 1)
	s.Set(MustPair("c", "d"), 1)
	s.Set(MustPair("a", "c"), 1)
	s.Set(MustPair("e", "f"), 2)
	assert.Equal(t, []Pair{{"f", "e"}, {"d", "c"}, {"c", "a"}, {"b", "a"}}, pairsOf(s.RankedItems(0)))
}

func TestTop(t *testing.T) {
	s := letterSheet()
	assert.Len(t, s.Top(10), 10)
	assert.Equal(t, []Item{{Pair{"x", "0"}, 23}, {Pair{"w", "0"}, 22}}, s.Top(2))
}

func TestScoresheetDefaults(t *testing.T) {
	s := NewScoresheet()
	p := MustPair("a", "b")
	assert.Equal(t, 0.0, s.Get(p))
	s.Add(p, 1.5)
	s.Add(MustPair("b", "a"), 1)
	assert.Equal(t, 2.5, s.Get(p))
	assert.Equal(t, 1, s.Len())
	s.Delete(p)
	_, ok := s.Lookup(p)
	assert.False(t, ok)
}

func TestSuccessiveSets(t *testing.T) {
	s := NewScoresheet()
	for i, l := range "abcdefg" {
		s.Set(MustPair(string(l), "0"), float64(i))
	}
	var (
		all   []Pair
		sizes []int
	)
	chunks := s.SuccessiveSets(3)
	for chunks.Next() {
		sizes = append(sizes, len(chunks.Chunk()))
		all = append(all, chunks.Chunk()...)
	}
	assert.Equal(t, []int{3, 3, 1}, sizes)
	assert.Equal(t, pairsOf(s.RankedItems(0)), all)
	assert.False(t, chunks.Next())

	chunks = s.SuccessiveSets(0)
	require.True(t, chunks.Next())
	assert.Len(t, chunks.Items(), 7)
	assert.False(t, chunks.Next())
}

func TestScoresheetFile(t *testing.T) {
	s := NewScoresheet()
	s.Set(MustPair("a", "b"), 2)
	s.Set(MustPair("c", "a"), 1.25)
	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "b\ta\t2\nc\ta\t1.25\n", buf.String())
	assert.Equal(t, int64(buf.Len()), n)

	read, err := ReadScoresheet(&buf)
	require.NoError(t, err)
	assert.Equal(t, s.RankedItems(0), read.RankedItems(0))
}

func TestScoresheetFileQuoting(t *testing.T) {
	s := NewScoresheet()
	s.Set(MustPair("tab\tbed", "plain"), 0.1)
	s.Set(MustPair(`say "hi"`, "x y"), 1e-12)
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	read, err := ReadScoresheet(&buf)
	require.NoError(t, err)
	assert.Equal(t, s.RankedItems(0), read.RankedItems(0))
}

func TestReadScoresheetErrors(t *testing.T) {
	_, err := ReadScoresheet(bytes.NewBufferString("a\ta\t1\n"))
	assert.True(t, errors.Is(err, ErrSelfLoop))
	_, err = ReadScoresheet(bytes.NewBufferString("a\tb\tmany\n"))
	assert.Error(t, err)
	_, err = ReadScoresheet(bytes.NewBufferString("a\tb\n"))
	assert.Error(t, err)
}
