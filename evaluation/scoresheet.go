package evaluation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Item is a scored pair.
type Item struct {
	Pair  Pair
	Score float64
}

// Scoresheet maps pairs to scores. Missing pairs score 0.
type Scoresheet struct {
	scores map[Pair]float64
}

func NewScoresheet() *Scoresheet {
	return &Scoresheet{scores: make(map[Pair]float64)}
}

func (s *Scoresheet) Set(p Pair, score float64) {
	s.scores[p] = score
}

// Add adds score to the current score of p.
func (s *Scoresheet) Add(p Pair, score float64) {
	s.scores[p] += score
}

func (s *Scoresheet) Get(p Pair) float64 {
	return s.scores[p]
}

func (s *Scoresheet) Lookup(p Pair) (float64, bool) {
	score, ok := s.scores[p]
	return score, ok
}

func (s *Scoresheet) Delete(p Pair) {
	delete(s.scores, p)
}

func (s *Scoresheet) Len() int {
	return len(s.scores)
}

// Each calls fn for every pair in unspecified order.
func (s *Scoresheet) Each(fn func(p Pair, score float64)) {
	for p, score := range s.scores {
		fn(p, score)
	}
}

// RankedItems returns at most threshold items by descending score, ties
// broken by descending pair. A threshold <= 0 returns all items.
func (s *Scoresheet) RankedItems(threshold int) []Item {
	if threshold <= 0 || threshold > len(s.scores) {
		threshold = len(s.scores)
	}
	logrus.Debugf("Ranking scoresheet: threshold=%d", threshold)
	items := make([]Item, 0, len(s.scores))
	for p, score := range s.scores {
		items = append(items, Item{p, score})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[j].Pair.Less(items[i].Pair)
	})
	return items[:threshold]
}

// Top returns the n best items.
func (s *Scoresheet) Top(n int) []Item {
	return s.RankedItems(n)
}

// SuccessiveSets returns an iterator over the ranked pairs in chunks of n.
// n <= 0 means a single chunk.
func (s *Scoresheet) SuccessiveSets(n int) *Chunks {
	items := s.RankedItems(0)
	if n <= 0 {
		n = len(items)
	}
	return &Chunks{items: items, n: n}
}

// Chunks iterates over consecutive groups of ranked pairs. Every chunk
// holds n pairs except possibly the last one.
type Chunks struct {
	items []Item
	n     int
	cur   []Item
}

func (c *Chunks) Next() bool {
	if len(c.items) == 0 {
		c.cur = nil
		return false
	}
	k := min(c.n, len(c.items))
	c.cur, c.items = c.items[:k], c.items[k:]
	return true
}

// Chunk returns the pairs of the current chunk.
func (c *Chunks) Chunk() []Pair {
	out := make([]Pair, len(c.cur))
	for i, it := range c.cur {
		out[i] = it.Pair
	}
	return out
}

// Items returns the current chunk with scores.
func (c *Chunks) Items() []Item {
	return c.cur
}

// WriteTo writes the ranked scoresheet as tab separated "u v score"
// records.
func (s *Scoresheet) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tsv := csv.NewWriter(cw)
	tsv.Comma = '\t'
	for _, it := range s.RankedItems(0) {
		err := tsv.Write([]string{it.Pair.U, it.Pair.V, strconv.FormatFloat(it.Score, 'g', -1, 64)})
		if err != nil {
			return cw.n, err
		}
	}
	tsv.Flush()
	return cw.n, tsv.Error()
}

// ReadScoresheet reads records written by Scoresheet.WriteTo.
func ReadScoresheet(r io.Reader) (*Scoresheet, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.FieldsPerRecord = 3
	s := NewScoresheet()
	for {
		rec, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		if err != nil {
			return nil, err
		}
		p, err := NewPair(rec[0], rec[1])
		if err != nil {
			return nil, err
		}
		score, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score for %s: %w", p, err)
		}
		s.Set(p, score)
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
