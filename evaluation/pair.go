package evaluation

import (
	"errors"
	"fmt"
)

var ErrSelfLoop = errors.New("pair of identical nodes")

// Pair is an unordered pair of distinct nodes. The larger label is always
// stored first, so Pair values can be compared with == and used as map
// keys.
type Pair struct {
	U, V string
}

func NewPair(a, b string) (Pair, error) {
	if a == b {
		return Pair{}, fmt.Errorf("%w: (%s, %s)", ErrSelfLoop, a, b)
	}
	if a < b {
		a, b = b, a
	}
	return Pair{a, b}, nil
}

// MustPair is like NewPair but panics on identical nodes.
func MustPair(a, b string) Pair {
	p, err := NewPair(a, b)
	if err != nil {
		panic(err)
	}
	return p
}

// Less orders pairs by their elements.
func (p Pair) Less(q Pair) bool {
	if p.U != q.U {
		return p.U < q.U
	}
	return p.V < q.V
}

func (p Pair) String() string {
	return fmt.Sprintf("%s - %s", p.U, p.V)
}
