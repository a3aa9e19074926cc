package evaluation

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
)

// Universe describes all items that can be retrieved: an explicit set, a
// count, or unknown.
type Universe[T comparable] struct {
	count int
	set   mapset.Set[T]
}

// UnknownUniverse disables the measures that need true negatives.
func UnknownUniverse[T comparable]() Universe[T] {
	return Universe[T]{count: -1}
}

// UniverseSize declares only the number of items in the universe.
func UniverseSize[T comparable](n int) Universe[T] {
	return Universe[T]{count: n}
}

// UniverseOf declares the universe explicitly.
func UniverseOf[T comparable](items ...T) Universe[T] {
	s := mapset.NewThreadUnsafeSet(items...)
	return Universe[T]{count: s.Cardinality(), set: s}
}

func (u Universe[T]) Known() bool {
	return u.count >= 0
}

// Size returns the number of items in the universe, -1 if unknown.
func (u Universe[T]) Size() int {
	return u.count
}

// StaticEvaluation holds the confusion matrix of a set of retrieved items
// against a set of relevant items:
//
//	tp: retrieved and relevant      fp: retrieved, not relevant
//	fn: relevant, not retrieved     tn: neither
//
// Items can be retrieved incrementally, but never twice.
type StaticEvaluation[T comparable] struct {
	tp, fp, fn mapset.Set[T]
	// tn is only tracked for an explicit universe.
	tn       mapset.Set[T]
	universe int
	numTN    int
}

func NewStaticEvaluation[T comparable](retrieved, relevant []T, universe Universe[T]) (*StaticEvaluation[T], error) {
	ret := mapset.NewThreadUnsafeSet(retrieved...)
	rel := mapset.NewThreadUnsafeSet(relevant...)
	e := &StaticEvaluation[T]{
		tp:       ret.Intersect(rel),
		fp:       ret.Difference(rel),
		fn:       rel.Difference(ret),
		universe: universe.count,
	}
	switch {
	case universe.set != nil:
		if !ret.IsSubset(universe.set) || !rel.IsSubset(universe.set) {
			return nil, fmt.Errorf("%w: retrieved and relevant should be subsets of universe", ErrUniverse)
		}
		e.tn = universe.set.Difference(ret).Difference(rel)
	case universe.count >= 0:
		if ret.Cardinality() > universe.count {
			return nil, fmt.Errorf("%w: retrieved (%d) larger than universe (%d)", ErrUniverse, ret.Cardinality(), universe.count)
		}
		if rel.Cardinality() > universe.count {
			return nil, fmt.Errorf("%w: relevant (%d) larger than universe (%d)", ErrUniverse, rel.Cardinality(), universe.count)
		}
		if n := e.tp.Cardinality() + e.fp.Cardinality() + e.fn.Cardinality(); n > universe.count {
			return nil, fmt.Errorf("%w: retrieved and relevant (%d) larger than universe (%d)", ErrUniverse, n, universe.count)
		}
	}
	e.updateTN()
	return e, nil
}

func (e *StaticEvaluation[T]) updateTN() {
	switch {
	case e.tn != nil:
		e.numTN = e.tn.Cardinality()
	case e.universe < 0:
		e.numTN = -1
	default:
		e.numTN = e.universe - e.tp.Cardinality() - e.fp.Cardinality() - e.fn.Cardinality()
	}
}

// UpdateRetrieved marks items as retrieved. Nothing changes if an error is
// returned.
func (e *StaticEvaluation[T]) UpdateRetrieved(items []T) error {
	added := mapset.NewThreadUnsafeSet(items...)
	if added.Intersect(e.tp).Cardinality() > 0 || added.Intersect(e.fp).Cardinality() > 0 {
		return fmt.Errorf("%w: one or more items have been retrieved before", ErrAlreadyRetrieved)
	}
	relevant := added.Intersect(e.fn)
	nonrelevant := added.Difference(relevant)
	switch {
	case e.tn != nil:
		if !nonrelevant.IsSubset(e.tn) {
			return fmt.Errorf("%w: retrieved items should be unretrieved items of the universe", ErrNotCandidate)
		}
	case e.universe >= 0:
		if nonrelevant.Cardinality() > e.numTN {
			return fmt.Errorf("%w: retrieving %d non-relevant items leaves %d for the universe", ErrUniverse, nonrelevant.Cardinality(), e.numTN)
		}
	}

	e.tp = e.tp.Union(relevant)
	e.fp = e.fp.Union(nonrelevant)
	e.fn = e.fn.Difference(relevant)
	if e.tn != nil {
		e.tn = e.tn.Difference(nonrelevant)
	}
	e.updateTN()
	return nil
}

func (e *StaticEvaluation[T]) TP() int { return e.tp.Cardinality() }
func (e *StaticEvaluation[T]) FP() int { return e.fp.Cardinality() }
func (e *StaticEvaluation[T]) FN() int { return e.fn.Cardinality() }

// TN returns the number of true negatives, -1 if the universe is unknown.
func (e *StaticEvaluation[T]) TN() int { return e.numTN }

// Counts returns tp, fp, fn and tn.
func (e *StaticEvaluation[T]) Counts() (tp, fp, fn, tn int) {
	return e.TP(), e.FP(), e.FN(), e.TN()
}

func ratio(measure string, num, den int) (float64, error) {
	if den == 0 {
		return 0, undefined(measure, zeroDivision)
	}
	return float64(num) / float64(den), nil
}

func (e *StaticEvaluation[T]) needUniverse(measure string) error {
	if e.numTN < 0 {
		return undefined(measure, unknownUniverse)
	}
	return nil
}

// Precision is tp / (tp + fp).
func (e *StaticEvaluation[T]) Precision() (float64, error) {
	return ratio("precision", e.TP(), e.TP()+e.FP())
}

// Recall is tp / (tp + fn).
func (e *StaticEvaluation[T]) Recall() (float64, error) {
	return ratio("recall", e.TP(), e.TP()+e.FN())
}

// Fallout is fp / (fp + tn).
func (e *StaticEvaluation[T]) Fallout() (float64, error) {
	if err := e.needUniverse("fallout"); err != nil {
		return 0, err
	}
	return ratio("fallout", e.FP(), e.FP()+e.numTN)
}

// Miss is fn / (fn + tn).
func (e *StaticEvaluation[T]) Miss() (float64, error) {
	if err := e.needUniverse("miss"); err != nil {
		return 0, err
	}
	return ratio("miss", e.FN(), e.FN()+e.numTN)
}

// Accuracy is (tp + tn) / |universe|.
func (e *StaticEvaluation[T]) Accuracy() (float64, error) {
	if err := e.needUniverse("accuracy"); err != nil {
		return 0, err
	}
	return ratio("accuracy", e.TP()+e.numTN, e.TP()+e.FP()+e.FN()+e.numTN)
}

// Generality is |relevant| / |universe|.
func (e *StaticEvaluation[T]) Generality() (float64, error) {
	if err := e.needUniverse("generality"); err != nil {
		return 0, err
	}
	return ratio("generality", e.TP()+e.FN(), e.TP()+e.FP()+e.FN()+e.numTN)
}

// FScore is the weighted harmonic mean of precision and recall, recall
// weighing beta times as much as precision.
func (e *StaticEvaluation[T]) FScore(beta float64) (float64, error) {
	b2 := beta * beta
	tp := float64(e.TP())
	den := (b2+1)*tp + b2*float64(e.FN()) + float64(e.FP())
	if den == 0 {
		return 0, undefined("F-score", zeroDivision)
	}
	return (b2 + 1) * tp / den, nil
}

// Lenient returns a view whose ratio measures yield 0 instead of failing
// on a division by zero. An unknown universe is still an error.
func (e *StaticEvaluation[T]) Lenient() Lenient[T] {
	return Lenient[T]{e}
}

// Lenient computes the measures of a StaticEvaluation the legacy way.
type Lenient[T comparable] struct {
	e *StaticEvaluation[T]
}

func (l Lenient[T]) soften(v float64, err error) (float64, error) {
	var u *UndefinedError
	if err == nil {
		return v, nil
	}
	if errors.As(err, &u) && u.Reason == zeroDivision {
		tp, fp, fn, tn := l.e.Counts()
		logrus.Warnf("Division by 0 in calculating %s: tp = %d, fp = %d, fn = %d, tn = %d", u.Measure, tp, fp, fn, tn)
		return 0, nil
	}
	return 0, err
}

func (l Lenient[T]) Precision() float64 {
	v, _ := l.soften(l.e.Precision())
	return v
}

func (l Lenient[T]) Recall() float64 {
	v, _ := l.soften(l.e.Recall())
	return v
}

func (l Lenient[T]) Fallout() (float64, error) {
	return l.soften(l.e.Fallout())
}

func (l Lenient[T]) Miss() (float64, error) {
	return l.soften(l.e.Miss())
}

func (l Lenient[T]) Accuracy() (float64, error) {
	return l.soften(l.e.Accuracy())
}

func (l Lenient[T]) Generality() (float64, error) {
	return l.soften(l.e.Generality())
}

// FScore combines the lenient precision and recall.
func (l Lenient[T]) FScore(beta float64) float64 {
	p, r := l.Precision(), l.Recall()
	b2 := beta * beta
	if b2*p+r == 0 {
		return 0
	}
	return (1 + b2) * p * r / (b2*p + r)
}
