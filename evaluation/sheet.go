package evaluation

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	colTP = iota
	colFP
	colFN
	colTN
	numCols
)

// EvaluationSheet is the table of confusion matrices (tp, fp, fn, tn)
// after every step of a ranked evaluation. tn is -1 throughout if the
// universe is unknown.
type EvaluationSheet struct {
	// data is nil for a sheet without rows.
	data *mat.Dense
}

// NewEvaluationSheet evaluates the ranking of sheet against relevant,
// retrieving n pairs per step.
func NewEvaluationSheet(sheet *Scoresheet, relevant []Pair, universe Universe[Pair], n int) (*EvaluationSheet, error) {
	r, err := NewRankedEvaluation(sheet, relevant, universe, n)
	if err != nil {
		return nil, err
	}
	var rows []float64
	for r.Next() {
		tp, fp, fn, tn := r.Evaluation().Counts()
		rows = append(rows, float64(tp), float64(fp), float64(fn), float64(tn))
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return newSheet(rows), nil
}

// NewEvaluationSheetFromRows builds a sheet from (tp, fp, fn, tn) rows.
func NewEvaluationSheetFromRows(rows [][4]int) *EvaluationSheet {
	data := make([]float64, 0, numCols*len(rows))
	for _, r := range rows {
		for _, x := range r {
			data = append(data, float64(x))
		}
	}
	return newSheet(data)
}

func newSheet(data []float64) *EvaluationSheet {
	if len(data) == 0 {
		return &EvaluationSheet{}
	}
	return &EvaluationSheet{data: mat.NewDense(len(data)/numCols, numCols, data)}
}

// Len returns the number of rows.
func (s *EvaluationSheet) Len() int {
	if s.data == nil {
		return 0
	}
	r, _ := s.data.Dims()
	return r
}

// Data returns the underlying table, nil if empty. It must not be
// modified.
func (s *EvaluationSheet) Data() mat.Matrix {
	if s.data == nil {
		return nil
	}
	return s.data
}

// Row returns the counts of row i.
func (s *EvaluationSheet) Row(i int) [4]int {
	var out [4]int
	for j := range out {
		out[j] = int(s.data.At(i, j))
	}
	return out
}

func (s *EvaluationSheet) column(j int) []float64 {
	if s.data == nil {
		return nil
	}
	return mat.Col(nil, j, s.data)
}

func (s *EvaluationSheet) TP() []float64 { return s.column(colTP) }
func (s *EvaluationSheet) FP() []float64 { return s.column(colFP) }
func (s *EvaluationSheet) FN() []float64 { return s.column(colFN) }
func (s *EvaluationSheet) TN() []float64 { return s.column(colTN) }

func (s *EvaluationSheet) check(measure string, universe bool) error {
	if s.data == nil {
		return undefined(measure, noRows)
	}
	if universe && s.data.At(0, colTN) < 0 {
		return undefined(measure, unknownUniverse)
	}
	return nil
}

// sum returns the element-wise sum of the given columns.
func (s *EvaluationSheet) sum(cols ...int) []float64 {
	out := make([]float64, s.Len())
	for _, j := range cols {
		floats.Add(out, s.column(j))
	}
	return out
}

// div divides the sum of the num columns by the sum of the den columns.
// Rows with a zero denominator yield NaN (or ±Inf).
func (s *EvaluationSheet) div(num, den []int) []float64 {
	out := make([]float64, s.Len())
	return floats.DivTo(out, s.sum(num...), s.sum(den...))
}

// Precision is tp / (tp + fp) per row.
func (s *EvaluationSheet) Precision() ([]float64, error) {
	if err := s.check("precision", false); err != nil {
		return nil, err
	}
	return s.div([]int{colTP}, []int{colTP, colFP}), nil
}

// Recall is tp / (tp + fn) per row.
func (s *EvaluationSheet) Recall() ([]float64, error) {
	if err := s.check("recall", false); err != nil {
		return nil, err
	}
	return s.div([]int{colTP}, []int{colTP, colFN}), nil
}

// Fallout is fp / (fp + tn) per row.
func (s *EvaluationSheet) Fallout() ([]float64, error) {
	if err := s.check("fallout", true); err != nil {
		return nil, err
	}
	return s.div([]int{colFP}, []int{colFP, colTN}), nil
}

// Miss is fn / (fn + tn) per row.
func (s *EvaluationSheet) Miss() ([]float64, error) {
	if err := s.check("miss", true); err != nil {
		return nil, err
	}
	return s.div([]int{colFN}, []int{colFN, colTN}), nil
}

// Accuracy is (tp + tn) / |universe| per row.
func (s *EvaluationSheet) Accuracy() ([]float64, error) {
	if err := s.check("accuracy", true); err != nil {
		return nil, err
	}
	return s.div([]int{colTP, colTN}, []int{colTP, colFP, colFN, colTN}), nil
}

// Generality is |relevant| / |universe| per row.
func (s *EvaluationSheet) Generality() ([]float64, error) {
	if err := s.check("generality", true); err != nil {
		return nil, err
	}
	return s.div([]int{colTP, colFN}, []int{colTP, colFP, colFN, colTN}), nil
}

// FScore is (β²+1)·tp / ((β²+1)·tp + β²·fn + fp) per row.
func (s *EvaluationSheet) FScore(beta float64) ([]float64, error) {
	if err := s.check("F-score", false); err != nil {
		return nil, err
	}
	b2 := beta * beta
	num := s.TP()
	floats.Scale(b2+1, num)
	den := make([]float64, len(num))
	floats.Add(den, num)
	floats.AddScaled(den, b2, s.FN())
	floats.Add(den, s.FP())
	return floats.DivTo(make([]float64, len(num)), num, den), nil
}

// WriteTo writes one line of tab separated counts per row.
func (s *EvaluationSheet) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	for i := 0; i < s.Len(); i++ {
		r := s.Row(i)
		fmt.Fprintf(bw, "%d\t%d\t%d\t%d\n", r[0], r[1], r[2], r[3])
	}
	err := bw.Flush()
	return cw.n, err
}

// ReadEvaluationSheet reads the format written by EvaluationSheet.WriteTo.
func ReadEvaluationSheet(r io.Reader) (*EvaluationSheet, error) {
	var data []float64
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != numCols {
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", lineno, numCols, len(fields))
		}
		for _, f := range fields {
			x, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, err)
			}
			data = append(data, float64(x))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return newSheet(data), nil
}

// MarshalBinary encodes the table with gonum's binary matrix format. An
// empty sheet encodes to no bytes.
func (s *EvaluationSheet) MarshalBinary() ([]byte, error) {
	if s.data == nil {
		return []byte{}, nil
	}
	return s.data.MarshalBinary()
}

func (s *EvaluationSheet) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		s.data = nil
		return nil
	}
	var m mat.Dense
	if err := m.UnmarshalBinary(data); err != nil {
		return err
	}
	if _, c := m.Dims(); c != numCols {
		return fmt.Errorf("expected %d columns, got %d", numCols, c)
	}
	s.data = &m
	return nil
}

// Interpolate makes curve non-increasing from left to right by raising
// every point to the maximum of the points after it. curve is modified in
// place and returned.
func Interpolate(curve []float64) []float64 {
	for i := len(curve) - 1; i > 0; i-- {
		if curve[i] > curve[i-1] {
			curve[i-1] = curve[i]
		}
	}
	return curve
}
