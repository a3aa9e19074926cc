package listeners

import (
	"errors"
	"fmt"
	"math"

	"github.com/linkpred/golinkpred/evaluation"
	"github.com/sirupsen/logrus"
)

// FMax appends the maximum F-score of every evaluation to a file named
// after the run, one "dataset\tpredictor\tfmax" line each.
type FMax struct {
	Nop
	files Files
	beta  float64
	name  string
}

func NewFMax(files Files, name string, beta float64) *FMax {
	return &FMax{
		files: files,
		beta:  beta,
		name:  files.Timestamped(name+"-Fmax", "txt"),
	}
}

func (f *FMax) Filename() string {
	return f.name
}

func (f *FMax) EvaluationFinished(sheet *evaluation.EvaluationSheet, dataset, predictor string) error {
	scores, err := sheet.FScore(f.beta)
	if errors.Is(err, evaluation.ErrUndefined) {
		logrus.Warnf("No F-score for %s on %s: %s", predictor, dataset, err)
		return nil
	} else if err != nil {
		return err
	}
	status := fmt.Sprintf("%s\t%s\t%.4f\n", dataset, predictor, maxOf(scores))
	logrus.Info(status[:len(status)-1])
	return f.files.Append(f.name, status)
}

// maxOf is the largest value that is not NaN, or NaN if there is none.
func maxOf(values []float64) float64 {
	m := math.NaN()
	for _, v := range values {
		if !math.IsNaN(v) && (math.IsNaN(m) || v > m) {
			m = v
		}
	}
	return m
}

// PrecisionAtK appends the precision of the first row of every evaluation
// that retrieved at least k pairs, or of the last row of shorter
// evaluations.
type PrecisionAtK struct {
	Nop
	files Files
	k     int
	name  string
}

func NewPrecisionAtK(files Files, name string, k int) *PrecisionAtK {
	if k < 1 {
		k = 1
	}
	return &PrecisionAtK{
		files: files,
		k:     k,
		name:  files.Timestamped(fmt.Sprintf("%s-precision-at-%d", name, k), "txt"),
	}
}

func (p *PrecisionAtK) Filename() string {
	return p.name
}

func (p *PrecisionAtK) EvaluationFinished(sheet *evaluation.EvaluationSheet, dataset, predictor string) error {
	precision, err := sheet.Precision()
	if errors.Is(err, evaluation.ErrUndefined) {
		logrus.Warnf("No precision for %s on %s: %s", predictor, dataset, err)
		return nil
	} else if err != nil {
		return err
	}
	i := atLeast(sheet, p.k)
	status := fmt.Sprintf("%s\t%s\t%.4f\n", dataset, predictor, precision[i])
	logrus.Info(status[:len(status)-1])
	return p.files.Append(p.name, status)
}

// atLeast returns the first row of sheet with k or more retrieved pairs,
// or the last row.
func atLeast(sheet *evaluation.EvaluationSheet, k int) int {
	tp, fp := sheet.TP(), sheet.FP()
	for i := range tp {
		if tp[i]+fp[i] >= float64(k) {
			return i
		}
	}
	return len(tp) - 1
}
