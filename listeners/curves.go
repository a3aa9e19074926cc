package listeners

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/linkpred/golinkpred/evaluation"
	"github.com/sirupsen/logrus"
)

type coordsFunc func(sheet *evaluation.EvaluationSheet) (x, y []float64, err error)

type line struct {
	dataset, predictor string
	x, y               []float64
}

// Curve collects one line per evaluation and writes all of them as tab
// separated columns (dataset, predictor, x, y) when the run finishes.
type Curve struct {
	Nop
	files     Files
	name      string
	chartType string
	xlabel    string
	ylabel    string
	coords    coordsFunc
	lines     []line
}

func newCurve(files Files, name, chartType, xlabel, ylabel string, coords coordsFunc) *Curve {
	return &Curve{
		files:     files,
		name:      name,
		chartType: chartType,
		xlabel:    xlabel,
		ylabel:    ylabel,
		coords:    coords,
	}
}

// NewRecallPrecision plots precision against recall. With interpolation,
// precision is made non-increasing.
func NewRecallPrecision(files Files, name string, interpolation bool) *Curve {
	return newCurve(files, name, "recall-precision", "Recall", "Precision",
		func(s *evaluation.EvaluationSheet) ([]float64, []float64, error) {
			x, err := s.Recall()
			if err != nil {
				return nil, nil, err
			}
			y, err := s.Precision()
			if err != nil {
				return nil, nil, err
			}
			if interpolation {
				y = evaluation.Interpolate(y)
			}
			return x, y, nil
		})
}

// NewFScore plots the F-score against the row number.
func NewFScore(files Files, name string, beta float64) *Curve {
	return newCurve(files, name, "F-Score", "#", "F-score",
		func(s *evaluation.EvaluationSheet) ([]float64, []float64, error) {
			y, err := s.FScore(beta)
			if err != nil {
				return nil, nil, err
			}
			x := make([]float64, len(y))
			for i := range x {
				x[i] = float64(i)
			}
			return x, y, nil
		})
}

func NewROC(files Files, name string) *Curve {
	return newCurve(files, name, "ROC", "False pos. rate", "True pos. rate",
		func(s *evaluation.EvaluationSheet) ([]float64, []float64, error) {
			x, err := s.Fallout()
			if err != nil {
				return nil, nil, err
			}
			y, err := s.Recall()
			return x, y, err
		})
}

func NewMarkedness(files Files, name string) *Curve {
	return newCurve(files, name, "Markedness", "Miss", "Precision",
		func(s *evaluation.EvaluationSheet) ([]float64, []float64, error) {
			x, err := s.Miss()
			if err != nil {
				return nil, nil, err
			}
			y, err := s.Precision()
			return x, y, err
		})
}

func (c *Curve) ChartType() string {
	return c.chartType
}

func (c *Curve) EvaluationFinished(sheet *evaluation.EvaluationSheet, dataset, predictor string) error {
	x, y, err := c.coords(sheet)
	if errors.Is(err, evaluation.ErrUndefined) {
		logrus.Warnf("Skipping %s line of %s on %s: %s", c.chartType, predictor, dataset, err)
		return nil
	} else if err != nil {
		return err
	}
	logrus.Debugf("Added %s line with %d points: start = (%.2f, %.2f), end = (%.2f, %.2f)",
		c.chartType, len(x), x[0], y[0], x[len(x)-1], y[len(y)-1])
	c.lines = append(c.lines, line{dataset: dataset, predictor: predictor, x: x, y: y})
	return nil
}

func (c *Curve) RunFinished() error {
	name := c.files.Timestamped(fmt.Sprintf("%s-%s", c.name, c.chartType), "tsv")
	return c.files.Write(name, func(buf *bytes.Buffer) error {
		w := csv.NewWriter(buf)
		w.Comma = '\t'
		if err := w.Write([]string{"dataset", "predictor", c.xlabel, c.ylabel}); err != nil {
			return err
		}
		for _, l := range c.lines {
			for i := range l.x {
				if err := w.Write([]string{l.dataset, l.predictor, format(l.x[i]), format(l.y[i])}); err != nil {
					return err
				}
			}
		}
		w.Flush()
		return w.Error()
	})
}

func format(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
