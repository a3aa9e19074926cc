package listeners

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/linkpred/golinkpred/evaluation"
	"github.com/sirupsen/logrus"
)

// Evaluator turns every finished prediction into an evaluation sheet and
// publishes it on a bus.
type Evaluator struct {
	Nop
	bus      *Bus
	relevant []evaluation.Pair
	universe evaluation.Universe[evaluation.Pair]
	steps    int
}

// NewEvaluator evaluates predictions against relevant, retrieving steps
// pairs per row of the resulting sheets.
func NewEvaluator(bus *Bus, relevant []evaluation.Pair, universe evaluation.Universe[evaluation.Pair], steps int) *Evaluator {
	if steps < 1 {
		steps = 1
	}
	return &Evaluator{bus: bus, relevant: relevant, universe: universe, steps: steps}
}

func (e *Evaluator) PredictionFinished(sheet *evaluation.Scoresheet, dataset, predictor string) error {
	ev, err := evaluation.NewEvaluationSheet(sheet, e.relevant, e.universe, e.steps)
	if err != nil {
		return fmt.Errorf("evaluating %s on %s: %w", predictor, dataset, err)
	}
	logrus.Debugf("Evaluated %s on %s: %d rows", predictor, dataset, ev.Len())
	return e.bus.EvaluationFinished(ev, dataset, predictor)
}

// CachePredictions writes every scoresheet to a timestamped file.
type CachePredictions struct {
	Nop
	Files Files
}

func (c *CachePredictions) PredictionFinished(sheet *evaluation.Scoresheet, dataset, predictor string) error {
	name := c.Files.Timestamped(fmt.Sprintf("%s-%s-predictions", dataset, predictor), "txt")
	return c.Files.Write(name, func(buf *bytes.Buffer) error {
		_, err := sheet.WriteTo(buf)
		return err
	})
}

// CacheEvaluations writes every evaluation sheet to a timestamped file.
type CacheEvaluations struct {
	Nop
	Files Files
}

func (c *CacheEvaluations) EvaluationFinished(sheet *evaluation.EvaluationSheet, dataset, predictor string) error {
	name := c.Files.Timestamped(fmt.Sprintf("%s-%s-evaluations", dataset, predictor), "txt")
	return c.Files.Write(name, func(buf *bytes.Buffer) error {
		_, err := sheet.WriteTo(buf)
		return err
	})
}

// Saver persists evaluation sheets.
type Saver interface {
	Save(run uuid.UUID, dataset, predictor string, sheet *evaluation.EvaluationSheet) error
}

// Store saves every evaluation sheet under the run it belongs to.
type Store struct {
	Nop
	Saver Saver
	Run   uuid.UUID
}

func (s *Store) EvaluationFinished(sheet *evaluation.EvaluationSheet, dataset, predictor string) error {
	return s.Saver.Save(s.Run, dataset, predictor, sheet)
}
