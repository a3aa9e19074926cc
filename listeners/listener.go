// Package listeners reacts to the events of a run: finished predictions,
// finished evaluations, finished datasets and the end of the run.
package listeners

import (
	"github.com/linkpred/golinkpred/evaluation"
)

// Listener receives the events of a run. Returning an error aborts the
// run.
type Listener interface {
	PredictionFinished(sheet *evaluation.Scoresheet, dataset, predictor string) error
	EvaluationFinished(sheet *evaluation.EvaluationSheet, dataset, predictor string) error
	DatasetFinished(dataset string) error
	RunFinished() error
}

// Nop ignores every event. Embed it to implement only some of them.
type Nop struct{}

func (Nop) PredictionFinished(*evaluation.Scoresheet, string, string) error     { return nil }
func (Nop) EvaluationFinished(*evaluation.EvaluationSheet, string, string) error { return nil }
func (Nop) DatasetFinished(string) error                                        { return nil }
func (Nop) RunFinished() error                                                  { return nil }

// Bus delivers every event to its listeners in subscription order,
// stopping at the first error. It is itself a Listener.
//
// A Bus is not safe for concurrent use; events must be delivered from a
// single goroutine.
type Bus struct {
	listeners []Listener
}

func NewBus(listeners ...Listener) *Bus {
	return &Bus{listeners: listeners}
}

func (b *Bus) Subscribe(l Listener) {
	b.listeners = append(b.listeners, l)
}

func (b *Bus) Len() int {
	return len(b.listeners)
}

func (b *Bus) each(fn func(l Listener) error) error {
	for _, l := range b.listeners {
		if err := fn(l); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bus) PredictionFinished(sheet *evaluation.Scoresheet, dataset, predictor string) error {
	return b.each(func(l Listener) error { return l.PredictionFinished(sheet, dataset, predictor) })
}

func (b *Bus) EvaluationFinished(sheet *evaluation.EvaluationSheet, dataset, predictor string) error {
	return b.each(func(l Listener) error { return l.EvaluationFinished(sheet, dataset, predictor) })
}

func (b *Bus) DatasetFinished(dataset string) error {
	return b.each(func(l Listener) error { return l.DatasetFinished(dataset) })
}

func (b *Bus) RunFinished() error {
	return b.each(func(l Listener) error { return l.RunFinished() })
}
