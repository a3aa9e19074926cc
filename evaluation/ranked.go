package evaluation

// RankedEvaluation feeds the ranked pairs of a scoresheet, n at a time, to
// a StaticEvaluation.
//
//	r, err := NewRankedEvaluation(sheet, relevant, universe, 1)
//	for r.Next() {
//		tp, fp, fn, tn := r.Evaluation().Counts()
//	}
//	err = r.Err()
type RankedEvaluation struct {
	eval   *StaticEvaluation[Pair]
	chunks *Chunks
	err    error
}

func NewRankedEvaluation(sheet *Scoresheet, relevant []Pair, universe Universe[Pair], n int) (*RankedEvaluation, error) {
	eval, err := NewStaticEvaluation(nil, relevant, universe)
	if err != nil {
		return nil, err
	}
	return &RankedEvaluation{eval: eval, chunks: sheet.SuccessiveSets(n)}, nil
}

// Next retrieves the next chunk. It returns false when the scoresheet is
// exhausted or retrieval failed.
func (r *RankedEvaluation) Next() bool {
	if r.err != nil || !r.chunks.Next() {
		return false
	}
	if err := r.eval.UpdateRetrieved(r.chunks.Chunk()); err != nil {
		r.err = err
		return false
	}
	return true
}

// Evaluation returns the state after the last retrieved chunk.
func (r *RankedEvaluation) Evaluation() *StaticEvaluation[Pair] {
	return r.eval
}

func (r *RankedEvaluation) Err() error {
	return r.err
}
