package etl

// Stage is one unit of the pipeline. Run wraps an input sequence in an
// output sequence; nothing is computed until the output is pulled.
// Transform, Filter, and Split wrappers consume exactly as much of the
// input as the consumer demands. Aggregate is the one exception: it
// drains its entire input before producing the first record.
type Stage interface {
	Run(src Seq) Seq
}

// TransformFunc rewrites one record into another. It must not mutate
// its input; return a modified Clone instead.
type TransformFunc func(Record) (Record, error)

// FilterFunc decides whether a record is kept.
type FilterFunc func(Record) (bool, error)

// SplitFunc expands one record into zero or more records. Returning an
// empty slice drops the input record.
type SplitFunc func(Record) ([]Record, error)

// TransformStage applies a function to every record, one to one,
// preserving order.
type TransformStage struct {
	fn TransformFunc
}

// Transform builds a transform stage. A nil function is the identity.
func Transform(fn TransformFunc) *TransformStage {
	return &TransformStage{fn: fn}
}

// Run implements Stage. An error from the transform function surfaces
// at the pull that produced it and ends the sequence.
func (s *TransformStage) Run(src Seq) Seq {
	if s.fn == nil {
		return src
	}
	return func(yield func(Record, error) bool) {
		for r, err := range src {
			if err != nil {
				yield(nil, err)
				return
			}
			out, err := s.fn(r)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}

// FilterStage keeps the subsequence of records matching a predicate,
// preserving order. The predicate runs exactly once per input record.
type FilterStage struct {
	pred FilterFunc
}

// Filter builds a filter stage from a predicate.
func Filter(pred FilterFunc) *FilterStage {
	return &FilterStage{pred: pred}
}

// Run implements Stage.
func (s *FilterStage) Run(src Seq) Seq {
	return func(yield func(Record, error) bool) {
		for r, err := range src {
			if err != nil {
				yield(nil, err)
				return
			}
			keep, err := s.pred(r)
			if err != nil {
				yield(nil, err)
				return
			}
			if !keep {
				continue
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

// SplitStage expands each record into zero or more records and flattens
// the result in input order.
type SplitStage struct {
	fn SplitFunc
}

// Split builds a split stage. A nil function wraps each record in a
// single-element expansion, which makes the stage a pass-through.
func Split(fn SplitFunc) *SplitStage {
	return &SplitStage{fn: fn}
}

// Run implements Stage. Each input record's expansion is computed at
// the pull that first needs it; unrelated records are not expanded
// ahead of time.
func (s *SplitStage) Run(src Seq) Seq {
	if s.fn == nil {
		return src
	}
	return func(yield func(Record, error) bool) {
		for r, err := range src {
			if err != nil {
				yield(nil, err)
				return
			}
			parts, err := s.fn(r)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, part := range parts {
				if !yield(part, nil) {
					return
				}
			}
		}
	}
}
