package etl

import (
	"errors"
	"iter"
)

// Seq is a lazy sequence of records. A non-nil error terminates the
// sequence at the point it is yielded; the record paired with an error
// is always nil.
type Seq = iter.Seq2[Record, error]

// ErrSourceConsumed is returned when a single-use source is iterated a
// second time.
var ErrSourceConsumed = errors.New("source already consumed")

// Source produces the record sequence a pipeline reads from. Records is
// called once per pipeline run; a restartable source (a slice, a file)
// returns a fresh sequence each call, while a single-use source fails
// the second call with ErrSourceConsumed.
type Source interface {
	Records() Seq
}

// SliceSource is an in-memory, restartable source. Every call to
// Records yields the same records again.
type SliceSource []Record

// Records yields the slice elements in order.
func (s SliceSource) Records() Seq {
	return func(yield func(Record, error) bool) {
		for _, r := range s {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// seqSource wraps an arbitrary sequence as a single-use source.
type seqSource struct {
	seq      Seq
	consumed bool
}

// SingleUse wraps a sequence as a Source that can be iterated exactly
// once. A second call to Records yields ErrSourceConsumed instead of a
// silently empty sequence.
func SingleUse(seq Seq) Source {
	return &seqSource{seq: seq}
}

func (s *seqSource) Records() Seq {
	if s.consumed {
		return errSeq(ErrSourceConsumed)
	}
	s.consumed = true
	return s.seq
}

// Collect drains a sequence into a slice, stopping at the first error.
func Collect(seq Seq) ([]Record, error) {
	var out []Record
	for r, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// errSeq returns a sequence that yields only the given error.
func errSeq(err error) Seq {
	return func(yield func(Record, error) bool) {
		yield(nil, err)
	}
}
