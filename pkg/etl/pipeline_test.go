package etl

import (
	"errors"
	"testing"
)

func TestPipeline_StagesApplyInOrder(t *testing.T) {
	appendTag := func(tag string) Stage {
		return Transform(func(r Record) (Record, error) {
			out := r.Clone()
			out["trace"] = out["trace"].(string) + tag
			return out, nil
		})
	}

	p := New(SliceSource{{"trace": ""}}, appendTag("a"), appendTag("b"), appendTag("c"))
	got, err := p.Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0]["trace"] != "abc" {
		t.Errorf("stage order: got trace %q, want %q", got[0]["trace"], "abc")
	}
}

func TestPipeline_EndToEndVoteTotals(t *testing.T) {
	p := New(
		SliceSource(votesInput),
		Filter(func(r Record) (bool, error) { return r["state"] != "", nil }),
		Aggregate(
			KeyFields("state", "year"),
			BuildFields(map[string]FieldBuilder{"total": SumByField("votes")}),
		),
	)

	got, err := p.Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recordsEqual(t, got, []Record{
		{"state": "CA", "year": 2020, "total": 7},
		{"state": "NY", "year": 2020, "total": 15},
	})
}

func TestPipeline_SliceSourceIsRestartable(t *testing.T) {
	p := New(SliceSource{{"n": 1}, {"n": 2}})

	first, err := p.Collect()
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := p.Collect()
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	recordsEqual(t, second, first)
}

func TestPipeline_SingleUseSourceFailsSecondRun(t *testing.T) {
	src := SingleUse(SliceSource{{"n": 1}}.Records())
	p := New(src)

	if _, err := p.Collect(); err != nil {
		t.Fatalf("first run: %v", err)
	}
	_, err := p.Collect()
	if !errors.Is(err, ErrSourceConsumed) {
		t.Fatalf("second run: got %v, want ErrSourceConsumed", err)
	}
}

func TestPipeline_AbandonedRunLeavesUpstreamUnpulled(t *testing.T) {
	pulled := 0
	counting := Transform(func(r Record) (Record, error) {
		pulled++
		return r, nil
	})
	p := New(SliceSource{{"n": 1}, {"n": 2}, {"n": 3}}, counting)

	for range p.Run() {
		break
	}
	if pulled != 1 {
		t.Errorf("abandoning after one pull left %d records pulled, want 1", pulled)
	}
}
