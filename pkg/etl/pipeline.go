package etl

// Pipeline threads a source sequence through an ordered list of stages.
// It owns no intermediate results: each run pulls records through the
// stage chain one at a time, except where an Aggregate stage forces
// materialization.
type Pipeline struct {
	source Source
	stages []Stage
}

// New builds a pipeline over a source. Stages apply in argument order.
func New(source Source, stages ...Stage) *Pipeline {
	return &Pipeline{source: source, stages: stages}
}

// Run returns the lazy output sequence of the full stage chain. Calling
// Run again re-threads the stages over the same source; whether that
// yields the same records depends on the source (a SliceSource or file
// source restarts, a SingleUse source fails with ErrSourceConsumed).
func (p *Pipeline) Run() Seq {
	seq := p.source.Records()
	for _, stage := range p.stages {
		seq = stage.Run(seq)
	}
	return seq
}

// Collect runs the pipeline and drains the output into a slice.
func (p *Pipeline) Collect() ([]Record, error) {
	return Collect(p.Run())
}
