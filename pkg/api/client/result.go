package client

// Result holds the output of a completed job.
//
// Remote execution returns measurement samples only. A stateful
// result additionally carries full simulator state and can only come
// from local simulation, so results built from platform payloads are
// never stateful.
type Result struct {
	samples  [][]int64
	stateful bool
}

// NewResult creates a result from decoded measurement samples.
func NewResult(samples [][]int64, stateful bool) *Result {
	return &Result{
		samples:  samples,
		stateful: stateful,
	}
}

// Samples returns the measurement samples, one row per shot.
func (r *Result) Samples() [][]int64 {
	return r.samples
}

// IsStateful reports whether the result carries simulator state in
// addition to samples.
func (r *Result) IsStateful() bool {
	return r.stateful
}
