package dispatch

import "sync/atomic"

// MetricsSnapshot is a point-in-time copy of the dispatch counters.
type MetricsSnapshot struct {
	Dispatches           int64
	Denials              int64
	ExposureDenials      int64
	PreconditionFailures int64
	InvocationFailures   int64
	Successes            int64
}

// Metrics counts dispatch outcomes. ExposureDenials is also included in
// Denials; it is tracked separately because it is security relevant.
type Metrics struct {
	dispatches           atomic.Int64
	denials              atomic.Int64
	exposureDenials      atomic.Int64
	preconditionFailures atomic.Int64
	invocationFailures   atomic.Int64
	successes            atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordDispatch() {
	m.dispatches.Add(1)
}

func (m *Metrics) RecordDenial(exposure bool) {
	m.denials.Add(1)
	if exposure {
		m.exposureDenials.Add(1)
	}
}

func (m *Metrics) RecordPreconditionFailure() {
	m.preconditionFailures.Add(1)
}

func (m *Metrics) RecordInvocationFailure() {
	m.invocationFailures.Add(1)
}

func (m *Metrics) RecordSuccess() {
	m.successes.Add(1)
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Dispatches:           m.dispatches.Load(),
		Denials:              m.denials.Load(),
		ExposureDenials:      m.exposureDenials.Load(),
		PreconditionFailures: m.preconditionFailures.Load(),
		InvocationFailures:   m.invocationFailures.Load(),
		Successes:            m.successes.Load(),
	}
}
