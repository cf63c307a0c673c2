package covenant

import (
	"sync/atomic"
)

// EngineMetrics holds engine-wide counters. The executor, compiler and
// verifier update them; the prometheus component reads them on collect.
type EngineMetrics struct {
	Executions       atomic.Uint64
	ExecutionsFailed atomic.Uint64
	ExecutionsOOG    atomic.Uint64
	GasConsumed      atomic.Uint64

	Compilations       atomic.Uint64
	CompilationsFailed atomic.Uint64

	Verifications       atomic.Uint64
	VerificationsFailed atomic.Uint64
}

// AverageGasPerExecution returns the mean gas cost over all executions so far.
func (m *EngineMetrics) AverageGasPerExecution() uint64 {
	execs := m.Executions.Load()
	if execs == 0 {
		return 0
	}
	return m.GasConsumed.Load() / execs
}
