// Package executor runs contract methods against ledger state under a
// per-execution gas budget.
package executor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/iotaledger/hive.go/logger"

	"github.com/covenantlabs/covenant/covenant"
	engineerrors "github.com/covenantlabs/covenant/covenant/errors"
	"github.com/covenantlabs/covenant/covenant/state"
)

// Executor dispatches execution requests to the builtin methods. Contracts
// come from the contract registry; ledger records come from the state
// registry, which hands out exactly one record per address so that holding
// the record lock across a dispatch makes per-address transitions
// linearizable.
type Executor struct {
	*logger.WrappedLogger

	contracts *covenant.Registry
	states    *state.Registry
	costs     Costs
	metrics   *covenant.EngineMetrics
	events    *Events
}

// New creates an executor.
func New(log *logger.Logger, contracts *covenant.Registry, states *state.Registry, costs Costs, metrics *covenant.EngineMetrics) *Executor {
	if metrics == nil {
		metrics = &covenant.EngineMetrics{}
	}
	return &Executor{
		WrappedLogger: logger.NewWrappedLogger(log),
		contracts:     contracts,
		states:        states,
		costs:         costs,
		metrics:       metrics,
		events:        newEvents(),
	}
}

// Events returns the executor's event bus.
func (e *Executor) Events() *Events { return e.events }

// Costs returns the active gas cost table.
func (e *Executor) Costs() Costs { return e.costs }

// Execute runs one contract method. Request validation failures are
// returned as errors since no gas has been charged yet; every failure past
// that point is reported inside the Result.
func (e *Executor) Execute(ctx context.Context, req *Request) (*Result, error) {
	if err := req.Validate(e.costs.MaxGasLimit); err != nil {
		return nil, err
	}

	executionID := newExecutionID()
	startedAt := time.Now()

	contract, err := e.contracts.FindByAddress(req.ContractAddress)
	if err != nil {
		return e.finish(failedResult(executionID, fmt.Sprintf("contract lookup failed: %v", err), 0), startedAt), nil
	}
	if contract == nil {
		return e.finish(failedResult(executionID, engineerrors.ErrContractNotFound(req.ContractAddress).Message, 0), startedAt), nil
	}
	if !contract.Executable() {
		return e.finish(failedResult(executionID, engineerrors.ErrContractNotActive(string(contract.Status)).Message, 0), startedAt), nil
	}

	tracker := NewTracker(executionID, req.GasLimit)
	if err := tracker.Consume(e.costs.Base); err != nil {
		return e.finish(&Result{
			ExecutionID: executionID,
			Status:      StatusOutOfGas,
			Message:     err.Error(),
			GasUsed:     tracker.Used(),
		}, startedAt), nil
	}

	contractState, err := e.states.StateFor(req.ContractAddress)
	if err != nil {
		return e.finish(failedResult(executionID, fmt.Sprintf("state lookup failed: %v", err), tracker.Used()), startedAt), nil
	}

	runCtx, cancel := context.WithTimeout(ctx, e.costs.MaxExecutionTime)
	defer cancel()

	out := e.run(runCtx, lookupBuiltin(req.MethodName), contractState, req, tracker)

	switch {
	case out.ctxErr != nil:
		// The budget is forfeited either way; the sandboxed goroutine may
		// still be charging when the context fires. Only the execution
		// ceiling reports TIMEOUT; caller cancellation is a plain failure.
		status := StatusFailed
		message := "execution canceled by caller"
		if errors.Is(out.ctxErr, context.DeadlineExceeded) {
			status = StatusTimeout
			message = fmt.Sprintf("execution exceeded %s", e.costs.MaxExecutionTime)
		}
		return e.finish(&Result{
			ExecutionID: executionID,
			Status:      status,
			Message:     message,
			GasUsed:     req.GasLimit,
		}, startedAt), nil

	case engineerrors.IsOutOfGas(out.err):
		return e.finish(&Result{
			ExecutionID: executionID,
			Status:      StatusOutOfGas,
			Message:     out.err.Error(),
			GasUsed:     tracker.Used(),
		}, startedAt), nil

	case out.err != nil:
		return e.finish(&Result{
			ExecutionID: executionID,
			Status:      StatusFailed,
			Message:     errorMessage(out.err),
			GasUsed:     tracker.Used(),
		}, startedAt), nil

	default:
		return e.finish(&Result{
			ExecutionID: executionID,
			Status:      StatusSuccess,
			Value:       out.value,
			GasUsed:     tracker.Used(),
		}, startedAt), nil
	}
}

type outcome struct {
	value  string
	err    error
	ctxErr error
}

// run executes the builtin in a sandboxed goroutine so a panic or a stuck
// dispatch never takes the engine down. The state record lock is held
// across the whole dispatch.
func (e *Executor) run(ctx context.Context, method builtin, contractState *state.ContractState, req *Request, tracker *Tracker) outcome {
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.LogErrorf("execution %s panicked: %v", tracker.executionID, r)
				done <- outcome{err: fmt.Errorf("internal execution failure: %v", r)}
			}
		}()

		contractState.Lock()
		defer contractState.Unlock()

		value, err := e.dispatch(method, contractState, req, tracker)
		if err == nil {
			if perr := e.states.Persist(contractState); perr != nil {
				e.LogWarnf("state snapshot failed for %s: %v", req.ContractAddress, perr)
			}
			e.incrementExecutionCount(req.ContractAddress)
		}
		done <- outcome{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return outcome{ctxErr: ctx.Err()}
	case out := <-done:
		return out
	}
}

// incrementExecutionCount bumps the persisted execution counter. The caller
// holds the address's state lock, which serializes the read-modify-write
// against concurrent executions of the same contract.
func (e *Executor) incrementExecutionCount(address string) {
	contract, err := e.contracts.FindByAddress(address)
	if err != nil || contract == nil {
		e.LogWarnf("execution count reload failed for %s: %v", address, err)
		return
	}
	contract.ExecutionCount++
	if err := e.contracts.Store(contract); err != nil {
		e.LogWarnf("execution count update failed for %s: %v", address, err)
	}
}

// finish stamps timing, updates metrics and triggers the executed event.
func (e *Executor) finish(result *Result, startedAt time.Time) *Result {
	result.ExecutionTimeMs = time.Since(startedAt).Milliseconds()

	e.metrics.Executions.Add(1)
	e.metrics.GasConsumed.Add(result.GasUsed)
	switch result.Status {
	case StatusOutOfGas:
		e.metrics.ExecutionsOOG.Add(1)
	case StatusFailed, StatusTimeout:
		e.metrics.ExecutionsFailed.Add(1)
	}

	e.LogDebugf("execution %s finished: status=%s gasUsed=%d", result.ExecutionID, result.Status, result.GasUsed)
	e.events.Executed.Trigger(result)

	return result
}

// Statistics is a point-in-time aggregate over all executions.
type Statistics struct {
	TotalExecutions        uint64 `json:"totalExecutions"`
	FailedExecutions       uint64 `json:"failedExecutions"`
	OutOfGasExecutions     uint64 `json:"outOfGasExecutions"`
	TotalGasConsumed       uint64 `json:"totalGasConsumed"`
	AverageGasPerExecution uint64 `json:"averageGasPerExecution"`
	LiveStateRecords       int    `json:"liveStateRecords"`
}

// Statistics snapshots the executor counters.
func (e *Executor) Statistics() Statistics {
	return Statistics{
		TotalExecutions:        e.metrics.Executions.Load(),
		FailedExecutions:       e.metrics.ExecutionsFailed.Load(),
		OutOfGasExecutions:     e.metrics.ExecutionsOOG.Load(),
		TotalGasConsumed:       e.metrics.GasConsumed.Load(),
		AverageGasPerExecution: e.metrics.AverageGasPerExecution(),
		LiveStateRecords:       e.states.Size(),
	}
}

func failedResult(executionID, message string, gasUsed uint64) *Result {
	return &Result{
		ExecutionID: executionID,
		Status:      StatusFailed,
		Message:     message,
		GasUsed:     gasUsed,
	}
}

// errorMessage prefers the structured message of engine errors over the
// code-prefixed Error() rendering.
func errorMessage(err error) string {
	if engErr, ok := err.(*engineerrors.EngineError); ok {
		return engErr.Message
	}
	return err.Error()
}

func newExecutionID() string {
	id := make([]byte, 16)
	if _, err := rand.Read(id); err != nil {
		return fmt.Sprintf("exec-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(id)
}
