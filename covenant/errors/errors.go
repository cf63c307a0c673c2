package errors

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// Error codes for different error categories
const (
	// General errors (1000-1999)
	ErrCodeUnknown            = 1000
	ErrCodeInternal           = 1001
	ErrCodeInvalidArgument    = 1002
	ErrCodeNotFound           = 1003
	ErrCodeAlreadyExists      = 1004
	ErrCodePermissionDenied   = 1005
	ErrCodeResourceExhausted  = 1006
	ErrCodeFailedPrecondition = 1007

	// Ledger errors (2000-2999)
	ErrCodeContractNotFound    = 2001
	ErrCodeContractNotActive   = 2002
	ErrCodeContractExpired     = 2003
	ErrCodeInvalidAddress      = 2004
	ErrCodeInsufficientBalance = 2005
	ErrCodeNegativeAmount      = 2006

	// Compiler/VM errors (3000-3999)
	ErrCodeCompilation      = 3001
	ErrCodeExecution        = 3002
	ErrCodeExecutionTimeout = 3003
	ErrCodeSourceTooLarge   = 3004
	ErrCodeInvalidSource    = 3005
	ErrCodeOutOfGas         = 3006
	ErrCodeUnknownMethod    = 3007

	// Verifier errors (4000-4999)
	ErrCodeVerification = 4001
)

// EngineError represents a structured error with context
type EngineError struct {
	Code      int
	Message   string
	Details   map[string]interface{}
	Cause     error
	Timestamp time.Time
	Stack     []string
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new EngineError
func New(code int, message string) *EngineError {
	return &EngineError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     captureStack(),
	}
}

// Wrap wraps an existing error
func Wrap(err error, code int, message string) *EngineError {
	if err == nil {
		return nil
	}

	// If already an EngineError, preserve the original
	if engErr, ok := err.(*EngineError); ok {
		return engErr
	}

	return &EngineError{
		Code:      code,
		Message:   message,
		Cause:     err,
		Timestamp: time.Now(),
		Stack:     captureStack(),
	}
}

// Is checks if the error has the given code
func Is(err error, code int) bool {
	if err == nil {
		return false
	}

	var engErr *EngineError
	if errors.As(err, &engErr) {
		return engErr.Code == code
	}

	return false
}

// OutOfGasError signals that a gas charge exceeded the execution budget.
// It is kept as its own type so callers can bill and report budget
// exhaustion differently from generic execution failures.
type OutOfGasError struct {
	ExecutionID string
	Limit       uint64
	Requested   uint64
}

func (e *OutOfGasError) Error() string {
	return fmt.Sprintf("out of gas: execution %s requested %d with limit %d", e.ExecutionID, e.Requested, e.Limit)
}

// IsOutOfGas reports whether err is (or wraps) an OutOfGasError.
func IsOutOfGas(err error) bool {
	var oog *OutOfGasError
	return errors.As(err, &oog)
}

// captureStack captures the current stack trace
func captureStack() []string {
	stack := make([]string, 0, 10)

	for i := 2; i < 12; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
	}

	return stack
}

// Common error constructors
var (
	ErrInternal = func(msg string) *EngineError {
		return New(ErrCodeInternal, msg)
	}

	ErrInvalidArgument = func(msg string) *EngineError {
		return New(ErrCodeInvalidArgument, msg)
	}

	ErrContractNotFound = func(address string) *EngineError {
		return New(ErrCodeContractNotFound, fmt.Sprintf("contract not found: %s", address))
	}

	ErrContractNotActive = func(status string) *EngineError {
		return New(ErrCodeContractNotActive, fmt.Sprintf("contract not active: %s", status))
	}

	ErrInsufficientBalance = func(account string) *EngineError {
		return New(ErrCodeInsufficientBalance, fmt.Sprintf("Insufficient balance: %s", account))
	}

	ErrUnknownMethod = func(method string) *EngineError {
		return New(ErrCodeUnknownMethod, fmt.Sprintf("unknown method: %s", method))
	}

	ErrExecution = func(err error) *EngineError {
		return Wrap(err, ErrCodeExecution, "contract execution failed")
	}

	ErrVerification = func(err error) *EngineError {
		return Wrap(err, ErrCodeVerification, "verification failed")
	}
)
