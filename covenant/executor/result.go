package executor

// Status is the terminal state of an execution.
type Status string

const (
	StatusSuccess  Status = "SUCCESS"
	StatusFailed   Status = "FAILED"
	StatusOutOfGas Status = "OUT_OF_GAS"
	StatusTimeout  Status = "TIMEOUT"
)

// Result is the structured outcome of one execution. GasUsed always
// reflects what was actually charged before success or failure, capped at
// the limit for out-of-gas.
type Result struct {
	ExecutionID     string `json:"executionId"`
	Status          Status `json:"status"`
	Message         string `json:"message,omitempty"`
	Value           string `json:"value,omitempty"`
	GasUsed         uint64 `json:"gasUsed"`
	ExecutionTimeMs int64  `json:"executionTimeMs"`
}

// Succeeded reports whether the execution completed normally.
func (r *Result) Succeeded() bool {
	return r.Status == StatusSuccess
}
