package executor

import (
	"fmt"

	engineerrors "github.com/covenantlabs/covenant/covenant/errors"
)

// Request describes one contract method invocation.
type Request struct {
	ContractAddress string        `json:"contractAddress"`
	MethodName      string        `json:"methodName"`
	Parameters      []interface{} `json:"parameters"`
	GasLimit        uint64        `json:"gasLimit"`
	Caller          string        `json:"caller"`
}

// Validate checks the request shape before any gas is charged. Validation
// failures are the only executor errors returned to the caller directly.
func (r *Request) Validate(maxGasLimit uint64) error {
	if r.ContractAddress == "" {
		return engineerrors.ErrInvalidArgument("contract address is required")
	}
	if r.MethodName == "" {
		return engineerrors.ErrInvalidArgument("method name is required")
	}
	if r.GasLimit == 0 {
		return engineerrors.ErrInvalidArgument("gas limit must be positive")
	}
	if r.GasLimit > maxGasLimit {
		return engineerrors.ErrInvalidArgument(fmt.Sprintf("gas limit %d exceeds maximum %d", r.GasLimit, maxGasLimit))
	}
	return nil
}
