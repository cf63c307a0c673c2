package executor

import (
	engineerrors "github.com/covenantlabs/covenant/covenant/errors"
)

// EstimateGas produces a static upper-bound estimate for a request without
// touching ledger state or any real tracker. The estimate is the base cost
// plus a source-size share, a per-parameter share and the method's worst
// case charge.
func (e *Executor) EstimateGas(req *Request) (uint64, error) {
	if req.ContractAddress == "" {
		return 0, engineerrors.ErrInvalidArgument("contract address is required")
	}
	if req.MethodName == "" {
		return 0, engineerrors.ErrInvalidArgument("method name is required")
	}

	contract, err := e.contracts.FindByAddress(req.ContractAddress)
	if err != nil {
		return 0, err
	}
	if contract == nil {
		return 0, engineerrors.ErrContractNotFound(req.ContractAddress)
	}

	method := lookupBuiltin(req.MethodName)
	if method == builtinUnknown {
		return 0, engineerrors.ErrUnknownMethod(req.MethodName)
	}

	estimate := e.costs.Base
	estimate += uint64(len(contract.SourceCode)) * 2
	estimate += uint64(len(req.Parameters)) * 100
	estimate += e.methodCeiling(method)

	return estimate, nil
}

// methodCeiling is the worst-case charge of a builtin, derived from the
// active cost table.
func (e *Executor) methodCeiling(method builtin) uint64 {
	switch method {
	case builtinTransfer, builtinMint, builtinBurn:
		return e.costs.Computation*5 + 2*e.costs.StorageRead + 2*e.costs.StorageWrite + e.costs.Log
	case builtinApprove:
		return e.costs.Computation*3 + e.costs.StorageWrite + e.costs.Log
	case builtinBalanceOf, builtinGetValue:
		return e.costs.Computation*2 + e.costs.StorageRead
	case builtinGetOwner:
		return e.costs.Computation + e.costs.StorageRead
	case builtinSetValue:
		return e.costs.Computation*2 + e.costs.StorageWrite
	default:
		return 0
	}
}
