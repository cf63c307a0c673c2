package executor

import (
	"fmt"
	"strings"

	"github.com/ericlagergren/decimal"

	engineerrors "github.com/covenantlabs/covenant/covenant/errors"
	"github.com/covenantlabs/covenant/covenant/state"
)

// builtin identifies one of the fixed contract methods. The set is closed;
// dispatch is an exhaustive switch and unknown names fail before any
// method-specific gas is charged.
type builtin uint8

const (
	builtinUnknown builtin = iota
	builtinTransfer
	builtinApprove
	builtinBalanceOf
	builtinMint
	builtinBurn
	builtinGetOwner
	builtinSetValue
	builtinGetValue
)

// lookupBuiltin resolves a method name case-insensitively.
func lookupBuiltin(methodName string) builtin {
	switch strings.ToLower(methodName) {
	case "transfer":
		return builtinTransfer
	case "approve":
		return builtinApprove
	case "balanceof":
		return builtinBalanceOf
	case "mint":
		return builtinMint
	case "burn":
		return builtinBurn
	case "getowner":
		return builtinGetOwner
	case "setvalue":
		return builtinSetValue
	case "getvalue":
		return builtinGetValue
	default:
		return builtinUnknown
	}
}

// dispatch runs one builtin against a locked state record. Gas for an
// operation is always charged before the mutation it pays for, so budget
// exhaustion never leaves a partial, uncharged write.
func (e *Executor) dispatch(method builtin, st *state.ContractState, req *Request, tracker *Tracker) (string, error) {
	switch method {
	case builtinTransfer:
		return e.execTransfer(st, req, tracker)
	case builtinApprove:
		return e.execApprove(st, req, tracker)
	case builtinBalanceOf:
		return e.execBalanceOf(st, req, tracker)
	case builtinMint:
		return e.execMint(st, req, tracker)
	case builtinBurn:
		return e.execBurn(st, req, tracker)
	case builtinGetOwner:
		return e.execGetOwner(st, tracker)
	case builtinSetValue:
		return e.execSetValue(st, req, tracker)
	case builtinGetValue:
		return e.execGetValue(st, req, tracker)
	case builtinUnknown:
		return "", engineerrors.ErrUnknownMethod(req.MethodName)
	default:
		return "", engineerrors.ErrUnknownMethod(req.MethodName)
	}
}

func (e *Executor) execTransfer(st *state.ContractState, req *Request, tracker *Tracker) (string, error) {
	from, err := stringParam(req.Parameters, 0, "from")
	if err != nil {
		return "", err
	}
	to, err := stringParam(req.Parameters, 1, "to")
	if err != nil {
		return "", err
	}
	amount, err := amountParam(req.Parameters, 2)
	if err != nil {
		return "", err
	}

	if err := tracker.Consume(e.costs.Computation * 5); err != nil {
		return "", err
	}
	if err := tracker.Consume(e.costs.StorageRead); err != nil {
		return "", err
	}
	if st.Balance(from).Cmp(amount) < 0 {
		return "", engineerrors.ErrInsufficientBalance(from)
	}

	if err := tracker.Consume(e.costs.StorageRead); err != nil {
		return "", err
	}
	if err := tracker.Consume(2 * e.costs.StorageWrite); err != nil {
		return "", err
	}
	if err := tracker.Consume(e.costs.Log); err != nil {
		return "", err
	}

	ok, err := st.Transfer(from, to, amount)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", engineerrors.ErrInsufficientBalance(from)
	}
	return "true", nil
}

func (e *Executor) execApprove(st *state.ContractState, req *Request, tracker *Tracker) (string, error) {
	spender, err := stringParam(req.Parameters, 0, "spender")
	if err != nil {
		return "", err
	}
	amount, err := decimalParam(req.Parameters, 1, "amount")
	if err != nil {
		return "", err
	}
	if amount.Sign() < 0 {
		return "", engineerrors.ErrInvalidArgument("amount cannot be negative")
	}

	if err := tracker.Consume(e.costs.Computation * 3); err != nil {
		return "", err
	}
	if err := tracker.Consume(e.costs.StorageWrite); err != nil {
		return "", err
	}
	if err := tracker.Consume(e.costs.Log); err != nil {
		return "", err
	}

	if err := st.SetAllowance(req.Caller, spender, amount); err != nil {
		return "", err
	}
	return "true", nil
}

func (e *Executor) execBalanceOf(st *state.ContractState, req *Request, tracker *Tracker) (string, error) {
	account, err := stringParam(req.Parameters, 0, "account")
	if err != nil {
		return "", err
	}

	if err := tracker.Consume(e.costs.Computation * 2); err != nil {
		return "", err
	}
	if err := tracker.Consume(e.costs.StorageRead); err != nil {
		return "", err
	}

	return st.Balance(account).String(), nil
}

func (e *Executor) execMint(st *state.ContractState, req *Request, tracker *Tracker) (string, error) {
	to, err := stringParam(req.Parameters, 0, "to")
	if err != nil {
		return "", err
	}
	amount, err := amountParam(req.Parameters, 1)
	if err != nil {
		return "", err
	}

	if err := tracker.Consume(e.costs.Computation * 5); err != nil {
		return "", err
	}
	if err := tracker.Consume(e.costs.StorageRead); err != nil {
		return "", err
	}
	if err := tracker.Consume(2 * e.costs.StorageWrite); err != nil {
		return "", err
	}
	if err := tracker.Consume(e.costs.Log); err != nil {
		return "", err
	}

	if err := st.SetBalance(to, new(decimal.Big).Add(st.Balance(to), amount)); err != nil {
		return "", err
	}
	st.IncreaseTotalSupply(amount)
	return "true", nil
}

func (e *Executor) execBurn(st *state.ContractState, req *Request, tracker *Tracker) (string, error) {
	from, err := stringParam(req.Parameters, 0, "from")
	if err != nil {
		return "", err
	}
	amount, err := amountParam(req.Parameters, 1)
	if err != nil {
		return "", err
	}

	if err := tracker.Consume(e.costs.Computation * 5); err != nil {
		return "", err
	}
	if err := tracker.Consume(e.costs.StorageRead); err != nil {
		return "", err
	}
	fromBalance := st.Balance(from)
	if fromBalance.Cmp(amount) < 0 {
		return "", engineerrors.ErrInsufficientBalance(from)
	}

	if err := tracker.Consume(2 * e.costs.StorageWrite); err != nil {
		return "", err
	}
	if err := tracker.Consume(e.costs.Log); err != nil {
		return "", err
	}

	if err := st.SetBalance(from, new(decimal.Big).Sub(fromBalance, amount)); err != nil {
		return "", err
	}
	st.DecreaseTotalSupply(amount)
	return "true", nil
}

func (e *Executor) execGetOwner(st *state.ContractState, tracker *Tracker) (string, error) {
	if err := tracker.Consume(e.costs.Computation); err != nil {
		return "", err
	}
	if err := tracker.Consume(e.costs.StorageRead); err != nil {
		return "", err
	}
	return st.Owner(), nil
}

func (e *Executor) execSetValue(st *state.ContractState, req *Request, tracker *Tracker) (string, error) {
	key, err := stringParam(req.Parameters, 0, "key")
	if err != nil {
		return "", err
	}
	value, err := stringParam(req.Parameters, 1, "value")
	if err != nil {
		return "", err
	}

	if err := tracker.Consume(e.costs.Computation * 2); err != nil {
		return "", err
	}
	if err := tracker.Consume(e.costs.StorageWrite); err != nil {
		return "", err
	}

	st.SetValue(key, value)
	return "true", nil
}

func (e *Executor) execGetValue(st *state.ContractState, req *Request, tracker *Tracker) (string, error) {
	key, err := stringParam(req.Parameters, 0, "key")
	if err != nil {
		return "", err
	}

	if err := tracker.Consume(e.costs.Computation * 2); err != nil {
		return "", err
	}
	if err := tracker.Consume(e.costs.StorageRead); err != nil {
		return "", err
	}

	return st.Value(key), nil
}

// stringParam extracts a required string parameter.
func stringParam(params []interface{}, index int, name string) (string, error) {
	if index >= len(params) {
		return "", engineerrors.ErrInvalidArgument(fmt.Sprintf("missing parameter: %s", name))
	}
	value, ok := params[index].(string)
	if !ok {
		return "", engineerrors.ErrInvalidArgument(fmt.Sprintf("parameter %s must be a string", name))
	}
	return value, nil
}

// decimalParam extracts a required decimal parameter, accepting the numeric
// shapes JSON decoding produces.
func decimalParam(params []interface{}, index int, name string) (*decimal.Big, error) {
	if index >= len(params) {
		return nil, engineerrors.ErrInvalidArgument(fmt.Sprintf("missing parameter: %s", name))
	}

	switch v := params[index].(type) {
	case *decimal.Big:
		return new(decimal.Big).Copy(v), nil
	case string:
		amount, ok := new(decimal.Big).SetString(v)
		if !ok {
			return nil, engineerrors.ErrInvalidArgument(fmt.Sprintf("parameter %s is not a valid number: %q", name, v))
		}
		return amount, nil
	case float64:
		return new(decimal.Big).SetFloat64(v), nil
	case int:
		return decimal.New(int64(v), 0), nil
	case int64:
		return decimal.New(v, 0), nil
	case uint64:
		return new(decimal.Big).SetUint64(v), nil
	default:
		return nil, engineerrors.ErrInvalidArgument(fmt.Sprintf("parameter %s has unsupported type %T", name, v))
	}
}

// amountParam extracts a strictly positive decimal amount.
func amountParam(params []interface{}, index int) (*decimal.Big, error) {
	amount, err := decimalParam(params, index, "amount")
	if err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, engineerrors.ErrInvalidArgument("amount must be positive")
	}
	return amount, nil
}
