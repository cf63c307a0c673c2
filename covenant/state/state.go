// Package state holds the mutable ledger-like store contract methods read
// and mutate: token balances, allowances, total supply and a generic
// key/value area, one record per contract address.
package state

import (
	"sync"
	"time"

	"github.com/ericlagergren/decimal"

	engineerrors "github.com/covenantlabs/covenant/covenant/errors"
)

// ContractState is the per-address ledger record. Every record carries its
// own mutex; the executor holds it across a whole method dispatch so that
// read-check-write sequences on one address are linearizable.
type ContractState struct {
	mu sync.Mutex

	contractAddress string
	balances        map[string]*decimal.Big
	allowances      map[string]map[string]*decimal.Big // owner -> spender -> amount
	storage         map[string]string

	totalSupply *decimal.Big
	owner       string
	name        string
	symbol      string
	decimals    int

	createdAt   time.Time
	lastUpdated time.Time
}

// New creates an empty state record for a contract address.
func New(contractAddress string) *ContractState {
	now := time.Now()
	return &ContractState{
		contractAddress: contractAddress,
		balances:        make(map[string]*decimal.Big),
		allowances:      make(map[string]map[string]*decimal.Big),
		storage:         make(map[string]string),
		totalSupply:     new(decimal.Big),
		decimals:        18,
		createdAt:       now,
		lastUpdated:     now,
	}
}

// Lock acquires the record for a single execution.
func (s *ContractState) Lock() { s.mu.Lock() }

// Unlock releases the record.
func (s *ContractState) Unlock() { s.mu.Unlock() }

// Address returns the contract address this record belongs to.
func (s *ContractState) Address() string { return s.contractAddress }

// Balance returns the balance of an account, zero if the account is unknown.
// Callers must hold the record lock.
func (s *ContractState) Balance(account string) *decimal.Big {
	if balance, ok := s.balances[account]; ok {
		return new(decimal.Big).Copy(balance)
	}
	return new(decimal.Big)
}

// SetBalance sets the balance of an account. Negative balances are rejected.
func (s *ContractState) SetBalance(account string, balance *decimal.Big) error {
	if balance.Sign() < 0 {
		return engineerrors.New(engineerrors.ErrCodeNegativeAmount, "balance cannot be negative")
	}
	s.balances[account] = new(decimal.Big).Copy(balance)
	s.touch()
	return nil
}

// Transfer moves amount from one account to another. It reports false when
// the source balance does not cover the amount.
func (s *ContractState) Transfer(from, to string, amount *decimal.Big) (bool, error) {
	fromBalance := s.Balance(from)
	if fromBalance.Cmp(amount) < 0 {
		return false, nil
	}

	if err := s.SetBalance(from, new(decimal.Big).Sub(fromBalance, amount)); err != nil {
		return false, err
	}
	if err := s.SetBalance(to, new(decimal.Big).Add(s.Balance(to), amount)); err != nil {
		return false, err
	}
	return true, nil
}

// Allowance returns the amount spender may transfer on behalf of owner.
func (s *ContractState) Allowance(owner, spender string) *decimal.Big {
	ownerAllowances, ok := s.allowances[owner]
	if !ok {
		return new(decimal.Big)
	}
	if allowance, ok := ownerAllowances[spender]; ok {
		return new(decimal.Big).Copy(allowance)
	}
	return new(decimal.Big)
}

// SetAllowance sets the amount spender may transfer on behalf of owner.
func (s *ContractState) SetAllowance(owner, spender string, amount *decimal.Big) error {
	if amount.Sign() < 0 {
		return engineerrors.New(engineerrors.ErrCodeNegativeAmount, "allowance cannot be negative")
	}

	if _, ok := s.allowances[owner]; !ok {
		s.allowances[owner] = make(map[string]*decimal.Big)
	}
	s.allowances[owner][spender] = new(decimal.Big).Copy(amount)
	s.touch()
	return nil
}

// TransferFrom spends an allowance: spender moves amount from owner to a
// recipient. It reports false when either the allowance or the owner's
// balance does not cover the amount.
func (s *ContractState) TransferFrom(owner, spender, to string, amount *decimal.Big) (bool, error) {
	allowance := s.Allowance(owner, spender)
	ownerBalance := s.Balance(owner)

	if allowance.Cmp(amount) < 0 || ownerBalance.Cmp(amount) < 0 {
		return false, nil
	}

	if err := s.SetAllowance(owner, spender, new(decimal.Big).Sub(allowance, amount)); err != nil {
		return false, err
	}
	if err := s.SetBalance(owner, new(decimal.Big).Sub(ownerBalance, amount)); err != nil {
		return false, err
	}
	if err := s.SetBalance(to, new(decimal.Big).Add(s.Balance(to), amount)); err != nil {
		return false, err
	}
	return true, nil
}

// Value returns the generic storage value for key, empty if unset.
func (s *ContractState) Value(key string) string {
	return s.storage[key]
}

// SetValue stores a generic key/value pair.
func (s *ContractState) SetValue(key, value string) {
	s.storage[key] = value
	s.touch()
}

// TotalSupply returns the current total token supply.
func (s *ContractState) TotalSupply() *decimal.Big {
	return new(decimal.Big).Copy(s.totalSupply)
}

// IncreaseTotalSupply grows the total supply by amount.
func (s *ContractState) IncreaseTotalSupply(amount *decimal.Big) {
	s.totalSupply.Add(s.totalSupply, amount)
	s.touch()
}

// DecreaseTotalSupply shrinks the total supply by amount.
func (s *ContractState) DecreaseTotalSupply(amount *decimal.Big) {
	s.totalSupply.Sub(s.totalSupply, amount)
	s.touch()
}

// Owner returns the contract owner address.
func (s *ContractState) Owner() string { return s.owner }

// SetOwner sets the contract owner address.
func (s *ContractState) SetOwner(owner string) {
	s.owner = owner
	s.touch()
}

// SetTokenInfo sets the token metadata of the contract.
func (s *ContractState) SetTokenInfo(name, symbol string, decimals int) {
	s.name = name
	s.symbol = symbol
	s.decimals = decimals
	s.touch()
}

// TokenInfo returns the token metadata of the contract.
func (s *ContractState) TokenInfo() (name, symbol string, decimals int) {
	return s.name, s.symbol, s.decimals
}

// BalanceTotal sums all account balances. Used by conservation checks.
func (s *ContractState) BalanceTotal() *decimal.Big {
	total := new(decimal.Big)
	for _, balance := range s.balances {
		total.Add(total, balance)
	}
	return total
}

func (s *ContractState) touch() {
	s.lastUpdated = time.Now()
}
