package covenant

import (
	"time"

	"github.com/ericlagergren/decimal"
)

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	StatusDraft      ContractStatus = "DRAFT"
	StatusDeployed   ContractStatus = "DEPLOYED"
	StatusActive     ContractStatus = "ACTIVE"
	StatusPaused     ContractStatus = "PAUSED"
	StatusExpired    ContractStatus = "EXPIRED"
	StatusTerminated ContractStatus = "TERMINATED"
)

// Valid reports whether s is a recognized lifecycle state.
func (s ContractStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusDeployed, StatusActive, StatusPaused, StatusExpired, StatusTerminated:
		return true
	default:
		return false
	}
}

// Contract is a Ricardian contract record: the source, the compiled artifacts
// and the metadata the verifier's compliance checks operate on.
type Contract struct {
	ContractID   string         `json:"contractId"`
	Address      string         `json:"address"`
	Name         string         `json:"name"`
	ContractType string         `json:"contractType"`
	SourceCode   string         `json:"sourceCode"`
	Bytecode     string         `json:"bytecode,omitempty"`
	ABI          string         `json:"abi,omitempty"`

	// VerificationHash binds source, bytecode and compiler version.
	VerificationHash string `json:"verificationHash,omitempty"`

	Status         ContractStatus `json:"status"`
	Value          *decimal.Big   `json:"value,omitempty"`
	ExecutionCount int64          `json:"executionCount"`

	// Compliance metadata for RWA-backed contracts.
	IsRWA        bool   `json:"isRWA"`
	KYCVerified  bool   `json:"kycVerified"`
	AMLChecked   bool   `json:"amlChecked"`
	Jurisdiction string `json:"jurisdiction,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// IsExpired reports whether the contract has an expiry in the past.
func (c *Contract) IsExpired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}

// Executable reports whether the contract may be executed. Only ACTIVE
// contracts are executable; PAUSED and DEPLOYED contracts are rejected
// uniformly at every call site.
func (c *Contract) Executable() bool {
	return c.Status == StatusActive
}
