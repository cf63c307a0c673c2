package verifier

import (
	"fmt"
	"math"

	"github.com/covenantlabs/covenant/covenant"
)

// formalVerification checks contract invariants, state-machine consistency
// and overflow proximity of counters.
func formalVerification(contract *covenant.Contract) []Finding {
	var findings []Finding

	findings = append(findings, verifyInvariants(contract)...)
	findings = append(findings, verifyStateMachine(contract)...)
	findings = append(findings, verifyCounters(contract)...)

	return findings
}

func verifyInvariants(contract *covenant.Contract) []Finding {
	var findings []Finding

	if contract.Value != nil && contract.Value.Sign() < 0 {
		findings = append(findings, Finding{
			Type:           VulnLogicError,
			Severity:       SeverityHigh,
			Description:    "Contract value cannot be negative",
			Location:       "value field",
			Recommendation: "Ensure contract value is non-negative",
		})
	}

	if contract.ExecutionCount < 0 {
		findings = append(findings, Finding{
			Type:           VulnLogicError,
			Severity:       SeverityMedium,
			Description:    "Execution count cannot be negative",
			Location:       "executionCount field",
			Recommendation: "Initialize execution count to 0",
		})
	}

	return findings
}

func verifyStateMachine(contract *covenant.Contract) []Finding {
	var findings []Finding

	if contract.Status != "" {
		if !contract.Status.Valid() {
			findings = append(findings, Finding{
				Type:           VulnLogicError,
				Severity:       SeverityHigh,
				Description:    fmt.Sprintf("Contract is in invalid state: %s", contract.Status),
				Location:       "status field",
				Recommendation: "Ensure contract follows valid state transitions",
			})
		}

		if contract.Status == covenant.StatusActive && contract.IsExpired() {
			findings = append(findings, Finding{
				Type:           VulnLogicError,
				Severity:       SeverityHigh,
				Description:    "Active contract has expired",
				Location:       "status/expiresAt",
				Recommendation: "Update contract status to EXPIRED",
			})
		}
	}

	return findings
}

func verifyCounters(contract *covenant.Contract) []Finding {
	var findings []Finding

	if contract.ExecutionCount > math.MaxInt64-1_000_000 {
		findings = append(findings, Finding{
			Type:           VulnIntegerOverflow,
			Severity:       SeverityLow,
			Description:    "Execution count approaching overflow limit",
			Location:       "executionCount",
			Recommendation: "Consider implementing an execution count reset mechanism",
		})
	}

	return findings
}
