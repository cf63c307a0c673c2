package verifier

import (
	"github.com/ericlagergren/decimal"

	"github.com/covenantlabs/covenant/covenant"
)

// jurisdictionThreshold is the contract value above which a jurisdiction
// must be specified.
var jurisdictionThreshold = decimal.New(100_000, 0)

// complianceCheck enforces KYC/AML requirements for RWA contracts and
// jurisdiction requirements for high-value contracts.
func complianceCheck(contract *covenant.Contract) []Finding {
	var findings []Finding

	if contract.IsRWA {
		if !contract.KYCVerified {
			findings = append(findings, Finding{
				Type:           VulnCompliance,
				Severity:       SeverityHigh,
				Description:    "RWA contract requires KYC verification",
				Location:       "kycVerified field",
				Recommendation: "Complete KYC verification before contract deployment",
			})
		}

		if !contract.AMLChecked {
			findings = append(findings, Finding{
				Type:           VulnCompliance,
				Severity:       SeverityHigh,
				Description:    "RWA contract requires AML check",
				Location:       "amlChecked field",
				Recommendation: "Complete AML checks before contract deployment",
			})
		}
	}

	if contract.Value != nil && contract.Value.Cmp(jurisdictionThreshold) > 0 && contract.Jurisdiction == "" {
		findings = append(findings, Finding{
			Type:           VulnCompliance,
			Severity:       SeverityMedium,
			Description:    "High-value contract requires jurisdiction specification",
			Location:       "jurisdiction field",
			Recommendation: "Specify contract jurisdiction for regulatory compliance",
		})
	}

	return findings
}
