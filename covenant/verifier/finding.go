package verifier

// Severity grades a finding.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// penalty is the score deduction per finding of a severity.
func (s Severity) penalty() int {
	switch s {
	case SeverityCritical:
		return 20
	case SeverityHigh:
		return 10
	case SeverityMedium:
		return 5
	case SeverityLow:
		return 2
	default:
		return 0
	}
}

// VulnerabilityType names the class of a finding.
type VulnerabilityType string

const (
	VulnReentrancy          VulnerabilityType = "REENTRANCY"
	VulnIntegerOverflow     VulnerabilityType = "INTEGER_OVERFLOW"
	VulnUncheckedReturn     VulnerabilityType = "UNCHECKED_RETURN"
	VulnAccessControl       VulnerabilityType = "ACCESS_CONTROL"
	VulnDenialOfService     VulnerabilityType = "DENIAL_OF_SERVICE"
	VulnTimestampDependence VulnerabilityType = "TIMESTAMP_DEPENDENCE"
	VulnLogicError          VulnerabilityType = "LOGIC_ERROR"
	VulnCodeQuality         VulnerabilityType = "CODE_QUALITY"
	VulnCompliance          VulnerabilityType = "COMPLIANCE"
	VulnGasOptimization     VulnerabilityType = "GAS_OPTIMIZATION"
)

// Finding is one reported issue from static analysis. Immutable value.
type Finding struct {
	Type           VulnerabilityType `json:"type"`
	Severity       Severity          `json:"severity"`
	Description    string            `json:"description"`
	Location       string            `json:"location"`
	Recommendation string            `json:"recommendation"`
}
