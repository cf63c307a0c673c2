package verifier

import (
	"strings"
)

// repeatedReadThreshold is the number of .length-style storage reads above
// which caching in memory is suggested.
const repeatedReadThreshold = 3

// gasOptimization flags storage-vs-memory misuse and repeated storage reads.
func gasOptimization(sourceCode string) []Finding {
	var findings []Finding

	if strings.Contains(sourceCode, "string storage") && !strings.Contains(sourceCode, "string memory") {
		findings = append(findings, Finding{
			Type:           VulnGasOptimization,
			Severity:       SeverityLow,
			Description:    "Consider using memory instead of storage for temporary variables",
			Location:       "Variable declarations",
			Recommendation: "Use 'memory' keyword for temporary string variables",
		})
	}

	if strings.Count(sourceCode, ".length") > repeatedReadThreshold {
		findings = append(findings, Finding{
			Type:           VulnGasOptimization,
			Severity:       SeverityLow,
			Description:    "Multiple storage reads detected",
			Location:       "Storage access patterns",
			Recommendation: "Cache storage values in memory variables",
		})
	}

	return findings
}
