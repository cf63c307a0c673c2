package verifier

import (
	"fmt"
	"strings"
)

// complexityThreshold is the cyclomatic complexity above which a contract
// is flagged.
const complexityThreshold = 20

// codeQuality flags missing documentation and excessive complexity.
func codeQuality(sourceCode string) []Finding {
	var findings []Finding

	if !strings.Contains(sourceCode, "/**") && !strings.Contains(sourceCode, "//") {
		findings = append(findings, Finding{
			Type:           VulnCodeQuality,
			Severity:       SeverityLow,
			Description:    "Contract lacks documentation",
			Location:       "Source code",
			Recommendation: "Add comprehensive comments and documentation",
		})
	}

	if complexity := cyclomaticComplexity(sourceCode); complexity > complexityThreshold {
		findings = append(findings, Finding{
			Type:           VulnCodeQuality,
			Severity:       SeverityMedium,
			Description:    fmt.Sprintf("High code complexity: %d", complexity),
			Location:       "Overall contract",
			Recommendation: "Refactor complex functions into smaller, more manageable units",
		})
	}

	return findings
}

// cyclomaticComplexity approximates complexity as one plus the number of
// branch points in the source.
func cyclomaticComplexity(sourceCode string) int {
	complexity := 1
	for _, branch := range []string{"if", "else", "while", "for", "case", "&&", "||"} {
		complexity += strings.Count(sourceCode, branch)
	}
	return complexity
}
