package verifier

import (
	"regexp"
	"strings"
)

// Security scan patterns. Keep these in sync with the checks below; the
// reentrancy pattern looks for an external call followed by a state write
// in the same region.
var (
	reentrancyPattern      = regexp.MustCompile(`(?m)\b(call|transfer|send)\s*\([^)]*\)\s*;\s*\w+\s*=`)
	uncheckedReturnPattern = regexp.MustCompile(`(?m)\.(call|send|transfer)\s*\([^)]*\)\s*;`)
	arithmeticPattern      = regexp.MustCompile(`\b\w+\s*[+\-*/]\s*\w+`)
)

// maxArithmeticFindings bounds overflow-candidate noise.
const maxArithmeticFindings = 5

// securityAnalysis runs the pattern-based scans over the contract source.
func securityAnalysis(sourceCode string) []Finding {
	var findings []Finding

	findings = append(findings, detectReentrancy(sourceCode)...)
	findings = append(findings, detectAccessControlIssues(sourceCode)...)
	findings = append(findings, detectUncheckedReturns(sourceCode)...)
	findings = append(findings, detectArithmeticIssues(sourceCode)...)
	findings = append(findings, detectTimestampDependence(sourceCode)...)
	findings = append(findings, detectUnboundedLoops(sourceCode)...)

	return findings
}

func detectReentrancy(sourceCode string) []Finding {
	var findings []Finding

	for range reentrancyPattern.FindAllString(sourceCode, -1) {
		findings = append(findings, Finding{
			Type:           VulnReentrancy,
			Severity:       SeverityCritical,
			Description:    "Potential reentrancy vulnerability detected",
			Location:       "Line with external call before state update",
			Recommendation: "Use checks-effects-interactions pattern: update state before external calls",
		})
	}

	return findings
}

func detectAccessControlIssues(sourceCode string) []Finding {
	var findings []Finding

	if strings.Contains(sourceCode, "transfer") &&
		!strings.Contains(sourceCode, "require") &&
		!strings.Contains(sourceCode, "onlyOwner") {
		findings = append(findings, Finding{
			Type:           VulnAccessControl,
			Severity:       SeverityHigh,
			Description:    "Transfer function may lack proper access control",
			Location:       "transfer function",
			Recommendation: "Add access control modifiers or require statements",
		})
	}

	return findings
}

func detectUncheckedReturns(sourceCode string) []Finding {
	var findings []Finding

	for range uncheckedReturnPattern.FindAllString(sourceCode, -1) {
		findings = append(findings, Finding{
			Type:           VulnUncheckedReturn,
			Severity:       SeverityMedium,
			Description:    "Unchecked return value from external call",
			Location:       "External call without return value check",
			Recommendation: "Check return value and handle failures appropriately",
		})
	}

	return findings
}

// detectArithmeticIssues flags arithmetic without overflow guards. Lines
// that carry a require are treated as guarded.
func detectArithmeticIssues(sourceCode string) []Finding {
	var findings []Finding

	for _, line := range strings.Split(sourceCode, "\n") {
		if strings.Contains(line, "require") || strings.Contains(line, "SafeMath") {
			continue
		}
		for range arithmeticPattern.FindAllString(line, -1) {
			if len(findings) >= maxArithmeticFindings {
				return findings
			}
			findings = append(findings, Finding{
				Type:           VulnIntegerOverflow,
				Severity:       SeverityMedium,
				Description:    "Potential integer overflow/underflow",
				Location:       "Arithmetic operation without overflow guard",
				Recommendation: "Use guarded arithmetic or built-in overflow checks",
			})
		}
	}

	return findings
}

func detectTimestampDependence(sourceCode string) []Finding {
	var findings []Finding

	if strings.Contains(sourceCode, "block.timestamp") || strings.Contains(sourceCode, "now") {
		findings = append(findings, Finding{
			Type:           VulnTimestampDependence,
			Severity:       SeverityLow,
			Description:    "Contract relies on block timestamp",
			Location:       "Timestamp usage in logic",
			Recommendation: "Avoid using timestamp for critical logic; miners can manipulate within ~15 seconds",
		})
	}

	return findings
}

func detectUnboundedLoops(sourceCode string) []Finding {
	var findings []Finding

	if strings.Contains(sourceCode, "while") && !strings.Contains(sourceCode, "break") {
		findings = append(findings, Finding{
			Type:           VulnDenialOfService,
			Severity:       SeverityMedium,
			Description:    "Potential unbounded loop detected",
			Location:       "while loop without break",
			Recommendation: "Add loop bounds or gas limits to prevent DoS",
		})
	}

	return findings
}
