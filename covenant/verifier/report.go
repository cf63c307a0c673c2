package verifier

import (
	"time"
)

// Status is the overall verdict of a verification run.
type Status string

const (
	StatusPassed             Status = "PASSED"
	StatusPassedWithWarnings Status = "PASSED_WITH_WARNINGS"
	StatusFailed             Status = "FAILED"
	StatusError              Status = "ERROR"
)

// Report aggregates the findings of all analyses into a score and verdict.
// Any CRITICAL finding forces StatusFailed regardless of the numeric score.
type Report struct {
	ContractID      string    `json:"contractId"`
	Status          Status    `json:"status"`
	Score           int       `json:"score"`
	Findings        []Finding `json:"findings"`
	StartedAt       time.Time `json:"startedAt"`
	FinishedAt      time.Time `json:"finishedAt"`
	DurationMs      int64     `json:"durationMs"`
	VerifierVersion string    `json:"verifierVersion"`
}

// FindingsBySeverity counts findings per severity level.
func (r *Report) FindingsBySeverity() map[Severity]int {
	counts := map[Severity]int{
		SeverityCritical: 0,
		SeverityHigh:     0,
		SeverityMedium:   0,
		SeverityLow:      0,
	}
	for _, finding := range r.Findings {
		counts[finding.Severity]++
	}
	return counts
}

func errorReport(contractID, message string) *Report {
	now := time.Now()
	return &Report{
		ContractID: contractID,
		Status:     StatusError,
		Score:      0,
		Findings: []Finding{{
			Type:           VulnLogicError,
			Severity:       SeverityCritical,
			Description:    message,
			Location:       "N/A",
			Recommendation: "Fix the error and retry verification",
		}},
		StartedAt:       now,
		FinishedAt:      now,
		VerifierVersion: Version,
	}
}

// score computes 100 minus the severity penalties, clamped at zero.
func score(findings []Finding) int {
	s := 100
	for _, finding := range findings {
		s -= finding.Severity.penalty()
	}
	if s < 0 {
		return 0
	}
	return s
}

// verdict derives the report status from the findings and score.
func verdict(findings []Finding, s int) Status {
	for _, finding := range findings {
		if finding.Severity == SeverityCritical {
			return StatusFailed
		}
	}

	switch {
	case s >= 80:
		return StatusPassed
	case s >= 60:
		return StatusPassedWithWarnings
	default:
		return StatusFailed
	}
}
