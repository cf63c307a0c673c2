// Package verifier runs static security, formal, quality, compliance and
// gas analyses over a contract and aggregates them into a scored report.
package verifier

import (
	"time"

	"github.com/iotaledger/hive.go/logger"

	"github.com/covenantlabs/covenant/covenant"
	"github.com/covenantlabs/covenant/covenant/compiler"
)

// Version is the verifier version recorded in reports.
const Version = "1.0.0"

// Verifier aggregates five independently-failing analyses. A panic in one
// analysis is logged and the remaining analyses still run; only a failure
// of the verifier itself yields an ERROR-status report.
type Verifier struct {
	*logger.WrappedLogger

	metrics *covenant.EngineMetrics
}

// New creates a verifier.
func New(log *logger.Logger, metrics *covenant.EngineMetrics) *Verifier {
	if metrics == nil {
		metrics = &covenant.EngineMetrics{}
	}
	return &Verifier{
		WrappedLogger: logger.NewWrappedLogger(log),
		metrics:       metrics,
	}
}

// Verify runs all analyses and merges their findings before computing the
// score and verdict. It never returns an error; a catastrophic failure is
// reported as an ERROR-status report.
func (v *Verifier) Verify(contract *covenant.Contract) (report *Report) {
	startedAt := time.Now()

	defer func() {
		if r := recover(); r != nil {
			v.LogErrorf("verification failed for contract %s: %v", contract.ContractID, r)
			v.metrics.VerificationsFailed.Add(1)
			report = errorReport(contract.ContractID, "verifier failure")
		}
	}()

	var findings []Finding
	findings = append(findings, v.runAnalysis("formal", func() []Finding {
		return formalVerification(contract)
	})...)
	findings = append(findings, v.runAnalysis("security", func() []Finding {
		return securityAnalysis(contract.SourceCode)
	})...)
	findings = append(findings, v.runAnalysis("quality", func() []Finding {
		return codeQuality(contract.SourceCode)
	})...)
	findings = append(findings, v.runAnalysis("compliance", func() []Finding {
		return complianceCheck(contract)
	})...)
	findings = append(findings, v.runAnalysis("gas", func() []Finding {
		return gasOptimization(contract.SourceCode)
	})...)

	reportScore := score(findings)
	status := verdict(findings, reportScore)

	finishedAt := time.Now()
	v.metrics.Verifications.Add(1)
	v.LogInfof("verified contract %s: status=%s score=%d findings=%d",
		contract.ContractID, status, reportScore, len(findings))

	return &Report{
		ContractID:      contract.ContractID,
		Status:          status,
		Score:           reportScore,
		Findings:        findings,
		StartedAt:       startedAt,
		FinishedAt:      finishedAt,
		DurationMs:      finishedAt.Sub(startedAt).Milliseconds(),
		VerifierVersion: Version,
	}
}

// runAnalysis isolates one analysis so its failure cannot abort the others.
func (v *Verifier) runAnalysis(name string, analysis func() []Finding) (findings []Finding) {
	defer func() {
		if r := recover(); r != nil {
			v.LogErrorf("%s analysis failed: %v", name, r)
			findings = nil
		}
	}()
	return analysis()
}

// ScanResult is the outcome of a quick pre-deploy scan.
type ScanResult struct {
	Passed           bool      `json:"passed"`
	CriticalFindings []Finding `json:"criticalFindings"`
	Timestamp        time.Time `json:"timestamp"`
}

// QuickScan runs only the checks able to produce deploy-blocking findings:
// reentrancy, access control and unchecked returns.
func (v *Verifier) QuickScan(contract *covenant.Contract) *ScanResult {
	var findings []Finding
	findings = append(findings, detectReentrancy(contract.SourceCode)...)
	findings = append(findings, detectAccessControlIssues(contract.SourceCode)...)
	findings = append(findings, detectUncheckedReturns(contract.SourceCode)...)

	passed := true
	for _, finding := range findings {
		if finding.Severity == SeverityCritical {
			passed = false
			break
		}
	}

	return &ScanResult{
		Passed:           passed,
		CriticalFindings: findings,
		Timestamp:        time.Now(),
	}
}

// BytecodeVerification is the outcome of comparing a contract's stored
// verification hash against a recomputed one.
type BytecodeVerification struct {
	Matches      bool   `json:"matches"`
	ExpectedHash string `json:"expectedHash"`
	ActualHash   string `json:"actualHash"`
}

// VerifyBytecode recomputes the verification hash from source and bytecode
// and compares it to the stored hash. Exact equality is required.
func (v *Verifier) VerifyBytecode(contract *covenant.Contract) *BytecodeVerification {
	if contract.SourceCode == "" || contract.Bytecode == "" {
		return &BytecodeVerification{
			Matches:      false,
			ExpectedHash: "Source code or bytecode missing",
			ActualHash:   "N/A",
		}
	}

	expected := compiler.ArtifactHash(contract.SourceCode, contract.Bytecode)
	return &BytecodeVerification{
		Matches:      expected == contract.VerificationHash,
		ExpectedHash: expected,
		ActualHash:   contract.VerificationHash,
	}
}
