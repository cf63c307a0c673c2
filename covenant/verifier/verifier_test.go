package verifier

import (
	"sync"
	"testing"

	"github.com/ericlagergren/decimal"
	"github.com/iotaledger/hive.go/app/configuration"
	appLogger "github.com/iotaledger/hive.go/app/logger"
	"github.com/iotaledger/hive.go/logger"
	"github.com/stretchr/testify/require"

	"github.com/covenantlabs/covenant/covenant"
	"github.com/covenantlabs/covenant/covenant/compiler"
)

var initLoggerOnce sync.Once

func initTestLogger() {
	initLoggerOnce.Do(func() {
		cfg := configuration.New()
		_ = appLogger.InitGlobalLogger(cfg)
	})
}

func newTestVerifier() *Verifier {
	initTestLogger()
	return New(logger.NewLogger("test"), nil)
}

func cleanContract() *covenant.Contract {
	return &covenant.Contract{
		ContractID:   "contract-1",
		Address:      "0xabc",
		Name:         "Sale",
		ContractType: "RICARDIAN",
		Status:       covenant.StatusActive,
		// Documented source with a guard so neither the quality nor the
		// access-control check fires.
		SourceCode: "// token sale agreement\ncontract Sale { verify signature }",
	}
}

func TestVerifyCleanContract(t *testing.T) {
	v := newTestVerifier()

	report := v.Verify(cleanContract())
	require.Equal(t, StatusPassed, report.Status)
	require.Equal(t, 100, report.Score)
	require.Empty(t, report.Findings)
	require.Equal(t, Version, report.VerifierVersion)
}

func TestVerifyNegativeValue(t *testing.T) {
	v := newTestVerifier()

	contract := cleanContract()
	contract.Value = decimal.New(-5, 0)

	report := v.Verify(contract)
	require.Less(t, report.Score, 100)

	var found bool
	for _, finding := range report.Findings {
		if finding.Type == VulnLogicError && finding.Severity == SeverityHigh {
			found = true
		}
	}
	require.True(t, found, "expected a HIGH LOGIC_ERROR finding for negative value")
}

func TestVerifyCriticalFindingForcesFailed(t *testing.T) {
	v := newTestVerifier()

	contract := cleanContract()
	contract.SourceCode = "// payout\nrequire(ok)\ncall(recipient); balance = 0;"

	report := v.Verify(contract)
	require.Equal(t, StatusFailed, report.Status)

	counts := report.FindingsBySeverity()
	require.Greater(t, counts[SeverityCritical], 0)
}

func TestScoreClampedAtZero(t *testing.T) {
	findings := make([]Finding, 0, 10)
	for i := 0; i < 10; i++ {
		findings = append(findings, Finding{Severity: SeverityCritical})
	}
	require.Equal(t, 0, score(findings))
}

func TestVerdictThresholds(t *testing.T) {
	require.Equal(t, StatusPassed, verdict(nil, 100))
	require.Equal(t, StatusPassed, verdict(nil, 80))
	require.Equal(t, StatusPassedWithWarnings, verdict(nil, 79))
	require.Equal(t, StatusPassedWithWarnings, verdict(nil, 60))
	require.Equal(t, StatusFailed, verdict(nil, 59))

	// Critical dominance: a CRITICAL finding fails the contract even with a
	// passing score.
	critical := []Finding{{Severity: SeverityCritical}}
	require.Equal(t, StatusFailed, verdict(critical, 80))
}

func TestQuickScanReentrancy(t *testing.T) {
	v := newTestVerifier()

	contract := cleanContract()
	contract.SourceCode = "call(recipient); balance = 0;"

	result := v.QuickScan(contract)
	require.False(t, result.Passed)

	var critical bool
	for _, finding := range result.CriticalFindings {
		if finding.Type == VulnReentrancy && finding.Severity == SeverityCritical {
			critical = true
		}
	}
	require.True(t, critical, "expected a CRITICAL reentrancy finding")
}

func TestQuickScanCleanSource(t *testing.T) {
	v := newTestVerifier()

	result := v.QuickScan(cleanContract())
	require.True(t, result.Passed)
}

func TestComplianceRWA(t *testing.T) {
	contract := cleanContract()
	contract.IsRWA = true

	findings := complianceCheck(contract)
	require.Len(t, findings, 2)
	for _, finding := range findings {
		require.Equal(t, VulnCompliance, finding.Type)
		require.Equal(t, SeverityHigh, finding.Severity)
	}

	contract.KYCVerified = true
	contract.AMLChecked = true
	require.Empty(t, complianceCheck(contract))
}

func TestComplianceJurisdiction(t *testing.T) {
	contract := cleanContract()
	contract.Value = decimal.New(200_000, 0)

	findings := complianceCheck(contract)
	require.Len(t, findings, 1)
	require.Equal(t, SeverityMedium, findings[0].Severity)

	contract.Jurisdiction = "CH"
	require.Empty(t, complianceCheck(contract))
}

func TestUnboundedLoopFinding(t *testing.T) {
	findings := detectUnboundedLoops("while (true) { spin() }")
	require.Len(t, findings, 1)
	require.Equal(t, VulnDenialOfService, findings[0].Type)

	require.Empty(t, detectUnboundedLoops("while (i < n) { if (done) break }"))
}

func TestArithmeticFindingsCapped(t *testing.T) {
	source := "a + b\nc + d\ne + f\ng + h\ni + j\nk + l\nm + n\n"
	findings := detectArithmeticIssues(source)
	require.Len(t, findings, maxArithmeticFindings)
}

func TestVerifyBytecode(t *testing.T) {
	v := newTestVerifier()
	initTestLogger()

	contract := cleanContract()
	contract.SourceCode = "contract Sale { party Buyer }"

	c := compiler.New(logger.NewLogger("test"), nil)
	result := c.Compile(contract)
	require.True(t, result.Success)

	check := v.VerifyBytecode(contract)
	require.True(t, check.Matches)

	contract.SourceCode += " "
	tampered := v.VerifyBytecode(contract)
	require.False(t, tampered.Matches)
}

func TestVerifyBytecodeMissingArtifacts(t *testing.T) {
	v := newTestVerifier()

	check := v.VerifyBytecode(&covenant.Contract{ContractID: "contract-1"})
	require.False(t, check.Matches)
}
