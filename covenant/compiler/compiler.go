// Package compiler turns untrusted Ricardian contract source into a
// verifiable, textual bytecode artifact. The pipeline has five named
// stages: tokenize, parse, analyze, optimize, generate.
package compiler

import (
	"fmt"
	"time"

	"github.com/iotaledger/hive.go/logger"

	"github.com/covenantlabs/covenant/covenant"
)

// Version is the compiler version baked into artifacts and hashes.
const Version = "1.0.0"

// dialects lists the accepted source dialects. Only the Ricardian DSL is
// compiled natively; the rest are accepted for registration purposes.
var dialects = []string{"RICARDIAN", "SOLIDITY", "WEBASSEMBLY", "PYTHON", "JAVASCRIPT"}

// Result is the outcome of one compilation. Either Success is set with the
// artifacts, or Error carries the failure; never both.
type Result struct {
	Success          bool
	Bytecode         string
	ABI              string
	VerificationHash string
	TokenCount       int
	Error            string
	CompiledAt       time.Time
}

func successResult(bytecode, abi, hash string, tokenCount int) *Result {
	return &Result{
		Success:          true,
		Bytecode:         bytecode,
		ABI:              abi,
		VerificationHash: hash,
		TokenCount:       tokenCount,
		CompiledAt:       time.Now(),
	}
}

func errorResult(message string) *Result {
	return &Result{
		Success:    false,
		Error:      message,
		CompiledAt: time.Now(),
	}
}

// ValidationResult is the outcome of a syntax-only check.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
	Message  string
}

// Info describes the compiler to callers.
type Info struct {
	Version   string
	Dialects  []string
	Name      string
	Timestamp time.Time
}

// Compiler sequences the pipeline stages and attaches the verification
// hash. Failures are returned as data, never as panics or errors escaping
// the public entry points.
type Compiler struct {
	*logger.WrappedLogger

	lexer   *Lexer
	parser  *Parser
	cache   *artifactCache
	metrics *covenant.EngineMetrics
}

// New creates a compiler.
func New(log *logger.Logger, metrics *covenant.EngineMetrics) *Compiler {
	if metrics == nil {
		metrics = &covenant.EngineMetrics{}
	}
	return &Compiler{
		WrappedLogger: logger.NewWrappedLogger(log),
		lexer:         NewLexer(),
		parser:        NewParser(),
		cache:         newArtifactCache(),
		metrics:       metrics,
	}
}

// Compile runs the full pipeline over the contract's source and updates the
// contract with the produced artifacts.
func (c *Compiler) Compile(contract *covenant.Contract) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			c.LogErrorf("compilation panic for contract %s: %v", contract.ContractID, r)
			result = errorResult(fmt.Sprintf("Compilation failed: %v", r))
		}
		if result.Success {
			c.metrics.Compilations.Add(1)
		} else {
			c.metrics.CompilationsFailed.Add(1)
		}
	}()

	if contract.SourceCode == "" {
		return errorResult("Source code is empty")
	}

	cacheKey := contract.ContractID + "\x00" + contract.SourceCode
	if cached := c.cache.Get(cacheKey); cached != nil {
		c.attachArtifacts(contract, cached)
		return cached
	}

	tokens := c.lexer.Tokenize(contract.SourceCode)
	c.LogDebugf("tokenization complete: %d tokens", len(tokens))

	tree := c.parser.Parse(tokens)
	c.LogDebugf("parsing complete: %d nodes", len(tree.Nodes))

	analysis := analyze(tree)
	if !analysis.Valid {
		return errorResult(fmt.Sprintf("Semantic errors: %v", analysis.Errors))
	}
	for _, warning := range analysis.Warnings {
		c.LogWarnf("contract %s: %s", contract.ContractID, warning)
	}

	optimized := Optimize(tree)

	bytecode := generateBytecode(optimized, contract, time.Now())
	abi, err := generateABI(optimized, contract)
	if err != nil {
		return errorResult(fmt.Sprintf("Compilation failed: %v", err))
	}

	hash := ArtifactHash(contract.SourceCode, bytecode)

	result = successResult(bytecode, abi, hash, len(tokens))
	c.attachArtifacts(contract, result)
	c.cache.Put(cacheKey, result)

	c.LogInfof("compiled contract %s: %d tokens, %d bytes bytecode", contract.ContractID, len(tokens), len(bytecode))
	return result
}

// Validate reuses tokenize, parse and analyze without code generation for a
// fast syntax check.
func (c *Compiler) Validate(source string) (result *ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = &ValidationResult{
				Valid:   false,
				Errors:  []string{fmt.Sprintf("%v", r)},
				Message: "Validation failed",
			}
		}
	}()

	tokens := c.lexer.Tokenize(source)
	tree := c.parser.Parse(tokens)
	analysis := analyze(tree)

	if !analysis.Valid {
		return &ValidationResult{
			Valid:    false,
			Errors:   analysis.Errors,
			Warnings: analysis.Warnings,
			Message:  "Validation failed",
		}
	}

	return &ValidationResult{
		Valid:    true,
		Warnings: analysis.Warnings,
		Message:  "Contract syntax is valid",
	}
}

// CompilerInfo describes the compiler build.
func (c *Compiler) CompilerInfo() Info {
	return Info{
		Version:   Version,
		Dialects:  dialects,
		Name:      "Covenant Ricardian Contract Compiler",
		Timestamp: time.Now(),
	}
}

func (c *Compiler) attachArtifacts(contract *covenant.Contract, result *Result) {
	contract.Bytecode = result.Bytecode
	contract.ABI = result.ABI
	contract.VerificationHash = result.VerificationHash
}
