package compiler

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// ArtifactHash computes the verification hash binding a contract's source,
// its compiled bytecode and the compiler version. Volatile header lines of
// the bytecode (the compilation timestamp) are stripped before hashing so
// that identical source compiled with the same compiler version always
// yields the same hash.
func ArtifactHash(sourceCode, bytecode string) string {
	combined := sourceCode + canonicalBytecode(bytecode) + Version
	sum := blake2b.Sum256([]byte(combined))
	return "0x" + hex.EncodeToString(sum[:])
}

func canonicalBytecode(bytecode string) string {
	lines := strings.Split(bytecode, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, "TIMESTAMP:") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
