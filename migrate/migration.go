package migrate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// FileMigration represents a migration script discovered on disk. It is
// reconstructed on every run and never persisted.
type FileMigration struct {
	Checksum   string
	FileName   string
	CypherText string
}

// Checksum computes the content fingerprint of a migration script: the
// SHA-256 hex digest of its full text.
func Checksum(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ChecksumMismatchError signals that a script's on-disk content changed since
// it was last applied. It always halts the run and is never auto-resolved.
type ChecksumMismatchError struct {
	FileName string
	Recorded string
	Computed string
}

// Error returns a string representation of the error.
func (e ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for migration '%s'", e.FileName)
}
