package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashIdentifier returns the hex SHA-256 of an access key or site identifier.
// The audit log only ever stores this hash, never the raw value.
func HashIdentifier(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
