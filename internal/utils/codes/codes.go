// Package codes generates human-typeable random identifiers.
package codes

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length of every generated code body.
const Length = 8

// Random returns n cryptographically random uppercase alphanumerics.
func Random(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}

// InvoiceNumber returns INV- followed by a random code.
func InvoiceNumber() (string, error) { return prefixed("INV-") }

// PurchaseReference returns PUR- followed by a random code.
func PurchaseReference() (string, error) { return prefixed("PUR-") }

// BatchCode returns BATCH- followed by a random code.
func BatchCode() (string, error) { return prefixed("BATCH-") }

// ApprovalKey returns a bare random code.
func ApprovalKey() (string, error) { return Random(Length) }

func prefixed(prefix string) (string, error) {
	c, err := Random(Length)
	if err != nil {
		return "", err
	}
	return prefix + c, nil
}
