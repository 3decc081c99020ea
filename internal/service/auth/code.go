package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// generateCode returns a cryptographically random 6 digit code
// in range [100000, 999999] inclusive
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", fmt.Errorf("error while generating verification code. Err: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}
