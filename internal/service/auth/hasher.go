package auth

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// Interface to create or compare password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

// Bcrypt password hasher
// Will be used as default one if caller not provide it's own
// Passwords are pre-hashed with sha256 to lift the bcrypt 72 byte input limit
type BcryptHasher struct{}

func (h BcryptHasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(sum[:], bcrypt.DefaultCost)
	return string(hash), err
}

func (h BcryptHasher) Compare(hashedPassword string, password string) error {
	sum := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), sum[:])
}

const codeHashCost = 10

// hashCode hashes a short verification code.
// Codes are 6 digits, way below the bcrypt input limit, so no pre-hash needed.
func hashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), codeHashCost)
	return string(hash), err
}

// compareCode is timing safe: bcrypt comparison does not short-circuit
func compareCode(codeHash string, code string) error {
	return bcrypt.CompareHashAndPassword([]byte(codeHash), []byte(code))
}
