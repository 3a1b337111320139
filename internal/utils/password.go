package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes the operator password for ADMIN_PASSWORD_HASH.
// The hash-password command exposes it; cost is the bcrypt work factor.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored operator hash.
// A malformed hash never matches.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
