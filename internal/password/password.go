// Package password wraps the one-way credential hashing used for user
// secrets. Plaintext passwords are never stored, compared directly, or
// logged anywhere in the service.
package password

import "golang.org/x/crypto/bcrypt"

// cost trades hashing speed for brute-force resistance. bcrypt's default is
// deliberately slow enough for an interactive login path.
const cost = bcrypt.DefaultCost

// Hash returns the bcrypt digest of a plaintext secret.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Matches reports whether the plaintext secret matches the stored digest.
func Matches(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
