package models

import "golang.org/x/crypto/bcrypt"

// bcrypt rejects inputs longer than 72 bytes; provisioning clients send
// arbitrary secrets, so longer ones are truncated rather than refused.
const maxPasswordBytes = 72

// HashPassword bcrypt-hashes a write-only password at ingest. The hash is
// all the store ever holds; plaintext never crosses into an entity.
func HashPassword(plain string) (string, error) {
	b := []byte(plain)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	hash, err := bcrypt.GenerateFromPassword(b, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
