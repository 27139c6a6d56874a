package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes with bcrypt's default cost; stored as-is in users.password.
func HashPassword(s string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
}

func ComparePassword(hashed string, normal string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(normal))
}
