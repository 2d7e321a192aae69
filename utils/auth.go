// utils/auth.go
package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is lowered in tests; production keeps bcrypt's slow default.
var PasswordCost = 14

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
