package utils

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"+905321234567", "532 123 45 67", "+1 (555) 010-9999", "4915123456789"}
	for _, phone := range valid {
		assert.True(t, ValidatePhone(phone), phone)
	}

	invalid := []string{"", "+", "call me", "+0123456", "12345678901234567", "555-CALL"}
	for _, phone := range invalid {
		assert.False(t, ValidatePhone(phone), phone)
	}
}

type signupForm struct {
	Email   string `json:"email" binding:"required,email"`
	Role    string `json:"role" binding:"required,oneof=staff salon_admin"`
	Minutes int    `json:"duration_minutes" binding:"gte=5"`
}

func TestBindingErrorsUseJSONNames(t *testing.T) {
	RegisterJSONFieldNames()

	err := binding.Validator.ValidateStruct(&signupForm{Email: "nope", Minutes: 1})
	require.Error(t, err)

	fields := BindingErrors(err)
	assert.Equal(t, map[string]string{
		"email":            "must be a valid email",
		"role":             "is required",
		"duration_minutes": "must be greater than or equal to 5",
	}, fields)
}

func TestPasswordHash(t *testing.T) {
	PasswordCost = bcrypt.MinCost

	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("secret124", hash))
}
