package account

import (
	"fmt"
	"unicode"

	"storefront/domain/shared"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 64
)

// ValidatePassword requires one digit, one lower case letter, one upper case letter and
// one symbol, without white space.
func ValidatePassword(password string) error {
	if n := len(password); n < minPasswordLength || n > maxPasswordLength {
		return shared.NewValidationError("user", "password",
			fmt.Sprintf("password must be %d to %d characters", minPasswordLength, maxPasswordLength))
	}

	var digit, lower, upper, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return shared.NewValidationError("user", "password", "password must not contain white space")
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		default:
			symbol = true
		}
	}
	if !digit || !lower || !upper || !symbol {
		return shared.NewValidationError("user", "password",
			"password must have 1 uppercase, 1 lowercase, 1 number, 1 non alphanumeric")
	}
	return nil
}

// HashPassword bcrypt hashes password with the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
