package security

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var ErrMalformedPIN = errors.New("PIN must be exactly 4 digits")

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// HashPIN validates the 4-digit format and returns a bcrypt hash.
// The plaintext PIN is never stored.
func HashPIN(pin string) (string, error) {
	if !pinPattern.MatchString(pin) {
		return "", ErrMalformedPIN
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPIN reports whether the candidate PIN matches the stored hash.
func CheckPIN(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
