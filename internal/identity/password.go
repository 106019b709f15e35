package identity

import (
	"errors"
	"fmt"

	"github.com/Kobrals/feeriequest-3d/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor. Tests lower it.
var HashCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of pass.
func HashPassword(pass string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pass), HashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password too long", domain.ErrValidation)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword compares pass against a stored hash.
func CheckPassword(hash, pass string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass)); err != nil {
		return fmt.Errorf("%w: wrong password", domain.ErrInvalidCredential)
	}
	return nil
}
