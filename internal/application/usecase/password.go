package usecase

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/invoicing-api/internal/domain"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 8

// CheckPassword aplica la política: mínimo 8 caracteres, mayúscula, minúscula, número y símbolo.
// field es el nombre del campo en el ValidationError.
func CheckPassword(field, password string) error {
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	var msg string
	switch {
	case len([]rune(password)) < MinPasswordLength:
		msg = "debe tener al menos 8 caracteres"
	case !upper || !lower:
		msg = "debe combinar mayúsculas y minúsculas"
	case !digit:
		msg = "debe incluir al menos un número"
	case !symbol:
		msg = "debe incluir al menos un símbolo"
	default:
		return nil
	}
	return domain.NewValidationError().Add(field, msg)
}

// HashPassword hashea con bcrypt (coste por defecto).
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// PasswordMatches compara password con el hash guardado.
func PasswordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
