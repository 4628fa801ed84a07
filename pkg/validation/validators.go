package validation

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// ISO 4217 alpha codes: exactly three upper-case letters
var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("future_time", FutureTime)
	_ = v.RegisterValidation("currency_code", CurrencyCode)
}

// FutureTime validates that a time.Time field lies in the future.
// Zero values pass; use required to reject them.
func FutureTime(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	if t.IsZero() {
		return true
	}
	return t.After(time.Now())
}

// CurrencyCode validates an ISO 4217 style currency code (e.g. USD, EUR, INR)
func CurrencyCode(fl validator.FieldLevel) bool {
	return currencyRegex.MatchString(fl.Field().String())
}
