package enum

import (
	"github.com/go-playground/validator/v10"
)

// Enum is implemented by every string enum in this package.
type Enum interface {
	IsValid() bool
}

// ValidateEnum backs the `enum` validation tag.
func ValidateEnum(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(Enum)
	if !ok {
		return false
	}
	return value.IsValid()
}
