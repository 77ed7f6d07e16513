package validation

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct checks the `validate` tags of v.
func Struct(v any) error {
	return validate.Struct(v)
}
