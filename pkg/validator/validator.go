package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("lat", func(fl validator.FieldLevel) bool {
		lat := fl.Field().Float()
		return lat >= -90 && lat <= 90
	})
	validate.RegisterValidation("lng", func(fl validator.FieldLevel) bool {
		lng := fl.Field().Float()
		return lng >= -180 && lng <= 180
	})
}

// ValidateStruct validates s against its `validate` tags.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Errors flattens a validation error into a field->reason map suitable for a
// JSON error response.
func Errors(err error) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[strings.ToLower(fe.Field())] = fmt.Sprintf("failed on the %q rule", fe.Tag())
		}
		return out
	}

	out["body"] = err.Error()
	return out
}
