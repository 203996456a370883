package applications

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check validates s and reports the first rejected field.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Reason: reason(fe.Tag())}
}

func reason(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "http_url":
		return "must be an absolute http or https URL"
	default:
		return "failed " + tag + " validation"
	}
}
