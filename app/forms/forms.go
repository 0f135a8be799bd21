// Package forms binds and validates user-submitted HTML forms. A form keeps
// the submitted values so an invalid submission can be rendered again
// without losing what the user typed.
package forms

import (
	"errors"
	"reflect"
	"strings"

	"yatube/app/models"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is returned when a submission fails validation. Field errors
// are available on the form itself.
var ErrInvalid = errors.New("form is invalid")

// NonFieldErrors is the Errors key for problems not tied to a single field.
const NonFieldErrors = "__all__"

const invalidChoice = "Select a valid choice. That choice is not one of the available choices."

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return models.ValidUsername(fl.Field().String())
	})
	return v
}

// Errors maps a field name to its first error message.
type Errors map[string]string

// Get returns the error for field, or "".
func (e Errors) Get(field string) string {
	return e[field]
}

// Has reports whether field has an error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// collect turns validator output into field messages. Any other error is
// returned unchanged.
func collect(err error, into Errors) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if into.Has(fe.Field()) {
			continue
		}
		into[fe.Field()] = message(fe)
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return "Ensure this value has at most " + fe.Param() + " characters."
	case "min":
		return "Ensure this value has at least " + fe.Param() + " characters."
	case "numeric":
		return invalidChoice
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "eqfield":
		return "The two password fields didn't match."
	default:
		return "Enter a valid value."
	}
}
