// Package validation provides struct validation with
// go-playground/validator integration for externally supplied data such as
// graph snapshots.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance with custom validations.
var Validate *validator.Validate

var (
	nodeIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	kindIDPattern   = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
	portNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

func init() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("node_id", func(fl validator.FieldLevel) bool {
		return nodeIDPattern.MatchString(fl.Field().String())
	})
	_ = Validate.RegisterValidation("kind_id", func(fl validator.FieldLevel) bool {
		return kindIDPattern.MatchString(fl.Field().String())
	})
	_ = Validate.RegisterValidation("port_name", func(fl validator.FieldLevel) bool {
		return portNamePattern.MatchString(fl.Field().String())
	})

	// Report JSON field names instead of Go field names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// Error represents a single field validation failure.
type Error struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Message string      `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s (got: %v)", e.Field, e.Message, e.Value)
}

// Errors aggregates field failures.
type Errors []Error

func (e Errors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Struct validates a struct with the shared validator instance.
func Struct(s interface{}) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var out Errors
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			out = append(out, Error{
				Field:   fe.Field(),
				Value:   fe.Value(),
				Message: message(fe),
			})
		}
		return out
	}
	return err
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("minimum value/length is %s", fe.Param())
	case "max":
		return fmt.Sprintf("maximum value/length is %s", fe.Param())
	case "node_id":
		return "must be a valid node identifier (alphanumeric, underscore, hyphen)"
	case "kind_id":
		return "must be a valid operator kind identifier"
	case "port_name":
		return "must be a valid port name"
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}
