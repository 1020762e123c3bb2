package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxAttributeName bounds generated and configured attribute names
	MaxAttributeName = 100

	attributePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-]*$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// Report fields under the names used in configuration files
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
}

// Struct validates v against its validate tags. Every failing field is
// reported, joined into a single error.
func Struct(v any) error {
	if v == nil {
		return errors.New("cannot validate nil value")
	}
	return formatValidationError(validate.Struct(v))
}

// ValidateAttributeName validates a node or edge attribute name
func ValidateAttributeName(name string) error {
	if name == "" {
		return errors.New("attribute name cannot be empty")
	}
	if len(name) > MaxAttributeName {
		return fmt.Errorf("attribute name '%s' exceeds maximum length of %d characters", name, MaxAttributeName)
	}
	if !attributePattern.MatchString(name) {
		return fmt.Errorf("attribute name '%s' is invalid (only alphanumeric, underscore, dot and dash allowed)", name)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	errs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		errs = append(errs, formatFieldError(e))
	}
	return errors.Join(errs...)
}

func formatFieldError(e validator.FieldError) error {
	field := fieldPath(e.Namespace())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "required_if":
		return fmt.Errorf("%s: field is required when %s", field, strings.Replace(param, " ", " is ", 1))
	case "min", "gte":
		return fmt.Errorf("%s: must be at least %s", field, param)
	case "gt":
		return fmt.Errorf("%s: must be greater than %s", field, param)
	case "max", "lte":
		return fmt.Errorf("%s: must not exceed %s", field, param)
	case "oneof":
		return fmt.Errorf("%s: must be one of [%s], got '%v'", field, param, e.Value())
	case "url":
		return fmt.Errorf("%s: '%v' is not a valid URL", field, e.Value())
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}

// fieldPath drops the root struct name from a validator namespace
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
