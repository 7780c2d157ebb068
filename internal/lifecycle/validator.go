package lifecycle

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// newValidator returns a validator that reports JSON field names and
// compares decimal values numerically.
func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("notblank", validators.NotBlank)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// nullable decimals are checked by hand: validator treats a present zero
// as empty under omitempty.
func checkNonNegative(errs *domain.ValidationErrors, field string, v decimal.NullDecimal) {
	if v.Valid && v.Decimal.IsNegative() {
		errs.Add(field, "must be greater than or equal to 0")
	}
}

func checkPositive(errs *domain.ValidationErrors, field string, v decimal.NullDecimal) {
	if v.Valid && !v.Decimal.IsPositive() {
		errs.Add(field, "must be greater than 0")
	}
}

// structErrors runs the tag rules on s and converts failures
func structErrors(v *validator.Validate, s interface{}) (domain.ValidationErrors, error) {
	err := v.Struct(s)
	if err == nil {
		return nil, nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("failed to validate: %w", err)
	}
	out := make(domain.ValidationErrors, 0, len(ve))
	for _, fe := range ve {
		out = append(out, domain.ValidationError{Field: fe.Field(), Message: message(fe)})
	}
	return out, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be empty"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return "failed rule " + fe.Tag()
	}
}
