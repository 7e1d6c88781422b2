// Package validate runs struct-tag validation and turns failures into a
// field → message map suitable for a 422 response.
//
// Rules are the go-playground/validator tags (required, email, oneof=a b,
// gte=0, dive, ...). Field names in the map are taken from the json tag:
//
//	type Input struct {
//	    Email string `json:"email" validate:"required,email"`
//	    Role  string `json:"role"  validate:"required,oneof=farmer buyer"`
//	}
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("notblank", notBlank)
	})
	return v
}

// Struct validates s and returns a map of json field path → message.
// An empty map means the value is valid.
func Struct(s interface{}) map[string]string {
	errs := make(map[string]string)

	err := instance().Struct(s)
	if err == nil {
		return errs
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range fieldErrs {
		name := fieldPath(fe)
		if _, seen := errs[name]; seen {
			continue
		}
		errs[name] = message(fe, name)
	}
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func message(fe validator.FieldError, field string) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "min":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s items.", field, fe.Param())
	case "max":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("The %s must not be greater than %s.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must not exceed %s characters.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be greater than or equal to %s.", field, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s must be less than or equal to %s.", field, fe.Param())
	}
	return fmt.Sprintf("The %s is invalid.", field)
}

// fieldPath drops the top-level struct name: "Order.items[0].quantity" → "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "-" {
		return ""
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	if name == "" {
		return strings.ToLower(f.Name[:1]) + f.Name[1:]
	}
	return name
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func notBlank(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(fl.Field().String()) != ""
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
