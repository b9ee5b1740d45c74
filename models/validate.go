package models

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d := field.Interface().(decimal.Decimal)
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d := field.Interface().(Date)
		if d.IsZero() {
			return nil
		}
		return d.Time
	}, Date{})
	// Amounts may legitimately be zero, which plain "required" rejects.
	_ = v.RegisterValidation("required_decimal", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.Float64 && fl.Field().Float() >= 0
	})
	// Optional pointers are dereferenced before these run, so a supplied but
	// blank string fails even though the pointer itself is set.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return slices.Contains(Currencies, fl.Field().String())
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("invoice_type", func(fl validator.FieldLevel) bool {
		return InvoiceType(fl.Field().String()).Valid()
	})
	return v
}

func enumList[T ~string](values []T) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return strings.Join(out, ", ")
}

func newValidationError(msg string, err error) *ValidationError {
	ve := &ValidationError{Message: msg, Fields: map[string]string{}}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			ve.Fields[fe.Field()] = describe(fe)
		}
	} else if err != nil {
		ve.Fields["_"] = err.Error()
	}
	return ve
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "currency":
		return "must be one of: " + enumList(Currencies)
	case "status":
		return "must be one of: " + enumList(Statuses)
	case "invoice_type":
		return "must be one of: " + enumList(InvoiceTypes)
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "required_decimal":
		return "is required and must be non-negative"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// NormalizeCurrency upper-cases a recognised ISO 4217 code and leaves
// anything else untouched for the enum check to reject.
func NormalizeCurrency(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return code
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code
	}
	return unit.String()
}

func sortedFields(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
