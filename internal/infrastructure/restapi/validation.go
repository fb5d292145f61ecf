package restapi

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"aura_gateway/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

var (
	evmAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	decimalPattern    = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// newValidator returns a validator reporting json field names. isNetwork backs the
// "network" tag.
func newValidator(isNetwork func(string) bool) *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("evmaddress", func(fl validator.FieldLevel) bool {
		return evmAddressPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		return decimalPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("network", func(fl validator.FieldLevel) bool {
		return isNetwork(fl.Field().String())
	})
	return v
}

// toValidationError converts validator errors into field details.
func toValidationError(err error) *entity.ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &entity.ValidationError{Fields: []entity.FieldError{{Field: "body", Message: err.Error()}}}
	}
	out := &entity.ValidationError{Fields: make([]entity.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, entity.FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_unless", "required_without":
		return "is required"
	case "evmaddress":
		return "must be a 0x-prefixed 40 hex character address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "numeric":
		return "must be a decimal number"
	case "decimal":
		return "must be a non-negative decimal number such as 1.5"
	case "url":
		return "must be a valid URL"
	case "network":
		return "unsupported network"
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
