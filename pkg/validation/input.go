package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/getmockd/castlepact/pkg/stateful"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// structValidator returns the shared validator. Field names in its errors are
// taken from json tags so they match what clients send.
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", notBlank)
	})
	return validate
}

// notBlank rejects strings that are empty once surrounding whitespace is
// removed. The same rule applies to patch fields in ValidateRulerPatch.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateCastleInput checks a castle create request before it reaches the
// store.
func ValidateCastleInput(in stateful.CastleInput) error {
	return checkStruct(in)
}

// ValidateRulerInput checks a ruler create request. reignEnd, when present,
// must not precede reignStart.
func ValidateRulerInput(in stateful.RulerInput) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	if in.ReignEnd != nil && *in.ReignEnd < *in.ReignStart {
		return reignOrderError()
	}
	return nil
}

// ValidateRulerPatch checks a ruler update. The reign order is only compared
// when the patch carries both reignStart and reignEnd.
func ValidateRulerPatch(p stateful.RulerPatch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &stateful.ValidationError{Field: "name", Message: "must not be empty"}
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return &stateful.ValidationError{Field: "title", Message: "must not be empty"}
	}
	if p.House != nil && strings.TrimSpace(*p.House) == "" {
		return &stateful.ValidationError{Field: "house", Message: "must not be empty"}
	}
	if p.ReignStart != nil && p.ReignEnd != nil && *p.ReignEnd < *p.ReignStart {
		return reignOrderError()
	}
	return nil
}

func reignOrderError() error {
	return &stateful.ValidationError{Field: "reignEnd", Message: "must not be before reignStart"}
}

// checkStruct runs the tag rules on v and reports the first failing field.
func checkStruct(v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &stateful.ValidationError{Message: err.Error()}
	}

	fe := verrs[0]
	return &stateful.ValidationError{Field: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be empty"
	case "gte", "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte", "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
