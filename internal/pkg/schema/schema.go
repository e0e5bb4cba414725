// Package schema runs struct-tag validation (go-playground/validator) and
// reports failures as errs.SchemaIsInvalidError.
package schema

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"orderentry/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		instance = v
	})
	return instance
}

// Validate checks v against its `validate` tags. Field names in the returned
// violations come from the `json` tag when present.
func Validate(entity string, v any) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.NewValueIsInvalidErrorWithCause(entity, err)
	}

	violations := make([]errs.FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, errs.FieldViolation{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return errs.NewSchemaIsInvalidError(entity, violations)
}
