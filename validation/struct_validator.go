package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/modeloptions/errors"
)

// engine reports fields by their json name, or the snake_cased Go name when
// the field has none.
var engine = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return toSnakeCase(f.Name)
		}
		return name
	})
	return v
})

// Validate checks s against its `validate` tags. Every failing field is
// listed in the returned INVALID_INPUT error.
func Validate(s any) error {
	return report(engine().Struct(s), "")
}

// Var checks a single value against tag and reports failures under field.
func Var(field string, value any, tag string) error {
	return report(engine().Var(value, tag), field)
}

// report converts a validator error. field overrides the reported name,
// which for Var is empty.
func report(err error, field string) error {
	if err == nil {
		return nil
	}
	var failed validator.ValidationErrors
	if !stderrors.As(err, &failed) || len(failed) == 0 {
		return errors.Validation("validation failed").WithCause(err)
	}

	fields := make([]FieldError, len(failed))
	for i, fe := range failed {
		name := fe.Field()
		if field != "" {
			name = field
		}
		fields[i] = FieldError{Field: name, Message: describe(fe)}
	}
	return fieldErrors(fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
