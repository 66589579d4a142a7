// ABOUTME: Client-side input validation for auth, course, and lesson forms
// ABOUTME: Wraps go-playground/validator with English messages keyed by JSON field names

package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	notBlankTag = "notblank"
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON tag names so messages match the API's field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " cannot be blank"
		})
}

func notBlank(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// FieldError is one failed rule for one field
type FieldError struct {
	Field   string
	Message string
}

// Errors collects every field that failed validation
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// For returns the message for field, or "" when it passed
func (e Errors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Struct validates v's `validate` tags. It returns nil or Errors.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	return translate(verrs, "")
}

// Field returns a validator for a single form input named name, suitable
// for huh's Validate hooks and flag checks
func Field(name, tag string) func(string) error {
	return func(value string) error {
		err := validate.Var(value, tag)
		if err == nil {
			return nil
		}
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		return translate(verrs, name)
	}
}

// translate renders validator errors in English. Var errors carry no
// field name, so name is substituted when given.
func translate(verrs validator.ValidationErrors, name string) Errors {
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		msg := fe.Translate(translator)
		if field == "" && name != "" {
			field = name
			msg = name + " " + strings.TrimSpace(msg)
		}
		out = append(out, FieldError{Field: field, Message: msg})
	}
	return out
}

// Common single-field rules used by the forms and CLI flags
var (
	Email    = Field("email", "required,email")
	Password = Field("password", "required,min=6")
	Title    = Field("title", "required,notblank,max=200")
)
