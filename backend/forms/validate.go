package forms

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate holds the custom tags shared by both forms. A Validate is safe
// for concurrent use and caches struct metadata, so there is one per process.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name, which is also the form field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "education", func(fl validator.FieldLevel) bool {
		return hasOption(EducationOptions, fl.Field().String())
	})
	mustRegister(v, "income", func(fl validator.FieldLevel) bool {
		return hasOption(IncomeOptions, fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// fallbackMessage is used for a failed rule that has no message of its own.
const fallbackMessage = "格式不正确"

// check validates form against its struct tags and translates the failures
// into FieldErrors using messages, keyed by "field.tag".
func check(form interface{}, messages map[string]string) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	errs := FieldErrors{}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fallbackMessage
		}
		errs.add(fe.Field(), msg)
	}
	return errs.err()
}
