package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Hungarian phone numbers: 0036, +36 or 06 prefix followed by digits.
var huPhone = regexp.MustCompile(`^(?:0036|\+36|06)[0-9]{1,10}$`)

var validate *validator.Validate

func init() {
	validate = validator.New()
	registerRules(validate)
}

func registerRules(v *validator.Validate) {
	_ = v.RegisterValidation("huphone", func(fl validator.FieldLevel) bool {
		return IsHungarianPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || clockRe.MatchString(s)
	})
}

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// RegisterGin adds the custom rules to gin's binding validator so that
// `binding:"huphone"` works on request DTOs.
func RegisterGin() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerRules(v)
	}
}

func IsHungarianPhone(s string) bool {
	return huPhone.MatchString(strings.TrimSpace(s))
}

// Validate struct fields
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string, len(verrs))
	for _, err := range verrs {
		errors[err.Field()] = err.Tag()
	}
	return errors
}
