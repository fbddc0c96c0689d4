package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/quizhub/quiz-web/internal/errors"
)

// Validator validates form payloads before any gateway call is made.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new validator instance with the custom tags registered.
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{structValidator: structValidator}
}

// Validate runs struct-tag validation and converts failures to the shared
// ValidationErrors type so handlers can render them field by field.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("user_role", validateUserRole)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Easy", "Medium", "Hard":
		return true
	}
	return false
}

// validateUserRole accepts the bare role names the register form submits.
func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "STUDENT", "TEACHER":
		return true
	}
	return false
}
