// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует кастомные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("entity_key", isEntityKey); err != nil {
		return err
	}
	if err := v.RegisterValidation("unit_type", isUnitType); err != nil {
		return err
	}

	return nil
}

var entityKeyRegex = regexp.MustCompile(`^(RO|RU|ST|AS)-\d+$`)

func isEntityKey(fl validator.FieldLevel) bool {
	return entityKeyRegex.MatchString(fl.Field().String())
}

func isUnitType(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "machine" || s == "hashboard"
}
