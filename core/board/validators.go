package board

import (
	"github.com/go-playground/validator/v10"

	"github.com/schoolmate/backend/core"
)

var (
	categoryTag  = "category"
	categoryText = "unknown board category"
)

func init() {
	// register validators
	_ = core.Validate.RegisterValidation(categoryTag, categoryValidation)
	core.RegisterCustomTranslation(categoryTag, categoryText)
}

func categoryValidation(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	for _, c := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
