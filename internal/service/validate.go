package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/yourname/wellnesstracker/internal"
)

var validate = newValidator()

var energyLevels = map[string]bool{
	"very low":  true,
	"low":       true,
	"moderate":  true,
	"high":      true,
	"very high": true,
}

func newValidator() *validator.Validate {
	v := validator.New()
	// oneof splits on spaces, so multi-word energy levels need their own rule
	_ = v.RegisterValidation("energy", func(fl validator.FieldLevel) bool {
		return energyLevels[fl.Field().String()]
	})
	return v
}

// validateStruct runs the struct tags and wraps failures as internal.ValidationError.
func validateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &internal.ValidationError{Err: verrs}
		}
		return err
	}
	return nil
}
