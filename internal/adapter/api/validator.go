package api

import (
	"time"

	"github.com/go-playground/validator/v10"

	"squadup/internal/domain/service"
)

// CustomValidator adapts go-playground/validator to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("matchdate", func(fl validator.FieldLevel) bool {
		_, err := service.ParseDate(fl.Field().String(), time.UTC)
		return err == nil
	})
	_ = v.RegisterValidation("matchtime", func(fl validator.FieldLevel) bool {
		_, err := service.ParseClock(fl.Field().String())
		return err == nil
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
