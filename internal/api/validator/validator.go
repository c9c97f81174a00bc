package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ValidationErrors wraps the validator's ValidationErrors
type ValidationErrors []playgroundvalidator.FieldError

// CustomValidator wraps go-playground/validator
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() echo.Validator {
	v := playgroundvalidator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("admin_role", validateAdminRole); err != nil {
		return nil
	}
	if err := v.RegisterValidation("bulk_action", validateBulkAction); err != nil {
		return nil
	}

	return &CustomValidator{validator: v}
}

func validateAdminRole(fl playgroundvalidator.FieldLevel) bool {
	role := fl.Field().String()
	return role == "SUPER_ADMIN" || role == "EDITOR"
}

func validateBulkAction(fl playgroundvalidator.FieldLevel) bool {
	action := fl.Field().String()
	validActions := map[string]bool{
		"activate":   true,
		"deactivate": true,
		"feature":    true,
		"unfeature":  true,
		"delete":     true,
		"export":     true,
	}
	return validActions[action]
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// MoveRequest shifts one record within its ordered collection.
type MoveRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// FlagRequest toggles one boolean column.
type FlagRequest struct {
	Flag  string `json:"flag" validate:"required,oneof=is_active is_featured"`
	Value bool   `json:"value"`
}

// BulkRequest applies one action across a set of selected ids.
type BulkRequest struct {
	Action  string   `json:"action" validate:"required,bulk_action"`
	IDs     []string `json:"ids" validate:"required,min=1,dive,uuid"`
	Confirm bool     `json:"confirm"`
}
