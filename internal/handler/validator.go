package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/emberfield/village/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator with the game's custom tags
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("resource", validateResource)
	_ = v.RegisterValidation("tool", validateTool)
	_ = v.RegisterValidation("skill", validateSkill)
	_ = v.RegisterValidation("nodekind", validateNodeKind)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// without leaking internal struct names
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "resource":
			errs[field] = "Must be wood or stone"
		case "tool":
			errs[field] = "Must be axe or pickaxe"
		case "skill":
			errs[field] = "Must be wood or mining"
		case "nodekind":
			errs[field] = "Must be tree or stone"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s characters", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

func validateResource(fl validator.FieldLevel) bool {
	switch domain.ItemType(fl.Field().String()) {
	case domain.ItemWood, domain.ItemStone:
		return true
	}
	return false
}

func validateTool(fl validator.FieldLevel) bool {
	return domain.ItemType(fl.Field().String()).IsTool()
}

func validateSkill(fl validator.FieldLevel) bool {
	switch domain.SkillKind(fl.Field().String()) {
	case domain.SkillWood, domain.SkillMining:
		return true
	}
	return false
}

func validateNodeKind(fl validator.FieldLevel) bool {
	switch domain.NodeKind(fl.Field().String()) {
	case domain.NodeTree, domain.NodeStone:
		return true
	}
	return false
}
