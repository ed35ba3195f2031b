package Controllers

import (
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)
}

// FieldError is one entry of the field-level detail returned on 400s.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateStruct runs the request DTO through the validator and translates
// failures into field-level errors.
func ValidateStruct(s interface{}) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	fields := make([]FieldError, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, FieldError{
			Field:   fieldErr.Field(),
			Message: fieldErr.Translate(translator),
		})
	}
	return fields
}

// ValidationFailed writes the standard 400 response for invalid input.
func ValidationFailed(ctx *fiber.Ctx, fields []FieldError) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "Validation failed",
		"message": "One or more fields are invalid",
		"fields":  fields,
	})
}
