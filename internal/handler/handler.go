package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindingErrors turns a ShouldBindJSON failure into the structured
// field-level error list: [{"field": ..., "message": ...}, ...].
// Non-validator failures (malformed JSON) produce a single generic entry.
func bindingErrors(err error) []gin.H {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []gin.H{{"message": "Invalid request body"}}
	}

	out := make([]gin.H, len(verrs))
	for i, fe := range verrs {
		out[i] = gin.H{
			"field":   fe.Field(),
			"message": validationMessage(fe),
		}
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "uuid":
		return "Must be a valid ID"
	case "min":
		return "Value is too short or too small"
	case "dive":
		return "Invalid list entry"
	default:
		return "Invalid value"
	}
}
