package controller

import (
	"github.com/go-playground/validator/v10"
)

// Error Message for Validation Errors
type ErrMsg struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func getErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "oneof":
		return "should be one of " + fe.Param()
	case "min":
		return "should have min value of " + fe.Param()
	case "e164":
		return "should meet e164 format"
	}

	return "Unknown error"
}
