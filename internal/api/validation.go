package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field" example:"amount"`
	Tag     string `json:"tag" example:"gt"`
	Message string `json:"message" example:"amount must be greater than 0"`
}

type ValidationErrorResponse struct {
	Error   string       `json:"error" example:"validation failed"`
	Details []FieldError `json:"details"`
}

// FieldErrors flattens binding errors from gin's validator. It returns nil
// when err is not a validation failure (malformed JSON, wrong types).
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " must be greater than or equal to " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// RespondBindError answers a failed ShouldBind* with 400.
func RespondBindError(c *gin.Context, err error) {
	if details := FieldErrors(err); details != nil {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "validation failed", Details: details})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
}
