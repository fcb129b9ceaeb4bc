package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/yigit/courseapi/internal/app/models/dto"
)

var configureValidatorOnce sync.Once

// configureValidator makes validator report fields by their json name and adds the
// notblank rule
func configureValidator() {
	configureValidatorOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("notblank", validators.NotBlank)
			v.RegisterTagNameFunc(func(field reflect.StructField) string {
				name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name == "" {
					return field.Name
				}
				return name
			})
		}
	})
}

// BindJSON binds and validates the request body into obj. On failure it writes a 400
// envelope and returns false; validation failures carry one entry per failing field.
func BindJSON(c *gin.Context, obj interface{}) bool {
	configureValidator()

	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var validationErrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &validationErrs):
		fields := make([]dto.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, dto.FieldError{
				Field:   fe.Field(),
				Message: formatValidationError(fe),
			})
		}
		RespondWithError(c, http.StatusBadRequest, "Validation failed", fields)
	case errors.Is(err, io.EOF):
		RespondWithError(c, http.StatusBadRequest, "Request body is required", nil)
	case errors.As(err, &typeErr):
		RespondWithError(c, http.StatusBadRequest, "Validation failed", []dto.FieldError{{
			Field:   typeErr.Field,
			Message: typeErr.Field + " must be of type " + typeErr.Type.String(),
		}})
	case errors.As(err, &syntaxErr):
		RespondWithError(c, http.StatusBadRequest, "Malformed JSON request body", nil)
	default:
		RespondWithError(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	return false
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "notblank":
		return e.Field() + " cannot be blank"
	case "max":
		if e.Kind() == reflect.Slice {
			return e.Field() + " must contain at most " + e.Param() + " items"
		}
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "email":
		return e.Field() + " must be a valid email address"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
