package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// Normalizer is implemented by request types that clean their fields (for
// example trimming whitespace) before validation.
type Normalizer interface {
	Normalize()
}

// BindAndValidate binds the JSON body into out and runs validation.
// On failure it writes a 400 {"error": ...} response and returns the error so
// the handler can return early.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return err
	}
	if n, ok := out.(Normalizer); ok {
		n.Normalize()
	}
	if err := v.Struct(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": Message(err)})
		return err
	}
	return nil
}

// Message turns a validation failure into one shopper-readable sentence,
// naming the first offending field.
func Message(err error) string {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err.Error()
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "merchandise_or_handle":
		return "merchandiseId or handle is required"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
