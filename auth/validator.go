package auth

import (
	"chat-relay/errors"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report wire names (receiverId) rather than Go field names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidatePayload checks an inbound payload against its validate tags. The returned error
// wraps ErrInvalidPayload and names the first offending field.
func ValidatePayload(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	first := validationErrors[0]
	switch first.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", errors.ErrInvalidPayload, first.Field())
	case "uuid":
		return fmt.Errorf("%w: %s must be a uuid", errors.ErrInvalidPayload, first.Field())
	case "oneof":
		return fmt.Errorf("%w: %s must be one of [%s]", errors.ErrInvalidPayload, first.Field(), first.Param())
	case "excludes":
		return fmt.Errorf("%w: %s must not contain %q", errors.ErrInvalidPayload, first.Field(), first.Param())
	case "max":
		return fmt.Errorf("%w: %s is too long", errors.ErrInvalidPayload, first.Field())
	default:
		return fmt.Errorf("%w: %s is invalid", errors.ErrInvalidPayload, first.Field())
	}
}
