package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// bindingError reduces a Gin binding failure to the first violated rule's
// human-readable message. Only the first violation is reported.
func bindingError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return violationMessage(verrs[0])
	}
	return err.Error()
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "email must be a valid email address"
	case "e164":
		return "phone must be a valid mobile number"
	case "credit_card":
		return "card number failed the validity check"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "eqfield":
		return "password confirmation does not match"
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
