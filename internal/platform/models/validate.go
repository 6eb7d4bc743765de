package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks v against canonical schema.
// It returns *platform.ValidationError listing all invalid fields.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("can't validate: %w", err)
	}

	fields := lo.Map(fieldErrs, func(fe validator.FieldError, _ int) string {
		return fe.Namespace()
	})

	messages := lo.Map(fieldErrs, func(fe validator.FieldError, _ int) string {
		if fe.Param() != "" {
			return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag())
	})

	return &platform.ValidationError{
		Fields:  fields,
		Message: strings.Join(messages, "; "),
	}
}
