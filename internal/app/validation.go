package app

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/quoteboard/internal/domain"
)

// DraftValidator checks quote drafts before they reach the store.
type DraftValidator struct {
	validate *validator.Validate
}

// NewDraftValidator creates a validator with the "notblank" rule registered.
func NewDraftValidator() *DraftValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &DraftValidator{validate: v}
}

// Validate returns a domain.ValidationError naming the first blank field.
func (v *DraftValidator) Validate(draft domain.QuoteDraft) error {
	err := v.validate.Struct(draft)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return domain.NewValidationError(fieldErrs[0].Field(), "must not be blank")
	}

	return domain.NewValidationError("", err.Error())
}
