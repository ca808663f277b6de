package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidateStruct runs the `validate` tags of v and folds any failure into
// ErrValidation.
func ValidateStruct(v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

// Validate checks the construction rules of a customer record.
func (c Customer) Validate() error {
	if err := ValidateStruct(c); err != nil {
		return err
	}
	if c.HasReferral(c.LoginID) {
		return fmt.Errorf("%w: customer %s cannot refer itself", ErrValidation, c.LoginID)
	}
	if !c.IsActive() && strings.TrimSpace(c.InactiveReason) == "" {
		return fmt.Errorf("%w: inactive customer %s requires a reason", ErrValidation, c.LoginID)
	}
	return nil
}

// Validate checks a pending profile.
func (p PendingProfile) Validate() error {
	return ValidateStruct(p)
}

// Validate checks dashboard settings.
func (s Settings) Validate() error {
	return ValidateStruct(s)
}
