package analyzer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidSelection is returned for selections that cannot be analyzed
var ErrInvalidSelection = errors.New("invalid selection")

// selectionValidate checks struct tags on selections and props.
// Field names are reported by their json tag.
var selectionValidate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateSelection checks a single selection at the service boundary
func ValidateSelection(s models.Selection) error {
	if err := selectionValidate.Struct(s); err != nil {
		return fmt.Errorf("%w %q: %s", ErrInvalidSelection, s.ID, describe(err))
	}
	return nil
}

// ValidateSlip checks every selection in a slip, reporting the first failure
func ValidateSlip(selections []models.Selection) error {
	for i, s := range selections {
		if err := ValidateSelection(s); err != nil {
			return fmt.Errorf("selection %d: %w", i+1, err)
		}
	}
	return nil
}

// ValidateProp checks a prop before it is stored or turned into a selection
func ValidateProp(p models.Prop) error {
	if err := selectionValidate.Struct(p); err != nil {
		return fmt.Errorf("%w: prop %q: %s", ErrInvalidSelection, p.ID, describe(err))
	}
	return nil
}

// describe flattens validator field errors into one line
func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
