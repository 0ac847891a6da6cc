package estimate

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrInvalidSettings = errors.New("invalid budget settings")

// NewValidator returns a validator that understands decimal fields, so tags
// like gte=0 work on money and percentages.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}

		f, _ := d.Float64()

		return f
	}, decimal.Decimal{})

	return v
}

var settingsValidator = NewValidator()

// Validate rejects negative percentages and unknown markup models.
func (s Settings) Validate() error {
	if err := settingsValidator.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	return nil
}
