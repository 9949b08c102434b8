package dto

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// moneyPlaces matches accounting.MoneyPlaces.
const moneyPlaces = 4

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the decimal rules registered.
//
//	dgt0:  decimal strictly greater than zero
//	dgte0: decimal greater than or equal to zero
//	money: decimal with at most four fractional digits
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("dgt0", decimalCompare(func(d decimal.Decimal) bool { return d.IsPositive() }))
		_ = v.RegisterValidation("dgte0", decimalCompare(func(d decimal.Decimal) bool { return !d.IsNegative() }))
		_ = v.RegisterValidation("money", decimalCompare(func(d decimal.Decimal) bool { return d.Equal(d.Round(moneyPlaces)) }))
		validate = v
	})
	return validate
}

func decimalCompare(ok func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return ok(d)
	}
}

// Validate runs struct validation and wraps failures in apperrors.ErrValidation.
func Validate(req any) error {
	if err := Validator().Struct(req); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}
