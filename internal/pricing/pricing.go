// Package pricing computes effective unit prices for catalog products.
// All arithmetic happens on decimals and results carry exactly two
// fractional digits, rounded half up.
package pricing

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/lojaonline/backend/pkg/errors"
	"github.com/lojaonline/backend/pkg/enums"
)

var oneHundred = decimal.NewFromInt(100)

// Quote is the priced view of a single product line.
type Quote struct {
	BasePrice decimal.Decimal
	UnitPrice decimal.Decimal
}

// FinalUnitPrice applies the product's discount, if any, to its base price.
// A FIXED_AMOUNT discount subtracts the value outright; a PERCENTAGE
// discount subtracts base*value/100. Results never go below zero.
func FinalUnitPrice(base decimal.Decimal, discountType *enums.DiscountType, discountValue *decimal.Decimal) (decimal.Decimal, error) {
	if base.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "base price cannot be negative")
	}
	if discountType == nil || discountValue == nil {
		return base.Round(2), nil
	}
	if !discountType.IsValid() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "unknown discount type")
	}
	if discountValue.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "discount value cannot be negative")
	}

	var discounted decimal.Decimal
	switch *discountType {
	case enums.DiscountFixedAmount:
		discounted = base.Sub(*discountValue)
	case enums.DiscountPercentage:
		discounted = base.Sub(base.Mul(*discountValue).Div(oneHundred))
	}

	if discounted.IsNegative() {
		discounted = decimal.Zero
	}
	return discounted.Round(2), nil
}

// LineSubtotal is the line contribution of quantity units at unit price.
func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
