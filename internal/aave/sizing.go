package aave

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/aaveborrow/internal/config"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidPrice is returned when the oracle answer is zero or negative.
	ErrInvalidPrice = errors.New("invalid oracle price")
	// ErrNoBorrowCapacity is returned when there is nothing left to borrow.
	ErrNoBorrowCapacity = errors.New("no borrowing capacity")
)

var safetyMargin = decimal.RequireFromString(config.BorrowSafetyMargin)

// BorrowAmount sizes a borrow: capacity × BorrowSafetyMargin ÷ price, where
// capacity is in ETH and price is ETH per token. The result is in tokens,
// truncated to tokenDecimals places.
func BorrowAmount(capacity, price decimal.Decimal, tokenDecimals int32) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	if !capacity.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: available %s ETH", ErrNoBorrowCapacity, capacity)
	}
	amount, _ := capacity.Mul(safetyMargin).QuoRem(price, tokenDecimals)
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s ETH buys less than one base unit", ErrNoBorrowCapacity, capacity)
	}
	return amount, nil
}

// ToBaseUnits scales a token amount to its integer base units, truncating any
// remaining fraction.
func ToBaseUnits(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).Truncate(0).BigInt()
}

// FromBaseUnits is the inverse of ToBaseUnits.
func FromBaseUnits(v *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(v, -decimals)
}
