package aave

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// ethDecimals is the base-unit scale of ETH amounts and of the health factor.
const ethDecimals = 18

// maxUint256 is the health factor the pool reports for an account without debt.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// AccountData is the result of LendingPool.getUserAccountData. ETH amounts are
// in wei; LTV and liquidation threshold are in basis points.
type AccountData struct {
	TotalCollateralETH          *big.Int
	TotalDebtETH                *big.Int
	AvailableBorrowsETH         *big.Int
	CurrentLiquidationThreshold *big.Int
	LTV                         *big.Int
	HealthFactor                *big.Int
}

// Collateral returns the total collateral in ETH.
func (a *AccountData) Collateral() decimal.Decimal { return fromWei(a.TotalCollateralETH) }

// Debt returns the total debt in ETH.
func (a *AccountData) Debt() decimal.Decimal { return fromWei(a.TotalDebtETH) }

// AvailableBorrows returns the remaining borrowing capacity in ETH.
func (a *AccountData) AvailableBorrows() decimal.Decimal { return fromWei(a.AvailableBorrowsETH) }

// HealthFactorString renders the health factor, or "∞" for an account without
// debt (the pool reports max uint256).
func (a *AccountData) HealthFactorString() string {
	if a.HealthFactor == nil {
		return "-"
	}
	if a.HealthFactor.Cmp(maxUint256) == 0 {
		return "∞"
	}
	return fromWei(a.HealthFactor).StringFixed(4)
}

// Fields returns the account data as label/value pairs for display.
func (a *AccountData) Fields() [][2]string {
	return [][2]string{
		{"Collateral", a.Collateral().String() + " ETH"},
		{"Debt", a.Debt().String() + " ETH"},
		{"Available borrows", a.AvailableBorrows().String() + " ETH"},
		{"Liquidation threshold", bps(a.CurrentLiquidationThreshold)},
		{"LTV", bps(a.LTV)},
		{"Health factor", a.HealthFactorString()},
	}
}

// Quote is one oracle answer. It is never cached.
type Quote struct {
	RoundID   *big.Int
	Answer    *big.Int
	Decimals  uint8
	UpdatedAt time.Time
}

// Price returns the answer scaled by the feed's decimals.
func (q *Quote) Price() decimal.Decimal {
	if q.Answer == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(q.Answer, -int32(q.Decimals))
}

func fromWei(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -ethDecimals)
}

func bps(v *big.Int) string {
	if v == nil {
		return "-"
	}
	return decimal.NewFromBigInt(v, -2).StringFixed(2) + "%"
}
