package config

import (
	"math/big"
	"time"
)

// Workflow parameters.
const (
	// BorrowSafetyMargin is the share of the available borrowing capacity
	// that is actually borrowed.
	BorrowSafetyMargin = "0.95"

	// Confirmations is the block depth every transaction waits for.
	Confirmations = uint64(1)

	// DefaultDepositAmount is the ETH wrapped and deposited as collateral.
	DefaultDepositAmount = "0.02"

	// InterestRateModeStable selects the stable rate for borrow and repay.
	InterestRateModeStable = int64(1)

	// ReferralCode is passed to deposit and borrow. Zero means none.
	ReferralCode = uint16(0)
)

// InterestRateMode returns InterestRateModeStable as a uint256 argument.
func InterestRateMode() *big.Int { return big.NewInt(InterestRateModeStable) }

// Timeout constants used across cmd.
const (
	RPCSelectTimeout = 10 * time.Second // benchmark / RPC selection
)
