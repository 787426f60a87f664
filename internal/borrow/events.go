package borrow

import (
	"math/big"

	"github.com/Mohsinsiddi/aaveborrow/internal/aave"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Step names one stage of the workflow.
type Step string

const (
	StepWrap                Step = "wrap"
	StepLendingPool         Step = "lending pool"
	StepApproveWETH         Step = "approve weth"
	StepDeposit             Step = "deposit"
	StepAccountAfterDeposit Step = "account after deposit"
	StepPrice               Step = "price"
	StepBorrow              Step = "borrow"
	StepAccountAfterBorrow  Step = "account after borrow"
	StepApproveDAI          Step = "approve dai"
	StepRepay               Step = "repay"
	StepAccountAfterRepay   Step = "account after repay"
)

// Steps lists every step in execution order.
var Steps = []Step{
	StepWrap,
	StepLendingPool,
	StepApproveWETH,
	StepDeposit,
	StepAccountAfterDeposit,
	StepPrice,
	StepBorrow,
	StepAccountAfterBorrow,
	StepApproveDAI,
	StepRepay,
	StepAccountAfterRepay,
}

// Status is where a step is in its lifecycle.
type Status int

const (
	StatusStarted Status = iota
	StatusSent           // transaction broadcast, waiting for confirmations
	StatusDone
	StatusFailed
)

// Event is emitted as the workflow progresses. Only the fields relevant to
// the step are set.
type Event struct {
	Step    Step
	Status  Status
	TxHash  string
	Pool    common.Address
	Account *aave.AccountData
	Quote   *aave.Quote
	Amount  *big.Int
	Tokens  decimal.Decimal
	Err     error
}

// Reporter receives workflow events.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) { f(e) }

type nopReporter struct{}

func (nopReporter) Report(Event) {}
