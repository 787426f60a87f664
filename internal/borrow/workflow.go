// Package borrow runs the wrap, deposit, borrow and repay sequence against a
// lending protocol.
package borrow

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/aaveborrow/internal/aave"
	"github.com/Mohsinsiddi/aaveborrow/internal/config"
	"github.com/Mohsinsiddi/aaveborrow/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// borrowTokenDecimals is the base-unit scale of the borrowed stablecoin.
const borrowTokenDecimals = 18

// Protocol is the set of lending protocol operations the workflow needs.
// *aave.Client implements it.
type Protocol interface {
	WrapETH(ctx context.Context, amount *big.Int) (string, error)
	LendingPool(ctx context.Context) (common.Address, error)
	Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (string, error)
	Deposit(ctx context.Context, pool, asset common.Address, amount *big.Int, onBehalfOf common.Address) (string, error)
	AccountData(ctx context.Context, pool, user common.Address) (*aave.AccountData, error)
	LatestPrice(ctx context.Context) (*aave.Quote, error)
	Borrow(ctx context.Context, pool, asset common.Address, amount *big.Int, onBehalfOf common.Address) (string, error)
	Repay(ctx context.Context, pool, asset common.Address, amount *big.Int, onBehalfOf common.Address) (string, error)
	Wait(ctx context.Context, hash string, confirmations uint64) error
}

// Params configures one run.
type Params struct {
	Account       common.Address
	WETH          common.Address
	DAI           common.Address
	DepositAmount *big.Int
	Confirmations uint64 // defaults to config.Confirmations
}

// Result summarises a completed run.
type Result struct {
	Pool         common.Address
	Quote        *aave.Quote
	BorrowTokens decimal.Decimal
	Borrowed     *big.Int
	Snapshots    map[Step]*aave.AccountData
	TxHashes     map[Step]string
}

// StepError reports the step a run failed at.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("step %q: %v", string(e.Step), e.Err) }

func (e *StepError) Unwrap() error { return e.Err }

type runner struct {
	p   Protocol
	rep Reporter
	par Params
	res *Result
}

// Run executes the workflow strictly in order. The first failing step aborts
// the run and no later step is attempted. rep may be nil.
func Run(ctx context.Context, p Protocol, par Params, rep Reporter) (*Result, error) {
	if rep == nil {
		rep = nopReporter{}
	}
	if par.Confirmations == 0 {
		par.Confirmations = config.Confirmations
	}
	if par.DepositAmount == nil || par.DepositAmount.Sign() <= 0 {
		return nil, &StepError{Step: StepWrap, Err: fmt.Errorf("deposit amount must be positive")}
	}

	r := &runner{p: p, rep: rep, par: par, res: &Result{
		Snapshots: make(map[Step]*aave.AccountData),
		TxHashes:  make(map[Step]string),
	}}

	steps := []struct {
		step Step
		fn   func(context.Context) error
	}{
		{StepWrap, r.wrap},
		{StepLendingPool, r.lendingPool},
		{StepApproveWETH, r.approveWETH},
		{StepDeposit, r.deposit},
		{StepAccountAfterDeposit, r.snapshot(StepAccountAfterDeposit)},
		{StepPrice, r.price},
		{StepBorrow, r.borrow},
		{StepAccountAfterBorrow, r.snapshot(StepAccountAfterBorrow)},
		{StepApproveDAI, r.approveDAI},
		{StepRepay, r.repay},
		{StepAccountAfterRepay, r.snapshot(StepAccountAfterRepay)},
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return r.res, r.fail(s.step, err)
		}
		rep.Report(Event{Step: s.step, Status: StatusStarted})
		if err := s.fn(logger.WithContext(ctx, logger.FromContext(ctx).WithField("step", string(s.step)))); err != nil {
			return r.res, r.fail(s.step, err)
		}
	}
	return r.res, nil
}

func (r *runner) fail(step Step, err error) error {
	r.rep.Report(Event{Step: step, Status: StatusFailed, Err: err})
	return &StepError{Step: step, Err: err}
}

// send broadcasts the transaction produced by fn and waits for it to
// confirm. ev carries the step and amount reported alongside the hash.
func (r *runner) send(ctx context.Context, ev Event, fn func() (string, error)) error {
	hash, err := fn()
	if err != nil {
		return err
	}
	r.res.TxHashes[ev.Step] = hash
	ev.TxHash = hash
	ev.Status = StatusSent
	r.rep.Report(ev)
	if err := r.p.Wait(ctx, hash, r.par.Confirmations); err != nil {
		return err
	}
	ev.Status = StatusDone
	r.rep.Report(ev)
	return nil
}

func (r *runner) wrap(ctx context.Context) error {
	amount := r.par.DepositAmount
	return r.send(ctx, Event{Step: StepWrap, Amount: amount}, func() (string, error) {
		return r.p.WrapETH(ctx, amount)
	})
}

func (r *runner) lendingPool(ctx context.Context) error {
	pool, err := r.p.LendingPool(ctx)
	if err != nil {
		return err
	}
	r.res.Pool = pool
	r.rep.Report(Event{Step: StepLendingPool, Status: StatusDone, Pool: pool})
	return nil
}

func (r *runner) approveWETH(ctx context.Context) error {
	amount := r.par.DepositAmount
	return r.send(ctx, Event{Step: StepApproveWETH, Amount: amount}, func() (string, error) {
		return r.p.Approve(ctx, r.par.WETH, r.res.Pool, amount)
	})
}

func (r *runner) deposit(ctx context.Context) error {
	amount := r.par.DepositAmount
	return r.send(ctx, Event{Step: StepDeposit, Amount: amount}, func() (string, error) {
		return r.p.Deposit(ctx, r.res.Pool, r.par.WETH, amount, r.par.Account)
	})
}

func (r *runner) snapshot(step Step) func(context.Context) error {
	return func(ctx context.Context) error {
		data, err := r.p.AccountData(ctx, r.res.Pool, r.par.Account)
		if err != nil {
			return err
		}
		r.res.Snapshots[step] = data
		r.rep.Report(Event{Step: step, Status: StatusDone, Account: data})
		return nil
	}
}

func (r *runner) price(ctx context.Context) error {
	q, err := r.p.LatestPrice(ctx)
	if err != nil {
		return err
	}
	r.res.Quote = q
	r.rep.Report(Event{Step: StepPrice, Status: StatusDone, Quote: q})
	return nil
}

func (r *runner) borrow(ctx context.Context) error {
	capacity := r.res.Snapshots[StepAccountAfterDeposit].AvailableBorrows()
	tokens, err := aave.BorrowAmount(capacity, r.res.Quote.Price(), borrowTokenDecimals)
	if err != nil {
		return err
	}
	amount := aave.ToBaseUnits(tokens, borrowTokenDecimals)
	r.res.BorrowTokens = tokens
	r.res.Borrowed = amount

	logger.FromContext(ctx).WithField("amount", tokens.String()).Info("borrowing DAI")
	return r.send(ctx, Event{Step: StepBorrow, Amount: amount, Tokens: tokens}, func() (string, error) {
		return r.p.Borrow(ctx, r.res.Pool, r.par.DAI, amount, r.par.Account)
	})
}

func (r *runner) approveDAI(ctx context.Context) error {
	amount := r.res.Borrowed
	return r.send(ctx, Event{Step: StepApproveDAI, Amount: amount}, func() (string, error) {
		return r.p.Approve(ctx, r.par.DAI, r.res.Pool, amount)
	})
}

func (r *runner) repay(ctx context.Context) error {
	amount := r.res.Borrowed
	return r.send(ctx, Event{Step: StepRepay, Amount: amount}, func() (string, error) {
		return r.p.Repay(ctx, r.res.Pool, r.par.DAI, amount, r.par.Account)
	})
}
