package cmd

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/Mohsinsiddi/aaveborrow/internal/aave"
	"github.com/Mohsinsiddi/aaveborrow/internal/borrow"
	"github.com/Mohsinsiddi/aaveborrow/internal/config"
	"github.com/Mohsinsiddi/aaveborrow/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// runBorrow is the root command: the full wrap, deposit, borrow and repay run.
func runBorrow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	amount, err := parseETH(amountFlag)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, true)
	if err != nil {
		return err
	}
	client := s.aave()

	par := borrow.Params{
		Account:       s.signer.Address(),
		WETH:          client.WETH(),
		DAI:           client.DAI(),
		DepositAmount: amount,
		Confirmations: config.Confirmations,
	}

	if !liveFlag {
		fmt.Fprintln(out, ui.Banner(s.network.DisplayName))
		fmt.Fprintf(out, "%s %s\n\n", ui.Meta("Account"), ui.Addr(par.Account.Hex()))
	}

	var res *borrow.Result
	if liveFlag {
		res, err = runLive(ctx, out, client, par)
	} else {
		rep := &plainReporter{out: out, spin: isTerminal(out)}
		res, err = borrow.Run(ctx, client, par, rep)
		rep.stopSpinner("")
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, summary(res, amount))
	return nil
}

// runLive drives the workflow from a goroutine while a StepsModel renders it.
// Ctrl+C in the view cancels the run.
func runLive(ctx context.Context, out io.Writer, p borrow.Protocol, par borrow.Params) (*borrow.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	names := make([]string, len(borrow.Steps))
	for i, st := range borrow.Steps {
		names[i] = string(st)
	}
	prog := tea.NewProgram(ui.NewStepsModel("aaveborrow", names), tea.WithOutput(out))

	type outcome struct {
		res *borrow.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := borrow.Run(ctx, p, par, borrow.ReporterFunc(func(e borrow.Event) {
			prog.Send(stepMsg(e))
		}))
		prog.Send(ui.StepsFinishedMsg{Err: err})
		done <- outcome{res, err}
	}()

	final, err := prog.Run()
	if err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("live view: %w", err)
	}
	if m, ok := final.(ui.StepsModel); ok && m.Interrupted {
		cancel()
	}
	o := <-done
	return o.res, o.err
}

// stepMsg maps a workflow event onto a row update of the live view.
func stepMsg(e borrow.Event) ui.StepUpdateMsg {
	msg := ui.StepUpdateMsg{Name: string(e.Step)}
	switch e.Status {
	case borrow.StatusStarted:
		msg.Status = ui.StepRunning
	case borrow.StatusSent:
		msg.Status = ui.StepWaiting
		msg.Detail = "tx " + ui.TruncateAddr(e.TxHash)
	case borrow.StatusFailed:
		msg.Status = ui.StepFailed
		if e.Err != nil {
			msg.Detail = e.Err.Error()
		}
	case borrow.StatusDone:
		msg.Status = ui.StepDone
		msg.Detail = eventDetail(e)
	}
	return msg
}

// eventDetail is the one-line result of a finished step.
func eventDetail(e borrow.Event) string {
	switch {
	case e.Account != nil:
		return fmt.Sprintf("available %s ETH · health %s",
			e.Account.AvailableBorrows().StringFixed(6), e.Account.HealthFactorString())
	case e.Quote != nil:
		return "1 DAI = " + e.Quote.Price().String() + " ETH"
	case e.Step == borrow.StepLendingPool:
		return e.Pool.Hex()
	case e.Step == borrow.StepBorrow:
		return e.Tokens.String() + " DAI · " + ui.TruncateAddr(e.TxHash)
	case e.TxHash != "":
		return ui.TruncateAddr(e.TxHash)
	}
	return ""
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// plainReporter prints each step as it completes. A spinner runs while a
// transaction confirms when writing to a terminal.
type plainReporter struct {
	out     io.Writer
	spin    bool
	spinner *ui.Spinner
}

func (r *plainReporter) Report(e borrow.Event) {
	switch e.Status {
	case borrow.StatusSent:
		log.WithField("step", string(e.Step)).WithField("tx", e.TxHash).Debug("sent")
		if r.spin {
			r.spinner = ui.NewSpinnerTo(r.out, fmt.Sprintf("%s: waiting for %s", e.Step, ui.TruncateAddr(e.TxHash)))
			r.spinner.Start()
		}
	case borrow.StatusFailed:
		r.stopSpinner("")
	case borrow.StatusDone:
		r.done(e)
	}
}

func (r *plainReporter) done(e borrow.Event) {
	switch {
	case e.Account != nil:
		fmt.Fprintln(r.out, ui.KeyValueBlock(accountTitle(e.Step), e.Account.Fields()))
	case e.Quote != nil:
		fmt.Fprintln(r.out, ui.Info("DAI/ETH price: "+e.Quote.Price().String()))
	case e.Step == borrow.StepLendingPool:
		fmt.Fprintln(r.out, ui.Info("Lending pool: "+e.Pool.Hex()))
	default:
		line := fmt.Sprintf("%s confirmed  %s", e.Step, ui.Addr(e.TxHash))
		if e.Step == borrow.StepBorrow {
			line = fmt.Sprintf("borrowed %s DAI  %s", e.Tokens.String(), ui.Addr(e.TxHash))
		}
		r.stopSpinner(ui.Success(line))
	}
}

func (r *plainReporter) stopSpinner(msg string) {
	if r.spinner == nil {
		if msg != "" {
			fmt.Fprintln(r.out, msg)
		}
		return
	}
	if msg == "" {
		r.spinner.Stop()
	} else {
		r.spinner.StopWithMsg(msg)
	}
	r.spinner = nil
}

func accountTitle(st borrow.Step) string {
	switch st {
	case borrow.StepAccountAfterDeposit:
		return "Account after deposit"
	case borrow.StepAccountAfterBorrow:
		return "Account after borrow"
	default:
		return "Account after repay"
	}
}

func summary(res *borrow.Result, deposited *big.Int) string {
	pairs := [][2]string{
		{"Lending pool", res.Pool.Hex()},
		{"Deposited", aave.FromBaseUnits(deposited, 18).String() + " WETH"},
		{"Borrowed", res.BorrowTokens.String() + " DAI"},
		{"Transactions", fmt.Sprintf("%d", len(res.TxHashes))},
	}
	if res.Quote != nil {
		pairs = append(pairs, [2]string{"DAI/ETH", res.Quote.Price().String()})
	}
	if final := res.Snapshots[borrow.StepAccountAfterRepay]; final != nil {
		pairs = append(pairs, [2]string{"Health factor", final.HealthFactorString()})
	}
	return ui.KeyValueBlock("Done", pairs)
}
