package cmd

import (
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/aaveborrow/internal/aave"
	"github.com/Mohsinsiddi/aaveborrow/internal/config"
	"github.com/Mohsinsiddi/aaveborrow/internal/contract"
	"github.com/Mohsinsiddi/aaveborrow/internal/ui"
	"github.com/spf13/cobra"
)

var wethCmd = &cobra.Command{
	Use:   "weth",
	Short: "Wrap --amount ETH into WETH and show the WETH balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
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

		hash, err := client.WrapETH(ctx, amount)
		if err != nil {
			return fmt.Errorf("wrapping ETH: %w", err)
		}
		fmt.Fprintf(out, "%s %s\n", ui.Meta("Sent"), ui.Addr(hash))
		if err := client.Wait(ctx, hash, config.Confirmations); err != nil {
			return err
		}

		token, err := contract.At("IERC20", client.WETH(), s.client)
		if err != nil {
			return err
		}
		res, err := token.Call("balanceOf", s.signer.Address())
		if err != nil {
			return err
		}
		bal, ok := res[0].(*big.Int)
		if !ok {
			return fmt.Errorf("decoding balanceOf: unexpected %T", res[0])
		}

		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Wrapped %s ETH", aave.FromBaseUnits(amount, 18))))
		fmt.Fprintln(out, ui.KeyValueBlock("WETH", [][2]string{
			{"Account", s.signer.Address().Hex()},
			{"Balance", aave.FromBaseUnits(bal, 18).String() + " WETH"},
		}))
		return nil
	},
}
