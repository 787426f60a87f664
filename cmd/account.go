package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/aaveborrow/internal/ens"
	"github.com/Mohsinsiddi/aaveborrow/internal/ui"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account [address|name.eth]",
	Short: "Show the lending pool account data of an address",
	Long: `Show getUserAccountData for an address or ENS name. Without an argument the
address of the default wallet (or AAVEBORROW_PRIVATE_KEY) is used. No
transaction is sent.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := openSession(ctx, false)
		if err != nil {
			return err
		}

		var arg string
		if len(args) == 1 {
			arg = args[0]
		}
		user, err := resolveAddress(arg, s.client)
		if err != nil {
			return err
		}

		client := s.aave()
		pool, err := client.LendingPool(ctx)
		if err != nil {
			return err
		}
		data, err := client.AccountData(ctx, pool, user)
		if err != nil {
			return err
		}

		pairs := [][2]string{{"Account", user.Hex()}}
		if s.network.ChainID == 1 {
			if name, err := ens.ReverseLookup(user, s.client); err == nil {
				pairs = append(pairs, [2]string{"ENS", name})
			}
		}
		pairs = append(pairs, [2]string{"Pool", pool.Hex()})
		pairs = append(pairs, data.Fields()...)
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("Account data on "+s.network.DisplayName, pairs))
		return nil
	},
}
