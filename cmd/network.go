package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/aaveborrow/internal/chain"
	"github.com/Mohsinsiddi/aaveborrow/internal/ui"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage networks and their Aave addresses",
}

// loadRegistry returns the built-in networks merged with networks.yaml.
func loadRegistry() (*chain.Registry, error) {
	reg := chain.NewRegistry()
	if err := reg.LoadOverrides(cfg.NetworksPath()); err != nil {
		return nil, err
	}
	return reg, nil
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List networks with their protocol addresses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 10},
			{Title: "Chain ID", Width: 8},
			{Title: "Addresses provider", Width: 42},
			{Title: "WETH", Width: 42},
			{Title: "DAI", Width: 42},
			{Title: "DAI/ETH feed", Width: 42},
		})
		active := networkName()
		for _, n := range reg.All() {
			t.AddRow(ui.Row{
				n.Name,
				fmt.Sprintf("%d", n.ChainID),
				n.Aave.LendingPoolAddressesProvider,
				n.Aave.WETHToken,
				n.Aave.DAIToken,
				n.Aave.DAIETHPriceFeed,
			})
			if n.Name == active {
				t.Mark()
			}
		}
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d networks · overrides in %s", len(reg.All()), cfg.NetworksPath())))
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use <network>",
	Short: "Set the default network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		n, err := reg.GetByName(args[0])
		if err != nil {
			return fmt.Errorf("%w (run `aaveborrow network list`)", err)
		}
		cfg.DefaultNetwork = n.Name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Default network set to "+ui.ChainName(n.Name)))
		return nil
	},
}

var networkRPCCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Manage custom RPC endpoints",
}

var networkRPCAddCmd = &cobra.Command{
	Use:   "add <network> <url>",
	Short: "Add a custom RPC, tried before the built-in ones",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		n, err := reg.GetByName(args[0])
		if err != nil {
			return err
		}
		if err := cfg.AddRPC(n.Name, args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Added %s to %s", args[1], ui.ChainName(n.Name))))
		return nil
	},
}

var networkRPCRemoveCmd = &cobra.Command{
	Use:   "remove <network> <url>",
	Short: "Remove a custom RPC",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RemoveRPC(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Removed %s from %s", args[1], ui.ChainName(args[0]))))
		return nil
	},
}

func init() {
	networkRPCCmd.AddCommand(networkRPCAddCmd, networkRPCRemoveCmd)
	networkCmd.AddCommand(networkListCmd, networkUseCmd, networkRPCCmd)
}
