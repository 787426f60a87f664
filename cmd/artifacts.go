package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/aaveborrow/internal/contract"
	"github.com/Mohsinsiddi/aaveborrow/internal/ui"
	"github.com/spf13/cobra"
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts [name]",
	Short: "List the contract interfaces known to aaveborrow",
	Long: `Without an argument, list every registered artifact. With a name, list its
methods and their 4-byte selectors. Extra Hardhat artifacts are loaded from the
artifacts_dir set in config.json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			t := ui.NewTable([]ui.Column{
				{Title: "Name", Width: 30},
				{Title: "Methods", Width: 8},
				{Title: "Description", Width: 44},
			})
			all := contract.AllArtifacts()
			for _, a := range all {
				t.AddRow(ui.Row{a.Name, fmt.Sprintf("%d", len(a.ABI.Methods)), a.Description})
			}
			fmt.Fprintln(out, t.Render())
			fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d artifacts", len(all))))
			return nil
		}

		a, err := contract.Lookup(args[0])
		if err != nil {
			return err
		}
		t := ui.NewTable([]ui.Column{
			{Title: "Selector", Width: 10},
			{Title: "Signature", Width: 60},
		})
		for _, name := range a.MethodNames() {
			m := a.ABI.Methods[name]
			t.AddRow(ui.Row{contract.Selector(m.Sig), m.Sig})
		}
		fmt.Fprintln(out, ui.StyleTitle.Render(a.Name))
		fmt.Fprintln(out, t.Render())
		return nil
	},
}

var artifactsSelectorCmd = &cobra.Command{
	Use:   "selector <signature>",
	Short: "Compute the 4-byte selector of a function signature",
	Example: `  aaveborrow artifacts selector "borrow(address,uint256,uint256,uint16,address)"
  aaveborrow artifacts selector "approve(address spender, uint256 amount)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sig := contract.Canonical(args[0])
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("", [][2]string{
			{"Signature", sig},
			{"Selector", contract.Selector(sig)},
		}))
		return nil
	},
}

func init() {
	artifactsCmd.AddCommand(artifactsSelectorCmd)
}
