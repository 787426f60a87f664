package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/aaveborrow/internal/ui"
	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Show the latest DAI/ETH oracle round",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			return err
		}
		q, err := s.aave().LatestPrice(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("DAI/ETH", [][2]string{
			{"Feed", s.network.Aave.DAIETHPriceFeed},
			{"Round", q.RoundID.String()},
			{"Price", q.Price().String() + " ETH"},
			{"Answer", q.Answer.String()},
			{"Decimals", fmt.Sprintf("%d", q.Decimals)},
			{"Updated", q.UpdatedAt.Format("2006-01-02 15:04:05 UTC")},
		}))
		return nil
	},
}
