package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Mohsinsiddi/aaveborrow/internal/config"
	"github.com/Mohsinsiddi/aaveborrow/internal/contract"
	"github.com/Mohsinsiddi/aaveborrow/internal/logger"
	"github.com/Mohsinsiddi/aaveborrow/internal/ui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/aaveborrow/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir      string
	cfg         *config.Config
	env         *config.Env
	log         *logrus.Entry
	verbose     bool
	networkFlag string
	walletFlag  string
	amountFlag  string
	liveFlag    bool
)

// rootCmd is the top-level command. Without a sub-command it runs the full
// borrow workflow.
var rootCmd = &cobra.Command{
	Use:   "aaveborrow",
	Short: "Deposit WETH into Aave, borrow DAI against it and repay",
	Long: `aaveborrow runs a fixed sequence against an Aave v2 lending pool:

  1. wrap ETH into WETH
  2. resolve the lending pool through the addresses provider
  3. approve and deposit the WETH as collateral
  4. read the account data and the DAI/ETH oracle price
  5. borrow 95% of the available capacity in DAI
  6. approve and repay the DAI

Every transaction waits for one confirmation. The first failure aborts the run.

The signing key comes from AAVEBORROW_PRIVATE_KEY (or PRIVATE_KEY, also read
from .env) or from a wallet added with: aaveborrow wallet add <name> --key <hex>`,
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		env, err = config.LoadEnv()
		if err != nil {
			return err
		}
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg.ApplyEnv(env)

		var logOut io.Writer = cmd.ErrOrStderr()
		if liveFlag {
			logOut = io.Discard
		}
		log = logger.New(logOut, verbose)
		cmd.SetContext(logger.WithContext(cmd.Context(), log))

		if cfg.ArtifactsDir != "" {
			loaded, err := contract.LoadArtifactDir(cfg.ArtifactsDir)
			if err != nil {
				return fmt.Errorf("loading artifacts: %w", err)
			}
			log.WithField("count", len(loaded)).Debug("loaded artifacts")
		}
		return nil
	},
	RunE: runBorrow,
}

// Execute runs the root command and exits with its status code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the root command. Any error prints an empty line to stderr
// and yields status 1; --verbose also prints the error itself.
func run(ctx context.Context, stderr io.Writer) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr)
		if verbose {
			fmt.Fprintln(stderr, ui.Err(err.Error()))
		}
		return 1
	}
	return 0
}

func init() {
	// AAVEBORROW_CONFIG_DIR overrides the default config directory.
	if envDir := os.Getenv("AAVEBORROW_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.aaveborrow)")
	pf.StringVarP(&networkFlag, "network", "n", "", "network to use (default: config, then localhost)")
	pf.StringVarP(&walletFlag, "wallet", "w", "", "signing wallet name (default: config)")
	pf.StringVar(&amountFlag, "amount", config.DefaultDepositAmount, "ETH to wrap (and deposit)")
	pf.BoolVar(&liveFlag, "live", false, "show a live step view")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		wethCmd,
		accountCmd,
		priceCmd,
		walletCmd,
		networkCmd,
		artifactsCmd,
	)
}
