package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/big"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Mohsinsiddi/aaveborrow/internal/aave"
	"github.com/Mohsinsiddi/aaveborrow/internal/borrow"
	"github.com/Mohsinsiddi/aaveborrow/internal/config"
	"github.com/Mohsinsiddi/aaveborrow/internal/logger"
	"github.com/Mohsinsiddi/aaveborrow/internal/ui"
	"github.com/Mohsinsiddi/aaveborrow/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCLI isolates a test from the caller's environment and keychain and
// returns a fresh config directory.
func setupCLI(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"NETWORK", "WALLET", "RPC_URL", "PRIVATE_KEY", "CONFIRM_TIMEOUT"} {
		for _, name := range []string{"AAVEBORROW_" + k, k} {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	ks := wallet.NewInMemoryKeystore()
	prev := openKeystore
	openKeystore = func() wallet.KeystoreBackend { return ks }
	t.Cleanup(func() { openKeystore = prev })
	return t.TempDir()
}

// execute runs the CLI in-process with args and stdin, returning stdout,
// stderr and the exit status.
func execute(t *testing.T, dir, stdin string, args ...string) (string, string, int) {
	t.Helper()

	networkFlag, walletFlag = "", ""
	amountFlag = config.DefaultDepositAmount
	liveFlag, verbose = false, false
	walletKeyFlag, walletYesFlag = "", false
	if f := rootCmd.Flags().Lookup("help"); f != nil {
		f.Value.Set("false") //nolint:errcheck
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", dir}, args...))

	code := run(context.Background(), &errOut)
	return out.String(), errOut.String(), code
}

func TestParseETH(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"0.02", "20000000000000000", false},
		{"1", "1000000000000000000", false},
		{"0.000000000000000001", "1", false},
		{"0", "", true},
		{"-1", "", true},
		{"abc", "", true},
		{"0.0000000000000000001", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseETH(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestStepMsg(t *testing.T) {
	hash := "0x" + strings.Repeat("ab", 32)

	msg := stepMsg(borrow.Event{Step: borrow.StepWrap, Status: borrow.StatusStarted})
	assert.Equal(t, ui.StepUpdateMsg{Name: "wrap", Status: ui.StepRunning}, msg)

	msg = stepMsg(borrow.Event{Step: borrow.StepDeposit, Status: borrow.StatusSent, TxHash: hash})
	assert.Equal(t, ui.StepWaiting, msg.Status)
	assert.Contains(t, msg.Detail, "0xabab")

	msg = stepMsg(borrow.Event{Step: borrow.StepBorrow, Status: borrow.StatusDone, TxHash: hash, Tokens: decimal.RequireFromString("19")})
	assert.Equal(t, ui.StepDone, msg.Status)
	assert.Contains(t, msg.Detail, "19 DAI")

	msg = stepMsg(borrow.Event{Step: borrow.StepPrice, Status: borrow.StatusDone, Quote: &aave.Quote{Answer: big.NewInt(8e14), Decimals: 18}})
	assert.Equal(t, "1 DAI = 0.0008 ETH", msg.Detail)

	msg = stepMsg(borrow.Event{Step: borrow.StepAccountAfterDeposit, Status: borrow.StatusDone, Account: &aave.AccountData{
		AvailableBorrowsETH: big.NewInt(16e15),
		HealthFactor:        new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)),
	}})
	assert.Equal(t, "available 0.016000 ETH · health ∞", msg.Detail)

	pool := common.HexToAddress(testPool)
	msg = stepMsg(borrow.Event{Step: borrow.StepLendingPool, Status: borrow.StatusDone, Pool: pool})
	assert.Equal(t, pool.Hex(), msg.Detail)

	msg = stepMsg(borrow.Event{Step: borrow.StepRepay, Status: borrow.StatusFailed, Err: errors.New("boom")})
	assert.Equal(t, ui.StepUpdateMsg{Name: "repay", Status: ui.StepFailed, Detail: "boom"}, msg)
}

func TestStepsModelFollowsEvents(t *testing.T) {
	names := make([]string, len(borrow.Steps))
	for i, s := range borrow.Steps {
		names[i] = string(s)
	}
	var m interface{} = ui.NewStepsModel("aaveborrow", names)
	for _, e := range []borrow.Event{
		{Step: borrow.StepWrap, Status: borrow.StatusStarted},
		{Step: borrow.StepWrap, Status: borrow.StatusSent, TxHash: "0x01"},
		{Step: borrow.StepWrap, Status: borrow.StatusDone, TxHash: "0x01"},
		{Step: borrow.StepLendingPool, Status: borrow.StatusStarted},
		{Step: borrow.StepLendingPool, Status: borrow.StatusFailed, Err: errors.New("no pool")},
	} {
		next, _ := m.(ui.StepsModel).Update(stepMsg(e))
		m = next
	}
	sm := m.(ui.StepsModel)
	assert.Equal(t, ui.StepDone, sm.Rows[0].Status)
	assert.Equal(t, ui.StepFailed, sm.Rows[1].Status)
	assert.Equal(t, "no pool", sm.Rows[1].Detail)
	assert.Equal(t, ui.StepPending, sm.Rows[2].Status)
}

func TestHelpListsCommands(t *testing.T) {
	dir := setupCLI(t)

	out, _, code := execute(t, dir, "", "--help")
	assert.Equal(t, 0, code)
	for _, sub := range []string{"weth", "account", "price", "wallet", "network", "artifacts", "--amount", "--live"} {
		assert.Contains(t, out, sub)
	}
}

func TestUnknownArgumentExitsNonZero(t *testing.T) {
	dir := setupCLI(t)
	out, errOut, code := execute(t, dir, "", "bogus")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Equal(t, "\n", errOut)
}

func TestArtifactsList(t *testing.T) {
	dir := setupCLI(t)
	out, _, code := execute(t, dir, "", "artifacts")
	require.Equal(t, 0, code)
	for _, name := range []string{"IWeth", "IERC20", "ILendingPool", "ILendingPoolAddressesProvider", "AggregatorV3Interface"} {
		assert.Contains(t, out, name)
	}
}

func TestArtifactsMethods(t *testing.T) {
	dir := setupCLI(t)
	out, _, code := execute(t, dir, "", "artifacts", "ilendingpool")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "borrow(address,uint256,uint256,uint16,address)")
	assert.Contains(t, out, "getUserAccountData(address)")
}

func TestArtifactsUnknown(t *testing.T) {
	dir := setupCLI(t)
	_, errOut, code := execute(t, dir, "", "artifacts", "IUniswapV2Router")
	assert.Equal(t, 1, code)
	assert.Equal(t, "\n", errOut)
}

func TestArtifactsSelector(t *testing.T) {
	dir := setupCLI(t)
	out, _, code := execute(t, dir, "", "artifacts", "selector", "approve(address spender, uint256 amount)")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "approve(address,uint256)")
	assert.Contains(t, out, "0x095ea7b3")
}

func TestNetworkList(t *testing.T) {
	dir := setupCLI(t)
	out, _, code := execute(t, dir, "", "network", "list")
	require.Equal(t, 0, code)
	for _, s := range []string{"mainnet", "kovan", "localhost", "31337", "0xB53C1a33016B2DC2fF3653530bfF1848a515c8c5"} {
		assert.Contains(t, out, s)
	}
}

func TestNetworkUsePersists(t *testing.T) {
	dir := setupCLI(t)

	_, _, code := execute(t, dir, "", "network", "use", "KOVAN")
	require.Equal(t, 0, code)

	c, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "kovan", c.DefaultNetwork)

	_, errOut, code := execute(t, dir, "", "network", "use", "solana")
	assert.Equal(t, 1, code)
	assert.Equal(t, "\n", errOut)
}

func TestNetworkRPCAddRemove(t *testing.T) {
	dir := setupCLI(t)

	_, _, code := execute(t, dir, "", "network", "rpc", "add", "localhost", "http://127.0.0.1:9545")
	require.Equal(t, 0, code)
	c, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://127.0.0.1:9545"}, c.GetRPCs("localhost"))

	_, _, code = execute(t, dir, "", "network", "rpc", "add", "localhost", "http://127.0.0.1:9545")
	assert.Equal(t, 1, code, "duplicate RPC")

	_, _, code = execute(t, dir, "", "network", "rpc", "remove", "localhost", "http://127.0.0.1:9545")
	require.Equal(t, 0, code)
	c, err = config.Load(dir)
	require.NoError(t, err)
	assert.Empty(t, c.GetRPCs("localhost"))
}

func TestWalletLifecycle(t *testing.T) {
	dir := setupCLI(t)

	out, _, code := execute(t, dir, "", "wallet", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No wallets configured")

	out, _, code = execute(t, dir, "", "wallet", "add", "deployer", "--key", testPrivKeyHex)
	require.Equal(t, 0, code)
	assert.Contains(t, out, testAccount)

	_, _, code = execute(t, dir, "", "wallet", "add", "watcher", "0x7d2768de32b0b80b7a3454c06bdac94a69ddc7a9")
	require.Equal(t, 0, code)

	_, _, code = execute(t, dir, "", "wallet", "add", "broken", "not-an-address")
	assert.Equal(t, 1, code)

	_, _, code = execute(t, dir, "", "wallet", "use", "deployer")
	require.Equal(t, 0, code)
	c, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "deployer", c.DefaultWallet)

	out, _, code = execute(t, dir, "", "wallet", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "deployer")
	assert.Contains(t, out, common.HexToAddress(testPool).Hex())
	assert.Contains(t, out, "2 wallet(s)")

	out, _, code = execute(t, dir, "n\n", "wallet", "remove", "deployer")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Cancelled")

	_, _, code = execute(t, dir, "", "wallet", "remove", "deployer", "--yes")
	require.Equal(t, 0, code)
	c, err = config.Load(dir)
	require.NoError(t, err)
	assert.Empty(t, c.DefaultWallet)

	out, _, code = execute(t, dir, "", "wallet", "list")
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "deployer")
	assert.Contains(t, out, "1 wallet(s)")
}

func TestPlainReporterPrintsSnapshots(t *testing.T) {
	var buf bytes.Buffer
	rep := &plainReporter{out: &buf}
	rep.Report(borrow.Event{Step: borrow.StepAccountAfterBorrow, Status: borrow.StatusDone, Account: &aave.AccountData{
		TotalCollateralETH:  big.NewInt(2e16),
		TotalDebtETH:        big.NewInt(152e14),
		AvailableBorrowsETH: big.NewInt(8e14),
		HealthFactor:        big.NewInt(1e18),
	}})
	rep.Report(borrow.Event{Step: borrow.StepRepay, Status: borrow.StatusDone, TxHash: "0x01"})

	out := buf.String()
	assert.Contains(t, out, "Account after borrow")
	assert.Contains(t, out, "0.0152 ETH")
	assert.Contains(t, out, "1.0000")
	assert.Contains(t, out, "repay confirmed")
}

func TestSpinnerOnlyOnTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f), "a regular file is not a terminal")

	log = logger.New(io.Discard, false)
	var buf bytes.Buffer
	rep := &plainReporter{out: &buf, spin: isTerminal(&buf)}
	rep.Report(borrow.Event{Step: borrow.StepBorrow, Status: borrow.StatusSent, TxHash: "0x01"})
	rep.Report(borrow.Event{Step: borrow.StepBorrow, Status: borrow.StatusDone, TxHash: "0x01"})
	assert.Nil(t, rep.spinner)
	assert.NotContains(t, buf.String(), "waiting for")
}

func TestConfirmTimeoutFromEnv(t *testing.T) {
	dir := setupCLI(t)
	t.Setenv("AAVEBORROW_CONFIRM_TIMEOUT", "90s")

	_, _, code := execute(t, dir, "", "artifacts")
	require.Equal(t, 0, code)
	assert.Equal(t, 90*time.Second, cfg.ConfirmWait())
}
