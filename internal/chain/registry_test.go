package chain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuiltins(t *testing.T) {
	reg := NewRegistry()

	all := reg.All()
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].ChainID)
	assert.Equal(t, int64(31337), all[len(all)-1].ChainID)

	for _, n := range all {
		t.Run(n.Name, func(t *testing.T) {
			assert.NotEmpty(t, n.RPCs)
			assert.NotEmpty(t, n.Aave.LendingPoolAddressesProvider)
			assert.NotEmpty(t, n.Aave.WETHToken)
			assert.NotEmpty(t, n.Aave.DAIToken)
			assert.NotEmpty(t, n.Aave.DAIETHPriceFeed)
		})
	}
}

func TestRegistryLocalhostForksMainnet(t *testing.T) {
	reg := NewRegistry()
	local, err := reg.GetByName("localhost")
	require.NoError(t, err)
	main, err := reg.GetByChainID(1)
	require.NoError(t, err)
	assert.Equal(t, main.Aave, local.Aave)
}

func TestRegistryLookupCaseInsensitive(t *testing.T) {
	n, err := NewRegistry().GetByName("KOVAN")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n.ChainID)
}

func TestRegistryUnknownNetwork(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.GetByName("solana")
	assert.True(t, errors.Is(err, ErrNetworkNotFound))
	_, err = reg.GetByChainID(999)
	assert.True(t, errors.Is(err, ErrNetworkNotFound))
}

func TestLoadOverridesMissingFile(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.LoadOverrides(filepath.Join(t.TempDir(), "networks.yaml")))
	assert.Len(t, reg.All(), 3)
}

func TestLoadOverridesMergeAndAdd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networks.yaml")
	yaml := `networks:
  - name: localhost
    rpcs: ["http://127.0.0.1:9545"]
  - name: polygon
    displayName: Polygon
    chainId: 137
    nativeCurrency: MATIC
    rpcs: ["https://polygon-rpc.com"]
    aave:
      lendingPoolAddressesProvider: "0xd05e3E715d945B59290df0ae8eF85c1BdB684744"
      wethToken: "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270"
      daiToken: "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063"
      daiEthPriceFeed: "0xFC539A559e170f848323e19dfD66007520510085"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	reg := NewRegistry()
	require.NoError(t, reg.LoadOverrides(path))

	local, err := reg.GetByName("localhost")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://127.0.0.1:9545"}, local.RPCs)
	assert.Equal(t, mainnetAave, local.Aave, "unset fields keep built-in values")

	poly, err := reg.GetByChainID(137)
	require.NoError(t, err)
	assert.Equal(t, "MATIC", poly.NativeCurrency)
	assert.Equal(t, "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063", poly.Aave.DAIToken)
}

func TestLoadOverridesRejectsNamelessEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("networks:\n  - chainId: 5\n"), 0o600))
	err := NewRegistry().LoadOverrides(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without a name")
}

func TestLoadOverridesBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("networks: [::"), 0o600))
	require.Error(t, NewRegistry().LoadOverrides(path))
}
