package chain

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNetworkNotFound is returned when a network is not in the registry.
var ErrNetworkNotFound = errors.New("network not found")

// AaveAddresses are the protocol contracts the borrow workflow talks to on a
// given network.
type AaveAddresses struct {
	LendingPoolAddressesProvider string `json:"lending_pool_addresses_provider" yaml:"lendingPoolAddressesProvider"`
	WETHToken                    string `json:"weth_token"                      yaml:"wethToken"`
	DAIToken                     string `json:"dai_token"                       yaml:"daiToken"`
	DAIETHPriceFeed              string `json:"dai_eth_price_feed"              yaml:"daiEthPriceFeed"`
}

// Network holds all metadata for a single network.
type Network struct {
	Name           string        `json:"name"            yaml:"name"`
	DisplayName    string        `json:"display_name"    yaml:"displayName"`
	ChainID        int64         `json:"chain_id"        yaml:"chainId"`
	NativeCurrency string        `json:"native_currency" yaml:"nativeCurrency"`
	RPCs           []string      `json:"rpcs"            yaml:"rpcs"`
	Explorer       string        `json:"explorer"        yaml:"explorer"`
	Aave           AaveAddresses `json:"aave"            yaml:"aave"`
}

// Registry is the network registry.
type Registry struct {
	byName map[string]*Network
	byID   map[int64]*Network
}

// NewRegistry creates a registry holding the built-in networks.
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]*Network),
		byID:   make(map[int64]*Network),
	}
	for _, n := range builtinNetworks() {
		r.put(n)
	}
	return r
}

// All returns every network sorted by chain ID.
func (r *Registry) All() []Network {
	out := make([]Network, 0, len(r.byName))
	for _, n := range r.byName {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}

// GetByName finds a network by its slug name (e.g. "localhost", "kovan").
func (r *Registry) GetByName(name string) (*Network, error) {
	n, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, name)
	}
	return n, nil
}

// GetByChainID finds a network by its numeric chain ID.
func (r *Registry) GetByChainID(id int64) (*Network, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: chain id %d", ErrNetworkNotFound, id)
	}
	return n, nil
}

// networksFile is the shape of networks.yaml.
type networksFile struct {
	Networks []Network `yaml:"networks"`
}

// LoadOverrides merges networks from a YAML file into the registry. Entries
// matching an existing name replace only the fields they set. A missing file
// is not an error.
func (r *Registry) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var f networksFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, n := range f.Networks {
		if n.Name == "" {
			return fmt.Errorf("parsing %s: network entry without a name", path)
		}
		existing, ok := r.byName[strings.ToLower(n.Name)]
		if !ok {
			r.put(n)
			continue
		}
		merged := *existing
		mergeNetwork(&merged, n)
		r.put(merged)
	}
	return nil
}

func (r *Registry) put(n Network) {
	n.Name = strings.ToLower(n.Name)
	if n.DisplayName == "" {
		n.DisplayName = n.Name
	}
	if n.NativeCurrency == "" {
		n.NativeCurrency = "ETH"
	}
	if old, ok := r.byName[n.Name]; ok && old.ChainID != n.ChainID {
		delete(r.byID, old.ChainID)
	}
	stored := n
	r.byName[n.Name] = &stored
	if n.ChainID != 0 {
		r.byID[n.ChainID] = &stored
	}
}

func mergeNetwork(dst *Network, src Network) {
	if src.DisplayName != "" {
		dst.DisplayName = src.DisplayName
	}
	if src.ChainID != 0 {
		dst.ChainID = src.ChainID
	}
	if src.NativeCurrency != "" {
		dst.NativeCurrency = src.NativeCurrency
	}
	if len(src.RPCs) > 0 {
		dst.RPCs = src.RPCs
	}
	if src.Explorer != "" {
		dst.Explorer = src.Explorer
	}
	if a := src.Aave.LendingPoolAddressesProvider; a != "" {
		dst.Aave.LendingPoolAddressesProvider = a
	}
	if a := src.Aave.WETHToken; a != "" {
		dst.Aave.WETHToken = a
	}
	if a := src.Aave.DAIToken; a != "" {
		dst.Aave.DAIToken = a
	}
	if a := src.Aave.DAIETHPriceFeed; a != "" {
		dst.Aave.DAIETHPriceFeed = a
	}
}

// --- network data ---

// mainnetAave is shared by mainnet and the local mainnet fork.
var mainnetAave = AaveAddresses{
	LendingPoolAddressesProvider: "0xB53C1a33016B2DC2fF3653530bfF1848a515c8c5",
	WETHToken:                    "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
	DAIToken:                     "0x6B175474E89094C44Da98b954EedeAC495271d0F",
	DAIETHPriceFeed:              "0x773616E4d11A78F511299002da57A0a94577F1f4",
}

func builtinNetworks() []Network {
	return []Network{
		{
			Name: "mainnet", DisplayName: "Ethereum", ChainID: 1, NativeCurrency: "ETH",
			RPCs:     []string{"https://eth.llamarpc.com", "https://ethereum-rpc.publicnode.com"},
			Explorer: "https://etherscan.io",
			Aave:     mainnetAave,
		},
		{
			Name: "kovan", DisplayName: "Kovan", ChainID: 42, NativeCurrency: "ETH",
			RPCs:     []string{"https://kovan.poa.network"},
			Explorer: "https://kovan.etherscan.io",
			Aave: AaveAddresses{
				LendingPoolAddressesProvider: "0x88757f2f99175387aB4C6a4b3067c77A695b0349",
				WETHToken:                    "0xd0A1E359811322d97991E03f863a0C30C2cF029C",
				DAIToken:                     "0xFf795577d9AC8bD7D90Ee22b6C1703490b6512FD",
				DAIETHPriceFeed:              "0x22B58f1EbEDfCA50feF632bD73368b2FdA96D541",
			},
		},
		// Hardhat/Anvil node forking mainnet.
		{
			Name: "localhost", DisplayName: "Localhost (mainnet fork)", ChainID: 31337, NativeCurrency: "ETH",
			RPCs: []string{"http://127.0.0.1:8545"},
			Aave: mainnetAave,
		},
	}
}
