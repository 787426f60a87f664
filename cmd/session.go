package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/aaveborrow/internal/aave"
	"github.com/Mohsinsiddi/aaveborrow/internal/chain"
	"github.com/Mohsinsiddi/aaveborrow/internal/config"
	"github.com/Mohsinsiddi/aaveborrow/internal/contract"
	"github.com/Mohsinsiddi/aaveborrow/internal/ens"
	"github.com/Mohsinsiddi/aaveborrow/internal/rpc"
	"github.com/Mohsinsiddi/aaveborrow/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// session is everything a command needs to talk to one network.
type session struct {
	network *chain.Network
	client  *chain.EVMClient
	chainID *big.Int
	signer  *wallet.Signer // nil for read-only sessions
}

// openSession resolves the network, picks an RPC and checks that it serves
// the expected chain. needSigner also loads the signing wallet.
func openSession(ctx context.Context, needSigner bool) (*session, error) {
	reg := chain.NewRegistry()
	if err := reg.LoadOverrides(cfg.NetworksPath()); err != nil {
		return nil, err
	}
	network, err := reg.GetByName(networkName())
	if err != nil {
		return nil, fmt.Errorf("%w (run `aaveborrow network list`)", err)
	}

	rpcURL, err := pickRPC(ctx, network)
	if err != nil {
		return nil, err
	}
	client := chain.NewEVMClient(rpcURL)

	id, err := client.ChainID()
	if err != nil {
		return nil, fmt.Errorf("querying chain id from %s: %w", rpcURL, err)
	}
	if network.ChainID != 0 && id != network.ChainID {
		return nil, fmt.Errorf("RPC %s serves chain %d but network %s is chain %d", rpcURL, id, network.Name, network.ChainID)
	}

	s := &session{network: network, client: client, chainID: big.NewInt(id)}
	if needSigner {
		if s.signer, err = resolveSigner(); err != nil {
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"network": network.Name,
		"rpc":     rpcURL,
		"chainId": id,
	}).Debug("session opened")
	return s, nil
}

// aave returns a protocol client bound to the session's network.
func (s *session) aave() *aave.Client {
	var sender *contract.Sender
	if s.signer != nil {
		sender = contract.NewSender(s.client, s.signer, s.chainID)
	}
	return aave.NewClient(s.client, sender, s.network.Aave, aave.WithConfirmTimeout(cfg.ConfirmWait()))
}

func networkName() string {
	if networkFlag != "" {
		return networkFlag
	}
	return cfg.DefaultNetwork
}

// pickRPC returns AAVEBORROW_RPC_URL when set, otherwise selects among the
// custom and built-in RPCs of the network using the configured algorithm.
func pickRPC(ctx context.Context, n *chain.Network) (string, error) {
	if env != nil && env.RPCURL != "" {
		return env.RPCURL, nil
	}
	rpcs := append(append([]string{}, cfg.GetRPCs(n.Name)...), n.RPCs...)
	if len(rpcs) == 0 {
		return "", fmt.Errorf("no RPCs configured for %s: add one to networks.yaml or set AAVEBORROW_RPC_URL", n.Name)
	}

	ctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()
	url, err := rpc.Select(ctx, rpcs, rpc.ParseAlgorithm(cfg.RPCAlgorithm))
	if err != nil {
		return "", fmt.Errorf("selecting RPC for %s: %w", n.Name, err)
	}
	return url, nil
}

// resolveSigner prefers a private key from the environment, then the
// --wallet flag, the configured default and finally the manager's default.
func resolveSigner() (*wallet.Signer, error) {
	if env != nil && env.PrivateKey != "" {
		return wallet.NewKeySigner("env", env.PrivateKey)
	}

	mgr := newWalletManager()
	w, err := selectWallet(mgr)
	if err != nil {
		return nil, err
	}
	if w.Type != wallet.TypeSigning {
		return nil, fmt.Errorf("wallet %q is watch-only: re-add it with --key to sign transactions", w.Name)
	}
	return wallet.NewSigner(w, mgr.Keystore()), nil
}

// resolveAddress finds the account to query without needing a key. arg may
// be an address or an ENS name.
func resolveAddress(arg string, client *chain.EVMClient) (common.Address, error) {
	if arg != "" {
		if ens.IsName(arg) {
			return ens.Resolve(arg, client)
		}
		if !common.IsHexAddress(arg) {
			return common.Address{}, fmt.Errorf("invalid address %q", arg)
		}
		return common.HexToAddress(arg), nil
	}
	if env != nil && env.PrivateKey != "" {
		addr, err := wallet.AddressFromKey(env.PrivateKey)
		if err != nil {
			return common.Address{}, err
		}
		return common.HexToAddress(addr), nil
	}
	w, err := selectWallet(newWalletManager())
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(w.Address), nil
}

func selectWallet(mgr *wallet.Manager) (*wallet.Wallet, error) {
	name := walletFlag
	if name == "" {
		name = cfg.DefaultWallet
	}
	if name == "" {
		if w := mgr.Default(); w != nil {
			return w, nil
		}
		return nil, fmt.Errorf("no wallet configured: set AAVEBORROW_PRIVATE_KEY or run `aaveborrow wallet add <name> --key <hex>`")
	}
	w, err := mgr.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w (run `aaveborrow wallet list`)", err)
	}
	return w, nil
}

// openKeystore returns the backend holding signing keys. Tests swap it for an
// in-memory one.
var openKeystore = func() wallet.KeystoreBackend { return wallet.DefaultKeystore() }

// newWalletManager creates a Manager backed by the config-dir JSON store and
// the OS keychain.
func newWalletManager() *wallet.Manager {
	return wallet.NewManager(
		wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())),
		wallet.WithKeystore(openKeystore()),
	)
}

// parseETH converts a decimal ETH amount to wei.
func parseETH(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.IsPositive() {
		return nil, fmt.Errorf("amount must be positive, got %s", s)
	}
	wei := aave.ToBaseUnits(d, 18)
	if wei.Sign() == 0 {
		return nil, fmt.Errorf("amount %s is below 1 wei", s)
	}
	return wei, nil
}
