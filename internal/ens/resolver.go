// Package ens resolves ENS names for the account command.
package ens

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/aaveborrow/internal/chain"
	"github.com/Mohsinsiddi/aaveborrow/internal/contract"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// RegistryAddress is the ENS registry on Ethereum mainnet and its forks.
var RegistryAddress = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

// IsName reports whether s looks like an ENS name rather than an address.
func IsName(s string) bool {
	return strings.Contains(s, ".") && !strings.HasPrefix(s, "0x")
}

// Resolve resolves an ENS name to an address: the registry gives the
// resolver, the resolver gives the addr record.
func Resolve(name string, client *chain.EVMClient) (common.Address, error) {
	node := Namehash(name)

	resolver, err := resolverFor(node, client)
	if err != nil {
		return common.Address{}, fmt.Errorf("resolving %q: %w", name, err)
	}
	if resolver == (common.Address{}) {
		return common.Address{}, fmt.Errorf("no resolver set for %q", name)
	}

	r, err := contract.At("ENSResolver", resolver, client)
	if err != nil {
		return common.Address{}, err
	}
	out, err := r.Call("addr", node)
	if err != nil {
		return common.Address{}, fmt.Errorf("querying ENS resolver: %w", err)
	}
	addr, _ := out[0].(common.Address)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("no address record for %q", name)
	}
	return addr, nil
}

// ReverseLookup returns the primary ENS name of address.
func ReverseLookup(address common.Address, client *chain.EVMClient) (string, error) {
	node := Namehash(strings.ToLower(strings.TrimPrefix(address.Hex(), "0x")) + ".addr.reverse")

	resolver, err := resolverFor(node, client)
	if err != nil {
		return "", fmt.Errorf("querying reverse registry: %w", err)
	}
	if resolver == (common.Address{}) {
		return "", fmt.Errorf("no reverse record for %s", address.Hex())
	}

	r, err := contract.At("ENSResolver", resolver, client)
	if err != nil {
		return "", err
	}
	out, err := r.Call("name", node)
	if err != nil {
		return "", fmt.Errorf("querying reverse resolver: %w", err)
	}
	name, _ := out[0].(string)
	if name == "" {
		return "", fmt.Errorf("no reverse name for %s", address.Hex())
	}
	return name, nil
}

func resolverFor(node [32]byte, client *chain.EVMClient) (common.Address, error) {
	reg, err := contract.At("ENSRegistry", RegistryAddress, client)
	if err != nil {
		return common.Address{}, err
	}
	out, err := reg.Call("resolver", node)
	if err != nil {
		return common.Address{}, err
	}
	addr, _ := out[0].(common.Address)
	return addr, nil
}

// Namehash implements the EIP-137 namehash: labels are hashed right to left
// into a node starting at 32 zero bytes.
func Namehash(name string) [32]byte {
	var node [32]byte
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := keccak256([]byte(labels[i]))
		copy(node[:], keccak256(append(node[:], label...)))
	}
	return node
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
