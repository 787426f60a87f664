package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/aaveborrow/internal/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Contract is an artifact bound to a deployed address on one chain.
type Contract struct {
	Address  common.Address
	Artifact *Artifact
	client   *chain.EVMClient
}

// At looks up the artifact registered as name and binds it to address.
func At(name string, address common.Address, client *chain.EVMClient) (*Contract, error) {
	a, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return &Contract{Address: address, Artifact: a, client: client}, nil
}

// Pack encodes a call to method with args.
func (c *Contract) Pack(method string, args ...interface{}) ([]byte, error) {
	data, err := c.Artifact.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s.%s: %w", c.Artifact.Name, method, err)
	}
	return data, nil
}

// Call runs a read-only method through eth_call and returns its decoded
// outputs in ABI order.
func (c *Contract) Call(method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	result, err := c.client.CallContract("", c.Address.Hex(), hexutil.Encode(data))
	if err != nil {
		return nil, fmt.Errorf("calling %s.%s: %w", c.Artifact.Name, method, err)
	}

	raw, err := hexutil.Decode(result)
	if err != nil {
		return nil, fmt.Errorf("decoding %s.%s result: %w", c.Artifact.Name, method, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s.%s returned no data (is %s a %s?)",
			c.Artifact.Name, method, c.Address.Hex(), c.Artifact.Name)
	}

	out, err := c.Artifact.ABI.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s.%s result: %w", c.Artifact.Name, method, err)
	}
	return out, nil
}

// Transact sends a state-changing call through s and returns the transaction
// hash. value may be nil.
func (c *Contract) Transact(ctx context.Context, s *Sender, value *big.Int, method string, args ...interface{}) (string, error) {
	data, err := c.Pack(method, args...)
	if err != nil {
		return "", err
	}
	hash, err := s.Send(ctx, c.Address, value, data)
	if err != nil {
		return "", fmt.Errorf("%s.%s: %w", c.Artifact.Name, method, err)
	}
	return hash, nil
}
