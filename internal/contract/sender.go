package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/aaveborrow/internal/chain"
	"github.com/Mohsinsiddi/aaveborrow/internal/logger"
	"github.com/Mohsinsiddi/aaveborrow/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
)

// Sender signs and broadcasts EIP-1559 transactions for one wallet.
type Sender struct {
	client  *chain.EVMClient
	signer  *wallet.Signer
	chainID *big.Int
}

// NewSender creates a Sender.
func NewSender(client *chain.EVMClient, signer *wallet.Signer, chainID *big.Int) *Sender {
	return &Sender{client: client, signer: signer, chainID: chainID}
}

// From returns the address transactions are sent from.
func (s *Sender) From() common.Address { return s.signer.Address() }

// Send builds a transaction calling to with data and value, signs it and
// broadcasts it. Returns the transaction hash.
func (s *Sender) Send(ctx context.Context, to common.Address, value *big.Int, data []byte) (string, error) {
	if value == nil {
		value = new(big.Int)
	}
	from := s.signer.Address().Hex()
	calldata := hexutil.Encode(data)

	gas, err := s.client.EstimateGas(from, to.Hex(), calldata, value)
	if err != nil {
		return "", fmt.Errorf("estimating gas: %w", err)
	}

	gasPrice, err := s.client.GasPrice()
	if err != nil {
		return "", fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := s.client.GetPendingNonce(from)
	if err != nil {
		return "", fmt.Errorf("getting nonce: %w", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})

	raw, err := s.signer.SignTx(tx, s.chainID)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := s.client.SendRawTransaction(hexutil.Encode(raw))
	if err != nil {
		return "", fmt.Errorf("broadcasting transaction: %w", err)
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"hash":  hash,
		"to":    to.Hex(),
		"nonce": nonce,
		"gas":   gas,
		"value": value.String(),
	}).Debug("transaction sent")
	return hash, nil
}
