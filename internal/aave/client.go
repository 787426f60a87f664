// Package aave talks to the Aave v2 lending pool, its addresses provider,
// the WETH contract and the DAI/ETH price feed.
package aave

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Mohsinsiddi/aaveborrow/internal/chain"
	"github.com/Mohsinsiddi/aaveborrow/internal/config"
	"github.com/Mohsinsiddi/aaveborrow/internal/contract"
	"github.com/Mohsinsiddi/aaveborrow/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// ErrReadOnly is returned by state-changing calls on a client built without a
// sender.
var ErrReadOnly = errors.New("client has no signing wallet")

// Client binds the protocol contracts of one network.
type Client struct {
	rpc            *chain.EVMClient
	sender         *contract.Sender
	addrs          chain.AaveAddresses
	confirmTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithConfirmTimeout bounds every confirmation wait. Zero waits forever.
func WithConfirmTimeout(d time.Duration) Option {
	return func(c *Client) { c.confirmTimeout = d }
}

// NewClient creates a client. sender may be nil for read-only use.
func NewClient(rpc *chain.EVMClient, sender *contract.Sender, addrs chain.AaveAddresses, opts ...Option) *Client {
	c := &Client{rpc: rpc, sender: sender, addrs: addrs}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WETH returns the wrapped native token address.
func (c *Client) WETH() common.Address { return common.HexToAddress(c.addrs.WETHToken) }

// DAI returns the borrowed stablecoin address.
func (c *Client) DAI() common.Address { return common.HexToAddress(c.addrs.DAIToken) }

// WrapETH calls deposit() on the WETH contract with amount as value.
func (c *Client) WrapETH(ctx context.Context, amount *big.Int) (string, error) {
	weth, err := contract.At("IWeth", c.WETH(), c.rpc)
	if err != nil {
		return "", err
	}
	return c.transact(ctx, weth, amount, "deposit")
}

// LendingPool resolves the pool address through the addresses provider.
func (c *Client) LendingPool(ctx context.Context) (common.Address, error) {
	provider, err := contract.At("ILendingPoolAddressesProvider",
		common.HexToAddress(c.addrs.LendingPoolAddressesProvider), c.rpc)
	if err != nil {
		return common.Address{}, err
	}
	out, err := provider.Call("getLendingPool")
	if err != nil {
		return common.Address{}, err
	}
	pool, ok := out[0].(common.Address)
	if !ok || pool == (common.Address{}) {
		return common.Address{}, fmt.Errorf("addresses provider returned no lending pool")
	}
	logger.FromContext(ctx).WithField("pool", pool.Hex()).Debug("resolved lending pool")
	return pool, nil
}

// Approve lets spender pull amount of token from the account.
func (c *Client) Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (string, error) {
	erc20, err := contract.At("IERC20", token, c.rpc)
	if err != nil {
		return "", err
	}
	return c.transact(ctx, erc20, nil, "approve", spender, amount)
}

// Deposit supplies amount of asset to the pool on behalf of onBehalfOf.
func (c *Client) Deposit(ctx context.Context, pool, asset common.Address, amount *big.Int, onBehalfOf common.Address) (string, error) {
	lp, err := contract.At("ILendingPool", pool, c.rpc)
	if err != nil {
		return "", err
	}
	return c.transact(ctx, lp, nil, "deposit", asset, amount, onBehalfOf, config.ReferralCode)
}

// Borrow borrows amount of asset at the stable rate.
func (c *Client) Borrow(ctx context.Context, pool, asset common.Address, amount *big.Int, onBehalfOf common.Address) (string, error) {
	lp, err := contract.At("ILendingPool", pool, c.rpc)
	if err != nil {
		return "", err
	}
	return c.transact(ctx, lp, nil, "borrow", asset, amount, config.InterestRateMode(), config.ReferralCode, onBehalfOf)
}

// Repay pays back amount of a stable-rate asset debt.
func (c *Client) Repay(ctx context.Context, pool, asset common.Address, amount *big.Int, onBehalfOf common.Address) (string, error) {
	lp, err := contract.At("ILendingPool", pool, c.rpc)
	if err != nil {
		return "", err
	}
	return c.transact(ctx, lp, nil, "repay", asset, amount, config.InterestRateMode(), onBehalfOf)
}

// AccountData reads getUserAccountData for user.
func (c *Client) AccountData(ctx context.Context, pool, user common.Address) (*AccountData, error) {
	lp, err := contract.At("ILendingPool", pool, c.rpc)
	if err != nil {
		return nil, err
	}
	out, err := lp.Call("getUserAccountData", user)
	if err != nil {
		return nil, err
	}
	vals, err := bigs(out, 6)
	if err != nil {
		return nil, fmt.Errorf("decoding account data: %w", err)
	}
	data := &AccountData{
		TotalCollateralETH:          vals[0],
		TotalDebtETH:                vals[1],
		AvailableBorrowsETH:         vals[2],
		CurrentLiquidationThreshold: vals[3],
		LTV:                         vals[4],
		HealthFactor:                vals[5],
	}
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"user":       user.Hex(),
		"collateral": data.Collateral().String(),
		"debt":       data.Debt().String(),
		"available":  data.AvailableBorrows().String(),
	}).Debug("account data")
	return data, nil
}

// LatestPrice reads the latest DAI/ETH round from the price feed.
func (c *Client) LatestPrice(ctx context.Context) (*Quote, error) {
	feed, err := contract.At("AggregatorV3Interface", common.HexToAddress(c.addrs.DAIETHPriceFeed), c.rpc)
	if err != nil {
		return nil, err
	}

	out, err := feed.Call("decimals")
	if err != nil {
		return nil, err
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return nil, fmt.Errorf("decoding feed decimals: unexpected %T", out[0])
	}

	out, err = feed.Call("latestRoundData")
	if err != nil {
		return nil, err
	}
	vals, err := bigs(out, 5)
	if err != nil {
		return nil, fmt.Errorf("decoding round data: %w", err)
	}
	q := &Quote{
		RoundID:   vals[0],
		Answer:    vals[1],
		Decimals:  decimals,
		UpdatedAt: time.Unix(vals[3].Int64(), 0).UTC(),
	}
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"round": q.RoundID.String(),
		"price": q.Price().String(),
	}).Debug("oracle price")
	return q, nil
}

// Wait blocks until hash has the given number of confirmations.
func (c *Client) Wait(ctx context.Context, hash string, confirmations uint64) error {
	if c.confirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.confirmTimeout)
		defer cancel()
	}
	receipt, err := c.rpc.WaitForConfirmations(ctx, hash, confirmations)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"hash":  hash,
		"block": receipt.BlockNumber,
		"gas":   receipt.GasUsed,
	}).Info("transaction confirmed")
	return nil
}

func (c *Client) transact(ctx context.Context, k *contract.Contract, value *big.Int, method string, args ...interface{}) (string, error) {
	if c.sender == nil {
		return "", ErrReadOnly
	}
	hash, err := k.Transact(ctx, c.sender, value, method, args...)
	if err != nil {
		return "", err
	}
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"contract": k.Artifact.Name,
		"method":   method,
		"hash":     hash,
	}).Info("transaction sent")
	return hash, nil
}

// bigs asserts that out holds n *big.Int values.
func bigs(out []interface{}, n int) ([]*big.Int, error) {
	if len(out) != n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(out))
	}
	vals := make([]*big.Int, n)
	for i, v := range out {
		b, ok := v.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("value %d: unexpected %T", i, v)
		}
		vals[i] = b
	}
	return vals, nil
}
