package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
)

// Minimal ERC-20 fragment, enough for read-only balance queries.
const erc20ABI = `[{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

// Balance is a wallet's stablecoin and native-coin balance.
type Balance struct {
	Token  decimal.Decimal `json:"token"`
	Native decimal.Decimal `json:"native"`
}

// Client reads wallet balances over JSON-RPC. It never signs or sends
// transactions.
type Client struct {
	eth           *ethclient.Client
	token         common.Address
	tokenDecimals int32
	erc20         abi.ABI
}

func NewClient(rpcURL, tokenAddress string, tokenDecimals int32) (*Client, error) {
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc %s: %w", rpcURL, err)
	}

	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}

	return &Client{
		eth:           eth,
		token:         common.HexToAddress(tokenAddress),
		tokenDecimals: tokenDecimals,
		erc20:         parsed,
	}, nil
}

// GetBalance returns the ERC-20 token balance and the native coin balance of
// address at the latest block.
func (c *Client) GetBalance(ctx context.Context, address string) (Balance, error) {
	addr := common.HexToAddress(address)

	data, err := c.erc20.Pack("balanceOf", addr)
	if err != nil {
		return Balance{}, fmt.Errorf("pack balanceOf: %w", err)
	}

	raw, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.token, Data: data}, nil)
	if err != nil {
		return Balance{}, fmt.Errorf("call balanceOf: %w", err)
	}

	out, err := c.erc20.Unpack("balanceOf", raw)
	if err != nil {
		return Balance{}, fmt.Errorf("unpack balanceOf: %w", err)
	}
	tokenUnits, ok := out[0].(*big.Int)
	if !ok {
		return Balance{}, fmt.Errorf("unexpected balanceOf return type %T", out[0])
	}

	wei, err := c.eth.BalanceAt(ctx, addr, nil)
	if err != nil {
		return Balance{}, fmt.Errorf("native balance: %w", err)
	}

	return Balance{
		Token:  decimal.NewFromBigInt(tokenUnits, -c.tokenDecimals),
		Native: decimal.NewFromBigInt(wei, -18),
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}
