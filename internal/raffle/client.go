package raffle

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/w3raffle/internal/chain"
	"github.com/Mohsinsiddi/w3raffle/internal/contract"
	"github.com/ethereum/go-ethereum/common"
)

// Contract is everything the widget needs from the deployed raffle.
type Contract interface {
	Read(ctx context.Context, f Field) Reading
	Enter(ctx context.Context, fee *big.Int) (common.Hash, error)
	WaitConfirmed(ctx context.Context, hash common.Hash) error
}

// Invoker runs generic contract calls. *contract.Invoker satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, call contract.Call) (*contract.Result, error)
	Confirm(ctx context.Context, hash common.Hash, confirmations uint64) (*chain.TxReceipt, error)
}

// Client is the Contract implementation over an Invoker.
type Client struct {
	inv           Invoker
	addr          common.Address
	confirmations uint64
}

// NewClient binds inv to the raffle at addr.
func NewClient(inv Invoker, addr common.Address, confirmations uint64) *Client {
	if confirmations == 0 {
		confirmations = 1
	}
	return &Client{inv: inv, addr: addr, confirmations: confirmations}
}

// Read calls the view function behind f.
func (c *Client) Read(ctx context.Context, f Field) Reading {
	res, err := c.inv.Invoke(ctx, contract.Call{To: c.addr, Function: f.Function()})
	if err != nil {
		return Reading{Field: f, Err: err}
	}
	if len(res.Outputs) == 0 {
		return Reading{Field: f, Err: fmt.Errorf("%s returned no value", f.Function())}
	}
	return Reading{Field: f, Value: formatOutput(res.Outputs[0])}
}

// Enter calls enterRaffle with fee attached.
func (c *Client) Enter(ctx context.Context, fee *big.Int) (common.Hash, error) {
	res, err := c.inv.Invoke(ctx, contract.Call{To: c.addr, Function: contract.FnEnterRaffle, Value: fee})
	if err != nil {
		return common.Hash{}, err
	}
	return res.TxHash, nil
}

// WaitConfirmed blocks until hash has the configured confirmations.
func (c *Client) WaitConfirmed(ctx context.Context, hash common.Hash) error {
	_, err := c.inv.Confirm(ctx, hash, c.confirmations)
	return err
}

func formatOutput(v any) string {
	switch x := v.(type) {
	case *big.Int:
		return x.String()
	case common.Address:
		return x.Hex()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
