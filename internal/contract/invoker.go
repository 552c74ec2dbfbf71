package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Mohsinsiddi/w3raffle/internal/chain"
	"github.com/Mohsinsiddi/w3raffle/internal/config"
	"github.com/Mohsinsiddi/w3raffle/internal/logging"
	"github.com/Mohsinsiddi/w3raffle/internal/metrics"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

var (
	// ErrFunctionNotFound is returned when the ABI has no function of that name.
	ErrFunctionNotFound = errors.New("function not found in ABI")
	// ErrNoSigner is returned when a state-changing call has no signer.
	ErrNoSigner = errors.New("no signing wallet configured")
	// ErrNotPayable is returned when value is attached to a non-payable function.
	ErrNotPayable = errors.New("function is not payable")
)

// TxSigner signs transactions on behalf of one address. *wallet.Signer
// satisfies it.
type TxSigner interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error)
}

// Call names one contract function invocation.
type Call struct {
	To       common.Address
	Function string
	Args     []any
	Value    *big.Int // wei attached to the call, nil for none
}

// Result is what an invocation produced. Reads fill Outputs; writes fill TxHash.
type Result struct {
	Outputs []any
	TxHash  common.Hash
}

// Invoker runs contract calls over JSON-RPC.
type Invoker struct {
	client       *chain.EVMClient
	abi          abi.ABI
	signer       TxSigner
	chainID      *big.Int
	pollInterval time.Duration
	log          *zap.SugaredLogger
}

// InvokerOption configures an Invoker.
type InvokerOption func(*Invoker)

// WithSigner enables state-changing calls signed for chainID.
func WithSigner(s TxSigner, chainID *big.Int) InvokerOption {
	return func(i *Invoker) {
		i.signer = s
		i.chainID = chainID
	}
}

// WithPollInterval sets how often Confirm polls for a receipt.
func WithPollInterval(d time.Duration) InvokerOption {
	return func(i *Invoker) { i.pollInterval = d }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.SugaredLogger) InvokerOption {
	return func(i *Invoker) { i.log = l }
}

// NewInvoker creates an Invoker for contracts described by parsed.
func NewInvoker(client *chain.EVMClient, parsed abi.ABI, opts ...InvokerOption) *Invoker {
	i := &Invoker{
		client:       client,
		abi:          parsed,
		pollInterval: 2 * time.Second,
		log:          logging.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Invoke runs call. View and pure functions are executed with eth_call and
// their outputs decoded; everything else is signed and broadcast.
func (i *Invoker) Invoke(ctx context.Context, call Call) (res *Result, err error) {
	defer func() {
		metrics.ContractCalls.WithLabelValues(call.Function, metrics.Outcome(err)).Inc()
	}()

	method, ok := i.abi.Methods[call.Function]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, call.Function)
	}

	data, err := i.abi.Pack(call.Function, call.Args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", call.Function, err)
	}

	if method.IsConstant() {
		return i.read(ctx, method, call, data)
	}
	return i.write(ctx, method, call, data)
}

func (i *Invoker) read(ctx context.Context, method abi.Method, call Call, data []byte) (*Result, error) {
	var from common.Address
	if i.signer != nil {
		from = i.signer.Address()
	}
	i.log.Debugw("eth_call", "function", call.Function, "to", call.To.Hex())

	raw, err := i.client.CallContract(ctx, from, call.To, data)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", call.Function, err)
	}
	outputs, err := method.Outputs.Unpack(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s result: %w", call.Function, err)
	}
	return &Result{Outputs: outputs}, nil
}

func (i *Invoker) write(ctx context.Context, method abi.Method, call Call, data []byte) (*Result, error) {
	value := call.Value
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() > 0 && !method.IsPayable() {
		return nil, fmt.Errorf("%w: %s", ErrNotPayable, call.Function)
	}
	if i.signer == nil {
		return nil, ErrNoSigner
	}
	from := i.signer.Address()

	gas, err := i.client.EstimateGas(ctx, from, call.To, data, value)
	if err != nil {
		i.log.Debugw("Gas estimate failed, using fallback", "function", call.Function, "gas", config.GasLimitContractCall, "err", err)
		gas = config.GasLimitContractCall
	}

	gasPrice, err := i.client.GasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := i.client.PendingNonce(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}

	to := call.To
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   i.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})

	raw, err := i.signer.SignTx(tx, i.chainID)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := i.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("broadcasting transaction: %w", err)
	}
	i.log.Infow("Transaction sent", "function", call.Function, "hash", hash.Hex(), "value", value.String(), "nonce", nonce)
	return &Result{TxHash: hash}, nil
}

// Confirm blocks until hash has the requested number of confirmations.
func (i *Invoker) Confirm(ctx context.Context, hash common.Hash, confirmations uint64) (*chain.TxReceipt, error) {
	receipt, err := i.client.WaitForConfirmations(ctx, hash, confirmations, i.pollInterval)
	if err != nil {
		return receipt, err
	}
	i.log.Infow("Transaction confirmed", "hash", hash.Hex(), "block", receipt.BlockNumber, "gas_used", receipt.GasUsed)
	return receipt, nil
}
