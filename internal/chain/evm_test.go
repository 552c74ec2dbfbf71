package chain

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

type rpcReq struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
	ID     int               `json:"id"`
}

// rpcMock serves a fixed JSON-RPC result per method. Unknown methods return
// an RPC error. Every decoded request is sent to seen when it is non-nil.
func rpcMock(t *testing.T, responses map[string]any, seen chan<- rpcReq) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if seen != nil {
			seen <- req
		}
		w.Header().Set("Content-Type", "application/json")
		if result, ok := responses[req.Method]; ok {
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  result,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]any{"code": -32601, "message": "method not found"},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func rpcBadJSON(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{not valid json`)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ---------------------------------------------------------------------------
// simple getters
// ---------------------------------------------------------------------------

func TestChainIDHex(t *testing.T) {
	srv := rpcMock(t, map[string]any{"eth_chainId": "0x7a69"}, nil)
	id, err := NewEVMClient(srv.URL).ChainIDHex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0x7a69", id)
}

func TestBlockNumber(t *testing.T) {
	srv := rpcMock(t, map[string]any{"eth_blockNumber": "0x10"}, nil)
	n, err := NewEVMClient(srv.URL).BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(16), n)
}

func TestGasPrice(t *testing.T) {
	srv := rpcMock(t, map[string]any{"eth_gasPrice": "0x3b9aca00"}, nil)
	gp, err := NewEVMClient(srv.URL).GasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_000_000_000), gp)
}

func TestPendingNonce(t *testing.T) {
	seen := make(chan rpcReq, 1)
	srv := rpcMock(t, map[string]any{"eth_getTransactionCount": "0x5"}, seen)
	n, err := NewEVMClient(srv.URL).PendingNonce(context.Background(), common.HexToAddress("0x01"))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), n)

	req := <-seen
	require.Len(t, req.Params, 2)
	assert.JSONEq(t, `"pending"`, string(req.Params[1]))
}

func TestCallContractEncodesCalldata(t *testing.T) {
	seen := make(chan rpcReq, 1)
	srv := rpcMock(t, map[string]any{"eth_call": "0x000000000000000000000000000000000000000000000000000000000000002a"}, seen)

	to := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	out, err := NewEVMClient(srv.URL).CallContract(context.Background(), common.Address{}, to, []byte{0x09, 0xbc, 0x33, 0xa7})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), new(big.Int).SetBytes(out))

	req := <-seen
	var msg map[string]string
	require.NoError(t, json.Unmarshal(req.Params[0], &msg))
	assert.Equal(t, "0x09bc33a7", msg["data"])
	assert.Equal(t, to.Hex(), msg["to"])
	_, hasFrom := msg["from"]
	assert.False(t, hasFrom, "zero from address is omitted")
}

func TestEstimateGasIncludesValue(t *testing.T) {
	seen := make(chan rpcReq, 1)
	srv := rpcMock(t, map[string]any{"eth_estimateGas": "0x5208"}, seen)

	gas, err := NewEVMClient(srv.URL).EstimateGas(context.Background(),
		common.HexToAddress("0x01"), common.HexToAddress("0x02"), []byte{0x01}, big.NewInt(255))
	require.NoError(t, err)
	assert.Equal(t, uint64(21000), gas)

	req := <-seen
	var msg map[string]string
	require.NoError(t, json.Unmarshal(req.Params[0], &msg))
	assert.Equal(t, "0xff", msg["value"])
	assert.Equal(t, "0x01", msg["data"])
}

func TestSendRawTransaction(t *testing.T) {
	hash := "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"
	srv := rpcMock(t, map[string]any{"eth_sendRawTransaction": hash}, nil)
	got, err := NewEVMClient(srv.URL).SendRawTransaction(context.Background(), []byte{0x02, 0xf8})
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash(hash), got)
}

// ---------------------------------------------------------------------------
// errors
// ---------------------------------------------------------------------------

func TestRPCErrorIsTyped(t *testing.T) {
	srv := rpcMock(t, map[string]any{}, nil)
	_, err := NewEVMClient(srv.URL).BlockNumber(context.Background())
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32601, rpcErr.Code)
}

func TestBadJSONResponse(t *testing.T) {
	srv := rpcBadJSON(t)
	_, err := NewEVMClient(srv.URL).ChainIDHex(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing response")
}

func TestUnreachableEndpoint(t *testing.T) {
	_, err := NewEVMClient("http://127.0.0.1:1").GasPrice(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RPC request failed")
}

// ---------------------------------------------------------------------------
// receipts
// ---------------------------------------------------------------------------

func TestTransactionReceiptPending(t *testing.T) {
	srv := rpcMock(t, map[string]any{"eth_getTransactionReceipt": nil}, nil)
	r, err := NewEVMClient(srv.URL).TransactionReceipt(context.Background(), common.Hash{})
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestTransactionReceiptMined(t *testing.T) {
	srv := rpcMock(t, map[string]any{"eth_getTransactionReceipt": map[string]any{
		"status": "0x1", "blockNumber": "0x2a", "gasUsed": "0x5208",
	}}, nil)
	r, err := NewEVMClient(srv.URL).TransactionReceipt(context.Background(), common.HexToHash("0xab"))
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, uint64(1), r.Status)
	assert.Equal(t, uint64(42), r.BlockNumber)
	assert.Equal(t, uint64(21000), r.GasUsed)
}

// receiptAfter serves a null receipt for the first `pending` polls and a mined
// receipt afterwards.
func receiptAfter(t *testing.T, pending int32, status string) *httptest.Server {
	t.Helper()
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcReq
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		var result any
		switch req.Method {
		case "eth_getTransactionReceipt":
			if polls.Add(1) > pending {
				result = map[string]any{"status": status, "blockNumber": "0x10", "gasUsed": "0x1"}
			}
		case "eth_blockNumber":
			result = "0x12"
		}
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result}) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWaitForConfirmationsPollsUntilMined(t *testing.T) {
	srv := receiptAfter(t, 2, "0x1")
	r, err := NewEVMClient(srv.URL).WaitForConfirmations(context.Background(), common.HexToHash("0x01"), 1, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), r.BlockNumber)
}

func TestWaitForConfirmationsDepth(t *testing.T) {
	srv := receiptAfter(t, 0, "0x1")
	// head 0x12 - block 0x10 + 1 = 3 confirmations
	_, err := NewEVMClient(srv.URL).WaitForConfirmations(context.Background(), common.HexToHash("0x01"), 3, time.Millisecond)
	require.NoError(t, err)
}

func TestWaitForConfirmationsReverted(t *testing.T) {
	srv := receiptAfter(t, 0, "0x0")
	_, err := NewEVMClient(srv.URL).WaitForConfirmations(context.Background(), common.HexToHash("0x01"), 1, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reverted")
}

func TestWaitForConfirmationsContextExpires(t *testing.T) {
	srv := receiptAfter(t, 1_000_000, "0x1")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewEVMClient(srv.URL).WaitForConfirmations(ctx, common.HexToHash("0x01"), 1, 5*time.Millisecond)
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	srv := rpcMock(t, map[string]any{"eth_blockNumber": "0x64"}, nil)
	latency, block, err := NewEVMClient(srv.URL).Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), block)
	assert.Greater(t, latency, time.Duration(0))
}
