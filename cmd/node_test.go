package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Mohsinsiddi/aaveborrow/internal/contract"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

// Well-known Hardhat/Anvil test account #0, never fund on mainnet.
const (
	testPrivKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAccount    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	testPool       = "0x7d2768dE32b0b80b7a3454c06BdAc94A69DDc7A9"
)

// node is a JSON-RPC fake for a local mainnet fork. eth_call is answered by
// function selector; every sent transaction is decoded and kept in order.
type node struct {
	*httptest.Server

	mu       sync.Mutex
	chainID  string
	calls    map[string]string
	reverts  map[string]bool // selectors whose transactions revert
	failEst  map[string]bool // selectors whose gas estimate reverts
	sent     []*types.Transaction
	reverted map[string]bool // hashes
}

func newNode(t *testing.T) *node {
	t.Helper()
	n := &node{
		chainID:  "0x7a69",
		calls:    map[string]string{},
		reverts:  map[string]bool{},
		failEst:  map[string]bool{},
		reverted: map[string]bool{},
	}
	n.Server = httptest.NewServer(http.HandlerFunc(n.serve))
	t.Cleanup(n.Close)
	return n
}

func (n *node) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
		ID     int               `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	var (
		result  interface{}
		rpcErr  string
		errCode = -32000
	)
	switch req.Method {
	case "eth_chainId":
		result = n.chainID
	case "eth_blockNumber":
		result = "0x10"
	case "eth_gasPrice":
		result = "0x3b9aca00"
	case "eth_estimateGas":
		var call struct {
			Data string `json:"data"`
		}
		json.Unmarshal(req.Params[0], &call) //nolint:errcheck
		if len(call.Data) >= 10 && n.failEst[call.Data[:10]] {
			rpcErr, errCode = "execution reverted: 11", 3
			break
		}
		result = "0x30d40"
	case "eth_getTransactionCount":
		result = hexutil.EncodeUint64(uint64(len(n.sent)))
	case "eth_call":
		var call struct {
			Data string `json:"data"`
		}
		json.Unmarshal(req.Params[0], &call) //nolint:errcheck
		out, ok := n.calls[call.Data[:10]]
		if !ok {
			rpcErr = "execution reverted"
			break
		}
		result = out
	case "eth_sendRawTransaction":
		var raw string
		json.Unmarshal(req.Params[0], &raw) //nolint:errcheck
		tx := new(types.Transaction)
		b, _ := hexutil.Decode(raw)
		if err := tx.UnmarshalBinary(b); err != nil {
			rpcErr = err.Error()
			break
		}
		n.sent = append(n.sent, tx)
		hash := fmt.Sprintf("0x%064x", len(n.sent))
		if n.reverts[hexutil.Encode(tx.Data()[:4])] {
			n.reverted[hash] = true
		}
		result = hash
	case "eth_getTransactionReceipt":
		var hash string
		json.Unmarshal(req.Params[0], &hash) //nolint:errcheck
		status := "0x1"
		if n.reverted[hash] {
			status = "0x0"
		}
		result = map[string]string{"status": status, "blockNumber": "0x10", "gasUsed": "0x5208"}
	default:
		rpcErr = "method not found"
	}

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if rpcErr != "" {
		resp["error"] = map[string]interface{}{"code": errCode, "message": rpcErr}
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp) //nolint:errcheck
}

// onCall answers eth_call to signature with the ABI-encoded outputs of
// artifact.method.
func (n *node) onCall(t *testing.T, signature, artifact, method string, vals ...interface{}) {
	t.Helper()
	a, err := contract.Lookup(artifact)
	require.NoError(t, err)
	out, err := a.ABI.Methods[method].Outputs.Pack(vals...)
	require.NoError(t, err)
	n.mu.Lock()
	n.calls[contract.Selector(signature)] = hexutil.Encode(out)
	n.mu.Unlock()
}

func (n *node) revert(signature string) {
	n.mu.Lock()
	n.reverts[contract.Selector(signature)] = true
	n.mu.Unlock()
}

// failEstimate makes eth_estimateGas revert for calls to signature.
func (n *node) failEstimate(signature string) {
	n.mu.Lock()
	n.failEst[contract.Selector(signature)] = true
	n.mu.Unlock()
}

// selectors returns the 4-byte selector of every sent transaction in order.
func (n *node) selectors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.sent))
	for i, tx := range n.sent {
		out[i] = hexutil.Encode(tx.Data()[:4])
	}
	return out
}

func (n *node) transactions() []*types.Transaction {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*types.Transaction(nil), n.sent...)
}
