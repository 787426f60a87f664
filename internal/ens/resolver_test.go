package ens

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Mohsinsiddi/aaveborrow/internal/chain"
	"github.com/Mohsinsiddi/aaveborrow/internal/contract"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Namehash: EIP-137 vectors
// ---------------------------------------------------------------------------

func TestNamehash(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"eth", "93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae"},
		{"foo.eth", "de9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Namehash(tt.name)
			assert.Equal(t, tt.want, hex.EncodeToString(h[:]))
		})
	}
}

func TestNamehashDistinguishesLabels(t *testing.T) {
	assert.NotEqual(t, Namehash("alice.eth"), Namehash("bob.eth"))
	assert.NotEqual(t, Namehash("test.eth"), Namehash("sub.test.eth"))
	assert.NotEqual(t, Namehash("Test.eth"), Namehash("test.eth"), "names must be normalised before hashing")
}

func TestIsName(t *testing.T) {
	assert.True(t, IsName("vitalik.eth"))
	assert.True(t, IsName("sub.aave.eth"))
	assert.False(t, IsName("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"))
	assert.False(t, IsName("deployer"))
}

// ---------------------------------------------------------------------------
// Resolve / ReverseLookup: mock RPC keyed by selector
// ---------------------------------------------------------------------------

// word left-pads an address into one 32-byte ABI word.
func word(hexAddr string) string {
	h := strings.TrimPrefix(strings.ToLower(hexAddr), "0x")
	return "0x" + strings.Repeat("0", 64-len(h)) + h
}

func ensRPCMock(t *testing.T, bySelector map[string]string) *chain.EVMClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
			ID     int               `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		w.Header().Set("Content-Type", "application/json")

		if req.Method == "eth_call" {
			var call struct {
				Data string `json:"data"`
			}
			json.Unmarshal(req.Params[0], &call) //nolint:errcheck
			if result, ok := bySelector[call.Data[:10]]; ok {
				json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
					"jsonrpc": "2.0", "id": req.ID, "result": result,
				})
				return
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0", "id": req.ID,
			"error": map[string]interface{}{"code": -32000, "message": "execution reverted"},
		})
	}))
	t.Cleanup(srv.Close)
	return chain.NewEVMClient(srv.URL)
}

func TestResolve(t *testing.T) {
	client := ensRPCMock(t, map[string]string{
		contract.Selector("resolver(bytes32)"): word("0x4976fb03c32e5b8cfe2b6ccb31c09ba78ebaba41"),
		contract.Selector("addr(bytes32)"):     word("0xd8da6bf26964af9d7eed9e03e53415d37aa96045"),
	})

	addr, err := Resolve("vitalik.eth", client)
	require.NoError(t, err)
	assert.Equal(t, "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", addr.Hex())
}

func TestResolveNoResolver(t *testing.T) {
	client := ensRPCMock(t, map[string]string{
		contract.Selector("resolver(bytes32)"): word("0x0"),
	})
	_, err := Resolve("nonexistent.eth", client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no resolver")
}

func TestResolveNoAddressRecord(t *testing.T) {
	client := ensRPCMock(t, map[string]string{
		contract.Selector("resolver(bytes32)"): word("0x4976fb03c32e5b8cfe2b6ccb31c09ba78ebaba41"),
		contract.Selector("addr(bytes32)"):     word("0x0"),
	})
	_, err := Resolve("empty.eth", client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no address record")
}

func TestReverseLookup(t *testing.T) {
	encodedName := "0x" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"000000000000000000000000000000000000000000000000000000000000000b" +
		"766974616c696b2e657468000000000000000000000000000000000000000000"
	client := ensRPCMock(t, map[string]string{
		contract.Selector("resolver(bytes32)"): word("0xa58e81fe9b61b5c3fe2b0882a7c0716277277deb"),
		contract.Selector("name(bytes32)"):     encodedName,
	})

	name, err := ReverseLookup(common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"), client)
	require.NoError(t, err)
	assert.Equal(t, "vitalik.eth", name)
}

func TestReverseLookupNoResolver(t *testing.T) {
	client := ensRPCMock(t, map[string]string{
		contract.Selector("resolver(bytes32)"): word("0x0"),
	})
	_, err := ReverseLookup(common.HexToAddress("0x1234567890abcdef1234567890abcdef12345678"), client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no reverse record")
}
