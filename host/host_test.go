package host

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seal "github.com/hedeqiang/seal"
	"github.com/hedeqiang/seal/chain"
	"github.com/hedeqiang/seal/event"
	abiutil "github.com/hedeqiang/seal/internal/abi"
	"github.com/hedeqiang/seal/journal"
	"github.com/hedeqiang/seal/transport"
	"github.com/hedeqiang/seal/view"
)

var (
	testSpec = &chain.Spec{
		Name:    "seal-test",
		ChainID: 1337,
		Forks:   []chain.Fork{{Name: chain.ForkFrontier, Activation: 0}},
	}

	manager = event.MustHexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	topic0  = abiutil.EventSignatureHash("TransferSent(bytes32)")
	digest0 = event.MustHexToHash("0xd000000000000000000000000000000000000000000000000000000000000000")
)

// nodeBlock carries both forms a real node serves: JSON over RPC and the
// consensus types the bundle is built from.
type nodeBlock struct {
	header   *types.Header
	receipts []*types.Receipt
}

func makeNodeBlock(t *testing.T) *nodeBlock {
	t.Helper()

	receipts := []*types.Receipt{{
		Type:              types.LegacyTxType,
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: 50_000,
		Logs: []*types.Log{{
			Address: common.Address(manager),
			Topics:  []common.Hash{common.Hash(topic0), common.Hash(digest0)},
			Data:    []byte{},
		}},
		// Non-consensus fields a node reports and the JSON codec requires.
		TxHash:  common.Hash{0x7a},
		GasUsed: 50_000,
	}}

	header := &types.Header{
		ParentHash:  common.Hash{0x01},
		UncleHash:   types.EmptyUncleHash,
		Root:        types.EmptyRootHash,
		TxHash:      types.EmptyRootHash,
		ReceiptHash: types.DeriveSha(types.Receipts(receipts), trie.NewStackTrie(nil)),
		Difficulty:  big.NewInt(1),
		Number:      big.NewInt(4200),
		GasLimit:    30_000_000,
		GasUsed:     50_000,
		Time:        1_600_000_000,
		Extra:       []byte{},
	}
	return &nodeBlock{header: header, receipts: receipts}
}

// serveNode runs a minimal JSON-RPC node over httptest.
func serveNode(t *testing.T, b *nodeBlock) *httptest.Server {
	t.Helper()

	headerJSON, err := json.Marshal(b.header)
	require.NoError(t, err)
	receiptsJSON, err := json.Marshal(b.receipts)
	require.NoError(t, err)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     uint64        `json:"id"`
			Method string        `json:"method"`
			Params []interface{} `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result json.RawMessage
		switch req.Method {
		case "eth_getBlockByNumber", "eth_getBlockByHash":
			result = headerJSON
		case "eth_getBlockReceipts":
			result = receiptsJSON
		default:
			result = json.RawMessage("null")
		}

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": result}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestInputByNumber(t *testing.T) {
	block := makeNodeBlock(t)
	server := serveNode(t, block)
	defer server.Close()

	b := NewBuilder(transport.NewHTTP(server.URL), WithChainSpec(testSpec))
	in, err := b.InputByNumber(context.Background(), 4200)
	require.NoError(t, err)

	v, err := view.Reconstruct(in, testSpec)
	require.NoError(t, err)
	assert.Equal(t, event.Hash(block.header.Hash()), v.Commitment().Digest)
}

func TestInputByHash(t *testing.T) {
	block := makeNodeBlock(t)
	server := serveNode(t, block)
	defer server.Close()

	b := NewBuilder(transport.NewHTTP(server.URL), WithChainSpec(testSpec))

	_, err := b.InputByHash(context.Background(), event.Hash(block.header.Hash()))
	require.NoError(t, err)

	// A node answering with a different block than requested is rejected.
	_, err = b.InputByHash(context.Background(), event.Hash{0x13, 0x37})
	assert.ErrorContains(t, err, "requested hash")
}

func TestInputRejectsLyingNode(t *testing.T) {
	block := makeNodeBlock(t)

	// Serve receipts the header never committed to.
	forged := makeNodeBlock(t)
	forged.receipts[0].Logs[0].Topics[1] = common.Hash{0x66}
	forged.header = block.header

	server := serveNode(t, forged)
	defer server.Close()

	b := NewBuilder(transport.NewHTTP(server.URL), WithChainSpec(testSpec))
	_, err := b.InputByNumber(context.Background(), 4200)
	assert.ErrorContains(t, err, "preflight verification")
}

func TestInputBlockNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID uint64 `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0", "id": req.ID, "result": nil,
		})
	}))
	defer server.Close()

	b := NewBuilder(transport.NewHTTP(server.URL), WithChainSpec(testSpec))
	_, err := b.InputByNumber(context.Background(), 99)
	assert.ErrorContains(t, err, "not found")
}

func TestWriteGuestInputEndToEnd(t *testing.T) {
	block := makeNodeBlock(t)
	server := serveNode(t, block)
	defer server.Close()

	b := NewBuilder(transport.NewHTTP(server.URL), WithChainSpec(testSpec))
	in, err := b.InputByNumber(context.Background(), 4200)
	require.NoError(t, err)

	var guestIn bytes.Buffer
	require.NoError(t, WriteGuestInput(&guestIn, in, manager, 0))

	var guestOut bytes.Buffer
	require.NoError(t, seal.Run(seal.NewStdEnv(&guestIn, &guestOut), seal.WithChainSpec(testSpec)))

	j, err := journal.Decode(guestOut.Bytes())
	require.NoError(t, err)
	assert.Equal(t, digest0, j.Digest)
	assert.Equal(t, manager.Universal(), j.Emitter)
	assert.Equal(t, event.Hash(block.header.Hash()), j.Commitment.Digest)
}
