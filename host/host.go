// Package host builds guest input on the host side of the proving pipeline.
//
// The guest only accepts a bundle it can verify, so the host's job is pure
// data plumbing: fetch the block header and receipts from a JSON-RPC node,
// assemble the bundle, and prove to itself (by running the same
// reconstruction) that the guest will accept it. Nothing the host does is
// trusted; a corrupted bundle simply fails inside the guest.
package host

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/core/types"

	seal "github.com/hedeqiang/seal"
	"github.com/hedeqiang/seal/chain"
	"github.com/hedeqiang/seal/event"
	"github.com/hedeqiang/seal/internal/hex"
	"github.com/hedeqiang/seal/retry"
	"github.com/hedeqiang/seal/transport"
	"github.com/hedeqiang/seal/view"
)

// Builder assembles state-proof bundles from a JSON-RPC node.
type Builder struct {
	transport transport.Transport
	spec      *chain.Spec
	retry     retry.Strategy
}

// Option configures a Builder.
type Option func(*Builder)

// WithChainSpec sets the chain specification bundles are validated against.
// It must match the spec the guest runs with. Defaults to chain.Mainnet.
func WithChainSpec(spec *chain.Spec) Option {
	return func(b *Builder) {
		b.spec = spec
	}
}

// WithRetry sets the retry strategy for RPC calls. Defaults to no retries.
func WithRetry(s retry.Strategy) Option {
	return func(b *Builder) {
		b.retry = s
	}
}

// NewBuilder creates a Builder over the given transport.
func NewBuilder(t transport.Transport, opts ...Option) *Builder {
	b := &Builder{
		transport: t,
		spec:      chain.Mainnet,
		retry:     retry.None{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// InputByNumber builds a bundle for the block at the given height.
func (b *Builder) InputByNumber(ctx context.Context, number uint64) (*view.Input, error) {
	return b.buildInput(ctx, hex.EncodeUint64(number))
}

// InputByHash builds a bundle for the block with the given hash.
func (b *Builder) InputByHash(ctx context.Context, blockHash event.Hash) (*view.Input, error) {
	header, err := b.fetchHeader(ctx, "eth_getBlockByHash", blockHash.Hex())
	if err != nil {
		return nil, err
	}
	if event.Hash(header.Hash()) != blockHash {
		return nil, fmt.Errorf("host: node returned block %s for requested hash %s", header.Hash().Hex(), blockHash.Hex())
	}
	return b.assemble(ctx, header)
}

func (b *Builder) buildInput(ctx context.Context, numberParam string) (*view.Input, error) {
	header, err := b.fetchHeader(ctx, "eth_getBlockByNumber", numberParam)
	if err != nil {
		return nil, err
	}
	// Re-anchor on the hash so the receipts fetch cannot race a reorg.
	return b.assemble(ctx, header)
}

func (b *Builder) fetchHeader(ctx context.Context, method, blockParam string) (*types.Header, error) {
	result, err := b.call(ctx, method, blockParam, false)
	if err != nil {
		return nil, fmt.Errorf("host: %s: %w", method, err)
	}
	if len(result) == 0 || string(result) == "null" {
		return nil, fmt.Errorf("host: block %s not found", blockParam)
	}

	header := new(types.Header)
	if err := json.Unmarshal(result, header); err != nil {
		return nil, fmt.Errorf("host: parse header: %w", err)
	}
	return header, nil
}

func (b *Builder) assemble(ctx context.Context, header *types.Header) (*view.Input, error) {
	blockHash := header.Hash()

	result, err := b.call(ctx, "eth_getBlockReceipts", blockHash.Hex())
	if err != nil {
		return nil, fmt.Errorf("host: eth_getBlockReceipts: %w", err)
	}

	var receipts []*types.Receipt
	if err := json.Unmarshal(result, &receipts); err != nil {
		return nil, fmt.Errorf("host: parse receipts: %w", err)
	}

	in, err := view.NewInput(header, types.Receipts(receipts))
	if err != nil {
		return nil, err
	}

	// Run the guest's own reconstruction before handing the bundle out: a
	// bundle the guest would reject is a host bug or a lying node, and
	// either should surface here, not inside the prover.
	v, err := view.Reconstruct(in, b.spec)
	if err != nil {
		return nil, fmt.Errorf("host: bundle failed preflight verification: %w", err)
	}
	if v.Commitment().Digest != event.Hash(blockHash) {
		return nil, fmt.Errorf("host: bundle commits to %s, want %s", v.Commitment().Digest, blockHash.Hex())
	}

	return in, nil
}

func (b *Builder) call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	var result json.RawMessage
	err := retry.Do(ctx, b.retry, func(ctx context.Context) error {
		res, err := b.transport.Call(ctx, method, params...)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	return result, err
}

// WriteGuestInput writes the three guest input values in the order and
// framing the guest's StdEnv expects: bundle frame, 20-byte contract
// address, little-endian u32 log index.
func WriteGuestInput(w io.Writer, in *view.Input, contract event.Address, logIndex uint32) error {
	bundle, err := in.Encode()
	if err != nil {
		return err
	}
	if err := seal.WriteFrame(w, bundle); err != nil {
		return err
	}
	if _, err := w.Write(contract[:]); err != nil {
		return fmt.Errorf("host: write contract address: %w", err)
	}
	return seal.WriteUint32(w, logIndex)
}
