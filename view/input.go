package view

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

// Input is the state-proof bundle: everything needed to reconstruct a
// verified view of one block's event logs. The serialized form is opaque to
// callers; only this package reads or writes it.
type Input struct {
	// HeaderRLP is the RLP consensus encoding of the block header.
	HeaderRLP []byte

	// Receipts holds the block's receipts in transaction order, each in
	// EIP-2718 binary encoding.
	Receipts [][]byte
}

// NewInput assembles a bundle from a decoded header and its receipts.
func NewInput(header *types.Header, receipts types.Receipts) (*Input, error) {
	headerRLP, err := rlp.EncodeToBytes(header)
	if err != nil {
		return nil, fmt.Errorf("view: encode header: %w", err)
	}

	raw := make([][]byte, len(receipts))
	for i, r := range receipts {
		b, err := r.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("view: encode receipt %d: %w", i, err)
		}
		raw[i] = b
	}

	return &Input{HeaderRLP: headerRLP, Receipts: raw}, nil
}

// Encode serializes the bundle.
func (in *Input) Encode() ([]byte, error) {
	b, err := rlp.EncodeToBytes(in)
	if err != nil {
		return nil, fmt.Errorf("view: encode input: %w", err)
	}
	return b, nil
}

// DecodeInput deserializes a bundle. Truncated or malformed bytes are an
// error; no partially decoded bundle is ever returned.
func DecodeInput(b []byte) (*Input, error) {
	in := new(Input)
	if err := rlp.DecodeBytes(b, in); err != nil {
		return nil, fmt.Errorf("view: decode input: %w", err)
	}
	return in, nil
}
