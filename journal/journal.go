// Package journal defines the attestation output record and its canonical
// binary encoding.
//
// The encoding is the ABI encoding of the Solidity struct
//
//	struct Journal {
//	    Commitment commitment; // (uint256 id, bytes32 digest, bytes32 configID)
//	    bytes32 eventDigest;   // content digest of the selected event
//	    bytes32 emitter;       // universal address of the emitting contract
//	}
//
// which, all members being statically sized, is the concatenation of five
// 32-byte words: commitment id, commitment digest, config ID, event digest,
// emitter. Verifiers decode journals against this schema without access to
// the guest implementation.
package journal

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/holiman/uint256"

	"github.com/hedeqiang/seal/event"
	"github.com/hedeqiang/seal/view"
)

// EncodedLen is the size of an encoded journal in bytes.
const EncodedLen = 5 * 32

var journalArgs = abi.Arguments{
	{Name: "id", Type: mustType("uint256")},
	{Name: "commitmentDigest", Type: mustType("bytes32")},
	{Name: "configID", Type: mustType("bytes32")},
	{Name: "eventDigest", Type: mustType("bytes32")},
	{Name: "emitter", Type: mustType("bytes32")},
}

func mustType(s string) abi.Type {
	t, err := abi.NewType(s, "", nil)
	if err != nil {
		panic(fmt.Sprintf("journal: abi type %q: %v", s, err))
	}
	return t
}

// Journal is the attestation's sole observable output: one event occurrence
// bound to one block commitment. Immutable once constructed.
type Journal struct {
	// Commitment names the verified block and the chain spec it was
	// reconstructed under.
	Commitment view.Commitment

	// Digest is the selected event's content digest.
	Digest event.Hash

	// Emitter is the canonicalized address of the emitting contract.
	Emitter event.Universal
}

// Encode returns the canonical ABI encoding of the journal.
func (j *Journal) Encode() ([]byte, error) {
	if j.Commitment.ID == nil {
		return nil, fmt.Errorf("journal: commitment has no ID")
	}

	b, err := journalArgs.Pack(
		j.Commitment.ID.ToBig(),
		[32]byte(j.Commitment.Digest),
		[32]byte(j.Commitment.ConfigID),
		[32]byte(j.Digest),
		[32]byte(j.Emitter),
	)
	if err != nil {
		return nil, fmt.Errorf("journal: encode: %w", err)
	}
	return b, nil
}

// Decode parses an encoded journal. It is the verifier-side inverse of
// Encode and accepts exactly EncodedLen bytes.
func Decode(b []byte) (*Journal, error) {
	if len(b) != EncodedLen {
		return nil, fmt.Errorf("journal: encoded journal is %d bytes, want %d", len(b), EncodedLen)
	}

	vals, err := journalArgs.Unpack(b)
	if err != nil {
		return nil, fmt.Errorf("journal: decode: %w", err)
	}

	idBig, ok := vals[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("journal: decode: unexpected id type %T", vals[0])
	}
	id, overflow := uint256.FromBig(idBig)
	if overflow {
		return nil, fmt.Errorf("journal: decode: commitment id overflows 256 bits")
	}

	words := make([]event.Hash, 4)
	for i := 1; i < 5; i++ {
		w, ok := vals[i].([32]byte)
		if !ok {
			return nil, fmt.Errorf("journal: decode: unexpected word type %T at %d", vals[i], i)
		}
		words[i-1] = event.Hash(w)
	}

	return &Journal{
		Commitment: view.Commitment{
			ID:       id,
			Digest:   words[0],
			ConfigID: words[1],
		},
		Digest:  words[2],
		Emitter: event.Universal(words[3]),
	}, nil
}
