// Package view reconstructs a verified, commitment-bound view of one block's
// event logs from an untrusted state-proof bundle.
//
// Reconstruction recomputes the receipts trie root from the bundled receipts
// and requires it to equal the root carried in the block header. Every log
// readable through the View is therefore provably part of the block named by
// the Commitment; there is no way to read unverified state through it.
package view

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/holiman/uint256"

	"github.com/hedeqiang/seal/chain"
	"github.com/hedeqiang/seal/event"
	"github.com/hedeqiang/seal/filter"
)

// CommitmentVersion identifies the commitment layout. It occupies the high
// 16 bits of the commitment ID so verifiers can dispatch on it.
const CommitmentVersion = 1

// Commitment cryptographically names the block state a view was
// reconstructed from. A journal embedding this commitment is only as good as
// the commitment's own validation against the chain, which is the verifier's
// job; the guest guarantees that everything in the journal is consistent
// with it.
type Commitment struct {
	// ID packs the commitment version (high 16 bits) and the block number.
	ID *uint256.Int

	// Digest is the hash of the committed block.
	Digest event.Hash

	// ConfigID is the chain specification digest the view was built under.
	ConfigID event.Hash
}

func newCommitmentID(blockNumber uint64) *uint256.Int {
	id := uint256.NewInt(blockNumber)
	ver := uint256.NewInt(CommitmentVersion)
	ver.Lsh(ver, 240)
	return id.Or(id, ver)
}

// Version extracts the commitment version from the ID.
func (c Commitment) Version() uint16 {
	v := new(uint256.Int).Rsh(c.ID, 240)
	return uint16(v.Uint64())
}

// BlockNumber extracts the committed block number from the ID.
func (c Commitment) BlockNumber() uint64 {
	n := new(uint256.Int).Lsh(uint256.NewInt(1), 240)
	n.SubUint64(n, 1)
	n.And(n, c.ID)
	return n.Uint64()
}

// View is a verified, in-memory view of one block's event logs. It is owned
// by a single invocation and never outlives it. Construct only through
// Reconstruct.
type View struct {
	commitment Commitment
	logs       []event.Log
}

// Reconstruct verifies the bundle against the given chain specification and
// returns the resulting view. It fails if the receipts do not reproduce the
// header's receipts root, if any receipt is undecodable, or if the header
// shape contradicts the spec's fork schedule. Failure is fatal to the
// invocation; no partial view is returned.
func Reconstruct(in *Input, spec *chain.Spec) (*View, error) {
	if spec == nil {
		return nil, fmt.Errorf("view: nil chain spec")
	}

	var header types.Header
	if err := rlp.DecodeBytes(in.HeaderRLP, &header); err != nil {
		return nil, fmt.Errorf("view: decode header: %w", err)
	}

	receipts := make(types.Receipts, len(in.Receipts))
	for i, raw := range in.Receipts {
		r := new(types.Receipt)
		if err := r.UnmarshalBinary(raw); err != nil {
			return nil, fmt.Errorf("view: decode receipt %d: %w", i, err)
		}
		receipts[i] = r
	}

	derived := types.DeriveSha(receipts, trie.NewStackTrie(nil))
	if derived != header.ReceiptHash {
		return nil, fmt.Errorf("view: receipts root mismatch: derived %x, header has %x", derived, header.ReceiptHash)
	}

	if err := checkHeaderShape(&header, spec); err != nil {
		return nil, err
	}

	number := header.Number.Uint64()
	logs := flattenLogs(receipts, number)

	return &View{
		commitment: Commitment{
			ID:       newCommitmentID(number),
			Digest:   event.Hash(header.Hash()),
			ConfigID: spec.ConfigID(),
		},
		logs: logs,
	}, nil
}

// Commitment returns the commitment naming the verified block.
func (v *View) Commitment() Commitment {
	return v.commitment
}

// Query returns all logs matching the filter, in block-wide emission order.
func (v *View) Query(f filter.Filter) []event.Log {
	var out []event.Log
	for _, l := range v.logs {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// Logs returns a copy of all logs in the block, in emission order.
func (v *View) Logs() []event.Log {
	out := make([]event.Log, len(v.logs))
	copy(out, v.logs)
	return out
}

// checkHeaderShape rejects headers whose optional fields contradict the fork
// schedule. A bundle claiming a post-London block without a base fee (or the
// converse) was built under a different rule set than the spec.
func checkHeaderShape(h *types.Header, spec *chain.Spec) error {
	number := h.Number.Uint64()
	time := h.Time

	if spec.Active(chain.ForkLondon, number, time) != (h.BaseFee != nil) {
		return fmt.Errorf("view: header base fee inconsistent with %s fork schedule", spec.Name)
	}
	if spec.Active(chain.ForkShanghai, number, time) != (h.WithdrawalsHash != nil) {
		return fmt.Errorf("view: header withdrawals root inconsistent with %s fork schedule", spec.Name)
	}
	if spec.Active(chain.ForkCancun, number, time) != (h.ExcessBlobGas != nil) {
		return fmt.Errorf("view: header blob gas fields inconsistent with %s fork schedule", spec.Name)
	}
	return nil
}

// flattenLogs converts the receipts' logs into event logs with block-wide
// emission order. Positions are derived from the verified receipts, never
// taken from unverified metadata.
func flattenLogs(receipts types.Receipts, blockNumber uint64) []event.Log {
	var logs []event.Log
	index := uint(0)
	for txIndex, r := range receipts {
		for _, l := range r.Logs {
			topics := make([]event.Hash, len(l.Topics))
			for i, t := range l.Topics {
				topics[i] = event.Hash(t)
			}
			logs = append(logs, event.Log{
				Address:     event.Address(l.Address),
				Topics:      topics,
				Data:        l.Data,
				BlockNumber: blockNumber,
				TxIndex:     uint(txIndex),
				Index:       index,
			})
			index++
		}
	}
	return logs
}
