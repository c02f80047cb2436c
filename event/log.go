// Package event defines the core value types for attested event logs.
package event

// Hash represents a 32-byte hash.
type Hash [32]byte

// Address represents a 20-byte Ethereum-compatible contract address.
type Address [20]byte

// Log represents a single event log emitted by a smart contract within one
// block. All positional fields refer to that block: TxIndex is the emitting
// transaction's position and Index is the log's position in the block-wide
// emission order.
type Log struct {
	// Address is the contract address that emitted the event.
	Address Address

	// Topics contains the indexed event parameters.
	// Topics[0] is the event signature hash.
	Topics []Hash

	// Data holds the non-indexed event parameters (ABI-encoded).
	Data []byte

	// BlockNumber is the block in which this log was emitted.
	BlockNumber uint64

	// TxIndex is the emitting transaction's position in the block.
	TxIndex uint

	// Index is the log's position in the block-wide emission order.
	Index uint
}

// EventSignature returns the first topic (event signature hash), or a zero
// hash if no topics exist.
func (l Log) EventSignature() Hash {
	if len(l.Topics) > 0 {
		return l.Topics[0]
	}
	return Hash{}
}
