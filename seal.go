// Package seal produces a cryptographically verifiable attestation that a
// specific event log was emitted by a specific contract inside a specific
// committed block.
//
// It is designed to run inside a zero-knowledge guest: the pipeline reads a
// state-proof bundle, a contract address and a log index from the guest
// input channel, reconstructs a verified view of the block, selects one
// occurrence of the declared event, and commits a fixed-layout journal
// binding {block commitment, event digest, universal emitter address}.
//
// Usage:
//
//	env := seal.NewStdEnv(os.Stdin, os.Stdout)
//	err := seal.Run(env, seal.WithChainSpec(chain.Sepolia))
//
// Execution is single-threaded and strictly linear; every failure is fatal
// and leaves the output channel untouched.
package seal

import (
	"fmt"

	"github.com/hedeqiang/seal/chain"
	"github.com/hedeqiang/seal/decoder"
	"github.com/hedeqiang/seal/event"
	"github.com/hedeqiang/seal/filter"
	"github.com/hedeqiang/seal/journal"
	"github.com/hedeqiang/seal/view"
)

// DefaultEventSignature is the compiled-in attested event: a cross-chain
// transfer message identified by its digest.
//
// Topic0 is 0x3e6ae56314c6da8b461d872f41c6d0bb69317b9d0232805aaccfa45df1a16fa0.
const DefaultEventSignature = "TransferSent(bytes32 indexed digest)"

// Seal is a configured attestation pipeline. The chain specification and the
// event definition are fixed at construction; per-invocation inputs come
// from the Env.
type Seal struct {
	spec *chain.Spec
	sig  string

	dec *decoder.Decoder
	def *decoder.EventDef
}

// New creates a Seal with the given options. The configured event signature
// is parsed and registered once, up front; a signature without a bytes32
// digest parameter is rejected here rather than mid-invocation.
func New(opts ...Option) (*Seal, error) {
	s := &Seal{
		spec: chain.Mainnet,
		sig:  DefaultEventSignature,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.dec = decoder.New()
	def, err := s.dec.Register(s.sig)
	if err != nil {
		return nil, fmt.Errorf("seal: register event: %w", err)
	}
	s.def = def

	return s, nil
}

// Run executes one attestation against the guest environment: deserialize
// input, reconstruct the verified view, select the requested event
// occurrence, canonicalize the emitter address and commit the encoded
// journal. On success exactly one journal has been committed; on error
// nothing has been written and the returned error wraps one of the package's
// sentinel errors.
func (s *Seal) Run(env Env) error {
	// Ordered, positional input: bundle, 20-byte address, u32 log index.
	bundle, err := env.ReadFrame()
	if err != nil {
		return fmt.Errorf("%w: read bundle: %v", ErrInputDecoding, err)
	}
	addrBytes, err := env.ReadBytes(20)
	if err != nil {
		return fmt.Errorf("%w: read contract address: %v", ErrInputDecoding, err)
	}
	index, err := env.ReadUint32()
	if err != nil {
		return fmt.Errorf("%w: read log index: %v", ErrInputDecoding, err)
	}

	var addr event.Address
	copy(addr[:], addrBytes)

	in, err := view.DecodeInput(bundle)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInputDecoding, err)
	}

	v, err := view.Reconstruct(in, s.spec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrViewReconstruction, err)
	}

	// Matching events in block-wide emission order; downstream consumers
	// key on "the Nth occurrence", so the order must never be derived from
	// anything but the verified receipts.
	matches := v.Query(filter.AllOf(
		filter.NewAddressFilter(addr),
		filter.NewTopicFilter(0, s.def.SigHash),
	))

	if uint64(index) >= uint64(len(matches)) {
		return fmt.Errorf("%w: index %d with %d matching events", ErrEventNotFound, index, len(matches))
	}

	rec, err := s.dec.Decode(matches[index])
	if err != nil {
		// Topic-matched but malformed payload: not a well-formed occurrence.
		return fmt.Errorf("%w: %v", ErrEventNotFound, err)
	}

	j := &journal.Journal{
		Commitment: v.Commitment(),
		Digest:     rec.Digest,
		Emitter:    rec.Emitter.Universal(),
	}
	out, err := j.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	if err := env.Commit(out); err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return nil
}

// Run is a convenience wrapper constructing a Seal and executing one
// attestation.
func Run(env Env, opts ...Option) error {
	s, err := New(opts...)
	if err != nil {
		return err
	}
	return s.Run(env)
}
