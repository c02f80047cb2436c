// Package decoder turns raw event logs into attestation records.
//
// A Decoder holds a closed set of declared event definitions keyed by the
// Keccak-256 hash of their canonical signature. Matching is by exact topic
// hash only: two textually different signatures that hashed to the same
// value would be indistinguishable, and no broader intent is inferred.
package decoder

import (
	"fmt"

	"github.com/hedeqiang/seal/event"
	abiutil "github.com/hedeqiang/seal/internal/abi"
)

const wordSize = 32

// Decoder decodes matched event logs into Records using registered
// event definitions.
type Decoder struct {
	schema *Schema
}

// New creates an empty Decoder.
func New() *Decoder {
	return &Decoder{
		schema: NewSchema(),
	}
}

// Register parses a Solidity event signature and registers it for decoding.
// The declared event must carry at least one bytes32 parameter; that
// parameter is the record's content digest. Example:
//
//	dec.Register("TransferSent(bytes32 indexed digest)")
func (d *Decoder) Register(eventSignature string) (*EventDef, error) {
	parsed, err := abiutil.ParseEventSignature(eventSignature)
	if err != nil {
		return nil, fmt.Errorf("decoder: %w", err)
	}

	def, err := buildDef(parsed)
	if err != nil {
		return nil, err
	}

	d.schema.Add(def)
	return def, nil
}

// Lookup returns the registered definition for the given topic0 hash.
func (d *Decoder) Lookup(sigHash event.Hash) (*EventDef, bool) {
	return d.schema.Lookup(sigHash)
}

// Decode extracts the Record for a log whose topic0 matches a registered
// definition. The log is assumed to come from a verified view; a topic match
// with a malformed payload is an error, never a silent skip.
func (d *Decoder) Decode(log event.Log) (*Record, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("decoder: log has no topics")
	}

	def, ok := d.schema.Lookup(log.Topics[0])
	if !ok {
		return nil, fmt.Errorf("decoder: unknown event signature %x", log.Topics[0])
	}

	digest, err := def.digestOf(log)
	if err != nil {
		return nil, err
	}

	return &Record{
		Name:    def.Name,
		Digest:  digest,
		Emitter: log.Address,
		Raw:     log,
	}, nil
}

// Record is one decoded occurrence of a declared event: the 32-byte content
// digest of the event payload together with the emitting contract's native
// address.
type Record struct {
	// Name is the event name (e.g. "TransferSent").
	Name string

	// Digest is the event's declared bytes32 content digest.
	Digest event.Hash

	// Emitter is the contract that emitted the event.
	Emitter event.Address

	// Raw is the original unmodified event log.
	Raw event.Log
}

func buildDef(parsed *abiutil.ParsedEvent) (*EventDef, error) {
	canonical := parsed.Canonical()

	inputs := make([]ParamDef, len(parsed.Params))
	digestAt := -1
	indexedCount := 0
	for i, p := range parsed.Params {
		inputs[i] = ParamDef{
			Name:    p.Name,
			Type:    p.Type,
			Indexed: p.Indexed,
		}
		if p.Indexed {
			indexedCount++
		}
		if p.Type == "bytes32" && digestAt < 0 {
			digestAt = i
		}
	}
	if digestAt < 0 {
		return nil, fmt.Errorf("decoder: event %q has no bytes32 parameter to use as content digest", canonical)
	}

	def := &EventDef{
		Name:      parsed.Name,
		Signature: canonical,
		SigHash:   abiutil.EventSignatureHash(canonical),
		Inputs:    inputs,
		indexed:   indexedCount,
	}

	// Locate the digest word once, at registration. Indexed parameters
	// occupy topics 1..n in declaration order; non-indexed parameters fill
	// the data section's head, where a parameter spans as many words as
	// its ABI head width: static tuples and fixed arrays take several,
	// dynamic types take a single offset word.
	topic := 1
	dataOff := 0
	for i, p := range parsed.Params {
		if p.Indexed {
			if i == digestAt {
				def.digestTopic = topic
				return def, nil
			}
			topic++
			continue
		}
		if i == digestAt {
			def.digestOffset = dataOff
			return def, nil
		}
		words, err := abiutil.TypeWords(p.Type)
		if err != nil {
			return nil, fmt.Errorf("decoder: event %q: %w", canonical, err)
		}
		dataOff += words * wordSize
	}

	// Unreachable: digestAt points at one of the walked parameters.
	return nil, fmt.Errorf("decoder: event %q: digest parameter not located", canonical)
}

// digestOf extracts the digest parameter's 32-byte word from the log.
func (def *EventDef) digestOf(log event.Log) (event.Hash, error) {
	if len(log.Topics) != 1+def.indexed {
		return event.Hash{}, fmt.Errorf("decoder: event %s: got %d topics, want %d", def.Name, len(log.Topics), 1+def.indexed)
	}

	if def.digestTopic > 0 {
		return log.Topics[def.digestTopic], nil
	}

	if len(log.Data) < def.digestOffset+wordSize {
		return event.Hash{}, fmt.Errorf("decoder: event %s: data too short for digest at offset %d", def.Name, def.digestOffset)
	}
	var h event.Hash
	copy(h[:], log.Data[def.digestOffset:def.digestOffset+wordSize])
	return h, nil
}
