package seal

import "errors"

// Every error in the pipeline is fatal: the invocation either commits one
// verifiable journal or produces no output at all. A fallback journal is
// never emitted, since an incorrect journal would be indistinguishable from
// a valid proof of a false statement.
var (
	// ErrInputDecoding is returned when the guest input is malformed,
	// truncated, or the state-proof bundle bytes cannot be deserialized.
	ErrInputDecoding = errors.New("seal: input decoding failed")

	// ErrViewReconstruction is returned when the state-proof bundle cannot
	// be verified against the chain specification.
	ErrViewReconstruction = errors.New("seal: view reconstruction failed")

	// ErrEventNotFound is returned when the requested log index is out of
	// range for the matching event set. It covers both "no matching events"
	// and "index too large"; the two are indistinguishable.
	ErrEventNotFound = errors.New("seal: event not found")

	// ErrEncoding is returned when the journal cannot be serialized or
	// committed. Unreachable with valid internal state; included for
	// completeness.
	ErrEncoding = errors.New("seal: journal encoding failed")
)
