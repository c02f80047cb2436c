package seal

import (
	"github.com/hedeqiang/seal/chain"
)

// Option configures a Seal instance.
type Option func(*Seal)

// WithChainSpec sets the chain specification the view is reconstructed
// under. Defaults to chain.Mainnet. The verifier of the resulting journal
// must hold the same spec.
func WithChainSpec(spec *chain.Spec) Option {
	return func(s *Seal) {
		s.spec = spec
	}
}

// WithEventSignature overrides the attested event signature. The signature
// must declare a bytes32 parameter to serve as the record's content digest.
// Defaults to DefaultEventSignature.
func WithEventSignature(sig string) Option {
	return func(s *Seal) {
		s.sig = sig
	}
}
