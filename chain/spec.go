// Package chain defines chain specifications: the compiled-in consensus and
// fork parameters a verified view is reconstructed under. The same Spec must
// be used when reconstructing a view and when verifying the resulting
// commitment; its config digest is embedded in every commitment to enforce
// this.
package chain

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"

	"github.com/hedeqiang/seal/event"
)

// Canonical fork names, in rough activation order. Only forks that change
// the header shape matter for view reconstruction; the rest are carried so
// that two specs with different schedules never share a config digest.
const (
	ForkFrontier  = "frontier"
	ForkHomestead = "homestead"
	ForkByzantium = "byzantium"
	ForkIstanbul  = "istanbul"
	ForkLondon    = "london"
	ForkParis     = "paris"
	ForkShanghai  = "shanghai"
	ForkCancun    = "cancun"
	ForkPrague    = "prague"
)

// Fork is a single activation rule: a named fork becomes active at a block
// height or, for post-merge forks, at a timestamp.
type Fork struct {
	// Name is the canonical fork name.
	Name string

	// ByTime selects timestamp activation instead of block-height activation.
	ByTime bool

	// Activation is the activating block number, or Unix timestamp if ByTime.
	Activation uint64
}

// Spec identifies a chain's consensus and fork parameters. Specs are
// compiled-in constants; changing one requires a new build, not a runtime
// parameter.
type Spec struct {
	// Name is the registry key ("ethereum", "sepolia", ...).
	Name string

	// ChainID is the EIP-155 chain identifier.
	ChainID uint64

	// Forks is the activation schedule.
	Forks []Fork
}

// Active reports whether the named fork is active for a block at the given
// height and timestamp. Unknown fork names are never active.
func (s *Spec) Active(fork string, block, time uint64) bool {
	for _, f := range s.Forks {
		if f.Name != fork {
			continue
		}
		if f.ByTime {
			return time >= f.Activation
		}
		return block >= f.Activation
	}
	return false
}

// rlp encoding structure for the config digest. Forks are sorted by name so
// the digest does not depend on declaration order.
type specRLP struct {
	ChainID uint64
	Forks   []forkRLP
}

type forkRLP struct {
	Name       string
	ByTime     bool
	Activation uint64
}

// ConfigID returns the Keccak-256 digest of the spec's canonical encoding.
// It names the rule set a commitment was produced under: a verifier holding
// a different spec computes a different ConfigID and rejects the journal.
func (s *Spec) ConfigID() event.Hash {
	enc := specRLP{ChainID: s.ChainID, Forks: make([]forkRLP, len(s.Forks))}
	for i, f := range s.Forks {
		enc.Forks[i] = forkRLP{Name: f.Name, ByTime: f.ByTime, Activation: f.Activation}
	}
	sort.Slice(enc.Forks, func(i, j int) bool { return enc.Forks[i].Name < enc.Forks[j].Name })

	b, err := rlp.EncodeToBytes(&enc)
	if err != nil {
		// The encoding structure contains only RLP-encodable fields.
		panic(fmt.Sprintf("chain: encode spec %q: %v", s.Name, err))
	}

	h := sha3.NewLegacyKeccak256()
	h.Write(b)
	var out event.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Mainnet is the Ethereum mainnet specification.
var Mainnet = &Spec{
	Name:    "ethereum",
	ChainID: 1,
	Forks: []Fork{
		{Name: ForkFrontier, Activation: 0},
		{Name: ForkHomestead, Activation: 1_150_000},
		{Name: ForkByzantium, Activation: 4_370_000},
		{Name: ForkIstanbul, Activation: 9_069_000},
		{Name: ForkLondon, Activation: 12_965_000},
		{Name: ForkParis, Activation: 15_537_394},
		{Name: ForkShanghai, ByTime: true, Activation: 1_681_338_455},
		{Name: ForkCancun, ByTime: true, Activation: 1_710_338_135},
		{Name: ForkPrague, ByTime: true, Activation: 1_746_612_311},
	},
}

// Sepolia is the Sepolia testnet specification.
var Sepolia = &Spec{
	Name:    "sepolia",
	ChainID: 11155111,
	Forks: []Fork{
		{Name: ForkLondon, Activation: 0},
		{Name: ForkParis, Activation: 1_735_371},
		{Name: ForkShanghai, ByTime: true, Activation: 1_677_557_088},
		{Name: ForkCancun, ByTime: true, Activation: 1_706_655_072},
		{Name: ForkPrague, ByTime: true, Activation: 1_741_159_776},
	},
}

// Holesky is the Holesky testnet specification.
var Holesky = &Spec{
	Name:    "holesky",
	ChainID: 17000,
	Forks: []Fork{
		{Name: ForkLondon, Activation: 0},
		{Name: ForkParis, Activation: 0},
		{Name: ForkShanghai, ByTime: true, Activation: 1_696_000_704},
		{Name: ForkCancun, ByTime: true, Activation: 1_707_305_664},
		{Name: ForkPrague, ByTime: true, Activation: 1_740_434_112},
	},
}
