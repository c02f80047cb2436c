// Command verify decodes an encoded journal and checks its config digest
// against a named chain specification, the way an off-chain verifier would
// before validating the commitment itself.
//
// Usage:
//
//	go run ./example/verify ethereum 0x<journal-hex>
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hedeqiang/seal/chain"
	"github.com/hedeqiang/seal/internal/hex"
	"github.com/hedeqiang/seal/journal"
)

func main() {
	if len(os.Args) != 3 {
		log.Fatalf("usage: %s <chain> <journal-hex>", os.Args[0])
	}

	spec, ok := chain.Lookup(os.Args[1])
	if !ok {
		log.Fatalf("unknown chain %q", os.Args[1])
	}

	raw, err := hex.Decode(os.Args[2])
	if err != nil {
		log.Fatalf("invalid journal hex: %v", err)
	}

	j, err := journal.Decode(raw)
	if err != nil {
		log.Fatalf("decode journal: %v", err)
	}

	fmt.Printf("commitment version: %d\n", j.Commitment.Version())
	fmt.Printf("block:              %d (%s)\n", j.Commitment.BlockNumber(), j.Commitment.Digest)
	fmt.Printf("eventDigest:        %s\n", j.Digest)
	fmt.Printf("emitter:            %s\n", j.Emitter)

	if j.Commitment.ConfigID != spec.ConfigID() {
		log.Fatalf("journal was produced under a different %s chain spec", spec.Name)
	}
	fmt.Printf("config digest matches %s spec\n", spec.Name)
}
