// Command attest builds a state-proof bundle for one block, runs the guest
// pipeline locally, and prints the resulting journal.
//
// Usage:
//
//	go run ./example/attest https://mainnet.example/rpc 19000000 0x3ee18b2214aff97000d974cf647e7c347e8fa585 0
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	seal "github.com/hedeqiang/seal"
	"github.com/hedeqiang/seal/chain"
	"github.com/hedeqiang/seal/event"
	"github.com/hedeqiang/seal/host"
	"github.com/hedeqiang/seal/journal"
	"github.com/hedeqiang/seal/retry"
	"github.com/hedeqiang/seal/transport"
)

func main() {
	if len(os.Args) != 5 {
		log.Fatalf("usage: %s <rpc-url> <block-number> <contract> <log-index>", os.Args[0])
	}
	rpcURL := os.Args[1]

	blockNumber, err := strconv.ParseUint(os.Args[2], 10, 64)
	if err != nil {
		log.Fatalf("invalid block number: %v", err)
	}
	contract, err := event.HexToAddress(os.Args[3])
	if err != nil {
		log.Fatal(err)
	}
	logIndex, err := strconv.ParseUint(os.Args[4], 10, 32)
	if err != nil {
		log.Fatalf("invalid log index: %v", err)
	}

	t := transport.NewHTTP(rpcURL)
	defer t.Close()

	builder := host.NewBuilder(t,
		host.WithChainSpec(chain.Mainnet),
		host.WithRetry(retry.Exponential(3)),
	)

	in, err := builder.InputByNumber(context.Background(), blockNumber)
	if err != nil {
		log.Fatalf("build input: %v", err)
	}

	var guestIn, guestOut bytes.Buffer
	if err := host.WriteGuestInput(&guestIn, in, contract, uint32(logIndex)); err != nil {
		log.Fatalf("write guest input: %v", err)
	}

	if err := seal.Run(seal.NewStdEnv(&guestIn, &guestOut)); err != nil {
		log.Fatalf("attestation failed: %v", err)
	}

	j, err := journal.Decode(guestOut.Bytes())
	if err != nil {
		log.Fatalf("decode journal: %v", err)
	}

	fmt.Printf("journal:     0x%x\n", guestOut.Bytes())
	fmt.Printf("block:       %d (%s)\n", j.Commitment.BlockNumber(), j.Commitment.Digest)
	fmt.Printf("config:      %s\n", j.Commitment.ConfigID)
	fmt.Printf("eventDigest: %s\n", j.Digest)
	fmt.Printf("emitter:     %s\n", j.Emitter)
}
