package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToAddressRoundTrip(t *testing.T) {
	const s = "0x3ee18b2214aff97000d974cf647e7c347e8fa585"

	addr, err := HexToAddress(s)
	require.NoError(t, err)
	assert.Equal(t, s, addr.Hex())
}

func TestHexToAddressShortInputIsLeftPadded(t *testing.T) {
	addr, err := HexToAddress("0x1")
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000001", addr.Hex())
}

func TestHexToAddressRejectsGarbage(t *testing.T) {
	_, err := HexToAddress("0xzz")
	assert.Error(t, err)
}

func TestHexToHashRoundTrip(t *testing.T) {
	const s = "0x3e6ae56314c6da8b461d872f41c6d0bb69317b9d0232805aaccfa45df1a16fa0"

	h, err := HexToHash(s)
	require.NoError(t, err)
	assert.Equal(t, s, h.Hex())
}

func TestEventSignatureTopicless(t *testing.T) {
	assert.Equal(t, Hash{}, Log{}.EventSignature())
}
