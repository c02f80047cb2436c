package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedeqiang/seal/event"
)

var (
	transferSentTopic0 = event.MustHexToHash("0x3e6ae56314c6da8b461d872f41c6d0bb69317b9d0232805aaccfa45df1a16fa0")
	emitter            = event.MustHexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
)

func TestRegisterCanonicalizesSignature(t *testing.T) {
	dec := New()

	def, err := dec.Register("TransferSent(bytes32 indexed digest)")
	require.NoError(t, err)

	assert.Equal(t, "TransferSent", def.Name)
	assert.Equal(t, "TransferSent(bytes32)", def.Signature)
	assert.Equal(t, transferSentTopic0, def.SigHash)

	got, ok := dec.Lookup(transferSentTopic0)
	require.True(t, ok)
	assert.Same(t, def, got)
}

func TestRegisterRequiresDigestParameter(t *testing.T) {
	dec := New()

	_, err := dec.Register("Transfer(address indexed from, address indexed to, uint256 value)")
	assert.ErrorContains(t, err, "bytes32")
}

func TestDecodeIndexedDigest(t *testing.T) {
	dec := New()
	_, err := dec.Register("TransferSent(bytes32 indexed digest)")
	require.NoError(t, err)

	digest := event.MustHexToHash("0x0101010101010101010101010101010101010101010101010101010101010101")
	rec, err := dec.Decode(event.Log{
		Address: emitter,
		Topics:  []event.Hash{transferSentTopic0, digest},
	})
	require.NoError(t, err)

	assert.Equal(t, "TransferSent", rec.Name)
	assert.Equal(t, digest, rec.Digest)
	assert.Equal(t, emitter, rec.Emitter)
}

func TestDecodeDataSectionDigest(t *testing.T) {
	dec := New()
	def, err := dec.Register("MessagePublished(address indexed sender, bytes32 digest)")
	require.NoError(t, err)

	sender := event.MustHexToHash("0x000000000000000000000000bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	digest := event.MustHexToHash("0x0202020202020202020202020202020202020202020202020202020202020202")

	rec, err := dec.Decode(event.Log{
		Address: emitter,
		Topics:  []event.Hash{def.SigHash, sender},
		Data:    append([]byte{}, digest[:]...),
	})
	require.NoError(t, err)
	assert.Equal(t, digest, rec.Digest)
}

func word(b byte) []byte {
	w := make([]byte, 32)
	w[31] = b
	return w
}

func TestDecodeDigestAfterStaticTuple(t *testing.T) {
	dec := New()
	def, err := dec.Register("Priced((uint256,uint256) pair, bytes32 digest)")
	require.NoError(t, err)

	digest := event.MustHexToHash("0xd00d000000000000000000000000000000000000000000000000000000000000")

	// The tuple spans two head words; the digest is the third.
	var data []byte
	data = append(data, word(1)...)
	data = append(data, word(2)...)
	data = append(data, digest[:]...)

	rec, err := dec.Decode(event.Log{
		Address: emitter,
		Topics:  []event.Hash{def.SigHash},
		Data:    data,
	})
	require.NoError(t, err)
	assert.Equal(t, digest, rec.Digest)
}

func TestDecodeDigestAfterFixedArray(t *testing.T) {
	dec := New()
	def, err := dec.Register("Batch(uint256[3] amounts, bytes32 digest)")
	require.NoError(t, err)

	digest := event.MustHexToHash("0x0404040404040404040404040404040404040404040404040404040404040404")

	var data []byte
	for b := byte(1); b <= 3; b++ {
		data = append(data, word(b)...)
	}
	data = append(data, digest[:]...)

	rec, err := dec.Decode(event.Log{
		Address: emitter,
		Topics:  []event.Hash{def.SigHash},
		Data:    data,
	})
	require.NoError(t, err)
	assert.Equal(t, digest, rec.Digest)
}

func TestDecodeDigestAfterDynamicParam(t *testing.T) {
	dec := New()
	def, err := dec.Register("Noted(string memo, bytes32 digest)")
	require.NoError(t, err)

	digest := event.MustHexToHash("0x0505050505050505050505050505050505050505050505050505050505050505")

	// The string's head is one offset word; the digest follows it. The
	// tail (offset, length, contents) comes after the head.
	var data []byte
	data = append(data, word(0x40)...)
	data = append(data, digest[:]...)
	data = append(data, word(4)...)
	data = append(data, append([]byte("memo"), make([]byte, 28)...)...)

	rec, err := dec.Decode(event.Log{
		Address: emitter,
		Topics:  []event.Hash{def.SigHash},
		Data:    data,
	})
	require.NoError(t, err)
	assert.Equal(t, digest, rec.Digest)
}

func TestRegisterRejectsMalformedParameterType(t *testing.T) {
	dec := New()

	_, err := dec.Register("Bad(uint256[x] amounts, bytes32 digest)")
	assert.Error(t, err)
}

func TestDecodeErrors(t *testing.T) {
	dec := New()
	_, err := dec.Register("TransferSent(bytes32 indexed digest)")
	require.NoError(t, err)

	// No topics at all.
	_, err = dec.Decode(event.Log{})
	assert.Error(t, err)

	// Unregistered signature.
	_, err = dec.Decode(event.Log{Topics: []event.Hash{{0x01}}})
	assert.ErrorContains(t, err, "unknown event signature")

	// Topic0 matches but the indexed digest topic is missing.
	_, err = dec.Decode(event.Log{Topics: []event.Hash{transferSentTopic0}})
	assert.ErrorContains(t, err, "topics")
}

func TestDecodeShortDataSection(t *testing.T) {
	dec := New()
	def, err := dec.Register("MessagePublished(address indexed sender, bytes32 digest)")
	require.NoError(t, err)

	_, err = dec.Decode(event.Log{
		Topics: []event.Hash{def.SigHash, {}},
		Data:   make([]byte, 16),
	})
	assert.ErrorContains(t, err, "data too short")
}
