package journal

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedeqiang/seal/event"
	"github.com/hedeqiang/seal/view"
)

func testJournal() *Journal {
	id := uint256.NewInt(18_000_000)
	ver := uint256.NewInt(view.CommitmentVersion)
	id.Or(id, ver.Lsh(ver, 240))

	return &Journal{
		Commitment: view.Commitment{
			ID:       id,
			Digest:   event.MustHexToHash("0x1111111111111111111111111111111111111111111111111111111111111111"),
			ConfigID: event.MustHexToHash("0x2222222222222222222222222222222222222222222222222222222222222222"),
		},
		Digest:  event.MustHexToHash("0x3333333333333333333333333333333333333333333333333333333333333333"),
		Emitter: event.MustHexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa").Universal(),
	}
}

func TestEncodeLayout(t *testing.T) {
	j := testJournal()

	enc, err := j.Encode()
	require.NoError(t, err)
	require.Len(t, enc, EncodedLen)

	// Five static 32-byte words in declaration order.
	idWord := j.Commitment.ID.Bytes32()
	assert.Equal(t, idWord[:], enc[0:32])
	assert.Equal(t, j.Commitment.Digest[:], enc[32:64])
	assert.Equal(t, j.Commitment.ConfigID[:], enc[64:96])
	assert.Equal(t, j.Digest[:], enc[96:128])
	assert.Equal(t, j.Emitter[:], enc[128:160])
}

func TestEncodeDeterministic(t *testing.T) {
	j := testJournal()

	a, err := j.Encode()
	require.NoError(t, err)
	b, err := j.Encode()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeRoundTrip(t *testing.T) {
	j := testJournal()

	enc, err := j.Encode()
	require.NoError(t, err)

	got, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, j, got)
	assert.Equal(t, uint16(view.CommitmentVersion), got.Commitment.Version())
	assert.Equal(t, uint64(18_000_000), got.Commitment.BlockNumber())
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	_, err := Decode(make([]byte, EncodedLen-1))
	assert.Error(t, err)

	_, err = Decode(make([]byte, EncodedLen+32))
	assert.Error(t, err)
}

func TestEncodeRequiresCommitmentID(t *testing.T) {
	j := testJournal()
	j.Commitment.ID = nil

	_, err := j.Encode()
	assert.Error(t, err)
}
