package eapmd5

import (
	"crypto/md5"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildChallengePacket(id byte, value []byte) []byte {
	length := 6 + len(value)
	out := make([]byte, length)
	out[0] = CodeRequest
	out[1] = id
	out[2] = byte(length >> 8)
	out[3] = byte(length)
	out[4] = TypeMD5Challenge
	out[5] = byte(len(value))
	copy(out[6:], value)
	return out
}

func TestParseChallenge(t *testing.T) {
	value := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03, 0x04}
	pkt := buildChallengePacket(7, value)

	ch, err := ParseChallenge(pkt)
	require.NoError(t, err)
	assert.Equal(t, byte(7), ch.Identifier)
	assert.Equal(t, value, ch.Value)
}

func TestParseChallengeRejectsWrongType(t *testing.T) {
	pkt := buildChallengePacket(1, []byte{0x01})
	pkt[4] = TypeIdentity
	_, err := ParseChallenge(pkt)
	require.Error(t, err)
}

func TestParseChallengeRejectsOverrunningValueSize(t *testing.T) {
	pkt := buildChallengePacket(1, []byte{0x01, 0x02})
	pkt[5] = 200
	_, err := ParseChallenge(pkt)
	require.Error(t, err)
}

func TestComputeResponseMatchesDirectDigest(t *testing.T) {
	challenge := []byte{0x10, 0x20, 0x30, 0x40}
	password := []byte("s3cr3t")

	got := ComputeResponse(9, password, challenge)

	h := md5.New()
	h.Write([]byte{9})
	h.Write(password)
	h.Write(challenge)
	assert.Equal(t, h.Sum(nil), got[:])
}

func TestResponseRoundTrip(t *testing.T) {
	challenge := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	digest := ComputeResponse(3, []byte("pw"), challenge)
	pkt := BuildMD5Response(3, digest)

	assert.Equal(t, CodeResponse, pkt[0])
	assert.Equal(t, byte(3), pkt[1])
	assert.Equal(t, TypeMD5Challenge, pkt[4])
	assert.Equal(t, byte(16), pkt[5])
	assert.Equal(t, digest[:], pkt[6:])
}

func TestIdentityResponse(t *testing.T) {
	pkt := BuildIdentityResponse(2, "wichert")
	assert.Equal(t, CodeResponse, pkt[0])
	assert.Equal(t, TypeIdentity, pkt[4])
	assert.Equal(t, "wichert", string(pkt[5:]))
	assert.Equal(t, len(pkt), int(pkt[2])<<8|int(pkt[3]))
}

func TestSplitAndJoinMessage(t *testing.T) {
	big := make([]byte, 600)
	for i := range big {
		big[i] = byte(i)
	}

	chunks := SplitMessage(big)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 253)
	assert.Len(t, chunks[1], 253)
	assert.Len(t, chunks[2], 94)

	assert.Equal(t, big, JoinMessage(chunks))
}
