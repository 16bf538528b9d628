package radius

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicholasamorim/radiusgo/pkg/dictionary"
)

const testDict = `
ATTRIBUTE User-Name 1 string
ATTRIBUTE CHAP-Password 3 octets
ATTRIBUTE NAS-IP-Address 4 ipaddr
ATTRIBUTE Framed-Protocol 7 integer
ATTRIBUTE CHAP-Challenge 60 octets
ATTRIBUTE Acct-Delay-Time 41 integer
ATTRIBUTE Message-Authenticator 80 octets
ATTRIBUTE Tunnel-Group 97 tlv
ATTRIBUTE Tunnel-Group.1 97.1 string
ATTRIBUTE Tunnel-Group.2 97.2 integer
ATTRIBUTE Test-String 101 string
ATTRIBUTE Test-Integer 102 integer
`

func loadTestDict(t *testing.T) *dictionary.Dictionary {
	t.Helper()
	d := dictionary.New()
	require.NoError(t, d.LoadReader(strings.NewReader(testDict), "test.dict"))
	return d
}

func repeatByte(b byte) [16]byte {
	var out [16]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func TestRoundTripAccessRequest(t *testing.T) {
	d := loadTestDict(t)
	p := NewAuthPacket([]byte("s"), d)
	p.ID = 15
	p.Authenticator = repeatByte(0x41)

	require.NoError(t, p.Set("User-Name", "wichert"))
	require.NoError(t, p.Set("NAS-IP-Address", "192.168.1.10"))

	wire, err := p.Encode()
	require.NoError(t, err)

	assert.Equal(t, byte(0x01), wire[0])
	assert.Equal(t, byte(0x0F), wire[1])
	assert.Equal(t, byte(0x00), wire[2])
	assert.Equal(t, byte(0x24), wire[3])
	for i := 4; i < 20; i++ {
		assert.Equal(t, byte(0x41), wire[i])
	}

	expectedUserName := []byte{0x01, 0x09, 0x77, 0x69, 0x63, 0x68, 0x65, 0x72, 0x74}
	assert.Contains(t, string(wire), string(expectedUserName))

	expectedNAS := []byte{0x04, 0x06, 0xC0, 0xA8, 0x01, 0x0A}
	assert.Contains(t, string(wire), string(expectedNAS))

	decoded, err := Decode(wire, []byte("s"), d)
	require.NoError(t, err)
	names, err := decoded.Get("User-Name")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"wichert"}, names)
	nas, err := decoded.Get("NAS-IP-Address")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"192.168.1.10"}, nas)
}

func TestPwCryptVector(t *testing.T) {
	var authenticator [16]byte
	copy(authenticator[:], "01234567890ABCDE")

	got := PwCrypt([]byte("Simplon"), []byte("secret"), authenticator)
	want := []byte{0xd3, 0x55, 0x3b, 0xb2, 0x33, 0x0d, 0x11, 0xba, 0x07, 0xe3, 0xa8, 0x2a, 0xa8, 0x78, 0x14, 0x01}
	assert.Equal(t, want, got)

	plain := PwDecrypt(got, []byte("secret"), authenticator)
	assert.Equal(t, "Simplon", strings.TrimRight(string(plain), "\x00"))
}

func TestAccountingRequestAuthenticator(t *testing.T) {
	d := loadTestDict(t)
	p := NewAcctPacket([]byte("secret"), d)
	p.ID = 0

	wire, err := p.Encode()
	require.NoError(t, err)

	want := []byte{0x04, 0x00, 0x00, 0x14, 0x95, 0xdf, 0x90, 0xcc, 0x62, 0x6e, 0xfb, 0x15, 0x47, 0x21, 0x13, 0xea, 0xfa, 0x3e, 0x36, 0x0f}
	assert.Equal(t, want, wire)
}

func TestTLVSplitLargeChildren(t *testing.T) {
	d := loadTestDict(t)
	p := NewAuthPacket([]byte("s"), d)

	require.NoError(t, p.SetChild("Tunnel-Group", "Tunnel-Group.1", "value"))
	require.NoError(t, p.SetChild("Tunnel-Group", "Tunnel-Group.2", int64(2)))
	require.NoError(t, p.SetChild("Tunnel-Group", "Tunnel-Group.1", strings.Repeat("a", 245)))

	wire, err := p.Encode()
	require.NoError(t, err)

	body := wire[20:]
	var fragments [][]byte
	offset := 0
	for offset < len(body) {
		length := int(body[offset+1])
		fragments = append(fragments, body[offset:offset+length])
		offset += length
	}
	require.Len(t, fragments, 2)
	assert.Equal(t, byte(97), fragments[0][0])
	assert.Equal(t, byte(97), fragments[1][0])

	// first fragment carries sub-1's short value followed by all of sub-2,
	// in insertion order: value(1) then int(2).
	firstBody := fragments[0][2:]
	require.Equal(t, byte(1), firstBody[0])
	assert.Equal(t, 5, int(firstBody[1])-2)
	sub2Offset := int(firstBody[1])
	require.Equal(t, byte(2), firstBody[sub2Offset])

	// second fragment carries only the long fragment of sub-attribute 1: no
	// trailing sub-2 bytes once the long value ends.
	secondBody := fragments[1][2:]
	assert.Equal(t, byte(1), secondBody[0])
	assert.Equal(t, 245, int(secondBody[1])-2)
	assert.Len(t, secondBody, int(secondBody[1]))

	decoded, err := Decode(wire, []byte("s"), d)
	require.NoError(t, err)
	container, ok := decoded.Attrs.Get(AVPKey{Code: 97})
	require.True(t, ok)
	require.Len(t, container, 1)
	values1 := container[0].Children[1]
	require.Len(t, values1, 2)
	assert.Equal(t, "value", string(values1[0]))
	assert.Equal(t, strings.Repeat("a", 245), string(values1[1]))
	values2 := container[0].Children[2]
	require.Len(t, values2, 1)
}

func TestMessageAuthenticatorWithDuplicateAttributes(t *testing.T) {
	d := loadTestDict(t)
	req := NewAuthPacket([]byte("s"), d)
	req.ID = 3
	req.Authenticator = repeatByte(0x11)

	// An Access-Accept carrying the same attribute type twice, non-adjacent
	// to Message-Authenticator: verification must still locate attribute 80
	// and accept.
	accept, err := req.CreateReply()
	require.NoError(t, err)
	require.NoError(t, accept.Set("Test-String", "test"))
	require.NoError(t, accept.Set("Test-Integer", int64(1)))
	require.NoError(t, accept.Set("Test-String", "test"))
	accept.AddMessageAuthenticator()

	wire, err := accept.Encode()
	require.NoError(t, err)

	decoded, err := Decode(wire, []byte("s"), d)
	require.NoError(t, err)
	assert.True(t, decoded.VerifyMessageAuthenticator(req.Authenticator))
}

func TestShortVSADecodesToOpaquePayload(t *testing.T) {
	d := loadTestDict(t)

	// A Vendor-Specific AVP whose full wire length is 6: a vendor id but
	// no room for even one sub-attribute header. It must decode to an
	// opaque code-26 leaf, not a structured (and empty) vendor container.
	body := []byte{26, 6, 0x00, 0x00, 0x27, 0x0F}
	wire := make([]byte, 0, 20+len(body))
	wire = append(wire, 1, 9, 0, byte(20+len(body)))
	wire = append(wire, make([]byte, 16)...)
	wire = append(wire, body...)

	decoded, err := Decode(wire, []byte("s"), d)
	require.NoError(t, err)

	vals, ok := decoded.Attrs.Get(AVPKey{Code: 26})
	require.True(t, ok)
	require.Len(t, vals, 1)
	assert.Nil(t, vals[0].Children)
	assert.Equal(t, []byte{0x00, 0x00, 0x27, 0x0F}, vals[0].Raw)
}

func TestUserPasswordObfuscationRoundTrip(t *testing.T) {
	d := dictionary.New()
	src := "ATTRIBUTE User-Password 2 string encrypt=1"
	require.NoError(t, d.LoadReader(strings.NewReader(src), "test.dict"))

	p := NewAuthPacket([]byte("secret"), d)
	require.NoError(t, p.Set("User-Password", "Simplon"))

	wire, err := p.Encode()
	require.NoError(t, err)

	decoded, err := Decode(wire, []byte("secret"), d)
	require.NoError(t, err)
	vals, err := decoded.Get("User-Password")
	require.NoError(t, err)
	require.Len(t, vals, 1)
	assert.Equal(t, "Simplon", strings.TrimRight(vals[0].(string), "\x00"))
}

func TestCreateReplyVerifies(t *testing.T) {
	d := loadTestDict(t)
	req := NewAuthPacket([]byte("s"), d)
	req.ID = 42
	req.Authenticator = repeatByte(0x22)
	_, err := req.Encode()
	require.NoError(t, err)

	reply, err := req.CreateReply()
	require.NoError(t, err)
	require.NoError(t, reply.Set("Test-Integer", int64(10)))
	replyWire, err := reply.Encode()
	require.NoError(t, err)

	decodedReply, err := Decode(replyWire, []byte("s"), d)
	require.NoError(t, err)
	assert.True(t, VerifyReply(req, decodedReply))
}
