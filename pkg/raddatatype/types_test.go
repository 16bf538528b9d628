package raddatatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringRoundTrip(t *testing.T) {
	var s String
	enc, err := s.Encode("wichert")
	require.NoError(t, err)
	assert.Equal(t, []byte("wichert"), enc)

	dec, err := s.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, "wichert", dec)
}

func TestStringTooLong(t *testing.T) {
	var s String
	_, err := s.Encode(string(make([]byte, 254)))
	assert.Error(t, err)
}

func TestIpaddrRoundTrip(t *testing.T) {
	var ip Ipaddr
	enc, err := ip.Encode("192.168.1.10")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC0, 0xA8, 0x01, 0x0A}, enc)

	dec, err := ip.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.10", dec)
}

func TestIntegerRoundTrip(t *testing.T) {
	var n Integer
	enc, err := n.Encode(int64(0x00000002))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x02}, enc)

	dec, err := n.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, int64(2), dec)
}

func TestIntegerParseRange(t *testing.T) {
	var n Integer
	_, err := n.Parse("4294967296")
	assert.Error(t, err)

	v, err := n.Parse("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
}

func TestOctetsHexAndDecimal(t *testing.T) {
	var o Octets
	enc, err := o.Encode("0xC0A80001")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC0, 0xA8, 0x00, 0x01}, enc)

	enc, err = o.Encode("512")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x00}, enc)
}

func TestIpv6prefixRoundTrip(t *testing.T) {
	var p Ipv6prefix
	enc, err := p.Encode("2001:db8::/32")
	require.NoError(t, err)
	assert.Equal(t, byte(0), enc[0])
	assert.Equal(t, byte(32), enc[1])

	dec, err := p.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::/32", dec)
}

func TestEtherRoundTrip(t *testing.T) {
	var e Ether
	enc, err := e.Encode("00:11:22:33:44:55")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}, enc)

	dec, err := e.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, "00:11:22:33:44:55", dec)
}

func TestIfidPrintStripsColons(t *testing.T) {
	var f Ifid
	s, err := f.Print("0011:2233:4455:6677")
	require.NoError(t, err)
	assert.Equal(t, "0011223344556677", s)
}

func TestDateParseAndPrint(t *testing.T) {
	var d Date
	v, err := d.Parse("2024-01-02T03:04:05")
	require.NoError(t, err)

	s, err := d.Print(v)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T03:04:05", s)
}

func TestAscendBinaryLength(t *testing.T) {
	var a AscendBinary
	enc, err := a.Encode("family=ipv4 action=accept direction=in src=192.168.1.0/24 dst=0.0.0.0/0 sport=0 dport=80 proto=6")
	require.NoError(t, err)
	assert.Len(t, enc, 32)
}

func TestRegistryHasAllGrammarTypes(t *testing.T) {
	for _, name := range []string{
		"abinary", "byte", "date", "ether", "ifid", "integer", "integer64",
		"ipaddr", "ipv6addr", "ipv6prefix", "octets", "short", "signed",
		"string", "tlv", "vsa",
	} {
		_, ok := Lookup(name)
		assert.True(t, ok, "missing datatype %s", name)
	}
}
