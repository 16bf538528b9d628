package dictionary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSimpleAttribute(t *testing.T) {
	d := New()
	src := `
# a comment
ATTRIBUTE User-Name 1 string
ATTRIBUTE Framed-IP-Address 8 ipaddr
`
	require.NoError(t, d.LoadReader(strings.NewReader(src), "test.dict"))

	a, ok := d.AttributeByName("User-Name")
	require.True(t, ok)
	assert.Equal(t, 1, a.Code)
	assert.Equal(t, "string", a.TypeName)

	a2, ok := d.AttributeByCode(8)
	require.True(t, ok)
	assert.Equal(t, "Framed-IP-Address", a2.Name)
}

func TestLoadVendorAndValue(t *testing.T) {
	d := New()
	src := `
VENDOR Acme 9999
BEGIN-VENDOR Acme
ATTRIBUTE Acme-User-Level 1 integer
VALUE Acme-User-Level Admin 1
VALUE Acme-User-Level Guest 2
END-VENDOR Acme
`
	require.NoError(t, d.LoadReader(strings.NewReader(src), "test.dict"))

	v, ok := d.VendorByName("Acme")
	require.True(t, ok)
	assert.Equal(t, uint32(9999), v.ID)

	a, ok := v.AttributeByName("Acme-User-Level")
	require.True(t, ok)
	assert.Equal(t, uint32(9999), a.VendorID)

	enc, ok := a.Values.Forward("Admin")
	require.True(t, ok)
	assert.Equal(t, []byte{0, 0, 0, 1}, []byte(enc))
}

func TestLoadTLVNesting(t *testing.T) {
	d := New()
	src := `
ATTRIBUTE Tunnel-Group 97 tlv
ATTRIBUTE Tunnel-Group.1 97.1 string
ATTRIBUTE Tunnel-Group.2 97.2 integer
`
	require.NoError(t, d.LoadReader(strings.NewReader(src), "test.dict"))

	parent, ok := d.AttributeByCode(97)
	require.True(t, ok)
	assert.True(t, parent.IsStructural())

	child, ok := parent.Child(1)
	require.True(t, ok)
	assert.Equal(t, "Tunnel-Group.1", child.Name)

	child2, ok := parent.ChildByName("Tunnel-Group.2")
	require.True(t, ok)
	assert.Equal(t, 2, child2.Code)
}

func TestDeferredValueResolvesAfterLaterAttribute(t *testing.T) {
	d := New()
	src := `
VALUE Framed-Protocol PPP 1
ATTRIBUTE Framed-Protocol 7 integer
`
	require.NoError(t, d.LoadReader(strings.NewReader(src), "test.dict"))

	a, ok := d.AttributeByName("Framed-Protocol")
	require.True(t, ok)
	_, ok = a.Values.Forward("PPP")
	assert.True(t, ok)
}

func TestUnknownVendorIsParseError(t *testing.T) {
	d := New()
	src := `BEGIN-VENDOR Nonexistent`
	err := d.LoadReader(strings.NewReader(src), "test.dict")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestInlineVendorFormRoutesIntoVendorNamespace(t *testing.T) {
	d := New()
	src := `
VENDOR Legacy 111
ATTRIBUTE Legacy-Attr 5 string Legacy
`
	require.NoError(t, d.LoadReader(strings.NewReader(src), "test.dict"))

	v, ok := d.VendorByName("Legacy")
	require.True(t, ok)
	a, ok := v.AttributeByName("Legacy-Attr")
	require.True(t, ok)
	assert.Equal(t, uint32(111), a.VendorID)
}
