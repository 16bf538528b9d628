package dictionary

import (
	"github.com/nicholasamorim/radiusgo/pkg/bidict"
	"github.com/nicholasamorim/radiusgo/pkg/raddatatype"
)

// Encryption modes recognised on an ATTRIBUTE line's encrypt= option.
// EncryptNone and EncryptUserPassword are implemented by the packet codec;
// EncryptTunnel and
// EncryptAscend are accepted by the dictionary parser (so real-world
// dictionaries load without error) but rejected at encode/decode time,
// per the open question in the design notes.
const (
	EncryptNone = iota
	EncryptUserPassword
	EncryptTunnel
	EncryptAscend
)

// attrNamespace is an attribute namespace: a name -> Attribute map plus a
// name<->code bidirectional index, used identically for the dictionary's
// top-level namespace, a Vendor's namespace, and a TLV Attribute's
// children.
type attrNamespace struct {
	byName map[string]*Attribute
	index  *bidict.BiDict[string, int]
}

func newAttrNamespace() *attrNamespace {
	return &attrNamespace{
		byName: make(map[string]*Attribute),
		index:  bidict.New[string, int](),
	}
}

func (ns *attrNamespace) add(attr *Attribute) {
	ns.byName[attr.Name] = attr
	ns.index.Add(attr.Name, attr.Code)
}

func (ns *attrNamespace) byCode(code int) (*Attribute, bool) {
	name, ok := ns.index.Backward(code)
	if !ok {
		return nil, false
	}
	a, ok := ns.byName[name]
	return a, ok
}

// Attribute is a named leaf or container in the RADIUS attribute namespace.
// The name stored in a parent's children map always equals the child's own
// Name, and the parent's index stays in sync with its children map; both
// hold by construction, since attrNamespace.add is the only writer.
type Attribute struct {
	// Name is unique within the namespace that owns this attribute.
	Name string
	// Code is the 8-bit attribute number within its namespace.
	Code int
	// TypeName is the dictionary grammar type name, e.g. "integer".
	TypeName string
	// DataType is the codec for this attribute's wire type.
	DataType raddatatype.DataType
	// VendorID is nonzero when this attribute is owned directly by a
	// vendor's namespace (it is a top-level VSA sub-attribute); it is
	// zero for standard attributes and for attributes nested inside a
	// TLV one level deeper than the vendor boundary.
	VendorID uint32
	// Encrypt is the attribute's encryption mode (0 = none).
	Encrypt int
	// HasTag marks an attribute whose wire value is prefixed by a tag
	// byte (0 meaning "no tag present").
	HasTag bool

	// Values maps a symbolic VALUE name to its already-encoded byte
	// form, stored as a string so it is usable as a map key.
	Values *bidict.BiDict[string, string]

	children *attrNamespace
}

func newAttribute(name string, code int, typeName string, dt raddatatype.DataType) *Attribute {
	return &Attribute{
		Name:     name,
		Code:     code,
		TypeName: typeName,
		DataType: dt,
		Values:   bidict.New[string, string](),
		children: newAttrNamespace(),
	}
}

// Child looks up a direct child by its numeric sub-code (used for TLV and
// VSA decoding).
func (a *Attribute) Child(code int) (*Attribute, bool) {
	return a.children.byCode(code)
}

// ChildByName looks up a direct child by name (used for TLV/VSA encoding
// from a name-keyed packet map).
func (a *Attribute) ChildByName(name string) (*Attribute, bool) {
	c, ok := a.children.byName[name]
	return c, ok
}

// Children returns all direct children in unspecified order.
func (a *Attribute) Children() []*Attribute {
	out := make([]*Attribute, 0, len(a.children.byName))
	for _, c := range a.children.byName {
		out = append(out, c)
	}
	return out
}

func (a *Attribute) addChild(child *Attribute) {
	a.children.add(child)
}

// IsStructural reports whether this attribute is a "tlv" or "vsa"
// container rather than a leaf value.
func (a *Attribute) IsStructural() bool {
	return a.TypeName == "tlv" || a.TypeName == "vsa"
}

// Vendor represents a RADIUS vendor: a name, a numeric SMI enterprise
// number, and its own attribute namespace, nested under the synthetic
// Vendor-Specific (code 26) attribute.
type Vendor struct {
	Name string
	ID   uint32

	attrs *attrNamespace
}

func newVendor(name string, id uint32) *Vendor {
	return &Vendor{Name: name, ID: id, attrs: newAttrNamespace()}
}

// Attribute looks up one of the vendor's attributes by its sub-code.
func (v *Vendor) Attribute(code int) (*Attribute, bool) {
	return v.attrs.byCode(code)
}

// AttributeByName looks up one of the vendor's attributes by name.
func (v *Vendor) AttributeByName(name string) (*Attribute, bool) {
	a, ok := v.attrs.byName[name]
	return a, ok
}

func (v *Vendor) addAttribute(attr *Attribute) {
	attr.VendorID = v.ID
	v.attrs.add(attr)
}
