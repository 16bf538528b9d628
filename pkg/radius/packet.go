// Package radius implements the RADIUS wire codec: packet construction,
// serialisation, parsing, and the authenticator/HMAC/CHAP cryptography
// defined by RFC 2865, RFC 2866, and RFC 5176. It is schema-aware — every
// encode/decode call is resolved against a *dictionary.Dictionary — which
// is what lets it frame and split TLV and Vendor-Specific attributes
// correctly, something the schema-agnostic raddatatype package cannot do
// on its own.
package radius

import (
	"net"

	"github.com/nicholasamorim/radiusgo/pkg/dictionary"
)

// Code is a RADIUS packet type, the first byte of every packet header.
type Code byte

// Packet type codes defined by RFC 2865, RFC 2866, and RFC 5176.
const (
	AccessRequest      Code = 1
	AccessAccept       Code = 2
	AccessReject       Code = 3
	AccountingRequest  Code = 4
	AccountingResponse Code = 5
	AccessChallenge    Code = 11
	StatusServer       Code = 12
	StatusClient       Code = 13
	DisconnectRequest  Code = 40
	DisconnectACK      Code = 41
	DisconnectNAK      Code = 42
	CoARequest         Code = 43
	CoAACK             Code = 44
	CoANAK             Code = 45
)

// replyCodes maps a request code to its default and alternate reply codes.
var replyCodes = map[Code]struct {
	Default Code
	Alt     []Code
}{
	AccessRequest:     {AccessAccept, []Code{AccessReject, AccessChallenge}},
	AccountingRequest: {AccountingResponse, nil},
	CoARequest:        {CoAACK, []Code{CoANAK}},
	DisconnectRequest: {DisconnectACK, []Code{DisconnectNAK}},
}

// DefaultReplyCode returns the default reply code for a request code, and
// false if code has no registered reply.
func DefaultReplyCode(code Code) (Code, bool) {
	r, ok := replyCodes[code]
	if !ok {
		return 0, false
	}
	return r.Default, true
}

// IsValidReply reports whether reply is a registered default or
// alternate reply for request.
func IsValidReply(request, reply Code) bool {
	r, ok := replyCodes[request]
	if !ok {
		return false
	}
	if reply == r.Default {
		return true
	}
	for _, alt := range r.Alt {
		if reply == alt {
			return true
		}
	}
	return false
}

// Packet is a single RADIUS message: header fields, its attribute list,
// and enough context (dictionary, secret) to encode or verify itself.
type Packet struct {
	Code          Code
	ID            byte
	Authenticator [16]byte
	Secret        []byte
	Dict          *dictionary.Dictionary
	Attrs         *AttributeList

	// RawPacket holds the wire bytes this Packet was decoded from, or the
	// bytes produced by its most recent Encode; nil before either.
	RawPacket []byte
	// MessageAuthenticatorPos is the byte offset of the
	// Message-Authenticator AVP within the encoded/raw form, or -1 if
	// absent.
	MessageAuthenticatorPos int
	// Source is the remote endpoint this packet was received from, nil
	// for locally constructed packets.
	Source net.Addr
	// ReplyAuthenticator is populated on a Packet built as a reply, so
	// verification can recompute it against the original request.
	ReplyAuthenticator [16]byte
	// IsReply marks this Packet as a response to some request, changing
	// which authenticator formula Encode uses.
	IsReply bool
	// RequestAuthenticator is the authenticator of the request this
	// Packet replies to; only meaningful when IsReply is true.
	RequestAuthenticator [16]byte
}

// New builds an empty Packet of the given code, bound to dict and secret.
// Access-Request and Status-Server packets get their random authenticator
// immediately, because it doubles as the seed for User-Password obfuscation
// and Set applies that obfuscation as attributes are added; for every other
// code the authenticator is left zero and Encode computes it from the final
// wire form.
func New(code Code, secret []byte, dict *dictionary.Dictionary) *Packet {
	p := &Packet{
		Code:                    code,
		Secret:                  secret,
		Dict:                    dict,
		Attrs:                   NewAttributeList(),
		MessageAuthenticatorPos: -1,
	}
	if code == AccessRequest || code == StatusServer {
		if a, err := randomAuthenticator(); err == nil {
			p.Authenticator = a
		}
	}
	return p
}

// NewAuthPacket builds an Access-Request packet.
func NewAuthPacket(secret []byte, dict *dictionary.Dictionary) *Packet {
	return New(AccessRequest, secret, dict)
}

// NewAcctPacket builds an Accounting-Request packet.
func NewAcctPacket(secret []byte, dict *dictionary.Dictionary) *Packet {
	return New(AccountingRequest, secret, dict)
}

// NewCoAPacket builds a CoA-Request packet.
func NewCoAPacket(secret []byte, dict *dictionary.Dictionary) *Packet {
	return New(CoARequest, secret, dict)
}

// NewDisconnectPacket builds a Disconnect-Request packet.
func NewDisconnectPacket(secret []byte, dict *dictionary.Dictionary) *Packet {
	return New(DisconnectRequest, secret, dict)
}

// NewStatusPacket builds a Status-Server packet (RFC 5997), a liveness
// probe carried over the same transport as Access-Requests.
func NewStatusPacket(secret []byte, dict *dictionary.Dictionary) *Packet {
	return New(StatusServer, secret, dict)
}

// attributeKeyForName resolves name to an AVPKey and its *dictionary.Attribute,
// searching the top-level namespace, then each vendor's namespace.
func (p *Packet) attributeKeyForName(name string) (AVPKey, *dictionary.Attribute, bool) {
	if attr, ok := p.Dict.AttributeByName(name); ok {
		return AVPKey{Code: attr.Code}, attr, true
	}
	return AVPKey{}, nil, false
}

// Set encodes value through the attribute's datatype and stores it under
// name, appending to any existing values (multi-valued attributes emit one
// AVP per stored value, in insertion order).
func (p *Packet) Set(name string, value interface{}) error {
	key, attr, ok := p.attributeKeyForName(name)
	if !ok {
		return PacketError("unknown attribute %s", name)
	}
	if attr.IsStructural() {
		return PacketError("attribute %s is structural; use SetChild", name)
	}
	raw, err := attr.DataType.Encode(value)
	if err != nil {
		return WrapError(ErrPacket, "encoding attribute "+name, err)
	}
	if attr.HasTag {
		raw = append([]byte{0}, raw...)
	}
	switch attr.Encrypt {
	case dictionary.EncryptUserPassword:
		raw = PwCrypt(raw, p.Secret, p.Authenticator)
	case dictionary.EncryptTunnel, dictionary.EncryptAscend:
		return PacketError("attribute %s uses unsupported encrypt=%d", name, attr.Encrypt)
	}
	p.Attrs.AddLeaf(key, raw)
	return nil
}

// Replace encodes value through the attribute's datatype and overwrites any
// existing value(s) stored under name with this single value, rather than
// appending another instance. Used where an attribute must carry exactly one
// cumulative value across a packet's lifetime, e.g. updating Acct-Delay-Time
// on an accounting retry.
func (p *Packet) Replace(name string, value interface{}) error {
	key, attr, ok := p.attributeKeyForName(name)
	if !ok {
		return PacketError("unknown attribute %s", name)
	}
	if attr.IsStructural() {
		return PacketError("attribute %s is structural; use SetChild", name)
	}
	raw, err := attr.DataType.Encode(value)
	if err != nil {
		return WrapError(ErrPacket, "encoding attribute "+name, err)
	}
	if attr.HasTag {
		raw = append([]byte{0}, raw...)
	}
	switch attr.Encrypt {
	case dictionary.EncryptUserPassword:
		raw = PwCrypt(raw, p.Secret, p.Authenticator)
	case dictionary.EncryptTunnel, dictionary.EncryptAscend:
		return PacketError("attribute %s uses unsupported encrypt=%d", name, attr.Encrypt)
	}
	p.Attrs.SetLeaf(key, raw)
	return nil
}

// Del removes every stored value for the standard attribute name.
func (p *Packet) Del(name string) error {
	key, _, ok := p.attributeKeyForName(name)
	if !ok {
		return PacketError("unknown attribute %s", name)
	}
	p.Attrs.Delete(key)
	return nil
}

// SetChild encodes value for a sub-attribute childName of a TLV or VSA
// attribute named parentName, merging it into that container's single
// logical value.
func (p *Packet) SetChild(parentName, childName string, value interface{}) error {
	parent, ok := p.Dict.AttributeByName(parentName)
	if !ok {
		return PacketError("unknown attribute %s", parentName)
	}
	if !parent.IsStructural() {
		return PacketError("attribute %s is not structural", parentName)
	}
	child, ok := parent.ChildByName(childName)
	if !ok {
		return PacketError("unknown child attribute %s.%s", parentName, childName)
	}
	raw, err := child.DataType.Encode(value)
	if err != nil {
		return WrapError(ErrPacket, "encoding attribute "+childName, err)
	}
	container := p.Attrs.ContainerFor(AVPKey{Code: parent.Code})
	container.AddChild(child.Code, raw)
	return nil
}

// SetVendor encodes value for a vendor sub-attribute and stores it under
// the Vendor-Specific container for that vendor.
func (p *Packet) SetVendor(vendorName, attrName string, value interface{}) error {
	vendor, ok := p.Dict.VendorByName(vendorName)
	if !ok {
		return PacketError("unknown vendor %s", vendorName)
	}
	attr, ok := vendor.AttributeByName(attrName)
	if !ok {
		return PacketError("unknown vendor attribute %s.%s", vendorName, attrName)
	}
	raw, err := attr.DataType.Encode(value)
	if err != nil {
		return WrapError(ErrPacket, "encoding attribute "+attrName, err)
	}
	container := p.Attrs.ContainerFor(AVPKey{Code: dictionary.VendorSpecificCode, VendorID: vendor.ID})
	container.AddChild(attr.Code, raw)
	return nil
}

// Get returns the decoded values stored under a standard attribute name,
// in insertion order.
func (p *Packet) Get(name string) ([]interface{}, error) {
	attr, ok := p.Dict.AttributeByName(name)
	if !ok {
		return nil, PacketError("unknown attribute %s", name)
	}
	vals, ok := p.Attrs.Get(AVPKey{Code: attr.Code})
	if !ok {
		return nil, nil
	}
	out := make([]interface{}, 0, len(vals))
	for _, v := range vals {
		raw := v.Raw
		if attr.HasTag && len(raw) > 0 {
			raw = raw[1:]
		}
		switch attr.Encrypt {
		case dictionary.EncryptUserPassword:
			raw = PwDecrypt(raw, p.Secret, p.Authenticator)
		case dictionary.EncryptTunnel, dictionary.EncryptAscend:
			return nil, PacketError("attribute %s uses unsupported encrypt=%d", name, attr.Encrypt)
		}
		dec, err := attr.DataType.Decode(raw)
		if err != nil {
			return nil, WrapError(ErrPacket, "decoding attribute "+name, err)
		}
		out = append(out, dec)
	}
	return out, nil
}

// CreateReply builds a reply Packet of the default reply code for p,
// copying id, secret, dictionary, and the request authenticator needed to
// compute the reply authenticator.
func (p *Packet) CreateReply() (*Packet, error) {
	code, ok := DefaultReplyCode(p.Code)
	if !ok {
		return nil, PacketError("no reply code registered for request code %d", p.Code)
	}
	reply := New(code, p.Secret, p.Dict)
	reply.ID = p.ID
	reply.IsReply = true
	reply.RequestAuthenticator = p.Authenticator
	reply.Source = p.Source
	return reply, nil
}
