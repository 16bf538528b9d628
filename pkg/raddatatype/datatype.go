// Package raddatatype implements the RADIUS leaf wire-type codecs (string,
// octets, ipaddr, ipv6addr, ipv6prefix, date, the integer family, ether,
// ifid, abinary) described in RFC 2865 and its extensions. Each type
// supports the four operations required by the dictionary and packet
// codec: Encode, Decode, Parse, and Print.
//
// Structural types (tlv, vsa) are represented here only as registry
// placeholders — their actual framing, nesting, and automatic splitting
// live in package radius, which is the only place with enough context
// (attribute children, vendor IDs) to build and fragment them.
package raddatatype

import "fmt"

// DataType is the common interface every RADIUS wire type satisfies.
type DataType interface {
	// TypeName returns the dictionary grammar name, e.g. "integer".
	TypeName() string

	// Encode translates a decoded Go value into its wire-format bytes.
	// For leaf types this is the attribute VALUE only; the caller (the
	// packet codec) prefixes the code/length header.
	Encode(decoded interface{}) ([]byte, error)

	// Decode is the inverse of Encode for leaf types.
	Decode(raw []byte) (interface{}, error)

	// Print renders a decoded value as a human-readable string.
	Print(decoded interface{}) (string, error)

	// Parse translates a dictionary VALUE-line string into a decoded Go
	// value (the same shape Decode would have produced).
	Parse(s string) (interface{}, error)
}

// ErrUnsupported is returned by structural placeholder types when asked to
// perform leaf-level encode/decode; real TLV/VSA framing happens in
// package radius.
var ErrUnsupported = fmt.Errorf("raddatatype: operation not supported for structural type")

// ErrInvalidValue is returned when Encode/Parse is given a value that does
// not fit the wire type (wrong Go type, out of range, too long, …).
type ErrInvalidValue struct {
	Type   string
	Reason string
}

func (e *ErrInvalidValue) Error() string {
	return fmt.Sprintf("raddatatype: invalid value for type %s: %s", e.Type, e.Reason)
}

// Registry maps dictionary grammar type names to their DataType
// implementation. It is built once at package init and is read-only
// thereafter.
var Registry = map[string]DataType{
	"abinary":    AscendBinary{},
	"byte":       Byte{},
	"date":       Date{},
	"ether":      Ether{},
	"ifid":       Ifid{},
	"integer":    Integer{},
	"integer64":  Integer64{},
	"ipaddr":     Ipaddr{},
	"ipv6addr":   Ipv6addr{},
	"ipv6prefix": Ipv6prefix{},
	"octets":     Octets{},
	"short":      Short{},
	"signed":     Signed{},
	"string":     String{},
	"tlv":        TLV{},
	"vsa":        VSA{},
}

// Lookup returns the DataType registered under name, if any.
func Lookup(name string) (DataType, bool) {
	dt, ok := Registry[name]
	return dt, ok
}
