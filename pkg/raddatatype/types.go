package raddatatype

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const maxLeafLength = 253

// --- shared numeric coercion helpers -----------------------------------

func toInt64(decoded interface{}) (int64, bool) {
	switch v := decoded.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case string:
		s := strings.TrimSpace(v)
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			u, uerr := strconv.ParseUint(s, 0, 64)
			if uerr != nil {
				return 0, false
			}
			return int64(u), true
		}
		return n, true
	default:
		return 0, false
	}
}

// --- String --------------------------------------------------------------

// String is the "string" datatype: UTF-8 text capped at 253 bytes.
type String struct{}

func (String) TypeName() string { return "string" }

func (String) Encode(decoded interface{}) ([]byte, error) {
	s, ok := decoded.(string)
	if !ok {
		return nil, &ErrInvalidValue{"string", "expected a string"}
	}
	if len(s) > maxLeafLength {
		return nil, &ErrInvalidValue{"string", "value exceeds 253 bytes"}
	}
	return []byte(s), nil
}

func (String) Decode(raw []byte) (interface{}, error) {
	return string(raw), nil
}

func (String) Print(decoded interface{}) (string, error) {
	s, ok := decoded.(string)
	if !ok {
		return "", &ErrInvalidValue{"string", "expected a string"}
	}
	return s, nil
}

func (String) Parse(s string) (interface{}, error) {
	return s, nil
}

// --- Octets ----------------------------------------------------------------

// Octets is the "octets" datatype: arbitrary binary data, optionally given
// as a "0x…" hex literal or a decimal-string (packed big-endian with
// leading zero bytes stripped).
type Octets struct{}

func (Octets) TypeName() string { return "octets" }

func (Octets) Encode(decoded interface{}) ([]byte, error) {
	var data []byte
	switch v := decoded.(type) {
	case []byte:
		data = v
	case string:
		switch {
		case strings.HasPrefix(v, "0x"):
			b, err := hex.DecodeString(v[2:])
			if err != nil {
				return nil, &ErrInvalidValue{"octets", "invalid hex literal"}
			}
			data = b
		case isDecimal(v):
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return nil, &ErrInvalidValue{"octets", "invalid decimal literal"}
			}
			buf := make([]byte, 8)
			binary.BigEndian.PutUint64(buf, n)
			i := 0
			for i < len(buf)-1 && buf[i] == 0 {
				i++
			}
			data = buf[i:]
		default:
			data = []byte(v)
		}
	default:
		return nil, &ErrInvalidValue{"octets", "expected []byte or string"}
	}
	if len(data) > maxLeafLength {
		return nil, &ErrInvalidValue{"octets", "value exceeds 253 bytes"}
	}
	return data, nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (Octets) Decode(raw []byte) (interface{}, error) {
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (Octets) Print(decoded interface{}) (string, error) {
	b, ok := decoded.([]byte)
	if !ok {
		return "", &ErrInvalidValue{"octets", "expected []byte"}
	}
	return "0x" + hex.EncodeToString(b), nil
}

func (Octets) Parse(s string) (interface{}, error) {
	return s, nil
}

// --- Ipaddr ----------------------------------------------------------------

// Ipaddr is the "ipaddr" datatype: a 4-byte IPv4 address.
type Ipaddr struct{}

func (Ipaddr) TypeName() string { return "ipaddr" }

func (Ipaddr) Encode(decoded interface{}) ([]byte, error) {
	s, ok := decoded.(string)
	if !ok {
		return nil, &ErrInvalidValue{"ipaddr", "address has to be a string"}
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, &ErrInvalidValue{"ipaddr", "invalid IPv4 address"}
	}
	v4 := ip.To4()
	if v4 == nil {
		return nil, &ErrInvalidValue{"ipaddr", "not an IPv4 address"}
	}
	return []byte(v4), nil
}

func (Ipaddr) Decode(raw []byte) (interface{}, error) {
	if len(raw) != 4 {
		return nil, &ErrInvalidValue{"ipaddr", "expected 4 bytes"}
	}
	return fmt.Sprintf("%d.%d.%d.%d", raw[0], raw[1], raw[2], raw[3]), nil
}

func (Ipaddr) Print(decoded interface{}) (string, error) {
	s, ok := decoded.(string)
	if !ok {
		return "", &ErrInvalidValue{"ipaddr", "expected a string"}
	}
	return s, nil
}

func (Ipaddr) Parse(s string) (interface{}, error) {
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil {
		return nil, &ErrInvalidValue{"ipaddr", "invalid IPv4 address"}
	}
	return ip.To4().String(), nil
}

// --- Ipv6addr --------------------------------------------------------------

// Ipv6addr is the "ipv6addr" datatype: a 16-byte IPv6 address.
type Ipv6addr struct{}

func (Ipv6addr) TypeName() string { return "ipv6addr" }

func (Ipv6addr) Encode(decoded interface{}) ([]byte, error) {
	s, ok := decoded.(string)
	if !ok {
		return nil, &ErrInvalidValue{"ipv6addr", "address has to be a string"}
	}
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() != nil {
		return nil, &ErrInvalidValue{"ipv6addr", "invalid IPv6 address"}
	}
	return []byte(ip.To16()), nil
}

func (Ipv6addr) Decode(raw []byte) (interface{}, error) {
	if len(raw) != 16 {
		return nil, &ErrInvalidValue{"ipv6addr", "expected 16 bytes"}
	}
	return net.IP(raw).String(), nil
}

func (Ipv6addr) Print(decoded interface{}) (string, error) {
	s, ok := decoded.(string)
	if !ok {
		return "", &ErrInvalidValue{"ipv6addr", "expected a string"}
	}
	return s, nil
}

func (Ipv6addr) Parse(s string) (interface{}, error) {
	return s, nil
}

// --- Ipv6prefix --------------------------------------------------------------

// Ipv6prefix is the "ipv6prefix" datatype: reserved(1) + prefixlen(1) + up
// to 16 bytes of address.
type Ipv6prefix struct{}

func (Ipv6prefix) TypeName() string { return "ipv6prefix" }

func (Ipv6prefix) Encode(decoded interface{}) ([]byte, error) {
	s, ok := decoded.(string)
	if !ok {
		return nil, &ErrInvalidValue{"ipv6prefix", "prefix has to be a string"}
	}
	_, ipnet, err := net.ParseCIDR(s)
	if err != nil {
		return nil, &ErrInvalidValue{"ipv6prefix", "invalid IPv6 prefix"}
	}
	ones, _ := ipnet.Mask.Size()
	out := make([]byte, 0, 18)
	out = append(out, 0, byte(ones))
	out = append(out, ipnet.IP.To16()...)
	return out, nil
}

func (Ipv6prefix) Decode(raw []byte) (interface{}, error) {
	if len(raw) < 2 {
		return nil, &ErrInvalidValue{"ipv6prefix", "expected at least 2 bytes"}
	}
	prefixlen := raw[1]
	addr := make([]byte, 16)
	copy(addr, raw[2:])
	ip := net.IP(addr)
	return fmt.Sprintf("%s/%d", ip.String(), prefixlen), nil
}

func (Ipv6prefix) Print(decoded interface{}) (string, error) {
	s, ok := decoded.(string)
	if !ok {
		return "", &ErrInvalidValue{"ipv6prefix", "expected a string"}
	}
	return s, nil
}

func (Ipv6prefix) Parse(s string) (interface{}, error) {
	return s, nil
}

// --- Date --------------------------------------------------------------

// Date is the "date" datatype: a 32-bit unsigned count of seconds since the
// Unix epoch.
type Date struct{}

func (Date) TypeName() string { return "date" }

func (Date) Encode(decoded interface{}) ([]byte, error) {
	n, ok := toInt64(decoded)
	if !ok || n < 0 || n > 1<<32-1 {
		return nil, &ErrInvalidValue{"date", "expected a uint32 seconds-since-epoch value"}
	}
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(n))
	return buf, nil
}

func (Date) Decode(raw []byte) (interface{}, error) {
	if len(raw) != 4 {
		return nil, &ErrInvalidValue{"date", "expected 4 bytes"}
	}
	return int64(binary.BigEndian.Uint32(raw)), nil
}

func (Date) Print(decoded interface{}) (string, error) {
	n, ok := toInt64(decoded)
	if !ok {
		return "", &ErrInvalidValue{"date", "expected an integer"}
	}
	return time.Unix(n, 0).UTC().Format("2006-01-02T15:04:05"), nil
}

func (Date) Parse(s string) (interface{}, error) {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return nil, &ErrInvalidValue{"date", "failed to parse date"}
	}
	return t.Unix(), nil
}

// --- Integer / Short / Byte / Signed / Integer64 --------------------------

// Integer is the "integer" datatype: a 32-bit unsigned big-endian number.
type Integer struct{}

func (Integer) TypeName() string { return "integer" }

func (Integer) Encode(decoded interface{}) ([]byte, error) {
	n, ok := toInt64(decoded)
	if !ok {
		return nil, &ErrInvalidValue{"integer", "expected an integer"}
	}
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(n))
	return buf, nil
}

func (Integer) Decode(raw []byte) (interface{}, error) {
	if len(raw) != 4 {
		return nil, &ErrInvalidValue{"integer", "expected 4 bytes"}
	}
	return int64(binary.BigEndian.Uint32(raw)), nil
}

func (Integer) Print(decoded interface{}) (string, error) {
	n, ok := toInt64(decoded)
	if !ok {
		return "", &ErrInvalidValue{"integer", "expected an integer"}
	}
	return strconv.FormatInt(n, 10), nil
}

func (Integer) Parse(s string) (interface{}, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, &ErrInvalidValue{"integer", "can not parse non-integer"}
	}
	if n < 0 || n > 4294967295 {
		return nil, &ErrInvalidValue{"integer", "value out of range"}
	}
	return n, nil
}

// Short is the "short" datatype: a 16-bit unsigned big-endian number.
type Short struct{}

func (Short) TypeName() string { return "short" }

func (Short) Encode(decoded interface{}) ([]byte, error) {
	n, ok := toInt64(decoded)
	if !ok {
		return nil, &ErrInvalidValue{"short", "expected an integer"}
	}
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(n))
	return buf, nil
}

func (Short) Decode(raw []byte) (interface{}, error) {
	if len(raw) != 2 {
		return nil, &ErrInvalidValue{"short", "expected 2 bytes"}
	}
	return int64(binary.BigEndian.Uint16(raw)), nil
}

func (Short) Print(decoded interface{}) (string, error) {
	n, ok := toInt64(decoded)
	if !ok {
		return "", &ErrInvalidValue{"short", "expected an integer"}
	}
	return strconv.FormatInt(n, 10), nil
}

func (Short) Parse(s string) (interface{}, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, &ErrInvalidValue{"short", "can not parse non-integer"}
	}
	if n < 0 || n > 65535 {
		return nil, &ErrInvalidValue{"short", "value out of range"}
	}
	return n, nil
}

// Byte is the "byte" datatype: an 8-bit unsigned number.
type Byte struct{}

func (Byte) TypeName() string { return "byte" }

func (Byte) Encode(decoded interface{}) ([]byte, error) {
	n, ok := toInt64(decoded)
	if !ok {
		return nil, &ErrInvalidValue{"byte", "expected an integer"}
	}
	return []byte{byte(n)}, nil
}

func (Byte) Decode(raw []byte) (interface{}, error) {
	if len(raw) != 1 {
		return nil, &ErrInvalidValue{"byte", "expected 1 byte"}
	}
	return int64(raw[0]), nil
}

func (Byte) Print(decoded interface{}) (string, error) {
	n, ok := toInt64(decoded)
	if !ok {
		return "", &ErrInvalidValue{"byte", "expected an integer"}
	}
	return strconv.FormatInt(n, 10), nil
}

func (Byte) Parse(s string) (interface{}, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, &ErrInvalidValue{"byte", "can not parse non-integer"}
	}
	if n < 0 || n > 255 {
		return nil, &ErrInvalidValue{"byte", "value out of range"}
	}
	return n, nil
}

// Signed is the "signed" datatype: a 32-bit two's-complement number.
type Signed struct{}

func (Signed) TypeName() string { return "signed" }

func (Signed) Encode(decoded interface{}) ([]byte, error) {
	n, ok := toInt64(decoded)
	if !ok {
		return nil, &ErrInvalidValue{"signed", "expected an integer"}
	}
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(int32(n)))
	return buf, nil
}

func (Signed) Decode(raw []byte) (interface{}, error) {
	if len(raw) != 4 {
		return nil, &ErrInvalidValue{"signed", "expected 4 bytes"}
	}
	return int64(int32(binary.BigEndian.Uint32(raw))), nil
}

func (Signed) Print(decoded interface{}) (string, error) {
	n, ok := toInt64(decoded)
	if !ok {
		return "", &ErrInvalidValue{"signed", "expected an integer"}
	}
	return strconv.FormatInt(n, 10), nil
}

func (Signed) Parse(s string) (interface{}, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, &ErrInvalidValue{"signed", "can not parse non-integer"}
	}
	if n < -2147483648 || n > 2147483647 {
		return nil, &ErrInvalidValue{"signed", "value out of range"}
	}
	return n, nil
}

// Integer64 is the "integer64" datatype: a 64-bit unsigned big-endian
// number.
type Integer64 struct{}

func (Integer64) TypeName() string { return "integer64" }

func (Integer64) Encode(decoded interface{}) ([]byte, error) {
	n, ok := toInt64(decoded)
	if !ok {
		return nil, &ErrInvalidValue{"integer64", "expected an integer"}
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(n))
	return buf, nil
}

func (Integer64) Decode(raw []byte) (interface{}, error) {
	if len(raw) != 8 {
		return nil, &ErrInvalidValue{"integer64", "expected 8 bytes"}
	}
	return int64(binary.BigEndian.Uint64(raw)), nil
}

func (Integer64) Print(decoded interface{}) (string, error) {
	n, ok := toInt64(decoded)
	if !ok {
		return "", &ErrInvalidValue{"integer64", "expected an integer"}
	}
	return strconv.FormatInt(n, 10), nil
}

func (Integer64) Parse(s string) (interface{}, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, &ErrInvalidValue{"integer64", "can not parse non-integer"}
	}
	return int64(n), nil
}

// --- Ether -------------------------------------------------------------

// Ether is the "ether" datatype: a 6-byte MAC address.
type Ether struct{}

func (Ether) TypeName() string { return "ether" }

func (Ether) Encode(decoded interface{}) ([]byte, error) {
	s, ok := decoded.(string)
	if !ok {
		return nil, &ErrInvalidValue{"ether", "expected hh:hh:hh:hh:hh:hh"}
	}
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return nil, &ErrInvalidValue{"ether", "invalid MAC address"}
	}
	return []byte(hw), nil
}

func (Ether) Decode(raw []byte) (interface{}, error) {
	if len(raw) != 6 {
		return nil, &ErrInvalidValue{"ether", "expected 6 bytes"}
	}
	return net.HardwareAddr(raw).String(), nil
}

func (Ether) Print(decoded interface{}) (string, error) {
	s, ok := decoded.(string)
	if !ok {
		return "", &ErrInvalidValue{"ether", "expected a string"}
	}
	return s, nil
}

func (Ether) Parse(s string) (interface{}, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return nil, &ErrInvalidValue{"ether", "could not decode ethernet address"}
	}
	return hw.String(), nil
}

// --- Ifid ----------------------------------------------------------------

// Ifid is the "ifid" datatype: an 8-byte IPv6 interface identifier.
type Ifid struct{}

func (Ifid) TypeName() string { return "ifid" }

func (Ifid) Encode(decoded interface{}) ([]byte, error) {
	s, ok := decoded.(string)
	if !ok {
		return nil, &ErrInvalidValue{"ifid", "expected hh:hh:hh:hh"}
	}
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return nil, &ErrInvalidValue{"ifid", "expected 4 colon-separated groups"}
	}
	buf := make([]byte, 8)
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 16)
		if err != nil {
			return nil, &ErrInvalidValue{"ifid", "invalid hex group"}
		}
		binary.BigEndian.PutUint16(buf[i*2:], uint16(v))
	}
	return buf, nil
}

func (Ifid) Decode(raw []byte) (interface{}, error) {
	if len(raw) != 8 {
		return nil, &ErrInvalidValue{"ifid", "expected 8 bytes"}
	}
	parts := make([]string, 4)
	for i := 0; i < 4; i++ {
		parts[i] = fmt.Sprintf("%04x", binary.BigEndian.Uint16(raw[i*2:]))
	}
	return strings.Join(parts, ":"), nil
}

func (Ifid) Print(decoded interface{}) (string, error) {
	s, ok := decoded.(string)
	if !ok {
		return "", &ErrInvalidValue{"ifid", "expected a string"}
	}
	// FreeRADIUS compatibility: ifid is printed without colon delimiters.
	return strings.ReplaceAll(s, ":", ""), nil
}

func (Ifid) Parse(s string) (interface{}, error) {
	var parts []string
	for i := 0; i < len(s); i += 2 {
		end := i + 2
		if end > len(s) {
			end = len(s)
		}
		parts = append(parts, s[i:end])
	}
	return strings.Join(parts, ":"), nil
}

// --- AscendBinary ----------------------------------------------------------

// AscendBinary is the "abinary" datatype: the 32-byte Ascend filter blob
// packed from space-separated "key=value" terms.
type AscendBinary struct{}

func (AscendBinary) TypeName() string { return "abinary" }

func (AscendBinary) Encode(decoded interface{}) ([]byte, error) {
	s, ok := decoded.(string)
	if !ok {
		return nil, &ErrInvalidValue{"abinary", "expected a string of key=value terms"}
	}

	terms := map[string][]byte{
		"family":    {0x01},
		"action":    {0x00},
		"direction": {0x01},
		"src":       {0, 0, 0, 0},
		"dst":       {0, 0, 0, 0},
		"srcl":      {0},
		"dstl":      {0},
		"proto":     {0},
		"sport":     {0, 0},
		"dport":     {0, 0},
		"sportq":    {0},
		"dportq":    {0},
	}
	family := "ipv4"

	for _, t := range strings.Fields(s) {
		kv := strings.SplitN(t, "=", 2)
		if len(kv) != 2 {
			return nil, &ErrInvalidValue{"abinary", "malformed key=value term"}
		}
		key, value := kv[0], kv[1]
		switch {
		case key == "family" && value == "ipv6":
			family = "ipv6"
			terms["family"] = []byte{0x03}
			if isZero(terms["src"]) {
				terms["src"] = make([]byte, 16)
			}
			if isZero(terms["dst"]) {
				terms["dst"] = make([]byte, 16)
			}
		case key == "action" && value == "accept":
			terms["action"] = []byte{0x01}
		case key == "action" && value == "redirect":
			terms["action"] = []byte{0x20}
		case key == "direction" && value == "out":
			terms["direction"] = []byte{0x00}
		case key == "src" || key == "dst":
			ip, ipnet, err := net.ParseCIDR(value)
			if err != nil {
				ip = net.ParseIP(value)
				if ip == nil {
					return nil, &ErrInvalidValue{"abinary", "invalid network literal"}
				}
				ones := 32
				if family == "ipv6" {
					ones = 128
				}
				ipnet = &net.IPNet{IP: ip, Mask: net.CIDRMask(ones, ones)}
			}
			var packed []byte
			if family == "ipv4" {
				packed = ipnet.IP.To4()
			} else {
				packed = ipnet.IP.To16()
			}
			if packed == nil {
				return nil, &ErrInvalidValue{"abinary", "address/family mismatch"}
			}
			terms[key] = packed
			ones, _ := ipnet.Mask.Size()
			terms[key+"l"] = []byte{byte(ones)}
		case key == "sport" || key == "dport":
			v, err := strconv.ParseUint(value, 10, 16)
			if err != nil {
				return nil, &ErrInvalidValue{"abinary", "invalid port"}
			}
			buf := make([]byte, 2)
			binary.BigEndian.PutUint16(buf, uint16(v))
			terms[key] = buf
		case key == "sportq" || key == "dportq" || key == "proto":
			v, err := strconv.ParseUint(value, 10, 8)
			if err != nil {
				return nil, &ErrInvalidValue{"abinary", "invalid byte field"}
			}
			terms[key] = []byte{byte(v)}
		}
	}

	trailer := make([]byte, 8)
	var out []byte
	out = append(out, terms["family"]...)
	out = append(out, terms["action"]...)
	out = append(out, terms["direction"]...)
	out = append(out, 0)
	out = append(out, terms["src"]...)
	out = append(out, terms["dst"]...)
	out = append(out, terms["srcl"]...)
	out = append(out, terms["dstl"]...)
	out = append(out, terms["proto"]...)
	out = append(out, 0)
	out = append(out, terms["sport"]...)
	out = append(out, terms["dport"]...)
	out = append(out, terms["sportq"]...)
	out = append(out, terms["dportq"]...)
	out = append(out, 0, 0)
	out = append(out, trailer...)
	return out, nil
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func (AscendBinary) Decode(raw []byte) (interface{}, error) {
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (AscendBinary) Print(decoded interface{}) (string, error) {
	b, ok := decoded.([]byte)
	if !ok {
		return "", &ErrInvalidValue{"abinary", "expected []byte"}
	}
	return "0x" + hex.EncodeToString(b), nil
}

func (AscendBinary) Parse(s string) (interface{}, error) {
	return s, nil
}

// --- structural placeholders -------------------------------------------

// TLV is a registry placeholder for the "tlv" grammar type. Real TLV
// framing and splitting is implemented in package radius.
type TLV struct{}

func (TLV) TypeName() string                   { return "tlv" }
func (TLV) Encode(interface{}) ([]byte, error) { return nil, ErrUnsupported }
func (TLV) Decode([]byte) (interface{}, error) { return nil, ErrUnsupported }
func (TLV) Print(interface{}) (string, error)  { return "", ErrUnsupported }
func (TLV) Parse(string) (interface{}, error)  { return nil, ErrUnsupported }

// VSA is a registry placeholder for the "vsa" grammar type. Real VSA
// framing and splitting is implemented in package radius.
type VSA struct{}

func (VSA) TypeName() string                   { return "vsa" }
func (VSA) Encode(interface{}) ([]byte, error) { return nil, ErrUnsupported }
func (VSA) Decode([]byte) (interface{}, error) { return nil, ErrUnsupported }
func (VSA) Print(interface{}) (string, error)  { return "", ErrUnsupported }
func (VSA) Parse(string) (interface{}, error)  { return nil, ErrUnsupported }
