package radius

import (
	"github.com/nicholasamorim/radiusgo/pkg/dictionary"
)

const (
	minPacketLength = 20
	maxPacketLength = 4095
)

// AddMessageAuthenticator reserves a zeroed Message-Authenticator AVP;
// Encode fills in its real HMAC-MD5 value once the rest of the packet is
// final.
func (p *Packet) AddMessageAuthenticator() {
	p.Attrs.AddLeaf(AVPKey{Code: MessageAuthenticatorCode}, make([]byte, 16))
}

func buildHeader(code Code, id byte, length int, authenticator [16]byte) []byte {
	h := make([]byte, 20)
	h[0] = byte(code)
	h[1] = id
	h[2] = byte(length >> 8)
	h[3] = byte(length)
	copy(h[4:20], authenticator[:])
	return h
}

// Encode serialises p to its RADIUS wire form, computing the authenticator
// appropriate to p.Code (or p.IsReply) and, if a Message-Authenticator
// placeholder was added, its real HMAC-MD5 value.
func (p *Packet) Encode() ([]byte, error) {
	body, err := encodeAttributes(p.Attrs, p.Dict)
	if err != nil {
		return nil, err
	}
	length := minPacketLength + len(body)
	if length > maxPacketLength {
		return nil, PacketError("encoded packet too large: %d bytes", length)
	}

	maOffset, hasMA := findMessageAuthenticatorInBody(body)

	if p.IsReply {
		if hasMA {
			tempHeader := buildHeader(p.Code, p.ID, length, p.RequestAuthenticator)
			tempWire := append(append([]byte(nil), tempHeader...), body...)
			mac := computeMessageAuthenticator(tempWire, minPacketLength+maOffset, p.Secret)
			copy(body[maOffset+2:maOffset+18], mac[:])
		}
		p.Authenticator = replyAuthenticator(byte(p.Code), p.ID, uint16(length), p.RequestAuthenticator, body, p.Secret)
	} else {
		switch p.Code {
		case AccessRequest, StatusServer:
			var zero [16]byte
			if p.Authenticator == zero {
				a, err := randomAuthenticator()
				if err != nil {
					return nil, err
				}
				p.Authenticator = a
			}
		default:
			p.Authenticator = requestAuthenticator(byte(p.Code), p.ID, uint16(length), body, p.Secret)
		}
		if hasMA {
			header := buildHeader(p.Code, p.ID, length, p.Authenticator)
			wire := append(append([]byte(nil), header...), body...)
			mac := computeMessageAuthenticator(wire, minPacketLength+maOffset, p.Secret)
			copy(body[maOffset+2:maOffset+18], mac[:])
		}
	}

	header := buildHeader(p.Code, p.ID, length, p.Authenticator)
	wire := append(header, body...)

	if hasMA {
		p.MessageAuthenticatorPos = minPacketLength + maOffset
	} else {
		p.MessageAuthenticatorPos = -1
	}
	p.RawPacket = wire
	return wire, nil
}

// findMessageAuthenticatorInBody scans an attribute body (header-less) for
// a Message-Authenticator AVP, returning its offset within body.
func findMessageAuthenticatorInBody(body []byte) (int, bool) {
	offset := 0
	for offset+2 <= len(body) {
		code := body[offset]
		length := int(body[offset+1])
		if length < 2 || offset+length > len(body) {
			return 0, false
		}
		if code == MessageAuthenticatorCode && length == 18 {
			return offset, true
		}
		offset += length
	}
	return 0, false
}

// Decode parses wire into a Packet bound to secret and dict, validating
// header and AVP bounds per §4.4: the header must be at least 20 bytes,
// the declared length must be in [20, 4095] and must not exceed len(wire),
// and every AVP must declare a length of at least 2 that does not run past
// the packet end.
func Decode(wire []byte, secret []byte, dict *dictionary.Dictionary) (*Packet, error) {
	if len(wire) < minPacketLength {
		return nil, PacketError("packet shorter than minimum header size: %d bytes", len(wire))
	}
	length := int(wire[2])<<8 | int(wire[3])
	if length < minPacketLength || length > maxPacketLength {
		return nil, PacketError("declared packet length %d out of range", length)
	}
	if length > len(wire) {
		return nil, PacketError("declared packet length %d exceeds received %d bytes", length, len(wire))
	}

	p := &Packet{
		Code:                    Code(wire[0]),
		ID:                      wire[1],
		Secret:                  secret,
		Dict:                    dict,
		RawPacket:               append([]byte(nil), wire[:length]...),
		MessageAuthenticatorPos: -1,
	}
	copy(p.Authenticator[:], wire[4:20])

	body := wire[20:length]
	attrs, err := decodeAttributes(body, dict)
	if err != nil {
		return nil, err
	}
	p.Attrs = attrs

	if pos, ok := findMessageAuthenticator(p.RawPacket); ok {
		p.MessageAuthenticatorPos = pos
	}
	return p, nil
}
