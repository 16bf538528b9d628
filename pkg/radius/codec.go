package radius

import (
	"github.com/nicholasamorim/radiusgo/pkg/dictionary"
)

// tlvBodyLimit is the largest body (post 2-byte header) a single TLV AVP
// may carry; the outer length field is 8 bits and must include the header.
const tlvBodyLimit = 253

// vsaBodyLimit is the largest sub-attribute body a single Vendor-Specific
// AVP may carry once the 4-byte vendor id is subtracted from tlvBodyLimit.
const vsaBodyLimit = tlvBodyLimit - 4

// encodeLeaf frames a single leaf sub-attribute as code(1) ‖ length(1) ‖ raw.
func encodeLeaf(code int, raw []byte) []byte {
	out := make([]byte, 2+len(raw))
	out[0] = byte(code)
	out[1] = byte(2 + len(raw))
	copy(out[2:], raw)
	return out
}

// splitFrames bins pre-framed child byte strings into fragments whose total
// length does not exceed limit, preserving order. A single child frame
// larger than limit is placed alone in its own (oversize) fragment rather
// than being dropped or truncated.
func splitFrames(frames [][]byte, limit int) [][][]byte {
	var fragments [][][]byte
	var cur [][]byte
	curLen := 0
	for _, f := range frames {
		if curLen > 0 && curLen+len(f) > limit {
			fragments = append(fragments, cur)
			cur = nil
			curLen = 0
		}
		cur = append(cur, f)
		curLen += len(f)
	}
	if len(cur) > 0 {
		fragments = append(fragments, cur)
	}
	return fragments
}

func concatFrames(frames [][]byte) []byte {
	var out []byte
	for _, f := range frames {
		out = append(out, f...)
	}
	return out
}

// encodeAttributes serialises list to a RADIUS packet body, resolving
// attribute/vendor metadata against dict to decide framing for each key.
func encodeAttributes(list *AttributeList, dict *dictionary.Dictionary) ([]byte, error) {
	var body []byte
	for _, key := range list.Order() {
		vals, _ := list.Get(key)
		for _, val := range vals {
			encoded, err := encodeOneValue(key, val, dict)
			if err != nil {
				return nil, err
			}
			body = append(body, encoded...)
		}
	}
	return body, nil
}

func encodeOneValue(key AVPKey, val AttrValue, dict *dictionary.Dictionary) ([]byte, error) {
	if val.Children == nil {
		return encodeLeaf(key.Code, val.Raw), nil
	}

	var frames [][]byte
	for _, inst := range val.Instances() {
		frames = append(frames, encodeLeaf(inst.Code, inst.Raw))
	}

	if key.VendorID == 0 {
		fragments := splitFrames(frames, tlvBodyLimit)
		var out []byte
		for _, frag := range fragments {
			body := concatFrames(frag)
			if len(body) > tlvBodyLimit {
				return nil, PacketError("tlv %d: single sub-attribute exceeds %d bytes", key.Code, tlvBodyLimit)
			}
			out = append(out, byte(key.Code), byte(2+len(body)))
			out = append(out, body...)
		}
		return out, nil
	}

	fragments := splitFrames(frames, vsaBodyLimit)
	var out []byte
	for _, frag := range fragments {
		childBody := concatFrames(frag)
		if len(childBody) > vsaBodyLimit {
			return nil, PacketError("vsa %d: single sub-attribute exceeds %d bytes", key.VendorID, vsaBodyLimit)
		}
		header := make([]byte, 6)
		header[0] = dictionary.VendorSpecificCode
		header[1] = byte(6 + len(childBody))
		header[2] = byte(key.VendorID >> 24)
		header[3] = byte(key.VendorID >> 16)
		header[4] = byte(key.VendorID >> 8)
		header[5] = byte(key.VendorID)
		out = append(out, header...)
		out = append(out, childBody...)
	}
	return out, nil
}

// decodeAttributes parses a RADIUS packet body into an AttributeList,
// reassembling any split TLV/VSA fragments into a single merged container
// per key, and resolving attribute identity via dict where possible.
func decodeAttributes(body []byte, dict *dictionary.Dictionary) (*AttributeList, error) {
	list := NewAttributeList()
	offset := 0
	for offset < len(body) {
		if offset+2 > len(body) {
			return nil, PacketError("attribute header runs past end of packet")
		}
		code := int(body[offset])
		length := int(body[offset+1])
		if length < 2 {
			return nil, PacketError("attribute %d declares length < 2", code)
		}
		if offset+length > len(body) {
			return nil, PacketError("attribute %d declares length past end of packet", code)
		}
		value := body[offset+2 : offset+length]

		if code == dictionary.VendorSpecificCode {
			if err := decodeVendorSpecific(list, value); err != nil {
				return nil, err
			}
			offset += length
			continue
		}

		attr, known := dict.AttributeByCode(code)
		if known && attr.IsStructural() {
			container := list.ContainerFor(AVPKey{Code: code})
			if err := decodeTLVBody(container, value, attr); err != nil {
				return nil, err
			}
		} else {
			list.AddLeaf(AVPKey{Code: code}, append([]byte(nil), value...))
		}
		offset += length
	}
	return list, nil
}

func decodeTLVBody(container *AttrValue, value []byte, parent *dictionary.Attribute) error {
	cursor := 0
	for cursor < len(value) {
		if cursor+2 > len(value) {
			return PacketError("tlv %s: sub-attribute header runs past end", parent.Name)
		}
		subcode := int(value[cursor])
		sublen := int(value[cursor+1])
		if sublen < 2 {
			return PacketError("tlv %s: sub-attribute %d declares length < 2", parent.Name, subcode)
		}
		if cursor+sublen > len(value) {
			return PacketError("tlv %s: sub-attribute %d declares length past end", parent.Name, subcode)
		}
		subval := value[cursor+2 : cursor+sublen]
		container.AddChild(subcode, append([]byte(nil), subval...))
		cursor += sublen
	}
	return nil
}

func decodeVendorSpecific(list *AttributeList, value []byte) error {
	if len(value) < 6 {
		// Opaque fallback: the full AVP is shorter than 8 bytes, too short
		// to carry a vendor id plus even one sub-attribute header. Stored
		// as a raw leaf under the Vendor-Specific code itself, preserving
		// observability of malformed senders rather than failing.
		list.AddLeaf(AVPKey{Code: dictionary.VendorSpecificCode}, append([]byte(nil), value...))
		return nil
	}

	vendorID := uint32(value[0])<<24 | uint32(value[1])<<16 | uint32(value[2])<<8 | uint32(value[3])
	rest := value[4:]

	children, err := decodeVendorChildren(rest)
	if err != nil {
		// Malformed RFC-2865-form payload: fall back to an opaque code=26
		// leaf rather than failing the whole packet, so a buggy peer
		// remains observable instead of poisoning the decode.
		list.AddLeaf(AVPKey{Code: dictionary.VendorSpecificCode}, append([]byte(nil), value...))
		return nil
	}

	container := list.ContainerFor(AVPKey{Code: dictionary.VendorSpecificCode, VendorID: vendorID})
	for _, c := range children {
		container.AddChild(c.code, c.value)
	}
	return nil
}

type vendorChild struct {
	code  int
	value []byte
}

func decodeVendorChildren(rest []byte) ([]vendorChild, error) {
	var children []vendorChild
	cursor := 0
	for cursor < len(rest) {
		if cursor+2 > len(rest) {
			return nil, PacketError("sub-attribute header runs past end")
		}
		subcode := int(rest[cursor])
		sublen := int(rest[cursor+1])
		if sublen < 2 {
			return nil, PacketError("sub-attribute %d declares length < 2", subcode)
		}
		if cursor+sublen > len(rest) {
			return nil, PacketError("sub-attribute %d declares length past end", subcode)
		}
		subval := rest[cursor+2 : cursor+sublen]
		children = append(children, vendorChild{code: subcode, value: append([]byte(nil), subval...)})
		cursor += sublen
	}
	return children, nil
}
