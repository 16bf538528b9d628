package radsec

import (
	"encoding/binary"
	"io"

	"github.com/nicholasamorim/radiusgo/pkg/radius"
)

const (
	headerSize = 4
	minLength  = 20
	maxLength  = 4095
)

// readFrame reads one complete RADIUS packet off a RadSec stream. The
// frame has no delimiter of its own beyond the RADIUS header's own
// length field (RFC 6614 §2.2: "the RADIUS packet length field ... is
// used to delimit messages").
func readFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	length := int(binary.BigEndian.Uint16(header[2:4]))
	if length < minLength || length > maxLength {
		return nil, radius.PacketError("radsec: declared frame length %d out of range", length)
	}
	rest := make([]byte, length-headerSize)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, err
	}
	wire := make([]byte, 0, length)
	wire = append(wire, header...)
	wire = append(wire, rest...)
	return wire, nil
}

func writeFrame(w io.Writer, wire []byte) error {
	_, err := w.Write(wire)
	return err
}
