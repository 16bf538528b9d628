package radius

import "bytes"

// VerifyReply checks that reply answers request: same id, matching
// reply-authenticator (RFC 2865 §3), and an identical shared secret.
func VerifyReply(request, reply *Packet) bool {
	if reply.ID != request.ID {
		return false
	}
	if !bytes.Equal(reply.Secret, request.Secret) {
		return false
	}
	want := replyAuthenticator(byte(reply.Code), reply.ID, uint16(len(reply.RawPacket)), request.Authenticator, reply.RawPacket[20:], request.Secret)
	return want == reply.Authenticator
}

// VerifyMessageAuthenticator recomputes the Message-Authenticator HMAC
// over p's raw wire form, using requestAuthenticator in place of p's own
// header authenticator field as required for reply packets (RFC 2869
// §5.14), and compares it to the stored value. It returns false (not an
// error) when no Message-Authenticator is present, since the caller is
// expected to have already decided verification is mandatory.
func (p *Packet) VerifyMessageAuthenticator(requestAuthenticator [16]byte) bool {
	if p.MessageAuthenticatorPos < 0 || p.RawPacket == nil {
		return false
	}
	pos := p.MessageAuthenticatorPos
	if pos+18 > len(p.RawPacket) {
		return false
	}
	stored := append([]byte(nil), p.RawPacket[pos+2:pos+18]...)

	wire := append([]byte(nil), p.RawPacket...)
	copy(wire[4:20], requestAuthenticator[:])
	got := computeMessageAuthenticator(wire, pos, p.Secret)
	return bytes.Equal(stored, got[:])
}

// VerifyRequestAuthenticator recomputes the MD5 request-authenticator
// formula for Accounting/CoA/Disconnect requests and compares it to the
// stored value; used in packet-verification mode on a server.
func (p *Packet) VerifyRequestAuthenticator() bool {
	if p.RawPacket == nil || len(p.RawPacket) < minPacketLength {
		return false
	}
	want := requestAuthenticator(byte(p.Code), p.ID, uint16(len(p.RawPacket)), p.RawPacket[20:], p.Secret)
	return want == p.Authenticator
}

// VerifyCHAP checks a CHAP-Password attribute against password, using
// CHAP-Challenge if present, or else the request authenticator, as the
// challenge (RFC 2865 §5.3/§5.40).
func (p *Packet) VerifyCHAP(password []byte) (bool, error) {
	chapVals, err := p.Get("CHAP-Password")
	if err != nil {
		return false, err
	}
	if len(chapVals) == 0 {
		return false, PacketError("no CHAP-Password attribute present")
	}
	chapBytes, ok := chapVals[0].([]byte)
	if !ok {
		return false, PacketError("CHAP-Password has unexpected type")
	}

	challenge := p.Authenticator[:]
	if chVals, err := p.Get("CHAP-Challenge"); err == nil && len(chVals) > 0 {
		if b, ok := chVals[0].([]byte); ok {
			challenge = b
		}
	}

	return chapVerify(chapBytes, challenge, password), nil
}
