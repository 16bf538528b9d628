package radius

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
)

// MessageAuthenticatorCode is the wire code of the Message-Authenticator
// attribute (RFC 2869 §5.14).
const MessageAuthenticatorCode = 80

// randomAuthenticator returns 16 cryptographically random bytes, used as
// the Access-Request authenticator and as the seed for password
// obfuscation.
func randomAuthenticator() ([16]byte, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return buf, WrapError(ErrIO, "failed to generate random authenticator", err)
	}
	return buf, nil
}

// requestAuthenticator computes the MD5-based authenticator used by
// Accounting, CoA, and Disconnect requests: MD5(header-with-zero-authenticator ‖ body ‖ secret).
func requestAuthenticator(code byte, id byte, length uint16, body []byte, secret []byte) [16]byte {
	h := md5.New()
	h.Write([]byte{code, id, byte(length >> 8), byte(length)})
	h.Write(make([]byte, 16))
	h.Write(body)
	h.Write(secret)
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

// replyAuthenticator computes MD5(code ‖ id ‖ length ‖ request_authenticator ‖ body ‖ secret),
// used for every reply packet code.
func replyAuthenticator(code byte, id byte, length uint16, requestAuth [16]byte, body []byte, secret []byte) [16]byte {
	h := md5.New()
	h.Write([]byte{code, id, byte(length >> 8), byte(length)})
	h.Write(requestAuth[:])
	h.Write(body)
	h.Write(secret)
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

// PwCrypt obfuscates password using the User-Password (RFC 2865 §5.2)
// chained-MD5-XOR scheme, seeded by secret and authenticator.
func PwCrypt(password, secret []byte, authenticator [16]byte) []byte {
	padded := make([]byte, ((len(password)+15)/16)*16)
	if len(padded) == 0 {
		padded = make([]byte, 16)
	}
	copy(padded, password)

	out := make([]byte, len(padded))
	prev := authenticator[:]
	for i := 0; i < len(padded); i += 16 {
		h := md5.New()
		h.Write(secret)
		h.Write(prev)
		b := h.Sum(nil)
		for j := 0; j < 16; j++ {
			out[i+j] = padded[i+j] ^ b[j]
		}
		prev = out[i : i+16]
	}
	return out
}

// PwDecrypt reverses PwCrypt, returning the original (NUL-padded) password
// bytes; callers typically trim trailing NULs themselves.
func PwDecrypt(encrypted, secret []byte, authenticator [16]byte) []byte {
	out := make([]byte, len(encrypted))
	prev := authenticator[:]
	for i := 0; i+16 <= len(encrypted); i += 16 {
		h := md5.New()
		h.Write(secret)
		h.Write(prev)
		b := h.Sum(nil)
		for j := 0; j < 16; j++ {
			out[i+j] = encrypted[i+j] ^ b[j]
		}
		prev = encrypted[i : i+16]
	}
	return out
}

// computeMessageAuthenticator returns the HMAC-MD5 of the full wire packet
// with the Message-Authenticator field's 16 value bytes zeroed, keyed by
// secret, per RFC 2869 §5.14. wire must already contain an 18-byte
// Message-Authenticator AVP (code, length, 16 zero bytes) at maPos.
func computeMessageAuthenticator(wire []byte, maPos int, secret []byte) [16]byte {
	scratch := make([]byte, len(wire))
	copy(scratch, wire)
	for i := 0; i < 16; i++ {
		scratch[maPos+2+i] = 0
	}
	mac := hmac.New(md5.New, secret)
	mac.Write(scratch)
	var out [16]byte
	copy(out[:], mac.Sum(nil))
	return out
}

// findMessageAuthenticator scans wire for a Message-Authenticator AVP and
// returns its AVP-header offset. It searches the whole packet, not just an
// expected position, and returns the first occurrence, since verification
// must find the attribute regardless of its position among other
// (possibly duplicated) attribute types.
func findMessageAuthenticator(wire []byte) (int, bool) {
	offset := 20
	for offset+2 <= len(wire) {
		code := wire[offset]
		length := int(wire[offset+1])
		if length < 2 || offset+length > len(wire) {
			return 0, false
		}
		if code == MessageAuthenticatorCode && length == 18 {
			return offset, true
		}
		offset += length
	}
	return 0, false
}

// chapVerify checks a CHAP-Password attribute (trailing 16 bytes = MD5(chap_id ‖ password ‖ challenge))
// against the stored plaintext password, per RFC 2865 §5.3.
func chapVerify(chapPassword []byte, challenge []byte, password []byte) bool {
	if len(chapPassword) != 17 {
		return false
	}
	chapID := chapPassword[0]
	want := chapPassword[1:]

	h := md5.New()
	h.Write([]byte{chapID})
	h.Write(password)
	h.Write(challenge)
	got := h.Sum(nil)

	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
