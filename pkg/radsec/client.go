package radsec

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nicholasamorim/radiusgo/pkg/eapmd5"
	"github.com/nicholasamorim/radiusgo/pkg/radius"
)

// Client is a RadSec client: a single persistent TLS connection over
// which RADIUS packets are exchanged one request/reply pair at a time,
// serialised by mu the way a single TCP stream inherently serialises
// frames.
type Client struct {
	cfg  ClientConfig
	conn *tls.Conn
	mu   sync.Mutex
	log  *logrus.Entry
}

// Dial opens a RadSec connection: TLS handshake followed by readiness
// to exchange framed RADIUS packets.
func Dial(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if err := cfg.validateConfig(); err != nil {
		return nil, radius.WrapError(radius.ErrPacket, "invalid radsec client config", err)
	}
	tlsCfg, err := cfg.tlsConfig()
	if err != nil {
		return nil, radius.WrapError(radius.ErrIO, "building tls config", err)
	}

	dialer := &net.Dialer{Timeout: cfg.DialTimeout}
	addr := net.JoinHostPort(cfg.Server, strconv.Itoa(cfg.Port))
	rawConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, radius.WrapError(radius.ErrIO, "dialing radsec server", err)
	}
	tlsConn := tls.Client(rawConn, tlsCfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, radius.WrapError(radius.ErrIO, "radsec tls handshake", err)
	}

	return &Client{
		cfg:  cfg,
		conn: tlsConn,
		log:  logrus.WithField("component", "radsec.client"),
	}, nil
}

// Close tears down the underlying TLS connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// SendPacket encodes pkt, writes it as one RadSec frame, and returns the
// decoded reply frame. Only one exchange runs at a time per connection.
func (c *Client) SendPacket(ctx context.Context, pkt *radius.Packet) (*radius.Packet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(deadline)
		defer c.conn.SetDeadline(time.Time{})
	}

	wire, err := pkt.Encode()
	if err != nil {
		return nil, err
	}
	if err := writeFrame(c.conn, wire); err != nil {
		return nil, radius.WrapError(radius.ErrIO, "writing radsec frame", err)
	}

	replyWire, err := readFrame(c.conn)
	if err != nil {
		return nil, radius.WrapError(radius.ErrIO, "reading radsec frame", err)
	}
	reply, err := radius.Decode(replyWire, pkt.Secret, c.cfg.Dict)
	if err != nil {
		return nil, err
	}
	reply.RequestAuthenticator = pkt.Authenticator
	if !radius.VerifyReply(pkt, reply) {
		return nil, radius.NewError(radius.ErrPacket, "radsec reply failed verification")
	}
	return reply, nil
}

// RunEAPMD5 drives the two extra round trips an EAP-MD5 exchange needs
// beyond the initial Access-Request: an Access-Challenge carrying an
// EAP-Request/Identity is answered with EAP-Response/Identity, and the
// subsequent Access-Challenge carrying an EAP-Request/MD5-Challenge is
// answered with the computed digest.
func (c *Client) RunEAPMD5(ctx context.Context, challenge *radius.Packet, identity, password string) (*radius.Packet, error) {
	reply := challenge
	for i := 0; i < 2 && reply.Code == radius.AccessChallenge; i++ {
		eapMsg, err := collectEAPMessage(reply)
		if err != nil {
			return nil, err
		}

		var respEAP []byte
		if len(eapMsg) >= 5 && eapMsg[4] == eapmd5.TypeIdentity {
			respEAP = eapmd5.BuildIdentityResponse(eapMsg[1], identity)
		} else {
			ch, err := eapmd5.ParseChallenge(eapMsg)
			if err != nil {
				return nil, err
			}
			digest := eapmd5.ComputeResponse(ch.Identifier, []byte(password), ch.Value)
			respEAP = eapmd5.BuildMD5Response(ch.Identifier, digest)
		}

		next := radius.NewAuthPacket(challenge.Secret, challenge.Dict)
		next.ID = challenge.ID
		if states, err := reply.Get("State"); err == nil && len(states) > 0 {
			if err := next.Set("State", states[0]); err != nil {
				return nil, err
			}
		}
		for _, chunk := range eapmd5.SplitMessage(respEAP) {
			if err := next.Set("EAP-Message", chunk); err != nil {
				return nil, err
			}
		}

		reply, err = c.SendPacket(ctx, next)
		if err != nil {
			return nil, err
		}
	}
	return reply, nil
}

func collectEAPMessage(pkt *radius.Packet) ([]byte, error) {
	values, err := pkt.Get("EAP-Message")
	if err != nil {
		return nil, err
	}
	chunks := make([][]byte, 0, len(values))
	for _, v := range values {
		b, ok := v.([]byte)
		if !ok {
			return nil, radius.PacketError("EAP-Message attribute value is not []byte")
		}
		chunks = append(chunks, b)
	}
	return eapmd5.JoinMessage(chunks), nil
}
