// Package radclient implements the RADIUS UDP client: packet factories, a
// blocking send-with-retry engine, identifier allocation, and reply
// correlation.
package radclient

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nicholasamorim/radiusgo/pkg/radius"
)

// Client sends Access-Request, Accounting-Request, CoA-Request, and
// Disconnect-Request packets to a single configured server and waits for
// the matching reply, retrying on timeout per Config.Retries/Timeout.
type Client struct {
	cfg Config
	ids *idAllocator
	log *logrus.Entry
}

// New validates cfg and returns a ready-to-use Client.
func New(cfg Config) (*Client, error) {
	if err := cfg.validateConfig(); err != nil {
		return nil, radius.WrapError(radius.ErrPacket, "invalid client config", err)
	}
	return &Client{
		cfg: cfg,
		ids: newIDAllocator(),
		log: logrus.WithField("component", "radclient"),
	}, nil
}

// CreateAuthPacket builds an Access-Request bound to this client's secret
// and dictionary.
func (c *Client) CreateAuthPacket() *radius.Packet {
	return radius.NewAuthPacket(c.cfg.Secret, c.cfg.Dict)
}

// CreateAcctPacket builds an Accounting-Request.
func (c *Client) CreateAcctPacket() *radius.Packet {
	return radius.NewAcctPacket(c.cfg.Secret, c.cfg.Dict)
}

// CreateCoAPacket builds a CoA-Request.
func (c *Client) CreateCoAPacket() *radius.Packet {
	return radius.NewCoAPacket(c.cfg.Secret, c.cfg.Dict)
}

// CreateDisconnectPacket builds a Disconnect-Request.
func (c *Client) CreateDisconnectPacket() *radius.Packet {
	return radius.NewDisconnectPacket(c.cfg.Secret, c.cfg.Dict)
}

// CreateStatusPacket builds a Status-Server liveness probe (RFC 5997).
func (c *Client) CreateStatusPacket() *radius.Packet {
	return radius.NewStatusPacket(c.cfg.Secret, c.cfg.Dict)
}

// portFor returns the UDP port a packet of this code should be sent to.
func (c *Client) portFor(code radius.Code) int {
	switch code {
	case radius.AccountingRequest:
		return c.cfg.AcctPort
	case radius.CoARequest, radius.DisconnectRequest:
		return c.cfg.CoAPort
	default:
		return c.cfg.AuthPort
	}
}

// SendPacket serialises pkt, transmits it to the port matching its code,
// and blocks for a reply, making up to Config.Retries attempts in total
// (at least one), each bound by Config.Timeout. Accounting retries increment Acct-Delay-Time by the
// whole seconds elapsed since the first transmit; Access-
// Request retries resend the identical packet unchanged.
func (c *Client) SendPacket(ctx context.Context, pkt *radius.Packet) (*radius.Packet, error) {
	dest := net.JoinHostPort(c.cfg.Server, strconv.Itoa(c.portFor(pkt.Code)))

	id, release, err := c.ids.Acquire(ctx, dest)
	if err != nil {
		return nil, err
	}
	defer release()
	pkt.ID = id

	udpAddr, err := net.ResolveUDPAddr("udp", dest)
	if err != nil {
		return nil, radius.WrapError(radius.ErrIO, "resolving server address", err)
	}

	var localAddr *net.UDPAddr
	if c.cfg.BindAddress != "" {
		localAddr, err = net.ResolveUDPAddr("udp", net.JoinHostPort(c.cfg.BindAddress, "0"))
		if err != nil {
			return nil, radius.WrapError(radius.ErrIO, "resolving bind address", err)
		}
	}

	conn, err := net.DialUDP("udp", localAddr, udpAddr)
	if err != nil {
		return nil, radius.WrapError(radius.ErrIO, "dialing server", err)
	}
	defer conn.Close()

	start := time.Now()
	attempts := c.cfg.Retries
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if pkt.Code == radius.AccountingRequest && attempt > 0 {
			elapsed := int64(time.Since(start).Seconds())
			if err := pkt.Replace("Acct-Delay-Time", elapsed); err != nil {
				c.log.WithError(err).Warn("failed to update Acct-Delay-Time on retry")
			}
		}

		wire, err := pkt.Encode()
		if err != nil {
			return nil, err
		}

		if _, err := conn.Write(wire); err != nil {
			return nil, radius.WrapError(radius.ErrIO, "writing request", err)
		}

		reply, err := c.awaitReply(ctx, conn, pkt, udpAddr)
		if err != nil {
			if radius.IsTimeout(err) {
				c.log.WithFields(logrus.Fields{"attempt": attempt + 1, "code": pkt.Code}).Debug("no reply within timeout, retrying")
				continue
			}
			return nil, err
		}
		return reply, nil
	}

	return nil, radius.NewError(radius.ErrTimeout, "no reply received after exhausting retries")
}

// awaitReply reads datagrams from conn until one decodes, matches pkt's id
// and source, and passes authenticator verification, or the timeout
// expires. Mismatched or unverifiable replies are discarded like lost
// packets; the wait continues until the deadline. Cancelling ctx closes
// conn so the blocked read aborts immediately, surfacing a cancellation
// error distinct from Timeout.
func (c *Client) awaitReply(ctx context.Context, conn *net.UDPConn, pkt *radius.Packet, serverAddr *net.UDPAddr) (*radius.Packet, error) {
	deadline := time.Now().Add(c.cfg.Timeout)
	buf := make([]byte, 4096)

	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stopped:
		}
	}()
	defer close(stopped)

	for {
		if err := ctx.Err(); err != nil {
			return nil, radius.WrapError(radius.ErrIO, "send cancelled", err)
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, radius.NewError(radius.ErrTimeout, "timed out waiting for reply")
		}
		if err := conn.SetReadDeadline(time.Now().Add(remaining)); err != nil {
			return nil, radius.WrapError(radius.ErrIO, "setting read deadline", err)
		}

		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil, radius.WrapError(radius.ErrIO, "send cancelled", ctx.Err())
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return nil, radius.NewError(radius.ErrTimeout, "timed out waiting for reply")
			}
			return nil, radius.WrapError(radius.ErrIO, "reading reply", err)
		}

		if !from.IP.Equal(serverAddr.IP) {
			continue
		}

		reply, err := radius.Decode(buf[:n], pkt.Secret, pkt.Dict)
		if err != nil {
			c.log.WithError(err).Debug("dropping undecodable reply")
			continue
		}
		reply.Source = from
		reply.RequestAuthenticator = pkt.Authenticator

		if reply.ID != pkt.ID {
			continue
		}
		if !radius.VerifyReply(pkt, reply) {
			c.log.Debug("dropping reply that failed authenticator verification")
			continue
		}
		return reply, nil
	}
}

// SendCoA sends a CoA-Request to the configured CoA port.
func (c *Client) SendCoA(ctx context.Context, pkt *radius.Packet) (*radius.Packet, error) {
	pkt.Code = radius.CoARequest
	return c.SendPacket(ctx, pkt)
}

// SendDisconnect sends a Disconnect-Request.
func (c *Client) SendDisconnect(ctx context.Context, pkt *radius.Packet) (*radius.Packet, error) {
	pkt.Code = radius.DisconnectRequest
	return c.SendPacket(ctx, pkt)
}
