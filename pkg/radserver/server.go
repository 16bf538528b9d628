// Package radserver implements the RADIUS UDP server: up to three
// independently-enableable listeners (auth/acct/coa), host-based
// authorisation, optional packet verification, duplicate suppression for
// accounting/CoA, and dispatch to caller-supplied handlers.
package radserver

import (
	"context"
	"net"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nicholasamorim/radiusgo/pkg/radius"
)

// Handler processes one decoded, authorised request and returns the reply
// to send back (typically built via req.CreateReply()), or an error/nil
// reply to signal the server should drop the packet without responding.
type Handler func(ctx context.Context, req *radius.Packet) (*radius.Packet, error)

// Server is a multi-port RADIUS UDP server. Each listener runs on its own
// goroutine under a shared errgroup.Group/context.Context. Per-datagram
// handling is itself offloaded to its own goroutine so a slow handler
// cannot stall the listener's read loop; the order handlers complete in is
// therefore not guaranteed to match arrival order.
type Server struct {
	cfg Config
	log *logrus.Entry

	AuthHandler       Handler
	AcctHandler       Handler
	CoAHandler        Handler
	DisconnectHandler Handler

	dedupeAcct *dedupeCache
	dedupeCoA  *dedupeCache
}

// New validates cfg and returns a Server ready to have its Handler fields
// assigned before ListenAndServe is called.
func New(cfg Config) (*Server, error) {
	if err := cfg.validateConfig(); err != nil {
		return nil, radius.WrapError(radius.ErrPacket, "invalid server config", err)
	}
	log := logrus.WithField("component", "radserver")
	if cfg.Debug {
		log.Logger.SetLevel(logrus.DebugLevel)
	}
	s := &Server{cfg: cfg, log: log}
	if cfg.DedupeWindow > 0 {
		s.dedupeAcct = newDedupeCache(cfg.DedupeWindow, cfg.DedupeCacheSize)
		s.dedupeCoA = newDedupeCache(cfg.DedupeWindow, cfg.DedupeCacheSize)
	}
	return s, nil
}

// ListenAndServe binds every enabled socket on every configured address
// and serves until ctx is cancelled or a listener fails to bind, in which
// case every other listener is torn down and the first error is returned.
func (s *Server) ListenAndServe(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, address := range s.cfg.Addresses {
		address := address
		if s.cfg.AuthEnabled {
			g.Go(func() error {
				return s.serve(ctx, address, s.cfg.AuthPort, socketAuth, nil)
			})
		}
		if s.cfg.AcctEnabled {
			g.Go(func() error {
				return s.serve(ctx, address, s.cfg.AcctPort, socketAcct, s.dedupeAcct)
			})
		}
		if s.cfg.CoAEnabled {
			g.Go(func() error {
				return s.serve(ctx, address, s.cfg.CoAPort, socketCoA, s.dedupeCoA)
			})
		}
	}

	return g.Wait()
}

type socketRole int

const (
	socketAuth socketRole = iota
	socketAcct
	socketCoA
)

func (s *Server) serve(ctx context.Context, address string, port int, role socketRole, dedupe *dedupeCache) error {
	udpAddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return radius.WrapError(radius.ErrIO, "resolving listen address", err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return radius.WrapError(radius.ErrIO, "binding socket", err)
	}

	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stopped:
		}
	}()
	defer close(stopped)

	log := s.log.WithFields(logrus.Fields{"address": udpAddr.String(), "role": roleName(role)})
	log.Info("listening")

	buf := make([]byte, 4096)
	for {
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.WithError(err).Warn("read error")
			continue
		}
		data := append([]byte(nil), buf[:n]...)
		go s.handle(ctx, conn, from, data, role, dedupe, log)
	}
}

func (s *Server) handle(ctx context.Context, conn *net.UDPConn, from *net.UDPAddr, data []byte, role socketRole, dedupe *dedupeCache, log *logrus.Entry) {
	host, err := s.cfg.Hosts.Authorize(from.IP)
	if err != nil {
		log.WithField("source", from.IP.String()).Debug("dropping packet from unknown host")
		return
	}

	req, err := radius.Decode(data, host.Secret, s.cfg.Dict)
	if err != nil {
		log.WithError(err).Debug("dropping undecodable packet")
		return
	}
	req.Source = from

	if !codeMatchesRole(req.Code, role) {
		log.WithField("code", req.Code).Debug("dropping packet whose code does not match socket role")
		return
	}

	if s.cfg.EnablePktVerify && !s.verifyIncoming(req) {
		log.Debug("dropping packet that failed verification")
		return
	}

	if dedupe != nil {
		key := dedupeKey{source: from.String(), id: req.ID, authenticator: req.Authenticator}
		if cached, ok := dedupe.Lookup(key); ok {
			conn.WriteToUDP(cached, from)
			return
		}
	}

	handler := s.handlerFor(req.Code)
	if handler == nil {
		log.WithField("code", req.Code).Debug("no handler registered, dropping")
		return
	}

	reply, err := handler(ctx, req)
	if err != nil || reply == nil {
		if err != nil {
			log.WithError(err).Debug("handler declined to reply")
		}
		return
	}

	wire, err := reply.Encode()
	if err != nil {
		log.WithError(err).Warn("failed to encode reply")
		return
	}

	if _, err := conn.WriteToUDP(wire, from); err != nil {
		log.WithError(err).Warn("failed to send reply")
		return
	}

	if dedupe != nil {
		key := dedupeKey{source: from.String(), id: req.ID, authenticator: req.Authenticator}
		dedupe.Store(key, wire)
	}
}

func (s *Server) verifyIncoming(req *radius.Packet) bool {
	switch req.Code {
	case radius.AccessRequest:
		return req.VerifyMessageAuthenticator(req.Authenticator)
	case radius.AccountingRequest, radius.CoARequest, radius.DisconnectRequest:
		return req.VerifyRequestAuthenticator()
	default:
		return true
	}
}

func (s *Server) handlerFor(code radius.Code) Handler {
	switch code {
	case radius.AccessRequest:
		return s.AuthHandler
	case radius.AccountingRequest:
		return s.AcctHandler
	case radius.CoARequest:
		return s.CoAHandler
	case radius.DisconnectRequest:
		return s.DisconnectHandler
	default:
		return nil
	}
}

func codeMatchesRole(code radius.Code, role socketRole) bool {
	switch role {
	case socketAuth:
		return code == radius.AccessRequest
	case socketAcct:
		return code == radius.AccountingRequest
	case socketCoA:
		return code == radius.CoARequest || code == radius.DisconnectRequest
	default:
		return false
	}
}

func roleName(role socketRole) string {
	switch role {
	case socketAuth:
		return "auth"
	case socketAcct:
		return "acct"
	case socketCoA:
		return "coa"
	default:
		return "unknown"
	}
}
