package radsec

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nicholasamorim/radiusgo/pkg/radius"
)

// Handler processes one decoded request read off a RadSec connection and
// returns the reply to send back, mirroring radserver.Handler.
type Handler func(ctx context.Context, req *radius.Packet) (*radius.Packet, error)

// Server accepts RadSec connections and serves framed RADIUS packets on
// each, one goroutine per connection under a shared errgroup.Group, the
// same structured-concurrency shape radserver.Server uses for its UDP
// listeners.
type Server struct {
	cfg     ServerConfig
	Handler Handler
	log     *logrus.Entry
}

// New validates cfg and returns a Server ready to Serve once Handler is
// assigned.
func New(cfg ServerConfig) (*Server, error) {
	if err := cfg.validateConfig(); err != nil {
		return nil, radius.WrapError(radius.ErrPacket, "invalid radsec server config", err)
	}
	return &Server{cfg: cfg, log: logrus.WithField("component", "radsec.server")}, nil
}

// ListenAndServe binds cfg.Address:cfg.Port with TLS and serves
// connections until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	tlsCfg, err := s.cfg.tlsConfig()
	if err != nil {
		return radius.WrapError(radius.ErrIO, "building tls config", err)
	}

	addr := net.JoinHostPort(s.cfg.Address, strconv.Itoa(s.cfg.Port))
	ln, err := tls.Listen("tcp", addr, tlsCfg)
	if err != nil {
		return radius.WrapError(radius.ErrIO, "binding radsec listener", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})

	s.log.WithField("address", addr).Info("listening")
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return g.Wait()
			}
			s.log.WithError(err).Warn("accept error")
			continue
		}
		g.Go(func() error {
			s.serveConn(ctx, conn)
			return nil
		})
	}
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	log := s.log.WithField("remote", conn.RemoteAddr().String())
	log.Debug("connection accepted")

	for {
		if ctx.Err() != nil {
			return
		}
		if s.cfg.ReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}
		wire, err := readFrame(conn)
		if err != nil {
			if err != io.EOF {
				log.WithError(err).Debug("connection closed")
			}
			return
		}

		req, err := radius.Decode(wire, Secret, s.cfg.Dict)
		if err != nil {
			log.WithError(err).Warn("dropping undecodable radsec frame")
			continue
		}
		req.Source = conn.RemoteAddr()

		if s.Handler == nil {
			continue
		}
		reply, err := s.Handler(ctx, req)
		if err != nil || reply == nil {
			if err != nil {
				log.WithError(err).Debug("handler declined to reply")
			}
			continue
		}

		replyWire, err := reply.Encode()
		if err != nil {
			log.WithError(err).Warn("failed to encode reply")
			continue
		}
		if err := writeFrame(conn, replyWire); err != nil {
			log.WithError(err).Warn("failed to write reply frame")
			return
		}
	}
}
