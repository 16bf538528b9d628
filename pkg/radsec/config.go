// Package radsec implements RadSec (RFC 6614): RADIUS over TLS on a
// length-prefixed TCP stream, using the packet's own header length field
// as the frame delimiter. The shared secret
// between RadSec peers is always the literal string "radsec" per RFC
// 6614 §2.3; per-peer trust instead comes from the TLS handshake, so both
// ClientConfig and ServerConfig centre on certificates rather than a
// configurable secret.
package radsec

import (
	"crypto/tls"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nicholasamorim/radiusgo/pkg/dictionary"
)

var validate = validator.New()

// Secret is the fixed RadSec shared secret (RFC 6614 §2.3). RadSec trust
// is established by the TLS handshake, not by this value; it exists only
// because the RADIUS packet codec requires a secret to compute
// authenticators and attribute encodings.
var Secret = []byte("radsec")

// ClientConfig configures a RadSec client connection.
type ClientConfig struct {
	Server string `validate:"required"`
	Port   int    `validate:"required,min=1,max=65535"`

	Dict *dictionary.Dictionary `validate:"required"`

	CertFile   string
	KeyFile    string
	CAFile     string
	ServerName string

	// InsecureSkipVerify disables certificate chain verification. It
	// exists for lab/testing setups only; production deployments should
	// supply CAFile and/or PinnedFingerprint instead.
	InsecureSkipVerify bool

	// PinnedFingerprint, if set, is the lowercase hex SHA-256 digest of
	// the server's leaf certificate DER encoding. When set, normal chain
	// verification is turned off (as with InsecureSkipVerify) and the pin
	// alone decides whether the server certificate is accepted; CAFile is
	// then not consulted.
	PinnedFingerprint string

	DialTimeout time.Duration `validate:"required,gt=0"`
	ReadTimeout time.Duration `validate:"required,gt=0"`
}

// DefaultClientConfig returns a ClientConfig with RadSec's conventional
// port 2083 and sane timeouts.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Port:        2083,
		DialTimeout: 5 * time.Second,
		ReadTimeout: 5 * time.Second,
	}
}

func (c ClientConfig) validateConfig() error {
	return validate.Struct(c)
}

func (c ClientConfig) tlsConfig() (*tls.Config, error) {
	tlsCfg := &tls.Config{
		ServerName:         c.ServerName,
		InsecureSkipVerify: c.InsecureSkipVerify || c.PinnedFingerprint != "",
	}
	if c.CertFile != "" && c.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, err
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	if c.CAFile != "" {
		pool, err := loadCAPool(c.CAFile)
		if err != nil {
			return nil, err
		}
		tlsCfg.RootCAs = pool
	}
	if c.PinnedFingerprint != "" {
		tlsCfg.VerifyPeerCertificate = verifyFingerprint(c.PinnedFingerprint)
	}
	return tlsCfg, nil
}

// ServerConfig configures a RadSec listener.
type ServerConfig struct {
	Address string `validate:"required"`
	Port    int    `validate:"required,min=1,max=65535"`

	Dict *dictionary.Dictionary `validate:"required"`

	CertFile string `validate:"required"`
	KeyFile  string `validate:"required"`
	CAFile   string

	// RequireClientCert enables mutual TLS, matching the way operators
	// typically deploy RadSec between trusted proxies (RFC 6614 §2.1).
	RequireClientCert bool

	ReadTimeout time.Duration `validate:"required,gt=0"`
}

// DefaultServerConfig returns a ServerConfig with RadSec's conventional
// port 2083.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:        2083,
		ReadTimeout: 30 * time.Second,
	}
}

func (c ServerConfig) validateConfig() error {
	return validate.Struct(c)
}

func (c ServerConfig) tlsConfig() (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, err
	}
	tlsCfg := &tls.Config{Certificates: []tls.Certificate{cert}}
	if c.CAFile != "" {
		pool, err := loadCAPool(c.CAFile)
		if err != nil {
			return nil, err
		}
		tlsCfg.ClientCAs = pool
		if c.RequireClientCert {
			tlsCfg.ClientAuth = tls.RequireAndVerifyClientCert
		} else {
			tlsCfg.ClientAuth = tls.VerifyClientCertIfGiven
		}
	} else if c.RequireClientCert {
		tlsCfg.ClientAuth = tls.RequireAnyClientCert
	}
	return tlsCfg, nil
}
