package radserver

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nicholasamorim/radiusgo/pkg/dictionary"
	"github.com/nicholasamorim/radiusgo/pkg/radius"
)

var validate = validator.New()

// Config is the server configuration surface: which
// addresses and ports to listen on, which of the three packet families
// are enabled, the dictionary/host registry to decode and authorise
// against, and the optional hardening knobs (packet verification,
// duplicate-suppression window).
type Config struct {
	Addresses []string `validate:"required,min=1"`

	AuthPort int `validate:"required,min=1,max=65535"`
	AcctPort int `validate:"required,min=1,max=65535"`
	CoAPort  int `validate:"required,min=1,max=65535"`

	AuthEnabled bool
	AcctEnabled bool
	CoAEnabled  bool

	Dict  *dictionary.Dictionary `validate:"required"`
	Hosts *radius.Hosts          `validate:"required"`

	// EnablePktVerify turns on Message-Authenticator verification for
	// Access-Request and request-authenticator verification for
	// Accounting/CoA/Disconnect requests before dispatch.
	EnablePktVerify bool
	Debug           bool

	// DedupeWindow bounds how long a cached reply is resent for a
	// duplicate (source, id, request-authenticator) on the accounting
	// and CoA sockets. Zero disables duplicate suppression.
	DedupeWindow time.Duration
	// DedupeCacheSize caps the number of distinct in-flight dedupe
	// entries retained at once.
	DedupeCacheSize int
}

// DefaultConfig returns a Config with the conventional RADIUS ports, all
// three packet families enabled, and a 30s duplicate-suppression window.
func DefaultConfig() Config {
	return Config{
		AuthPort:        1812,
		AcctPort:        1813,
		CoAPort:         3799,
		AuthEnabled:     true,
		AcctEnabled:     true,
		CoAEnabled:      true,
		DedupeWindow:    30 * time.Second,
		DedupeCacheSize: 4096,
	}
}

func (c Config) validateConfig() error {
	return validate.Struct(c)
}
