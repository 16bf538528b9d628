package radclient

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nicholasamorim/radiusgo/pkg/dictionary"
)

var validate = validator.New()

// Config is the client configuration surface: the server to talk to, the
// ports for each packet family, the shared secret, the dictionary to
// encode/decode against, and the retry/timeout budget.
type Config struct {
	Server      string                 `validate:"required"`
	AuthPort    int                    `validate:"required,min=1,max=65535"`
	AcctPort    int                    `validate:"required,min=1,max=65535"`
	CoAPort     int                    `validate:"required,min=1,max=65535"`
	Secret      []byte                 `validate:"required"`
	Dict        *dictionary.Dictionary `validate:"required"`
	Retries     int                    `validate:"min=0"`
	Timeout     time.Duration          `validate:"required,gt=0"`
	BindAddress string
}

// DefaultConfig returns a Config with the conventional RADIUS ports and
// defaults (retries=3, timeout=5s), leaving Server, Secret and Dict for
// the caller to fill in.
func DefaultConfig() Config {
	return Config{
		AuthPort: 1812,
		AcctPort: 1813,
		CoAPort:  3799,
		Retries:  3,
		Timeout:  5 * time.Second,
	}
}

func (c Config) validateConfig() error {
	return validate.Struct(c)
}
