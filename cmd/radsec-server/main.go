// Command radsec-server runs a standalone RadSec (RFC 6614) listener
// wrapping pkg/radsec.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nicholasamorim/radiusgo/pkg/dictionary"
	"github.com/nicholasamorim/radiusgo/pkg/radius"
	"github.com/nicholasamorim/radiusgo/pkg/radsec"
)

var v = viper.New()

func main() {
	root := &cobra.Command{
		Use:   "radsec-server",
		Short: "Serve RADIUS over TLS (RadSec)",
		RunE:  run,
	}

	flags := root.Flags()
	flags.String("config", "", "path to a YAML/TOML config file")
	flags.String("address", "0.0.0.0", "address to listen on")
	flags.Int("port", 2083, "RadSec TCP port")
	flags.String("dict", "", "path to a RADIUS dictionary file")
	flags.String("cert", "", "server certificate PEM file")
	flags.String("key", "", "server private key PEM file")
	flags.String("ca", "", "CA bundle PEM file for client certificate verification")
	flags.Bool("require-client-cert", false, "require and verify client certificates")
	flags.Duration("read-timeout", 30*time.Second, "idle read timeout per connection")

	v.BindPFlags(flags)
	v.SetEnvPrefix("RADSEC_SERVER")
	v.AutomaticEnv()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	dict := dictionary.New()
	if path := v.GetString("dict"); path != "" {
		if err := dict.LoadFile(path); err != nil {
			return fmt.Errorf("loading dictionary: %w", err)
		}
	}

	cfg := radsec.DefaultServerConfig()
	cfg.Address = v.GetString("address")
	cfg.Port = v.GetInt("port")
	cfg.Dict = dict
	cfg.CertFile = v.GetString("cert")
	cfg.KeyFile = v.GetString("key")
	cfg.CAFile = v.GetString("ca")
	cfg.RequireClientCert = v.GetBool("require-client-cert")
	cfg.ReadTimeout = v.GetDuration("read-timeout")

	srv, err := radsec.New(cfg)
	if err != nil {
		return err
	}
	srv.Handler = func(ctx context.Context, req *radius.Packet) (*radius.Packet, error) {
		logrus.WithFields(logrus.Fields{"id": req.ID, "source": req.Source}).Info("request received")
		return req.CreateReply()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logrus.Info("shutdown signal received")
		cancel()
	}()

	logrus.WithField("address", fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)).Info("starting radsec-server")
	return srv.ListenAndServe(ctx)
}
