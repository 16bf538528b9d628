// Command radius-server runs a standalone RADIUS auth/acct/CoA server
// wrapping pkg/radserver.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nicholasamorim/radiusgo/pkg/dictionary"
	"github.com/nicholasamorim/radiusgo/pkg/radius"
	"github.com/nicholasamorim/radiusgo/pkg/radserver"
)

var v = viper.New()

func main() {
	root := &cobra.Command{
		Use:   "radius-server",
		Short: "Serve RADIUS Access/Accounting/CoA requests over UDP",
		RunE:  run,
	}

	flags := root.Flags()
	flags.String("config", "", "path to a YAML/TOML config file")
	flags.StringSlice("address", []string{"0.0.0.0"}, "addresses to listen on")
	flags.Int("auth-port", 1812, "Access-Request UDP port")
	flags.Int("acct-port", 1813, "Accounting-Request UDP port")
	flags.Int("coa-port", 3799, "CoA/Disconnect UDP port")
	flags.String("dict", "", "path to a RADIUS dictionary file")
	flags.StringSlice("host", nil, "authorised NAS as ip=secret[,name], repeatable")
	flags.Bool("verify", false, "require Message-Authenticator/request-authenticator verification")
	flags.Bool("debug", false, "enable debug logging")
	flags.Duration("dedupe-window", 30*time.Second, "accounting/CoA duplicate-suppression window")

	v.BindPFlags(flags)
	v.SetEnvPrefix("RADIUS_SERVER")
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

	hosts := radius.NewHosts()
	for _, entry := range v.GetStringSlice("host") {
		host, err := parseHostEntry(entry)
		if err != nil {
			return err
		}
		hosts.Add(host)
	}

	cfg := radserver.DefaultConfig()
	cfg.Addresses = v.GetStringSlice("address")
	cfg.AuthPort = v.GetInt("auth-port")
	cfg.AcctPort = v.GetInt("acct-port")
	cfg.CoAPort = v.GetInt("coa-port")
	cfg.Dict = dict
	cfg.Hosts = hosts
	cfg.EnablePktVerify = v.GetBool("verify")
	cfg.Debug = v.GetBool("debug")
	cfg.DedupeWindow = v.GetDuration("dedupe-window")

	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	srv, err := radserver.New(cfg)
	if err != nil {
		return err
	}
	srv.AuthHandler = logAndAccept("auth")
	srv.AcctHandler = logAndAccept("acct")
	srv.CoAHandler = logAndAccept("coa")
	srv.DisconnectHandler = logAndAccept("disconnect")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logrus.Info("shutdown signal received")
		cancel()
	}()

	logrus.WithField("addresses", cfg.Addresses).Info("starting radius-server")
	return srv.ListenAndServe(ctx)
}

// logAndAccept builds a Handler that logs the request and unconditionally
// accepts it; real deployments supply their own authentication/accounting
// handlers, this is only the example binary's default policy.
func logAndAccept(kind string) radserver.Handler {
	return func(ctx context.Context, req *radius.Packet) (*radius.Packet, error) {
		logrus.WithFields(logrus.Fields{"kind": kind, "id": req.ID, "source": req.Source}).Info("request received")
		return req.CreateReply()
	}
}

func parseHostEntry(entry string) (*radius.RemoteHost, error) {
	ipAndSecret, name, _ := strings.Cut(entry, ",")
	ip, secret, ok := strings.Cut(ipAndSecret, "=")
	if !ok {
		return nil, fmt.Errorf("invalid --host entry %q, want ip=secret[,name]", entry)
	}
	addr := net.ParseIP(ip)
	if addr == nil {
		return nil, fmt.Errorf("invalid NAS address %q", ip)
	}
	if name == "" {
		name = ip
	}
	return radius.NewRemoteHost(addr, []byte(secret), name), nil
}
