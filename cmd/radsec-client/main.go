// Command radsec-client sends a single Access-Request over RadSec,
// optionally shuttling an EAP-MD5 challenge.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nicholasamorim/radiusgo/pkg/dictionary"
	"github.com/nicholasamorim/radiusgo/pkg/radius"
	"github.com/nicholasamorim/radiusgo/pkg/radsec"
)

var v = viper.New()

func main() {
	root := &cobra.Command{
		Use:   "radsec-client",
		Short: "Send a RADIUS Access-Request over RadSec",
		RunE:  run,
	}

	flags := root.Flags()
	flags.String("config", "", "path to a YAML/TOML config file")
	flags.String("server", "127.0.0.1", "RadSec server address")
	flags.Int("port", 2083, "RadSec TCP port")
	flags.String("dict", "", "path to a RADIUS dictionary file")
	flags.String("cert", "", "client certificate PEM file")
	flags.String("key", "", "client private key PEM file")
	flags.String("ca", "", "CA bundle PEM file for server verification")
	flags.String("server-name", "", "expected TLS server name")
	flags.Bool("insecure-skip-verify", false, "skip TLS chain verification")
	flags.String("pinned-fingerprint", "", "expected SHA-256 fingerprint of the server leaf certificate")
	flags.String("user", "", "User-Name value")
	flags.String("password", "", "User-Password, or EAP-MD5 password if --eap-md5 is set")
	flags.Bool("eap-md5", false, "answer an Access-Challenge with an EAP-MD5 response")
	flags.Duration("timeout", 5*time.Second, "dial and per-exchange timeout")

	v.BindPFlags(flags)
	v.SetEnvPrefix("RADSEC_CLIENT")
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

	cfg := radsec.DefaultClientConfig()
	cfg.Server = v.GetString("server")
	cfg.Port = v.GetInt("port")
	cfg.Dict = dict
	cfg.CertFile = v.GetString("cert")
	cfg.KeyFile = v.GetString("key")
	cfg.CAFile = v.GetString("ca")
	cfg.ServerName = v.GetString("server-name")
	cfg.InsecureSkipVerify = v.GetBool("insecure-skip-verify")
	cfg.PinnedFingerprint = v.GetString("pinned-fingerprint")
	cfg.DialTimeout = v.GetDuration("timeout")
	cfg.ReadTimeout = v.GetDuration("timeout")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	client, err := radsec.Dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	req := radius.NewAuthPacket(radsec.Secret, dict)
	if user := v.GetString("user"); user != "" {
		if err := req.Set("User-Name", user); err != nil {
			return err
		}
	}
	password := v.GetString("password")
	if password != "" && !v.GetBool("eap-md5") {
		if err := req.Set("User-Password", password); err != nil {
			return err
		}
	}

	sendCtx, sendCancel := context.WithTimeout(context.Background(), cfg.ReadTimeout)
	defer sendCancel()
	reply, err := client.SendPacket(sendCtx, req)
	if err != nil {
		return err
	}

	if v.GetBool("eap-md5") && reply.Code == radius.AccessChallenge {
		reply, err = client.RunEAPMD5(sendCtx, reply, v.GetString("user"), password)
		if err != nil {
			return err
		}
	}

	fmt.Printf("reply code: %d\n", reply.Code)
	return nil
}
