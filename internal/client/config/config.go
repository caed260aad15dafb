package config

import (
	"errors"
	"flag"
	"io"
	"time"
)

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - Login: login name; the CLI prompts for it when empty.
//   - RequestTimeout: deadline applied to each RPC.
type Config struct {
	ServerEndpointAddr string
	Login              string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
}

// ErrNoCommand is returned by Parse when no command follows the flags.
var ErrNoCommand = errors.New("command required: register or login")

// Parse builds a Config from defaults and args, and returns the command
// name that follows the flags.
func Parse(args []string, usage io.Writer) (*Config, string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(usage)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.Login, "l", cfg.Login, "login")
	timeout := fs.Int("t", int(cfg.RequestTimeout/time.Second), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}

	if *timeout <= 0 {
		return nil, "", errors.New("request timeout must be positive")
	}
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second

	if fs.NArg() == 0 {
		return nil, "", ErrNoCommand
	}
	return cfg, fs.Arg(0), nil
}
