// Package config loads runtime configuration for the authservice CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Command-line flags (see Parse), which override defaults.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-l string   login to register or log in with (prompted when empty)
//	-t int      per-request timeout (seconds)
//
// Everything after the flags is returned to the caller as the command to run,
// e.g. "register" or "login".
package config
