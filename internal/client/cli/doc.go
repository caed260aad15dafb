// Package cli provides the authservice command-line client.
//
// It connects to the gRPC endpoint, checks that the service reports SERVING
// through the standard health protocol, prompts for the missing credentials
// and runs one command:
//   - register: create an account
//   - login: exchange credentials for an access token and print it
//
// Passwords are read from the terminal without echo and wiped after use.
package cli
