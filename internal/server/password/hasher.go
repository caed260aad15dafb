// Package password hashes and verifies account passwords.
//
// Callers depend on the Hasher interface only; the encoded hash is opaque to
// them and carries everything needed to verify it later.
package password

// Hasher is the one-way password capability used by the credential service.
type Hasher interface {
	// Hash returns a self-describing encoded hash of password.
	Hash(password string) (string, error)
	// Verify reports whether password matches encodedHash. A malformed or
	// unsupported hash yields an error.
	Verify(encodedHash, password string) (bool, error)
}
