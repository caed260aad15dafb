package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const algorithmID = "argon2id"

// Lower bounds accepted both for configuration and for stored hashes.
const (
	minMemoryKiB   uint32 = 8 * 1024
	minTime        uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
)

var (
	ErrInvalidHash         = errors.New("invalid password hash")
	ErrUnsupportedHash     = errors.New("unsupported password hash")
	ErrInvalidArgon2Params = errors.New("invalid argon2 parameters")
)

// Argon2Params are the argon2id cost parameters.
type Argon2Params struct {
	MemoryKiB   uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns the parameters used for new hashes unless
// configured otherwise.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		MemoryKiB:   64 * 1024,
		Time:        1,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func (p Argon2Params) validate() error {
	switch {
	case p.MemoryKiB < minMemoryKiB:
		return fmt.Errorf("%w: memory must be >= %d KiB", ErrInvalidArgon2Params, minMemoryKiB)
	case p.Time < minTime:
		return fmt.Errorf("%w: time must be >= %d", ErrInvalidArgon2Params, minTime)
	case p.Parallelism < minParallelism:
		return fmt.Errorf("%w: parallelism must be >= %d", ErrInvalidArgon2Params, minParallelism)
	case p.SaltLength < minSaltLength:
		return fmt.Errorf("%w: salt length must be >= %d", ErrInvalidArgon2Params, minSaltLength)
	case p.KeyLength < minKeyLength:
		return fmt.Errorf("%w: key length must be >= %d", ErrInvalidArgon2Params, minKeyLength)
	}
	return nil
}

// Argon2Hasher produces PHC-formatted argon2id hashes:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt b64>$<key b64>
//
// Verification uses the parameters stored in the hash, so hashes created with
// older parameters keep verifying after the defaults change.
type Argon2Hasher struct {
	params Argon2Params
	rand   io.Reader
}

var _ Hasher = (*Argon2Hasher)(nil)

func NewArgon2Hasher(p Argon2Params) (*Argon2Hasher, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &Argon2Hasher{params: p, rand: rand.Reader}, nil
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(h.rand, salt); err != nil {
		return "", fmt.Errorf("reading salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.MemoryKiB, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.params.MemoryKiB, h.params.Time, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2Hasher) Verify(encodedHash, password string) (bool, error) {
	d, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	key := argon2.IDKey([]byte(password), d.salt, d.params.Time, d.params.MemoryKiB, d.params.Parallelism, uint32(len(d.key)))

	return subtle.ConstantTimeCompare(key, d.key) == 1, nil
}

type decodedHash struct {
	params Argon2Params
	salt   []byte
	key    []byte
}

func decodeHash(encoded string) (*decodedHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, ErrInvalidHash
	}
	if parts[1] != algorithmID {
		return nil, fmt.Errorf("%w: algorithm %q", ErrUnsupportedHash, parts[1])
	}

	v, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, ErrInvalidHash
	}
	version, err := strconv.Atoi(v)
	if err != nil {
		return nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedHash, version)
	}

	params, err := decodeParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || uint32(len(salt)) < minSaltLength {
		return nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || uint32(len(key)) < minKeyLength {
		return nil, ErrInvalidHash
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))

	return &decodedHash{params: params, salt: salt, key: key}, nil
}

func decodeParams(s string) (Argon2Params, error) {
	var p Argon2Params
	seen := map[string]bool{}

	for _, kv := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || seen[name] {
			return p, ErrInvalidHash
		}
		seen[name] = true

		bits := 32
		if name == "p" {
			bits = 8
		}
		n, err := strconv.ParseUint(value, 10, bits)
		if err != nil {
			return p, ErrInvalidHash
		}

		switch name {
		case "m":
			p.MemoryKiB = uint32(n)
		case "t":
			p.Time = uint32(n)
		case "p":
			p.Parallelism = uint8(n)
		default:
			return p, ErrInvalidHash
		}
	}

	if len(seen) != 3 || p.MemoryKiB < minMemoryKiB || p.Time < minTime || p.Parallelism < minParallelism {
		return p, ErrInvalidHash
	}
	return p, nil
}
