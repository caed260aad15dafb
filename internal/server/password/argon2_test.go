package password

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testParams keeps hashing fast while staying above the accepted minimums.
func testParams() Argon2Params {
	return Argon2Params{MemoryKiB: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func newTestHasher(t *testing.T) *Argon2Hasher {
	t.Helper()
	h, err := NewArgon2Hasher(testParams())
	require.NoError(t, err)
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := newTestHasher(t)

	encoded, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=8192,t=1,p=1$"), encoded)

	ok, err := h.Verify(encoded, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(encoded, "Correct horse battery staple")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHash_SaltedOutputDiffers(t *testing.T) {
	h := newTestHasher(t)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerify_UsesParamsStoredInHash(t *testing.T) {
	old := newTestHasher(t)
	encoded, err := old.Hash("pw")
	require.NoError(t, err)

	p := testParams()
	p.Time = 2
	p.KeyLength = 64
	current, err := NewArgon2Hasher(p)
	require.NoError(t, err)

	ok, err := current.Verify(encoded, "pw")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_MalformedHashes(t *testing.T) {
	h := newTestHasher(t)
	good, err := h.Hash("pw")
	require.NoError(t, err)
	parts := strings.Split(good, "$")

	tests := []struct {
		name    string
		encoded string
		want    error
	}{
		{name: "empty", encoded: "", want: ErrInvalidHash},
		{name: "plaintext", encoded: "pw", want: ErrInvalidHash},
		{name: "bcrypt", encoded: "$2a$10$abcdefghijklmnopqrstuv", want: ErrInvalidHash},
		{name: "wrong algorithm", encoded: "$argon2i$" + strings.Join(parts[2:], "$"), want: ErrUnsupportedHash},
		{name: "wrong version", encoded: "$argon2id$v=16$" + strings.Join(parts[3:], "$"), want: ErrUnsupportedHash},
		{name: "missing param", encoded: "$argon2id$v=19$m=8192,t=1$" + parts[4] + "$" + parts[5], want: ErrInvalidHash},
		{name: "duplicate param", encoded: "$argon2id$v=19$m=8192,m=8192,t=1$" + parts[4] + "$" + parts[5], want: ErrInvalidHash},
		{name: "memory too low", encoded: "$argon2id$v=19$m=1,t=1,p=1$" + parts[4] + "$" + parts[5], want: ErrInvalidHash},
		{name: "bad salt", encoded: "$argon2id$v=19$m=8192,t=1,p=1$!!!$" + parts[5], want: ErrInvalidHash},
		{name: "short key", encoded: "$argon2id$v=19$m=8192,t=1,p=1$" + parts[4] + "$AAAA", want: ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.Verify(tt.encoded, "pw")
			assert.False(t, ok)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestNewArgon2Hasher_RejectsWeakParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Argon2Params)
	}{
		{"memory", func(p *Argon2Params) { p.MemoryKiB = 1024 }},
		{"time", func(p *Argon2Params) { p.Time = 0 }},
		{"parallelism", func(p *Argon2Params) { p.Parallelism = 0 }},
		{"salt", func(p *Argon2Params) { p.SaltLength = 8 }},
		{"key", func(p *Argon2Params) { p.KeyLength = 8 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultArgon2Params()
			tt.mutate(&p)
			_, err := NewArgon2Hasher(p)
			assert.ErrorIs(t, err, ErrInvalidArgon2Params)
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestHash_RandomSourceError(t *testing.T) {
	h := newTestHasher(t)
	h.rand = failingReader{}

	_, err := h.Hash("pw")
	assert.ErrorContains(t, err, "no entropy")
}
