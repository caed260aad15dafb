// Package auth mints signed access tokens for authenticated accounts.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultValidity is the access token lifetime when none is configured.
const DefaultValidity = 60 * time.Minute

var ErrInvalidIssuerConfig = errors.New("invalid token issuer config")

// Token is a freshly issued access token.
type Token struct {
	Value     string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer builds HS256-signed JWTs carrying sub, jti, iss, aud, iat, nbf and
// exp claims. It keeps no state about issued tokens; they stay valid until
// they expire. An Issuer is immutable and safe for concurrent use.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	validity time.Duration

	now   func() time.Time
	newID func() string
}

func NewIssuer(secret []byte, issuer, audience string, validity time.Duration) (*Issuer, error) {
	switch {
	case len(secret) == 0:
		return nil, fmt.Errorf("%w: empty secret", ErrInvalidIssuerConfig)
	case issuer == "":
		return nil, fmt.Errorf("%w: empty issuer", ErrInvalidIssuerConfig)
	case audience == "":
		return nil, fmt.Errorf("%w: empty audience", ErrInvalidIssuerConfig)
	case validity <= 0:
		return nil, fmt.Errorf("%w: validity must be positive", ErrInvalidIssuerConfig)
	}

	return &Issuer{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		validity: validity,
		now:      time.Now,
		newID:    uuid.NewString,
	}, nil
}

// Validity returns the configured token lifetime.
func (i *Issuer) Validity() time.Duration {
	return i.validity
}

// Issue signs a token for subject.
func (i *Issuer) Issue(subject string) (*Token, error) {
	// JWT dates have second precision; truncating keeps exp-iat exact.
	issuedAt := i.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(i.validity)
	id := i.newID()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ID:        id,
		Issuer:    i.issuer,
		Audience:  jwt.ClaimStrings{i.audience},
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return nil, err
	}

	return &Token{Value: signed, ID: id, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}
