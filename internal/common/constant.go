package common

// Reply messages returned to clients by Register and Login.
const (
	MessageCredentialsRequired = "login and password are required"
	MessageUserExists          = "user already exists"
	MessageUserCreated         = "user created"
	MessageInvalidCredentials  = "invalid credentials"
	MessageOK                  = "ok"
	MessageLoginTooLong        = "login is too long"
)

// TokenTypeBearer is the token type reported alongside issued access tokens.
const TokenTypeBearer = "Bearer"

// Metadata keys read from incoming gRPC requests.
const (
	UserAgentHeaderName    = "user-agent"
	ForwardedForHeaderName = "x-forwarded-for"
)
