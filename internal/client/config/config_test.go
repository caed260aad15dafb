package config

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Empty(t, c.Login)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestParse(t *testing.T) {
	c, cmd, err := Parse([]string{"-a", "auth:7000", "-l", "alice", "-t", "3", "login"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "login", cmd)
	assert.Equal(t, "auth:7000", c.ServerEndpointAddr)
	assert.Equal(t, "alice", c.Login)
	assert.Equal(t, 3*time.Second, c.RequestTimeout)
}

func TestParse_Defaults(t *testing.T) {
	c, cmd, err := Parse([]string{"register"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "register", cmd)
	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
}

func TestParse_Errors(t *testing.T) {
	_, _, err := Parse(nil, io.Discard)
	assert.ErrorIs(t, err, ErrNoCommand)

	_, _, err = Parse([]string{"-t", "0", "login"}, io.Discard)
	assert.Error(t, err)

	_, _, err = Parse([]string{"-x", "login"}, io.Discard)
	assert.Error(t, err)
}
