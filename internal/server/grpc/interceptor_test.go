package grpc

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/authservice/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries *[]logEntry
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{entries: &[]logEntry{}}
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(_ context.Context, msg string, args ...any) { l.add("debug", msg, args) }
func (l *recordingLogger) Info(_ context.Context, msg string, args ...any)  { l.add("info", msg, args) }
func (l *recordingLogger) Warn(_ context.Context, msg string, args ...any)  { l.add("warn", msg, args) }
func (l *recordingLogger) Error(_ context.Context, msg string, args ...any) { l.add("error", msg, args) }
func (l *recordingLogger) With(...any) logging.Logger                       { return l }

func (l *recordingLogger) got() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), *l.entries...)
}

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/authservice.v1.AuthService/Login"}

func TestLoggingInterceptor_LogsMethodAndCode(t *testing.T) {
	l := newRecordingLogger()
	s := NewGRPCServer("", l, &fakeCredentials{})

	resp, err := s.loggingInterceptor(context.Background(), "req", testInfo, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	entries := l.got()
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0].level)
	assert.Contains(t, entries[0].args, "/authservice.v1.AuthService/Login")
	assert.Contains(t, entries[0].args, "OK")
}

func TestLoggingInterceptor_InternalLoggedAsError(t *testing.T) {
	l := newRecordingLogger()
	s := NewGRPCServer("", l, &fakeCredentials{})

	_, err := s.loggingInterceptor(context.Background(), nil, testInfo, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.Internal, "internal error")
	})
	require.Error(t, err)

	entries := l.got()
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0].level)
	assert.Contains(t, entries[0].args, "Internal")
}

func TestRecoveryInterceptor_Panic(t *testing.T) {
	l := newRecordingLogger()
	s := NewGRPCServer("", l, &fakeCredentials{})

	resp, err := s.recoveryInterceptor(context.Background(), nil, testInfo, func(ctx context.Context, req any) (any, error) {
		panic("boom")
	})
	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))

	entries := l.got()
	require.Len(t, entries, 1)
	assert.Equal(t, "panic in handler", entries[0].msg)
}

func TestRecoveryInterceptor_PassesErrorsThrough(t *testing.T) {
	s := NewGRPCServer("", logging.Nop(), &fakeCredentials{})
	want := errors.New("plain")

	_, err := s.recoveryInterceptor(context.Background(), nil, testInfo, func(ctx context.Context, req any) (any, error) {
		return nil, want
	})
	assert.Same(t, want, err)
}
