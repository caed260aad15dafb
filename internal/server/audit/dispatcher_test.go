package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/authservice/internal/logging"
	"github.com/dmitrijs2005/authservice/internal/server/models"
	"github.com/dmitrijs2005/authservice/internal/server/repositories/loginattempts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu       sync.Mutex
	name     string
	err      error
	block    chan struct{}
	attempts []models.LoginAttempt
	ctxErrs  []error
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Write(ctx context.Context, a *models.LoginAttempt) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, *a)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	return s.err
}

func (s *recordingSink) got() []models.LoginAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.LoginAttempt(nil), s.attempts...)
}

func TestDispatcher_WritesToAllSinks(t *testing.T) {
	primary := &recordingSink{name: "primary"}
	mirror := &recordingSink{name: "mirror"}
	d := NewDispatcher(DispatcherConfig{BufferSize: 4}, logging.Nop(), primary, mirror)

	d.Record(context.Background(), &models.LoginAttempt{Login: "a", LoginNormalized: "A", Success: true})
	d.Record(context.Background(), &models.LoginAttempt{Login: "b", LoginNormalized: "B"})
	d.Close()

	require.Len(t, primary.got(), 2)
	require.Len(t, mirror.got(), 2)
	assert.Equal(t, "A", primary.got()[0].LoginNormalized)
	assert.Equal(t, Stats{Written: 4}, d.Stats())
}

func TestDispatcher_SinkFailureIsCountedNotPropagated(t *testing.T) {
	broken := &recordingSink{name: "broken", err: errors.New("db down")}
	healthy := &recordingSink{name: "healthy"}
	d := NewDispatcher(DispatcherConfig{}, logging.Nop(), broken, healthy)

	d.Record(context.Background(), &models.LoginAttempt{Login: "a", LoginNormalized: "A"})
	d.Close()

	assert.Len(t, healthy.got(), 1)
	assert.Equal(t, Stats{Written: 1, Failed: 1}, d.Stats())
}

func TestDispatcher_CancelledRequestStillWritten(t *testing.T) {
	sink := &recordingSink{name: "s"}
	d := NewDispatcher(DispatcherConfig{BufferSize: 1}, logging.Nop(), sink)

	ctx, cancel := context.WithCancel(context.Background())
	d.Record(ctx, &models.LoginAttempt{Login: "a", LoginNormalized: "A"})
	cancel()
	d.Close()

	require.Len(t, sink.got(), 1)
	assert.NoError(t, sink.ctxErrs[0], "sink must see a live context")
}

func TestDispatcher_FullQueueDropsOnContextDone(t *testing.T) {
	sink := &recordingSink{name: "s", block: make(chan struct{})}
	d := NewDispatcher(DispatcherConfig{BufferSize: 1}, logging.Nop(), sink)

	// first record is taken by the worker and blocks in the sink,
	// second fills the buffer
	d.Record(context.Background(), &models.LoginAttempt{Login: "1"})
	require.Eventually(t, func() bool { return len(d.ch) == 0 }, time.Second, time.Millisecond)
	d.Record(context.Background(), &models.LoginAttempt{Login: "2"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	d.Record(ctx, &models.LoginAttempt{Login: "3"})

	close(sink.block)
	d.Close()

	assert.Len(t, sink.got(), 2)
	assert.Equal(t, uint64(1), d.Stats().Dropped)
}

func TestDispatcher_RecordAfterCloseIsDropped(t *testing.T) {
	sink := &recordingSink{name: "s"}
	d := NewDispatcher(DispatcherConfig{}, logging.Nop(), sink)
	d.Close()
	d.Close()

	d.Record(context.Background(), &models.LoginAttempt{Login: "late"})

	assert.Empty(t, sink.got())
	assert.Equal(t, uint64(1), d.Stats().Dropped)
}

func TestDispatcher_RecordCopiesAttempt(t *testing.T) {
	sink := &recordingSink{name: "s", block: make(chan struct{})}
	d := NewDispatcher(DispatcherConfig{BufferSize: 2}, logging.Nop(), sink)

	a := &models.LoginAttempt{Login: "before"}
	d.Record(context.Background(), a)
	a.Login = "after"

	close(sink.block)
	d.Close()

	require.Len(t, sink.got(), 1)
	assert.Equal(t, "before", sink.got()[0].Login)
}

func TestRepositorySink_AppendsToRepository(t *testing.T) {
	repo := loginattempts.NewInMemoryRepository()
	s := NewRepositorySink(repo)

	require.NoError(t, s.Write(context.Background(), &models.LoginAttempt{Login: "a", LoginNormalized: "A"}))

	list := repo.List()
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, "login_attempts", s.Name())
}

func TestDispatcher_AlreadyCancelledRequestWrittenWhenQueueHasRoom(t *testing.T) {
	sink := &recordingSink{name: "s"}
	d := NewDispatcher(DispatcherConfig{BufferSize: 4}, logging.Nop(), sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 4; i++ {
		d.Record(ctx, &models.LoginAttempt{Login: "a", LoginNormalized: "A"})
	}
	d.Close()

	assert.Len(t, sink.got(), 4)
	assert.Equal(t, uint64(0), d.Stats().Dropped)
}

func TestDispatcher_DropIfFullNeverWaits(t *testing.T) {
	sink := &recordingSink{name: "s", block: make(chan struct{})}
	d := NewDispatcher(DispatcherConfig{BufferSize: 1, DropIfFull: true}, logging.Nop(), sink)

	d.Record(context.Background(), &models.LoginAttempt{Login: "1"})
	require.Eventually(t, func() bool { return len(d.ch) == 0 }, time.Second, time.Millisecond)
	d.Record(context.Background(), &models.LoginAttempt{Login: "2"})

	returned := make(chan struct{})
	go func() {
		d.Record(context.Background(), &models.LoginAttempt{Login: "3"})
		d.Record(context.Background(), &models.LoginAttempt{Login: "4"})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Record waited on a full queue")
	}

	close(sink.block)
	d.Close()

	assert.Len(t, sink.got(), 2)
	assert.Equal(t, Stats{Written: 2, Dropped: 2}, d.Stats())
}

func TestDispatcher_RecordRacingCloseIsWrittenOrDropped(t *testing.T) {
	const writers = 16

	for round := 0; round < 50; round++ {
		sink := &recordingSink{name: "s"}
		d := NewDispatcher(DispatcherConfig{BufferSize: 4}, logging.Nop(), sink)

		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				d.Record(context.Background(), &models.LoginAttempt{Login: "a", LoginNormalized: "A"})
			}()
		}
		close(start)
		d.Close()
		wg.Wait()

		st := d.Stats()
		written := uint64(len(sink.got()))
		require.Equal(t, written, st.Written, "round %d", round)
		require.Equal(t, uint64(writers), written+st.Dropped, "round %d: every attempt is written or counted", round)
	}
}
