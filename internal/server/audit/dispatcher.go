package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/authservice/internal/logging"
	"github.com/dmitrijs2005/authservice/internal/server/models"
)

const (
	defaultBufferSize   = 256
	defaultWriteTimeout = 5 * time.Second
)

// Stats counts dispatcher outcomes since start.
type Stats struct {
	Written uint64
	Failed  uint64
	Dropped uint64
}

type DispatcherConfig struct {
	BufferSize   int
	WriteTimeout time.Duration
	// DropIfFull makes Record return immediately when the queue is full,
	// counting the attempt as dropped, instead of waiting for a free slot.
	DropIfFull bool
}

type envelope struct {
	ctx     context.Context
	attempt models.LoginAttempt
}

// Dispatcher queues attempts and writes them to every sink from a background
// worker. Writes run on a context detached from the request, so a request that
// is cancelled after enqueueing still gets its record written exactly once.
type Dispatcher struct {
	sinks        []Sink
	logger       logging.Logger
	writeTimeout time.Duration
	dropIfFull   bool

	ch        chan envelope
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once

	// mu orders sends against Close: a send made under the read lock is
	// always seen by the final drain.
	mu     sync.RWMutex
	closed bool

	written atomic.Uint64
	failed  atomic.Uint64
	dropped atomic.Uint64
}

var _ Recorder = (*Dispatcher)(nil)

func NewDispatcher(cfg DispatcherConfig, logger logging.Logger, sinks ...Sink) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	d := &Dispatcher{
		sinks:        sinks,
		logger:       logger.With("module", "audit"),
		writeTimeout: cfg.WriteTimeout,
		dropIfFull:   cfg.DropIfFull,
		ch:           make(chan envelope, cfg.BufferSize),
		done:         make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Record enqueues a copy of attempt. With DropIfFull it never waits;
// otherwise it blocks while the queue is full and gives up when ctx ends.
// Attempts that are not enqueued, including those recorded after Close, are
// counted as dropped.
func (d *Dispatcher) Record(ctx context.Context, attempt *models.LoginAttempt) {
	e := envelope{ctx: context.WithoutCancel(ctx), attempt: *attempt}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(ctx, e, "dispatcher closed")
		return
	}

	select {
	case d.ch <- e:
		return
	default:
	}

	if d.dropIfFull {
		d.drop(ctx, e, "queue full")
		return
	}

	select {
	case d.ch <- e:
	case <-ctx.Done():
		d.drop(ctx, e, ctx.Err().Error())
	}
}

// Close stops accepting attempts and waits until queued ones are written.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.done)
		d.mu.Unlock()

		d.wg.Wait()
	})
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Written: d.written.Load(),
		Failed:  d.failed.Load(),
		Dropped: d.dropped.Load(),
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case e := <-d.ch:
			d.write(e)
		case <-d.done:
			for {
				select {
				case e := <-d.ch:
					d.write(e)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) write(e envelope) {
	for _, s := range d.sinks {
		ctx, cancel := context.WithTimeout(e.ctx, d.writeTimeout)
		attempt := e.attempt
		err := s.Write(ctx, &attempt)
		cancel()

		if err != nil {
			d.failed.Add(1)
			d.logger.Error(e.ctx, "audit write failed",
				"sink", s.Name(),
				"login_normalized", e.attempt.LoginNormalized,
				"success", e.attempt.Success,
				"error", err.Error())
			continue
		}
		d.written.Add(1)
	}
}

func (d *Dispatcher) drop(ctx context.Context, e envelope, reason string) {
	d.dropped.Add(1)
	d.logger.Error(ctx, "audit record dropped",
		"login_normalized", e.attempt.LoginNormalized,
		"success", e.attempt.Success,
		"reason", reason)
}
