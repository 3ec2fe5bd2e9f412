package assistant

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lamnguyen/cvstudio/internal/llm"
)

// Coalescer defaults. The wait timeouts are the two-tier fallback for a
// submission stuck in a batch nobody else fills.
const (
	DefaultBatchSize    = 3
	DefaultMaxWait      = 1500 * time.Millisecond
	defaultWaitTimeout  = 30 * time.Second
	defaultFlushTimeout = 5 * time.Second
)

// pendingRequest is one queued submission awaiting a dispatch cycle. It is
// owned exclusively by the coalescer's queue until dispatch delivers the
// result on its channel. Each request carries its submitter's context so
// one caller's cancellation cannot fail another caller's call.
type pendingRequest struct {
	ctx      context.Context
	messages []llm.Message
	result   chan string
	enqueued time.Time
}

// Coalescer groups temporally-close chat submissions into one dispatch
// cycle to amortize call volume, while each caller sees a plain blocking
// call. Dispatch still issues one chat call per queued entry; the batching
// is about dispatch timing, not payload merging.
//
// A submission that does not itself reach a trigger relies on a later,
// unrelated submission to fire the dispatch. Under low concurrency that is
// a real starvation window; the two-tier timeout in Submit is the only
// remedy, deliberately so.
type Coalescer struct {
	call func(ctx context.Context, messages []llm.Message) string
	log  *zap.Logger

	batchSize    int
	maxWait      time.Duration
	waitTimeout  time.Duration
	flushTimeout time.Duration

	now func() time.Time // test hook

	mu           sync.Mutex
	pending      []*pendingRequest
	lastDispatch time.Time
}

// CoalescerConfig tunes a Coalescer; zero values take the defaults.
type CoalescerConfig struct {
	BatchSize    int
	MaxWait      time.Duration
	WaitTimeout  time.Duration
	FlushTimeout time.Duration
}

// NewCoalescer creates a Coalescer that dispatches each queued entry
// through call.
func NewCoalescer(call func(ctx context.Context, messages []llm.Message) string, cfg CoalescerConfig, log *zap.Logger) *Coalescer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultMaxWait
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = defaultWaitTimeout
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = defaultFlushTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Coalescer{
		call:         call,
		log:          log,
		batchSize:    cfg.BatchSize,
		maxWait:      cfg.MaxWait,
		waitTimeout:  cfg.WaitTimeout,
		flushTimeout: cfg.FlushTimeout,
		now:          time.Now,
		lastDispatch: time.Now(),
	}
}

// Submit queues the messages and blocks until the batch containing them is
// dispatched. After the primary timeout it forces a flush of whatever is
// pending and waits once more; if the result still has not arrived it
// returns the fixed timeout sentinel. A late result is simply ignored.
func (c *Coalescer) Submit(ctx context.Context, messages []llm.Message) string {
	req := &pendingRequest{
		ctx:      ctx,
		messages: messages,
		result:   make(chan string, 1),
		enqueued: c.now(),
	}
	c.enqueue(req)

	select {
	case resp := <-req.result:
		return resp
	case <-time.After(c.waitTimeout):
	}

	c.log.Debug("batch wait timed out, forcing dispatch")
	c.Flush()

	select {
	case resp := <-req.result:
		return resp
	case <-time.After(c.flushTimeout):
		return ErrTimeoutMsg
	}
}

// enqueue appends the request and evaluates the dispatch triggers under the
// lock: queue length reaching the batch size, or the max wait elapsing
// since the previous cycle. When a trigger fires, the submitting caller
// dispatches the entire current queue itself.
func (c *Coalescer) enqueue(req *pendingRequest) {
	c.mu.Lock()
	c.pending = append(c.pending, req)

	shouldDispatch := len(c.pending) >= c.batchSize ||
		c.now().Sub(c.lastDispatch) >= c.maxWait

	var batch []*pendingRequest
	if shouldDispatch {
		batch = c.takeLocked()
	}
	c.mu.Unlock()

	if batch != nil {
		c.dispatch(batch)
	}
}

// Flush dispatches any pending requests immediately.
func (c *Coalescer) Flush() {
	c.mu.Lock()
	batch := c.takeLocked()
	c.mu.Unlock()

	if batch != nil {
		c.dispatch(batch)
	}
}

// Pending reports the current queue length.
func (c *Coalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// takeLocked snapshots and clears the queue and resets the dispatch clock.
// Caller must hold c.mu.
func (c *Coalescer) takeLocked() []*pendingRequest {
	if len(c.pending) == 0 {
		return nil
	}
	batch := c.pending
	c.pending = nil
	c.lastDispatch = c.now()
	return batch
}

// dispatch issues one chat call per entry, outside the queue lock so new
// submissions can accumulate while a batch is in flight. Each call runs
// under its own submitter's context: the dispatching caller may have been
// cancelled without affecting the other queued entries.
func (c *Coalescer) dispatch(batch []*pendingRequest) {
	c.log.Debug("dispatching batch", zap.Int("size", len(batch)))
	for _, req := range batch {
		resp := c.call(req.ctx, req.messages)
		req.result <- resp
	}
}
