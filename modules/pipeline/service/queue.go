package service

import (
	"context"
	"sync"
	"time"

	"stayops/core/config"
	"stayops/core/errors"
	"stayops/core/logger"

	"github.com/google/uuid"
)

type queueItem struct {
	id      uuid.UUID
	attempt int
}

// Queue is the bounded-concurrency runner for reservation processing. One
// identity is in flight at most once; duplicate enqueues while the first is
// unfinished are dropped. Retries on retryable failures keep the in-flight
// guard held so the identity stays serialized across attempts.
type Queue struct {
	cfg       config.PipelineConfig
	process   func(ctx context.Context, id uuid.UUID) *errors.AppError
	exhausted func(id uuid.UUID, lastErr *errors.AppError)

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}

	items chan queueItem
	quit  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

func NewQueue(
	cfg config.PipelineConfig,
	process func(ctx context.Context, id uuid.UUID) *errors.AppError,
	exhausted func(id uuid.UUID, lastErr *errors.AppError),
) *Queue {
	return &Queue{
		cfg:       cfg,
		process:   process,
		exhausted: exhausted,
		inflight:  make(map[uuid.UUID]struct{}),
		items:     make(chan queueItem, 256),
		quit:      make(chan struct{}),
	}
}

// Start launches the worker pool.
func (q *Queue) Start() {
	for i := 0; i < q.cfg.Concurrency; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	logger.Info("Queue:Start", "concurrency", q.cfg.Concurrency)
}

// Stop drains the workers. Pending backoff timers release their guards
// instead of re-enqueueing.
func (q *Queue) Stop() {
	q.once.Do(func() { close(q.quit) })
	q.wg.Wait()
}

// Enqueue admits id for processing. Returns false when the identity is
// already in flight or the queue is shutting down.
func (q *Queue) Enqueue(id uuid.UUID) bool {
	q.mu.Lock()
	if _, held := q.inflight[id]; held {
		q.mu.Unlock()
		return false
	}
	q.inflight[id] = struct{}{}
	q.mu.Unlock()

	select {
	case q.items <- queueItem{id: id}:
		return true
	case <-q.quit:
		q.release(id)
		return false
	}
}

// InFlight reports whether id currently holds the guard.
func (q *Queue) InFlight(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, held := q.inflight[id]
	return held
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.quit:
			return
		case item := <-q.items:
			q.handle(item)
		}
	}
}

func (q *Queue) handle(item queueItem) {
	ctx, cancel := context.WithTimeout(context.Background(), q.cfg.ItemTimeout)
	appErr := q.process(ctx, item.id)
	cancel()

	if appErr == nil {
		q.release(item.id)
		return
	}

	if !errors.IsRetryable(appErr) {
		// Terminal outcomes are recorded by the processor itself.
		logger.Warn("Queue:handle:terminal_failure", "id", item.id, "error", appErr.Message)
		q.release(item.id)
		return
	}

	if item.attempt >= q.cfg.RetryBudget {
		logger.Error("Queue:handle:retry_budget_exhausted",
			"id", item.id,
			"attempts", item.attempt+1,
			"error", appErr.Message,
		)
		if q.exhausted != nil {
			q.exhausted(item.id, appErr)
		}
		q.release(item.id)
		return
	}

	delay := q.cfg.BackoffBase * time.Duration(1<<item.attempt)
	logger.Warn("Queue:handle:retrying",
		"id", item.id,
		"attempt", item.attempt+1,
		"delay", delay.String(),
		"error", appErr.Message,
	)
	next := queueItem{id: item.id, attempt: item.attempt + 1}
	time.AfterFunc(delay, func() {
		select {
		case q.items <- next:
		case <-q.quit:
			q.release(next.id)
		}
	})
}

func (q *Queue) release(id uuid.UUID) {
	q.mu.Lock()
	delete(q.inflight, id)
	q.mu.Unlock()
}
