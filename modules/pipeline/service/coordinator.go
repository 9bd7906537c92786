package service

import (
	"context"
	"sync"
	"time"

	"stayops/core/config"
	"stayops/core/logger"
	"stayops/modules/pipeline/events"
)

// Coordinator wires the change feed to the queue and owns the subscriber
// list. It is constructed once at process start and torn down explicitly;
// there is no ambient registration.
type Coordinator struct {
	feed  Feed
	queue *Queue
	cfg   config.PipelineConfig

	mu          sync.RWMutex
	subscribers []events.Subscriber

	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewCoordinator(feed Feed, queue *Queue, cfg config.PipelineConfig) *Coordinator {
	return &Coordinator{
		feed:  feed,
		queue: queue,
		cfg:   cfg,
		quit:  make(chan struct{}),
	}
}

// Subscribe registers a collaborator for pipeline events. Call before Start.
func (c *Coordinator) Subscribe(sub events.Subscriber) {
	c.mu.Lock()
	c.subscribers = append(c.subscribers, sub)
	c.mu.Unlock()
	logger.Info("Coordinator:Subscribe", "subscriber", sub.Name())
}

// Publish fans an event out to every subscriber. A panicking subscriber is
// isolated so the rest still receive the event.
func (c *Coordinator) Publish(ctx context.Context, e events.Event) {
	c.mu.RLock()
	subs := c.subscribers
	c.mu.RUnlock()

	for _, sub := range subs {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("Coordinator:Publish:subscriber_panic",
						"subscriber", sub.Name(),
						"event", e.Type,
						"panic", rec,
					)
				}
			}()
			sub.Handle(ctx, e)
		}()
	}
}

// Start launches the queue workers and the feed polling loop.
func (c *Coordinator) Start() {
	c.queue.Start()
	c.wg.Add(1)
	go c.pollLoop()
	logger.Info("Coordinator:Start", "poll_interval", c.cfg.PollInterval.String())
}

// Stop halts polling, then drains the queue workers.
func (c *Coordinator) Stop() {
	c.once.Do(func() { close(c.quit) })
	c.wg.Wait()
	c.queue.Stop()
	logger.Info("Coordinator:Stop")
}

func (c *Coordinator) pollLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	c.pollOnce()
	for {
		select {
		case <-c.quit:
			return
		case <-ticker.C:
			c.pollOnce()
		}
	}
}

func (c *Coordinator) pollOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ItemTimeout)
	defer cancel()

	ids, err := c.feed.Pending(ctx)
	if err != nil {
		logger.Error("Coordinator:pollOnce:feed_failed", "error", err.Error())
		return
	}
	for _, id := range ids {
		c.queue.Enqueue(id)
	}
}
