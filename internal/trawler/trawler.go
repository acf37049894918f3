package trawler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/evemarkets/crest-trawler/internal/api"
	"github.com/evemarkets/crest-trawler/internal/model"
	"github.com/evemarkets/crest-trawler/internal/pool"
	"github.com/evemarkets/crest-trawler/internal/ratelimit"
	"github.com/evemarkets/crest-trawler/internal/stats"
)

// Listener receives one (region, item) order batch per notification.
type Listener interface {
	Notify(regionID, typeID int, orders []model.Order)
}

// ListenerFunc is a function adapter for Listener.
type ListenerFunc func(regionID, typeID int, orders []model.Order)

func (f ListenerFunc) Notify(regionID, typeID int, orders []model.Order) {
	f(regionID, typeID, orders)
}

// Config holds trawler configuration.
type Config struct {
	Workers           int     // Concurrent polling workers (default: 5)
	RequestsPerSecond float64 // Upstream call budget (default: 60)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:           5,
		RequestsPerSecond: 60,
	}
}

// Trawler cycles through every tradable item forever, fetching each
// in-scope region's order book and fanning the results out to listeners.
type Trawler struct {
	cfg       Config
	clients   *pool.ClientPool
	limiter   *ratelimit.Limiter
	collector *stats.Collector
	logger    *slog.Logger

	listeners []Listener
	queue     *itemQueue
	sem       *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Trawler. Each item poll makes two upstream calls per
// region (sell then buy), so the limiter is set to half the configured
// rate to keep the effective call rate within budget.
func New(cfg Config, clients *pool.ClientPool, collector *stats.Collector, logger *slog.Logger) *Trawler {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultConfig().RequestsPerSecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Trawler{
		cfg:       cfg,
		clients:   clients,
		limiter:   ratelimit.New(cfg.RequestsPerSecond / 2),
		collector: collector,
		logger:    logger,
		queue:     newItemQueue(),
		sem:       semaphore.NewWeighted(int64(cfg.Workers)),
	}
}

// AddListener registers a listener. Must be called before Start.
func (t *Trawler) AddListener(l Listener) {
	t.listeners = append(t.listeners, l)
}

// QueueLen returns the number of items awaiting a poll cycle.
func (t *Trawler) QueueLen() int {
	return t.queue.len()
}

// Start seeds the item queue from discovery and begins the scheduling
// loop. Discovery runs once, serially, before any polling starts.
func (t *Trawler) Start(ctx context.Context) error {
	t.ctx, t.cancel = context.WithCancel(ctx)

	if err := t.seedItemQueue(); err != nil {
		return fmt.Errorf("seed item queue: %w", err)
	}

	t.wg.Add(1)
	go t.run()

	t.logger.Info("trawler started",
		"items", t.queue.len(),
		"workers", t.cfg.Workers,
		"poll_interval", t.limiter.Interval(),
	)
	return nil
}

// Stop cancels in-flight polling and waits for workers to exit.
func (t *Trawler) Stop(ctx context.Context) error {
	if t.cancel != nil {
		t.cancel()
	}
	t.queue.close()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("trawler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// seedItemQueue enumerates every type with a market price and enqueues
// each with priority 0. The prices listing is a cheap way to enumerate
// tradable types without walking market groups.
func (t *Trawler) seedItemQueue() error {
	return t.clients.With(t.ctx, func(c *api.Client) error {
		items, err := c.GetAllMarketItems(t.ctx)
		if err != nil {
			return err
		}
		for _, item := range items {
			t.queue.put(0, item)
		}
		return nil
	})
}

// run is the dequeue loop. Submission blocks while the worker pool is
// saturated, which bounds in-flight items without dropping any.
func (t *Trawler) run() {
	defer t.wg.Done()

	for {
		task, ok := t.queue.get()
		if !ok {
			return
		}

		if err := t.sem.Acquire(t.ctx, 1); err != nil {
			return
		}

		t.wg.Add(1)
		go func(item model.Item) {
			defer t.wg.Done()
			defer t.sem.Release(1)
			t.processItem(item)
		}(task.item)
	}
}

// processItem polls one item across every in-scope region, then
// re-enqueues it. A failure in one region is recorded and the remaining
// regions are still attempted; the next natural poll cycle is the retry.
func (t *Trawler) processItem(item model.Item) {
	// The item always goes back on the queue, keyed by when this cycle
	// finished, even if every region failed.
	defer func() {
		t.collector.Tally("trawler_item_processed")
		t.queue.put(time.Now().UnixNano(), item)
	}()

	t.logger.Info("trawling for item", "type_id", item.ID, "name", item.Name)

	err := t.clients.With(t.ctx, func(c *api.Client) error {
		regions, err := c.GetTradeRegions(t.ctx)
		if err != nil {
			return err
		}

		for _, region := range regions {
			if t.ctx.Err() != nil {
				return t.ctx.Err()
			}

			orders, err := t.pollRegion(c, region, item)
			if err != nil {
				t.collector.Tally("trawler_exceptions")
				t.logger.Warn("failed to poll region",
					"region_id", region.ID,
					"type_id", item.ID,
					"error", err,
				)
				continue
			}

			t.logger.Info("retrieved orders",
				"count", len(orders),
				"type_id", item.ID,
				"region_id", region.ID,
			)
			t.collector.TallyN("trawler_orders_received", int64(len(orders)))
			t.notifyListeners(region.ID, item.ID, orders)

			if err := t.limiter.Wait(t.ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && t.ctx.Err() == nil {
		t.collector.Tally("trawler_exceptions")
		t.logger.Warn("item poll cycle aborted", "type_id", item.ID, "error", err)
	}
}

// pollRegion fetches both sides of the order book for one (region, item)
// pair. Sell orders come first in the combined list.
func (t *Trawler) pollRegion(c *api.Client, region model.Region, item model.Item) ([]model.Order, error) {
	sell, err := c.GetSellOrders(t.ctx, region.ID, item)
	if err != nil {
		return nil, err
	}
	buy, err := c.GetBuyOrders(t.ctx, region.ID, item)
	if err != nil {
		return nil, err
	}

	orders := make([]model.Order, 0, len(sell)+len(buy))
	orders = append(orders, sell...)
	orders = append(orders, buy...)
	return orders, nil
}

func (t *Trawler) notifyListeners(regionID, typeID int, orders []model.Order) {
	for _, l := range t.listeners {
		l.Notify(regionID, typeID, orders)
	}
}
