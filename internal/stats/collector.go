// Package stats collects simple operational counters and gauges and
// aggregates counters over rolling one-minute windows, up to one hour.
package stats

import (
	"sync"
	"time"
)

// MaxMinutes is the depth of the per-key rolling history.
const MaxMinutes = 60

// CounterSummary holds rolling sums for one counter key.
type CounterSummary struct {
	OneMin   int64 `json:"1min"`
	FiveMin  int64 `json:"5min"`
	SixtyMin int64 `json:"60min"`
}

// Summary is a point-in-time snapshot of all collected statistics.
type Summary struct {
	Counters      map[string]CounterSummary `json:"counters"`
	Gauges        map[string]int64          `json:"gauges"`
	UptimeSeconds int64                     `json:"uptime_seconds"`
}

// Collector accumulates counters for the current one-minute window and
// rolls them into a bounded per-key history every interval. All counter
// and history state lives behind one mutex; writes are O(1) and the
// rollover is the only O(keys) operation.
type Collector struct {
	mu      sync.Mutex
	current map[string]int64
	history map[string][]int64 // index 0 = most recent completed window
	gauges  map[string]int64

	interval  time.Duration
	starttime time.Time

	ctx    chan struct{}
	wg     sync.WaitGroup
	closed sync.Once
}

// NewCollector creates a Collector with the standard one-minute window.
func NewCollector() *Collector {
	return NewCollectorInterval(time.Minute)
}

// NewCollectorInterval creates a Collector with a custom window length.
func NewCollectorInterval(interval time.Duration) *Collector {
	return &Collector{
		current:  make(map[string]int64),
		history:  make(map[string][]int64),
		gauges:   make(map[string]int64),
		interval: interval,
		ctx:      make(chan struct{}),
	}
}

// Start begins the background rollover loop and records the start time
// used for uptime reporting.
func (c *Collector) Start() {
	c.mu.Lock()
	c.starttime = time.Now()
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run()
}

// Stop terminates the rollover loop.
func (c *Collector) Stop() {
	c.closed.Do(func() { close(c.ctx) })
	c.wg.Wait()
}

func (c *Collector) run() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx:
			return
		case <-ticker.C:
			c.Rollover()
		}
	}
}

// Rollover moves each counter's current-window value to the front of its
// history, dropping entries beyond MaxMinutes, and resets the counter.
func (c *Collector) Rollover() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, value := range c.current {
		hist := c.history[key]
		hist = append([]int64{value}, hist...)
		if len(hist) > MaxMinutes {
			hist = hist[:MaxMinutes]
		}
		c.history[key] = hist
		c.current[key] = 0
	}
}

// Tally increments the counter for key by 1 in the current window.
func (c *Collector) Tally(key string) {
	c.TallyN(key, 1)
}

// TallyN increments the counter for key by n in the current window.
func (c *Collector) TallyN(key string, n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current[key] += n
}

// Datapoint records the latest value for a gauge key.
func (c *Collector) Datapoint(key string, value int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gauges[key] = value
}

// GetCount sums the most recent min(minutes, MaxMinutes) completed
// windows for key. Returns 0 for an unknown key.
func (c *Collector) GetCount(key string, minutes int) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getCountLocked(key, minutes)
}

func (c *Collector) getCountLocked(key string, minutes int) int64 {
	hist, ok := c.history[key]
	if !ok {
		return 0
	}

	if minutes > MaxMinutes {
		minutes = MaxMinutes
	}
	if minutes > len(hist) {
		minutes = len(hist)
	}

	var sum int64
	for _, v := range hist[:minutes] {
		sum += v
	}
	return sum
}

// GetSummary builds a snapshot of every known counter's 1/5/60-minute
// sums, every gauge's latest value, and process uptime.
func (c *Collector) GetSummary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	summary := Summary{
		Counters: make(map[string]CounterSummary, len(c.current)),
		Gauges:   make(map[string]int64, len(c.gauges)),
	}

	for key := range c.current {
		summary.Counters[key] = CounterSummary{
			OneMin:   c.getCountLocked(key, 1),
			FiveMin:  c.getCountLocked(key, 5),
			SixtyMin: c.getCountLocked(key, 60),
		}
	}
	for key, value := range c.gauges {
		summary.Gauges[key] = value
	}

	if !c.starttime.IsZero() {
		summary.UptimeSeconds = int64(time.Since(c.starttime).Seconds())
	}

	return summary
}
