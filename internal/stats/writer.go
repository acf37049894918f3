package stats

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Writer periodically serializes the collector's summary and rewrites
// the snapshot file wholesale. No append, no rotation; the file always
// holds exactly the latest snapshot.
type Writer struct {
	collector *Collector
	fileName  string
	interval  time.Duration
	logger    *slog.Logger

	done   chan struct{}
	wg     sync.WaitGroup
	closed sync.Once
}

// NewWriter creates a Writer persisting to fileName every minute.
func NewWriter(collector *Collector, fileName string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		collector: collector,
		fileName:  fileName,
		interval:  time.Minute,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start begins the periodic persistence loop.
func (w *Writer) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop terminates the persistence loop.
func (w *Writer) Stop() {
	w.closed.Do(func() { close(w.done) })
	w.wg.Wait()
}

func (w *Writer) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			if err := w.WriteSnapshot(); err != nil {
				w.logger.Error("failed to write stats snapshot", "error", err)
			}
		}
	}
}

// WriteSnapshot writes the current summary to the snapshot file.
func (w *Writer) WriteSnapshot() error {
	summary := w.collector.GetSummary()

	w.logger.Info("statistics update",
		"counters", len(summary.Counters),
		"gauges", len(summary.Gauges),
		"uptime_seconds", summary.UptimeSeconds,
	)

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	if err := os.WriteFile(w.fileName, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", w.fileName, err)
	}
	return nil
}
