// Package archive is an optional listener that records every polled
// order snapshot in Postgres. It exists for operators who want a local
// history of the books alongside the relay upload; the trawler itself
// never reads it back.
package archive

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/evemarkets/crest-trawler/internal/model"
	"github.com/evemarkets/crest-trawler/internal/stats"
)

// DB is the subset of pgxpool.Pool the writer needs.
type DB interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Config holds archive writer configuration.
type Config struct {
	BatchSize     int           // Rows per insert batch (default: 1000)
	FlushInterval time.Duration // Max latency before a partial batch flushes (default: 1s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     1000,
		FlushInterval: time.Second,
	}
}

// Writer accumulates order rows from notifications and batch-inserts
// them into the market_orders table.
type Writer struct {
	cfg       Config
	db        DB
	collector *stats.Collector
	logger    *slog.Logger

	batchMu sync.Mutex
	batch   []orderRow

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// orderRow is one archived order.
type orderRow struct {
	ReceivedAt    time.Time
	BatchID       uuid.UUID
	RegionID      int
	TypeID        int
	OrderID       int64
	Price         float64
	Volume        int64
	VolumeEntered int64
	MinVolume     int64
	Buy           bool
	Range         string
	Issued        string
	Duration      int
	StationID     int64
}

// NewWriter creates an archive Writer.
func NewWriter(cfg Config, db DB, collector *stats.Collector, logger *slog.Logger) *Writer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultConfig().FlushInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		cfg:       cfg,
		db:        db,
		collector: collector,
		logger:    logger,
		batch:     make([]orderRow, 0, cfg.BatchSize),
	}
}

// Start begins the periodic flush loop.
func (w *Writer) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("archive writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop terminates the flush loop and flushes whatever remains.
func (w *Writer) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("archive writer stop timed out")
	}

	// w.ctx is cancelled by now; the final drain runs on the caller's
	// stop context so the remaining rows actually reach the database.
	w.flush(ctx)
	w.logger.Info("archive writer stopped")
	return nil
}

// Notify implements the trawler Listener: one call per (region, item)
// order batch.
func (w *Writer) Notify(regionID, typeID int, orders []model.Order) {
	now := time.Now()
	batchID := uuid.New()

	w.batchMu.Lock()
	for _, o := range orders {
		w.batch = append(w.batch, orderRow{
			ReceivedAt:    now,
			BatchID:       batchID,
			RegionID:      regionID,
			TypeID:        typeID,
			OrderID:       o.ID,
			Price:         o.Price,
			Volume:        o.Volume,
			VolumeEntered: o.VolumeEntered,
			MinVolume:     o.MinVolume,
			Buy:           o.Buy,
			Range:         o.Range,
			Issued:        o.Issued,
			Duration:      o.Duration,
			StationID:     o.StationID,
		})
	}
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush(w.runCtx())
	}
}

// runCtx returns the writer's lifecycle context, or Background when the
// writer was never started.
func (w *Writer) runCtx() context.Context {
	if w.ctx != nil {
		return w.ctx
	}
	return context.Background()
}

// Pending returns the number of rows awaiting a flush.
func (w *Writer) Pending() int {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return len(w.batch)
}

func (w *Writer) flushLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.flush(w.ctx)
		}
	}
}

// flush inserts the accumulated rows. A failed insert loses the batch;
// the archive is best effort, like the upload pipeline.
func (w *Writer) flush(ctx context.Context) {
	w.batchMu.Lock()
	batch := w.batch
	w.batch = make([]orderRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	if len(batch) == 0 {
		return
	}

	start := time.Now()
	if err := w.insertRows(ctx, batch); err != nil {
		w.collector.Tally("archive_errored")
		w.logger.Error("archive batch insert failed", "error", err, "count", len(batch))
		return
	}

	w.collector.TallyN("archive_rows_written", int64(len(batch)))
	w.logger.Debug("flushed archive batch",
		"rows", len(batch),
		"duration", time.Since(start),
	)
}

// insertRows writes rows with ON CONFLICT DO NOTHING so a re-polled
// order observed at the same instant is not duplicated.
func (w *Writer) insertRows(ctx context.Context, rows []orderRow) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO market_orders (received_at, batch_id, region_id, type_id, order_id, price, volume, volume_entered, min_volume, buy, range_str, issued, duration, station_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (order_id, received_at) DO NOTHING
		`, r.ReceivedAt, r.BatchID, r.RegionID, r.TypeID, r.OrderID, r.Price, r.Volume, r.VolumeEntered, r.MinVolume, r.Buy, r.Range, r.Issued, r.Duration, r.StationID)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
