package emdr

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/evemarkets/crest-trawler/internal/model"
	"github.com/evemarkets/crest-trawler/internal/stats"
	"github.com/evemarkets/crest-trawler/internal/version"
)

// Queue depth thresholds for observability signals. These never reject
// or drop; the queue is unbounded.
const (
	queueWarnDepth  = 10
	queueErrorDepth = 100
)

// DefaultWorkers is the size of the upload worker pool.
const DefaultWorkers = 10

// Config holds uploader configuration.
type Config struct {
	EndpointURL string        // Upload endpoint
	Workers     int           // Upload worker pool size (default: 10)
	Timeout     time.Duration // Per-upload HTTP timeout (default: 30s)
}

// Uploader consumes order batches, serializes them into UUDIF, and POSTs
// them to the upload endpoint. It implements the trawler's Listener.
type Uploader struct {
	cfg       Config
	queue     *batchQueue
	session   *http.Client // persistent, reused across all uploads
	collector *stats.Collector
	logger    *slog.Logger

	wg sync.WaitGroup
}

// New creates an Uploader.
func New(cfg Config, collector *stats.Collector, logger *slog.Logger) *Uploader {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		cfg:       cfg,
		queue:     newBatchQueue(64),
		session:   &http.Client{Timeout: cfg.Timeout},
		collector: collector,
		logger:    logger,
	}
}

// Start launches the upload workers.
func (u *Uploader) Start() {
	for i := 0; i < u.cfg.Workers; i++ {
		u.wg.Add(1)
		go u.worker()
	}
	u.logger.Info("uploader started",
		"endpoint", u.cfg.EndpointURL,
		"workers", u.cfg.Workers,
	)
}

// Stop closes the queue, drains remaining batches, and waits for the
// workers to finish.
func (u *Uploader) Stop() {
	u.queue.close()
	u.wg.Wait()
	u.logger.Info("uploader stopped")
}

// QueueDepth returns the number of batches awaiting upload.
func (u *Uploader) QueueDepth() int {
	return u.queue.len()
}

// Notify enqueues one (region, item) order batch for upload. Never
// blocks and never rejects; depth beyond the thresholds is only logged.
func (u *Uploader) Notify(regionID, typeID int, orders []model.Order) {
	batch := model.NewUploadBatch(regionID, typeID, orders)

	depth := u.queue.enqueue(batch)
	if depth < 0 {
		u.logger.Warn("dropping batch, uploader stopped",
			"region_id", regionID,
			"type_id", typeID,
		)
		return
	}

	u.collector.Tally("emdr_send_queued")
	u.collector.Datapoint("emdr_queue_size", int64(depth))

	if depth > queueErrorDepth {
		u.logger.Error("upload queue is backed up", "depth", depth)
	} else if depth > queueWarnDepth {
		u.logger.Warn("upload queue is growing", "depth", depth)
	}
}

func (u *Uploader) worker() {
	defer u.wg.Done()

	for {
		batch, ok := u.queue.dequeue()
		if !ok {
			return
		}
		u.upload(batch)
	}
}

// upload sends one batch. Failures are terminal for the batch: tallied,
// logged, and the data is discarded.
func (u *Uploader) upload(batch model.UploadBatch) {
	env, err := NewEnvelope(batch)
	if err != nil {
		u.collector.Tally("emdr_errored")
		u.logger.Error("failed to build envelope",
			"batch_id", batch.ID,
			"region_id", batch.RegionID,
			"type_id", batch.TypeID,
			"error", err,
		)
		return
	}

	body, err := json.Marshal(env)
	if err != nil {
		u.collector.Tally("emdr_errored")
		u.logger.Error("failed to serialize batch",
			"batch_id", batch.ID,
			"error", err,
		)
		return
	}

	req, err := http.NewRequest(http.MethodPost, u.cfg.EndpointURL, bytes.NewReader(body))
	if err != nil {
		u.collector.Tally("emdr_errored")
		u.logger.Error("failed to build upload request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := u.session.Do(req)
	if err != nil {
		u.collector.Tally("emdr_errored")
		u.logger.Error("upload failed",
			"batch_id", batch.ID,
			"region_id", batch.RegionID,
			"type_id", batch.TypeID,
			"error", err,
		)
		return
	}
	defer resp.Body.Close()

	u.collector.Tally("emdr_sent")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		u.collector.Tally("emdr_errored")
		u.logger.Error("upload rejected",
			"batch_id", batch.ID,
			"region_id", batch.RegionID,
			"type_id", batch.TypeID,
			"status", resp.StatusCode,
			"body", string(respBody),
		)
	}
}
