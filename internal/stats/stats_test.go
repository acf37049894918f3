package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestTallyAndRollover(t *testing.T) {
	c := NewCollector()

	c.Tally("x")
	c.Tally("x")
	c.Tally("x")
	c.TallyN("x", 5)

	// Nothing in history until a window completes.
	if got := c.GetCount("x", 1); got != 0 {
		t.Errorf("GetCount before rollover = %d, want 0", got)
	}

	c.Rollover()

	if got := c.GetCount("x", 1); got != 8 {
		t.Errorf("GetCount(x, 1) = %d, want 8", got)
	}
	if got := c.GetCount("x", 60); got != 8 {
		t.Errorf("GetCount(x, 60) = %d, want 8", got)
	}
}

func TestRolloverResetsCurrentWindow(t *testing.T) {
	c := NewCollector()

	c.TallyN("x", 3)
	c.Rollover()
	c.Rollover()

	// Second window was empty.
	if got := c.GetCount("x", 1); got != 0 {
		t.Errorf("GetCount(x, 1) = %d, want 0", got)
	}
	if got := c.GetCount("x", 2); got != 3 {
		t.Errorf("GetCount(x, 2) = %d, want 3", got)
	}
}

func TestHistoryCappedAtSixtyWindows(t *testing.T) {
	c := NewCollector()

	for i := 0; i < 65; i++ {
		c.Tally("key")
		c.Rollover()
	}

	// 65 rollovers happened but only the newest 60 windows count.
	if got := c.GetCount("key", 60); got != 60 {
		t.Errorf("GetCount(key, 60) = %d, want 60", got)
	}
	// Requests beyond the cap clamp to 60.
	if got := c.GetCount("key", 120); got != 60 {
		t.Errorf("GetCount(key, 120) = %d, want 60", got)
	}
}

func TestGetCountUnknownKey(t *testing.T) {
	c := NewCollector()
	if got := c.GetCount("nope", 60); got != 0 {
		t.Errorf("GetCount(unknown) = %d, want 0", got)
	}
}

func TestDatapoint(t *testing.T) {
	c := NewCollector()

	c.Datapoint("queue_size", 7)
	c.Datapoint("queue_size", 12)

	summary := c.GetSummary()
	if got := summary.Gauges["queue_size"]; got != 12 {
		t.Errorf("gauge = %d, want latest value 12", got)
	}
}

func TestGetSummary(t *testing.T) {
	c := NewCollector()
	c.Start()
	defer c.Stop()

	c.TallyN("orders", 10)
	c.Rollover()
	c.TallyN("orders", 4)
	c.Rollover()
	c.Datapoint("depth", 3)

	summary := c.GetSummary()

	cs, ok := summary.Counters["orders"]
	if !ok {
		t.Fatal("summary missing counter key")
	}
	if cs.OneMin != 4 {
		t.Errorf("1min = %d, want 4", cs.OneMin)
	}
	if cs.FiveMin != 14 {
		t.Errorf("5min = %d, want 14", cs.FiveMin)
	}
	if cs.SixtyMin != 14 {
		t.Errorf("60min = %d, want 14", cs.SixtyMin)
	}
	if summary.Gauges["depth"] != 3 {
		t.Errorf("gauge depth = %d, want 3", summary.Gauges["depth"])
	}
	if summary.UptimeSeconds < 0 {
		t.Errorf("uptime = %d, want >= 0", summary.UptimeSeconds)
	}
}

func TestConcurrentTallies(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Tally("contended")
			}
		}()
	}
	wg.Wait()

	c.Rollover()
	if got := c.GetCount("contended", 1); got != 1000 {
		t.Errorf("GetCount = %d, want 1000", got)
	}
}

func TestBackgroundRollover(t *testing.T) {
	c := NewCollectorInterval(20 * time.Millisecond)
	c.Start()
	defer c.Stop()

	c.TallyN("bg", 2)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if c.GetCount("bg", 60) == 2 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("background rollover never moved the counter into history")
}

func TestWriterOverwritesSnapshotFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "stats.json")

	c := NewCollector()
	c.TallyN("sent", 5)
	c.Rollover()
	c.Datapoint("depth", 1)

	w := NewWriter(c, file, nil)
	if err := w.WriteSnapshot(); err != nil {
		t.Fatal(err)
	}

	c.Datapoint("depth", 9)
	if err := w.WriteSnapshot(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}

	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("snapshot file is not valid JSON: %v", err)
	}
	if summary.Counters["sent"].OneMin != 5 {
		t.Errorf("sent 1min = %d, want 5", summary.Counters["sent"].OneMin)
	}
	// Wholesale rewrite: the file holds only the latest gauge value.
	if summary.Gauges["depth"] != 9 {
		t.Errorf("depth = %d, want 9", summary.Gauges["depth"])
	}
}
