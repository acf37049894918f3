package pool

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/evemarkets/crest-trawler/internal/api"
	"github.com/evemarkets/crest-trawler/internal/model"
)

func newTestPool(size int) *ClientPool {
	return New(size, func() *api.Client {
		return api.NewClient("http://example.invalid")
	}, nil)
}

func TestAcquireRelease(t *testing.T) {
	p := newTestPool(2)

	ctx := context.Background()
	c1, err := p.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	c2, err := p.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if c1 == c2 {
		t.Fatal("pool handed out the same client twice")
	}
	if p.Available() != 0 {
		t.Errorf("Available = %d, want 0", p.Available())
	}

	p.Release(c1)
	p.Release(c2)
	if p.Available() != 2 {
		t.Errorf("Available = %d, want 2", p.Available())
	}
}

func TestAcquireBlocksUntilRelease(t *testing.T) {
	p := newTestPool(1)
	ctx := context.Background()

	c, _ := p.Acquire(ctx)

	acquired := make(chan *api.Client)
	go func() {
		c2, err := p.Acquire(ctx)
		if err != nil {
			t.Error(err)
		}
		acquired <- c2
	}()

	select {
	case <-acquired:
		t.Fatal("Acquire returned while pool was empty")
	case <-time.After(50 * time.Millisecond):
	}

	p.Release(c)

	select {
	case c2 := <-acquired:
		p.Release(c2)
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after Release")
	}
}

func TestAcquireRespectsContext(t *testing.T) {
	p := newTestPool(1)
	ctx := context.Background()

	c, _ := p.Acquire(ctx)
	defer p.Release(c)

	cancelCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	if _, err := p.Acquire(cancelCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire err = %v, want deadline exceeded", err)
	}
}

func TestConcurrentCheckoutNeverExceedsSize(t *testing.T) {
	const size = 3
	p := newTestPool(size)

	var inUse, maxInUse atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := p.With(context.Background(), func(*api.Client) error {
				current := inUse.Add(1)
				defer inUse.Add(-1)
				for {
					old := maxInUse.Load()
					if current <= old || maxInUse.CompareAndSwap(old, current) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				return nil
			})
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if got := maxInUse.Load(); got > size {
		t.Errorf("maxInUse = %d, want <= %d", got, size)
	}
	if p.Available() != size {
		t.Errorf("Available = %d after all releases, want %d", p.Available(), size)
	}
}

func TestWithReleasesOnError(t *testing.T) {
	p := newTestPool(1)

	wantErr := errors.New("fetch failed")
	err := p.With(context.Background(), func(*api.Client) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("With err = %v, want %v", err, wantErr)
	}
	if p.Available() != 1 {
		t.Errorf("client not released after error: Available = %d", p.Available())
	}
}

func TestReleasePurgesMarketCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.OrdersResponse{})
	}))
	defer server.Close()

	p := New(1, func() *api.Client {
		return api.NewClient(server.URL)
	}, nil)

	c, _ := p.Acquire(context.Background())
	if _, err := c.GetSellOrders(context.Background(), 10000002, model.Item{ID: 34, Href: "h"}); err != nil {
		t.Fatal(err)
	}
	if c.CacheSize() == 0 {
		t.Fatal("expected cached market response before release")
	}

	p.Release(c)
	if c.CacheSize() != 0 {
		t.Errorf("cache size = %d after release, want 0", c.CacheSize())
	}
}
