// Package pool provides a fixed-size checkout pool of CREST API clients.
//
// The pool is the synchronization primitive: a client checked out of the
// channel is held exclusively until released, so no handle is ever shared
// by two callers. Released clients have their market-order cache purged
// to bound memory growth under continuous polling.
package pool

import (
	"context"
	"log/slog"

	"github.com/evemarkets/crest-trawler/internal/api"
)

// ClientPool holds a fixed number of API client handles.
type ClientPool struct {
	clients chan *api.Client
	size    int
	logger  *slog.Logger
}

// New creates a pool of size clients, each built by newClient.
func New(size int, newClient func() *api.Client, logger *slog.Logger) *ClientPool {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &ClientPool{
		clients: make(chan *api.Client, size),
		size:    size,
		logger:  logger,
	}
	for i := 0; i < size; i++ {
		p.clients <- newClient()
	}
	return p
}

// Size returns the pool capacity.
func (p *ClientPool) Size() int {
	return p.size
}

// Available returns the number of clients currently checked in.
func (p *ClientPool) Available() int {
	return len(p.clients)
}

// Acquire blocks until a client is available or ctx is done. The caller
// holds the client exclusively and must Release it on every exit path.
func (p *ClientPool) Acquire(ctx context.Context) (*api.Client, error) {
	select {
	case c := <-p.clients:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release purges the client's market cache and returns it to the pool.
func (p *ClientPool) Release(c *api.Client) {
	purged := c.PurgeMarketCache()
	if purged > 0 {
		p.logger.Debug("purged market cache entries", "count", purged)
	}
	p.clients <- c
}

// With acquires a client, runs fn, and releases the client even if fn
// returns an error.
func (p *ClientPool) With(ctx context.Context, fn func(*api.Client) error) error {
	c, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(c)
	return fn(c)
}
