// Package trawler implements the polling scheduler.
//
// Items are kept in a priority queue keyed by the wall-clock time their
// previous full poll cycle completed (0 for the initial seeding), so the
// least recently polled item is always dequeued next. Each dequeued item
// is processed by a bounded worker pool: every in-scope region's sell
// and buy orders are fetched through a pooled API client, listeners are
// notified per region, and the item is re-enqueued with a fresh
// priority. The scheduler runs until its context is cancelled; there is
// no terminal state for an item.
//
// Fairness is approximate, not strict round-robin: re-enqueue priorities
// are wall-clock timestamps, which guarantees no starvation but no exact
// inter-item timing.
package trawler
