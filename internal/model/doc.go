// Package model defines shared data types for the trawler.
//
// Conventions:
//   - Region and item type IDs are the upstream integer identifiers.
//   - Order timestamps are ISO 8601 UTC strings as received from upstream.
//   - Orders are immutable snapshots of upstream state at fetch time.
package model
