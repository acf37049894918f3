// Package api provides the CREST market API client.
//
// Endpoints used:
//   - /regions/: all regions with id and name
//   - /market/prices/: paginated listing of every type with a market price
//   - /market/{regionID}/orders/sell/?type={href}: current sell orders
//   - /market/{regionID}/orders/buy/?type={href}: current buy orders
//
// GET responses are cached per client keyed by URL. Market-order entries
// grow without bound under continuous polling, so PurgeMarketCache is
// called each time a client is returned to the pool.
package api
