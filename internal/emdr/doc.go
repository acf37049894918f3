// Package emdr implements the upload pipeline to the EVE Market Data
// Relay. Order batches from the trawler are queued without bound,
// serialized into the UUDIF "orders" envelope, and POSTed to the fixed
// upload endpoint by a pool of workers. Delivery is best effort: a
// failed upload is logged and tallied, never retried.
package emdr
