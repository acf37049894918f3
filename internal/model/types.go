package model

import (
	"time"

	"github.com/google/uuid"
)

// Region is a top-level market partition of the game universe.
type Region struct {
	ID   int    // Region ID (e.g., 10000002 = The Forge)
	Name string // Display name
}

// Item is a tradable item type discovered via the market prices listing.
// Immutable once discovered.
type Item struct {
	ID   int    // Type ID (e.g., 34 = Tritanium)
	Name string // Display name
	Href string // Upstream API reference for this type
}

// Order is a single resting buy or sell offer for an item type in a region.
type Order struct {
	ID            int64   // Order ID
	Price         float64 // Price in ISK
	Volume        int64   // Volume remaining
	VolumeEntered int64   // Volume when the order was entered
	MinVolume     int64   // Minimum fill volume
	Buy           bool    // true = buy order, false = sell order
	Range         string  // "station", "solarsystem", "region", or jumps as digits
	Issued        string  // Issue timestamp (ISO 8601 UTC, no offset)
	Duration      int     // Order duration in days
	StationID     int64   // Location (station) ID
}

// UploadBatch is one (region, item) order-book snapshot bound for the
// upload endpoint. Created once per fetch, consumed exactly once, and
// discarded on a failed send.
type UploadBatch struct {
	ID          uuid.UUID // Batch ID, for log correlation
	GeneratedAt string    // Fetch time (ISO 8601 UTC with +00:00 suffix)
	RegionID    int
	TypeID      int
	Orders      []Order
}

// NewUploadBatch stamps a batch with a fresh ID and generation time.
func NewUploadBatch(regionID, typeID int, orders []Order) UploadBatch {
	return UploadBatch{
		ID:          uuid.New(),
		GeneratedAt: TimestampString(time.Now()),
		RegionID:    regionID,
		TypeID:      typeID,
		Orders:      orders,
	}
}

// TimestampString formats t as an ISO 8601 UTC timestamp with an explicit
// "+00:00" suffix and no sub-second component. Some downstream consumers
// are lax about implicit UTC, so the offset is always spelled out.
func TimestampString(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05") + "+00:00"
}
