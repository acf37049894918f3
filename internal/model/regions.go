package model

// Wormhole regions have low and irregular market activity, so they are
// excluded from polling. Thera is the one wormhole region with a real
// market and is kept in scope.
const (
	WormholeRegionsStart = 11000000
	TheraRegionID        = 11000031
)

// InScope reports whether a region should be polled.
func InScope(regionID int) bool {
	return regionID < WormholeRegionsStart || regionID == TheraRegionID
}

// FilterRegions returns the in-scope subset of regions, preserving order.
func FilterRegions(regions []Region) []Region {
	out := make([]Region, 0, len(regions))
	for _, r := range regions {
		if InScope(r.ID) {
			out = append(out, r)
		}
	}
	return out
}
