package api

// RegionsResponse from GET /regions/
type RegionsResponse struct {
	Items []APIRegion `json:"items"`
}

// APIRegion represents a region from the CREST API.
type APIRegion struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Href string `json:"href"`
}

// MarketPricesResponse is one page of GET /market/prices/
type MarketPricesResponse struct {
	Items []APIMarketPrice `json:"items"`
	Next  *PageRef         `json:"next,omitempty"`
}

// PageRef points at the next page of a paginated listing.
type PageRef struct {
	Href string `json:"href"`
}

// APIMarketPrice is one entry in the market prices listing. Only the
// embedded type reference is of interest; the listing is a cheap way to
// enumerate every type that currently has a market.
type APIMarketPrice struct {
	Type          APITypeRef `json:"type"`
	AveragePrice  float64    `json:"averagePrice,omitempty"`
	AdjustedPrice float64    `json:"adjustedPrice,omitempty"`
}

// APITypeRef is a reference to an item type.
type APITypeRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Href string `json:"href"`
}

// OrdersResponse from GET /market/{regionID}/orders/{sell|buy}/
type OrdersResponse struct {
	Items []APIOrder `json:"items"`
}

// APIOrder represents a market order from the CREST API.
type APIOrder struct {
	ID            int64       `json:"id"`
	Price         float64     `json:"price"`
	Volume        int64       `json:"volume"`
	VolumeEntered int64       `json:"volumeEntered"`
	MinVolume     int64       `json:"minVolume"`
	Buy           bool        `json:"buy"`
	Range         string      `json:"range"`
	Issued        string      `json:"issued"`
	Duration      int         `json:"duration"`
	Location      APILocation `json:"location"`
}

// APILocation is the station a market order rests at.
type APILocation struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
