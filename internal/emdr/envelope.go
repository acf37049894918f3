package emdr

import (
	"fmt"
	"strconv"
	"time"

	"github.com/evemarkets/crest-trawler/internal/model"
	"github.com/evemarkets/crest-trawler/internal/version"
)

// Columns is the fixed, positional column order of UUDIF order rows.
// Rows are arrays, not objects, and must match this order exactly.
var Columns = []string{
	"price", "volRemaining", "range", "orderID", "volEntered",
	"minVolume", "bid", "issueDate", "duration", "stationID", "solarSystemID",
}

// Envelope is the UUDIF v0.1 "orders" document.
type Envelope struct {
	ResultType  string      `json:"resultType"`
	Version     string      `json:"version"`
	UploadKeys  []UploadKey `json:"uploadKeys"`
	Generator   Generator   `json:"generator"`
	CurrentTime string      `json:"currentTime"`
	Columns     []string    `json:"columns"`
	Rowsets     []Rowset    `json:"rowsets"`
}

// UploadKey identifies an upload key holder. The trawler sends none.
type UploadKey struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// Generator identifies the producing software.
type Generator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Rowset holds the order rows for one (region, type) pair.
type Rowset struct {
	GeneratedAt string  `json:"generatedAt"`
	RegionID    int     `json:"regionID"`
	TypeID      int     `json:"typeID"`
	Rows        [][]any `json:"rows"`
}

// RangeAdapter maps an upstream order range to its UUDIF numeric form.
// Anything that is neither a named scope nor a plain jump count is an
// error; inventing a scope for it would misreport the order.
func RangeAdapter(rangeStr string) (int, error) {
	switch rangeStr {
	case "station":
		return -1, nil
	case "solarsystem":
		return 0, nil
	case "region":
		return 32767, nil
	}
	jumps, err := strconv.Atoi(rangeStr)
	if err != nil {
		return 0, fmt.Errorf("unrecognized order range %q", rangeStr)
	}
	return jumps, nil
}

// orderRow lays out one order in Columns order. solarSystemID is not
// available from upstream and is always null.
func orderRow(o model.Order) ([]any, error) {
	rng, err := RangeAdapter(o.Range)
	if err != nil {
		return nil, err
	}
	return []any{
		o.Price,
		o.Volume,
		rng,
		o.ID,
		o.VolumeEntered,
		o.MinVolume,
		o.Buy,
		o.Issued + "+00:00",
		o.Duration,
		o.StationID,
		nil,
	}, nil
}

// NewEnvelope builds the UUDIF document for one upload batch. A
// malformed order range fails the whole batch.
func NewEnvelope(batch model.UploadBatch) (Envelope, error) {
	rows := make([][]any, 0, len(batch.Orders))
	for _, o := range batch.Orders {
		row, err := orderRow(o)
		if err != nil {
			return Envelope{}, err
		}
		rows = append(rows, row)
	}

	return Envelope{
		ResultType: "orders",
		Version:    "0.1",
		UploadKeys: []UploadKey{},
		Generator: Generator{
			Name:    "crest-trawler",
			Version: version.Version,
		},
		CurrentTime: model.TimestampString(time.Now()),
		Columns:     Columns,
		Rowsets: []Rowset{
			{
				GeneratedAt: batch.GeneratedAt,
				RegionID:    batch.RegionID,
				TypeID:      batch.TypeID,
				Rows:        rows,
			},
		},
	}, nil
}
