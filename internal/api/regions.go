package api

import (
	"context"
	"fmt"

	"github.com/evemarkets/crest-trawler/internal/model"
)

// GetRegions fetches all regions.
func (c *Client) GetRegions(ctx context.Context) ([]model.Region, error) {
	var resp RegionsResponse
	if err := c.get(ctx, "/regions/", nil, true, &resp); err != nil {
		return nil, fmt.Errorf("get regions: %w", err)
	}

	regions := make([]model.Region, 0, len(resp.Items))
	for _, r := range resp.Items {
		regions = append(regions, model.Region{ID: r.ID, Name: r.Name})
	}
	return regions, nil
}

// GetTradeRegions fetches all regions and filters them to the polling
// scope (known space plus Thera).
func (c *Client) GetTradeRegions(ctx context.Context) ([]model.Region, error) {
	regions, err := c.GetRegions(ctx)
	if err != nil {
		return nil, err
	}
	return model.FilterRegions(regions), nil
}
