package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/evemarkets/crest-trawler/internal/model"
)

// GetSellOrders fetches current sell orders for an item in a region.
func (c *Client) GetSellOrders(ctx context.Context, regionID int, item model.Item) ([]model.Order, error) {
	return c.getOrders(ctx, regionID, item, "sell")
}

// GetBuyOrders fetches current buy orders for an item in a region.
func (c *Client) GetBuyOrders(ctx context.Context, regionID int, item model.Item) ([]model.Order, error) {
	return c.getOrders(ctx, regionID, item, "buy")
}

func (c *Client) getOrders(ctx context.Context, regionID int, item model.Item, side string) ([]model.Order, error) {
	query := url.Values{}
	query.Set("type", item.Href)

	path := "/market/" + strconv.Itoa(regionID) + "/orders/" + side + "/"

	var resp OrdersResponse
	if err := c.get(ctx, path, query, true, &resp); err != nil {
		return nil, fmt.Errorf("get %s orders region %d type %d: %w", side, regionID, item.ID, err)
	}

	orders := make([]model.Order, 0, len(resp.Items))
	for _, o := range resp.Items {
		orders = append(orders, o.ToModel())
	}
	return orders, nil
}

// ToModel converts an APIOrder to model.Order.
func (o *APIOrder) ToModel() model.Order {
	return model.Order{
		ID:            o.ID,
		Price:         o.Price,
		Volume:        o.Volume,
		VolumeEntered: o.VolumeEntered,
		MinVolume:     o.MinVolume,
		Buy:           o.Buy,
		Range:         o.Range,
		Issued:        o.Issued,
		Duration:      o.Duration,
		StationID:     o.Location.ID,
	}
}
