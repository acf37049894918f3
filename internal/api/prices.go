package api

import (
	"context"
	"fmt"

	"github.com/evemarkets/crest-trawler/internal/model"
)

// GetMarketPricesPage fetches one page of the market prices listing.
// pageURL is the absolute URL of the page; empty means the first page.
func (c *Client) GetMarketPricesPage(ctx context.Context, pageURL string) (*MarketPricesResponse, error) {
	var resp MarketPricesResponse
	if pageURL == "" {
		if err := c.get(ctx, "/market/prices/", nil, true, &resp); err != nil {
			return nil, fmt.Errorf("get market prices: %w", err)
		}
		return &resp, nil
	}
	if err := c.getURL(ctx, pageURL, true, &resp); err != nil {
		return nil, fmt.Errorf("get market prices page: %w", err)
	}
	return &resp, nil
}

// GetAllMarketItems drains every page of the market prices listing and
// returns the full set of tradable item types. Enumerating types via
// market prices avoids walking the market group tree, which would take
// one request per group.
func (c *Client) GetAllMarketItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item

	pageURL := ""
	for {
		resp, err := c.GetMarketPricesPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}

		for _, entry := range resp.Items {
			items = append(items, model.Item{
				ID:   entry.Type.ID,
				Name: entry.Type.Name,
				Href: entry.Type.Href,
			})
		}

		if resp.Next == nil || resp.Next.Href == "" {
			break
		}
		pageURL = resp.Next.Href
	}

	return items, nil
}
