package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// APIError represents an error response from the CREST API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("crest api error %d: %s", e.StatusCode, e.Message)
}

// doRequest performs a GET request against the given URL and returns the
// raw body. 4xx/5xx responses become *APIError.
func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// get performs a GET request and unmarshals the JSON response into result.
// When cached is true the response is served from and stored in the
// client's response cache.
func (c *Client) get(ctx context.Context, path string, query url.Values, cached bool, result any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	return c.getURL(ctx, fullURL, cached, result)
}

// getURL is get for an absolute URL, as returned by pagination hrefs.
func (c *Client) getURL(ctx context.Context, fullURL string, cached bool, result any) error {
	if cached {
		if b, ok := c.cache.get(fullURL); ok {
			return json.Unmarshal(b, result)
		}
	}

	body, err := c.doRequest(ctx, fullURL)
	if err != nil {
		return err
	}

	if cached {
		c.cache.put(fullURL, body)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
