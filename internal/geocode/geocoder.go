package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrNoResult means the provider answered but found nothing usable for
// the query. Transport and timeout failures are returned as wrapped
// errors instead, so callers can tell a bad address from a dead provider.
var ErrNoResult = errors.New("geocode: no result for query")

// Point is a geocoded coordinate in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves a free-text place query to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Point, error)
}

// Client talks to a Nominatim-compatible search endpoint. Concurrent
// lookups for the same query are collapsed into a single request.
type Client struct {
	baseURL string
	http    *http.Client
	group   singleflight.Group
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// nominatim returns lat/lon as decimal strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *Client) Geocode(ctx context.Context, query string) (Point, error) {
	v, err, _ := c.group.Do(query, func() (any, error) {
		return c.lookup(ctx, query)
	})
	if err != nil {
		return Point{}, err
	}
	return v.(Point), nil
}

func (c *Client) lookup(ctx context.Context, query string) (Point, error) {
	u := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Point{}, fmt.Errorf("building geocode request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocode provider returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Point{}, fmt.Errorf("decoding geocode response: %w", err)
	}
	if len(results) == 0 {
		return Point{}, ErrNoResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("parsing latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, fmt.Errorf("parsing longitude %q: %w", results[0].Lon, err)
	}

	return Point{Latitude: lat, Longitude: lon}, nil
}
