package downstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// CarInventory queries the car service for available inventory.
type CarInventory interface {
	Search(ctx context.Context, location, bearer string) (json.RawMessage, error)
	Availability(ctx context.Context, carID, startDate, endDate, bearer string) (bool, error)
}

// CarClient reaches the car inventory service over HTTP.
type CarClient struct {
	client
}

// NewCarClient builds a car service client rooted at base.
func NewCarClient(base string, httpClient *http.Client) *CarClient {
	return &CarClient{client: newClient(base, httpClient)}
}

// Search forwards the location filter and the caller's bearer credential and
// returns the car service response body verbatim.
func (c *CarClient) Search(ctx context.Context, location, bearer string) (json.RawMessage, error) {
	query := url.Values{}
	if location != "" {
		query.Set("location", location)
	}
	return c.doRaw(ctx, http.MethodGet, "/api/cars", query, bearer, "", nil)
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

// Availability reports whether the car can be booked for the date range.
func (c *CarClient) Availability(ctx context.Context, carID, startDate, endDate, bearer string) (bool, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}
	var resp availabilityResponse
	if err := c.do(ctx, http.MethodGet, "/api/cars/"+url.PathEscape(carID)+"/availability", query, bearer, "", nil, &resp); err != nil {
		return false, err
	}
	return resp.Available, nil
}
