package downstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Booking is the booking service's representation of a reservation. This
// layer reads it only to check ownership; the booking service owns the
// record.
type Booking struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	CarID     string `json:"carId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// CreateBookingInput carries the fields for a new reservation.
type CreateBookingInput struct {
	UserID    string `json:"userId"`
	CarID     string `json:"carId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// BookingStore creates and fetches reservations in the booking service.
type BookingStore interface {
	Create(ctx context.Context, input CreateBookingInput) (json.RawMessage, error)
	Get(ctx context.Context, bookingID string) (Booking, error)
}

// BookingClient reaches the booking service over HTTP.
type BookingClient struct {
	client
}

// NewBookingClient builds a booking service client rooted at base.
func NewBookingClient(base string, httpClient *http.Client) *BookingClient {
	return &BookingClient{client: newClient(base, httpClient)}
}

// Create registers a new reservation and returns the booking service's
// representation verbatim.
func (c *BookingClient) Create(ctx context.Context, input CreateBookingInput) (json.RawMessage, error) {
	return c.doRaw(ctx, http.MethodPost, "/api/bookings", nil, "", "", input)
}

// Get fetches a reservation by ID.
func (c *BookingClient) Get(ctx context.Context, bookingID string) (Booking, error) {
	var booking Booking
	err := c.do(ctx, http.MethodGet, "/api/bookings/"+url.PathEscape(bookingID), nil, "", "", nil, &booking)
	return booking, err
}
