package downstream

import (
	"context"
	"net/http"
)

// CreatePaymentInput carries the fields for a new charge.
type CreatePaymentInput struct {
	BookingID string `json:"bookingId"`
	Amount    int64  `json:"amount"`
}

// PaymentProcessor submits charges to the payment service.
type PaymentProcessor interface {
	Create(ctx context.Context, input CreatePaymentInput, idempotencyKey string) error
}

// PaymentClient reaches the payment service over HTTP.
type PaymentClient struct {
	client
}

// NewPaymentClient builds a payment service client rooted at base.
func NewPaymentClient(base string, httpClient *http.Client) *PaymentClient {
	return &PaymentClient{client: newClient(base, httpClient)}
}

// Create submits a charge. The caller's idempotency key is forwarded so a
// retried request cannot double-charge.
func (c *PaymentClient) Create(ctx context.Context, input CreatePaymentInput, idempotencyKey string) error {
	return c.do(ctx, http.MethodPost, "/api/payments", nil, "", idempotencyKey, input, nil)
}
