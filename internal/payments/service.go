package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/carhive/carhive/internal/downstream"
	"github.com/carhive/carhive/internal/notification"
)

// ErrNotOwner reports a charge attempt against a booking that does not exist
// or belongs to a different user. The two cases are deliberately not
// distinguished in the response.
var ErrNotOwner = errors.New("booking not found or not owned by caller")

// ErrValidation reports missing payment input.
var ErrValidation = errors.New("validation")

// Service orchestrates a charge: the booking is fetched and its ownership
// checked before any money moves. No compensation runs if the charge fails
// after the booking exists; the payment service owns retry semantics.
type Service struct {
	bookings downstream.BookingStore
	payments downstream.PaymentProcessor
	notifier notification.Notifier
}

// NewService constructs a payment service.
func NewService(bookings downstream.BookingStore, payments downstream.PaymentProcessor, notifier notification.Notifier) *Service {
	return &Service{bookings: bookings, payments: payments, notifier: notifier}
}

// PayInput captures the data needed to charge a booking.
type PayInput struct {
	UserID         string
	BookingID      string
	Amount         int64
	IdempotencyKey string
}

// Pay verifies ownership of the booking and submits the charge, forwarding
// the caller's idempotency key to the payment service.
func (s *Service) Pay(ctx context.Context, input PayInput) error {
	if input.BookingID == "" {
		return fmt.Errorf("%w: booking_id is required", ErrValidation)
	}
	if input.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	booking, err := s.bookings.Get(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, downstream.ErrNotFound) {
			return ErrNotOwner
		}
		return err
	}
	if booking.ID == "" || booking.UserID != input.UserID {
		return ErrNotOwner
	}

	if err := s.payments.Create(ctx, downstream.CreatePaymentInput{
		BookingID: input.BookingID,
		Amount:    input.Amount,
	}, input.IdempotencyKey); err != nil {
		return err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindPaymentReceived,
			Destination: input.UserID,
			Body:        fmt.Sprintf("Payment of %d received for booking %s", input.Amount, input.BookingID),
		})
	}

	return nil
}
